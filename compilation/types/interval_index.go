package types

// IntervalNode associates a byte range of a source file with the AST node spanning it. SubtreeDepth is the height
// of the subtree rooted at the node; among nodes whose ranges envelop the same position, a smaller subtree depth
// means a more specific match.
type IntervalNode struct {
	// Start is the inclusive byte offset at which the node's source range begins.
	Start int

	// End is the exclusive byte offset at which the node's source range ends.
	End int

	// SubtreeDepth is the height of the AST subtree rooted at Node.
	SubtreeDepth int

	// Node is the AST node spanning [Start, End).
	Node Node
}

// IntervalIndex maps byte ranges of a single source file onto the AST nodes spanning them, supporting
// most-specific-node lookups by position. It is supplied by the compiler front end alongside each unit's AST.
type IntervalIndex struct {
	nodes []IntervalNode
}

// NewIntervalIndex returns an empty interval index.
func NewIntervalIndex() *IntervalIndex {
	return &IntervalIndex{}
}

// Add records a node's source range in the index.
func (x *IntervalIndex) Add(node IntervalNode) {
	x.nodes = append(x.nodes, node)
}

// Envelop returns every recorded node whose range fully contains [start, end), in insertion order.
func (x *IntervalIndex) Envelop(start int, end int) []IntervalNode {
	var enveloping []IntervalNode
	for _, node := range x.nodes {
		if node.Start <= start && end <= node.End {
			enveloping = append(enveloping, node)
		}
	}
	return enveloping
}

// MostSpecific returns the node with the smallest subtree depth whose range fully contains [start, end), or nil if
// no recorded range does. Ties keep the earliest-inserted node so repeated lookups stay deterministic.
func (x *IntervalIndex) MostSpecific(start int, end int) *IntervalNode {
	var best *IntervalNode
	for i := range x.nodes {
		node := &x.nodes[i]
		if node.Start <= start && end <= node.End {
			if best == nil || node.SubtreeDepth < best.SubtreeDepth {
				best = node
			}
		}
	}
	return best
}
