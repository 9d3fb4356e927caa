package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIntervalIndexMostSpecific verifies that among several nodes enveloping a range, the one with the smallest
// subtree depth is chosen.
func TestIntervalIndexMostSpecific(t *testing.T) {
	t.Parallel()

	unit := &SourceUnit{NodeID: 1, Name: "contracts/a.sol"}
	contract := &ContractDefinition{NodeID: 2, Name: "A"}
	call := &FunctionCall{NodeID: 3}

	index := NewIntervalIndex()
	index.Add(IntervalNode{Start: 0, End: 1000, SubtreeDepth: 9, Node: unit})
	index.Add(IntervalNode{Start: 100, End: 500, SubtreeDepth: 5, Node: contract})
	index.Add(IntervalNode{Start: 200, End: 230, SubtreeDepth: 1, Node: call})

	match := index.MostSpecific(210, 220)
	assert.NotNil(t, match)
	assert.Same(t, Node(call), match.Node)

	// Outside the call's range, the contract is the most specific match.
	match = index.MostSpecific(300, 310)
	assert.NotNil(t, match)
	assert.Same(t, Node(contract), match.Node)

	// Outside every range, no match.
	assert.Nil(t, index.MostSpecific(1500, 1510))
}

// TestIntervalIndexEnvelop verifies all enveloping nodes are returned in insertion order.
func TestIntervalIndexEnvelop(t *testing.T) {
	t.Parallel()

	unit := &SourceUnit{NodeID: 1, Name: "contracts/a.sol"}
	contract := &ContractDefinition{NodeID: 2, Name: "A"}

	index := NewIntervalIndex()
	index.Add(IntervalNode{Start: 0, End: 100, SubtreeDepth: 4, Node: unit})
	index.Add(IntervalNode{Start: 10, End: 50, SubtreeDepth: 2, Node: contract})

	enveloping := index.Envelop(20, 30)
	assert.EqualValues(t, 2, len(enveloping))
	assert.Same(t, Node(unit), enveloping[0].Node)
	assert.Same(t, Node(contract), enveloping[1].Node)
}
