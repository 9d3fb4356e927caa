package bindgen

import (
	"container/heap"
	"sort"

	"github.com/Icontee/wake/compilation/types"
)

// unitScheduler orders source units so every imported unit is flushed before its importers, which lets name
// resolution during emission assume dependencies were already sanitized. Import cycles are collapsed into groups
// that flush together, members in lexicographic order, and are reported through cycles after a run.
type unitScheduler struct {
	dependencies map[string][]string
	dependents   map[string][]string
	names        []string

	// cycles lists each group of units that import each other, members sorted, populated by run.
	cycles [][]string
}

// newUnitScheduler builds the import graph of a set of units. Imports referring to units outside the build are
// ignored; the compiler front end only includes units it fully resolved.
func newUnitScheduler(units []*types.SourceUnit) *unitScheduler {
	known := make(map[string]struct{}, len(units))
	for _, unit := range units {
		known[unit.Name] = struct{}{}
	}

	scheduler := &unitScheduler{
		dependencies: make(map[string][]string, len(units)),
		dependents:   make(map[string][]string, len(units)),
		names:        make([]string, 0, len(units)),
	}
	for _, unit := range units {
		scheduler.names = append(scheduler.names, unit.Name)
		for _, imported := range unit.Imports {
			if _, exists := known[imported]; !exists || imported == unit.Name {
				continue
			}
			scheduler.dependencies[unit.Name] = append(scheduler.dependencies[unit.Name], imported)
			scheduler.dependents[imported] = append(scheduler.dependents[imported], unit.Name)
		}
	}
	sort.Strings(scheduler.names)
	return scheduler
}

// run flushes every unit, dependencies first. Strongly connected import groups are flushed as one step once all
// of their external dependencies are done, and runnable steps are drained in lexicographic order so the overall
// flush order is deterministic for a given build.
func (s *unitScheduler) run(flush func(unitName string) error) error {
	groups := s.stronglyConnectedGroups()

	groupOf := make(map[string]*unitGroup, len(s.names))
	for _, group := range groups {
		for _, member := range group.members {
			groupOf[member] = group
		}
		if len(group.members) > 1 {
			s.cycles = append(s.cycles, group.members)
		}
	}
	sort.Slice(s.cycles, func(i, j int) bool { return s.cycles[i][0] < s.cycles[j][0] })

	// Count dependencies between groups; edges inside a group dissolve when it collapses.
	blocked := make(map[*unitGroup]map[*unitGroup]struct{})
	for _, name := range s.names {
		for _, dependency := range s.dependencies[name] {
			from, to := groupOf[dependency], groupOf[name]
			if from == to {
				continue
			}
			if blocked[to] == nil {
				blocked[to] = make(map[*unitGroup]struct{})
			}
			blocked[to][from] = struct{}{}
		}
	}

	frontier := &groupHeap{}
	heap.Init(frontier)
	for _, group := range groups {
		if len(blocked[group]) == 0 {
			heap.Push(frontier, group)
		}
	}

	for frontier.Len() > 0 {
		group := heap.Pop(frontier).(*unitGroup)
		for _, member := range group.members {
			if err := flush(member); err != nil {
				return err
			}
		}
		released := make(map[*unitGroup]struct{})
		for _, member := range group.members {
			for _, dependent := range s.dependents[member] {
				if next := groupOf[dependent]; next != group {
					released[next] = struct{}{}
				}
			}
		}
		for next := range released {
			delete(blocked[next], group)
			if len(blocked[next]) == 0 {
				heap.Push(frontier, next)
				delete(blocked, next)
			}
		}
	}

	return nil
}

// unitGroup is one strongly connected component of the import graph, members sorted lexicographically. A group of
// one is the common case; larger groups are import cycles.
type unitGroup struct {
	members []string
}

// stronglyConnectedGroups runs Tarjan's algorithm, iteratively to stay safe on deep import chains.
func (s *unitScheduler) stronglyConnectedGroups() []*unitGroup {
	const unvisited = -1
	index := make(map[string]int, len(s.names))
	lowLink := make(map[string]int, len(s.names))
	onStack := make(map[string]bool, len(s.names))
	var stack []string
	var groups []*unitGroup
	counter := 0

	for _, name := range s.names {
		index[name] = unvisited
	}

	type frame struct {
		name string
		next int
	}
	for _, root := range s.names {
		if index[root] != unvisited {
			continue
		}
		callStack := []frame{{name: root}}
		index[root] = counter
		lowLink[root] = counter
		counter++
		stack = append(stack, root)
		onStack[root] = true

		for len(callStack) > 0 {
			top := &callStack[len(callStack)-1]
			if top.next < len(s.dependencies[top.name]) {
				dependency := s.dependencies[top.name][top.next]
				top.next++
				if index[dependency] == unvisited {
					index[dependency] = counter
					lowLink[dependency] = counter
					counter++
					stack = append(stack, dependency)
					onStack[dependency] = true
					callStack = append(callStack, frame{name: dependency})
				} else if onStack[dependency] && index[dependency] < lowLink[top.name] {
					lowLink[top.name] = index[dependency]
				}
				continue
			}

			finished := *top
			callStack = callStack[:len(callStack)-1]
			if len(callStack) > 0 {
				parent := &callStack[len(callStack)-1]
				if lowLink[finished.name] < lowLink[parent.name] {
					lowLink[parent.name] = lowLink[finished.name]
				}
			}
			if lowLink[finished.name] == index[finished.name] {
				group := &unitGroup{}
				for {
					member := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[member] = false
					group.members = append(group.members, member)
					if member == finished.name {
						break
					}
				}
				sort.Strings(group.members)
				groups = append(groups, group)
			}
		}
	}
	return groups
}

// groupHeap orders runnable groups by their lexicographically smallest member.
type groupHeap []*unitGroup

func (h groupHeap) Len() int            { return len(h) }
func (h groupHeap) Less(i, j int) bool  { return h[i].members[0] < h[j].members[0] }
func (h groupHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *groupHeap) Push(x any)         { *h = append(*h, x.(*unitGroup)) }
func (h *groupHeap) Pop() any {
	old := *h
	last := old[len(old)-1]
	*h = old[:len(old)-1]
	return last
}
