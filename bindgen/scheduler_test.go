package bindgen

import (
	"testing"

	"github.com/Icontee/wake/compilation/types"
	"github.com/stretchr/testify/assert"
)

// schedulerUnits builds source units from a name→imports adjacency description.
func schedulerUnits(imports map[string][]string) []*types.SourceUnit {
	units := make([]*types.SourceUnit, 0, len(imports))
	id := types.NodeID(1)
	for name, imported := range imports {
		units = append(units, &types.SourceUnit{NodeID: id, Name: name, Imports: imported})
		id++
	}
	return units
}

// runScheduler executes a scheduler over the given adjacency and returns the flush order.
func runScheduler(t *testing.T, imports map[string][]string) ([]string, [][]string) {
	scheduler := newUnitScheduler(schedulerUnits(imports))
	var order []string
	err := scheduler.run(func(unitName string) error {
		order = append(order, unitName)
		return nil
	})
	assert.NoError(t, err)
	return order, scheduler.cycles
}

// TestSchedulerImportedUnitsFlushFirst ensures every imported unit is flushed before its importers.
func TestSchedulerImportedUnitsFlushFirst(t *testing.T) {
	t.Parallel()

	order, cycles := runScheduler(t, map[string][]string{
		"c.sol": {"b.sol"},
		"b.sol": {"a.sol"},
		"a.sol": {},
		"d.sol": {"a.sol", "b.sol"},
	})
	assert.EqualValues(t, []string{"a.sol", "b.sol", "c.sol", "d.sol"}, order)
	assert.Empty(t, cycles)
}

// TestSchedulerDeterministicOrder ensures independent units flush in lexicographic order regardless of input
// ordering.
func TestSchedulerDeterministicOrder(t *testing.T) {
	t.Parallel()

	order, _ := runScheduler(t, map[string][]string{
		"z.sol": {},
		"m.sol": {},
		"a.sol": {},
	})
	assert.EqualValues(t, []string{"a.sol", "m.sol", "z.sol"}, order)
}

// TestSchedulerCycleFlushesAsGroup ensures a closed import cycle flushes together, is reported exactly once, and
// does not stall units outside it.
func TestSchedulerCycleFlushesAsGroup(t *testing.T) {
	t.Parallel()

	order, cycles := runScheduler(t, map[string][]string{
		"a.sol": {"c.sol"},
		"b.sol": {"a.sol"},
		"c.sol": {"b.sol"},
		"d.sol": {"a.sol"},
		"e.sol": {},
	})
	assert.EqualValues(t, []string{"a.sol", "b.sol", "c.sol", "d.sol", "e.sol"}, order)
	assert.EqualValues(t, [][]string{{"a.sol", "b.sol", "c.sol"}}, cycles)
}

// TestSchedulerUnknownImportsIgnored ensures imports referencing units outside the build do not block scheduling.
func TestSchedulerUnknownImportsIgnored(t *testing.T) {
	t.Parallel()

	order, cycles := runScheduler(t, map[string][]string{
		"a.sol": {"vendor/external.sol"},
	})
	assert.EqualValues(t, []string{"a.sol"}, order)
	assert.Empty(t, cycles)
}

// TestSchedulerFlushErrorStopsRun ensures a flush error aborts the run immediately.
func TestSchedulerFlushErrorStopsRun(t *testing.T) {
	t.Parallel()

	scheduler := newUnitScheduler(schedulerUnits(map[string][]string{
		"a.sol": {},
		"b.sol": {"a.sol"},
	}))
	flushed := 0
	err := scheduler.run(func(unitName string) error {
		flushed++
		return assert.AnError
	})
	assert.Error(t, err)
	assert.EqualValues(t, 1, flushed)
}
