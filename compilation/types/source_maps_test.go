package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseSourceMapFieldInheritance verifies that empty entries and empty fields within an entry inherit the
// previously seen values, per the compact source-map encoding.
func TestParseSourceMapFieldInheritance(t *testing.T) {
	t.Parallel()

	sourceMap, err := ParseSourceMap("0:10:0:-:0;;5:2;:::i")
	assert.NoError(t, err)
	assert.EqualValues(t, 4, len(sourceMap))

	// Entry 0 is fully specified.
	assert.EqualValues(t, 0, sourceMap[0].Offset)
	assert.EqualValues(t, 10, sourceMap[0].Length)
	assert.EqualValues(t, 0, sourceMap[0].FileID)
	assert.EqualValues(t, SourceMapJumpTypeJumpWithin, sourceMap[0].JumpType)

	// Entry 1 is empty, inheriting everything.
	assert.EqualValues(t, sourceMap[0].Offset, sourceMap[1].Offset)
	assert.EqualValues(t, sourceMap[0].Length, sourceMap[1].Length)
	assert.EqualValues(t, sourceMap[0].FileID, sourceMap[1].FileID)
	assert.EqualValues(t, sourceMap[0].JumpType, sourceMap[1].JumpType)

	// Entry 2 overrides the source range only.
	assert.EqualValues(t, 5, sourceMap[2].Offset)
	assert.EqualValues(t, 2, sourceMap[2].Length)
	assert.EqualValues(t, 0, sourceMap[2].FileID)
	assert.EqualValues(t, SourceMapJumpTypeJumpWithin, sourceMap[2].JumpType)

	// Entry 3 overrides the jump type only.
	assert.EqualValues(t, 5, sourceMap[3].Offset)
	assert.EqualValues(t, 2, sourceMap[3].Length)
	assert.EqualValues(t, SourceMapJumpTypeJumpIn, sourceMap[3].JumpType)

	// Indexes follow entry positions regardless of inheritance.
	for i, element := range sourceMap {
		assert.EqualValues(t, i, element.Index)
	}
}

// TestParseSourceMapEmpty verifies that an empty source map string yields no elements.
func TestParseSourceMapEmpty(t *testing.T) {
	t.Parallel()

	sourceMap, err := ParseSourceMap("")
	assert.NoError(t, err)
	assert.Empty(t, sourceMap)
}

// TestParseSourceMapNegativeFileID verifies that entries with no source attribution carry file identifier -1.
func TestParseSourceMapNegativeFileID(t *testing.T) {
	t.Parallel()

	sourceMap, err := ParseSourceMap("0:5:-1;")
	assert.NoError(t, err)
	assert.EqualValues(t, 2, len(sourceMap))
	assert.EqualValues(t, -1, sourceMap[0].FileID)
	assert.EqualValues(t, -1, sourceMap[1].FileID)
}

// TestGetProgramCounterLookup verifies that source map entries are realigned from instruction indexes onto program
// counters, accounting for multi-byte push instructions.
func TestGetProgramCounterLookup(t *testing.T) {
	t.Parallel()

	instructions, err := ParseOpcodes("PUSH1 0x05 ADD STOP")
	assert.NoError(t, err)
	assert.EqualValues(t, 3, len(instructions))

	sourceMap, err := ParseSourceMap("0:2:0;2:1:0;3:1:0")
	assert.NoError(t, err)

	lookup := sourceMap.GetProgramCounterLookup(instructions)
	assert.EqualValues(t, 3, len(lookup))

	// PUSH1 occupies two bytes, so ADD sits at offset 2 and STOP at offset 3.
	assert.EqualValues(t, 0, lookup[0].Offset)
	assert.EqualValues(t, 2, lookup[2].Offset)
	assert.EqualValues(t, 3, lookup[3].Offset)
	assert.EqualValues(t, 4, lookup[3].End())
}

// TestGetProgramCounterLookupShortMap verifies that a source map shorter than the instruction listing drops the
// trailing instructions rather than failing.
func TestGetProgramCounterLookupShortMap(t *testing.T) {
	t.Parallel()

	instructions, err := ParseOpcodes("PUSH1 0x05 ADD STOP")
	assert.NoError(t, err)

	sourceMap, err := ParseSourceMap("0:2:0")
	assert.NoError(t, err)

	lookup := sourceMap.GetProgramCounterLookup(instructions)
	assert.EqualValues(t, 1, len(lookup))
	assert.Contains(t, lookup, 0)
}
