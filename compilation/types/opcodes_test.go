package types

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

// TestParseOpcodesProgramCounters verifies that program counters accumulate correctly across push instructions of
// varying declared sizes.
func TestParseOpcodesProgramCounters(t *testing.T) {
	t.Parallel()

	instructions, err := ParseOpcodes("PUSH1 0x80 PUSH2 0x0040 MSTORE PUSH0 STOP")
	assert.NoError(t, err)
	assert.EqualValues(t, 5, len(instructions))

	assert.EqualValues(t, 0, instructions[0].PC)
	assert.EqualValues(t, 2, instructions[0].Size)
	assert.EqualValues(t, 2, instructions[1].PC)
	assert.EqualValues(t, 3, instructions[1].Size)
	assert.EqualValues(t, 5, instructions[2].PC)
	assert.EqualValues(t, "MSTORE", instructions[2].OpName)

	// PUSH0 occupies one byte and consumes no operand token.
	assert.EqualValues(t, 6, instructions[3].PC)
	assert.EqualValues(t, 1, instructions[3].Size)
	assert.Nil(t, instructions[3].Operand)
	assert.EqualValues(t, 7, instructions[4].PC)
}

// TestParseOpcodesPushOperands verifies that push operands are decoded, including non-minimal encodings with
// leading zeros.
func TestParseOpcodesPushOperands(t *testing.T) {
	t.Parallel()

	instructions, err := ParseOpcodes("PUSH2 0x0040 PUSH1 0x5")
	assert.NoError(t, err)
	assert.EqualValues(t, 2, len(instructions))
	assert.EqualValues(t, uint256.NewInt(0x40), instructions[0].Operand)
	assert.EqualValues(t, uint256.NewInt(0x5), instructions[1].Operand)
}

// TestParseOpcodesErrors verifies operand parse failures and truncated listings are reported.
func TestParseOpcodesErrors(t *testing.T) {
	t.Parallel()

	_, err := ParseOpcodes("PUSH1 0xZZ")
	assert.Error(t, err)

	_, err = ParseOpcodes("ADD PUSH2")
	assert.Error(t, err)
}

// TestParseOpcodesEmpty verifies that an empty listing decodes to no instructions.
func TestParseOpcodesEmpty(t *testing.T) {
	t.Parallel()

	instructions, err := ParseOpcodes("")
	assert.NoError(t, err)
	assert.Empty(t, instructions)
}
