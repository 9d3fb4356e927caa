package types

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Instruction describes a single decoded instruction from a contract's disassembly listing, along with the program
// counter it occupies.
type Instruction struct {
	// PC is the program counter (byte offset) of the instruction within the bytecode.
	PC int

	// Op is the resolved opcode.
	Op vm.OpCode

	// OpName is the opcode token as it appeared in the disassembly.
	OpName string

	// Size is the total byte size of the instruction, including any immediate push operand.
	Size int

	// Operand holds the immediate operand of push-family instructions, nil otherwise.
	Operand *uint256.Int
}

// ParseOpcodes walks a space-separated disassembly listing and decodes it into instructions with accumulated program
// counters. A push-family opcode of declared size n occupies n+1 bytes and consumes the following token as its
// immediate operand; every other opcode occupies a single byte.
// Returns the decoded instructions, or an error if a push operand could not be parsed.
func ParseOpcodes(opcodes string) ([]Instruction, error) {
	var instructions []Instruction

	tokens := strings.Fields(opcodes)
	pc := 0
	skipNext := false

	for i, token := range tokens {
		// A token following a sized push is that push's immediate operand, not an instruction of its own.
		if skipNext {
			skipNext = false
			continue
		}

		instruction := Instruction{
			PC:     pc,
			Op:     vm.StringToOp(token),
			OpName: token,
			Size:   1,
		}

		// Determine whether this is a sized push (PUSH1..PUSH32). PUSH0 carries no operand and occupies one byte
		// like any other opcode.
		if n, isPush := pushOperandSize(token); isPush && n > 0 {
			if i+1 >= len(tokens) {
				return nil, errors.Errorf("disassembly ends with %s but no operand follows", token)
			}
			operand, err := parsePushOperand(tokens[i+1])
			if err != nil {
				return nil, errors.Wrapf(err, "could not parse operand of %s at pc %d", token, pc)
			}
			instruction.Size = n + 1
			instruction.Operand = operand
			skipNext = true
		}

		instructions = append(instructions, instruction)
		pc += instruction.Size
	}

	return instructions, nil
}

// pushOperandSize returns the operand byte count declared by a push-family opcode token and whether the token is a
// push at all.
func pushOperandSize(token string) (int, bool) {
	if !strings.HasPrefix(token, "PUSH") {
		return 0, false
	}
	suffix := token[len("PUSH"):]
	if suffix == "" {
		// Legacy "PUSH" token, treated as PUSH1.
		return 1, true
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parsePushOperand parses a push immediate token ("0x..." or bare hex) into a 256-bit value. Compiler output is not
// minimally encoded, so leading zeros are accepted.
func parsePushOperand(token string) (*uint256.Int, error) {
	token = strings.TrimPrefix(strings.TrimPrefix(token, "0x"), "0X")
	if len(token)%2 != 0 {
		token = "0" + token
	}
	raw, err := hex.DecodeString(token)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(raw) > 32 {
		return nil, errors.Errorf("push operand is %d bytes, exceeding the 32 byte maximum", len(raw))
	}
	return new(uint256.Int).SetBytes(raw), nil
}
