package cpu

import (
	"fmt"
	"strings"
)

// Opcode is an LS-8 instruction byte.
//
// Bit layout, high to low:
//
//	AABCDDDD
//	AA   operand count (0-2)
//	B    ALU operation
//	C    sets PC directly
//	DDDD instruction identifier
type Opcode byte

const (
	LDI  = Opcode(0b10000010) // reg, immediate
	PRN  = Opcode(0b01000111) // reg
	HLT  = Opcode(0b00000001)
	POP  = Opcode(0b01000110) // reg
	PUSH = Opcode(0b01000101) // reg
	CALL = Opcode(0b01010000) // reg
	RET  = Opcode(0b00010001)
	JMP  = Opcode(0b01010100) // reg
	JEQ  = Opcode(0b01010101) // reg
	JNE  = Opcode(0b01010110) // reg
	ADD  = Opcode(0b10100000) // regA, regB
	SUB  = Opcode(0b10100001) // regA, regB
	MUL  = Opcode(0b10100010) // regA, regB
	DIV  = Opcode(0b10100011) // regA, regB
	CMP  = Opcode(0b10100111) // regA, regB
)

const (
	OPCODE_OPERANDS_SHIFT = 6
	OPCODE_ALU            = 0b0010_0000
	OPCODE_SETS_PC        = 0b0001_0000
	OPCODE_ID_MASK        = 0b0000_1111
)

// OperandKind describes what an operand byte refers to.
//
//go:generate go tool stringer -linecomment -type=OperandKind
type OperandKind int

const (
	OPERAND_REGISTER  = OperandKind(0) // register
	OPERAND_IMMEDIATE = OperandKind(1) // immediate
)

// opcodeInfo is the mnemonic and operand layout of a known opcode.
type opcodeInfo struct {
	Mnemonic string
	Operands []OperandKind
}

var opcodeTable = map[Opcode]opcodeInfo{
	LDI:  {"LDI", []OperandKind{OPERAND_REGISTER, OPERAND_IMMEDIATE}},
	PRN:  {"PRN", []OperandKind{OPERAND_REGISTER}},
	HLT:  {"HLT", nil},
	POP:  {"POP", []OperandKind{OPERAND_REGISTER}},
	PUSH: {"PUSH", []OperandKind{OPERAND_REGISTER}},
	CALL: {"CALL", []OperandKind{OPERAND_REGISTER}},
	RET:  {"RET", nil},
	JMP:  {"JMP", []OperandKind{OPERAND_REGISTER}},
	JEQ:  {"JEQ", []OperandKind{OPERAND_REGISTER}},
	JNE:  {"JNE", []OperandKind{OPERAND_REGISTER}},
	ADD:  {"ADD", []OperandKind{OPERAND_REGISTER, OPERAND_REGISTER}},
	SUB:  {"SUB", []OperandKind{OPERAND_REGISTER, OPERAND_REGISTER}},
	MUL:  {"MUL", []OperandKind{OPERAND_REGISTER, OPERAND_REGISTER}},
	DIV:  {"DIV", []OperandKind{OPERAND_REGISTER, OPERAND_REGISTER}},
	CMP:  {"CMP", []OperandKind{OPERAND_REGISTER, OPERAND_REGISTER}},
}

var mnemonicTable = func() map[string]Opcode {
	table := make(map[string]Opcode, len(opcodeTable))
	for op, info := range opcodeTable {
		table[info.Mnemonic] = op
	}
	return table
}()

// LookupOpcode finds the opcode for a mnemonic, ignoring case.
func LookupOpcode(mnemonic string) (op Opcode, ok bool) {
	op, ok = mnemonicTable[strings.ToUpper(mnemonic)]
	return
}

// OperandCount returns the number of operand bytes following the opcode.
func (op Opcode) OperandCount() int {
	return int(op >> OPCODE_OPERANDS_SHIFT)
}

// IsAlu returns true if the opcode is routed to the ALU.
func (op Opcode) IsAlu() bool {
	return (op & OPCODE_ALU) != 0
}

// SetsPc returns true if the opcode may set PC directly.
func (op Opcode) SetsPc() bool {
	return (op & OPCODE_SETS_PC) != 0
}

// Id returns the instruction identifier bits.
func (op Opcode) Id() int {
	return int(op & OPCODE_ID_MASK)
}

// Known returns true if the opcode is in the instruction table.
func (op Opcode) Known() bool {
	_, ok := opcodeTable[op]
	return ok
}

// Operands returns the operand layout of a known opcode.
func (op Opcode) Operands() []OperandKind {
	return opcodeTable[op].Operands
}

// Size is the number of bytes the instruction occupies, opcode included.
func (op Opcode) Size() int {
	return 1 + op.OperandCount()
}

// String returns the mnemonic, or the binary value for unknown opcodes.
func (op Opcode) String() string {
	info, ok := opcodeTable[op]
	if !ok {
		return fmt.Sprintf("0b%08b", byte(op))
	}
	return info.Mnemonic
}

// Disassemble renders the instruction with its operands.
func (op Opcode) Disassemble(operands ...byte) string {
	words := []string{op.String()}
	for n, kind := range op.Operands() {
		if n >= len(operands) {
			break
		}
		switch kind {
		case OPERAND_REGISTER:
			words = append(words, fmt.Sprintf("R%d", operands[n]))
		case OPERAND_IMMEDIATE:
			words = append(words, fmt.Sprintf("%d", operands[n]))
		}
	}

	if len(words) == 1 {
		return words[0]
	}

	return words[0] + " " + strings.Join(words[1:], ",")
}
