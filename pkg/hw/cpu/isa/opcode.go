// Package isa describes the instruction set understood by the toy CPU
// interpreter: op-codes, their mnemonics and the operands each one takes.
package isa

// Represents an instruction opcode
type OpCode uint

const (
	// No-Operation
	OpCode_NOP OpCode = iota
	// Copy a value into a register
	OpCode_MOV
	// Set the program counter
	OpCode_JMP
	// Add one to a register
	OpCode_INCR
	// Subtract one from a register
	OpCode_DECR
	// Store a value at the address held by the stack pointer
	OpCode_PUSH
	// Load the value at the address held by the stack pointer into a register
	OpCode_POP
	// Add a value to a register
	OpCode_ADD
	// Subtract a value from a register
	OpCode_SUB
	// Bitwise xor of a register with a value
	OpCode_XOR

	// Total opcodes implemented
	TOTAL_OPCODES
)

// Returns the mnemonic of the instruction opcode
func (op OpCode) String() string {
	return Opcodes.Mnemonic(op)
}

// Returns the operand family of the opcode
func (op OpCode) Family() Family {
	return Opcodes.Family(op)
}
