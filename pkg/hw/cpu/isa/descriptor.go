package isa

import (
	"fmt"
	"strings"

	"github.com/Manu343726/toyasm/pkg/hw/cpu"
)

// Contains implementation information about the instruction set
type InstructionSetDescriptor struct {
	// Information about instruction opcodes
	OpCodes *OpCodesDescriptor
	// Registers addressable from instructions, in declaration order
	Registers []cpu.Register
}

// Dumps the whole instruction set description as one big multiline string
func (d *InstructionSetDescriptor) Documentation(leftpad int) string {
	leftpad_str := strings.Repeat(" ", leftpad)

	var builder strings.Builder

	builder.WriteString(leftpad_str)
	builder.WriteString(fmt.Sprintf("total supported opcodes: %v\n", d.OpCodes.TotalOpCodes()))
	builder.WriteString(leftpad_str)
	builder.WriteString(fmt.Sprintf("word size (bits): %v\n", cpu.WordBits))
	builder.WriteString(leftpad_str)
	builder.WriteString("syntax: <op> <operand1> [, <operand2>]   ; comment\n")
	builder.WriteString(leftpad_str)
	builder.WriteString("literals: decimal (42) or hexadecimal (0x2A), non negative\n\n")

	builder.WriteString(leftpad_str)
	builder.WriteString("Registers:\n\n")

	for _, r := range d.Registers {
		builder.WriteString(fmt.Sprintf("%v - %-4v %v\n", leftpad_str, r, r.Description()))
	}

	builder.WriteString("\n")
	builder.WriteString(leftpad_str)
	builder.WriteString("Instructions:\n\n")

	for _, op := range d.OpCodes.AllOpCodes() {
		builder.WriteString(fmt.Sprintf("%v - %-20v %v\n", leftpad_str, op, op.Description))
	}

	return builder.String()
}

// Like Documentation(), but with zero leftpad
func (d *InstructionSetDescriptor) DocString() string {
	return d.Documentation(0)
}

// Contains implementation information about the instruction set
var Descriptor InstructionSetDescriptor = InstructionSetDescriptor{
	OpCodes:   &Opcodes,
	Registers: cpu.AllRegisters(),
}
