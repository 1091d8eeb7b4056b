package isa

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Manu343726/toyasm/pkg/utils"
)

var ErrInvalidOpCode error = errors.New("invalid instruction opcode")

// Contains implementation information of an instruction opcode
type OpCodeDescriptor struct {
	OpCode      OpCode
	Mnemonic    string
	Family      Family
	Description string
}

func (d *OpCodeDescriptor) String() string {
	return fmt.Sprintf("%v %v", d.Mnemonic, d.Family.Syntax())
}

// Returns information about the implemented opcodes
type OpCodesDescriptor struct {
	descriptors       [TOTAL_OPCODES]OpCodeDescriptor
	mnemonicsToOpCode map[string]OpCode
}

// Returns the descriptor of an opcode
func (d *OpCodesDescriptor) Descriptor(op OpCode) *OpCodeDescriptor {
	if op >= TOTAL_OPCODES {
		return nil
	}

	return &d.descriptors[op]
}

// Returns the descriptors of all implemented opcodes, in opcode order
func (d *OpCodesDescriptor) AllOpCodes() []*OpCodeDescriptor {
	return utils.Iota(int(TOTAL_OPCODES), func(i int) *OpCodeDescriptor { return &d.descriptors[i] })
}

// Number of opcodes implemented
func (d *OpCodesDescriptor) TotalOpCodes() int {
	return int(TOTAL_OPCODES)
}

// Returns the lowercase mnemonic of the opcode
func (d *OpCodesDescriptor) Mnemonic(op OpCode) string {
	if desc := d.Descriptor(op); desc != nil {
		return desc.Mnemonic
	}

	return "<invalid opcode>"
}

// Returns the operand family of the opcode
func (d *OpCodesDescriptor) Family(op OpCode) Family {
	if desc := d.Descriptor(op); desc != nil {
		return desc.Family
	}

	return Family_None
}

// Returns the opcode for the given mnemonic, matched case insensitively
func (d *OpCodesDescriptor) LookupOpCode(mnemonic string) (OpCode, bool) {
	op, found := d.mnemonicsToOpCode[strings.ToLower(mnemonic)]
	return op, found
}

// Returns the opcode corresponding to the given mnemonic
func (d *OpCodesDescriptor) ParseOpCode(mnemonic string) (OpCode, error) {
	if op, found := d.LookupOpCode(mnemonic); found {
		return op, nil
	}

	return 0, utils.MakeError(ErrInvalidOpCode, "'%v'", mnemonic)
}

// Returns all mnemonics sorted alphabetically
func (d *OpCodesDescriptor) Mnemonics() []string {
	mnemonics := utils.Keys(d.mnemonicsToOpCode)
	sort.Strings(mnemonics)
	return mnemonics
}

// Initializes an opcodes descriptor from an opcode -> descriptor table. Every
// opcode must have an entry.
func NewOpCodesDescriptor(table map[OpCode]OpCodeDescriptor) OpCodesDescriptor {
	d := OpCodesDescriptor{
		mnemonicsToOpCode: make(map[string]OpCode, len(table)),
	}

	for _, op := range utils.Iota(int(TOTAL_OPCODES), func(i int) OpCode { return OpCode(i) }) {
		desc, hasOpCode := table[op]
		if !hasOpCode {
			panic(fmt.Sprintf("missing entry for opcode %d in opcodes table", op))
		}

		desc.OpCode = op
		desc.Mnemonic = strings.ToLower(desc.Mnemonic)
		d.descriptors[op] = desc

		if other, duplicated := d.mnemonicsToOpCode[desc.Mnemonic]; duplicated {
			panic(fmt.Sprintf("mnemonic '%v' used by opcodes %d and %d", desc.Mnemonic, other, op))
		}
		d.mnemonicsToOpCode[desc.Mnemonic] = op
	}

	return d
}

var Opcodes OpCodesDescriptor = NewOpCodesDescriptor(map[OpCode]OpCodeDescriptor{
	OpCode_NOP: {
		Mnemonic:    "nop",
		Family:      Family_None,
		Description: "Does nothing",
	},
	OpCode_MOV: {
		Mnemonic:    "mov",
		Family:      Family_RegisterValue,
		Description: "Copies the value into the register",
	},
	OpCode_JMP: {
		Mnemonic:    "jmp",
		Family:      Family_Value,
		Description: "Sets the program counter (eip) to the value. Nothing is fetched",
	},
	OpCode_INCR: {
		Mnemonic:    "incr",
		Family:      Family_Register,
		Description: "Adds one to the register",
	},
	OpCode_DECR: {
		Mnemonic:    "decr",
		Family:      Family_Register,
		Description: "Subtracts one from the register",
	},
	OpCode_PUSH: {
		Mnemonic:    "push",
		Family:      Family_Value,
		Description: "Writes the value into memory at the address held by esp. esp is not modified",
	},
	OpCode_POP: {
		Mnemonic:    "pop",
		Family:      Family_Register,
		Description: "Reads memory at the address held by esp into the register. esp is not modified",
	},
	OpCode_ADD: {
		Mnemonic:    "add",
		Family:      Family_RegisterValue,
		Description: "Adds the value to the register, wrapping around on overflow",
	},
	OpCode_SUB: {
		Mnemonic:    "sub",
		Family:      Family_RegisterValue,
		Description: "Subtracts the value from the register, wrapping around on overflow",
	},
	OpCode_XOR: {
		Mnemonic:    "xor",
		Family:      Family_RegisterValue,
		Description: "Bitwise xor of the register with the value",
	},
})
