package cpu

import (
	"errors"
	"strings"

	"github.com/Manu343726/toyasm/pkg/utils"
)

var (
	ErrUnknownRegister = errors.New("unknown register")
)

// Register identifies one of the processor registers
type Register uint8

const (
	// Instruction pointer, aka program counter. Only written by jumps and moves.
	EIP Register = iota
	// Stack pointer. Address used by push and pop, never adjusted by them.
	ESP
	// Accumulator
	EAX
	// Base register
	EBX
	// Counter register
	ECX
	// Data register
	EDX

	// Total registers implemented
	TOTAL_REGISTERS
)

var registerNames = [TOTAL_REGISTERS]string{
	EIP: "eip",
	ESP: "esp",
	EAX: "eax",
	EBX: "ebx",
	ECX: "ecx",
	EDX: "edx",
}

var registerDescriptions = [TOTAL_REGISTERS]string{
	EIP: "program counter, updated by jumps only",
	ESP: "stack pointer, address used by push and pop",
	EAX: "general purpose (accumulator)",
	EBX: "general purpose (base)",
	ECX: "general purpose (counter)",
	EDX: "general purpose (data)",
}

var registersByName = map[string]Register{
	"eip": EIP,
	"esp": ESP,
	"eax": EAX,
	"ebx": EBX,
	"ecx": ECX,
	"edx": EDX,
}

// Returns the lowercase name of the register
func (r Register) String() string {
	if !r.Valid() {
		return "<invalid register>"
	}

	return registerNames[r]
}

// Returns a short description of the register role
func (r Register) Description() string {
	if !r.Valid() {
		return ""
	}

	return registerDescriptions[r]
}

// Checks whether the register belongs to the register set
func (r Register) Valid() bool {
	return r < TOTAL_REGISTERS
}

// Returns all registers in declaration order
func AllRegisters() []Register {
	registers := make([]Register, 0, TOTAL_REGISTERS)

	for r := Register(0); r < TOTAL_REGISTERS; r++ {
		registers = append(registers, r)
	}

	return registers
}

// Finds a register given its name. Names are matched case insensitively.
func LookupRegister(name string) (Register, bool) {
	r, found := registersByName[strings.ToLower(name)]
	return r, found
}

// Like LookupRegister but reports unknown names as ErrUnknownRegister
func ParseRegister(name string) (Register, error) {
	if r, found := LookupRegister(name); found {
		return r, nil
	}

	return 0, utils.MakeError(ErrUnknownRegister, "'%v'", name)
}
