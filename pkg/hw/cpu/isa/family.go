package isa

// Family groups opcodes by the operands they take
type Family uint

const (
	// Takes no effective operands
	Family_None Family = iota
	// Single operand resolved as a value (register contents or literal)
	Family_Value
	// Single operand naming a register
	Family_Register
	// Destination register followed by a source value
	Family_RegisterValue
)

func (f Family) String() string {
	switch f {
	case Family_None:
		return "none"
	case Family_Value:
		return "value"
	case Family_Register:
		return "register"
	case Family_RegisterValue:
		return "register, value"
	default:
		return "<invalid family>"
	}
}

// Returns the operand syntax of the family, as shown in help texts
func (f Family) Syntax() string {
	switch f {
	case Family_Value:
		return "<value>"
	case Family_Register:
		return "<reg>"
	case Family_RegisterValue:
		return "<reg>, <value>"
	default:
		return "<any>"
	}
}

// Returns whether instructions of this family are recorded in the instruction log
func (f Family) Logged() bool {
	return f == Family_RegisterValue
}
