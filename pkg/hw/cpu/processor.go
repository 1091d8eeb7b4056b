// Package cpu implements the toy processor: a fixed register file, a sparse
// memory and the primitive operations every instruction is built from.
//
// Primitives never fail. Operands are resolved and validated by the
// interpreter before any primitive runs, so a primitive always receives a
// valid register and a plain word.
package cpu

// Processor holds the register file and memory of the toy CPU.
type Processor struct {
	registers [TOTAL_REGISTERS]Word
	memory    *Memory
}

// NewProcessor returns a processor with every register and memory cell set to zero
func NewProcessor() *Processor {
	return &Processor{
		memory: NewMemory(),
	}
}

// Returns the current value of a register
func (p *Processor) Get(r Register) Word {
	return p.registers[r]
}

// Overwrites the value of a register. All other mutating primitives end up here.
func (p *Processor) Set(r Register, value Word) {
	p.registers[r] = value
}

// Does nothing
func (p *Processor) Nop() {}

// Copies the value of src into dst
func (p *Processor) MoveFromRegister(dst Register, src Register) {
	p.Set(dst, p.Get(src))
}

// Sets the program counter. Nothing is fetched from the new location.
func (p *Processor) Jump(address Address) {
	p.Set(EIP, address)
}

// Writes a value into memory at the address held by the stack pointer.
// The stack pointer is left untouched.
func (p *Processor) Push(value Word) {
	p.memory.Write(value, p.Get(ESP))
}

// Moves the memory cell addressed by the stack pointer into dst. Neither the
// cell nor the stack pointer are modified.
func (p *Processor) Pop(dst Register) {
	p.Set(dst, p.memory.Read(p.Get(ESP)))
}

func (p *Processor) Increment(r Register) {
	p.Add(r, 1)
}

func (p *Processor) Decrement(r Register) {
	p.Add(r, -1)
}

// Adds value to the register, wrapping around on overflow
func (p *Processor) Add(r Register, value Word) {
	p.Set(r, p.Get(r)+value)
}

// Subtracts value from the register, wrapping around on overflow
func (p *Processor) Subtract(r Register, value Word) {
	p.Add(r, -value)
}

// Bitwise xor of the register with value
func (p *Processor) Xor(r Register, value Word) {
	p.Set(r, p.Get(r)^value)
}

// Returns the memory cell at the given address, zero if never written
func (p *Processor) ReadMemory(address Address) Word {
	return p.memory.Read(address)
}

// Returns a copy of the register file. Every register is present.
func (p *Processor) Registers() map[Register]Word {
	registers := make(map[Register]Word, TOTAL_REGISTERS)

	for _, r := range AllRegisters() {
		registers[r] = p.Get(r)
	}

	return registers
}

// Returns a copy of every memory cell written so far
func (p *Processor) Memory() map[Address]Word {
	return p.memory.Cells()
}

// Puts every register and memory cell back to zero
func (p *Processor) Reset() {
	p.registers = [TOTAL_REGISTERS]Word{}
	p.memory.Clear()
}
