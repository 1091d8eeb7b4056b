package cpu

import (
	"maps"
)

// Memory is a sparse word addressed memory. Cells never written read as zero
// and there is no bound on the address space.
type Memory struct {
	cells map[Address]Word
}

func NewMemory() *Memory {
	return &Memory{
		cells: make(map[Address]Word),
	}
}

// Returns the value stored at the given address, zero if never written
func (m *Memory) Read(address Address) Word {
	return m.cells[address]
}

// Stores a value at the given address
func (m *Memory) Write(value Word, address Address) {
	m.cells[address] = value
}

// Returns whether the address was ever written
func (m *Memory) Written(address Address) bool {
	_, written := m.cells[address]
	return written
}

// Returns the number of written cells
func (m *Memory) Len() int {
	return len(m.cells)
}

// Returns a copy of all written cells
func (m *Memory) Cells() map[Address]Word {
	return maps.Clone(m.cells)
}

// Forgets every written cell
func (m *Memory) Clear() {
	clear(m.cells)
}
