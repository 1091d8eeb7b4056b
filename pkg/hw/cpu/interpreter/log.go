package interpreter

import "slices"

// InstructionLog records, in execution order, the register+value
// instructions that were fully resolved and applied. It only grows until
// explicitly cleared.
type InstructionLog struct {
	entries []string
}

func (l *InstructionLog) Append(line string) {
	l.entries = append(l.entries, line)
}

// Returns a copy of the recorded lines
func (l *InstructionLog) Entries() []string {
	return slices.Clone(l.entries)
}

func (l *InstructionLog) Len() int {
	return len(l.entries)
}

func (l *InstructionLog) Clear() {
	l.entries = nil
}
