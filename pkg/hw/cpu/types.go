package cpu

import "golang.org/x/exp/constraints"

// Word is the value stored in registers and memory cells. Arithmetic on
// words is 32 bit two's complement and wraps on overflow.
type Word int32

// Address identifies a memory cell. Addresses are plain words, usually taken
// from the stack pointer register.
type Address = Word

// WordBits is the width of a Word in bits.
const WordBits = 32

// ToWord truncates any integer to a word, keeping its low 32 bits.
func ToWord[T constraints.Integer](value T) Word {
	return Word(int32(uint32(value)))
}

// Bits returns the raw two's complement bit pattern of the word.
func (w Word) Bits() uint32 {
	return uint32(w)
}
