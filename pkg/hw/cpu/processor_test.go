package cpu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProcessor(t *testing.T) {
	p := NewProcessor()

	for _, r := range AllRegisters() {
		assert.Equal(t, Word(0), p.Get(r), "register %v", r)
	}

	assert.Empty(t, p.Memory())
	assert.Equal(t, Word(0), p.ReadMemory(1234))
}

func TestProcessor_SetGet(t *testing.T) {
	p := NewProcessor()

	p.Set(EAX, 5)
	assert.Equal(t, Word(5), p.Get(EAX))
	assert.Equal(t, Word(0), p.Get(EBX))
}

func TestProcessor_MoveFromRegister(t *testing.T) {
	p := NewProcessor()

	p.Set(EBX, 42)
	p.MoveFromRegister(EAX, EBX)

	assert.Equal(t, Word(42), p.Get(EAX))
	assert.Equal(t, Word(42), p.Get(EBX))
}

func TestProcessor_Jump(t *testing.T) {
	p := NewProcessor()

	p.Jump(0x40)

	assert.Equal(t, Word(0x40), p.Get(EIP))
	assert.Empty(t, p.Memory(), "jump must not fetch or touch memory")
}

func TestProcessor_PushPop(t *testing.T) {
	p := NewProcessor()
	p.Set(ESP, 100)

	p.Push(42)
	p.Pop(EBX)

	assert.Equal(t, Word(42), p.Get(EBX))
	assert.Equal(t, Word(42), p.ReadMemory(100), "pop does not clear memory")
	assert.Equal(t, Word(100), p.Get(ESP), "stack pointer never moves")

	t.Run("push overwrites the same slot", func(t *testing.T) {
		p.Push(1)
		p.Push(2)
		p.Pop(ECX)

		assert.Equal(t, Word(2), p.Get(ECX))
		assert.Len(t, p.Memory(), 1)
	})

	t.Run("pop unwritten slot", func(t *testing.T) {
		p.Set(ESP, 200)
		p.Set(EDX, 9)
		p.Pop(EDX)

		assert.Equal(t, Word(0), p.Get(EDX))
	})
}

func TestProcessor_Arithmetic(t *testing.T) {
	p := NewProcessor()
	p.Set(EAX, 5)

	p.Increment(EAX)
	assert.Equal(t, Word(6), p.Get(EAX))

	p.Decrement(EAX)
	assert.Equal(t, Word(5), p.Get(EAX))

	p.Add(EAX, 3)
	p.Subtract(EAX, 3)
	assert.Equal(t, Word(5), p.Get(EAX))

	p.Xor(EAX, 0)
	assert.Equal(t, Word(5), p.Get(EAX))

	p.Xor(EAX, p.Get(EAX))
	assert.Equal(t, Word(0), p.Get(EAX))
}

func TestProcessor_Wraparound(t *testing.T) {
	p := NewProcessor()

	p.Set(EAX, math.MaxInt32)
	p.Increment(EAX)
	assert.Equal(t, Word(math.MinInt32), p.Get(EAX))

	p.Decrement(EAX)
	assert.Equal(t, Word(math.MaxInt32), p.Get(EAX))

	p.Set(EBX, 0)
	p.Subtract(EBX, math.MinInt32)
	assert.Equal(t, Word(math.MinInt32), p.Get(EBX))
}

func TestProcessor_Snapshots(t *testing.T) {
	p := NewProcessor()
	p.Set(EAX, 1)
	p.Set(ESP, 8)
	p.Push(3)

	registers := p.Registers()
	assert.Len(t, registers, int(TOTAL_REGISTERS))
	assert.Equal(t, Word(1), registers[EAX])
	assert.Equal(t, Word(0), registers[EDX])

	memory := p.Memory()
	assert.Equal(t, map[Address]Word{8: 3}, memory)

	// snapshots are copies
	memory[8] = 100
	registers[EAX] = 100
	assert.Equal(t, Word(3), p.ReadMemory(8))
	assert.Equal(t, Word(1), p.Get(EAX))
}

func TestProcessor_Reset(t *testing.T) {
	p := NewProcessor()
	p.Set(EAX, 1)
	p.Set(ESP, 4)
	p.Push(7)

	p.Reset()

	assert.Equal(t, Word(0), p.Get(EAX))
	assert.Equal(t, Word(0), p.Get(ESP))
	assert.Empty(t, p.Memory())
}
