package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.Equal(0, cpu.Depth())

	assert.NoError(cpu.Push(0x12))
	assert.Equal(1, cpu.Depth())
	assert.Equal(SP_INIT-1, cpu.Sp)
	assert.Equal(byte(0x12), cpu.Ram[SP_INIT-1])
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.Push(0x12))
	assert.NoError(cpu.Push(0xAB))

	val, err := cpu.Pop()
	assert.NoError(err)
	assert.Equal(byte(0xAB), val)
	assert.Equal(1, cpu.Depth())

	val, err = cpu.Pop()
	assert.NoError(err)
	assert.Equal(byte(0x12), val)
	assert.Equal(0, cpu.Depth())
}

func TestStack_Pop_Empty(t *testing.T) {
	assert := assert.New(t)

	// The stack aliases memory; popping an empty stack reads above SP_INIT.
	cpu := NewCpu()
	cpu.Ram[SP_INIT] = 0x77
	val, err := cpu.Pop()
	assert.NoError(err)
	assert.Equal(byte(0x77), val)
	assert.Equal(-1, cpu.Depth())
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.Push(0x12))
	assert.NoError(cpu.Push(0xAB))

	val, err := cpu.Peek()
	assert.NoError(err)
	assert.Equal(byte(0xAB), val)
	assert.Equal(2, cpu.Depth())
}

func TestStack_Full(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	for i := range SP_INIT {
		assert.NoError(cpu.Push(byte(i)))
	}
	assert.Equal(0, cpu.Sp)

	err := cpu.Push(0xff)
	assert.ErrorIs(err, ErrStackOverflow)
	assert.ErrorIs(err, ErrStackBounds)
	assert.Equal(0, cpu.Sp)
}

func TestStack_Underflow(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	for range RAM_SIZE - SP_INIT {
		_, err := cpu.Pop()
		assert.NoError(err)
	}
	assert.Equal(RAM_SIZE, cpu.Sp)

	_, err := cpu.Pop()
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.ErrorIs(err, ErrStackBounds)
	assert.NotErrorIs(err, ErrStackOverflow)

	_, err = cpu.Peek()
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.Equal(RAM_SIZE, cpu.Sp)
}

func TestStack_PushAboveMemory(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Sp = RAM_SIZE
	assert.NoError(cpu.Push(0x12))
	assert.Equal(RAM_SIZE-1, cpu.Sp)
	assert.Equal(byte(0x12), cpu.Ram[RAM_SIZE-1])

	cpu.Sp = RAM_SIZE + 1
	err := cpu.Push(0x34)
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.ErrorIs(err, ErrStackBounds)
	assert.NotErrorIs(err, ErrStackOverflow)
	assert.Equal(RAM_SIZE+1, cpu.Sp)
}
