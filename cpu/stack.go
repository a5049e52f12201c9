package cpu

// Push decrements SP, then writes the value at the new SP.
func (cpu *Cpu) Push(value byte) (err error) {
	if cpu.Sp-1 < 0 {
		err = ErrStackOverflow
		return
	}

	// SP above memory was popped past the end.
	if cpu.Sp-1 >= len(cpu.Ram) {
		err = ErrStackUnderflow
		return
	}

	cpu.Sp--
	cpu.Ram[cpu.Sp] = value

	return
}

// Pop reads the value at SP, then increments SP.
func (cpu *Cpu) Pop() (value byte, err error) {
	value, err = cpu.Peek()
	if err != nil {
		return
	}

	cpu.Sp++

	return
}

// Peek reads the value at SP without moving it.
func (cpu *Cpu) Peek() (value byte, err error) {
	if cpu.Sp < 0 || cpu.Sp >= len(cpu.Ram) {
		err = ErrStackUnderflow
		return
	}

	value = cpu.Ram[cpu.Sp]
	return
}

// Depth is the number of bytes pushed below SP_INIT.
func (cpu *Cpu) Depth() int {
	return SP_INIT - cpu.Sp
}
