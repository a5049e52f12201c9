package cpu

// alu performs the requested ALU action on two registers.
// Results are truncated to 8 bits. Only CMP writes the flags register.
func (cpu *Cpu) alu(op Opcode, reg_a, reg_b byte) (err error) {
	if !op.Known() {
		err = ErrAluUnsupported
		return
	}

	a, err := cpu.GetRegister(reg_a)
	if err != nil {
		return
	}
	b, err := cpu.GetRegister(reg_b)
	if err != nil {
		return
	}

	switch op {
	case ADD:
		cpu.Register[reg_a] = a + b
	case SUB:
		cpu.Register[reg_a] = a - b
	case MUL:
		cpu.Register[reg_a] = a * b
	case DIV:
		if b == 0 {
			err = ErrDivisionByZero
			return
		}
		cpu.Register[reg_a] = a / b
	case CMP:
		switch {
		case a == b:
			cpu.Fl = FL_EQUAL
		case a > b:
			cpu.Fl = FL_GREATER
		default:
			cpu.Fl = FL_LESS
		}
	default:
		err = ErrAluUnsupported
	}

	return
}
