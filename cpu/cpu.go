package cpu

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"os"
)

var _cpu_defines = map[string]string{
	"RAM_SIZE":   fmt.Sprintf("%d", RAM_SIZE),
	"SP_INIT":    fmt.Sprintf("0x%02x", SP_INIT),
	"FL_EQUAL":   fmt.Sprintf("0b%03b", FL_EQUAL),
	"FL_GREATER": fmt.Sprintf("0b%03b", FL_GREATER),
	"FL_LESS":    fmt.Sprintf("0b%03b", FL_LESS),
}

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose bool      // Set to enable verbose logging.
	Output  io.Writer // Destination of PRN output.

	Ram      [RAM_SIZE]byte       // Memory; program text and stack.
	Register [REGISTER_COUNT]byte // Register bank.
	Pc       int                  // Address of the next instruction.
	Sp       int                  // Address of the top of the stack.
	Fl       byte                 // Result of the last CMP.
	Halted   bool                 // Set by HLT.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU writing PRN output to stdout.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Output: os.Stdout,
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears memory and registers.
// - Sets PC to 0, SP to SP_INIT, clears FL.
// - Zeros the tick counter and resumes running.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Ram[:])
	clear(cpu.Register[:])
	cpu.Pc = 0
	cpu.Sp = SP_INIT
	cpu.Fl = 0
	cpu.Halted = false
	cpu.Ticks = 0
}

// LoadBytes copies a binary image into memory starting at address 0.
func (cpu *Cpu) LoadBytes(image []byte) (err error) {
	if len(image) > len(cpu.Ram) {
		err = ErrProgramSize
		return
	}

	copy(cpu.Ram[:], image)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(image))
	}

	return
}

// ReadRam returns the memory data at the memory address.
func (cpu *Cpu) ReadRam(mar int) (mdr byte, err error) {
	if mar < 0 || mar >= len(cpu.Ram) {
		err = ErrAddressRange
		return
	}

	mdr = cpu.Ram[mar]
	return
}

// WriteRam stores the memory data at the memory address.
func (cpu *Cpu) WriteRam(mar int, mdr byte) (err error) {
	if mar < 0 || mar >= len(cpu.Ram) {
		err = ErrAddressRange
		return
	}

	cpu.Ram[mar] = mdr
	return
}

// peekRam reads memory for display, returning 0 outside of memory.
func (cpu *Cpu) peekRam(mar int) byte {
	mdr, _ := cpu.ReadRam(mar)
	return mdr
}

// GetRegister returns the value of a register.
func (cpu *Cpu) GetRegister(index byte) (value byte, err error) {
	if int(index) >= len(cpu.Register) {
		err = ErrRegisterInvalid
		return
	}

	value = cpu.Register[index]
	return
}

// SetRegister sets the value of a register.
func (cpu *Cpu) SetRegister(index byte, value byte) (err error) {
	if int(index) >= len(cpu.Register) {
		err = ErrRegisterInvalid
		return
	}

	cpu.Register[index] = value
	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %02X\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %02X\n", "sp", cpu.Sp)
	text += fmt.Sprintf("% 5s: %03b\n", "fl", cpu.Fl)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: %02X\n", fmt.Sprintf("r%d", n), val)
	}

	return
}

// Trace returns a single line with PC, FL, the instruction bytes at PC, and
// all registers in hexadecimal.
func (cpu *Cpu) Trace() (text string) {
	text = fmt.Sprintf("TRACE: %02X | %02X | %02X %02X %02X |",
		cpu.Pc,
		cpu.Fl,
		cpu.peekRam(cpu.Pc),
		cpu.peekRam(cpu.Pc+1),
		cpu.peekRam(cpu.Pc+2),
	)

	for _, val := range cpu.Register {
		text += fmt.Sprintf(" %02X", val)
	}

	return
}

// Fetch reads the opcode at PC and the operand bytes it takes.
func (cpu *Cpu) Fetch() (op Opcode, operands [2]byte, err error) {
	ir, err := cpu.ReadRam(cpu.Pc)
	if err != nil {
		return
	}

	op = Opcode(ir)
	for n := range op.OperandCount() {
		if n >= len(operands) {
			break
		}
		operands[n], err = cpu.ReadRam(cpu.Pc + 1 + n)
		if err != nil {
			return
		}
	}

	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	if cpu.Verbose {
		log.Print(cpu.Trace())
	}

	op, operands, err := cpu.Fetch()
	if err != nil {
		err = errors.Join(ErrOpcode{Opcode: op, Pc: cpu.Pc}, err)
		return
	}

	err = cpu.Execute(op, operands[0], operands[1])

	return
}

// Execute executes a single decoded instruction.
//
// The next PC defaults to the byte following the operands. Branching
// instructions replace it; PC is only updated if the instruction succeeds.
func (cpu *Cpu) Execute(op Opcode, a, b byte) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode{Opcode: op, Pc: cpu.Pc}, err)
		}
	}()

	next_pc := cpu.Pc + op.Size()

	jump := func(index byte) (err error) {
		target, err := cpu.GetRegister(index)
		if err != nil {
			return
		}
		next_pc = int(target)
		return
	}

	if op.IsAlu() {
		err = cpu.alu(op, a, b)
		if err != nil {
			return
		}
	} else {
		switch op {
		case LDI:
			err = cpu.SetRegister(a, b)
		case PRN:
			var value byte
			value, err = cpu.GetRegister(a)
			if err != nil {
				return
			}
			_, err = fmt.Fprintf(cpu.Output, "%d\n", value)
		case HLT:
			cpu.Halted = true
		case PUSH:
			var value byte
			value, err = cpu.GetRegister(a)
			if err != nil {
				return
			}
			err = cpu.Push(value)
		case POP:
			if int(a) >= len(cpu.Register) {
				err = ErrRegisterInvalid
				return
			}
			var value byte
			value, err = cpu.Pop()
			if err != nil {
				return
			}
			cpu.Register[a] = value
		case CALL:
			var target byte
			target, err = cpu.GetRegister(a)
			if err != nil {
				return
			}
			ret := cpu.Pc + op.Size()
			if ret >= len(cpu.Ram) {
				err = ErrAddressRange
				return
			}
			err = cpu.Push(byte(ret))
			if err != nil {
				return
			}
			next_pc = int(target)
		case RET:
			var ret byte
			ret, err = cpu.Pop()
			if err != nil {
				return
			}
			next_pc = int(ret)
		case JMP:
			err = jump(a)
		case JEQ:
			if (cpu.Fl & FL_EQUAL) != 0 {
				err = jump(a)
			}
		case JNE:
			if (cpu.Fl & FL_EQUAL) == 0 {
				err = jump(a)
			}
		default:
			err = ErrOpcodeUnknown
		}
		if err != nil {
			return
		}
	}

	cpu.Pc = next_pc
	cpu.Ticks++

	if cpu.Verbose && cpu.Halted {
		log.Printf("cpu: halted after %d ticks", cpu.Ticks)
	}

	return
}
