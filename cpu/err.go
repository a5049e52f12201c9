package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted          = errors.New(f("cpu halted"))
	ErrAddressRange    = errors.New(f("address out of range"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrStackBounds     = errors.New(f("stack out of bounds"))
	ErrProgramSize     = errors.New(f("program larger than memory"))

	// Instruction decode errors
	ErrOpcodeUnknown  = errors.New(f("unknown opcode"))
	ErrAluUnsupported = errors.New(f("unsupported alu operation"))
	ErrDivisionByZero = errors.New(f("division by zero"))

	// Loader errors
	ErrLoadSyntax = errors.New(f("not a binary byte"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrOperandCount    = errors.New(f("wrong number of operands"))
	ErrValueRange      = errors.New(f("value out of byte range"))
	ErrValueMissing    = errors.New(f("value missing"))
)

var (
	ErrStackOverflow  error = ErrStack(f("stack overflow"))
	ErrStackUnderflow error = ErrStack(f("stack underflow"))
)

// ErrStack is a stack access outside of memory. It matches ErrStackBounds.
type ErrStack string

func (es ErrStack) Error() string {
	return string(es)
}

func (es ErrStack) Is(err error) bool {
	return err == ErrStackBounds
}

// ErrLabelMissing is returned for a reference to an undefined label.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrOpcode locates an execution failure.
type ErrOpcode struct {
	Opcode Opcode
	Pc     int
}

func (eo ErrOpcode) Error() string {
	return f("pc 0x%02x opcode 0x%02x %v", eo.Pc, byte(eo.Opcode), eo.Opcode.String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
