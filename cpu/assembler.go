// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// asmLexer tokenizes LS-8 assembly. Newlines are significant.
var asmLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `;[^\n]*`},
	{Name: "Expr", Pattern: `\$\((?:[^()\n]|\([^()\n]*\))*\)`},
	{Name: "Number", Pattern: `-?(?:0[xX][0-9a-fA-F]+|0[bB][01]+|[0-9]+)`},
	{Name: "Ident", Pattern: `[A-Za-z_.][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[,:]`},
	{Name: "EOL", Pattern: `\n`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
})

type asmSource struct {
	Lines []*asmLine `parser:"@@*"`
}

type asmLine struct {
	Pos    lexer.Position
	Labels []string  `parser:"( @Ident \":\" )*"`
	Instr  *asmInstr `parser:"@@? EOL"`
}

type asmInstr struct {
	Mnemonic string        `parser:"@Ident"`
	Operands []*asmOperand `parser:"( @@ ( \",\"? @@ )* )?"`
}

type asmOperand struct {
	Expr   *string `parser:"  @Expr"`
	Number *string `parser:"| @Number"`
	Name   *string `parser:"| @Ident"`
}

func (opd *asmOperand) String() string {
	switch {
	case opd.Expr != nil:
		return *opd.Expr
	case opd.Number != nil:
		return *opd.Number
	case opd.Name != nil:
		return *opd.Name
	}
	return ""
}

var asmParser = participle.MustBuild[asmSource](
	participle.Lexer(asmLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// Assembler directives.
const (
	DIRECTIVE_EQU = ".EQU" // .equ NAME VALUE
	DIRECTIVE_DB  = "DB"   // DB value, value...
)

// Assembler is a two pass assembler for LS-8 mnemonics.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	predefine map[string]string      // Predefines
	Label     map[string]int         // Map of labels to addresses.
	equate    map[string]*asmOperand // Map of equates.

	value     map[string]int64 // Resolved equates.
	resolving map[string]bool  // Equates being resolved.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a number.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// registerOf returns the register index named by an operand, following equates.
func (asm *Assembler) registerOf(opd *asmOperand) (index byte, err error) {
	for range 8 {
		if opd.Name == nil {
			break
		}
		name := *opd.Name
		equ, ok := asm.equate[name]
		if ok {
			opd = equ
			continue
		}
		if len(name) == 2 && (name[0] == 'R' || name[0] == 'r') && name[1] >= '0' && name[1] < '0'+REGISTER_COUNT {
			index = name[1] - '0'
			return
		}
		break
	}

	err = fmt.Errorf("%w: %v", ErrRegisterInvalid, opd.String())
	return
}

// resolve returns the numeric value of an operand.
func (asm *Assembler) resolve(opd *asmOperand) (value int64, err error) {
	switch {
	case opd.Expr != nil:
		expr := *opd.Expr
		value, err = asm.parenEval(expr[2 : len(expr)-1])
	case opd.Number != nil:
		value, err = asm.valueOf(*opd.Number)
	case opd.Name != nil:
		value, err = asm.resolveName(*opd.Name)
	default:
		err = ErrValueMissing
	}

	return
}

// resolveName returns the value of a label or equate.
// Equate values are cached; a self-referencing equate is an error.
func (asm *Assembler) resolveName(name string) (value int64, err error) {
	addr, ok := asm.Label[name]
	if ok {
		value = int64(addr)
		return
	}

	value, ok = asm.value[name]
	if ok {
		return
	}

	equ, ok := asm.equate[name]
	if !ok {
		err = ErrLabelMissing(name)
		return
	}

	if asm.resolving[name] {
		err = ErrParseExpression(equ.String())
		return
	}

	asm.resolving[name] = true
	defer delete(asm.resolving, name)

	value, err = asm.resolve(equ)
	if err != nil {
		return
	}

	asm.value[name] = value
	return
}

// byteOf resolves an operand to a byte. Negative values down to -128 are
// stored in two's complement.
func (asm *Assembler) byteOf(opd *asmOperand) (value byte, err error) {
	v64, err := asm.resolve(opd)
	if err != nil {
		return
	}

	if v64 < -128 || v64 > 255 {
		err = fmt.Errorf("%w: %v", ErrValueRange, v64)
		return
	}

	value = byte(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	for key := range asm.equate {
		var v64 int64
		v64, err = asm.resolveName(key)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// sizeOf returns the number of bytes an instruction generates.
func (asm *Assembler) sizeOf(instr *asmInstr) (size int, err error) {
	mnemonic := strings.ToUpper(instr.Mnemonic)

	switch mnemonic {
	case DIRECTIVE_EQU:
		return
	case DIRECTIVE_DB:
		if len(instr.Operands) == 0 {
			err = ErrValueMissing
			return
		}
		size = len(instr.Operands)
		return
	}

	op, ok := LookupOpcode(mnemonic)
	if !ok {
		err = fmt.Errorf("%w: %v", ErrOpcodeInvalid, instr.Mnemonic)
		return
	}

	if len(instr.Operands) != op.OperandCount() {
		err = fmt.Errorf("%w: %v takes %v", ErrOperandCount, op, op.Operands())
		return
	}

	size = op.Size()
	return
}

// encode generates the bytes for an instruction.
func (asm *Assembler) encode(instr *asmInstr) (codes []byte, err error) {
	mnemonic := strings.ToUpper(instr.Mnemonic)

	if mnemonic == DIRECTIVE_DB {
		for _, opd := range instr.Operands {
			var value byte
			value, err = asm.byteOf(opd)
			if err != nil {
				return
			}
			codes = append(codes, value)
		}
		return
	}

	op, _ := LookupOpcode(mnemonic)
	codes = append(codes, byte(op))
	for n, kind := range op.Operands() {
		var value byte
		switch kind {
		case OPERAND_REGISTER:
			value, err = asm.registerOf(instr.Operands[n])
		case OPERAND_IMMEDIATE:
			value, err = asm.byteOf(instr.Operands[n])
		}
		if err != nil {
			return
		}
		codes = append(codes, value)
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	text, err := io.ReadAll(input)
	if err != nil {
		return
	}

	source := strings.Split(string(text), "\n")

	var lineno int

	defer func() {
		if err != nil {
			var line string
			if lineno > 0 && lineno <= len(source) {
				line = strings.TrimSpace(source[lineno-1])
			}
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	ast, err := asmParser.ParseString("", string(text)+"\n")
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			lineno = perr.Position().Line
		}
		return
	}

	asm.Label = make(map[string]int, 16)
	asm.equate = make(map[string]*asmOperand)
	asm.value = make(map[string]int64)
	asm.resolving = make(map[string]bool)
	for name, value := range asm.predefine {
		asm.equate[name] = &asmOperand{Number: &value}
	}

	// Pass 1: assign addresses to labels, collect equates.
	// Predefines may be overridden once.
	defined := map[string]bool{}
	var addr int
	for _, line := range ast.Lines {
		lineno = line.Pos.Line

		for _, label := range line.Labels {
			_, ok := asm.Label[label]
			if ok {
				err = fmt.Errorf("%w: %v", ErrLabelDuplicate, label)
				return
			}
			asm.Label[label] = addr
		}

		if line.Instr == nil {
			continue
		}

		if strings.ToUpper(line.Instr.Mnemonic) == DIRECTIVE_EQU {
			opds := line.Instr.Operands
			if len(opds) != 2 || opds[0].Name == nil {
				err = ErrEquateSyntax
				return
			}
			name := *opds[0].Name
			if defined[name] {
				err = fmt.Errorf("%w: %v", ErrEquateDuplicate, name)
				return
			}
			defined[name] = true
			asm.equate[name] = opds[1]
			continue
		}

		var size int
		size, err = asm.sizeOf(line.Instr)
		if err != nil {
			return
		}
		addr += size
		if addr > RAM_SIZE {
			err = ErrProgramSize
			return
		}
	}

	// Pass 2: generate code.
	prog = &Program{}
	addr = 0
	for _, line := range ast.Lines {
		lineno = line.Pos.Line
		if line.Instr == nil || strings.ToUpper(line.Instr.Mnemonic) == DIRECTIVE_EQU {
			continue
		}

		var codes []byte
		codes, err = asm.encode(line.Instr)
		if err != nil {
			return
		}

		words, _, _ := strings.Cut(source[lineno-1], ";")
		st := Statement{
			LineNo: lineno,
			Addr:   addr,
			Words:  strings.Fields(words),
			Bytes:  codes,
		}
		if asm.Verbose {
			log.Printf("%v: %02x % x %v", lineno, addr, codes, st.Words)
		}
		prog.Statements = append(prog.Statements, st)
		addr += len(codes)
	}

	lineno = 0
	return
}
