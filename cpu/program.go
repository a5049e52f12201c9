package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// Statement is a line of source with the bytes it generated.
type Statement struct {
	LineNo int      // Source line number, 1-based.
	Addr   int      // Memory address of the first byte.
	Words  []string // Source words, for listings.
	Bytes  []byte   // Generated bytes.
}

// Program is an ordered listing of statements.
type Program struct {
	Statements []Statement
}

type Debug struct {
	*Statement
	Index int
}

// Debug finds the statement that generated the byte at addr.
func (prog *Program) Debug(addr int) (dbg Debug) {
	for n, st := range prog.Statements {
		if addr >= st.Addr && addr < st.Addr+len(st.Bytes) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     addr - st.Addr,
			}
			break
		}
	}

	return
}

// Bytes iterates over every generated byte and its address.
func (prog *Program) Bytes() iter.Seq2[int, byte] {
	return func(yield func(addr int, value byte) bool) {
		for _, st := range prog.Statements {
			for n, value := range st.Bytes {
				if !yield(st.Addr+n, value) {
					return
				}
			}
		}
	}
}

// Binary returns the memory image of the program.
func (prog *Program) Binary() (image []byte) {
	for addr, value := range prog.Bytes() {
		for len(image) <= addr {
			image = append(image, 0)
		}
		image[addr] = value
	}

	return
}

// WriteTo writes the program in the LS-8 text format, one byte per line,
// with the source of each statement as a comment.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	bw := bufio.NewWriter(w)

	write := func(format string, args ...any) {
		if err != nil {
			return
		}
		var count int
		count, err = fmt.Fprintf(bw, format, args...)
		n += int64(count)
	}

	for _, st := range prog.Statements {
		for index, value := range st.Bytes {
			if index == 0 && len(st.Words) > 0 {
				write("%08b # %v\n", value, strings.Join(st.Words, " "))
			} else {
				write("%08b\n", value)
			}
		}
	}

	if err != nil {
		return
	}

	err = bw.Flush()
	return
}

// Load reads a program in the LS-8 text format.
//
// Lines that do not start with '0' or '1' are skipped. The first eight
// characters of the remaining lines are a binary byte, stored at
// sequential addresses from 0.
func Load(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog = &Program{}

	var addr int
	for scanner.Scan() {
		line = scanner.Text()
		lineno++

		if len(line) == 0 || (line[0] != '0' && line[0] != '1') {
			continue
		}

		digits := line
		if len(digits) > 8 {
			digits = digits[:8]
		}
		digits = strings.TrimSpace(digits)

		var value uint64
		value, err = strconv.ParseUint(digits, 2, 8)
		if err != nil {
			err = ErrLoadSyntax
			return
		}

		if addr >= RAM_SIZE {
			err = ErrProgramSize
			return
		}

		var words []string
		_, comment, ok := strings.Cut(line, "#")
		if ok {
			words = strings.Fields(comment)
		}

		prog.Statements = append(prog.Statements, Statement{
			LineNo: lineno,
			Addr:   addr,
			Words:  words,
			Bytes:  []byte{byte(value)},
		})
		addr++
	}

	err = scanner.Err()
	return
}
