package cpu

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const print8 = `# print8.ls8: Print the number 8 on the screen

10000010 # LDI R0,8
00000000
00001000
01000111 # PRN R0
00000000
00000001 # HLT
`

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	prog, err := Load(strings.NewReader(print8))
	assert.NoError(err)
	assert.Equal([]byte{byte(LDI), 0, 8, byte(PRN), 0, byte(HLT)}, prog.Binary())
	assert.Equal(6, len(prog.Statements))

	st := prog.Statements[0]
	assert.Equal(3, st.LineNo)
	assert.Equal(0, st.Addr)
	assert.Equal([]string{"LDI", "R0,8"}, st.Words)

	st = prog.Statements[5]
	assert.Equal(8, st.LineNo)
	assert.Equal(5, st.Addr)
	assert.Equal([]string{"HLT"}, st.Words)
}

func TestLoad_Skipped(t *testing.T) {
	assert := assert.New(t)

	text := strings.Join([]string{
		"",
		"# comment",
		" 10000010 leading space is not a byte",
		"\t00000001",
		"00000001",
		"101",
	}, "\n")

	prog, err := Load(strings.NewReader(text))
	assert.NoError(err)
	assert.Equal([]byte{byte(HLT), 0b101}, prog.Binary())
}

func TestLoad_Errors(t *testing.T) {
	assert := assert.New(t)

	_, err := Load(strings.NewReader("00000001\n1000x010\n"))
	assert.ErrorIs(err, ErrLoadSyntax)
	var serr ErrSyntax
	assert.True(errors.As(err, &serr))
	assert.Equal(2, serr.LineNo)
	assert.Equal("1000x010", serr.Line)

	_, err = Load(strings.NewReader("111111111\n"))
	assert.NoError(err)

	_, err = Load(strings.NewReader("0101 # comment\n"))
	assert.ErrorIs(err, ErrLoadSyntax)

	_, err = Load(strings.NewReader(strings.Repeat("00000001\n", RAM_SIZE+1)))
	assert.ErrorIs(err, ErrProgramSize)

	prog, err := Load(strings.NewReader(strings.Repeat("00000001\n", RAM_SIZE)))
	assert.NoError(err)
	assert.Equal(RAM_SIZE, len(prog.Binary()))
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Statements: []Statement{
			{LineNo: 1, Addr: 0, Words: []string{"LDI", "R0,8"}, Bytes: []byte{byte(LDI), 0, 8}},
			{LineNo: 2, Addr: 3, Words: []string{"PRN", "R0"}, Bytes: []byte{byte(PRN), 0}},
			{LineNo: 4, Addr: 5, Words: []string{"HLT"}, Bytes: []byte{byte(HLT)}},
		},
	}

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Statement)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(2)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(2, dbg.Index)

	dbg = prog.Debug(4)
	assert.Equal(2, dbg.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(5)
	assert.Equal(4, dbg.LineNo)

	dbg = prog.Debug(6)
	assert.Nil(dbg.Statement)
	assert.Equal(0, dbg.Index)
}

func TestProgram_Binary_Gap(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Statements: []Statement{
			{LineNo: 1, Addr: 2, Bytes: []byte{byte(HLT)}},
		},
	}

	assert.Equal([]byte{0, 0, byte(HLT)}, prog.Binary())

	prog = &Program{}
	assert.Nil(prog.Binary())
}

func TestProgram_Bytes(t *testing.T) {
	assert := assert.New(t)

	prog, err := Load(strings.NewReader(print8))
	assert.NoError(err)

	var addrs []int
	for addr := range prog.Bytes() {
		addrs = append(addrs, addr)
		if addr == 2 {
			break
		}
	}
	assert.Equal([]int{0, 1, 2}, addrs)
}

func TestProgram_WriteTo(t *testing.T) {
	assert := assert.New(t)

	prog, err := Load(strings.NewReader(print8))
	assert.NoError(err)

	out := &bytes.Buffer{}
	n, err := prog.WriteTo(out)
	assert.NoError(err)
	assert.Equal(int64(out.Len()), n)

	assert.Equal(strings.Join([]string{
		"10000010 # LDI R0,8",
		"00000000",
		"00001000",
		"01000111 # PRN R0",
		"00000000",
		"00000001 # HLT",
		"",
	}, "\n"), out.String())

	// Round trip through the loader.
	again, err := Load(out)
	assert.NoError(err)
	assert.Equal(prog.Binary(), again.Binary())
}
