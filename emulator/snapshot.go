package emulator

import (
	"encoding/hex"
	"fmt"
	"io"
	"log"

	"gopkg.in/yaml.v3"

	"github.com/ezrec/ls8/cpu"
)

// SNAPSHOT_ROW is the number of memory bytes per snapshot row.
const SNAPSHOT_ROW = 16

// snapshotDisk is the YAML form of the machine state.
type snapshotDisk struct {
	Pc        int      `yaml:"pc"`
	Sp        int      `yaml:"sp"`
	Fl        uint8    `yaml:"fl"`
	Halted    bool     `yaml:"halted"`
	Ticks     int      `yaml:"ticks"`
	Registers []int    `yaml:"registers,flow"`
	Memory    []string `yaml:"memory"`
}

// Snapshot writes the machine state as YAML.
// Memory is stored as rows of hexadecimal bytes.
func (emu *Emulator) Snapshot(w io.Writer) (err error) {
	c := emu.Cpu

	data := snapshotDisk{
		Pc:     c.Pc,
		Sp:     c.Sp,
		Fl:     c.Fl,
		Halted: c.Halted,
		Ticks:  c.Ticks,
	}

	for _, value := range c.Register {
		data.Registers = append(data.Registers, int(value))
	}

	for addr := 0; addr < len(c.Ram); addr += SNAPSHOT_ROW {
		data.Memory = append(data.Memory, hex.EncodeToString(c.Ram[addr:addr+SNAPSHOT_ROW]))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err = enc.Encode(&data)
	if err != nil {
		return fmt.Errorf("snapshot: marshal: %w", err)
	}
	err = enc.Close()
	if err != nil {
		return fmt.Errorf("snapshot: encoder close: %w", err)
	}

	if emu.Verbose {
		log.Printf("emulator: snapshot at pc 0x%02x", c.Pc)
	}

	return
}

// Restore replaces the machine state with a snapshot.
// The CPU is untouched if the snapshot is invalid.
func (emu *Emulator) Restore(r io.Reader) (err error) {
	var data snapshotDisk
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	err = decoder.Decode(&data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSnapshot, err)
	}

	if len(data.Registers) != cpu.REGISTER_COUNT {
		return fmt.Errorf("%w: %d registers", ErrSnapshot, len(data.Registers))
	}

	if len(data.Memory) != cpu.RAM_SIZE/SNAPSHOT_ROW {
		return fmt.Errorf("%w: %d memory rows", ErrSnapshot, len(data.Memory))
	}

	switch data.Fl {
	case 0, cpu.FL_EQUAL, cpu.FL_GREATER, cpu.FL_LESS:
	default:
		return fmt.Errorf("%w: fl 0b%03b", ErrSnapshot, data.Fl)
	}

	if data.Pc < 0 || data.Pc > cpu.RAM_SIZE {
		return fmt.Errorf("%w: pc %d", ErrSnapshot, data.Pc)
	}

	if data.Sp < 0 || data.Sp > cpu.RAM_SIZE {
		return fmt.Errorf("%w: sp %d", ErrSnapshot, data.Sp)
	}

	if data.Ticks < 0 {
		return fmt.Errorf("%w: ticks %d", ErrSnapshot, data.Ticks)
	}

	var ram [cpu.RAM_SIZE]byte
	for n, row := range data.Memory {
		var bytes []byte
		bytes, err = hex.DecodeString(row)
		if err != nil || len(bytes) != SNAPSHOT_ROW {
			return fmt.Errorf("%w: memory row %d", ErrSnapshot, n)
		}
		copy(ram[n*SNAPSHOT_ROW:], bytes)
	}

	var registers [cpu.REGISTER_COUNT]byte
	for n, value := range data.Registers {
		if value < 0 || value > 0xff {
			return fmt.Errorf("%w: register %d value %d", ErrSnapshot, n, value)
		}
		registers[n] = byte(value)
	}

	c := emu.Cpu
	c.Ram = ram
	c.Register = registers
	c.Pc = data.Pc
	c.Sp = data.Sp
	c.Fl = data.Fl
	c.Halted = data.Halted
	c.Ticks = data.Ticks

	if emu.Verbose {
		log.Printf("emulator: restored at pc 0x%02x", c.Pc)
	}

	return
}
