// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
)

// EXIT_NOT_FOUND is the exit code for a missing program file.
const EXIT_NOT_FOUND = 2

// How the emulator is started.
const (
	START_USAGE    = iota // Bad arguments.
	START_RESUME          // Restore a snapshot.
	START_PROGRAM         // Load or assemble a program file.
	START_CONFLICT        // Both a snapshot and a program were given.
)

// startMode selects how to start from the -resume flag and the
// number of positional arguments.
func startMode(resume string, nargs int) int {
	switch {
	case len(resume) != 0 && nargs == 0:
		return START_RESUME
	case len(resume) != 0:
		return START_CONFLICT
	case nargs == 1:
		return START_PROGRAM
	}

	return START_USAGE
}

func main() {
	var assemble bool
	var output string
	var limit int
	var dump string
	var resume string
	var verbose bool

	flag.BoolVar(&assemble, "a", false, "Assemble program from LS-8 mnemonics")
	flag.StringVar(&output, "o", "", "Write assembled program to file, do not execute")
	flag.IntVar(&limit, "limit", emulator.TICK_LIMIT, "Maximum instructions to execute, 0 for unlimited")
	flag.StringVar(&dump, "dump", "", "Write machine state snapshot to file after execution")
	flag.StringVar(&resume, "resume", "", "Resume from a machine state snapshot")
	flag.BoolVar(&verbose, "v", false, "Verbose mode, trace each instruction")

	flag.Parse()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.TickLimit = limit

	switch startMode(resume, flag.NArg()) {
	case START_RESUME:
		inf, err := os.Open(resume)
		if err != nil {
			notFound(resume, err)
			log.Fatalf("%v: %v", resume, err)
		}
		defer inf.Close()

		err = emu.Restore(inf)
		if err != nil {
			log.Fatalf("%v: %v", resume, err)
		}
	case START_PROGRAM:
		path := flag.Arg(0)
		inf, err := os.Open(path)
		if err != nil {
			notFound(path, err)
			log.Fatalf("%v: %v", path, err)
		}
		defer inf.Close()

		var prog *cpu.Program
		if assemble || strings.HasSuffix(path, ".asm") {
			prog, err = emu.Assembler().Parse(inf)
		} else {
			prog, err = cpu.Load(inf)
		}
		if err != nil {
			log.Fatalf("%v: %v", path, err)
		}

		if len(output) != 0 {
			ouf, err := os.Create(output)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
			defer ouf.Close()

			_, err = prog.WriteTo(ouf)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
			return
		}

		emu.Program = prog
		err = emu.Reset()
		if err != nil {
			log.Fatalf("%v: %v", path, err)
		}
	case START_CONFLICT:
		fmt.Fprintf(os.Stderr, "%v: -resume does not take a program\n", os.Args[0])
		os.Exit(EXIT_NOT_FOUND)
	default:
		fmt.Fprintf(os.Stderr, "usage: %v [flags] program\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(EXIT_NOT_FOUND)
	}

	err := emu.Run()

	if len(dump) != 0 {
		ouf, derr := os.Create(dump)
		if derr != nil {
			log.Fatalf("%v: %v", dump, derr)
		}
		derr = emu.Snapshot(ouf)
		ouf.Close()
		if derr != nil {
			log.Fatalf("%v: %v", dump, derr)
		}
	}

	if err != nil {
		log.Fatal(err)
	}
}

// notFound exits with EXIT_NOT_FOUND if the error is a missing file.
func notFound(path string, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("%v Not Found.\n", path)
		os.Exit(EXIT_NOT_FOUND)
	}
}
