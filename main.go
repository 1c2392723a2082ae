// Command c8 runs CHIP-8 programs.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"

	"github.com/nf/c8/chip8"
	"github.com/nf/c8/host"
)

func main() {
	log.SetPrefix("c8: ")
	log.SetFlags(0)

	var (
		cliFlag   = flag.Bool("cli", false, "run in the terminal instead of a window")
		devFlag   = flag.Bool("dev", false, "enable developer mode (reload the program when it changes)")
		debugFlag = flag.Bool("debug", false, "enable debugger (implies -dev)")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-cli] [-dev] <program.ch8>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s -debug <program.ch8>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}
	if *debugFlag && *cliFlag {
		// The debugger needs the terminal.
		fmt.Fprintln(os.Stderr, "-debug cannot be combined with -cli")
		flag.Usage()
	}

	if *devFlag || *debugFlag {
		if err := devMode(!*cliFlag, *debugFlag, flag.Arg(0)); err != nil {
			log.Fatal(err)
		}
		return
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			log.Fatalf("creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	err := run(flag.Arg(0), !*cliFlag)

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		log.Fatal(err)
	}
}

func run(romFile string, gui bool) error {
	m, err := loadMachine(romFile)
	if err != nil {
		return err
	}
	fe, err := newFrontend(gui)
	if err != nil {
		return err
	}
	return host.NewRunner(m, false, nil).Run(fe)
}

// loadMachine returns a new machine with the program in romFile loaded.
func loadMachine(romFile string) (*chip8.Machine, error) {
	rom, err := os.ReadFile(romFile)
	if err != nil {
		return nil, err
	}
	m := chip8.New()
	m.Logf = log.Printf
	if err := m.Load(rom); err != nil {
		return nil, fmt.Errorf("loading %s: %w", romFile, err)
	}
	return m, nil
}

func newFrontend(gui bool) (host.Frontend, error) {
	if gui {
		return host.NewGUI(), nil
	}
	t, err := host.NewTerm()
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	return t, nil
}
