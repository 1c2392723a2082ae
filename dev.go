package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/nf/c8/host"
)

// devMode runs romFile, reloading it whenever the file changes.
// A fault pauses the machine until the next reload instead of exiting.
// If debug is set the tview debugger takes over the terminal.
func devMode(gui, debug bool, romFile string) error {
	romFile = filepath.Clean(romFile)

	m, err := loadMachine(romFile)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(romFile)); err != nil {
		return err
	}

	var (
		runner *host.Runner
		dbg    *debugger
	)
	if debug {
		dbg = newDebugger()
		runner = host.NewRunner(m, true, dbg.StateFunc)
		dbg.run = runner
		loadDebugSymbols(dbg, romFile)
		log.SetPrefix("")
		log.SetOutput(dbg.log)
		go func() {
			if err := dbg.Run(); err != nil {
				log.Fatalf("debug: %v", err)
			}
			log.SetOutput(os.Stderr)
			log.SetPrefix("c8: ")
			runner.Stop()
		}()
	} else {
		runner = host.NewRunner(m, true, nil)
	}

	done := make(chan bool)
	defer close(done)
	go func() {
		var reload <-chan time.Time
		for {
			select {
			case <-done:
				return
			case <-reload:
				m, err := loadMachine(romFile)
				if err != nil {
					log.Printf("dev: %v", err)
					break
				}
				if dbg != nil {
					loadDebugSymbols(dbg, romFile)
				}
				log.Printf("dev: reload %s", filepath.Base(romFile))
				runner.Swap(m)
			case ev := <-watcher.Event:
				if ev != nil && filepath.Clean(ev.Name) == romFile && !ev.IsAttrib() {
					reload = time.After(100 * time.Millisecond)
				}
			case err := <-watcher.Error:
				if err != nil {
					log.Printf("dev: watcher: %v", err)
				}
			}
		}
	}()

	fe, err := newFrontend(gui)
	if err != nil {
		return err
	}
	log.Printf("dev: start %s", filepath.Base(romFile))
	return runner.Run(fe)
}

func loadDebugSymbols(d *debugger, romFile string) {
	syms, err := loadSymbols(romFile)
	if err != nil {
		log.Printf("dev: reading symbols: %v", err)
		return
	}
	d.setSymbols(syms)
}
