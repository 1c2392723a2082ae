// Package host runs a CHIP-8 machine and connects it to a window or a terminal.
package host

import (
	"log"
	"time"

	"github.com/nf/c8/chip8"
)

const (
	CycleRate = 500 // machine cycles per second
	FrameRate = 60  // frames offered to the frontend per second
)

// Frame is a snapshot of the machine's display, taken by the Runner.
type Frame struct {
	Pix [chip8.Width * chip8.Height]bool

	// Changed reports whether the display was modified since the
	// previous frame was taken.
	Changed bool
	// Waiting reports whether the machine is blocked waiting for a key.
	Waiting bool
	// Halt is the fault that stopped the machine, if any.
	Halt error
}

// KeyEvent reports a change in the state of a CHIP-8 key.
type KeyEvent struct {
	Key  int
	Down bool
}

// Frontend displays frames and produces key events.
type Frontend interface {
	// Run runs until the user quits or exit is closed. It should
	// receive from frames regularly and send key changes on keys.
	Run(frames <-chan Frame, keys chan<- KeyEvent, exit <-chan bool) error
	// Beep is called when the machine's sound timer expires.
	Beep()
}

// StateKind describes why a StateFunc was called.
type StateKind int

const (
	ClearState StateKind = iota // running normally
	QuietState                  // periodic update while running
	BreakState                  // stopped at a breakpoint
	PauseState                  // paused, or stepped while paused
	HaltState                   // stopped by a fault
)

// StateFunc is called by the Runner, on its own goroutine, to report the
// machine state in debug mode. It must not retain m.
type StateFunc func(m *chip8.Machine, k StateKind)

// Runner drives a Machine at CycleRate on its own goroutine. It owns the
// machine: the frontend only sees Frames and only sends KeyEvents.
type Runner struct {
	m     *chip8.Machine
	debug bool
	state StateFunc
	fe    Frontend

	swap    chan *chip8.Machine
	cmd     chan debugCmd
	stopped chan bool

	err    error
	halted bool
	paused bool
	resume bool // run past the breakpoint once
	brk    *uint16
}

type debugCmd struct {
	cmd  string
	addr uint16
}

// NewRunner returns a Runner for m. If debug is true, faults pause the
// machine rather than ending the run, and sf (if non-nil) receives state
// updates.
func NewRunner(m *chip8.Machine, debug bool, sf StateFunc) *Runner {
	if sf == nil {
		sf = func(*chip8.Machine, StateKind) {}
	}
	return &Runner{
		m:       m,
		debug:   debug,
		state:   sf,
		swap:    make(chan *chip8.Machine),
		cmd:     make(chan debugCmd),
		stopped: make(chan bool),
	}
}

// Run runs the machine and the frontend fe until fe returns, the machine
// halts (when not in debug mode) or the "exit" debug command is given.
// It returns the frontend's error, or else the fault that halted the machine.
func (r *Runner) Run(fe Frontend) error {
	var (
		frames   = make(chan Frame, 1)
		keys     = make(chan KeyEvent, 16)
		exit     = make(chan bool)
		done     = make(chan bool)
		loopDone = make(chan bool)
	)
	r.fe = fe
	r.attach(r.m)
	go func() {
		r.loop(frames, keys, done)
		close(r.stopped)
		close(exit)
		close(loopDone)
	}()
	err := fe.Run(frames, keys, exit)
	close(done)
	<-loopDone
	if err != nil {
		return err
	}
	return r.err
}

// Swap replaces the running machine with m, clearing any halt.
func (r *Runner) Swap(m *chip8.Machine) {
	select {
	case r.swap <- m:
	case <-r.stopped:
	}
}

// Debug sends a debugger command to the runner:
//
//	break, b     set a breakpoint at addr, or clear it if addr is 0
//	pause, p     pause execution
//	continue, c  resume execution
//	step, s      execute one cycle while paused
//	exit         stop the runner
func (r *Runner) Debug(cmd string, addr uint16) {
	select {
	case r.cmd <- debugCmd{cmd, addr}:
	case <-r.stopped:
	}
}

// Stop ends the run.
func (r *Runner) Stop() { r.Debug("exit", 0) }

func (r *Runner) attach(m *chip8.Machine) {
	m.Buzz = r.fe.Beep
}

func (r *Runner) loop(frames chan<- Frame, keys <-chan KeyEvent, done <-chan bool) {
	var (
		cycle = time.NewTicker(time.Second / CycleRate)
		frame = time.NewTicker(time.Second / FrameRate)
	)
	defer cycle.Stop()
	defer frame.Stop()

	for {
		select {
		case <-done:
			return
		case k := <-keys:
			r.m.Keys.Set(k.Key, k.Down)
		case m := <-r.swap:
			r.attach(m)
			r.m = m
			r.halted = false
			r.err = nil
			r.m.Display.Clear()
			r.state(r.m, ClearState)
		case c := <-r.cmd:
			if !r.command(c) {
				return
			}
		case <-cycle.C:
			if r.paused || r.halted {
				break
			}
			if r.brk != nil && r.m.PC == *r.brk && r.m.Mode == chip8.Running && !r.resume {
				r.paused = true
				r.state(r.m, BreakState)
				break
			}
			r.resume = false
			if !r.step() && !r.debug {
				return
			}
		case <-frame.C:
			r.offer(frames)
			if r.debug && !r.paused && !r.halted {
				r.state(r.m, QuietState)
			}
		}
	}
}

// step runs one machine cycle and reports whether the machine can continue.
func (r *Runner) step() bool {
	if _, err := r.m.Cycle(); err != nil {
		r.halted = true
		r.err = err
		if r.debug {
			log.Printf("halt: %v", err)
			r.state(r.m, HaltState)
		}
		return false
	}
	return true
}

// command applies a debugger command and reports whether the runner
// should keep running.
func (r *Runner) command(c debugCmd) bool {
	switch c.cmd {
	case "exit":
		return false
	case "b", "break":
		if c.addr == 0 {
			r.brk = nil
		} else {
			addr := c.addr
			r.brk = &addr
		}
	case "p", "pause":
		r.paused = true
		r.state(r.m, PauseState)
	case "c", "continue":
		r.paused = false
		r.resume = true
		r.state(r.m, ClearState)
	case "s", "step":
		if !r.paused || r.halted {
			break
		}
		if r.step() {
			r.state(r.m, PauseState)
		}
	default:
		log.Printf("unknown debug command %q", c.cmd)
	}
	return true
}

// offer sends a snapshot of the display to the frontend if it is ready
// for one. The display's changed flag is only reset once a frame carrying
// it has been handed over.
func (r *Runner) offer(frames chan<- Frame) {
	f := Frame{
		Pix:     r.m.Display.Pix,
		Changed: r.m.Display.Changed(),
		Waiting: r.m.Mode == chip8.AwaitingKey,
		Halt:    r.err,
	}
	select {
	case frames <- f:
		r.m.Display.ResetChanged()
	default:
	}
}
