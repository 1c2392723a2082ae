package main

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nf/c8/chip8"
	"github.com/nf/c8/host"
)

type debugger struct {
	run *host.Runner

	log   *tview.TextView
	watch *tview.TextView
	state *tview.TextView
	input *tview.InputField
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	mu      sync.Mutex
	brk     *symbol
	syms    symbols
	watches []watch
}

type watch struct {
	symbol
	short bool
}

func (d *debugger) symbols() symbols {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.syms
}

func (d *debugger) setSymbols(s symbols) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.syms = s
}

func newDebugger() *debugger {
	d := &debugger{
		log: tview.NewTextView().
			SetMaxLines(1000),
		watch: tview.NewTextView().
			SetWrap(false).
			SetTextAlign(tview.AlignRight),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app: tview.NewApplication(),
	}
	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.watch.SetBackgroundColor(tcell.ColorDarkBlue)
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	d.cols.
		AddItem(d.watch, 0, 1, false).
		AddItem(d.log, 0, 2, false)
	d.rows.
		AddItem(d.cols, 0, 1, false).
		AddItem(d.state, 3, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetAutocompleteFunc(func(t string) (entries []string) {
		if cmd, arg, ok := strings.Cut(t, " "); ok && takesAddr(cmd) {
			for _, s := range d.symbols().withLabelPrefix(arg) {
				entries = append(entries, cmd+" "+s.label)
			}
		}
		return
	})
	d.input.SetAutocompletedFunc(func(t string, index, src int) bool {
		if src != tview.AutocompletedNavigate {
			d.input.SetText(t)
		}
		return src == tview.AutocompletedEnter || src == tview.AutocompletedClick
	})
	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := d.input.GetText()
		if cmd == "" {
			return
		}
		d.input.SetText("")
		d.command(cmd)
	})
	return d
}

func takesAddr(cmd string) bool {
	switch cmd {
	case "b", "break", "w", "w2", "watch", "watch2":
		return true
	}
	return false
}

// command handles a line typed at the debugger prompt.
func (d *debugger) command(line string) {
	if line == "exit" {
		d.app.Stop()
		return
	}
	if cmd, arg, ok := strings.Cut(line, " "); ok && takesAddr(cmd) {
		s, ok := d.symbols().resolve(arg)
		if !ok {
			log.Printf("invalid address %q", arg)
			return
		}
		switch cmd {
		case "b", "break":
			d.mu.Lock()
			d.brk = &s
			d.mu.Unlock()
			d.run.Debug(cmd, s.addr)
			log.Printf("set break %.3x", s.addr)
		default:
			d.mu.Lock()
			d.watches = append(d.watches,
				watch{symbol: s, short: strings.HasSuffix(cmd, "2")})
			d.mu.Unlock()
			log.Printf("watching %.3x", s.addr)
		}
		return
	}
	switch line {
	case "b", "break":
		d.mu.Lock()
		d.brk = nil
		d.mu.Unlock()
		d.run.Debug(line, 0)
		log.Print("cleared break")
	case "s", "step", "p", "pause", "c", "continue":
		d.run.Debug(line, 0)
	default:
		log.Printf("unknown command %q", line)
	}
}

func (d *debugger) Run() error { return d.app.Run() }

func (d *debugger) StateFunc(m *chip8.Machine, k host.StateKind) {
	var (
		watch = d.watchContent(m)
		state string
	)
	if k != host.QuietState {
		state = stateMsg(d.symbols(), m, k)
	}
	d.app.QueueUpdateDraw(func() {
		switch k {
		case host.ClearState:
			d.state.SetTextColor(tcell.ColorBlack)
			d.state.SetBackgroundColor(tcell.ColorDarkGrey)
		case host.BreakState:
			d.state.SetTextColor(tcell.ColorYellow)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case host.PauseState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case host.HaltState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkRed)
		}
		d.watch.SetText(watch)
		if k != host.QuietState {
			d.state.SetText(state)
		}
	})
}

func stateMsg(syms symbols, m *chip8.Machine, k host.StateKind) string {
	var pcSym string
	if s := syms.forAddr(m.PC); len(s) > 0 {
		pcSym = s[0].label
	}
	kind := "       "
	switch k {
	case host.BreakState:
		kind = "[break]"
	case host.PauseState:
		kind = "[pause]"
	case host.HaltState:
		kind = "[HALT!]"
	}
	if m.Mode == chip8.AwaitingKey {
		kind += " [key]"
	}
	var regs strings.Builder
	for i, v := range m.V {
		if i > 0 {
			regs.WriteByte(' ')
		}
		fmt.Fprintf(&regs, "%.2x", v)
	}
	return fmt.Sprintf("%.3x %-16s %s %s\nV: %s\nI: %.3x DT: %.2x ST: %.2x st: %v\n",
		m.PC, m.Next(), kind, pcSym,
		regs.String(),
		m.I, m.Timers.Delay, m.Timers.Sound, m.Stack)
}

func (d *debugger) watchContent(m *chip8.Machine) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	if s := d.brk; s != nil {
		fmt.Fprintf(&b, "%s [%.3x] brk!\n", s.label, s.addr)
	}
	for _, w := range d.watches {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s [%.3x] ", w.label, w.addr)
		if w.short && int(w.addr)+1 < chip8.MemSize {
			fmt.Fprintf(&b, "%.2x%.2x", m.Mem[w.addr], m.Mem[w.addr+1])
		} else {
			fmt.Fprintf(&b, "  %.2x", m.Mem[w.addr])
		}
	}
	return b.String()
}
