package host

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/nf/c8/chip8"
)

func newSimTerm(t *testing.T) (*Term, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.SetSize(80, 25)
	return newTerm(s), s
}

func TestTermDraw(t *testing.T) {
	term, s := newSimTerm(t)
	defer s.Fini()

	var f Frame
	f.Pix[0] = true                 // (0, 0): top half of cell (0, 0)
	f.Pix[3*chip8.Width+1] = true   // (1, 3): bottom half of cell (1, 1)
	f.Pix[31*chip8.Width+63] = true // bottom right
	f.Waiting = true
	term.draw(&f)

	for _, c := range []struct {
		x, y     int
		top, bot bool
	}{
		{0, 0, true, false},
		{1, 0, false, false},
		{1, 1, false, true},
		{63, 15, false, true},
	} {
		r, _, st, _ := s.GetContent(c.x, c.y)
		if r != '▀' {
			t.Errorf("cell (%d, %d) = %q, want half block", c.x, c.y, r)
		}
		fg, bg, _ := st.Decompose()
		if g, w := fg == termOn, c.top; g != w {
			t.Errorf("cell (%d, %d) top lit = %v, want %v", c.x, c.y, g, w)
		}
		if g, w := bg == termOn, c.bot; g != w {
			t.Errorf("cell (%d, %d) bottom lit = %v, want %v", c.x, c.y, g, w)
		}
	}

	var status []rune
	for x := 0; x < len("waiting for key"); x++ {
		r, _, _, _ := s.GetContent(x, chip8.Height/2)
		status = append(status, r)
	}
	if g := string(status); g != "waiting for key" {
		t.Errorf("status line %q, want %q", g, "waiting for key")
	}
}

func TestTermKeys(t *testing.T) {
	term, s := newSimTerm(t)
	var (
		keys = make(chan KeyEvent)
		exit = make(chan bool)
		errc = make(chan error, 1)
	)
	go func() { errc <- term.Run(nil, keys, exit) }()

	next := func() KeyEvent {
		t.Helper()
		select {
		case e := <-keys:
			return e
		case <-time.After(timeout):
			t.Fatal("timed out waiting for key event")
		}
		return KeyEvent{}
	}

	s.InjectKey(tcell.KeyRune, 'w', tcell.ModNone)
	if g, w := next(), (KeyEvent{Key: 5, Down: true}); g != w {
		t.Errorf("got %+v, want %+v", g, w)
	}
	if g, w := next(), (KeyEvent{Key: 5, Down: false}); g != w {
		t.Errorf("got %+v, want %+v", g, w)
	}

	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	select {
	case err := <-errc:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(timeout):
		t.Fatal("escape did not stop the terminal")
	}
}
