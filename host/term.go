package host

import (
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/nf/c8/chip8"
)

// Terminals report key presses but not releases, so a key is
// considered held until this long after its last press or repeat.
const releaseDelay = 150 * time.Millisecond

var (
	termOn     = tcell.NewRGBColor(0xe8, 0xe8, 0xd0)
	termOff    = tcell.NewRGBColor(0x18, 0x18, 0x20)
	termStatus = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0xff, 0x60, 0x40))
)

// Term is a Frontend that draws the display in a terminal, two
// CHIP-8 rows to each line of text.
type Term struct {
	s    tcell.Screen
	held map[int]time.Time // key -> release time
}

// NewTerm initializes the terminal and returns a Term that draws to it.
func NewTerm() (*Term, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return newTerm(s), nil
}

// newTerm returns a Term for the initialized screen s.
func newTerm(s tcell.Screen) *Term {
	s.HideCursor()
	s.Clear()
	return &Term{s: s, held: map[int]time.Time{}}
}

func (t *Term) Beep() {
	if err := t.s.Beep(); err != nil {
		log.Printf("beep: %v", err)
	}
}

func (t *Term) Run(frames <-chan Frame, keys chan<- KeyEvent, exit <-chan bool) error {
	var (
		events = make(chan tcell.Event)
		quit   = make(chan bool)
	)
	defer t.s.Fini()
	defer close(quit)
	go func() {
		for {
			ev := t.s.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	release := time.NewTicker(releaseDelay / 3)
	defer release.Stop()

	send := func(e KeyEvent) bool {
		select {
		case keys <- e:
			return true
		case <-exit:
			return false
		}
	}

	for {
		select {
		case <-exit:
			return nil
		case f := <-frames:
			t.draw(&f)
		case now := <-release.C:
			for k, at := range t.held {
				if now.Before(at) {
					continue
				}
				delete(t.held, k)
				if !send(KeyEvent{Key: k, Down: false}) {
					return nil
				}
			}
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				t.s.Sync()
			case *tcell.EventKey:
				switch ev.Key() {
				case tcell.KeyEscape, tcell.KeyCtrlC:
					return nil
				case tcell.KeyRune:
					k, ok := KeyFor(ev.Rune())
					if !ok {
						break
					}
					_, down := t.held[k]
					t.held[k] = time.Now().Add(releaseDelay)
					if !down && !send(KeyEvent{Key: k, Down: true}) {
						return nil
					}
				}
			}
		}
	}
}

// draw renders f using upper half blocks: the foreground colour is the
// even row and the background colour the odd row below it.
func (t *Term) draw(f *Frame) {
	color := func(on bool) tcell.Color {
		if on {
			return termOn
		}
		return termOff
	}
	for y := 0; y < chip8.Height; y += 2 {
		for x := 0; x < chip8.Width; x++ {
			top := f.Pix[y*chip8.Width+x]
			bot := f.Pix[(y+1)*chip8.Width+x]
			st := tcell.StyleDefault.Foreground(color(top)).Background(color(bot))
			t.s.SetContent(x, y/2, '▀', nil, st)
		}
	}
	status := []rune(statusText(f))
	for x := 0; x < chip8.Width; x++ {
		r := ' '
		if x < len(status) {
			r = status[x]
		}
		t.s.SetContent(x, chip8.Height/2, r, nil, termStatus)
	}
	t.s.Show()
}
