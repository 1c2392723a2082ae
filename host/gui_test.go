package host

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/nf/c8/chip8"
)

func TestRenderFrame(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, chip8.Width*guiScale, chip8.Height*guiScale))
	var f Frame
	f.Pix[0] = true
	f.Pix[2*chip8.Width+5] = true
	renderFrame(dst, &f)

	for _, c := range []struct {
		x, y int
		on   bool
	}{
		{0, 0, true},
		{guiScale - 1, guiScale - 1, true},
		{guiScale, 0, false},
		{5 * guiScale, 2 * guiScale, true},
		{5*guiScale + 9, 2*guiScale + 9, true},
		{6 * guiScale, 2 * guiScale, false},
		{dst.Bounds().Dx() - 1, dst.Bounds().Dy() - 1, false},
	} {
		want := offColor
		if c.on {
			want = onColor
		}
		if g := dst.RGBAAt(c.x, c.y); g != want {
			t.Errorf("pixel (%d, %d) = %v, want %v", c.x, c.y, g, want)
		}
	}
}

func TestRenderStatus(t *testing.T) {
	bounds := image.Rect(0, 0, chip8.Width*guiScale, chip8.Height*guiScale)
	countStatus := func(f *Frame) int {
		dst := image.NewRGBA(bounds)
		renderFrame(dst, f)
		n := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				if dst.RGBAAt(x, y) == statusColor {
					n++
				}
			}
		}
		return n
	}
	if n := countStatus(&Frame{}); n != 0 {
		t.Errorf("running frame has %d status pixels, want 0", n)
	}
	if n := countStatus(&Frame{Waiting: true}); n == 0 {
		t.Errorf("waiting frame has no status text")
	}
	if n := countStatus(&Frame{Halt: errors.New("stack underflow")}); n == 0 {
		t.Errorf("halted frame has no status text")
	}
}

func TestStatusText(t *testing.T) {
	for _, c := range []struct {
		f    Frame
		want string
	}{
		{Frame{}, ""},
		{Frame{Waiting: true}, "waiting for key"},
		{Frame{Waiting: true, Halt: errors.New("boom")}, "halted: boom"},
	} {
		if g := statusText(&c.f); g != c.want {
			t.Errorf("statusText(%+v) = %q, want %q", c.f, g, c.want)
		}
	}
}

type chanSender chan interface{}

func (c chanSender) Send(e interface{}) { c <- e }

func TestSendUpdatesWakesOnExit(t *testing.T) {
	var (
		events = make(chanSender)
		exit   = make(chan bool)
		done   = make(chan bool)
	)
	close(exit)
	go func() {
		sendUpdates(events, exit)
		close(done)
	}()

	select {
	case e := <-events:
		if _, ok := e.(update); !ok {
			t.Fatalf("sent %#v, want update", e)
		}
	case <-done:
		t.Fatal("sendUpdates returned without waking the event loop")
	case <-time.After(timeout):
		t.Fatal("no update sent after exit closed")
	}
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("sendUpdates did not return after exit closed")
	}
}
