package host

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/nf/c8/chip8"
)

// guiScale is the size of a CHIP-8 pixel in the window's backing buffer.
const guiScale = 10

var (
	onColor     = color.RGBA{0xe8, 0xe8, 0xd0, 0xff}
	offColor    = color.RGBA{0x18, 0x18, 0x20, 0xff}
	statusColor = color.RGBA{0xff, 0x60, 0x40, 0xff}
)

// GUI is a Frontend that shows the display in a window.
type GUI struct {
	buf  screen.Buffer
	tex  screen.Texture
	last Frame
}

func NewGUI() *GUI { return &GUI{} }

// Beep logs the buzzer, as there is no audio output.
func (g *GUI) Beep() { log.Print("beep") }

func (g *GUI) Run(frames <-chan Frame, keys chan<- KeyEvent, exit <-chan bool) error {
	var runErr error
	driver.Main(func(s screen.Screen) {
		w, err := s.NewWindow(&screen.NewWindowOptions{
			Title:  "c8",
			Width:  chip8.Width * guiScale,
			Height: chip8.Height * guiScale,
		})
		if err != nil {
			runErr = err
			return
		}
		defer w.Release()

		sz := image.Point{chip8.Width * guiScale, chip8.Height * guiScale}
		if g.buf, err = s.NewBuffer(sz); err != nil {
			runErr = err
			return
		}
		if g.tex, err = s.NewTexture(sz); err != nil {
			runErr = err
			return
		}
		defer g.release()

		go sendUpdates(w, exit)

		var (
			ws    size.Event
			dirty = true
		)
		for {
			e := w.NextEvent()

			select {
			case <-exit:
				return
			default:
			}

			switch e := e.(type) {
			case size.Event:
				ws = e
				if ws.WidthPx+ws.HeightPx == 0 {
					return
				}
				dirty = true

			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}

			case paint.Event:
				dirty = true

			case key.Event:
				if e.Code == key.CodeEscape {
					return
				}
				if e.Direction == key.DirNone {
					break // auto-repeat
				}
				k, ok := KeyFor(e.Rune)
				if !ok {
					break
				}
				select {
				case keys <- KeyEvent{Key: k, Down: e.Direction == key.DirPress}:
				case <-exit:
					return
				}

			case update:
				select {
				case f := <-frames:
					if f.Changed || statusText(&f) != statusText(&g.last) {
						dirty = true
					}
					g.last = f
				default:
				}
				if dirty && ws.WidthPx > 0 {
					renderFrame(g.buf.RGBA(), &g.last)
					g.tex.Upload(image.Point{}, g.buf, g.buf.Bounds())
					w.Scale(ws.Bounds(), g.tex, g.tex.Bounds(), draw.Src, nil)
					w.Publish()
					dirty = false
				}

			case error:
				log.Print(e)
			}
		}
	})
	return runErr
}

// update is sent to the window's event queue to poll for frames.
type update struct{}

type eventSender interface {
	Send(event interface{})
}

// sendUpdates sends an update to w every frame until exit is closed,
// then sends one more so that an event loop blocked waiting for the
// next event wakes and sees exit.
func sendUpdates(w eventSender, exit <-chan bool) {
	t := time.NewTicker(time.Second / FrameRate)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			w.Send(update{})
		case <-exit:
			w.Send(update{})
			return
		}
	}
}

func (g *GUI) release() {
	if g.tex != nil {
		g.tex.Release()
	}
	if g.buf != nil {
		g.buf.Release()
	}
}

// renderFrame scales the frame's pixels to fill dst and writes the
// machine's status, if any, along the bottom edge.
func renderFrame(dst *image.RGBA, f *Frame) {
	src := image.NewRGBA(image.Rect(0, 0, chip8.Width, chip8.Height))
	for y := 0; y < chip8.Height; y++ {
		for x := 0; x < chip8.Width; x++ {
			c := offColor
			if f.Pix[y*chip8.Width+x] {
				c = onColor
			}
			src.SetRGBA(x, y, c)
		}
	}
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	if s := statusText(f); s != "" {
		b := dst.Bounds()
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(statusColor),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(b.Min.X+4, b.Max.Y-4),
		}
		d.DrawString(s)
	}
}

func statusText(f *Frame) string {
	switch {
	case f.Halt != nil:
		return fmt.Sprint("halted: ", f.Halt)
	case f.Waiting:
		return "waiting for key"
	}
	return ""
}
