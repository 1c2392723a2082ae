package chip8

const (
	Width  = 64
	Height = 32
)

// Display is the 64x32 monochrome frame buffer.
// Pixel (x, y) is Pix[x+y*Width].
type Display struct {
	Pix [Width * Height]bool

	changed bool
}

// Pixel reports whether the pixel at (x, y) is lit.
func (d *Display) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return d.Pix[x+y*Width]
}

// Clear turns off every pixel.
func (d *Display) Clear() {
	d.Pix = [Width * Height]bool{}
	d.changed = true
}

// Draw XORs sprite onto the display with its top-left corner at
// (x mod 64, y mod 32). Each byte of sprite is one row of 8 pixels,
// most significant bit leftmost. Pixels that fall beyond the right or
// bottom edge are dropped. Draw reports whether any lit pixel was
// turned off.
func (d *Display) Draw(x, y int, sprite []byte) (collision bool) {
	x, y = x%Width, y%Height
	for row, bits := range sprite {
		py := y + row
		if py >= Height {
			break
		}
		for col := 0; col < 8; col++ {
			px := x + col
			if px >= Width {
				break
			}
			if bits&(0x80>>col) == 0 {
				continue
			}
			i := px + py*Width
			if d.Pix[i] {
				collision = true
			}
			d.Pix[i] = !d.Pix[i]
		}
	}
	d.changed = true
	return collision
}

// Changed reports whether the display was modified
// since the last call to ResetChanged.
func (d *Display) Changed() bool { return d.changed }

// ResetChanged marks the current frame as consumed.
func (d *Display) ResetChanged() { d.changed = false }
