// Package chip8 provides an implementation of the CHIP-8 virtual machine,
// called Machine, that executes CHIP-8 programs one instruction at a time.
package chip8

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

const (
	MemSize     = 0x1000
	ProgramAddr = 0x200
	MaxROMSize  = MemSize - ProgramAddr

	NumRegs = 16
	NumKeys = 16

	glyphSize = 5
)

// Font holds the 4x5 hexadecimal digit glyphs, loaded at address 0.
var Font = [16 * glyphSize]byte{
	0xf0, 0x90, 0x90, 0x90, 0xf0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xf0, 0x10, 0xf0, 0x80, 0xf0, // 2
	0xf0, 0x10, 0xf0, 0x10, 0xf0, // 3
	0x90, 0x90, 0xf0, 0x10, 0x10, // 4
	0xf0, 0x80, 0xf0, 0x10, 0xf0, // 5
	0xf0, 0x80, 0xf0, 0x90, 0xf0, // 6
	0xf0, 0x10, 0x20, 0x40, 0x40, // 7
	0xf0, 0x90, 0xf0, 0x90, 0xf0, // 8
	0xf0, 0x90, 0xf0, 0x10, 0xf0, // 9
	0xf0, 0x90, 0xf0, 0x90, 0x90, // A
	0xe0, 0x90, 0xe0, 0x90, 0xe0, // B
	0xf0, 0x80, 0x80, 0x80, 0xf0, // C
	0xe0, 0x90, 0x90, 0x90, 0xe0, // D
	0xf0, 0x80, 0xf0, 0x80, 0xf0, // E
	0xf0, 0x80, 0xf0, 0x80, 0x80, // F
}

// Machine is an implementation of a CHIP-8 CPU and its peripherals.
type Machine struct {
	Mem     Memory
	V       [NumRegs]byte
	I       uint16
	PC      uint16
	Stack   Stack
	Timers  Timers
	Display Display
	Keys    Keypad

	// Mode is AwaitingKey while an FX0A instruction is blocked,
	// in which case KeyReg is the register that receives the key.
	Mode   Mode
	KeyReg byte

	// Logf receives diagnostics, such as unknown instructions.
	Logf func(format string, args ...any)
	// Buzz, if non-nil, is called each time the sound timer reaches zero.
	Buzz func()

	rand *rand.Rand
}

// Mode is the run state of a Machine.
type Mode byte

const (
	Running Mode = iota
	AwaitingKey
)

func (m Mode) String() string {
	if m == AwaitingKey {
		return "awaiting key"
	}
	return "running"
}

// New returns a Machine with the font loaded and the program counter at
// ProgramAddr. All other state is zero.
func New() *Machine {
	m := &Machine{
		PC:   ProgramAddr,
		Logf: Nopf,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	copy(m.Mem[:], Font[:])
	return m
}

// Nopf is a log function that does nothing.
func Nopf(string, ...any) {}

// ErrROMTooLarge is returned by Load if the rom does not fit in program memory.
var ErrROMTooLarge = errors.New("rom too large")

// Load copies rom into memory at ProgramAddr.
func (m *Machine) Load(rom []byte) error {
	if len(rom) > MaxROMSize {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrROMTooLarge, len(rom), MaxROMSize)
	}
	copy(m.Mem[ProgramAddr:], rom)
	return nil
}

// Reg returns the value of register Vi.
// It panics with RegisterRange if i is not in [0, 15].
func (m *Machine) Reg(i int) byte {
	checkReg(i)
	return m.V[i]
}

// SetReg sets register Vi to v truncated to 8 bits.
// It panics with RegisterRange if i is not in [0, 15].
func (m *Machine) SetReg(i int, v int) {
	checkReg(i)
	m.V[i] = byte(v)
}

// Flag returns the value of VF.
func (m *Machine) Flag() byte { return m.V[0xf] }

// SetFlag sets VF to 1 if b is true and 0 otherwise.
func (m *Machine) SetFlag(b bool) {
	if b {
		m.V[0xf] = 1
	} else {
		m.V[0xf] = 0
	}
}

func checkReg(i int) {
	if i < 0 || i >= NumRegs {
		panic(RegisterRange)
	}
}

// Next returns the instruction at PC without executing it.
// If PC is out of range it returns the zero Instr.
func (m *Machine) Next() Instr {
	if int(m.PC)+1 >= MemSize {
		return Instr{}
	}
	return Decode(short(m.Mem[m.PC], m.Mem[m.PC+1]))
}

// Memory is the CHIP-8 address space.
type Memory [MemSize]byte

// Read returns the byte at addr.
// It panics with MemoryRange if addr is outside memory.
func (m *Memory) Read(addr int) byte {
	return m.span(addr, 1)[0]
}

// Write sets the byte at addr.
// It panics with MemoryRange if addr is outside memory.
func (m *Memory) Write(addr int, v byte) {
	m.span(addr, 1)[0] = v
}

// span returns the n bytes starting at addr.
func (m *Memory) span(addr, n int) []byte {
	if addr < 0 || n < 0 || addr+n > len(m) {
		panic(MemoryRange)
	}
	return m[addr : addr+n]
}

// Timers holds the delay and sound timers.
type Timers struct {
	Delay byte
	Sound byte
}

// step decrements each non-zero timer and reports whether
// the sound timer reached zero.
func (t *Timers) step() (buzz bool) {
	if t.Delay > 0 {
		t.Delay--
	}
	if t.Sound > 0 {
		t.Sound--
		return t.Sound == 0
	}
	return false
}

// Keypad holds the pressed state of the 16 keys.
type Keypad [NumKeys]bool

// Set records whether key k is held down.
func (p *Keypad) Set(k int, down bool) {
	checkKey(k)
	p[k] = down
}

// Pressed reports whether key k is held down.
func (p *Keypad) Pressed(k int) bool {
	checkKey(k)
	return p[k]
}

// first returns the lowest numbered key that is held down.
func (p *Keypad) first() (byte, bool) {
	for k, down := range p {
		if down {
			return byte(k), true
		}
	}
	return 0, false
}

func checkKey(k int) {
	if k < 0 || k >= NumKeys {
		panic(fmt.Sprintf("chip8: key %d out of range", k))
	}
}

func short(hi, lo byte) uint16 {
	return uint16(hi)<<8 + uint16(lo)
}
