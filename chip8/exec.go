package chip8

import "fmt"

// Cycle runs one machine cycle: it fetches the instruction at PC, advances
// PC, executes the instruction and then steps the timers.
//
// Cycle reports whether the instruction completed. The only instruction that
// does not complete is FX0A (LD Vx, K) when no key is held: the machine is
// left in AwaitingKey mode with PC pointing at the FX0A instruction, and the
// timers are not stepped. Subsequent calls poll the keypad, without fetching,
// until a key is held.
//
// A non-nil error is always a HaltError, and the machine should not be run
// further.
func (m *Machine) Cycle() (completed bool, err error) {
	var (
		in   Instr
		opPC = m.PC
	)
	defer func() {
		if e := recover(); e != nil {
			if code, ok := e.(HaltCode); ok {
				completed = false
				err = HaltError{
					HaltCode: code,
					Instr:    in,
					Addr:     opPC,
				}
			} else {
				panic(e)
			}
		}
	}()

	if m.Mode == AwaitingKey {
		k, ok := m.Keys.first()
		if !ok {
			return false, nil
		}
		m.V[m.KeyReg&0xf] = k
		m.Mode = Running
		m.PC += 2
	} else {
		in = m.fetch()
		m.PC += 2
		if !m.exec(in) {
			return false, nil
		}
	}

	if m.Timers.step() && m.Buzz != nil {
		m.Buzz()
	}
	return true, nil
}

func (m *Machine) fetch() Instr {
	if int(m.PC)+1 >= MemSize {
		panic(PCRange)
	}
	return Decode(short(m.Mem[m.PC], m.Mem[m.PC+1]))
}

// exec executes in, with PC already pointing past it.
// It returns false if in did not complete.
func (m *Machine) exec(in Instr) bool {
	v := &m.V
	switch in.Op {
	case Cls:
		m.Display.Clear()
	case Ret:
		m.PC = m.Stack.Pop()
	case Jump:
		m.PC = in.NNN
	case Call:
		m.Stack.Push(m.PC)
		m.PC = in.NNN
	case SkipEqImm:
		m.skipIf(v[in.X] == in.NN)
	case SkipNeImm:
		m.skipIf(v[in.X] != in.NN)
	case SkipEq:
		m.skipIf(v[in.X] == v[in.Y])
	case SkipNe:
		m.skipIf(v[in.X] != v[in.Y])
	case LoadImm:
		v[in.X] = in.NN
	case AddImm:
		v[in.X] += in.NN

	case Move:
		v[in.X] = v[in.Y]
	case Or:
		v[in.X] |= v[in.Y]
	case And:
		v[in.X] &= v[in.Y]
	case Xor:
		v[in.X] ^= v[in.Y]
	case Add:
		x, y := v[in.X], v[in.Y]
		v[in.X] = x + y
		m.SetFlag(y > 0xff-x)
	case Sub:
		// VF is 1 when there is no borrow.
		x, y := v[in.X], v[in.Y]
		v[in.X] = x - y
		m.SetFlag(x >= y)
	case ShiftRight:
		x := v[in.X]
		v[in.X] = x >> 1
		v[0xf] = x & 0x01
	case SubReverse:
		x, y := v[in.X], v[in.Y]
		v[in.X] = y - x
		m.SetFlag(y >= x)
	case ShiftLeft:
		x := v[in.X]
		v[in.X] = x << 1
		v[0xf] = x >> 7

	case LoadIndex:
		m.I = in.NNN
	case JumpOffset:
		addr := in.NNN + uint16(v[0])
		if addr >= MemSize {
			panic(PCRange)
		}
		m.PC = addr
	case Rand:
		v[in.X] = byte(m.rand.Intn(0x100)) & in.NN
	case Draw:
		sprite := m.Mem.span(int(m.I), int(in.N))
		m.SetFlag(m.Display.Draw(int(v[in.X]), int(v[in.Y]), sprite))
	case SkipKey:
		m.skipIf(m.key(v[in.X]))
	case SkipNoKey:
		m.skipIf(!m.key(v[in.X]))

	case GetDelay:
		v[in.X] = m.Timers.Delay
	case WaitKey:
		if k, ok := m.Keys.first(); ok {
			v[in.X] = k
			break
		}
		m.Mode, m.KeyReg = AwaitingKey, in.X
		m.PC -= 2
		return false
	case SetDelay:
		m.Timers.Delay = v[in.X]
	case SetSound:
		m.Timers.Sound = v[in.X]
	case AddIndex:
		i := uint32(m.I) + uint32(v[in.X])
		if i > 0xffff {
			panic(MemoryRange)
		}
		m.I = uint16(i)
		m.SetFlag(i > 0xfff)
	case LoadFont:
		m.I = uint16(v[in.X]) * glyphSize
	case StoreBCD:
		b, x := m.Mem.span(int(m.I), 3), v[in.X]
		b[0], b[1], b[2] = x/100, x/10%10, x%10
	case StoreRegs:
		n := int(in.X) + 1
		copy(m.Mem.span(int(m.I), n), v[:n])
		m.I += uint16(n)
	case LoadRegs:
		n := int(in.X) + 1
		copy(v[:n], m.Mem.span(int(m.I), n))
		m.I += uint16(n)

	case Sys:
		m.Logf("chip8: unsupported %v at %.3x", in, m.PC-2)
	default:
		m.Logf("chip8: unknown instruction %.4x at %.3x", in.Raw, m.PC-2)
	}
	return true
}

func (m *Machine) skipIf(b bool) {
	if b {
		m.PC += 2
	}
}

// key reports whether the key numbered k is held down.
func (m *Machine) key(k byte) bool {
	if k >= NumKeys {
		panic(KeyRange)
	}
	return m.Keys[k]
}

// HaltError is returned by Cycle if execution is halted by a fault.
type HaltError struct {
	HaltCode
	Instr Instr
	Addr  uint16
}

func (e HaltError) Error() string {
	if e.Instr == (Instr{}) {
		// Fault during fetch.
		return fmt.Sprintf("%s at %.4x", e.HaltCode, e.Addr)
	}
	return fmt.Sprintf("%s executing %s at %.3x", e.HaltCode, e.Instr, e.Addr)
}

// HaltCode signifies the type of fault that halted execution.
type HaltCode byte

const (
	StackOverflow HaltCode = iota + 1
	StackUnderflow
	MemoryRange
	RegisterRange
	KeyRange
	PCRange
)

func (c HaltCode) String() string {
	if s, ok := map[HaltCode]string{
		StackOverflow:  "stack overflow",
		StackUnderflow: "stack underflow",
		MemoryRange:    "memory access out of range",
		RegisterRange:  "register out of range",
		KeyRange:       "key out of range",
		PCRange:        "program counter out of range",
	}[c]; ok {
		return s
	}
	return fmt.Sprintf("unknown (%.2x)", byte(c))
}
