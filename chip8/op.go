package chip8

import "fmt"

// Op identifies a CHIP-8 instruction, independent of its operands.
type Op byte

const (
	Invalid Op = iota
	Sys        // 0NNN
	Cls        // 00E0
	Ret        // 00EE
	Jump       // 1NNN
	Call       // 2NNN
	SkipEqImm  // 3XNN
	SkipNeImm  // 4XNN
	SkipEq     // 5XY0
	LoadImm    // 6XNN
	AddImm     // 7XNN
	Move       // 8XY0
	Or         // 8XY1
	And        // 8XY2
	Xor        // 8XY3
	Add        // 8XY4
	Sub        // 8XY5
	ShiftRight // 8XY6
	SubReverse // 8XY7
	ShiftLeft  // 8XYE
	SkipNe     // 9XY0
	LoadIndex  // ANNN
	JumpOffset // BNNN
	Rand       // CXNN
	Draw       // DXYN
	SkipKey    // EX9E
	SkipNoKey  // EXA1
	GetDelay   // FX07
	WaitKey    // FX0A
	SetDelay   // FX15
	SetSound   // FX18
	AddIndex   // FX1E
	LoadFont   // FX29
	StoreBCD   // FX33
	StoreRegs  // FX55
	LoadRegs   // FX65

	numOps
)

var opMnemonics = [numOps]string{
	Invalid:    "???",
	Sys:        "SYS",
	Cls:        "CLS",
	Ret:        "RET",
	Jump:       "JP",
	Call:       "CALL",
	SkipEqImm:  "SE",
	SkipNeImm:  "SNE",
	SkipEq:     "SE",
	LoadImm:    "LD",
	AddImm:     "ADD",
	Move:       "LD",
	Or:         "OR",
	And:        "AND",
	Xor:        "XOR",
	Add:        "ADD",
	Sub:        "SUB",
	ShiftRight: "SHR",
	SubReverse: "SUBN",
	ShiftLeft:  "SHL",
	SkipNe:     "SNE",
	LoadIndex:  "LD",
	JumpOffset: "JP",
	Rand:       "RND",
	Draw:       "DRW",
	SkipKey:    "SKP",
	SkipNoKey:  "SKNP",
	GetDelay:   "LD",
	WaitKey:    "LD",
	SetDelay:   "LD",
	SetSound:   "LD",
	AddIndex:   "ADD",
	LoadFont:   "LD",
	StoreBCD:   "LD",
	StoreRegs:  "LD",
	LoadRegs:   "LD",
}

// String returns the assembler mnemonic for op.
func (op Op) String() string {
	if op < numOps {
		return opMnemonics[op]
	}
	return fmt.Sprintf("Op(%d)", byte(op))
}

// Instr is a decoded instruction. Not every operand is meaningful for
// every Op; the unused ones hold whatever bits the opcode had there.
type Instr struct {
	Op  Op
	Raw uint16
	X   byte   // register, bits 8-11
	Y   byte   // register, bits 4-7
	N   byte   // nibble, bits 0-3
	NN  byte   // byte, bits 0-7
	NNN uint16 // address, bits 0-11
}

var aluOps = [16]Op{
	0x0: Move,
	0x1: Or,
	0x2: And,
	0x3: Xor,
	0x4: Add,
	0x5: Sub,
	0x6: ShiftRight,
	0x7: SubReverse,
	0xe: ShiftLeft,
}

// Decode returns the instruction encoded by the 16-bit opcode raw.
// Opcodes outside the instruction set decode with Op set to Invalid.
func Decode(raw uint16) Instr {
	in := Instr{
		Raw: raw,
		X:   byte(raw>>8) & 0xf,
		Y:   byte(raw>>4) & 0xf,
		N:   byte(raw) & 0xf,
		NN:  byte(raw),
		NNN: raw & 0xfff,
	}
	switch raw >> 12 {
	case 0x0:
		switch raw {
		case 0x00e0:
			in.Op = Cls
		case 0x00ee:
			in.Op = Ret
		default:
			in.Op = Sys
		}
	case 0x1:
		in.Op = Jump
	case 0x2:
		in.Op = Call
	case 0x3:
		in.Op = SkipEqImm
	case 0x4:
		in.Op = SkipNeImm
	case 0x5:
		if in.N == 0 {
			in.Op = SkipEq
		}
	case 0x6:
		in.Op = LoadImm
	case 0x7:
		in.Op = AddImm
	case 0x8:
		in.Op = aluOps[in.N]
	case 0x9:
		if in.N == 0 {
			in.Op = SkipNe
		}
	case 0xa:
		in.Op = LoadIndex
	case 0xb:
		in.Op = JumpOffset
	case 0xc:
		in.Op = Rand
	case 0xd:
		in.Op = Draw
	case 0xe:
		switch in.NN {
		case 0x9e:
			in.Op = SkipKey
		case 0xa1:
			in.Op = SkipNoKey
		}
	case 0xf:
		switch in.NN {
		case 0x07:
			in.Op = GetDelay
		case 0x0a:
			in.Op = WaitKey
		case 0x15:
			in.Op = SetDelay
		case 0x18:
			in.Op = SetSound
		case 0x1e:
			in.Op = AddIndex
		case 0x29:
			in.Op = LoadFont
		case 0x33:
			in.Op = StoreBCD
		case 0x55:
			in.Op = StoreRegs
		case 0x65:
			in.Op = LoadRegs
		}
	}
	return in
}

// String returns the instruction in assembler syntax,
// for example "LD V3, 0x2a" or "DRW V0, V1, 5".
func (in Instr) String() string {
	switch in.Op {
	case Invalid:
		return fmt.Sprintf("DW 0x%.4x", in.Raw)
	case Cls, Ret:
		return in.Op.String()
	case Sys, Jump, Call:
		return fmt.Sprintf("%s 0x%.3x", in.Op, in.NNN)
	case SkipEqImm, SkipNeImm, LoadImm, AddImm, Rand:
		return fmt.Sprintf("%s V%X, 0x%.2x", in.Op, in.X, in.NN)
	case SkipEq, SkipNe, Move, Or, And, Xor, Add, Sub, SubReverse:
		return fmt.Sprintf("%s V%X, V%X", in.Op, in.X, in.Y)
	case ShiftRight, ShiftLeft, SkipKey, SkipNoKey:
		return fmt.Sprintf("%s V%X", in.Op, in.X)
	case LoadIndex:
		return fmt.Sprintf("LD I, 0x%.3x", in.NNN)
	case JumpOffset:
		return fmt.Sprintf("JP V0, 0x%.3x", in.NNN)
	case Draw:
		return fmt.Sprintf("DRW V%X, V%X, %d", in.X, in.Y, in.N)
	case GetDelay:
		return fmt.Sprintf("LD V%X, DT", in.X)
	case WaitKey:
		return fmt.Sprintf("LD V%X, K", in.X)
	case SetDelay:
		return fmt.Sprintf("LD DT, V%X", in.X)
	case SetSound:
		return fmt.Sprintf("LD ST, V%X", in.X)
	case AddIndex:
		return fmt.Sprintf("ADD I, V%X", in.X)
	case LoadFont:
		return fmt.Sprintf("LD F, V%X", in.X)
	case StoreBCD:
		return fmt.Sprintf("LD B, V%X", in.X)
	case StoreRegs:
		return fmt.Sprintf("LD [I], V%X", in.X)
	case LoadRegs:
		return fmt.Sprintf("LD V%X, [I]", in.X)
	}
	return fmt.Sprintf("%v 0x%.4x", in.Op, in.Raw)
}
