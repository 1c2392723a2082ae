package chip8

import "testing"

func TestDecode(t *testing.T) {
	for _, c := range []struct {
		raw  uint16
		want Instr
	}{
		{0x00e0, Instr{Op: Cls, Raw: 0x00e0, X: 0, Y: 0xe, N: 0, NN: 0xe0, NNN: 0x0e0}},
		{0xd125, Instr{Op: Draw, Raw: 0xd125, X: 1, Y: 2, N: 5, NN: 0x25, NNN: 0x125}},
		{0x8abe, Instr{Op: ShiftLeft, Raw: 0x8abe, X: 0xa, Y: 0xb, N: 0xe, NN: 0xbe, NNN: 0xabe}},
		{0x8ab8, Instr{Op: Invalid, Raw: 0x8ab8, X: 0xa, Y: 0xb, N: 0x8, NN: 0xb8, NNN: 0xab8}},
	} {
		if g := Decode(c.raw); g != c.want {
			t.Errorf("Decode(%.4x) = %+v, want %+v", c.raw, g, c.want)
		}
	}
}

// Check that every opcode decodes, and that the whole
// instruction set is reachable.
func TestDecodeAll(t *testing.T) {
	seen := map[Op]int{}
	for raw := 0; raw <= 0xffff; raw++ {
		in := Decode(uint16(raw))
		if in.Op >= numOps {
			t.Fatalf("Decode(%.4x) returned out of range op %d", raw, in.Op)
		}
		if in.Raw != uint16(raw) {
			t.Fatalf("Decode(%.4x).Raw = %.4x", raw, in.Raw)
		}
		seen[in.Op]++
	}
	for op := Invalid + 1; op < numOps; op++ {
		if seen[op] == 0 {
			t.Errorf("no opcode decodes to %v (%d)", op, op)
		}
	}
	if n := int(numOps) - 1; n != 35 {
		t.Errorf("instruction set has %d instructions, want 35", n)
	}
	for op, want := range map[Op]int{
		Cls:       1,
		Ret:       1,
		Sys:       0x1000 - 2,
		Jump:      0x1000,
		SkipEq:    0x100,
		Move:      0x100,
		SkipKey:   0x10,
		LoadRegs:  0x10,
		StoreRegs: 0x10,
	} {
		if seen[op] != want {
			t.Errorf("%d opcodes decode to %v, want %d", seen[op], op, want)
		}
	}
}

func TestInstrString(t *testing.T) {
	for raw, want := range map[uint16]string{
		0x00e0: "CLS",
		0x00ee: "RET",
		0x0123: "SYS 0x123",
		0x1abc: "JP 0xabc",
		0x2300: "CALL 0x300",
		0x3a2a: "SE VA, 0x2a",
		0x4b01: "SNE VB, 0x01",
		0x5120: "SE V1, V2",
		0x6a3b: "LD VA, 0x3b",
		0x7f01: "ADD VF, 0x01",
		0x8120: "LD V1, V2",
		0x8121: "OR V1, V2",
		0x8122: "AND V1, V2",
		0x8123: "XOR V1, V2",
		0x8124: "ADD V1, V2",
		0x8125: "SUB V1, V2",
		0x8126: "SHR V1",
		0x8127: "SUBN V1, V2",
		0x812e: "SHL V1",
		0x9120: "SNE V1, V2",
		0xa123: "LD I, 0x123",
		0xb123: "JP V0, 0x123",
		0xc0ff: "RND V0, 0xff",
		0xd015: "DRW V0, V1, 5",
		0xe29e: "SKP V2",
		0xe2a1: "SKNP V2",
		0xf307: "LD V3, DT",
		0xfa0a: "LD VA, K",
		0xf315: "LD DT, V3",
		0xf318: "LD ST, V3",
		0xf31e: "ADD I, V3",
		0xf329: "LD F, V3",
		0xf333: "LD B, V3",
		0xf555: "LD [I], V5",
		0xf565: "LD V5, [I]",
		0xffff: "DW 0xffff",
	} {
		if g := Decode(raw).String(); g != want {
			t.Errorf("Decode(%.4x).String() = %q, want %q", raw, g, want)
		}
	}
}

func TestOpString(t *testing.T) {
	for op := Invalid; op < numOps; op++ {
		if op.String() == "" {
			t.Errorf("Op(%d) has no mnemonic", op)
		}
	}
}
