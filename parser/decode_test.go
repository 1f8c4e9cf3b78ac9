package parser

import (
	"testing"

	"github.com/retrodos/pccore/mem"
	"github.com/retrodos/pccore/state"
)

// TestDecodeFpuStubs pins the exact ModR/M byte values the 386 coprocessor
// escape space uses for the four stub forms this core recognizes: DB E3
// (FNINIT), D9 /7 mem (FNSTCW), DD /7 mem (FNSTSW), and DF E0 (FNSTSW AX).
// Each of the register-direct forms encodes reg=4 in its ModR/M byte, not
// the opcode's own /digit — easy to get wrong by reading the mnemonic's
// "/7"-style digit instead of the literal byte.
func TestDecodeFpuStubs(t *testing.T) {
	cases := []struct {
		name string
		b    []byte
		want Opcode
	}{
		{"fninit", []byte{0xDB, 0xE3}, OpFninit},
		{"fnstsw ax", []byte{0xDF, 0xE0}, OpFnstswAX},
		{"fnstcw m16", []byte{0xD9, 0x3E, 0x00, 0x00}, OpFnstcw}, // mod=00 reg=111(/7) rm=110 (disp16 direct)
		{"fnstsw m16", []byte{0xDD, 0x3E, 0x00, 0x00}, OpFnstsw},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			bus := mem.NewFlatBus()
			bus.LoadAt(0, c.b)
			inst, err := Parse(bus, state.SegmentedAddress{}, false, false)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if inst.Opcode != c.want {
				t.Fatalf("Opcode = %v, want %v", inst.Opcode, c.want)
			}
		})
	}
}

// TestDecodeFpuEscapeUnrecognizedStaysInvalid covers the rest of the
// 0xD8-0xDF space: anything other than the four stub encodings is left
// OpInvalid and faults like any other unmodeled instruction, rather than
// being silently misidentified as one of the stubs.
func TestDecodeFpuEscapeUnrecognizedStaysInvalid(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0, []byte{0xD8, 0xC0}) // FADD ST0,ST0 - not modeled
	inst, err := Parse(bus, state.SegmentedAddress{}, false, false)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if inst.Opcode != OpInvalid {
		t.Fatalf("Opcode = %v, want OpInvalid for an unmodeled ESC form", inst.Opcode)
	}
}

// TestDecodeEnterLeave checks ENTER's imm16,imm8 operand order (allocation
// size first, then nesting level) and that LEAVE needs no operands at all.
func TestDecodeEnterLeave(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0, []byte{0xC8, 0x10, 0x00, 0x02, 0xC9})
	inst, err := Parse(bus, state.SegmentedAddress{}, false, false)
	if err != nil {
		t.Fatalf("Parse ENTER: %v", err)
	}
	if inst.Opcode != OpEnter {
		t.Fatalf("Opcode = %v, want OpEnter", inst.Opcode)
	}
	if inst.Operands.Imm16 != 0x0010 || inst.Operands.Imm8 != 2 {
		t.Fatalf("ENTER operands = imm16=0x%04X imm8=%d, want 0x0010/2", inst.Operands.Imm16, inst.Operands.Imm8)
	}

	leave, err := Parse(bus, state.SegmentedAddress{Offset: 4}, false, false)
	if err != nil {
		t.Fatalf("Parse LEAVE: %v", err)
	}
	if leave.Opcode != OpLeave || leave.Length != 1 {
		t.Fatalf("LEAVE = %v length %d, want OpLeave length 1", leave.Opcode, leave.Length)
	}
}

// TestDecodeShldShrdCountSource covers both SHLD/SHRD count encodings: the
// ib immediate form (0F A4/AC) and the CL form (0F A5/AD), which carry no
// trailing immediate byte at all.
func TestDecodeShldShrdCountSource(t *testing.T) {
	bus := mem.NewFlatBus()
	// SHLD AX,CX,4 (ib form) followed by SHLD AX,CX,CL (CL form).
	bus.LoadAt(0, []byte{0x0F, 0xA4, 0xC8, 0x04, 0x0F, 0xA5, 0xC8})

	ib, err := Parse(bus, state.SegmentedAddress{}, false, false)
	if err != nil {
		t.Fatalf("Parse ib form: %v", err)
	}
	if ib.Opcode != OpShld || ib.Operands.ShiftByCL || ib.Operands.Imm8 != 4 || ib.Length != 4 {
		t.Fatalf("ib form = %+v, want OpShld ShiftByCL=false Imm8=4 Length=4", ib.Operands)
	}

	cl, err := Parse(bus, state.SegmentedAddress{Offset: 4}, false, false)
	if err != nil {
		t.Fatalf("Parse CL form: %v", err)
	}
	if cl.Opcode != OpShld || !cl.Operands.ShiftByCL || cl.Length != 3 {
		t.Fatalf("CL form = %+v length %d, want OpShld ShiftByCL=true Length=3", cl.Operands, cl.Length)
	}
}

// TestDecodeFarCallDirectOperandSize checks that a direct far CALL's
// offset width follows the operand-size prefix while FarSeg is always the
// trailing 16-bit selector, regardless of size.
func TestDecodeFarCallDirectOperandSize(t *testing.T) {
	bus := mem.NewFlatBus()
	// CALL 0x1000:0x00002000 (9A, offset32, seg16) under 32-bit operand size.
	bus.LoadAt(0, []byte{0x9A, 0x00, 0x20, 0x00, 0x00, 0x00, 0x10})
	inst, err := Parse(bus, state.SegmentedAddress{}, false, true)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if inst.Opcode != OpCallFar {
		t.Fatalf("Opcode = %v, want OpCallFar", inst.Opcode)
	}
	if inst.Operands.Imm32 != 0x00002000 || inst.Operands.FarSeg != 0x1000 {
		t.Fatalf("operands = imm32=0x%08X farSeg=0x%04X, want 0x2000/0x1000", inst.Operands.Imm32, inst.Operands.FarSeg)
	}
	if inst.Length != 7 {
		t.Fatalf("Length = %d, want 7", inst.Length)
	}
}

// TestDecodeLesFarPointerShape confirms LES's destination register comes
// from ModRM.Reg and its segment target is fixed to ES regardless of the
// ModRM byte's own field values.
func TestDecodeLesFarPointerShape(t *testing.T) {
	bus := mem.NewFlatBus()
	// LES BX,[0x0050]: mod=00 reg=011(BX) rm=110(disp16 direct).
	bus.LoadAt(0, []byte{0xC4, 0x1E, 0x50, 0x00})
	inst, err := Parse(bus, state.SegmentedAddress{}, false, false)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if inst.Opcode != OpLes {
		t.Fatalf("Opcode = %v, want OpLes", inst.Opcode)
	}
	if inst.Operands.SegIndex != state.SegES {
		t.Fatalf("SegIndex = %d, want SegES", inst.Operands.SegIndex)
	}
	if inst.Operands.ModRM.Reg != 3 {
		t.Fatalf("ModRM.Reg = %d, want 3 (BX)", inst.Operands.ModRM.Reg)
	}
}
