package exec

import (
	"testing"

	"github.com/retrodos/pccore/mem"
	"github.com/retrodos/pccore/parser"
	"github.com/retrodos/pccore/state"
)

func newHelper(bus mem.Bus) (*state.State, *Helper) {
	st := &state.State{}
	return st, &Helper{State: st, Bus: bus}
}

func parseAt(t *testing.T, bus mem.Bus, off uint16, addr32, opsize32 bool) *parser.CfgInstruction {
	t.Helper()
	inst, err := parser.Parse(bus, state.SegmentedAddress{Offset: off}, addr32, opsize32)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return inst
}

// TestFarCallDirectPushesReturnAddressAndSetsTarget covers CALL ptr16:16
// (0x9A): CS then the return IP are pushed in that order, and the explicit
// control-transfer target carries both halves of the far pointer.
func TestFarCallDirectPushesReturnAddressAndSetsTarget(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0x0100, []byte{0x9A, 0x00, 0x20, 0x00, 0x10}) // CALL 0x1000:0x2000
	inst := parseAt(t, bus, 0x0100, false, false)

	st, h := newHelper(bus)
	st.CS = 0x0050
	st.SS = 0
	st.SetIP(0x0100)
	st.SetSP(0x3000)

	if err := Execute(inst, h); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if h.NextNode == nil || h.NextNode.Segment != 0x1000 || h.NextNode.Offset != 0x2000 {
		t.Fatalf("NextNode = %+v, want {1000 2000}", h.NextNode)
	}
	wantRet := uint16(0x0100 + inst.Length)
	if got := mem.Read16(bus, (uint32(st.SS)<<4)+uint32(st.SP())); got != wantRet {
		t.Fatalf("pushed return IP = 0x%04X, want 0x%04X", got, wantRet)
	}
	if got := mem.Read16(bus, (uint32(st.SS)<<4)+uint32(st.SP())+2); got != 0x0050 {
		t.Fatalf("pushed CS = 0x%04X, want 0x0050", got)
	}
}

// TestFarCallRetRoundTrip chains an indirect far CALL through a far RET and
// checks the stack is symmetric: RETF pops exactly what CALL pushed, in the
// order CALL pushed it, landing back at the original CS:IP.
func TestFarCallRetRoundTrip(t *testing.T) {
	bus := mem.NewFlatBus()
	// CALL FAR [0x0070]: mod=00 reg=011(/3, far call) rm=110 (disp16 direct).
	bus.LoadAt(0x0200, []byte{0xFF, 0x1E, 0x70, 0x00})
	bus.LoadAt(0x0070, []byte{0x00, 0x40, 0x00, 0x20}) // far ptr16: offset 0x4000, seg 0x2000
	call := parseAt(t, bus, 0x0200, false, false)

	st, h := newHelper(bus)
	st.CS = 0x0030
	st.SS = 0
	st.SetIP(0x0200)
	st.SetSP(0x3000)

	if err := Execute(call, h); err != nil {
		t.Fatalf("Execute call: %v", err)
	}
	if h.NextNode.Segment != 0x2000 || h.NextNode.Offset != 0x4000 {
		t.Fatalf("call target = %+v, want {2000 4000}", h.NextNode)
	}
	st.SetSeg(state.SegCS, h.NextNode.Segment)
	st.SetIP(h.NextNode.Offset)

	ret := &parser.CfgInstruction{Opcode: parser.OpRetFar}
	if err := Execute(ret, h); err != nil {
		t.Fatalf("Execute retf: %v", err)
	}
	if h.NextNode.Segment != 0x0030 || h.NextNode.Offset != uint16(0x0200+call.Length) {
		t.Fatalf("return target = %+v, want {0030 %04X}", h.NextNode, 0x0200+call.Length)
	}
	if got := st.SP(); got != 0x3000 {
		t.Fatalf("SP after round trip = 0x%04X, want back to 0x3000", got)
	}
}

// TestLoadFarPtr16 covers LES: the GPR named by ModRM.Reg gets the far
// pointer's offset half, ES gets the selector half, read as offset-word
// then segment-word (m16:16).
func TestLoadFarPtr16(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0x0100, []byte{0xC4, 0x1E, 0x50, 0x00}) // LES BX,[0x0050]
	bus.LoadAt(0x0050, []byte{0x34, 0x12, 0xCD, 0xAB})  // offset 0x1234, seg 0xABCD
	inst := parseAt(t, bus, 0x0100, false, false)

	_, h := newHelper(bus)
	if err := Execute(inst, h); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := h.State.Reg16(3); got != 0x1234 {
		t.Fatalf("BX = 0x%04X, want 0x1234", got)
	}
	if h.State.ES != 0xABCD {
		t.Fatalf("ES = 0x%04X, want 0xABCD", h.State.ES)
	}
}

// TestLoadFarPtr32 covers LFS's 32-bit form (m16:32): the full dword offset
// loads into the 32-bit GPR, not just its low word.
func TestLoadFarPtr32(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0x0100, []byte{0x0F, 0xB4, 0x0D, 0x60, 0x00, 0x00, 0x00}) // LFS ECX,[0x00000060]
	bus.LoadAt(0x0060, []byte{0xDD, 0xCC, 0xBB, 0xAA, 0x34, 0x12})        // offset 0xAABBCCDD, seg 0x1234
	inst := parseAt(t, bus, 0x0100, true, true)

	_, h := newHelper(bus)
	if err := Execute(inst, h); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := h.State.Reg32(1); got != 0xAABBCCDD {
		t.Fatalf("ECX = 0x%08X, want 0xAABBCCDD", got)
	}
	if h.State.FS != 0x1234 {
		t.Fatalf("FS = 0x%04X, want 0x1234", h.State.FS)
	}
}

// TestRetFarImm16AdjustsSP covers RETF imm16 (0xCB's sibling 0xCA): beyond
// popping CS:IP, it discards imm16 bytes of caller-pushed arguments off the
// stack the way a callee-cleans-up calling convention expects.
func TestRetFarImm16AdjustsSP(t *testing.T) {
	bus := mem.NewFlatBus()
	_, h := newHelper(bus)
	h.State.SetSP(0x2FFC)
	mem.Write16(bus, 0x2FFC, 0x0204) // saved IP
	mem.Write16(bus, 0x2FFE, 0x0030) // saved CS

	ret := &parser.CfgInstruction{Opcode: parser.OpRetFarImm16, Operands: parser.Operands{Imm16: 4}}
	if err := Execute(ret, h); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if h.NextNode.Segment != 0x0030 || h.NextNode.Offset != 0x0204 {
		t.Fatalf("target = %+v, want {0030 0204}", h.NextNode)
	}
	if got := h.State.SP(); got != 0x3004 {
		t.Fatalf("SP = 0x%04X, want 0x3004 (popped 4 bytes, then discarded imm16=4)", got)
	}
}
