package disasm

import (
	"testing"

	"github.com/retrodos/pccore/mem"
	"github.com/retrodos/pccore/parser"
	"github.com/retrodos/pccore/state"
)

func parseAt(t *testing.T, bus mem.Bus, addr state.SegmentedAddress) *parser.CfgInstruction {
	t.Helper()
	inst, err := parser.Parse(bus, addr, false, false)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return inst
}

func TestFormatMovRegImm(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0, []byte{0xB8, 0x34, 0x12}) // MOV AX, 0x1234
	inst := parseAt(t, bus, state.SegmentedAddress{})
	got := Format(inst)
	want := "mov ax, 0x1234"
	if got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
}

func TestFormatHlt(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0, []byte{0xF4})
	inst := parseAt(t, bus, state.SegmentedAddress{})
	if got := Format(inst); got != "hlt" {
		t.Fatalf("Format = %q, want hlt", got)
	}
}

func TestFormatJmpRel8(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0, []byte{0xEB, 0x05}) // JMP +5
	inst := parseAt(t, bus, state.SegmentedAddress{})
	got := Format(inst)
	want := "jmp 0x7"
	if got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
}
