package parser

import (
	"testing"

	"github.com/retrodos/pccore/mem"
	"github.com/retrodos/pccore/state"
)

// TestParseNeverFails covers spec.md §4.1/§7: an unrecognized opcode byte
// still yields a CfgInstruction (tagged OpInvalid) rather than an error, so
// the fault surfaces later as an interrupt-6 delivery instead of unwinding
// out of the decoder.
func TestParseNeverFails(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0x100, []byte{0x0F, 0x0F}) // 0x0F 0x0F: unassigned two-byte form

	inst, err := Parse(bus, state.SegmentedAddress{Offset: 0x100}, false, false)
	if err != nil {
		t.Fatalf("Parse returned an error for an invalid opcode: %v", err)
	}
	if inst.Opcode != OpInvalid {
		t.Fatalf("Opcode = %v, want OpInvalid", inst.Opcode)
	}
	if inst.Length == 0 {
		t.Fatalf("Length = 0, want at least the bytes consumed finding the opcode invalid")
	}
}
