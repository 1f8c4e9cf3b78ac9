package cfg

import (
	"testing"

	"github.com/retrodos/pccore/mem"
	"github.com/retrodos/pccore/state"
)

// TestSelfModifyingCodeResurrection is spec.md §8's literal scenario 3:
// fetch, overwrite, fetch again (new node), restore, fetch again (the
// original node, pointer-identical).
func TestSelfModifyingCodeResurrection(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0x10100, []byte{0xB8, 0x34, 0x12}) // MOV AX,0x1234

	feeder := NewInstructionsFeeder(bus, false, false)
	addr := state.SegmentedAddress{Segment: 0x1000, Offset: 0x0100}

	nodeA, err := feeder.Fetch(addr)
	if err != nil {
		t.Fatalf("fetch A: %v", err)
	}
	if nodeA.Instruction.Operands.Imm16 != 0x1234 {
		t.Fatalf("node A imm16 = 0x%04X, want 0x1234", nodeA.Instruction.Operands.Imm16)
	}

	bus.Write8(0x10100, 0xB8)
	bus.Write8(0x10101, 0x78)
	bus.Write8(0x10102, 0x56)
	feeder.Invalidate(0x10100)
	feeder.Invalidate(0x10101)
	feeder.Invalidate(0x10102)

	nodeB, err := feeder.Fetch(addr)
	if err != nil {
		t.Fatalf("fetch B: %v", err)
	}
	if nodeB == nodeA {
		t.Fatalf("expected a distinct node after the byte change")
	}
	if nodeB.Instruction.Operands.Imm16 != 0x5678 {
		t.Fatalf("node B imm16 = 0x%04X, want 0x5678", nodeB.Instruction.Operands.Imm16)
	}

	bus.Write8(0x10100, 0xB8)
	bus.Write8(0x10101, 0x34)
	bus.Write8(0x10102, 0x12)
	feeder.Invalidate(0x10100)
	feeder.Invalidate(0x10101)
	feeder.Invalidate(0x10102)

	nodeC, err := feeder.Fetch(addr)
	if err != nil {
		t.Fatalf("fetch C: %v", err)
	}
	if nodeC != nodeA {
		t.Fatalf("expected the original node back, got a new object")
	}
}

// TestFeederIdentity asserts the basic feeder-identity invariant of
// spec.md §8: unchanged code bytes always yield the same object.
func TestFeederIdentity(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0x0, []byte{0x90}) // NOP
	feeder := NewInstructionsFeeder(bus, false, false)
	addr := state.SegmentedAddress{}

	first, err := feeder.Fetch(addr)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	second, err := feeder.Fetch(addr)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if first != second {
		t.Fatalf("expected the same cached object on repeated fetch")
	}
}

// TestDiscriminatedNodeOnShapeChange covers a genuinely different parse
// (not just a changed immediate) at one address: the CFG edge into it
// must disambiguate between both shapes by re-testing memory.
func TestDiscriminatedNodeOnShapeChange(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0x200, []byte{0x90})             // NOP
	bus.LoadAt(0x100, []byte{0xB8, 0x00, 0x00}) // filler so addresses don't overlap

	feeder := NewInstructionsFeeder(bus, false, false)
	target := state.SegmentedAddress{Offset: 0x200}

	nopNode, err := feeder.Fetch(target)
	if err != nil {
		t.Fatalf("fetch nop: %v", err)
	}

	bus.Write8(0x200, 0xF4) // HLT - a different shape entirely
	feeder.Invalidate(0x200)
	hltNode, err := feeder.Fetch(target)
	if err != nil {
		t.Fatalf("fetch hlt: %v", err)
	}
	if hltNode == nopNode {
		t.Fatalf("expected a distinct node for the incompatible shape")
	}

	from, err := feeder.Fetch(state.SegmentedAddress{})
	if err != nil {
		t.Fatalf("fetch from: %v", err)
	}
	succ := feeder.RecordSuccessor(from, Normal, hltNode)
	if _, ok := succ.(*DiscriminatedNode); !ok {
		t.Fatalf("expected a DiscriminatedNode edge once two incompatible shapes exist, got %T", succ)
	}

	if resolved := succ.Resolve(bus); resolved != hltNode {
		t.Fatalf("expected Resolve to pick the HLT node matching current memory")
	}

	bus.Write8(0x200, 0x90)
	feeder.Invalidate(0x200)
	if _, err := feeder.Fetch(target); err != nil {
		t.Fatalf("fetch restored nop: %v", err)
	}
	if resolved := succ.Resolve(bus); resolved != nopNode {
		t.Fatalf("expected Resolve to pick the NOP node after bytes were restored")
	}
}
