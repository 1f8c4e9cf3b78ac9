// helper.go - ExecutionHelper: the collaborator every opcode executor runs
// against
//
// Generalizes cpu_x86.go's readRM8/writeRM8/.../push16/pop16/push32/pop32
// and calcEffectiveAddress resolution into a reusable Helper that owns no
// instruction-shaped state of its own: it is handed a *parser.CfgInstruction
// for each Execute call and operates purely against live State/Bus.

package exec

import (
	"github.com/retrodos/pccore/breakpoints"
	"github.com/retrodos/pccore/interrupt"
	"github.com/retrodos/pccore/mem"
	"github.com/retrodos/pccore/parser"
	"github.com/retrodos/pccore/state"
)

// Helper bundles every piece of machine state an opcode executor needs.
// spec.md §4.4 names this the ExecutionHelper.
type Helper struct {
	State *state.State
	Bus   mem.Bus
	IO    mem.IOBus

	Vectors     *interrupt.VectorTable
	Callbacks   interrupt.CallbackHandler
	Breakpoints *breakpoints.Manager

	// NextNode, when non-nil after Execute returns, names the segmented
	// address the cfg package's feeder should resolve as successor
	// instead of falling through to Address+Length. Control-transfer
	// executors set it; straight-line executors leave it nil.
	NextNode *state.SegmentedAddress
}

func (h *Helper) effectiveLinear(ctx parser.ModRmContext, seg int) uint32 {
	off := ctx.Resolve(h.State)
	base := uint32(h.State.Seg(seg)) << 4
	return (base + off) & mem.AddressMask
}

func (h *Helper) segmentFor(pfx parser.Prefixes, defaultSeg int) int {
	if pfx.SegmentOverride >= 0 {
		return pfx.SegmentOverride
	}
	return defaultSeg
}

func (h *Helper) readRM8(inst *parser.CfgInstruction) byte {
	m := inst.Operands.ModRM
	if m.IsDirect {
		return h.State.Reg8(m.RM)
	}
	addr := h.effectiveLinear(m, h.segmentFor(inst.Prefixes, state.SegDS))
	return h.Bus.Read8(addr)
}

func (h *Helper) writeRM8(inst *parser.CfgInstruction, v byte) {
	m := inst.Operands.ModRM
	if m.IsDirect {
		h.State.SetReg8(m.RM, v)
		return
	}
	addr := h.effectiveLinear(m, h.segmentFor(inst.Prefixes, state.SegDS))
	h.Bus.Write8(addr, v)
}

func (h *Helper) readRM16(inst *parser.CfgInstruction) uint16 {
	m := inst.Operands.ModRM
	if m.IsDirect {
		return h.State.Reg16(m.RM)
	}
	addr := h.effectiveLinear(m, h.segmentFor(inst.Prefixes, state.SegDS))
	return mem.Read16(h.Bus, addr)
}

func (h *Helper) writeRM16(inst *parser.CfgInstruction, v uint16) {
	m := inst.Operands.ModRM
	if m.IsDirect {
		h.State.SetReg16(m.RM, v)
		return
	}
	addr := h.effectiveLinear(m, h.segmentFor(inst.Prefixes, state.SegDS))
	mem.Write16(h.Bus, addr, v)
}

func (h *Helper) readRM32(inst *parser.CfgInstruction) uint32 {
	m := inst.Operands.ModRM
	if m.IsDirect {
		return h.State.Reg32(m.RM)
	}
	addr := h.effectiveLinear(m, h.segmentFor(inst.Prefixes, state.SegDS))
	return mem.Read32(h.Bus, addr)
}

func (h *Helper) writeRM32(inst *parser.CfgInstruction, v uint32) {
	m := inst.Operands.ModRM
	if m.IsDirect {
		h.State.SetReg32(m.RM, v)
		return
	}
	addr := h.effectiveLinear(m, h.segmentFor(inst.Prefixes, state.SegDS))
	mem.Write32(h.Bus, addr, v)
}

// readFarPtr16 reads a far m16:16 pointer (offset word, then segment word)
// at inst's memory operand.
func (h *Helper) readFarPtr16(inst *parser.CfgInstruction) (seg, off uint16) {
	addr := h.effectiveLinear(inst.Operands.ModRM, h.segmentFor(inst.Prefixes, state.SegDS))
	off = mem.Read16(h.Bus, addr)
	seg = mem.Read16(h.Bus, addr+2)
	return
}

// readFarPtr32 reads a far m16:32 pointer (offset dword, then segment word).
func (h *Helper) readFarPtr32(inst *parser.CfgInstruction) (seg uint16, off uint32) {
	addr := h.effectiveLinear(inst.Operands.ModRM, h.segmentFor(inst.Prefixes, state.SegDS))
	off = mem.Read32(h.Bus, addr)
	seg = mem.Read16(h.Bus, addr+4)
	return
}

func (h *Helper) stackLinear() uint32 {
	return (uint32(h.State.SS) << 4) + uint32(h.State.SP())
}

func (h *Helper) push16(v uint16) {
	h.State.SetSP(h.State.SP() - 2)
	mem.Write16(h.Bus, h.stackLinear(), v)
}

func (h *Helper) pop16() uint16 {
	v := mem.Read16(h.Bus, h.stackLinear())
	h.State.SetSP(h.State.SP() + 2)
	return v
}

func (h *Helper) push32(v uint32) {
	h.State.SetSP(h.State.SP() - 4)
	mem.Write32(h.Bus, h.stackLinear(), v)
}

func (h *Helper) pop32() uint32 {
	v := mem.Read32(h.Bus, h.stackLinear())
	h.State.SetSP(h.State.SP() + 4)
	return v
}

// setNext records an explicit control transfer target for the cfg
// package's feeder to pick up as this instruction's successor.
func (h *Helper) setNext(seg, off uint16) {
	addr := state.SegmentedAddress{Segment: seg, Offset: off}
	h.NextNode = &addr
}
