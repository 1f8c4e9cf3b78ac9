// interrupt.go - INT3/INTn/INTO/IRET
//
// Ported from cpu_x86.go's handleInterrupt call sites in opINT3/opINT/opINTO
// and opIRET. Vector delivery itself (push FLAGS/CS/IP, clear IF/TF, load
// the vector's CS:IP) lives in the interrupt package so the cfg and
// breakpoints packages can reuse it without importing exec.
package exec

import (
	"github.com/retrodos/pccore/interrupt"
	"github.com/retrodos/pccore/parser"
)

func execInt3(inst *parser.CfgInstruction, h *Helper) error {
	return deliverInterrupt(inst, h, 3)
}

func execIntImm8(inst *parser.CfgInstruction, h *Helper) error {
	return deliverInterrupt(inst, h, inst.Operands.Imm8)
}

func execInto(inst *parser.CfgInstruction, h *Helper) error {
	if !h.State.OF() {
		return nil
	}
	return deliverInterrupt(inst, h, 4)
}

func execIret(inst *parser.CfgInstruction, h *Helper) error {
	interrupt.Return(h.State, h.Bus)
	h.setNext(h.State.CS, h.State.IP())
	return nil
}

// deliverInterrupt pushes the return address just past this instruction —
// IP still points at inst's first byte when Execute runs, so it is
// advanced here before handing off to interrupt.Dispatch — then lets a
// registered CallbackHandler service the vector inline (spec.md §4.6)
// before falling through to the guest's own handler, if any, at vector n.
func deliverInterrupt(inst *parser.CfgInstruction, h *Helper, n byte) error {
	h.State.SetIP(uint16(int32(h.State.IP()) + int32(inst.Length)))
	if h.Callbacks != nil && h.Callbacks.Handle(n, h.State, h.Bus) {
		h.setNext(h.State.CS, h.State.IP())
		return nil
	}
	interrupt.Dispatch(h.State, h.Bus, h.Vectors, n)
	h.setNext(h.State.CS, h.State.IP())
	return nil
}
