// control.go - unconditional/conditional jumps, calls, returns, loops
//
// Ported from cpu_x86_ops.go's opJMP_rel8/opJMP_rel and the Jcc/CALL/RET/
// LOOP family. Each executor sets h.NextNode explicitly rather than
// mutating EIP and letting Step() fall through, since the cfg package
// (not this one) owns advancing to the next CfgInstruction and recording
// the typed successor edge (spec.md §3's SuccessorType).

package exec

import "github.com/retrodos/pccore/parser"

func jumpTo(h *Helper, inst *parser.CfgInstruction, off uint16) {
	h.setNext(h.State.CS, off)
}

func execJmpRel(inst *parser.CfgInstruction, h *Helper) error {
	switch inst.Opcode {
	case parser.OpJmpRel8:
		jumpTo(h, inst, uint16(int32(h.State.IP())+int32(inst.Operands.Rel8)+int32(inst.Length)))
	default:
		jumpTo(h, inst, uint16(int32(h.State.IP())+inst.Operands.Rel32+int32(inst.Length)))
	}
	return nil
}

func execJmpRM(inst *parser.CfgInstruction, h *Helper) error {
	if inst.Opcode == parser.OpJmpRM32 {
		jumpTo(h, inst, uint16(h.readRM32(inst)))
	} else {
		jumpTo(h, inst, h.readRM16(inst))
	}
	return nil
}

func execJcc(inst *parser.CfgInstruction, h *Helper) error {
	if !evalCondition(inst.Operands.RegField, h.State) {
		return nil
	}
	if inst.Opcode == parser.OpJccRel8 {
		jumpTo(h, inst, uint16(int32(h.State.IP())+int32(inst.Operands.Rel8)+int32(inst.Length)))
	} else {
		jumpTo(h, inst, uint16(int32(h.State.IP())+inst.Operands.Rel32+int32(inst.Length)))
	}
	return nil
}

func execLoop(inst *parser.CfgInstruction, h *Helper) error {
	cx := h.State.CX() - 1
	h.State.SetCX(cx)
	take := false
	switch inst.Opcode {
	case parser.OpLoop:
		take = cx != 0
	case parser.OpLoope:
		take = cx != 0 && h.State.ZF()
	case parser.OpLoopne:
		take = cx != 0 && !h.State.ZF()
	}
	if take {
		jumpTo(h, inst, uint16(int32(h.State.IP())+int32(inst.Operands.Rel8)+int32(inst.Length)))
	}
	return nil
}

func execJcxz(inst *parser.CfgInstruction, h *Helper) error {
	if h.State.CX() == 0 {
		jumpTo(h, inst, uint16(int32(h.State.IP())+int32(inst.Operands.Rel8)+int32(inst.Length)))
	}
	return nil
}

func execCallRel(inst *parser.CfgInstruction, h *Helper) error {
	ret := uint16(int32(h.State.IP()) + int32(inst.Length))
	if inst.Operands.Size == parser.Size32 {
		h.push32(uint32(ret))
	} else {
		h.push16(ret)
	}
	target := uint16(int32(h.State.IP()) + inst.Operands.Rel32 + int32(inst.Length))
	jumpTo(h, inst, target)
	return nil
}

func execCallRM(inst *parser.CfgInstruction, h *Helper) error {
	ret := uint16(int32(h.State.IP()) + int32(inst.Length))
	var target uint16
	if inst.Opcode == parser.OpCallRM32 {
		h.push32(uint32(ret))
		target = uint16(h.readRM32(inst))
	} else {
		h.push16(ret)
		target = h.readRM16(inst)
	}
	jumpTo(h, inst, target)
	return nil
}

func execRetNear(inst *parser.CfgInstruction, h *Helper) error {
	target := h.pop16()
	jumpTo(h, inst, target)
	return nil
}

func execRetNearImm16(inst *parser.CfgInstruction, h *Helper) error {
	target := h.pop16()
	h.State.SetSP(h.State.SP() + inst.Operands.Imm16)
	jumpTo(h, inst, target)
	return nil
}

// jumpFar sets both halves of the next fetch address; the runner applies
// CS from h.NextNode the same way it applies IP (cfg/runner.go's Step).
func jumpFar(h *Helper, seg, off uint16) {
	h.setNext(seg, off)
}

func execCallFar(inst *parser.CfgInstruction, h *Helper) error {
	ret := uint16(int32(h.State.IP()) + int32(inst.Length))
	off := inst.Operands.Imm16
	if inst.Operands.Size == parser.Size32 {
		off = uint16(inst.Operands.Imm32)
	}
	h.push16(h.State.CS)
	h.push16(ret)
	jumpFar(h, inst.Operands.FarSeg, off)
	return nil
}

func execJmpFar(inst *parser.CfgInstruction, h *Helper) error {
	off := inst.Operands.Imm16
	if inst.Operands.Size == parser.Size32 {
		off = uint16(inst.Operands.Imm32)
	}
	jumpFar(h, inst.Operands.FarSeg, off)
	return nil
}

func execRetFar(inst *parser.CfgInstruction, h *Helper) error {
	off := h.pop16()
	seg := h.pop16()
	if inst.Opcode == parser.OpRetFarImm16 {
		h.State.SetSP(h.State.SP() + inst.Operands.Imm16)
	}
	jumpFar(h, seg, off)
	return nil
}

func execCallRMFar(inst *parser.CfgInstruction, h *Helper) error {
	ret := uint16(int32(h.State.IP()) + int32(inst.Length))
	var seg, off uint16
	if inst.Opcode == parser.OpCallRMFar32 {
		s, o := h.readFarPtr32(inst)
		seg, off = s, uint16(o)
	} else {
		seg, off = h.readFarPtr16(inst)
	}
	h.push16(h.State.CS)
	h.push16(ret)
	jumpFar(h, seg, off)
	return nil
}

func execJmpRMFar(inst *parser.CfgInstruction, h *Helper) error {
	var seg, off uint16
	if inst.Opcode == parser.OpJmpRMFar32 {
		s, o := h.readFarPtr32(inst)
		seg, off = s, uint16(o)
	} else {
		seg, off = h.readFarPtr16(inst)
	}
	jumpFar(h, seg, off)
	return nil
}
