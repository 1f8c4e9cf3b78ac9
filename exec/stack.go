// stack.go - PUSH/POP/PUSHA/POPA/PUSHFD/POPFD
//
// Ported from cpu_x86.go's push16/pop16/push32/pop32 plus the PUSHA/POPA/
// PUSHFD/POPFD handlers referenced from initBaseOps.

package exec

import (
	"github.com/retrodos/pccore/mem"
	"github.com/retrodos/pccore/parser"
)

// execEnter implements ENTER imm16,imm8: push BP, chain up to 31 nested
// frame pointers per the imm8 nesting level, then carve imm16 bytes off
// the stack for the new frame's locals.
func execEnter(inst *parser.CfgInstruction, h *Helper) error {
	allocSize := inst.Operands.Imm16
	level := inst.Operands.Imm8 & 0x1F

	frameTemp := h.State.SP() - 2
	h.push16(h.State.BP())
	if level > 0 {
		bp := h.State.BP()
		for i := byte(1); i < level; i++ {
			bp -= 2
			h.push16(mem.Read16(h.Bus, (uint32(h.State.SS)<<4)+uint32(bp)))
		}
		h.push16(frameTemp)
	}
	h.State.SetBP(frameTemp)
	h.State.SetSP(h.State.SP() - allocSize)
	return nil
}

func execLeave(inst *parser.CfgInstruction, h *Helper) error {
	h.State.SetSP(h.State.BP())
	h.State.SetBP(h.pop16())
	return nil
}

func execPushReg(inst *parser.CfgInstruction, h *Helper) error {
	if inst.Operands.Size == parser.Size32 {
		h.push32(h.State.Reg32(inst.Operands.RegField))
	} else {
		h.push16(h.State.Reg16(inst.Operands.RegField))
	}
	return nil
}

func execPopReg(inst *parser.CfgInstruction, h *Helper) error {
	if inst.Operands.Size == parser.Size32 {
		h.State.SetReg32(inst.Operands.RegField, h.pop32())
	} else {
		h.State.SetReg16(inst.Operands.RegField, h.pop16())
	}
	return nil
}

func execPushImm(inst *parser.CfgInstruction, h *Helper) error {
	if inst.Operands.Size == parser.Size32 {
		h.push32(inst.Operands.Imm32)
	} else {
		h.push16(inst.Operands.Imm16)
	}
	return nil
}

func execPushRM(inst *parser.CfgInstruction, h *Helper) error {
	if inst.Opcode == parser.OpPushRM32 {
		h.push32(h.readRM32(inst))
	} else {
		h.push16(h.readRM16(inst))
	}
	return nil
}

func execPopRM(inst *parser.CfgInstruction, h *Helper) error {
	if inst.Opcode == parser.OpPopRM32 {
		h.writeRM32(inst, h.pop32())
	} else {
		h.writeRM16(inst, h.pop16())
	}
	return nil
}

func execPushSeg(inst *parser.CfgInstruction, h *Helper) error {
	h.push16(h.State.Seg(inst.Operands.SegIndex))
	return nil
}

func execPopSeg(inst *parser.CfgInstruction, h *Helper) error {
	h.State.SetSeg(inst.Operands.SegIndex, h.pop16())
	return nil
}

func execPushfd(inst *parser.CfgInstruction, h *Helper) error {
	h.push32(h.State.Flags)
	return nil
}

func execPopfd(inst *parser.CfgInstruction, h *Helper) error {
	h.State.Flags = h.pop32()
	return nil
}

func execPusha(inst *parser.CfgInstruction, h *Helper) error {
	sp := h.State.SP()
	h.push16(h.State.AX())
	h.push16(h.State.CX())
	h.push16(h.State.DX())
	h.push16(h.State.BX())
	h.push16(sp)
	h.push16(h.State.BP())
	h.push16(h.State.SI())
	h.push16(h.State.DI())
	return nil
}

func execPopa(inst *parser.CfgInstruction, h *Helper) error {
	h.State.SetDI(h.pop16())
	h.State.SetSI(h.pop16())
	h.State.SetBP(h.pop16())
	h.pop16() // discard saved SP
	h.State.SetBX(h.pop16())
	h.State.SetDX(h.pop16())
	h.State.SetCX(h.pop16())
	h.State.SetAX(h.pop16())
	return nil
}
