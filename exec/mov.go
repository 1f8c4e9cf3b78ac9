// mov.go - data movement: MOV forms, MOVZX/MOVSX, segment MOV
//
// Ported from cpu_x86_ops.go's MOV handlers.

package exec

import (
	"github.com/retrodos/pccore/mem"
	"github.com/retrodos/pccore/parser"
	"github.com/retrodos/pccore/state"
)

func execMovRegRM(inst *parser.CfgInstruction, h *Helper) error {
	switch inst.Opcode {
	case parser.OpMovRegRM8:
		h.State.SetReg8(inst.Operands.ModRM.Reg, h.readRM8(inst))
	case parser.OpMovRegRM32:
		h.State.SetReg32(inst.Operands.ModRM.Reg, h.readRM32(inst))
	default:
		h.State.SetReg16(inst.Operands.ModRM.Reg, h.readRM16(inst))
	}
	return nil
}

func execMovRMReg(inst *parser.CfgInstruction, h *Helper) error {
	switch inst.Opcode {
	case parser.OpMovRMReg8:
		h.writeRM8(inst, h.State.Reg8(inst.Operands.ModRM.Reg))
	case parser.OpMovRMReg32:
		h.writeRM32(inst, h.State.Reg32(inst.Operands.ModRM.Reg))
	default:
		h.writeRM16(inst, h.State.Reg16(inst.Operands.ModRM.Reg))
	}
	return nil
}

func execMovRegImm(inst *parser.CfgInstruction, h *Helper) error {
	switch inst.Opcode {
	case parser.OpMovRegImm8:
		h.State.SetReg8(inst.Operands.RegField, inst.Operands.Imm8)
	case parser.OpMovRegImm32:
		h.State.SetReg32(inst.Operands.RegField, inst.Operands.Imm32)
	default:
		h.State.SetReg16(inst.Operands.RegField, inst.Operands.Imm16)
	}
	return nil
}

func execMovRMImm(inst *parser.CfgInstruction, h *Helper) error {
	switch inst.Opcode {
	case parser.OpMovRMImm8:
		h.writeRM8(inst, inst.Operands.Imm8)
	case parser.OpMovRMImm32:
		h.writeRM32(inst, inst.Operands.Imm32)
	default:
		h.writeRM16(inst, inst.Operands.Imm16)
	}
	return nil
}

// execMovSegOut/In implement the two directions of MOV Sw<->r/m16 (0x8C
// reads a segment register out to r/m16, 0x8E loads one in from r/m16).
func execMovSegOut(inst *parser.CfgInstruction, h *Helper) error {
	h.writeRM16(inst, h.State.Seg(inst.Operands.SegIndex))
	return nil
}

func execMovSegIn(inst *parser.CfgInstruction, h *Helper) error {
	h.State.SetSeg(inst.Operands.SegIndex, h.readRM16(inst))
	return nil
}

// execMovALMoffs/execMovMoffsAL implement MOV AL/AX/EAX,moffs and
// MOV moffs,AL/AX/EAX (0xA0-0xA3) — the one absolute-address addressing
// mode the 386 retains alongside full ModRM addressing.
func execMovALMoffs(inst *parser.CfgInstruction, h *Helper) error {
	addr := moffsLinear(inst, h)
	switch inst.Operands.Size {
	case parser.Size8:
		h.State.SetAL(h.Bus.Read8(addr))
	case parser.Size32:
		h.State.EAX = mem.Read32(h.Bus, addr)
	default:
		h.State.SetAX(mem.Read16(h.Bus, addr))
	}
	return nil
}

func execMovMoffsAL(inst *parser.CfgInstruction, h *Helper) error {
	addr := moffsLinear(inst, h)
	switch inst.Operands.Size {
	case parser.Size8:
		h.Bus.Write8(addr, h.State.AL())
	case parser.Size32:
		mem.Write32(h.Bus, addr, h.State.EAX)
	default:
		mem.Write16(h.Bus, addr, h.State.AX())
	}
	return nil
}

func moffsLinear(inst *parser.CfgInstruction, h *Helper) uint32 {
	seg := h.segmentFor(inst.Prefixes, state.SegDS)
	return (uint32(h.State.Seg(seg)) << 4) + inst.Operands.MoffsAddr
}

func execMovzx(inst *parser.CfgInstruction, h *Helper) error {
	var v uint32
	if inst.Opcode == parser.OpMovzxRMReg8 {
		v = uint32(h.readRM8(inst))
	} else {
		v = uint32(h.readRM16(inst))
	}
	if inst.Operands.Size == parser.Size32 {
		h.State.SetReg32(inst.Operands.ModRM.Reg, v)
	} else {
		h.State.SetReg16(inst.Operands.ModRM.Reg, uint16(v))
	}
	return nil
}

func execMovsx(inst *parser.CfgInstruction, h *Helper) error {
	var v int32
	if inst.Opcode == parser.OpMovsxRMReg8 {
		v = int32(int8(h.readRM8(inst)))
	} else {
		v = int32(int16(h.readRM16(inst)))
	}
	if inst.Operands.Size == parser.Size32 {
		h.State.SetReg32(inst.Operands.ModRM.Reg, uint32(v))
	} else {
		h.State.SetReg16(inst.Operands.ModRM.Reg, uint16(v))
	}
	return nil
}

// execLoadFarPtr implements LES/LDS/LSS/LFS/LGS: one shape (load a GPR
// with a far pointer's offset, a segment register with its selector)
// shared across all five opcodes, distinguished only by which segment
// register Operands.SegIndex names.
func execLoadFarPtr(inst *parser.CfgInstruction, h *Helper) error {
	if inst.Operands.Size == parser.Size32 {
		seg, off := h.readFarPtr32(inst)
		h.State.SetReg32(inst.Operands.ModRM.Reg, off)
		h.State.SetSeg(inst.Operands.SegIndex, seg)
		return nil
	}
	seg, off := h.readFarPtr16(inst)
	h.State.SetReg16(inst.Operands.ModRM.Reg, off)
	h.State.SetSeg(inst.Operands.SegIndex, seg)
	return nil
}

func execBswap(inst *parser.CfgInstruction, h *Helper) error {
	v := h.State.Reg32(inst.Operands.RegField)
	swapped := (v>>24)&0xFF | (v>>8)&0xFF00 | (v<<8)&0xFF0000 | (v << 24)
	h.State.SetReg32(inst.Operands.RegField, swapped)
	return nil
}
