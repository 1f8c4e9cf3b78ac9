// misc.go - flag instructions, NOP/HLT, CBW family, XLAT/SALC, BCD, I/O
//
// Ported from the corresponding single-purpose handlers in cpu_x86_ops.go.

package exec

import (
	"github.com/retrodos/pccore/alu"
	"github.com/retrodos/pccore/parser"
	"github.com/retrodos/pccore/state"
)

func execClc(inst *parser.CfgInstruction, h *Helper) error { h.State.SetFlag(state.FlagCF, false); return nil }
func execStc(inst *parser.CfgInstruction, h *Helper) error { h.State.SetFlag(state.FlagCF, true); return nil }
func execCli(inst *parser.CfgInstruction, h *Helper) error { h.State.SetFlag(state.FlagIF, false); return nil }
func execSti(inst *parser.CfgInstruction, h *Helper) error { h.State.SetFlag(state.FlagIF, true); return nil }
func execCld(inst *parser.CfgInstruction, h *Helper) error { h.State.SetFlag(state.FlagDF, false); return nil }
func execStd(inst *parser.CfgInstruction, h *Helper) error { h.State.SetFlag(state.FlagDF, true); return nil }
func execCmc(inst *parser.CfgInstruction, h *Helper) error {
	h.State.SetFlag(state.FlagCF, !h.State.CF())
	return nil
}

func execNop(inst *parser.CfgInstruction, h *Helper) error { return nil }

func execHlt(inst *parser.CfgInstruction, h *Helper) error {
	h.State.Halted = true
	return nil
}

func execLahf(inst *parser.CfgInstruction, h *Helper) error {
	h.State.SetAH(byte(h.State.Flags & 0xFF))
	return nil
}

func execSahf(inst *parser.CfgInstruction, h *Helper) error {
	h.State.Flags = (h.State.Flags &^ 0xFF) | uint32(h.State.AH())
	return nil
}

func execCbwCwde(inst *parser.CfgInstruction, h *Helper) error {
	if inst.Opcode == parser.OpCwde {
		h.State.EAX = uint32(int32(int16(h.State.AX())))
		return nil
	}
	h.State.SetAX(uint16(int16(int8(h.State.AL()))))
	return nil
}

func execCwdCdq(inst *parser.CfgInstruction, h *Helper) error {
	if inst.Opcode == parser.OpCdq {
		if int32(h.State.EAX) < 0 {
			h.State.EDX = 0xFFFFFFFF
		} else {
			h.State.EDX = 0
		}
		return nil
	}
	if int16(h.State.AX()) < 0 {
		h.State.SetDX(0xFFFF)
	} else {
		h.State.SetDX(0)
	}
	return nil
}

func execXlat(inst *parser.CfgInstruction, h *Helper) error {
	seg := h.segmentFor(inst.Prefixes, state.SegDS)
	off := h.State.BX() + uint16(h.State.AL())
	addr := (uint32(h.State.Seg(seg)) << 4) + uint32(off)
	h.State.SetAL(h.Bus.Read8(addr))
	return nil
}

func execSalc(inst *parser.CfgInstruction, h *Helper) error {
	if h.State.CF() {
		h.State.SetAL(0xFF)
	} else {
		h.State.SetAL(0)
	}
	return nil
}

func execAaa(inst *parser.CfgInstruction, h *Helper) error { alu.AAA(h.State); return nil }
func execAas(inst *parser.CfgInstruction, h *Helper) error { alu.AAS(h.State); return nil }
func execDaa(inst *parser.CfgInstruction, h *Helper) error { alu.DAA(h.State); return nil }
func execDas(inst *parser.CfgInstruction, h *Helper) error { alu.DAS(h.State); return nil }

func execAam(inst *parser.CfgInstruction, h *Helper) error {
	return alu.AAM(h.State, inst.Operands.Imm8)
}

func execAad(inst *parser.CfgInstruction, h *Helper) error {
	alu.AAD(h.State, inst.Operands.Imm8)
	return nil
}

func execInAL(inst *parser.CfgInstruction, h *Helper) error {
	port := portOf(inst, h)
	h.State.SetAL(h.IO.In8(port))
	return nil
}

func execInAX(inst *parser.CfgInstruction, h *Helper) error {
	port := portOf(inst, h)
	if inst.Operands.Size == parser.Size32 {
		h.State.EAX = uint32(h.IO.In8(port)) | uint32(h.IO.In8(port))<<8 |
			uint32(h.IO.In8(port))<<16 | uint32(h.IO.In8(port))<<24
		return nil
	}
	h.State.SetAX(uint16(h.IO.In8(port)) | uint16(h.IO.In8(port))<<8)
	return nil
}

func execOutAL(inst *parser.CfgInstruction, h *Helper) error {
	h.IO.Out8(portOf(inst, h), h.State.AL())
	return nil
}

func execOutAX(inst *parser.CfgInstruction, h *Helper) error {
	port := portOf(inst, h)
	if inst.Operands.Size == parser.Size32 {
		v := h.State.EAX
		h.IO.Out8(port, byte(v))
		h.IO.Out8(port, byte(v>>8))
		h.IO.Out8(port, byte(v>>16))
		h.IO.Out8(port, byte(v>>24))
		return nil
	}
	v := h.State.AX()
	h.IO.Out8(port, byte(v))
	h.IO.Out8(port, byte(v>>8))
	return nil
}

func portOf(inst *parser.CfgInstruction, h *Helper) uint16 {
	if inst.Operands.PortFromDX {
		return h.State.DX()
	}
	return uint16(inst.Operands.PortImm8)
}
