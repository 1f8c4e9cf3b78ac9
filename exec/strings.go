// strings.go - MOVS/CMPS/STOS/LODS/SCAS/INS/OUTS, with REP/REPNE
//
// Ported from cpu_x86_ops.go's string-instruction family. The teacher
// executes one iteration per Step() call and relies on the REP prefix
// re-decoding the same opcode on the next fetch; here, since an
// instruction is parsed once and cached, a REP-prefixed string op runs
// its whole iteration count inside one Execute call, advancing CX/SI/DI
// to completion before returning control.

package exec

import (
	"github.com/retrodos/pccore/parser"
	"github.com/retrodos/pccore/state"
)

// siAddr/diAddr compute the linear address string instructions read/write
// through: SI goes through DS (overridable by a segment prefix), DI always
// goes through ES regardless of any override present (Intel's one fixed
// exception to segment-override prefixes).
func siAddr(inst *parser.CfgInstruction, h *Helper) uint32 {
	seg := h.segmentFor(inst.Prefixes, state.SegDS)
	return (uint32(h.State.Seg(seg)) << 4) + uint32(h.State.SI())
}

func diAddr(h *Helper) uint32 {
	return (uint32(h.State.ES) << 4) + uint32(h.State.DI())
}

func stringStep(size parser.OperandSize) uint32 {
	switch size {
	case parser.Size8:
		return 1
	case parser.Size32:
		return 4
	default:
		return 2
	}
}

func execMovs(inst *parser.CfgInstruction, h *Helper) error {
	step := stringStep(inst.Operands.StringSize)
	repeat(inst, h, func() bool {
		moveOne(inst, h, inst.Operands.StringSize, step)
		return true
	})
	return nil
}

func moveOne(inst *parser.CfgInstruction, h *Helper, size parser.OperandSize, step uint32) {
	si := siAddr(inst, h)
	di := diAddr(h)
	switch size {
	case parser.Size8:
		h.Bus.Write8(di, h.Bus.Read8(si))
	case parser.Size32:
		v := uint32(h.Bus.Read8(si)) | uint32(h.Bus.Read8(si+1))<<8 |
			uint32(h.Bus.Read8(si+2))<<16 | uint32(h.Bus.Read8(si+3))<<24
		h.Bus.Write8(di, byte(v))
		h.Bus.Write8(di+1, byte(v>>8))
		h.Bus.Write8(di+2, byte(v>>16))
		h.Bus.Write8(di+3, byte(v>>24))
	default:
		h.Bus.Write8(di, h.Bus.Read8(si))
		h.Bus.Write8(di+1, h.Bus.Read8(si+1))
	}
	advanceSIDI(h, step)
}

func advanceSIDI(h *Helper, step uint32) {
	if h.State.DF() {
		h.State.SetSI(h.State.SI() - uint16(step))
		h.State.SetDI(h.State.DI() - uint16(step))
	} else {
		h.State.SetSI(h.State.SI() + uint16(step))
		h.State.SetDI(h.State.DI() + uint16(step))
	}
}

func advanceDI(h *Helper, step uint32) {
	if h.State.DF() {
		h.State.SetDI(h.State.DI() - uint16(step))
	} else {
		h.State.SetDI(h.State.DI() + uint16(step))
	}
}

func advanceSI(h *Helper, step uint32) {
	if h.State.DF() {
		h.State.SetSI(h.State.SI() - uint16(step))
	} else {
		h.State.SetSI(h.State.SI() + uint16(step))
	}
}

func execStos(inst *parser.CfgInstruction, h *Helper) error {
	step := stringStep(inst.Operands.StringSize)
	repeat(inst, h, func() bool {
		storeAL(h, inst.Operands.StringSize)
		advanceDI(h, step)
		return true
	})
	return nil
}

func storeAL(h *Helper, size parser.OperandSize) {
	di := diAddr(h)
	switch size {
	case parser.Size8:
		h.Bus.Write8(di, h.State.AL())
	case parser.Size32:
		v := h.State.EAX
		h.Bus.Write8(di, byte(v))
		h.Bus.Write8(di+1, byte(v>>8))
		h.Bus.Write8(di+2, byte(v>>16))
		h.Bus.Write8(di+3, byte(v>>24))
	default:
		v := h.State.AX()
		h.Bus.Write8(di, byte(v))
		h.Bus.Write8(di+1, byte(v>>8))
	}
}

func execLods(inst *parser.CfgInstruction, h *Helper) error {
	step := stringStep(inst.Operands.StringSize)
	repeat(inst, h, func() bool {
		loadAL(inst, h)
		advanceSI(h, step)
		return true
	})
	return nil
}

func loadAL(inst *parser.CfgInstruction, h *Helper) {
	si := siAddr(inst, h)
	switch inst.Operands.StringSize {
	case parser.Size8:
		h.State.SetAL(h.Bus.Read8(si))
	case parser.Size32:
		h.State.EAX = uint32(h.Bus.Read8(si)) | uint32(h.Bus.Read8(si+1))<<8 |
			uint32(h.Bus.Read8(si+2))<<16 | uint32(h.Bus.Read8(si+3))<<24
	default:
		h.State.SetAX(uint16(h.Bus.Read8(si)) | uint16(h.Bus.Read8(si+1))<<8)
	}
}

func execScas(inst *parser.CfgInstruction, h *Helper) error {
	step := stringStep(inst.Operands.StringSize)
	repeat(inst, h, func() bool {
		cmpAtDI(h, inst.Operands.StringSize)
		advanceDI(h, step)
		return continueOnZF(inst, h)
	})
	return nil
}

func execCmps(inst *parser.CfgInstruction, h *Helper) error {
	step := stringStep(inst.Operands.StringSize)
	repeat(inst, h, func() bool {
		cmpSIDI(inst, h, inst.Operands.StringSize)
		advanceSIDI(h, step)
		return continueOnZF(inst, h)
	})
	return nil
}

// continueOnZF implements the REPE/REPNE early-exit test for SCAS/CMPS:
// REPE stops as soon as ZF clears, REPNE stops as soon as ZF sets.
func continueOnZF(inst *parser.CfgInstruction, h *Helper) bool {
	switch inst.Prefixes.RepKind {
	case parser.RepZ:
		return h.State.ZF()
	case parser.RepNZ:
		return !h.State.ZF()
	default:
		return true
	}
}

func cmpAtDI(h *Helper, size parser.OperandSize) {
	di := diAddr(h)
	switch size {
	case parser.Size8:
		cmp8(h, h.State.AL(), h.Bus.Read8(di))
	case parser.Size32:
		v := uint32(h.Bus.Read8(di)) | uint32(h.Bus.Read8(di+1))<<8 | uint32(h.Bus.Read8(di+2))<<16 | uint32(h.Bus.Read8(di+3))<<24
		cmp32(h, h.State.EAX, v)
	default:
		v := uint16(h.Bus.Read8(di)) | uint16(h.Bus.Read8(di+1))<<8
		cmp16(h, h.State.AX(), v)
	}
}

func cmpSIDI(inst *parser.CfgInstruction, h *Helper, size parser.OperandSize) {
	si := siAddr(inst, h)
	di := diAddr(h)
	switch size {
	case parser.Size8:
		cmp8(h, h.Bus.Read8(si), h.Bus.Read8(di))
	case parser.Size32:
		a := uint32(h.Bus.Read8(si)) | uint32(h.Bus.Read8(si+1))<<8 | uint32(h.Bus.Read8(si+2))<<16 | uint32(h.Bus.Read8(si+3))<<24
		b := uint32(h.Bus.Read8(di)) | uint32(h.Bus.Read8(di+1))<<8 | uint32(h.Bus.Read8(di+2))<<16 | uint32(h.Bus.Read8(di+3))<<24
		cmp32(h, a, b)
	default:
		a := uint16(h.Bus.Read8(si)) | uint16(h.Bus.Read8(si+1))<<8
		b := uint16(h.Bus.Read8(di)) | uint16(h.Bus.Read8(di+1))<<8
		cmp16(h, a, b)
	}
}

func cmp8(h *Helper, a, b byte)     { applyAlu8(h, parser.AluSub, a, b, 0) }
func cmp16(h *Helper, a, b uint16)  { applyAlu16(h, parser.AluSub, a, b, 0) }
func cmp32(h *Helper, a, b uint32)  { applyAlu32(h, parser.AluSub, a, b, 0) }

func execIns(inst *parser.CfgInstruction, h *Helper) error {
	step := stringStep(inst.Operands.StringSize)
	repeat(inst, h, func() bool {
		port := h.State.DX()
		di := diAddr(h)
		if inst.Operands.StringSize == parser.Size8 {
			h.Bus.Write8(di, h.IO.In8(port))
		} else {
			h.Bus.Write8(di, h.IO.In8(port))
			h.Bus.Write8(di+1, h.IO.In8(port))
		}
		advanceDI(h, step)
		return true
	})
	return nil
}

func execOuts(inst *parser.CfgInstruction, h *Helper) error {
	step := stringStep(inst.Operands.StringSize)
	repeat(inst, h, func() bool {
		port := h.State.DX()
		si := siAddr(inst, h)
		h.IO.Out8(port, h.Bus.Read8(si))
		if inst.Operands.StringSize != parser.Size8 {
			h.IO.Out8(port, h.Bus.Read8(si+1))
		}
		advanceSI(h, step)
		return true
	})
	return nil
}

// repeat runs body once for an unprefixed string op, or up to CX times
// (decrementing CX each pass) for REP/REPE/REPNE, stopping early when
// body returns false (the REPE/REPNE ZF termination test).
func repeat(inst *parser.CfgInstruction, h *Helper, body func() bool) {
	if inst.Prefixes.RepKind == parser.RepNone {
		body()
		return
	}
	for h.State.CX() != 0 {
		h.State.SetCX(h.State.CX() - 1)
		if !body() {
			break
		}
	}
}
