// shift.go - ROL/ROR/RCL/RCR/SHL/SHR/SAR (Grp2)
//
// Ported from cpu_x86_grp.go's shift group. PortFromDX is repurposed by
// the parser (decode.go's decodeGrp2) to record "shift count comes from
// CL" vs "shift count is the literal 1" — Grp2's two count sources (0xD0/
// 0xD1 vs 0xD2/0xD3) share every other field with the immediate-count
// form the 386 doesn't use, so no dedicated field is worth adding.

package exec

import (
	"github.com/retrodos/pccore/alu"
	"github.com/retrodos/pccore/parser"
	"github.com/retrodos/pccore/state"
)

func shiftCount(inst *parser.CfgInstruction, h *Helper) byte {
	if inst.Operands.PortFromDX {
		return h.State.Reg8(1) & 0x1F // CL, masked per 386 semantics
	}
	return 1
}

func execShift(inst *parser.CfgInstruction, h *Helper) error {
	count := shiftCount(inst, h)
	if count == 0 {
		return nil
	}
	switch inst.Operands.Size {
	case parser.Size8:
		v := h.readRM8(inst)
		r, cf, of := shift8(inst.Opcode, v, count)
		h.writeRM8(inst, r)
		applyShiftFlags8(h, r, cf, of, count)
	case parser.Size32:
		v := h.readRM32(inst)
		r, cf, of := shift32(inst.Opcode, v, count)
		h.writeRM32(inst, r)
		applyShiftFlags32(h, r, cf, of, count)
	default:
		v := h.readRM16(inst)
		r, cf, of := shift16(inst.Opcode, v, count)
		h.writeRM16(inst, r)
		applyShiftFlags16(h, r, cf, of, count)
	}
	return nil
}

func baseOp(op parser.Opcode) parser.Opcode {
	switch op {
	case parser.OpRolRM16, parser.OpRolRM32:
		return parser.OpRolRM8
	case parser.OpRorRM16, parser.OpRorRM32:
		return parser.OpRorRM8
	case parser.OpRclRM16, parser.OpRclRM32:
		return parser.OpRclRM8
	case parser.OpRcrRM16, parser.OpRcrRM32:
		return parser.OpRcrRM8
	case parser.OpShlRM16, parser.OpShlRM32:
		return parser.OpShlRM8
	case parser.OpShrRM16, parser.OpShrRM32:
		return parser.OpShrRM8
	case parser.OpSarRM16, parser.OpSarRM32:
		return parser.OpSarRM8
	}
	return op
}

func shift8(op parser.Opcode, v byte, count byte) (result byte, cf, of bool) {
	switch baseOp(op) {
	case parser.OpRolRM8:
		for i := byte(0); i < count; i++ {
			top := v&0x80 != 0
			v = v<<1 | b2u8(top)
			cf = top
		}
		of = cf != (v&0x80 != 0)
	case parser.OpRorRM8:
		for i := byte(0); i < count; i++ {
			bot := v&1 != 0
			v = v>>1 | (b2u8(bot) << 7)
			cf = bot
		}
		of = (v&0x80 != 0) != (v&0x40 != 0)
	case parser.OpShlRM8:
		for i := byte(0); i < count; i++ {
			cf = v&0x80 != 0
			v <<= 1
		}
		of = cf != (v&0x80 != 0)
	case parser.OpShrRM8:
		for i := byte(0); i < count; i++ {
			cf = v&1 != 0
			v >>= 1
		}
		of = v&0x80 != 0
	case parser.OpSarRM8:
		sv := int8(v)
		for i := byte(0); i < count; i++ {
			cf = sv&1 != 0
			sv >>= 1
		}
		v = byte(sv)
		of = false
	case parser.OpRclRM8, parser.OpRcrRM8:
		// RCL/RCR fold CF into the rotate; handled with a 9-bit window.
		return rotateThroughCarry8(op, v, count)
	}
	return v, cf, of
}

func rotateThroughCarry8(op parser.Opcode, v byte, count byte) (byte, bool, bool) {
	cf := false
	for i := byte(0); i < count; i++ {
		if op == parser.OpRclRM8 {
			newCF := v&0x80 != 0
			v = v<<1 | b2u8(cf)
			cf = newCF
		} else {
			newCF := v&1 != 0
			v = v>>1 | (b2u8(cf) << 7)
			cf = newCF
		}
	}
	return v, cf, false
}

func b2u8(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func shift16(op parser.Opcode, v uint16, count byte) (result uint16, cf, of bool) {
	switch baseOp(op) {
	case parser.OpRolRM8:
		for i := byte(0); i < count; i++ {
			top := v&0x8000 != 0
			v = v<<1 | b2u16(top)
			cf = top
		}
		of = cf != (v&0x8000 != 0)
	case parser.OpRorRM8:
		for i := byte(0); i < count; i++ {
			bot := v&1 != 0
			v = v>>1 | (b2u16(bot) << 15)
			cf = bot
		}
		of = (v&0x8000 != 0) != (v&0x4000 != 0)
	case parser.OpShlRM8:
		for i := byte(0); i < count; i++ {
			cf = v&0x8000 != 0
			v <<= 1
		}
		of = cf != (v&0x8000 != 0)
	case parser.OpShrRM8:
		for i := byte(0); i < count; i++ {
			cf = v&1 != 0
			v >>= 1
		}
		of = v&0x8000 != 0
	case parser.OpSarRM8:
		sv := int16(v)
		for i := byte(0); i < count; i++ {
			cf = sv&1 != 0
			sv >>= 1
		}
		v = uint16(sv)
	case parser.OpRclRM8, parser.OpRcrRM8:
		for i := byte(0); i < count; i++ {
			if op == parser.OpRclRM16 {
				newCF := v&0x8000 != 0
				v = v<<1 | b2u16(cf)
				cf = newCF
			} else {
				newCF := v&1 != 0
				v = v>>1 | (b2u16(cf) << 15)
				cf = newCF
			}
		}
	}
	return v, cf, of
}

func b2u16(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

func shift32(op parser.Opcode, v uint32, count byte) (result uint32, cf, of bool) {
	switch baseOp(op) {
	case parser.OpRolRM8:
		for i := byte(0); i < count; i++ {
			top := v&0x80000000 != 0
			v = v<<1 | b2u32(top)
			cf = top
		}
		of = cf != (v&0x80000000 != 0)
	case parser.OpRorRM8:
		for i := byte(0); i < count; i++ {
			bot := v&1 != 0
			v = v>>1 | (b2u32(bot) << 31)
			cf = bot
		}
		of = (v&0x80000000 != 0) != (v&0x40000000 != 0)
	case parser.OpShlRM8:
		for i := byte(0); i < count; i++ {
			cf = v&0x80000000 != 0
			v <<= 1
		}
		of = cf != (v&0x80000000 != 0)
	case parser.OpShrRM8:
		for i := byte(0); i < count; i++ {
			cf = v&1 != 0
			v >>= 1
		}
		of = v&0x80000000 != 0
	case parser.OpSarRM8:
		sv := int32(v)
		for i := byte(0); i < count; i++ {
			cf = sv&1 != 0
			sv >>= 1
		}
		v = uint32(sv)
	case parser.OpRclRM8, parser.OpRcrRM8:
		for i := byte(0); i < count; i++ {
			if op == parser.OpRclRM32 {
				newCF := v&0x80000000 != 0
				v = v<<1 | b2u32(cf)
				cf = newCF
			} else {
				newCF := v&1 != 0
				v = v>>1 | (b2u32(cf) << 31)
				cf = newCF
			}
		}
	}
	return v, cf, of
}

func b2u32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// doubleShiftCount reads SHLD/SHRD's count operand, masked to 0-31 the
// way the 386 masks Grp2's CL-sourced count.
func doubleShiftCount(inst *parser.CfgInstruction, h *Helper) byte {
	if inst.Operands.ShiftByCL {
		return h.State.Reg8(1) & 0x1F // CL
	}
	return inst.Operands.Imm8 & 0x1F
}

func execShld(inst *parser.CfgInstruction, h *Helper) error { return execDoubleShift(inst, h, true) }
func execShrd(inst *parser.CfgInstruction, h *Helper) error { return execDoubleShift(inst, h, false) }

// execDoubleShift implements SHLD/SHRD: dest (Ev, the ModRM r/m operand)
// is shifted by count, with bits shifted out of one end replaced by bits
// shifted in from src (Gv, the ModRM reg operand) rather than zero/sign
// fill. CF takes the last bit shifted out of dest; OF is only meaningful
// for count==1 (undefined otherwise, and left cleared by the logic-flag
// update); AF is undefined and not touched.
func execDoubleShift(inst *parser.CfgInstruction, h *Helper, left bool) error {
	count := doubleShiftCount(inst, h)
	if count == 0 {
		return nil
	}
	if inst.Operands.Size == parser.Size32 {
		dst := h.readRM32(inst)
		src := h.State.Reg32(inst.Operands.ModRM.Reg)
		r, cf := shiftDouble32(dst, src, count, left)
		h.writeRM32(inst, r)
		alu.LogicFlags32(h.State, r)
		h.State.SetFlag(state.FlagCF, cf)
		if count == 1 {
			h.State.SetFlag(state.FlagOF, (dst>>31 != r>>31))
		}
		return nil
	}
	dst := h.readRM16(inst)
	src := h.State.Reg16(inst.Operands.ModRM.Reg)
	r, cf := shiftDouble16(dst, src, count, left)
	h.writeRM16(inst, r)
	alu.LogicFlags16(h.State, r)
	h.State.SetFlag(state.FlagCF, cf)
	if count == 1 {
		h.State.SetFlag(state.FlagOF, (dst>>15 != r>>15))
	}
	return nil
}

func shiftDouble32(dst, src uint32, count byte, left bool) (uint32, bool) {
	c := uint(count)
	if left {
		cf := (dst>>(32-c))&1 != 0
		return (dst << c) | (src >> (32 - c)), cf
	}
	cf := (dst>>(c-1))&1 != 0
	return (dst >> c) | (src << (32 - c)), cf
}

// shiftDouble16 clamps count to the 16-bit operand width: the 386 only
// defines SHLD/SHRD's behavior for count <= operand size, and for an
// unclamped count above 16 the unsigned 16-count here would wrap to a huge
// shift amount, dropping src entirely instead of shifting it fully in.
func shiftDouble16(dst, src uint16, count byte, left bool) (uint16, bool) {
	c := uint(count)
	if c > 16 {
		c = 16
	}
	if left {
		cf := (dst>>(16-c))&1 != 0
		return (dst << c) | (src >> (16 - c)), cf
	}
	cf := (dst>>(c-1))&1 != 0
	return (dst >> c) | (src << (16 - c)), cf
}

func applyShiftFlags8(h *Helper, r byte, cf, of bool, count byte) {
	if count == 0 {
		return
	}
	h.State.SetFlag(state.FlagCF, cf)
	if count == 1 {
		h.State.SetFlag(state.FlagOF, of)
	}
	alu.LogicFlags8(h.State, r)
	h.State.SetFlag(state.FlagCF, cf)
}

func applyShiftFlags16(h *Helper, r uint16, cf, of bool, count byte) {
	if count == 0 {
		return
	}
	h.State.SetFlag(state.FlagCF, cf)
	if count == 1 {
		h.State.SetFlag(state.FlagOF, of)
	}
	alu.LogicFlags16(h.State, r)
	h.State.SetFlag(state.FlagCF, cf)
}

func applyShiftFlags32(h *Helper, r uint32, cf, of bool, count byte) {
	if count == 0 {
		return
	}
	h.State.SetFlag(state.FlagCF, cf)
	if count == 1 {
		h.State.SetFlag(state.FlagOF, of)
	}
	alu.LogicFlags32(h.State, r)
	h.State.SetFlag(state.FlagCF, cf)
}
