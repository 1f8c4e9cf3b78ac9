// grp3.go - TEST/NOT/NEG/MUL/IMUL/DIV/IDIV (Grp3) and three-operand IMUL
//
// Ported from cpu_x86_grp.go's Grp3 dispatch and cpu_x86_ops.go's
// MUL/IMUL/DIV/IDIV bodies. DIV/IDIV by zero and IDIV quotient overflow
// raise coreerr.DivideError for the dispatcher to convert into INT 0
// (spec.md §7).

package exec

import (
	"github.com/retrodos/pccore/alu"
	"github.com/retrodos/pccore/coreerr"
	"github.com/retrodos/pccore/parser"
	"github.com/retrodos/pccore/state"
)

func execTest(inst *parser.CfgInstruction, h *Helper) error {
	switch inst.Operands.Size {
	case parser.Size8:
		alu.LogicFlags8(h.State, h.readRM8(inst)&inst.Operands.Imm8)
	case parser.Size32:
		alu.LogicFlags32(h.State, h.readRM32(inst)&inst.Operands.Imm32)
	default:
		alu.LogicFlags16(h.State, h.readRM16(inst)&inst.Operands.Imm16)
	}
	return nil
}

// execTestRMReg implements TEST Eb/Ev,Gb/Gv (0x84/0x85) — TEST's r/m,reg
// encoding, as distinct from the AL/eAX,imm and Grp3 r/m,imm forms.
func execTestRMReg(inst *parser.CfgInstruction, h *Helper) error {
	switch inst.Operands.Size {
	case parser.Size8:
		alu.LogicFlags8(h.State, h.readRM8(inst)&h.State.Reg8(inst.Operands.ModRM.Reg))
	case parser.Size32:
		alu.LogicFlags32(h.State, h.readRM32(inst)&h.State.Reg32(inst.Operands.ModRM.Reg))
	default:
		alu.LogicFlags16(h.State, h.readRM16(inst)&h.State.Reg16(inst.Operands.ModRM.Reg))
	}
	return nil
}

// execImulRegRMImm implements the three-operand IMUL forms (0x69/0x6B):
// reg := r/m * imm, with CF/OF set when the full-width product doesn't fit
// back into the destination width.
func execImulRegRMImm(inst *parser.CfgInstruction, h *Helper) error {
	dest := inst.Operands.ModRM.Reg
	if inst.Operands.Size == parser.Size32 {
		a := int64(int32(h.readRM32(inst)))
		b := int64(int32(inst.Operands.Imm32))
		r := a * b
		h.State.SetReg32(dest, uint32(r))
		overflow := r != int64(int32(r))
		h.State.SetFlag(state.FlagCF, overflow)
		h.State.SetFlag(state.FlagOF, overflow)
		return nil
	}
	a := int32(int16(h.readRM16(inst)))
	b := int32(int16(inst.Operands.Imm16))
	r := a * b
	h.State.SetReg16(dest, uint16(r))
	overflow := r != int32(int16(uint16(r)))
	h.State.SetFlag(state.FlagCF, overflow)
	h.State.SetFlag(state.FlagOF, overflow)
	return nil
}

func execNot(inst *parser.CfgInstruction, h *Helper) error {
	switch inst.Operands.Size {
	case parser.Size8:
		h.writeRM8(inst, ^h.readRM8(inst))
	case parser.Size32:
		h.writeRM32(inst, ^h.readRM32(inst))
	default:
		h.writeRM16(inst, ^h.readRM16(inst))
	}
	return nil
}

func execNeg(inst *parser.CfgInstruction, h *Helper) error {
	switch inst.Operands.Size {
	case parser.Size8:
		v := h.readRM8(inst)
		r := -v
		alu.Flags8(h.State, uint16(uint8(r)), 0, v, true)
		h.State.SetFlag(state.FlagCF, v != 0) // CF = operand != 0
		h.writeRM8(inst, r)
	case parser.Size32:
		v := h.readRM32(inst)
		r := -v
		alu.Flags32(h.State, uint64(r), 0, v, true)
		h.State.SetFlag(state.FlagCF, v != 0)
		h.writeRM32(inst, r)
	default:
		v := h.readRM16(inst)
		r := -v
		alu.Flags16(h.State, uint32(r), 0, v, true)
		h.State.SetFlag(state.FlagCF, v != 0)
		h.writeRM16(inst, r)
	}
	return nil
}

func execMul(inst *parser.CfgInstruction, h *Helper) error {
	switch inst.Operands.Size {
	case parser.Size8:
		r := uint16(h.State.AL()) * uint16(h.readRM8(inst))
		h.State.SetAX(r)
		overflow := r>>8 != 0
		h.State.SetFlag(state.FlagCF, overflow)
		h.State.SetFlag(state.FlagOF, overflow)
	case parser.Size32:
		r := uint64(h.State.EAX) * uint64(h.readRM32(inst))
		h.State.EAX = uint32(r)
		h.State.EDX = uint32(r >> 32)
		overflow := h.State.EDX != 0
		h.State.SetFlag(state.FlagCF, overflow)
		h.State.SetFlag(state.FlagOF, overflow)
	default:
		r := uint32(h.State.AX()) * uint32(h.readRM16(inst))
		h.State.SetAX(uint16(r))
		h.State.SetDX(uint16(r >> 16))
		overflow := uint16(r>>16) != 0
		h.State.SetFlag(state.FlagCF, overflow)
		h.State.SetFlag(state.FlagOF, overflow)
	}
	return nil
}

func execImul(inst *parser.CfgInstruction, h *Helper) error {
	switch inst.Operands.Size {
	case parser.Size8:
		r := int16(int8(h.State.AL())) * int16(int8(h.readRM8(inst)))
		h.State.SetAX(uint16(r))
		overflow := r != int16(int8(byte(r)))
		h.State.SetFlag(state.FlagCF, overflow)
		h.State.SetFlag(state.FlagOF, overflow)
	case parser.Size32:
		r := int64(int32(h.State.EAX)) * int64(int32(h.readRM32(inst)))
		h.State.EAX = uint32(r)
		h.State.EDX = uint32(r >> 32)
		overflow := r != int64(int32(r))
		h.State.SetFlag(state.FlagCF, overflow)
		h.State.SetFlag(state.FlagOF, overflow)
	default:
		r := int32(int16(h.State.AX())) * int32(int16(h.readRM16(inst)))
		h.State.SetAX(uint16(r))
		h.State.SetDX(uint16(r >> 16))
		overflow := r != int32(int16(uint16(r)))
		h.State.SetFlag(state.FlagCF, overflow)
		h.State.SetFlag(state.FlagOF, overflow)
	}
	return nil
}

func execDiv(inst *parser.CfgInstruction, h *Helper) error {
	switch inst.Operands.Size {
	case parser.Size8:
		divisor := h.readRM8(inst)
		if divisor == 0 {
			return &coreerr.DivideError{}
		}
		dividend := h.State.AX()
		q, r := dividend/uint16(divisor), dividend%uint16(divisor)
		if q > 0xFF {
			return &coreerr.DivideError{}
		}
		h.State.SetAL(byte(q))
		h.State.SetAH(byte(r))
	case parser.Size32:
		divisor := h.readRM32(inst)
		if divisor == 0 {
			return &coreerr.DivideError{}
		}
		dividend := uint64(h.State.EDX)<<32 | uint64(h.State.EAX)
		q, r := dividend/uint64(divisor), dividend%uint64(divisor)
		if q > 0xFFFFFFFF {
			return &coreerr.DivideError{}
		}
		h.State.EAX = uint32(q)
		h.State.EDX = uint32(r)
	default:
		divisor := h.readRM16(inst)
		if divisor == 0 {
			return &coreerr.DivideError{}
		}
		dividend := uint32(h.State.DX())<<16 | uint32(h.State.AX())
		q, r := dividend/uint32(divisor), dividend%uint32(divisor)
		if q > 0xFFFF {
			return &coreerr.DivideError{}
		}
		h.State.SetAX(uint16(q))
		h.State.SetDX(uint16(r))
	}
	return nil
}

func execIdiv(inst *parser.CfgInstruction, h *Helper) error {
	switch inst.Operands.Size {
	case parser.Size8:
		divisor := int8(h.readRM8(inst))
		if divisor == 0 {
			return &coreerr.DivideError{}
		}
		dividend := int16(h.State.AX())
		q, r := dividend/int16(divisor), dividend%int16(divisor)
		if q > 127 || q < -128 {
			return &coreerr.DivideError{}
		}
		h.State.SetAL(byte(q))
		h.State.SetAH(byte(r))
	case parser.Size32:
		divisor := int32(h.readRM32(inst))
		if divisor == 0 {
			return &coreerr.DivideError{}
		}
		dividend := int64(h.State.EDX)<<32 | int64(h.State.EAX)
		q, r := dividend/int64(divisor), dividend%int64(divisor)
		if q > 0x7FFFFFFF || q < -0x80000000 {
			return &coreerr.DivideError{}
		}
		h.State.EAX = uint32(q)
		h.State.EDX = uint32(r)
	default:
		divisor := int16(h.readRM16(inst))
		if divisor == 0 {
			return &coreerr.DivideError{}
		}
		dividend := int32(int16(h.State.DX()))<<16 | int32(h.State.AX())
		q, r := dividend/int32(divisor), dividend%int32(divisor)
		if q > 32767 || q < -32768 {
			return &coreerr.DivideError{}
		}
		h.State.SetAX(uint16(q))
		h.State.SetDX(uint16(r))
	}
	return nil
}
