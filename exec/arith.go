// arith.go - the eight-way ALU block, INC/DEC, XCHG, LEA
//
// Ported from cpu_x86_ops.go's ADD/ADC/SUB (Eb,Gb / Ev,Gv / Gb,Eb / Gv,Ev /
// AL,Ib / AX,Iv forms) and generalized across all eight AluOp values using
// alu.Flags8/16/32, since the teacher repeats near-identical bodies per
// operation where this module dispatches on parser.AluOp instead.

package exec

import (
	"github.com/retrodos/pccore/alu"
	"github.com/retrodos/pccore/parser"
	"github.com/retrodos/pccore/state"
)

func isLogicOp(op parser.AluOp) bool {
	return op == parser.AluOr || op == parser.AluAnd || op == parser.AluXor
}

func isSubtractOp(op parser.AluOp) bool {
	return op == parser.AluSub || op == parser.AluSbb || op == parser.AluCmp
}

func withCarryIn(h *Helper, op parser.AluOp) byte {
	if (op == parser.AluAdc || op == parser.AluSbb) && h.State.CF() {
		return 1
	}
	return 0
}

func execAluBlock8(inst *parser.CfgInstruction, h *Helper, regIsDest bool) error {
	op := inst.Operands.AluOp
	carry := withCarryIn(h, op)

	var rm, reg byte
	if inst.Operands.HasModRM {
		rm = h.readRM8(inst)
	}
	reg = h.State.Reg8(inst.Operands.ModRM.Reg)

	var a, b byte
	if regIsDest {
		a, b = reg, rm
	} else {
		a, b = rm, reg
	}
	result := applyAlu8(h, op, a, b, carry)
	if op != parser.AluCmp {
		if regIsDest {
			h.State.SetReg8(inst.Operands.ModRM.Reg, result)
		} else {
			h.writeRM8(inst, result)
		}
	}
	return nil
}

func applyAlu8(h *Helper, op parser.AluOp, a, b, carryIn byte) byte {
	if isLogicOp(op) {
		var r byte
		switch op {
		case parser.AluOr:
			r = a | b
		case parser.AluAnd:
			r = a & b
		case parser.AluXor:
			r = a ^ b
		}
		alu.LogicFlags8(h.State, r)
		return r
	}
	if op == parser.AluAdc {
		b += carryIn
	} else if op == parser.AluSbb {
		b += carryIn
	}
	sub := isSubtractOp(op)
	var wide uint16
	var r byte
	if sub {
		r = a - b
		wide = uint16(a) - uint16(b)
	} else {
		r = a + b
		wide = uint16(a) + uint16(b)
	}
	alu.Flags8(h.State, wide, a, b, sub)
	return r
}

func applyAlu16(h *Helper, op parser.AluOp, a, b, carryIn uint16) uint16 {
	if isLogicOp(op) {
		var r uint16
		switch op {
		case parser.AluOr:
			r = a | b
		case parser.AluAnd:
			r = a & b
		case parser.AluXor:
			r = a ^ b
		}
		alu.LogicFlags16(h.State, r)
		return r
	}
	if op == parser.AluAdc || op == parser.AluSbb {
		b += carryIn
	}
	sub := isSubtractOp(op)
	var wide uint32
	var r uint16
	if sub {
		r = a - b
		wide = uint32(a) - uint32(b)
	} else {
		r = a + b
		wide = uint32(a) + uint32(b)
	}
	alu.Flags16(h.State, wide, a, b, sub)
	return r
}

func applyAlu32(h *Helper, op parser.AluOp, a, b, carryIn uint32) uint32 {
	if isLogicOp(op) {
		var r uint32
		switch op {
		case parser.AluOr:
			r = a | b
		case parser.AluAnd:
			r = a & b
		case parser.AluXor:
			r = a ^ b
		}
		alu.LogicFlags32(h.State, r)
		return r
	}
	if op == parser.AluAdc || op == parser.AluSbb {
		b += carryIn
	}
	sub := isSubtractOp(op)
	var wide uint64
	var r uint32
	if sub {
		r = a - b
		wide = uint64(a) - uint64(b)
	} else {
		r = a + b
		wide = uint64(a) + uint64(b)
	}
	alu.Flags32(h.State, wide, a, b, sub)
	return r
}

func execAluBlock16or32(inst *parser.CfgInstruction, h *Helper, regIsDest bool) error {
	op := inst.Operands.AluOp
	carry16 := uint16(withCarryIn(h, op))
	carry32 := uint32(withCarryIn(h, op))

	if inst.Operands.Size == parser.Size32 {
		rm := h.readRM32(inst)
		reg := h.State.Reg32(inst.Operands.ModRM.Reg)
		var a, b uint32
		if regIsDest {
			a, b = reg, rm
		} else {
			a, b = rm, reg
		}
		result := applyAlu32(h, op, a, b, carry32)
		if op != parser.AluCmp {
			if regIsDest {
				h.State.SetReg32(inst.Operands.ModRM.Reg, result)
			} else {
				h.writeRM32(inst, result)
			}
		}
		return nil
	}
	rm := h.readRM16(inst)
	reg := h.State.Reg16(inst.Operands.ModRM.Reg)
	var a, b uint16
	if regIsDest {
		a, b = reg, rm
	} else {
		a, b = rm, reg
	}
	result := applyAlu16(h, op, a, b, carry16)
	if op != parser.AluCmp {
		if regIsDest {
			h.State.SetReg16(inst.Operands.ModRM.Reg, result)
		} else {
			h.writeRM16(inst, result)
		}
	}
	return nil
}

func execAluALImm8(inst *parser.CfgInstruction, h *Helper) error {
	op := inst.Operands.AluOp
	carry := withCarryIn(h, op)
	result := applyAlu8(h, op, h.State.AL(), inst.Operands.Imm8, carry)
	if op != parser.AluCmp {
		h.State.SetAL(result)
	}
	return nil
}

func execAluAXImm(inst *parser.CfgInstruction, h *Helper) error {
	op := inst.Operands.AluOp
	if inst.Operands.Size == parser.Size32 {
		result := applyAlu32(h, op, h.State.EAX, inst.Operands.Imm32, uint32(withCarryIn(h, op)))
		if op != parser.AluCmp {
			h.State.EAX = result
		}
		return nil
	}
	result := applyAlu16(h, op, h.State.AX(), inst.Operands.Imm16, uint16(withCarryIn(h, op)))
	if op != parser.AluCmp {
		h.State.SetAX(result)
	}
	return nil
}

func execAluRMImm(inst *parser.CfgInstruction, h *Helper) error {
	op := inst.Operands.AluOp
	carry8 := withCarryIn(h, op)
	switch inst.Operands.Size {
	case parser.Size8:
		result := applyAlu8(h, op, h.readRM8(inst), inst.Operands.Imm8, carry8)
		if op != parser.AluCmp {
			h.writeRM8(inst, result)
		}
	case parser.Size32:
		imm := inst.Operands.Imm32
		if inst.Opcode == parser.OpAluRMImm8Sext {
			imm = uint32(int32(int8(inst.Operands.Imm8)))
		}
		result := applyAlu32(h, op, h.readRM32(inst), imm, uint32(carry8))
		if op != parser.AluCmp {
			h.writeRM32(inst, result)
		}
	default:
		imm := inst.Operands.Imm16
		if inst.Opcode == parser.OpAluRMImm8Sext {
			imm = uint16(int16(int8(inst.Operands.Imm8)))
		}
		result := applyAlu16(h, op, h.readRM16(inst), imm, uint16(carry8))
		if op != parser.AluCmp {
			h.writeRM16(inst, result)
		}
	}
	return nil
}

func execIncReg(inst *parser.CfgInstruction, h *Helper) error {
	return incDecReg(inst, h, true)
}

func execDecReg(inst *parser.CfgInstruction, h *Helper) error {
	return incDecReg(inst, h, false)
}

// incDecReg implements the short-form INC/DEC reg16/32. Unlike ADD/SUB,
// these never touch CF (Intel manual, §INC/DEC).
func incDecReg(inst *parser.CfgInstruction, h *Helper, isInc bool) error {
	cf := h.State.CF()
	if inst.Operands.Size == parser.Size32 {
		v := h.State.Reg32(inst.Operands.RegField)
		var r uint32
		if isInc {
			r = v + 1
			alu.Flags32(h.State, uint64(r), v, 1, false)
		} else {
			r = v - 1
			alu.Flags32(h.State, uint64(uint32(r)), v, 1, true)
		}
		h.State.SetReg32(inst.Operands.RegField, r)
	} else {
		v := h.State.Reg16(inst.Operands.RegField)
		var r uint16
		if isInc {
			r = v + 1
			alu.Flags16(h.State, uint32(r), v, 1, false)
		} else {
			r = v - 1
			alu.Flags16(h.State, uint32(uint16(r)), v, 1, true)
		}
		h.State.SetReg16(inst.Operands.RegField, r)
	}
	h.State.SetFlag(state.FlagCF, cf)
	return nil
}

func execIncDecRM(inst *parser.CfgInstruction, h *Helper, isInc bool) error {
	cf := h.State.CF()
	switch inst.Operands.Size {
	case parser.Size8:
		v := h.readRM8(inst)
		var r byte
		if isInc {
			r = v + 1
			alu.Flags8(h.State, uint16(r), v, 1, false)
		} else {
			r = v - 1
			alu.Flags8(h.State, uint16(uint8(r)), v, 1, true)
		}
		h.writeRM8(inst, r)
	case parser.Size32:
		v := h.readRM32(inst)
		var r uint32
		if isInc {
			r = v + 1
			alu.Flags32(h.State, uint64(r), v, 1, false)
		} else {
			r = v - 1
			alu.Flags32(h.State, uint64(uint32(r)), v, 1, true)
		}
		h.writeRM32(inst, r)
	default:
		v := h.readRM16(inst)
		var r uint16
		if isInc {
			r = v + 1
			alu.Flags16(h.State, uint32(r), v, 1, false)
		} else {
			r = v - 1
			alu.Flags16(h.State, uint32(uint16(r)), v, 1, true)
		}
		h.writeRM16(inst, r)
	}
	h.State.SetFlag(state.FlagCF, cf)
	return nil
}

func execLea(inst *parser.CfgInstruction, h *Helper) error {
	addr := inst.Operands.ModRM.Resolve(h.State)
	if inst.Operands.Size == parser.Size32 {
		h.State.SetReg32(inst.Operands.ModRM.Reg, addr)
	} else {
		h.State.SetReg16(inst.Operands.ModRM.Reg, uint16(addr))
	}
	return nil
}

func execXchgRMReg(inst *parser.CfgInstruction, h *Helper) error {
	switch inst.Operands.Size {
	case parser.Size8:
		a := h.readRM8(inst)
		b := h.State.Reg8(inst.Operands.ModRM.Reg)
		h.writeRM8(inst, b)
		h.State.SetReg8(inst.Operands.ModRM.Reg, a)
	case parser.Size32:
		a := h.readRM32(inst)
		b := h.State.Reg32(inst.Operands.ModRM.Reg)
		h.writeRM32(inst, b)
		h.State.SetReg32(inst.Operands.ModRM.Reg, a)
	default:
		a := h.readRM16(inst)
		b := h.State.Reg16(inst.Operands.ModRM.Reg)
		h.writeRM16(inst, b)
		h.State.SetReg16(inst.Operands.ModRM.Reg, a)
	}
	return nil
}

func execXchgAXReg(inst *parser.CfgInstruction, h *Helper) error {
	if inst.Operands.Size == parser.Size32 {
		a := h.State.EAX
		b := h.State.Reg32(inst.Operands.RegField)
		h.State.EAX = b
		h.State.SetReg32(inst.Operands.RegField, a)
		return nil
	}
	a := h.State.AX()
	b := h.State.Reg16(inst.Operands.RegField)
	h.State.SetAX(b)
	h.State.SetReg16(inst.Operands.RegField, a)
	return nil
}
