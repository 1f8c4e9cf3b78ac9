// decode.go - one-byte and two-byte opcode tables
//
// Shape mirrors cpu_x86.go's initBaseOps/initExtendedOps table (which
// opcode byte maps to which operation) and cpu_x86_ops.go/cpu_x86_grp.go's
// per-opcode operand encodings, but resolves straight to an Opcode member
// plus decoded Operands instead of a ready-to-run closure.

package parser

import "github.com/retrodos/pccore/state"

func decodeOneByte(r *byteReader, inst *CfgInstruction, b byte, addr32 bool, size OperandSize) {
	if isAluBlock(b) {
		decodeAluBlock(r, inst, b, addr32, size)
		return
	}

	switch {
	// MOV r/m, r and r, r/m (8/16/32)
	case b == 0x88:
		decodeModRMForm(r, inst, OpMovRMReg8, addr32, Size8, false)
	case b == 0x89:
		decodeModRMForm(r, inst, OpMovRMReg16, addr32, size, false)
		if size == Size32 {
			inst.Opcode = OpMovRMReg32
		}
	case b == 0x8A:
		decodeModRMForm(r, inst, OpMovRegRM8, addr32, Size8, true)
	case b == 0x8B:
		decodeModRMForm(r, inst, OpMovRegRM16, addr32, size, true)
		if size == Size32 {
			inst.Opcode = OpMovRegRM32
		}
	case b == 0x8D:
		decodeModRMForm(r, inst, OpLea, addr32, size, true)
	case b == 0xC4:
		decodeModRMForm(r, inst, OpLes, addr32, size, true)
		inst.Operands.SegIndex = state.SegES
	case b == 0xC5:
		decodeModRMForm(r, inst, OpLds, addr32, size, true)
		inst.Operands.SegIndex = state.SegDS
	case b == 0x8C:
		decodeModRMForm(r, inst, OpMovSegOut, addr32, size, false)
		inst.Operands.SegIndex = int(inst.Operands.ModRM.Reg)
	case b == 0x8E:
		decodeModRMForm(r, inst, OpMovSegIn, addr32, size, true)
		inst.Operands.SegIndex = int(inst.Operands.ModRM.Reg)

	case b >= 0xB0 && b <= 0xB7:
		inst.Opcode = OpMovRegImm8
		inst.Operands.RegField = regField(b)
		inst.Operands.Imm8 = r.imm8()
	case b >= 0xB8 && b <= 0xBF:
		inst.Operands.RegField = regField(b)
		if size == Size32 {
			inst.Opcode = OpMovRegImm32
			inst.Operands.Imm32 = r.imm32()
		} else {
			inst.Opcode = OpMovRegImm16
			inst.Operands.Imm16 = r.imm16()
		}
	case b == 0xC6:
		inst.Opcode = OpMovRMImm8
		inst.Operands.ModRM = modrmOf(r, addr32)
		inst.Operands.HasModRM = true
		inst.Operands.Imm8 = r.imm8()
	case b == 0xC7:
		inst.Operands.ModRM = modrmOf(r, addr32)
		inst.Operands.HasModRM = true
		if size == Size32 {
			inst.Opcode = OpMovRMImm32
			inst.Operands.Imm32 = r.imm32()
		} else {
			inst.Opcode = OpMovRMImm16
			inst.Operands.Imm16 = r.imm16()
		}

	case b == 0x86:
		decodeModRMForm(r, inst, OpXchgRMReg8, addr32, Size8, false)
	case b == 0x87:
		decodeModRMForm(r, inst, OpXchgRMReg16, addr32, size, false)
		if size == Size32 {
			inst.Opcode = OpXchgRMReg32
		}
	case b >= 0x91 && b <= 0x97:
		inst.Opcode = OpXchgAXReg
		inst.Operands.RegField = regField(b)

	case b == 0x84:
		decodeModRMForm(r, inst, OpTestRMReg8, addr32, Size8, false)
	case b == 0x85:
		decodeModRMForm(r, inst, OpTestRMReg16, addr32, size, false)
		if size == Size32 {
			inst.Opcode = OpTestRMReg32
		}

	case b == 0xA0:
		inst.Opcode = OpMovALMoffs
		inst.Operands.Size = Size8
		inst.Operands.MoffsAddr = moffsOf(r, addr32)
	case b == 0xA1:
		inst.Opcode = OpMovALMoffs
		inst.Operands.Size = size
		inst.Operands.MoffsAddr = moffsOf(r, addr32)
	case b == 0xA2:
		inst.Opcode = OpMovMoffsAL
		inst.Operands.Size = Size8
		inst.Operands.MoffsAddr = moffsOf(r, addr32)
	case b == 0xA3:
		inst.Opcode = OpMovMoffsAL
		inst.Operands.Size = size
		inst.Operands.MoffsAddr = moffsOf(r, addr32)

	case b == 0x69:
		inst.Opcode = OpImulRegRMImm16
		inst.Operands.ModRM = modrmOf(r, addr32)
		inst.Operands.HasModRM = true
		inst.Operands.Size = size
		if size == Size32 {
			inst.Opcode = OpImulRegRMImm32
			inst.Operands.Imm32 = r.imm32()
		} else {
			inst.Operands.Imm16 = r.imm16()
		}
	case b == 0x6B:
		inst.Opcode = OpImulRegRMImm16
		inst.Operands.ModRM = modrmOf(r, addr32)
		inst.Operands.HasModRM = true
		inst.Operands.Size = size
		v := int8(r.imm8())
		if size == Size32 {
			inst.Opcode = OpImulRegRMImm32
			inst.Operands.Imm32 = uint32(int32(v))
		} else {
			inst.Operands.Imm16 = uint16(int16(v))
		}

	// Stack
	case b >= 0x50 && b <= 0x57:
		inst.Opcode = OpPushReg
		inst.Operands.RegField = regField(b)
	case b >= 0x58 && b <= 0x5F:
		inst.Opcode = OpPopReg
		inst.Operands.RegField = regField(b)
	case b == 0x68:
		inst.Opcode = OpPushImm
		if size == Size32 {
			inst.Operands.Imm32 = r.imm32()
		} else {
			inst.Operands.Imm16 = r.imm16()
		}
	case b == 0x6A:
		inst.Opcode = OpPushImm
		v := int8(r.imm8())
		if size == Size32 {
			inst.Operands.Imm32 = uint32(int32(v))
		} else {
			inst.Operands.Imm16 = uint16(int16(v))
		}
	case b == 0xFF:
		decodeGrp5(r, inst, addr32, size)
	case b == 0x9C:
		inst.Opcode = OpPushfd
	case b == 0x9D:
		inst.Opcode = OpPopfd
	case b == 0x60:
		inst.Opcode = OpPusha
	case b == 0x61:
		inst.Opcode = OpPopa
	case b == 0xC8:
		inst.Opcode = OpEnter
		inst.Operands.Imm16 = r.imm16()
		inst.Operands.Imm8 = r.imm8()
	case b == 0xC9:
		inst.Opcode = OpLeave
	case b == 0x06:
		inst.Opcode, inst.Operands.SegIndex = OpPushSeg, 0 // ES
	case b == 0x07:
		inst.Opcode, inst.Operands.SegIndex = OpPopSeg, 0
	case b == 0x0E:
		inst.Opcode, inst.Operands.SegIndex = OpPushSeg, 1 // CS
	case b == 0x16:
		inst.Opcode, inst.Operands.SegIndex = OpPushSeg, 2 // SS
	case b == 0x17:
		inst.Opcode, inst.Operands.SegIndex = OpPopSeg, 2
	case b == 0x1E:
		inst.Opcode, inst.Operands.SegIndex = OpPushSeg, 3 // DS
	case b == 0x1F:
		inst.Opcode, inst.Operands.SegIndex = OpPopSeg, 3
	case b == 0x8F:
		inst.Opcode = OpPopRM16
		if size == Size32 {
			inst.Opcode = OpPopRM32
		}
		inst.Operands.ModRM = modrmOf(r, addr32)
		inst.Operands.HasModRM = true
		inst.Operands.Size = size

	// INC/DEC reg, short forms
	case b >= 0x40 && b <= 0x47:
		inst.Opcode = OpIncReg
		inst.Operands.RegField = regField(b)
	case b >= 0x48 && b <= 0x4F:
		inst.Opcode = OpDecReg
		inst.Operands.RegField = regField(b)

	case b == 0x80:
		decodeGrp1(r, inst, addr32, Size8, false)
	case b == 0x81:
		decodeGrp1(r, inst, addr32, size, false)
	case b == 0x83:
		decodeGrp1(r, inst, addr32, size, true)

	case b == 0xF6:
		decodeGrp3(r, inst, addr32, Size8)
	case b == 0xF7:
		decodeGrp3(r, inst, addr32, size)

	case b == 0xD0, b == 0xD1, b == 0xD2, b == 0xD3:
		decodeGrp2(r, inst, b, addr32, size)

	case b == 0xE8:
		inst.Opcode = OpCallRel16
		if size == Size32 {
			inst.Opcode = OpCallRel32
			inst.Operands.Rel32 = int32(r.imm32())
		} else {
			inst.Operands.Rel32 = int32(int16(r.imm16()))
		}
	case b == 0xC3:
		inst.Opcode = OpRetNear
	case b == 0xC2:
		inst.Opcode = OpRetNearImm16
		inst.Operands.Imm16 = r.imm16()
	case b == 0x9A:
		inst.Opcode = OpCallFar
		if size == Size32 {
			inst.Operands.Imm32 = r.imm32()
		} else {
			inst.Operands.Imm16 = r.imm16()
		}
		inst.Operands.FarSeg = r.imm16()
	case b == 0xEA:
		inst.Opcode = OpJmpFar
		if size == Size32 {
			inst.Operands.Imm32 = r.imm32()
		} else {
			inst.Operands.Imm16 = r.imm16()
		}
		inst.Operands.FarSeg = r.imm16()
	case b == 0xCB:
		inst.Opcode = OpRetFar
	case b == 0xCA:
		inst.Opcode = OpRetFarImm16
		inst.Operands.Imm16 = r.imm16()
	case b == 0xE9:
		inst.Opcode = OpJmpRel16
		if size == Size32 {
			inst.Opcode = OpJmpRel32
			inst.Operands.Rel32 = int32(r.imm32())
		} else {
			inst.Operands.Rel32 = int32(int16(r.imm16()))
		}
	case b == 0xEB:
		inst.Opcode = OpJmpRel8
		inst.Operands.Rel8 = int8(r.imm8())
	case b >= 0x70 && b <= 0x7F:
		inst.Opcode = OpJccRel8
		inst.Operands.RegField = b & 0x0F // condition code
		inst.Operands.Rel8 = int8(r.imm8())
	case b == 0xE0:
		inst.Opcode = OpLoopne
		inst.Operands.Rel8 = int8(r.imm8())
	case b == 0xE1:
		inst.Opcode = OpLoope
		inst.Operands.Rel8 = int8(r.imm8())
	case b == 0xE2:
		inst.Opcode = OpLoop
		inst.Operands.Rel8 = int8(r.imm8())
	case b == 0xE3:
		inst.Opcode = OpJcxz
		inst.Operands.Rel8 = int8(r.imm8())

	case b == 0xCC:
		inst.Opcode = OpInt3
	case b == 0xCD:
		inst.Opcode = OpIntImm8
		inst.Operands.Imm8 = r.imm8()
	case b == 0xCE:
		inst.Opcode = OpInto
	case b == 0xCF:
		inst.Opcode = OpIret

	case b == 0xA4, b == 0xA5:
		inst.Opcode = OpMovs
		inst.Operands.StringSize = Size8
		if b == 0xA5 {
			inst.Operands.StringSize = size
		}
	case b == 0xA6, b == 0xA7:
		inst.Opcode = OpCmps
		inst.Operands.StringSize = Size8
		if b == 0xA7 {
			inst.Operands.StringSize = size
		}
	case b == 0xAA, b == 0xAB:
		inst.Opcode = OpStos
		inst.Operands.StringSize = Size8
		if b == 0xAB {
			inst.Operands.StringSize = size
		}
	case b == 0xAC, b == 0xAD:
		inst.Opcode = OpLods
		inst.Operands.StringSize = Size8
		if b == 0xAD {
			inst.Operands.StringSize = size
		}
	case b == 0xAE, b == 0xAF:
		inst.Opcode = OpScas
		inst.Operands.StringSize = Size8
		if b == 0xAF {
			inst.Operands.StringSize = size
		}
	case b == 0x6C, b == 0x6D:
		inst.Opcode = OpIns
		inst.Operands.StringSize = Size8
		if b == 0x6D {
			inst.Operands.StringSize = size
		}
	case b == 0x6E, b == 0x6F:
		inst.Opcode = OpOuts
		inst.Operands.StringSize = Size8
		if b == 0x6F {
			inst.Operands.StringSize = size
		}

	case b == 0xF4:
		inst.Opcode = OpHlt
	case b == 0x90:
		inst.Opcode = OpNop
	case b == 0xF8:
		inst.Opcode = OpClc
	case b == 0xF9:
		inst.Opcode = OpStc
	case b == 0xFA:
		inst.Opcode = OpCli
	case b == 0xFB:
		inst.Opcode = OpSti
	case b == 0xFC:
		inst.Opcode = OpCld
	case b == 0xFD:
		inst.Opcode = OpStd
	case b == 0xF5:
		inst.Opcode = OpCmc
	case b == 0x9F:
		inst.Opcode = OpLahf
	case b == 0x9E:
		inst.Opcode = OpSahf
	case b == 0x98:
		inst.Opcode = OpCbw
		if size == Size32 {
			inst.Opcode = OpCwde
		}
	case b == 0x99:
		inst.Opcode = OpCwd
		if size == Size32 {
			inst.Opcode = OpCdq
		}
	case b == 0xD7:
		inst.Opcode = OpXlat
	case b == 0xD6:
		inst.Opcode = OpSalc

	case b == 0x37:
		inst.Opcode = OpAaa
	case b == 0x3F:
		inst.Opcode = OpAas
	case b == 0xD4:
		inst.Opcode = OpAam
		inst.Operands.Imm8 = r.imm8()
	case b == 0xD5:
		inst.Opcode = OpAad
		inst.Operands.Imm8 = r.imm8()
	case b == 0x27:
		inst.Opcode = OpDaa
	case b == 0x2F:
		inst.Opcode = OpDas

	case b == 0xE4:
		inst.Opcode = OpInAL
		inst.Operands.PortImm8 = r.imm8()
	case b == 0xE5:
		inst.Opcode = OpInAX
		inst.Operands.PortImm8 = r.imm8()
	case b == 0xE6:
		inst.Opcode = OpOutAL
		inst.Operands.PortImm8 = r.imm8()
	case b == 0xE7:
		inst.Opcode = OpOutAX
		inst.Operands.PortImm8 = r.imm8()
	case b == 0xEC:
		inst.Opcode = OpInAL
		inst.Operands.PortFromDX = true
	case b == 0xED:
		inst.Opcode = OpInAX
		inst.Operands.PortFromDX = true
	case b == 0xEE:
		inst.Opcode = OpOutAL
		inst.Operands.PortFromDX = true
	case b == 0xEF:
		inst.Opcode = OpOutAX
		inst.Operands.PortFromDX = true

	case b == 0x9B:
		inst.Opcode = OpFwait
	case b >= 0xD8 && b <= 0xDF:
		decodeEsc(r, inst, b, addr32)
	}
}

// decodeEsc covers the 0xD8-0xDF coprocessor escape space. No FPU is
// modeled, so only the four documented-no-op forms spec.md §4.3 asks for
// are recognized; any other ESC encoding is left OpInvalid and faults as
// an invalid opcode, the same as any other unmodeled instruction.
func decodeEsc(r *byteReader, inst *CfgInstruction, b byte, addr32 bool) {
	ctx := modrmOf(r, addr32)
	inst.Operands.ModRM = ctx
	inst.Operands.HasModRM = true

	switch {
	case b == 0xDB && ctx.Mod == 3 && ctx.Reg == 4 && ctx.RM == 3:
		inst.Opcode = OpFninit // DB E3, FNINIT
	case b == 0xD9 && ctx.Reg == 7 && ctx.Mod != 3:
		inst.Opcode = OpFnstcw // D9 /7, FNSTCW m16
	case b == 0xDD && ctx.Reg == 7 && ctx.Mod != 3:
		inst.Opcode = OpFnstsw // DD /7, FNSTSW m16
	case b == 0xDF && ctx.Mod == 3 && ctx.Reg == 4 && ctx.RM == 0:
		inst.Opcode = OpFnstswAX // DF E0, FNSTSW AX
	}
}

// isAluBlock reports whether b falls in one of the eight ALU instruction
// blocks (ADD 0x00-0x05, OR 0x08-0x0D, ADC 0x10-0x15, SBB 0x18-0x1D,
// AND 0x20-0x25, SUB 0x28-0x2D, XOR 0x30-0x35, CMP 0x38-0x3D).
func isAluBlock(b byte) bool {
	return b < 0x40 && (b&7) <= 5
}

func decodeAluBlock(r *byteReader, inst *CfgInstruction, b byte, addr32 bool, size OperandSize) {
	op := AluOp((b >> 3) & 7)
	inst.Operands.AluOp = op
	switch b & 7 {
	case 0:
		decodeModRMForm(r, inst, OpAluRMReg8, addr32, Size8, false)
	case 1:
		decodeModRMForm(r, inst, OpAluRMReg16, addr32, size, false)
		if size == Size32 {
			inst.Opcode = OpAluRMReg32
		}
	case 2:
		decodeModRMForm(r, inst, OpAluRegRM8, addr32, Size8, true)
	case 3:
		decodeModRMForm(r, inst, OpAluRegRM16, addr32, size, true)
		if size == Size32 {
			inst.Opcode = OpAluRegRM32
		}
	case 4:
		inst.Opcode = OpAluALImm8
		inst.Operands.Imm8 = r.imm8()
	case 5:
		inst.Opcode = OpAluAXImm
		if size == Size32 {
			inst.Operands.Imm32 = r.imm32()
		} else {
			inst.Operands.Imm16 = r.imm16()
		}
	}
	inst.Operands.AluOp = op
}

func decodeModRMForm(r *byteReader, inst *CfgInstruction, op Opcode, addr32 bool, size OperandSize, regIsDest bool) {
	inst.Opcode = op
	inst.Operands.ModRM = modrmOf(r, addr32)
	inst.Operands.HasModRM = true
	inst.Operands.Size = size
	_ = regIsDest
}

// decodeGrp1 decodes the Eb,Ib / Ev,Iv / Ev,Ib add/or/adc/sbb/and/sub/xor/cmp
// group (cpu_x86_grp.go), resolving ModRM.reg to a concrete AluOp.
func decodeGrp1(r *byteReader, inst *CfgInstruction, addr32 bool, size OperandSize, immSext bool) {
	ctx := modrmOf(r, addr32)
	inst.Operands.ModRM = ctx
	inst.Operands.HasModRM = true
	inst.Operands.AluOp = AluOp(ctx.Reg)
	inst.Operands.Size = size

	if size == Size8 {
		inst.Opcode = OpAluRMImm8
		inst.Operands.Imm8 = r.imm8()
		return
	}
	if immSext {
		inst.Opcode = OpAluRMImm8Sext
		inst.Operands.Imm8 = r.imm8()
		return
	}
	if size == Size32 {
		inst.Opcode = OpAluRMImm32
		inst.Operands.Imm32 = r.imm32()
	} else {
		inst.Opcode = OpAluRMImm16
		inst.Operands.Imm16 = r.imm16()
	}
}

// decodeGrp2 decodes the ROL/ROR/RCL/RCR/SHL/SHR/SAR shift group.
// b selects the shift-count source: 0xD0/0xD1 = 1, 0xD2/0xD3 = CL.
func decodeGrp2(r *byteReader, inst *CfgInstruction, b byte, addr32 bool, size OperandSize) {
	wide := b == 0xD1 || b == 0xD3
	s := Size8
	if wide {
		s = size
	}
	ctx := modrmOf(r, addr32)
	inst.Operands.ModRM = ctx
	inst.Operands.HasModRM = true
	inst.Operands.Size = s

	byReg := [...]Opcode{OpRolRM8, OpRorRM8, OpRclRM8, OpRcrRM8, OpShlRM8, OpShrRM8, OpShlRM8, OpSarRM8}
	opBase := byReg[ctx.Reg]
	if s == Size32 {
		opBase = widen(opBase, Size32)
	} else if s == Size16 {
		opBase = widen(opBase, Size16)
	}
	inst.Opcode = opBase
	inst.Operands.PortFromDX = b == 0xD2 || b == 0xD3 // reused as "count in CL"
}

func widen(op8 Opcode, size OperandSize) Opcode {
	table := map[Opcode][2]Opcode{
		OpRolRM8: {OpRolRM16, OpRolRM32},
		OpRorRM8: {OpRorRM16, OpRorRM32},
		OpRclRM8: {OpRclRM16, OpRclRM32},
		OpRcrRM8: {OpRcrRM16, OpRcrRM32},
		OpShlRM8: {OpShlRM16, OpShlRM32},
		OpShrRM8: {OpShrRM16, OpShrRM32},
		OpSarRM8: {OpSarRM16, OpSarRM32},
	}
	pair, ok := table[op8]
	if !ok {
		return op8
	}
	if size == Size16 {
		return pair[0]
	}
	return pair[1]
}

// decodeGrp3 decodes TEST/NOT/NEG/MUL/IMUL/DIV/IDIV on reg field 0-7.
func decodeGrp3(r *byteReader, inst *CfgInstruction, addr32 bool, size OperandSize) {
	ctx := modrmOf(r, addr32)
	inst.Operands.ModRM = ctx
	inst.Operands.HasModRM = true
	inst.Operands.Size = size

	switch ctx.Reg {
	case 0, 1: // TEST Eb/Ev, Ib/Iv
		inst.Opcode = pick(size, OpTestRMImm8, OpTestRMImm16, OpTestRMImm32)
		if size == Size8 {
			inst.Operands.Imm8 = r.imm8()
		} else if size == Size32 {
			inst.Operands.Imm32 = r.imm32()
		} else {
			inst.Operands.Imm16 = r.imm16()
		}
	case 2:
		inst.Opcode = pick(size, OpNotRM8, OpNotRM16, OpNotRM32)
	case 3:
		inst.Opcode = pick(size, OpNegRM8, OpNegRM16, OpNegRM32)
	case 4:
		inst.Opcode = pick(size, OpMulRM8, OpMulRM16, OpMulRM32)
	case 5:
		inst.Opcode = pick(size, OpImulRM8, OpImulRM16, OpImulRM32)
	case 6:
		inst.Opcode = pick(size, OpDivRM8, OpDivRM16, OpDivRM32)
	case 7:
		inst.Opcode = pick(size, OpIdivRM8, OpIdivRM16, OpIdivRM32)
	}
}

// moffsOf reads the A0-A3 moffs operand: 2 bytes under 16-bit addressing,
// 4 under 32-bit, per the current address-size prefix state.
func moffsOf(r *byteReader, addr32 bool) uint32 {
	if addr32 {
		return r.imm32()
	}
	return uint32(r.imm16())
}

func pick(size OperandSize, o8, o16, o32 Opcode) Opcode {
	switch size {
	case Size8:
		return o8
	case Size32:
		return o32
	default:
		return o16
	}
}

// decodeGrp5 decodes 0xFF: INC/DEC Ev, CALL/JMP near and far Ev, PUSH Ev.
func decodeGrp5(r *byteReader, inst *CfgInstruction, addr32 bool, size OperandSize) {
	ctx := modrmOf(r, addr32)
	inst.Operands.ModRM = ctx
	inst.Operands.HasModRM = true
	inst.Operands.Size = size

	switch ctx.Reg {
	case 0:
		inst.Opcode = pick(size, OpIncRM8, OpIncRM16, OpIncRM32)
	case 1:
		inst.Opcode = pick(size, OpDecRM8, OpDecRM16, OpDecRM32)
	case 2:
		inst.Opcode = OpCallRM16
		if size == Size32 {
			inst.Opcode = OpCallRM32
		}
	case 3:
		inst.Opcode = OpCallRMFar16
		if size == Size32 {
			inst.Opcode = OpCallRMFar32
		}
	case 4:
		inst.Opcode = OpJmpRM16
		if size == Size32 {
			inst.Opcode = OpJmpRM32
		}
	case 5:
		inst.Opcode = OpJmpRMFar16
		if size == Size32 {
			inst.Opcode = OpJmpRMFar32
		}
	case 6:
		inst.Opcode = OpPushRM16
		if size == Size32 {
			inst.Opcode = OpPushRM32
		}
	}
}

func decodeTwoByte(r *byteReader, inst *CfgInstruction, b byte, addr32 bool, size OperandSize) {
	switch {
	case b >= 0x80 && b <= 0x8F:
		inst.Opcode = OpJccRel16or32
		inst.Operands.RegField = b & 0x0F
		if size == Size32 {
			inst.Operands.Rel32 = int32(r.imm32())
		} else {
			inst.Operands.Rel32 = int32(int16(r.imm16()))
		}
	case b == 0xB6:
		decodeModRMForm(r, inst, OpMovzxRMReg8, addr32, size, true)
	case b == 0xB7:
		decodeModRMForm(r, inst, OpMovzxRMReg16, addr32, size, true)
	case b == 0xBE:
		decodeModRMForm(r, inst, OpMovsxRMReg8, addr32, size, true)
	case b == 0xBF:
		decodeModRMForm(r, inst, OpMovsxRMReg16, addr32, size, true)
	case b == 0xB2:
		decodeModRMForm(r, inst, OpLss, addr32, size, true)
		inst.Operands.SegIndex = state.SegSS
	case b == 0xB4:
		decodeModRMForm(r, inst, OpLfs, addr32, size, true)
		inst.Operands.SegIndex = state.SegFS
	case b == 0xB5:
		decodeModRMForm(r, inst, OpLgs, addr32, size, true)
		inst.Operands.SegIndex = state.SegGS
	case b == 0xA4:
		decodeModRMForm(r, inst, OpShld, addr32, size, false)
		inst.Operands.Imm8 = r.imm8()
	case b == 0xA5:
		decodeModRMForm(r, inst, OpShld, addr32, size, false)
		inst.Operands.ShiftByCL = true
	case b == 0xAC:
		decodeModRMForm(r, inst, OpShrd, addr32, size, false)
		inst.Operands.Imm8 = r.imm8()
	case b == 0xAD:
		decodeModRMForm(r, inst, OpShrd, addr32, size, false)
		inst.Operands.ShiftByCL = true
	case b >= 0xC8 && b <= 0xCF:
		inst.Opcode = OpBswap
		inst.Operands.RegField = regField(b)
	case b >= 0x90 && b <= 0x9F:
		decodeModRMForm(r, inst, OpSetccRM8, addr32, Size8, false)
		inst.Operands.RegField = b & 0x0F
	}
}
