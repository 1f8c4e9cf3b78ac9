// format.go - CfgInstruction -> Intel-syntax mnemonic text
//
// debug_disasm_x86.go decoded raw bytes into mnemonics in one pass; this
// package instead formats the parser's already-decoded CfgInstruction, so
// the decoding logic lives in exactly one place (parser). The register
// name tables and AT&T-free Intel-operand-order convention are carried
// over from debug_disasm_x86.go's x86Reg32/x86Reg16/x86Reg8/x86SegRegs/
// x86Cond arrays verbatim.
package disasm

import (
	"fmt"
	"strings"

	"github.com/retrodos/pccore/parser"
)

var reg32 = [8]string{"eax", "ecx", "edx", "ebx", "esp", "ebp", "esi", "edi"}
var reg16 = [8]string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di"}
var reg8 = [8]string{"al", "cl", "dl", "bl", "ah", "ch", "dh", "bh"}
var segRegs = [6]string{"es", "cs", "ss", "ds", "fs", "gs"}
var condSuffix = [16]string{
	"o", "no", "b", "nb", "z", "nz", "be", "a",
	"s", "ns", "p", "np", "l", "ge", "le", "g",
}
var aluMnemonic = [8]string{"add", "or", "adc", "sbb", "and", "sub", "xor", "cmp"}

func regName(idx byte, size parser.OperandSize) string {
	switch size {
	case parser.Size8:
		return reg8[idx&7]
	case parser.Size32:
		return reg32[idx&7]
	default:
		return reg16[idx&7]
	}
}

// Format renders inst the way a debugger console's disassembly pane
// would: one line, Intel operand order, no address or byte dump (the
// caller prefixes those itself, since it already knows inst.Address).
func Format(inst *parser.CfgInstruction) string {
	size := inst.Operands.Size
	rm := rmOperand(inst, size)

	switch inst.Opcode {
	case parser.OpMovRegRM8, parser.OpMovRegRM16, parser.OpMovRegRM32:
		return fmt.Sprintf("mov %s, %s", regName(inst.Operands.ModRM.Reg, size), rm)
	case parser.OpMovRMReg8, parser.OpMovRMReg16, parser.OpMovRMReg32:
		return fmt.Sprintf("mov %s, %s", rm, regName(inst.Operands.ModRM.Reg, size))
	case parser.OpMovRegImm8, parser.OpMovRegImm16, parser.OpMovRegImm32:
		return fmt.Sprintf("mov %s, %s", regName(inst.Operands.RegField, size), immOperand(inst, size))
	case parser.OpMovRMImm8, parser.OpMovRMImm16, parser.OpMovRMImm32:
		return fmt.Sprintf("mov %s, %s", rm, immOperand(inst, size))
	case parser.OpMovALMoffs:
		return fmt.Sprintf("mov al, [0x%X]", inst.Operands.MoffsAddr)
	case parser.OpMovMoffsAL:
		return fmt.Sprintf("mov [0x%X], al", inst.Operands.MoffsAddr)
	case parser.OpMovSegOut:
		return fmt.Sprintf("mov %s, %s", segRegs[inst.Operands.SegIndex&7], rm)
	case parser.OpMovSegIn:
		return fmt.Sprintf("mov %s, %s", rm, segRegs[inst.Operands.SegIndex&7])
	case parser.OpLea:
		return fmt.Sprintf("lea %s, %s", regName(inst.Operands.ModRM.Reg, size), rm)
	case parser.OpXchgRMReg8, parser.OpXchgRMReg16, parser.OpXchgRMReg32:
		return fmt.Sprintf("xchg %s, %s", rm, regName(inst.Operands.ModRM.Reg, size))
	case parser.OpXchgAXReg:
		return fmt.Sprintf("xchg ax, %s", regName(inst.Operands.RegField, size))

	case parser.OpPushReg:
		return "push " + regName(inst.Operands.RegField, size)
	case parser.OpPopReg:
		return "pop " + regName(inst.Operands.RegField, size)
	case parser.OpPushImm:
		return "push " + immOperand(inst, size)
	case parser.OpPushRM16, parser.OpPushRM32:
		return "push " + rm
	case parser.OpPopRM16, parser.OpPopRM32:
		return "pop " + rm
	case parser.OpPushfd:
		return "pushfd"
	case parser.OpPopfd:
		return "popfd"
	case parser.OpPusha:
		return "pusha"
	case parser.OpPopa:
		return "popa"
	case parser.OpPushSeg:
		return "push " + segRegs[inst.Operands.SegIndex&7]
	case parser.OpPopSeg:
		return "pop " + segRegs[inst.Operands.SegIndex&7]

	case parser.OpAluRMReg8, parser.OpAluRMReg16, parser.OpAluRMReg32:
		return fmt.Sprintf("%s %s, %s", aluMnemonic[inst.Operands.AluOp], rm, regName(inst.Operands.ModRM.Reg, size))
	case parser.OpAluRegRM8, parser.OpAluRegRM16, parser.OpAluRegRM32:
		return fmt.Sprintf("%s %s, %s", aluMnemonic[inst.Operands.AluOp], regName(inst.Operands.ModRM.Reg, size), rm)
	case parser.OpAluALImm8:
		return fmt.Sprintf("%s al, %s", aluMnemonic[inst.Operands.AluOp], immOperand(inst, parser.Size8))
	case parser.OpAluAXImm:
		return fmt.Sprintf("%s %s, %s", aluMnemonic[inst.Operands.AluOp], regName(0, size), immOperand(inst, size))
	case parser.OpAluRMImm8, parser.OpAluRMImm16, parser.OpAluRMImm32, parser.OpAluRMImm8Sext:
		return fmt.Sprintf("%s %s, %s", aluMnemonic[inst.Operands.AluOp], rm, immOperand(inst, size))

	case parser.OpIncReg:
		return "inc " + regName(inst.Operands.RegField, size)
	case parser.OpDecReg:
		return "dec " + regName(inst.Operands.RegField, size)
	case parser.OpIncRM8, parser.OpIncRM16, parser.OpIncRM32:
		return "inc " + rm
	case parser.OpDecRM8, parser.OpDecRM16, parser.OpDecRM32:
		return "dec " + rm

	case parser.OpNotRM8, parser.OpNotRM16, parser.OpNotRM32:
		return "not " + rm
	case parser.OpNegRM8, parser.OpNegRM16, parser.OpNegRM32:
		return "neg " + rm
	case parser.OpTestRMImm8, parser.OpTestRMImm16, parser.OpTestRMImm32:
		return fmt.Sprintf("test %s, %s", rm, immOperand(inst, size))
	case parser.OpTestRMReg8, parser.OpTestRMReg16, parser.OpTestRMReg32:
		return fmt.Sprintf("test %s, %s", rm, regName(inst.Operands.ModRM.Reg, size))
	case parser.OpMulRM8, parser.OpMulRM16, parser.OpMulRM32:
		return "mul " + rm
	case parser.OpImulRM8, parser.OpImulRM16, parser.OpImulRM32:
		return "imul " + rm
	case parser.OpImulRegRMImm16, parser.OpImulRegRMImm32:
		return fmt.Sprintf("imul %s, %s, %s", regName(inst.Operands.ModRM.Reg, size), rm, immOperand(inst, size))
	case parser.OpDivRM8, parser.OpDivRM16, parser.OpDivRM32:
		return "div " + rm
	case parser.OpIdivRM8, parser.OpIdivRM16, parser.OpIdivRM32:
		return "idiv " + rm

	case parser.OpRolRM8, parser.OpRolRM16, parser.OpRolRM32:
		return "rol " + rm
	case parser.OpRorRM8, parser.OpRorRM16, parser.OpRorRM32:
		return "ror " + rm
	case parser.OpRclRM8, parser.OpRclRM16, parser.OpRclRM32:
		return "rcl " + rm
	case parser.OpRcrRM8, parser.OpRcrRM16, parser.OpRcrRM32:
		return "rcr " + rm
	case parser.OpShlRM8, parser.OpShlRM16, parser.OpShlRM32:
		return "shl " + rm
	case parser.OpShrRM8, parser.OpShrRM16, parser.OpShrRM32:
		return "shr " + rm
	case parser.OpSarRM8, parser.OpSarRM16, parser.OpSarRM32:
		return "sar " + rm

	case parser.OpJmpRel8, parser.OpJmpRel16, parser.OpJmpRel32:
		return "jmp " + relOperand(inst)
	case parser.OpJmpRM16, parser.OpJmpRM32:
		return "jmp " + rm
	case parser.OpJccRel8, parser.OpJccRel16or32:
		return fmt.Sprintf("j%s %s", condSuffix[inst.Operands.RegField&0xF], relOperand(inst))
	case parser.OpLoop:
		return "loop " + relOperand(inst)
	case parser.OpLoope:
		return "loope " + relOperand(inst)
	case parser.OpLoopne:
		return "loopne " + relOperand(inst)
	case parser.OpJcxz:
		return "jcxz " + relOperand(inst)
	case parser.OpCallRel16, parser.OpCallRel32:
		return "call " + relOperand(inst)
	case parser.OpCallRM16, parser.OpCallRM32:
		return "call " + rm
	case parser.OpRetNear:
		return "ret"
	case parser.OpRetNearImm16:
		return fmt.Sprintf("ret 0x%X", inst.Operands.Imm16)
	case parser.OpIntImm8:
		return fmt.Sprintf("int 0x%X", inst.Operands.Imm8)
	case parser.OpInt3:
		return "int3"
	case parser.OpInto:
		return "into"
	case parser.OpIret:
		return "iret"

	case parser.OpMovs:
		return repPrefix(inst) + "movs " + stringSizeSuffix(inst)
	case parser.OpCmps:
		return repPrefix(inst) + "cmps " + stringSizeSuffix(inst)
	case parser.OpStos:
		return repPrefix(inst) + "stos " + stringSizeSuffix(inst)
	case parser.OpLods:
		return repPrefix(inst) + "lods " + stringSizeSuffix(inst)
	case parser.OpScas:
		return repPrefix(inst) + "scas " + stringSizeSuffix(inst)
	case parser.OpIns:
		return repPrefix(inst) + "ins " + stringSizeSuffix(inst)
	case parser.OpOuts:
		return repPrefix(inst) + "outs " + stringSizeSuffix(inst)

	case parser.OpClc:
		return "clc"
	case parser.OpStc:
		return "stc"
	case parser.OpCli:
		return "cli"
	case parser.OpSti:
		return "sti"
	case parser.OpCld:
		return "cld"
	case parser.OpStd:
		return "std"
	case parser.OpCmc:
		return "cmc"
	case parser.OpLahf:
		return "lahf"
	case parser.OpSahf:
		return "sahf"
	case parser.OpNop:
		return "nop"
	case parser.OpHlt:
		return "hlt"
	case parser.OpCbw:
		return "cbw"
	case parser.OpCwde:
		return "cwde"
	case parser.OpCwd:
		return "cwd"
	case parser.OpCdq:
		return "cdq"
	case parser.OpXlat:
		return "xlat"
	case parser.OpSalc:
		return "salc"

	case parser.OpAaa:
		return "aaa"
	case parser.OpAas:
		return "aas"
	case parser.OpAam:
		return "aam"
	case parser.OpAad:
		return "aad"
	case parser.OpDaa:
		return "daa"
	case parser.OpDas:
		return "das"

	case parser.OpInAL:
		return "in al, " + portOperand(inst)
	case parser.OpInAX:
		return "in " + regName(0, size) + ", " + portOperand(inst)
	case parser.OpOutAL:
		return "out " + portOperand(inst) + ", al"
	case parser.OpOutAX:
		return "out " + portOperand(inst) + ", " + regName(0, size)

	case parser.OpMovzxRMReg8, parser.OpMovzxRMReg16:
		return fmt.Sprintf("movzx %s, %s", regName(inst.Operands.ModRM.Reg, size), rm)
	case parser.OpMovsxRMReg8, parser.OpMovsxRMReg16:
		return fmt.Sprintf("movsx %s, %s", regName(inst.Operands.ModRM.Reg, size), rm)
	case parser.OpBswap:
		return "bswap " + regName(inst.Operands.RegField, size)
	case parser.OpSetccRM8:
		return fmt.Sprintf("set%s %s", condSuffix[inst.Operands.RegField&0xF], rm)
	case parser.OpShld:
		return fmt.Sprintf("shld %s, %s, %s", rm, regName(inst.Operands.ModRM.Reg, size), shiftCountOperand(inst))
	case parser.OpShrd:
		return fmt.Sprintf("shrd %s, %s, %s", rm, regName(inst.Operands.ModRM.Reg, size), shiftCountOperand(inst))

	case parser.OpEnter:
		return fmt.Sprintf("enter 0x%X, 0x%X", inst.Operands.Imm16, inst.Operands.Imm8)
	case parser.OpLeave:
		return "leave"

	case parser.OpLes:
		return fmt.Sprintf("les %s, %s", regName(inst.Operands.ModRM.Reg, size), rm)
	case parser.OpLds:
		return fmt.Sprintf("lds %s, %s", regName(inst.Operands.ModRM.Reg, size), rm)
	case parser.OpLss:
		return fmt.Sprintf("lss %s, %s", regName(inst.Operands.ModRM.Reg, size), rm)
	case parser.OpLfs:
		return fmt.Sprintf("lfs %s, %s", regName(inst.Operands.ModRM.Reg, size), rm)
	case parser.OpLgs:
		return fmt.Sprintf("lgs %s, %s", regName(inst.Operands.ModRM.Reg, size), rm)

	case parser.OpCallFar:
		return fmt.Sprintf("call 0x%X:%s", inst.Operands.FarSeg, immOperand(inst, size))
	case parser.OpJmpFar:
		return fmt.Sprintf("jmp 0x%X:%s", inst.Operands.FarSeg, immOperand(inst, size))
	case parser.OpRetFar:
		return "retf"
	case parser.OpRetFarImm16:
		return fmt.Sprintf("retf 0x%X", inst.Operands.Imm16)
	case parser.OpCallRMFar16, parser.OpCallRMFar32:
		return "call far " + rm
	case parser.OpJmpRMFar16, parser.OpJmpRMFar32:
		return "jmp far " + rm

	case parser.OpFwait:
		return "fwait"
	case parser.OpFninit:
		return "fninit"
	case parser.OpFnstcw:
		return "fnstcw " + rm
	case parser.OpFnstsw:
		return "fnstsw " + rm
	case parser.OpFnstswAX:
		return "fnstsw ax"
	}
	return "(bad)"
}

func rmOperand(inst *parser.CfgInstruction, size parser.OperandSize) string {
	m := inst.Operands.ModRM
	if m.IsDirect {
		return regName(m.RM, size)
	}
	return "[" + memoryExpr(inst) + "]"
}

func memoryExpr(inst *parser.CfgInstruction) string {
	m := inst.Operands.ModRM
	var parts []string
	if m.HasSIB {
		if m.Index != 4 {
			parts = append(parts, fmt.Sprintf("%s*%d", reg32[m.Index&7], 1<<m.Scale))
		}
		if !(m.Mod == 0 && m.Base == 5) {
			parts = append(parts, reg32[m.Base&7])
		}
	} else if m.AddrSize32 {
		parts = append(parts, reg32[m.RM&7])
	} else {
		parts = append(parts, reg16[m.RM&7])
	}
	expr := strings.Join(parts, "+")
	if m.DispSize != 0 || expr == "" {
		if m.Disp < 0 {
			expr += fmt.Sprintf("-0x%X", -m.Disp)
		} else if m.Disp > 0 || expr == "" {
			expr += fmt.Sprintf("+0x%X", m.Disp)
		}
	}
	return strings.TrimPrefix(expr, "+")
}

func immOperand(inst *parser.CfgInstruction, size parser.OperandSize) string {
	switch size {
	case parser.Size8:
		return fmt.Sprintf("0x%X", inst.Operands.Imm8)
	case parser.Size32:
		return fmt.Sprintf("0x%X", inst.Operands.Imm32)
	default:
		return fmt.Sprintf("0x%X", inst.Operands.Imm16)
	}
}

func relOperand(inst *parser.CfgInstruction) string {
	var rel int64
	switch inst.Opcode {
	case parser.OpJmpRel8, parser.OpJccRel8, parser.OpLoop, parser.OpLoope, parser.OpLoopne, parser.OpJcxz:
		rel = int64(inst.Operands.Rel8)
	default:
		rel = int64(inst.Operands.Rel32)
	}
	target := int64(inst.Address.Offset) + int64(inst.Length) + rel
	return fmt.Sprintf("0x%X", uint16(target))
}

func shiftCountOperand(inst *parser.CfgInstruction) string {
	if inst.Operands.ShiftByCL {
		return "cl"
	}
	return fmt.Sprintf("0x%X", inst.Operands.Imm8)
}

func portOperand(inst *parser.CfgInstruction) string {
	if inst.Operands.PortFromDX {
		return "dx"
	}
	return fmt.Sprintf("0x%X", inst.Operands.PortImm8)
}

func repPrefix(inst *parser.CfgInstruction) string {
	switch inst.Prefixes.RepKind {
	case parser.RepZ:
		return "rep "
	case parser.RepNZ:
		return "repne "
	default:
		return ""
	}
}

func stringSizeSuffix(inst *parser.CfgInstruction) string {
	switch inst.Operands.StringSize {
	case parser.Size8:
		return "b"
	case parser.Size32:
		return "d"
	default:
		return "w"
	}
}
