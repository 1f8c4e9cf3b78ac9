// dispatch.go - the opcode -> executor table
//
// Mirrors cpu_x86.go's initBaseOps/initExtendedOps, which build a
// [256]func(*CPU_X86) array once at construction time and index it by
// raw opcode byte; here the index is the parser's already-resolved
// Opcode enum (Grp1-5 and the two-byte 0x0F space already folded down
// to a concrete member at decode time), so one flat map covers every
// form without a second-level group dispatch.
package exec

import (
	"github.com/retrodos/pccore/coreerr"
	"github.com/retrodos/pccore/parser"
)

// Executor runs one decoded instruction against h, mutating State/Bus
// and, for control transfers, h.NextNode.
type Executor func(inst *parser.CfgInstruction, h *Helper) error

var dispatch = map[parser.Opcode]Executor{
	// Data movement
	parser.OpMovRegRM8:  execMovRegRM,
	parser.OpMovRegRM16: execMovRegRM,
	parser.OpMovRegRM32: execMovRegRM,
	parser.OpMovRMReg8:  execMovRMReg,
	parser.OpMovRMReg16: execMovRMReg,
	parser.OpMovRMReg32: execMovRMReg,
	parser.OpMovRegImm8:  execMovRegImm,
	parser.OpMovRegImm16: execMovRegImm,
	parser.OpMovRegImm32: execMovRegImm,
	parser.OpMovRMImm8:  execMovRMImm,
	parser.OpMovRMImm16: execMovRMImm,
	parser.OpMovRMImm32: execMovRMImm,
	parser.OpMovALMoffs:  execMovALMoffs,
	parser.OpMovMoffsAL:  execMovMoffsAL,
	parser.OpMovSegOut: execMovSegOut,
	parser.OpMovSegIn:  execMovSegIn,
	parser.OpLea:       execLea,
	parser.OpLes: execLoadFarPtr,
	parser.OpLds: execLoadFarPtr,
	parser.OpLss: execLoadFarPtr,
	parser.OpLfs: execLoadFarPtr,
	parser.OpLgs: execLoadFarPtr,
	parser.OpXchgRMReg8:  execXchgRMReg,
	parser.OpXchgRMReg16: execXchgRMReg,
	parser.OpXchgRMReg32: execXchgRMReg,
	parser.OpXchgAXReg:    execXchgAXReg,

	// Stack
	parser.OpPushReg: execPushReg,
	parser.OpPopReg:  execPopReg,
	parser.OpPushImm: execPushImm,
	parser.OpPushRM16: execPushRM,
	parser.OpPushRM32: execPushRM,
	parser.OpPopRM16:  execPopRM,
	parser.OpPopRM32:  execPopRM,
	parser.OpPushfd: execPushfd,
	parser.OpPopfd:  execPopfd,
	parser.OpPusha: execPusha,
	parser.OpPopa:  execPopa,
	parser.OpPushSeg: execPushSeg,
	parser.OpPopSeg:  execPopSeg,
	parser.OpEnter: execEnter,
	parser.OpLeave: execLeave,

	// ALU block
	parser.OpAluRMReg8:  func(inst *parser.CfgInstruction, h *Helper) error { return execAluBlock8(inst, h, false) },
	parser.OpAluRMReg16: func(inst *parser.CfgInstruction, h *Helper) error { return execAluBlock16or32(inst, h, false) },
	parser.OpAluRMReg32: func(inst *parser.CfgInstruction, h *Helper) error { return execAluBlock16or32(inst, h, false) },
	parser.OpAluRegRM8:  func(inst *parser.CfgInstruction, h *Helper) error { return execAluBlock8(inst, h, true) },
	parser.OpAluRegRM16: func(inst *parser.CfgInstruction, h *Helper) error { return execAluBlock16or32(inst, h, true) },
	parser.OpAluRegRM32: func(inst *parser.CfgInstruction, h *Helper) error { return execAluBlock16or32(inst, h, true) },
	parser.OpAluALImm8: execAluALImm8,
	parser.OpAluAXImm:  execAluAXImm,
	parser.OpAluRMImm8:     execAluRMImm,
	parser.OpAluRMImm16:    execAluRMImm,
	parser.OpAluRMImm32:    execAluRMImm,
	parser.OpAluRMImm8Sext: execAluRMImm,

	parser.OpIncReg: execIncReg,
	parser.OpDecReg: execDecReg,
	parser.OpIncRM8:  func(inst *parser.CfgInstruction, h *Helper) error { return execIncDecRM(inst, h, true) },
	parser.OpIncRM16: func(inst *parser.CfgInstruction, h *Helper) error { return execIncDecRM(inst, h, true) },
	parser.OpIncRM32: func(inst *parser.CfgInstruction, h *Helper) error { return execIncDecRM(inst, h, true) },
	parser.OpDecRM8:  func(inst *parser.CfgInstruction, h *Helper) error { return execIncDecRM(inst, h, false) },
	parser.OpDecRM16: func(inst *parser.CfgInstruction, h *Helper) error { return execIncDecRM(inst, h, false) },
	parser.OpDecRM32: func(inst *parser.CfgInstruction, h *Helper) error { return execIncDecRM(inst, h, false) },

	parser.OpNotRM8:  execNot,
	parser.OpNotRM16: execNot,
	parser.OpNotRM32: execNot,
	parser.OpNegRM8:  execNeg,
	parser.OpNegRM16: execNeg,
	parser.OpNegRM32: execNeg,
	parser.OpTestRMImm8:  execTest,
	parser.OpTestRMImm16: execTest,
	parser.OpTestRMImm32: execTest,
	parser.OpTestRMReg8:  execTestRMReg,
	parser.OpTestRMReg16: execTestRMReg,
	parser.OpTestRMReg32: execTestRMReg,
	parser.OpMulRM8:  execMul,
	parser.OpMulRM16: execMul,
	parser.OpMulRM32: execMul,
	parser.OpImulRM8:  execImul,
	parser.OpImulRM16: execImul,
	parser.OpImulRM32: execImul,
	parser.OpImulRegRMImm16: execImulRegRMImm,
	parser.OpImulRegRMImm32: execImulRegRMImm,
	parser.OpDivRM8:  execDiv,
	parser.OpDivRM16: execDiv,
	parser.OpDivRM32: execDiv,
	parser.OpIdivRM8:  execIdiv,
	parser.OpIdivRM16: execIdiv,
	parser.OpIdivRM32: execIdiv,

	// Grp2 shifts/rotates - one executor, dispatching internally on Opcode.
	parser.OpRolRM8:  execShift,
	parser.OpRolRM16: execShift,
	parser.OpRolRM32: execShift,
	parser.OpRorRM8:  execShift,
	parser.OpRorRM16: execShift,
	parser.OpRorRM32: execShift,
	parser.OpRclRM8:  execShift,
	parser.OpRclRM16: execShift,
	parser.OpRclRM32: execShift,
	parser.OpRcrRM8:  execShift,
	parser.OpRcrRM16: execShift,
	parser.OpRcrRM32: execShift,
	parser.OpShlRM8:  execShift,
	parser.OpShlRM16: execShift,
	parser.OpShlRM32: execShift,
	parser.OpShrRM8:  execShift,
	parser.OpShrRM16: execShift,
	parser.OpShrRM32: execShift,
	parser.OpSarRM8:  execShift,
	parser.OpSarRM16: execShift,
	parser.OpSarRM32: execShift,

	// Control transfer
	parser.OpJmpRel8:  execJmpRel,
	parser.OpJmpRel16: execJmpRel,
	parser.OpJmpRel32: execJmpRel,
	parser.OpJmpRM16: execJmpRM,
	parser.OpJmpRM32: execJmpRM,
	parser.OpJccRel8:      execJcc,
	parser.OpJccRel16or32: execJcc,
	parser.OpLoop:   execLoop,
	parser.OpLoope:  execLoop,
	parser.OpLoopne: execLoop,
	parser.OpJcxz: execJcxz,
	parser.OpCallRel16: execCallRel,
	parser.OpCallRel32: execCallRel,
	parser.OpCallRM16: execCallRM,
	parser.OpCallRM32: execCallRM,
	parser.OpRetNear:       execRetNear,
	parser.OpRetNearImm16: execRetNearImm16,
	parser.OpIntImm8: execIntImm8,
	parser.OpInt3:    execInt3,
	parser.OpInto:    execInto,
	parser.OpIret:    execIret,
	parser.OpCallFar: execCallFar,
	parser.OpJmpFar:  execJmpFar,
	parser.OpRetFar:       execRetFar,
	parser.OpRetFarImm16:  execRetFar,
	parser.OpCallRMFar16: execCallRMFar,
	parser.OpCallRMFar32: execCallRMFar,
	parser.OpJmpRMFar16:  execJmpRMFar,
	parser.OpJmpRMFar32:  execJmpRMFar,

	// String operations
	parser.OpMovs: execMovs,
	parser.OpCmps: execCmps,
	parser.OpStos: execStos,
	parser.OpLods: execLods,
	parser.OpScas: execScas,
	parser.OpIns:  execIns,
	parser.OpOuts: execOuts,

	// Flags/misc
	parser.OpClc: execClc,
	parser.OpStc: execStc,
	parser.OpCli: execCli,
	parser.OpSti: execSti,
	parser.OpCld: execCld,
	parser.OpStd: execStd,
	parser.OpCmc: execCmc,
	parser.OpLahf: execLahf,
	parser.OpSahf: execSahf,
	parser.OpNop: execNop,
	parser.OpHlt: execHlt,
	parser.OpCbw:  execCbwCwde,
	parser.OpCwde: execCbwCwde,
	parser.OpCwd: execCwdCdq,
	parser.OpCdq: execCwdCdq,
	parser.OpXlat: execXlat,
	parser.OpSalc: execSalc,

	parser.OpAaa: execAaa,
	parser.OpAas: execAas,
	parser.OpAam: execAam,
	parser.OpAad: execAad,
	parser.OpDaa: execDaa,
	parser.OpDas: execDas,

	parser.OpInAL:  execInAL,
	parser.OpInAX:  execInAX,
	parser.OpOutAL: execOutAL,
	parser.OpOutAX: execOutAX,

	// Two-byte extended forms
	parser.OpMovzxRMReg8:  execMovzx,
	parser.OpMovzxRMReg16: execMovzx,
	parser.OpMovsxRMReg8:  execMovsx,
	parser.OpMovsxRMReg16: execMovsx,
	parser.OpBswap: execBswap,
	parser.OpSetccRM8: execSetcc,
	parser.OpShld: execShld,
	parser.OpShrd: execShrd,

	// FPU stubs
	parser.OpFwait:    execFwait,
	parser.OpFninit:   execFninit,
	parser.OpFnstcw:   execFnstcw,
	parser.OpFnstsw:   execFnstsw,
	parser.OpFnstswAX: execFnstswAX,
}

// Execute runs inst's decoded opcode against h. Helper.NextNode is reset
// first so a straight-line instruction never inherits a stale target from
// whatever ran before it; the cfg package reads NextNode immediately after
// this returns.
//
// Per spec.md §7, CPU faults (InvalidOpcodeError, DivideError) never unwind
// past the instruction: they are converted here, on the spot, into an
// interrupt delivery (vector 6 or vector 0) and Execute returns nil. Only
// host-internal errors (UnhandledOperationError, CacheInvariantError)
// propagate to the caller.
func Execute(inst *parser.CfgInstruction, h *Helper) error {
	h.NextNode = nil
	fn, ok := dispatch[inst.Opcode]
	if !ok {
		var firstByte byte
		if len(inst.Fields) > 0 {
			firstByte = inst.Fields[0].Raw[0]
		}
		return faultToInterrupt(inst, h, &coreerr.InvalidOpcodeError{Opcode: firstByte, Reason: "no executor wired for this opcode"})
	}
	err := fn(inst, h)
	if err == nil {
		return nil
	}
	return faultToInterrupt(inst, h, err)
}

// faultToInterrupt converts a CPU fault into the matching interrupt
// delivery and swallows it; any other error (a host-internal invariant
// break) passes through unchanged.
func faultToInterrupt(inst *parser.CfgInstruction, h *Helper, err error) error {
	switch err.(type) {
	case *coreerr.InvalidOpcodeError:
		return deliverInterrupt(inst, h, 6)
	case *coreerr.DivideError:
		return deliverInterrupt(inst, h, 0)
	default:
		return err
	}
}
