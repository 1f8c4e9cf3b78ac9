// fpu.go - coprocessor-escape stubs
//
// No FPU core is modeled (spec.md's domain is the integer CFG engine), but
// FWAIT/FNINIT/FNSTCW/FNSTSW are common enough in real-mode startup code
// that treating them as faults would break otherwise-integer programs.
// Each is a documented no-op here: FNINIT/FWAIT do nothing observable,
// FNSTCW/FNSTSW report a fixed control/status word as if a 387 had just
// been reset and found idle.

package exec

import "github.com/retrodos/pccore/parser"

const (
	stubControlWord = 0x037F
	stubStatusWord  = 0x00FF
)

func execFwait(inst *parser.CfgInstruction, h *Helper) error  { return nil }
func execFninit(inst *parser.CfgInstruction, h *Helper) error { return nil }

func execFnstcw(inst *parser.CfgInstruction, h *Helper) error {
	h.writeRM16(inst, stubControlWord)
	return nil
}

func execFnstsw(inst *parser.CfgInstruction, h *Helper) error {
	h.writeRM16(inst, stubStatusWord)
	return nil
}

func execFnstswAX(inst *parser.CfgInstruction, h *Helper) error {
	h.State.SetAX(stubStatusWord)
	return nil
}
