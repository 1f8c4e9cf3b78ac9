// setcc.go - SETcc (0x0F 0x90-0x9F)
package exec

import "github.com/retrodos/pccore/parser"

func execSetcc(inst *parser.CfgInstruction, h *Helper) error {
	var v byte
	if evalCondition(inst.Operands.RegField, h.State) {
		v = 1
	}
	h.writeRM8(inst, v)
	return nil
}
