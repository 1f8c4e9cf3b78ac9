// condition.go - Jcc/SETcc condition code evaluation
//
// Ported from the conditional-jump handlers in cpu_x86_ops.go, generalized
// into one table keyed by the 4-bit condition code shared by Jcc (0x70-0x7F,
// 0x0F 0x80-0x8F) and SETcc (0x0F 0x90-0x9F).

package exec

import "github.com/retrodos/pccore/state"

func evalCondition(cc byte, s *state.State) bool {
	switch cc & 0x0F {
	case 0x0: // JO
		return s.OF()
	case 0x1: // JNO
		return !s.OF()
	case 0x2: // JB/JC/JNAE
		return s.CF()
	case 0x3: // JAE/JNB/JNC
		return !s.CF()
	case 0x4: // JE/JZ
		return s.ZF()
	case 0x5: // JNE/JNZ
		return !s.ZF()
	case 0x6: // JBE/JNA
		return s.CF() || s.ZF()
	case 0x7: // JA/JNBE
		return !s.CF() && !s.ZF()
	case 0x8: // JS
		return s.SF()
	case 0x9: // JNS
		return !s.SF()
	case 0xA: // JP/JPE
		return s.PF()
	case 0xB: // JNP/JPO
		return !s.PF()
	case 0xC: // JL/JNGE
		return s.SF() != s.OF()
	case 0xD: // JGE/JNL
		return s.SF() == s.OF()
	case 0xE: // JLE/JNG
		return s.ZF() || s.SF() != s.OF()
	case 0xF: // JG/JNLE
		return !s.ZF() && s.SF() == s.OF()
	}
	return false
}
