// alu.go - operand-size-specific arithmetic/logic flag computation
//
// Extracted from cpu_x86.go's setFlagsArith8/16/32, setFlagsLogic8/16/32 and
// parity() (IntuitionEngine), generalized from CPU_X86 methods into free
// functions of a standalone package that take the *state.State to update;
// exec's executors call them directly.

package alu

import "github.com/retrodos/pccore/state"

// Parity reports whether the low byte of v has even parity (true = even).
func Parity(v byte) bool {
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v&1 == 0
}

// Flags8 computes CF/ZF/SF/PF/OF/AF for an 8-bit arithmetic result and
// applies them to st. result is the untruncated sum/difference so CF can
// observe the carry/borrow out of bit 7.
func Flags8(st *state.State, result uint16, a, b byte, sub bool) {
	r := byte(result)
	st.SetFlag(state.FlagCF, result > 0xFF)
	st.SetFlag(state.FlagZF, r == 0)
	st.SetFlag(state.FlagSF, r&0x80 != 0)
	st.SetFlag(state.FlagPF, Parity(r))
	if sub {
		st.SetFlag(state.FlagOF, (a^b)&(a^r)&0x80 != 0)
		st.SetFlag(state.FlagAF, (a&0x0F) < (b&0x0F))
	} else {
		st.SetFlag(state.FlagOF, (^(a^b))&(a^r)&0x80 != 0)
		st.SetFlag(state.FlagAF, (a&0x0F)+(b&0x0F) > 0x0F)
	}
}

func Flags16(st *state.State, result uint32, a, b uint16, sub bool) {
	r := uint16(result)
	st.SetFlag(state.FlagCF, result > 0xFFFF)
	st.SetFlag(state.FlagZF, r == 0)
	st.SetFlag(state.FlagSF, r&0x8000 != 0)
	st.SetFlag(state.FlagPF, Parity(byte(r)))
	if sub {
		st.SetFlag(state.FlagOF, (a^b)&(a^r)&0x8000 != 0)
		st.SetFlag(state.FlagAF, (a&0x0F) < (b&0x0F))
	} else {
		st.SetFlag(state.FlagOF, (^(a^b))&(a^r)&0x8000 != 0)
		st.SetFlag(state.FlagAF, (a&0x0F)+(b&0x0F) > 0x0F)
	}
}

func Flags32(st *state.State, result uint64, a, b uint32, sub bool) {
	r := uint32(result)
	st.SetFlag(state.FlagCF, result > 0xFFFFFFFF)
	st.SetFlag(state.FlagZF, r == 0)
	st.SetFlag(state.FlagSF, r&0x80000000 != 0)
	st.SetFlag(state.FlagPF, Parity(byte(r)))
	if sub {
		st.SetFlag(state.FlagOF, (a^b)&(a^r)&0x80000000 != 0)
		st.SetFlag(state.FlagAF, (a&0x0F) < (b&0x0F))
	} else {
		st.SetFlag(state.FlagOF, (^(a^b))&(a^r)&0x80000000 != 0)
		st.SetFlag(state.FlagAF, (a&0x0F)+(b&0x0F) > 0x0F)
	}
}

// LogicFlags{8,16,32} set CF=OF=false and ZF/SF/PF from the result; AF is
// left untouched (architecturally undefined after AND/OR/XOR/TEST/NOT).
func LogicFlags8(st *state.State, result byte) {
	st.SetFlag(state.FlagCF, false)
	st.SetFlag(state.FlagOF, false)
	st.SetFlag(state.FlagZF, result == 0)
	st.SetFlag(state.FlagSF, result&0x80 != 0)
	st.SetFlag(state.FlagPF, Parity(result))
}

func LogicFlags16(st *state.State, result uint16) {
	st.SetFlag(state.FlagCF, false)
	st.SetFlag(state.FlagOF, false)
	st.SetFlag(state.FlagZF, result == 0)
	st.SetFlag(state.FlagSF, result&0x8000 != 0)
	st.SetFlag(state.FlagPF, Parity(byte(result)))
}

func LogicFlags32(st *state.State, result uint32) {
	st.SetFlag(state.FlagCF, false)
	st.SetFlag(state.FlagOF, false)
	st.SetFlag(state.FlagZF, result == 0)
	st.SetFlag(state.FlagSF, result&0x80000000 != 0)
	st.SetFlag(state.FlagPF, Parity(byte(result)))
}
