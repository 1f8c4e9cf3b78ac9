// modrm.go - ModR/M and SIB decoding, effective address resolution
//
// Ported from cpu_x86.go's fetchModRM/getModRMReg/getModRMRM/getModRMMod,
// fetchSIB/getSIB*, calcEffectiveAddress16/32 (IntuitionEngine). The
// teacher decodes and resolves the effective address in one step while
// fetching instruction bytes live off EIP; here ModRmContext only records
// the *shape* (mod/reg/rm/sib/displacement) at parse time. The effective
// address itself is computed later, at execute time, by Resolve — a cached
// CfgInstruction may be re-executed after its base registers have changed,
// so baking a linear address in at parse time would be wrong.

package parser

import "github.com/retrodos/pccore/state"

// ModRmContext is the parsed shape of a ModR/M (+ optional SIB) byte
// sequence, independent of any live register values.
type ModRmContext struct {
	Mod, Reg, RM byte

	HasSIB        bool
	Scale, Index, Base byte

	DispSize int // 0, 1, 2 or 4
	Disp     int32

	// IsDirect is true when Mod==3: RM names a register, not memory.
	IsDirect bool

	AddrSize32 bool // which calc routine Resolve must use
}

// decodeModRM reads the ModR/M byte (and SIB + displacement, if present)
// from r, advancing it, and returns the decoded shape. addr32 selects
// 16-bit vs 32-bit addressing-form decoding (driven by the address-size
// prefix and default operating mode).
func decodeModRM(r *byteReader, addr32 bool) ModRmContext {
	b := r.u8()
	ctx := ModRmContext{
		Mod:        b >> 6,
		Reg:        (b >> 3) & 7,
		RM:         b & 7,
		AddrSize32: addr32,
	}
	if ctx.Mod == 3 {
		ctx.IsDirect = true
		return ctx
	}
	if !addr32 {
		decodeModRM16(r, &ctx)
		return ctx
	}
	decodeModRM32(r, &ctx)
	return ctx
}

func decodeModRM16(r *byteReader, ctx *ModRmContext) {
	if ctx.Mod == 0 && ctx.RM == 6 {
		ctx.DispSize = 2
		ctx.Disp = int32(int16(r.imm16()))
		return
	}
	switch ctx.Mod {
	case 1:
		ctx.DispSize = 1
		ctx.Disp = int32(int8(r.imm8()))
	case 2:
		ctx.DispSize = 2
		ctx.Disp = int32(int16(r.imm16()))
	}
}

func decodeModRM32(r *byteReader, ctx *ModRmContext) {
	if ctx.RM == 4 {
		sib := r.u8()
		ctx.HasSIB = true
		ctx.Scale = sib >> 6
		ctx.Index = (sib >> 3) & 7
		ctx.Base = sib & 7
		if ctx.Base == 5 && ctx.Mod == 0 {
			ctx.DispSize = 4
			ctx.Disp = int32(r.imm32())
			return
		}
	} else if ctx.RM == 5 && ctx.Mod == 0 {
		ctx.DispSize = 4
		ctx.Disp = int32(r.imm32())
		return
	}
	switch ctx.Mod {
	case 1:
		ctx.DispSize = 1
		ctx.Disp = int32(int8(r.imm8()))
	case 2:
		ctx.DispSize = 4
		ctx.Disp = int32(r.imm32())
	}
}

// Resolve computes the effective linear address for a memory-form
// ModRmContext against live register state, mirroring
// calcEffectiveAddress16/calcEffectiveAddress32. Segment bases are not
// added here: Resolve returns the offset only, and the caller
// (exec.Helper.effectiveLinear) adds the base of the default or
// overriding segment register.
func (m ModRmContext) Resolve(st *state.State) uint32 {
	if !m.AddrSize32 {
		return m.resolve16(st)
	}
	return m.resolve32(st)
}

func (m ModRmContext) resolve16(st *state.State) uint32 {
	var base uint16
	switch m.RM {
	case 0:
		base = st.BX() + st.SI()
	case 1:
		base = st.BX() + st.DI()
	case 2:
		base = st.BP() + st.SI()
	case 3:
		base = st.BP() + st.DI()
	case 4:
		base = st.SI()
	case 5:
		base = st.DI()
	case 6:
		if m.Mod == 0 {
			base = uint16(m.Disp)
			return uint32(base)
		}
		base = st.BP()
	case 7:
		base = st.BX()
	}
	if m.DispSize > 0 {
		base = uint16(int32(base) + m.Disp)
	}
	return uint32(base)
}

func (m ModRmContext) resolve32(st *state.State) uint32 {
	var addr uint32
	if m.HasSIB {
		if m.Base == 5 && m.Mod == 0 {
			addr = uint32(m.Disp)
		} else {
			addr = st.Reg32(m.Base)
		}
		if m.Index != 4 {
			addr += st.Reg32(m.Index) << m.Scale
		}
	} else if m.RM == 5 && m.Mod == 0 {
		return uint32(m.Disp)
	} else {
		addr = st.Reg32(m.RM)
	}
	if m.Mod != 0 {
		addr = uint32(int32(addr) + m.Disp)
	}
	return addr
}
