// dispatch.go - INT n / IRET software interrupt transfer
//
// Ported verbatim in spirit from cpu_x86.go's handleInterrupt: push FLAGS,
// then CS, then IP (all 16-bit, real-mode convention), clear IF and TF so
// the handler isn't itself interrupted or single-stepped, then load the
// new CS:IP out of the vector table. IRET is the exact reverse sequence.
package interrupt

import (
	"github.com/retrodos/pccore/mem"
	"github.com/retrodos/pccore/state"
)

// Dispatch pushes the return context and transfers control to vector n,
// per the real-mode IVT convention. It never touches guest general
// registers.
func Dispatch(s *state.State, bus mem.Bus, vectors *VectorTable, n byte) {
	push16(s, bus, uint16(s.Flags&0xFFFF))
	push16(s, bus, s.CS)
	push16(s, bus, s.IP())

	s.SetFlag(state.FlagIF, false)
	s.SetFlag(state.FlagTF, false)

	ip, cs := vectors.Get(n)
	s.SetIP(ip)
	s.CS = cs
}

// Return reverses Dispatch: pop IP, CS, then FLAGS, restoring the
// pre-interrupt context for IRET.
func Return(s *state.State, bus mem.Bus) {
	ip := pop16(s, bus)
	cs := pop16(s, bus)
	flags := pop16(s, bus)

	s.SetIP(ip)
	s.CS = cs
	s.Flags = (s.Flags &^ 0xFFFF) | uint32(flags)
}

func push16(s *state.State, bus mem.Bus, v uint16) {
	s.SetSP(s.SP() - 2)
	addr := (uint32(s.SS) << 4) + uint32(s.SP())
	mem.Write16(bus, addr, v)
}

func pop16(s *state.State, bus mem.Bus) uint16 {
	addr := (uint32(s.SS) << 4) + uint32(s.SP())
	v := mem.Read16(bus, addr)
	s.SetSP(s.SP() + 2)
	return v
}
