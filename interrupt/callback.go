// callback.go - a minimal INT 20h/21h/25h/26h/2Ah/2Fh + INT 15h collaborator
//
// This is a reference collaborator for exercising interrupt.Dispatch end
// to end (spec.md §8's test programs), not a DOS or BIOS emulation: no
// file, drive, or handle table exists, per the filesystem non-goal. It
// implements only the handful of functions needed to terminate a program
// and print its output, grounded on cpu_x86.go's handleInterrupt call site
// and the teacher's terminal_host.go for the io.Writer-backed console.
package interrupt

import (
	"io"

	"github.com/retrodos/pccore/mem"
	"github.com/retrodos/pccore/state"
)

// CallbackHandler services the software interrupts a running guest
// program issues that fall outside plain CPU semantics (console output,
// termination, version queries). exec's interrupt delivery consults it
// before calling Dispatch, so a handler that services the request entirely
// in Go (e.g. AH=4Ch) can suppress the vector transfer: when it reports
// the call handled, no return context is pushed and no jump into the
// guest's vector is made.
type CallbackHandler interface {
	// Handle services vector n. It returns true if it fully handled the
	// call and the jump into the vector table should be suppressed
	// (DOS/BIOS convention: these are "terminate-and-stay-resident"-free
	// synchronous calls, not real hardware traps).
	Handle(n byte, s *state.State, bus mem.Bus) (handled bool)
}

// DOSHandler implements INT 20h/21h/25h/26h/2Ah/2Fh and a short INT 15h
// subset against an injected io.Writer, per SPEC_FULL.md §4.6.
type DOSHandler struct {
	Out io.Writer

	// Terminated is set once AH=4Ch or INT 20h has run, so a host loop
	// can stop stepping without inspecting Halted (which HLT also sets).
	Terminated bool
	ExitCode   byte
}

func NewDOSHandler(out io.Writer) *DOSHandler {
	return &DOSHandler{Out: out}
}

func (d *DOSHandler) Handle(n byte, s *state.State, bus mem.Bus) bool {
	switch n {
	case 0x20:
		d.Terminated = true
		s.IsRunning = false
		return true
	case 0x21:
		return d.handle21(s, bus)
	case 0x25, 0x26:
		// Absolute disk read/write: no drive table exists: treat as a
		// no-op success (CF already clear from the caller's point of
		// view since we never touch FLAGS here).
		return true
	case 0x2A:
		// AH irrelevant: no date is reported; CX/DX are left at whatever
		// the guest set them to, since no wall clock is wired to the core.
		return true
	case 0x2F:
		// Multiplex interrupt: "no TSR installed" convention is AL
		// unchanged; nothing to do.
		return true
	case 0x15:
		return d.handle15(s)
	}
	return false
}

func (d *DOSHandler) handle21(s *state.State, bus mem.Bus) bool {
	switch s.AH() {
	case 0x4C:
		d.Terminated = true
		d.ExitCode = s.AL()
		s.IsRunning = false
		return true
	case 0x02:
		d.Out.Write([]byte{byte(s.DX())})
		return true
	case 0x09:
		d.writeDollarString(s, bus)
		return true
	case 0x30:
		s.SetAL(5)
		s.SetAH(0)
		return true
	}
	return false
}

// handle15 services the INT 15h subset referenced by SPEC_FULL.md §4.6:
// AH=88h (extended memory size query). No extended memory exists in this
// core's address space, so it always reports zero.
func (d *DOSHandler) handle15(s *state.State) bool {
	switch s.AH() {
	case 0x88:
		s.SetAX(0)
		return true
	}
	return false
}

func (d *DOSHandler) writeDollarString(s *state.State, bus mem.Bus) {
	addr := (uint32(s.DS) << 4) + uint32(s.DX())
	for {
		c := bus.SneakyRead8(addr)
		if c == '$' {
			return
		}
		d.Out.Write([]byte{c})
		addr++
	}
}
