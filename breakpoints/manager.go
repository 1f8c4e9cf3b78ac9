// manager.go - BreakpointsManager: the eleven-holder breakpoint registry
//
// Ported from the teacher's DebugX86 breakpoint-map-plus-callback shape
// (debug_cpu_x86.go), generalized into the uniform eleven-Kind holder set
// spec.md §4.5 names, with the bus-driven monitor_read/write/access entry
// points a mem.Bus implementation calls on every access.
package breakpoints

import (
	"github.com/retrodos/pccore/mem"
	"github.com/retrodos/pccore/state"
)

// Callback is invoked when a breakpoint triggers; addr is the address (or,
// for cycle/interrupt/machine breakpoints, the relevant numeric key) that
// matched.
type Callback func(bp BreakPoint, addr uint32)

// Manager owns one Holder per Kind and evaluates conditions with the
// read-breakpoint bypass spec.md §4.5 requires.
type Manager struct {
	holders  [numKinds]*Holder
	State    *state.State
	Bus      mem.Bus
	OnHit    Callback
	cycleTgt map[uint64]BreakPoint
}

func NewManager(s *state.State, bus mem.Bus) *Manager {
	m := &Manager{State: s, Bus: bus}
	for i := range m.holders {
		m.holders[i] = newHolder()
	}
	return m
}

// Toggle adds (on=true) or removes (on=false) bp from the holder matching
// kind. MemoryAccess additionally routes to both the read and write
// holders, per spec.md §4.5.
func (m *Manager) Toggle(kind Kind, bp BreakPoint, on bool) {
	if kind == MemoryAccess {
		m.toggleOne(MemoryRead, bp, on)
		m.toggleOne(MemoryWrite, bp, on)
		return
	}
	if kind == IOAccess {
		m.toggleOne(IORead, bp, on)
		m.toggleOne(IOWrite, bp, on)
		return
	}
	m.toggleOne(kind, bp, on)
}

func (m *Manager) toggleOne(kind Kind, bp BreakPoint, on bool) {
	h := m.holders[kind]
	if on {
		h.add(bp)
	} else {
		h.remove(bp)
	}
}

// CheckExecution tests the current IP against the execution holder and the
// cycle counter against the cycle holder. Per spec.md §4.5, if a triggered
// callback moved IP, the test reruns against the new location — callers
// that mutate IP inside OnHit get that behavior for free since this loops
// until a pass finds nothing new.
func (m *Manager) CheckExecution() {
	h := m.holders[Execution]
	if h.HasAny() {
		for {
			addr := (uint32(m.State.CS) << 4) + uint32(m.State.IP())
			before := addr
			if !m.fireMatching(h, addr) {
				break
			}
			after := (uint32(m.State.CS) << 4) + uint32(m.State.IP())
			if after == before {
				break
			}
		}
	}
	ch := m.holders[Cycle]
	if ch.HasAny() {
		m.fireMatching(ch, uint32(m.State.Cycles))
	}
}

// MonitorRead/MonitorWrite/MonitorAccess are called by the memory bus on
// every normal (non-sneaky) byte access.
func (m *Manager) MonitorRead(addr uint32) { m.fireMatching(m.holders[MemoryRead], addr) }
func (m *Manager) MonitorWrite(addr uint32) { m.fireMatching(m.holders[MemoryWrite], addr) }
func (m *Manager) MonitorIORead(port uint16) { m.fireMatching(m.holders[IORead], uint32(port)) }
func (m *Manager) MonitorIOWrite(port uint16) { m.fireMatching(m.holders[IOWrite], uint32(port)) }
func (m *Manager) MonitorInterrupt(n byte) { m.fireMatching(m.holders[Interrupt], uint32(n)) }
func (m *Manager) MonitorMachineStart() { m.fireMatching(m.holders[MachineStart], 0) }
func (m *Manager) MonitorMachineStop()  { m.fireMatching(m.holders[MachineStop], 0) }

// fireMatching evaluates every candidate in h against addr, firing OnHit
// (and dropping remove-on-trigger breakpoints) for each matching one whose
// condition predicate also passes. Returns whether anything fired.
func (m *Manager) fireMatching(h *Holder, addr uint32) bool {
	fired := false
	for _, bp := range h.Matching(addr) {
		hits := bp.BumpHit()
		env := Env{State: m.State, Bus: m.Bus, HitCount: hits}
		if !bp.ConditionOf().Eval(addr, env) {
			continue
		}
		if m.OnHit != nil {
			m.OnHit(bp, addr)
		}
		if bp.RemoveOnTrigger() {
			h.remove(bp)
		}
		fired = true
	}
	return fired
}
