// types.go - breakpoint taxonomy and serialization records
//
// Ported from the teacher's debug_interface.go BreakpointType/Breakpoint
// shape, generalized per spec.md §3 into the three variants named there:
// AddressBreakPoint, UnconditionalBreakPoint, AddressRangeBreakPoint.

package breakpoints

// Kind names the eleven breakpoint holders BreakpointsManager maintains
// (spec.md §4.5's toggle operation).
type Kind int

const (
	Execution Kind = iota
	Cycle
	Interrupt
	MemoryRead
	MemoryWrite
	MemoryAccess
	IORead
	IOWrite
	IOAccess
	MachineStart
	MachineStop
	numKinds
)

// BreakPoint is satisfied by all three spec.md §3 variants.
type BreakPoint interface {
	// Match reports whether this breakpoint fires for trigger address
	// addr (ignored by UnconditionalBreakPoint). It does not evaluate any
	// attached condition predicate — the Manager does that separately so
	// it can apply the read-breakpoint bypass spec.md §4.5 requires.
	Match(addr uint32) bool
	Enabled() bool
	RemoveOnTrigger() bool
	UserVisible() bool
	ConditionOf() *Condition
	BumpHit() uint64
}

// base holds the fields every variant shares.
type base struct {
	enabled         bool
	removeOnTrigger bool
	userVisible     bool
	Condition       *Condition // nil means unconditional
	Source          string     // original condition text, for serialization
	hitCount        uint64
}

func (b *base) Enabled() bool         { return b.enabled }
func (b *base) RemoveOnTrigger() bool { return b.removeOnTrigger }
func (b *base) UserVisible() bool     { return b.userVisible }
func (b *base) SetEnabled(v bool)     { b.enabled = v }
func (b *base) HitCount() uint64      { return b.hitCount }
func (b *base) ConditionOf() *Condition { return b.Condition }
func (b *base) BumpHit() uint64 {
	b.hitCount++
	return b.hitCount
}

// AddressBreakPoint matches a single address, optionally guarded by a
// compiled condition predicate.
type AddressBreakPoint struct {
	base
	Address uint32
}

func NewAddressBreakPoint(addr uint32, userVisible bool) *AddressBreakPoint {
	return &AddressBreakPoint{base: base{enabled: true, userVisible: userVisible}, Address: addr}
}

func (a *AddressBreakPoint) Match(addr uint32) bool { return addr == a.Address }

// UnconditionalBreakPoint matches any address of its holder's kind — used
// for e.g. "break on any interrupt" or machine-start/stop sentinels.
type UnconditionalBreakPoint struct {
	base
}

func NewUnconditionalBreakPoint() *UnconditionalBreakPoint {
	return &UnconditionalBreakPoint{base: base{enabled: true, userVisible: true}}
}

func (u *UnconditionalBreakPoint) Match(addr uint32) bool { return true }

// AddressRangeBreakPoint matches an inclusive [Start, End] span, typically
// used for memory region watchpoints.
type AddressRangeBreakPoint struct {
	base
	Start, End uint32
}

func NewAddressRangeBreakPoint(start, end uint32, userVisible bool) *AddressRangeBreakPoint {
	return &AddressRangeBreakPoint{base: base{enabled: true, userVisible: userVisible}, Start: start, End: end}
}

func (r *AddressRangeBreakPoint) Match(addr uint32) bool { return addr >= r.Start && addr <= r.End }

// Record is the external round-trip shape for a user-visible breakpoint,
// per spec.md §6: type, address (or inclusive range), condition source
// text, and enabled flag.
type Record struct {
	Kind      Kind
	Address   uint32
	EndAddr   uint32 // == Address for a single-address record
	Condition string
	Enabled   bool
}
