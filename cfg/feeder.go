// feeder.go - InstructionsFeeder: fetch/cache/SMC-detection
//
// Implements spec.md §4.2's fetch(segmented_address) -> CfgInstruction
// contract. Grounded on the cache/invalidate shape of debug_cpu_x86.go's
// breakpoints/watchpoints maps (address-keyed, mutated live as the guest
// program runs), generalized from "map of breakpoints" to "map of cached
// instructions with write-range invalidation."
//
// Open Question resolution (recorded in DESIGN.md): the spec prose
// describes a three-step algorithm whose middle two steps could be read
// as either "reuse an existing previous candidate, mutating its immediate
// value in place" or "only reuse on an exact full-byte match, otherwise
// always parse a genuinely new Node." spec.md §8 scenario 3 pins down
// the second reading — a Node resurrected by restoring original bytes
// must be pointer-identical to the Node first parsed there, and the
// intervening SMC write must have produced a *distinct* object — so this
// feeder only ever reuses a previous candidate on an exact raw-byte match
// (rawBytesMatch); any byte difference, final or not, yields a fresh Node.
package cfg

import (
	"github.com/retrodos/pccore/mem"
	"github.com/retrodos/pccore/parser"
	"github.com/retrodos/pccore/state"
)

// InstructionsFeeder owns the current/previous instruction caches for one
// code address space and produces CFG nodes on demand.
type InstructionsFeeder struct {
	Bus      mem.Bus
	Addr32   bool
	OpSize32 bool

	current  map[uint32]*Node
	previous map[uint32][]*Node
}

func NewInstructionsFeeder(bus mem.Bus, addr32, opsize32 bool) *InstructionsFeeder {
	return &InstructionsFeeder{
		Bus:      bus,
		Addr32:   addr32,
		OpSize32: opsize32,
		current:  make(map[uint32]*Node),
		previous: make(map[uint32][]*Node),
	}
}

// Fetch returns the Node currently believed to represent the code at addr,
// parsing or resurrecting it from history as needed.
func (f *InstructionsFeeder) Fetch(addr state.SegmentedAddress) (*Node, error) {
	linear := addr.Linear()
	if n, ok := f.current[linear]; ok {
		return n, nil
	}
	if n := f.reuseFromHistory(linear); n != nil {
		f.current[linear] = n
		return n, nil
	}
	inst, err := parser.Parse(f.Bus, addr, f.Addr32, f.OpSize32)
	if err != nil {
		return nil, err
	}
	n := newNode(inst)
	f.current[linear] = n
	f.previous[linear] = append(f.previous[linear], n)
	return n, nil
}

// reuseFromHistory promotes a previously-seen candidate back to current
// when its full recorded byte image still matches memory exactly.
func (f *InstructionsFeeder) reuseFromHistory(linear uint32) *Node {
	for _, cand := range f.previous[linear] {
		if rawBytesMatch(f.Bus, cand.Instruction) {
			return cand
		}
	}
	return nil
}

// Invalidate implements the SMC eviction rule of spec.md §4.2/§5: a write
// to addr evicts every currently-cached instruction whose byte range
// overlaps it, leaving each one in its previous set for possible
// resurrection. Callers wire this to the memory bus's write hook, ahead
// of the write itself completing (spec.md §5's ordering: breakpoint
// holder, then eviction, then write).
func (f *InstructionsFeeder) Invalidate(addr uint32) {
	for linear, n := range f.current {
		inst := n.Instruction
		if addr >= inst.Linear && addr < inst.Linear+uint32(inst.Length) {
			delete(f.current, linear)
		}
	}
}

// RecordSuccessor registers the CFG edge from "from" to "to" under kind,
// wrapping "to" in a DiscriminatedNode when the target address's history
// contains a shape-incompatible candidate — true self-modifying code, as
// opposed to the same shape re-parsed with a different constant.
func (f *InstructionsFeeder) RecordSuccessor(from *Node, kind SuccessorType, to *Node) Successor {
	var succ Successor = to
	hist := f.previous[to.Address()]
	if len(hist) > 1 {
		var incompatible []*Node
		for _, cand := range hist {
			if cand != to && !sameShape(cand.Instruction, to.Instruction) {
				incompatible = append(incompatible, cand)
			}
		}
		if len(incompatible) > 0 {
			succ = newDiscriminatedNode(to.Address(), append(incompatible, to)...)
		}
	}
	from.setSuccessor(kind, to.Address(), succ)
	return succ
}
