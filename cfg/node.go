// node.go - CFG nodes and successor edges
//
// Generalizes the map-of-live-objects shape of debug_cpu_x86.go's
// breakpoints/watchpoints maps (address-keyed, mutated as the guest
// program runs) from "map of breakpoints" to "map of CFG nodes", per
// spec.md §3's successor graph and §4.2's DiscriminatedNode.
package cfg

import (
	"github.com/retrodos/pccore/mem"
	"github.com/retrodos/pccore/parser"
)

// SuccessorType categorizes why one instruction's execution leads to
// another. A CALL and its matching RET are linked via CallToRet even
// though the static fall-through address differs from the dynamic return
// target.
type SuccessorType int

const (
	Normal SuccessorType = iota
	CallToRet
	Jump
	InterruptCall
	InterruptRet
)

// Successor is whatever a CFG edge points at. Most edges resolve to a
// single Node; an edge into an address with ambiguous SMC history
// resolves through a DiscriminatedNode instead.
type Successor interface {
	// Resolve picks the concrete Node matching bus's current content, or
	// nil if none of the known candidates do (the address has moved on to
	// a variant nobody has parsed yet).
	Resolve(bus mem.Bus) *Node
}

// Node is a single CFG node: a cached parsed instruction plus its
// successor edges, indexed both by type (successors_per_type) and by
// target linear address for O(1) hot-path lookup (successors_per_address).
type Node struct {
	Instruction *parser.CfgInstruction

	byType map[SuccessorType]map[uint32]Successor
	byAddr map[uint32]Successor
}

func newNode(inst *parser.CfgInstruction) *Node {
	return &Node{
		Instruction: inst,
		byType:      make(map[SuccessorType]map[uint32]Successor),
		byAddr:      make(map[uint32]Successor),
	}
}

// Resolve satisfies Successor: a plain Node always resolves to itself.
func (n *Node) Resolve(mem.Bus) *Node { return n }

// Address is this node's linear code address.
func (n *Node) Address() uint32 { return n.Instruction.Linear }

// SuccessorAt is the successors_per_address hot-path lookup.
func (n *Node) SuccessorAt(target uint32) (Successor, bool) {
	s, ok := n.byAddr[target]
	return s, ok
}

// SuccessorsOfType returns every recorded successor of the given kind.
func (n *Node) SuccessorsOfType(kind SuccessorType) []Successor {
	set := n.byType[kind]
	out := make([]Successor, 0, len(set))
	for _, s := range set {
		out = append(out, s)
	}
	return out
}

func (n *Node) setSuccessor(kind SuccessorType, target uint32, succ Successor) {
	set, ok := n.byType[kind]
	if !ok {
		set = make(map[uint32]Successor)
		n.byType[kind] = set
	}
	set[target] = succ
	n.byAddr[target] = succ
}

// DiscriminatedNode stands in for a CFG edge target once the feeder has
// observed more than one shape-incompatible parse at the same linear
// address — true self-modifying code, as opposed to the same instruction
// merely re-parsed with a different immediate. It owns every candidate
// Node seen there and picks the one whose original byte signature still
// matches live memory.
type DiscriminatedNode struct {
	addr       uint32
	candidates []*Node
}

func newDiscriminatedNode(addr uint32, candidates ...*Node) *DiscriminatedNode {
	return &DiscriminatedNode{addr: addr, candidates: append([]*Node(nil), candidates...)}
}

func (d *DiscriminatedNode) Resolve(bus mem.Bus) *Node {
	for _, c := range d.candidates {
		if rawBytesMatch(bus, c.Instruction) {
			return c
		}
	}
	return nil
}

// Candidates exposes the known variants, for debugger inspection/tests.
func (d *DiscriminatedNode) Candidates() []*Node {
	return append([]*Node(nil), d.candidates...)
}

// rawBytesMatch tests whether every field inst recorded at parse time —
// final and non-final alike — still reads back identically from bus. Used
// both to resurrect an exact historical instance (feeder.go) and to pick
// the live candidate out of a DiscriminatedNode.
func rawBytesMatch(bus mem.Bus, inst *parser.CfgInstruction) bool {
	cur := bus.Slice(inst.Linear, inst.Length)
	for _, f := range inst.Fields {
		off := int(f.Address - inst.Linear)
		if off < 0 || off+f.Length > len(cur) {
			return false
		}
		for i := 0; i < f.Length; i++ {
			if cur[off+i] != f.Raw[i] {
				return false
			}
		}
	}
	return true
}

// sameShape reports whether a and b share the same immutable encoding —
// opcode, ModRM, SIB bytes (every field marked IsFinal) — even if their
// non-final fields (immediate, displacement) differ. Two same-shape
// parses are ordinary SMC (a constant changed); two different-shape
// parses at one address are what makes a DiscriminatedNode necessary.
func sameShape(a, b *parser.CfgInstruction) bool {
	af := finalBytes(a)
	bf := finalBytes(b)
	if len(af) != len(bf) {
		return false
	}
	for i := range af {
		if af[i] != bf[i] {
			return false
		}
	}
	return true
}

func finalBytes(inst *parser.CfgInstruction) []byte {
	var out []byte
	for _, f := range inst.Fields {
		if f.IsFinal {
			out = append(out, f.Raw...)
		}
	}
	return out
}
