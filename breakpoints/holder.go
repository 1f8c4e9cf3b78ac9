// holder.go - BreakPointHolder: one kind's address-keyed breakpoint set
//
// Ported from the teacher's debug_cpu_x86.go breakpoint map, generalized
// per spec.md §4.5 with an explicit "has-any-enabled" fast path so
// Manager.monitor_read/write/access costs nothing on the overwhelmingly
// common case of zero breakpoints.
package breakpoints

// Holder stores every breakpoint of one Kind: those keyed by a single
// address or falling in a range are checked against the triggering
// address; unconditional ones always match.
type Holder struct {
	byAddress     map[uint32][]BreakPoint
	ranges        []*AddressRangeBreakPoint
	unconditional []*UnconditionalBreakPoint
	anyEnabled    bool
}

func newHolder() *Holder {
	return &Holder{byAddress: make(map[uint32][]BreakPoint)}
}

func (h *Holder) add(bp BreakPoint) {
	switch v := bp.(type) {
	case *AddressBreakPoint:
		h.byAddress[v.Address] = append(h.byAddress[v.Address], v)
	case *AddressRangeBreakPoint:
		h.ranges = append(h.ranges, v)
	case *UnconditionalBreakPoint:
		h.unconditional = append(h.unconditional, v)
	}
	h.recomputeEnabled()
}

func (h *Holder) remove(bp BreakPoint) {
	switch v := bp.(type) {
	case *AddressBreakPoint:
		h.byAddress[v.Address] = removeBP(h.byAddress[v.Address], bp)
		if len(h.byAddress[v.Address]) == 0 {
			delete(h.byAddress, v.Address)
		}
	case *AddressRangeBreakPoint:
		for i, r := range h.ranges {
			if r == v {
				h.ranges = append(h.ranges[:i], h.ranges[i+1:]...)
				break
			}
		}
	case *UnconditionalBreakPoint:
		for i, u := range h.unconditional {
			if u == v {
				h.unconditional = append(h.unconditional[:i], h.unconditional[i+1:]...)
				break
			}
		}
	}
	h.recomputeEnabled()
}

func removeBP(list []BreakPoint, target BreakPoint) []BreakPoint {
	for i, b := range list {
		if b == target {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func (h *Holder) recomputeEnabled() {
	for _, list := range h.byAddress {
		for _, bp := range list {
			if bp.Enabled() {
				h.anyEnabled = true
				return
			}
		}
	}
	for _, r := range h.ranges {
		if r.Enabled() {
			h.anyEnabled = true
			return
		}
	}
	for _, u := range h.unconditional {
		if u.Enabled() {
			h.anyEnabled = true
			return
		}
	}
	h.anyEnabled = false
}

// Matching returns every enabled breakpoint in this holder that matches
// addr, in the order: address-keyed, then range, then unconditional.
func (h *Holder) Matching(addr uint32) []BreakPoint {
	if !h.anyEnabled {
		return nil
	}
	var out []BreakPoint
	for _, bp := range h.byAddress[addr] {
		if bp.Enabled() {
			out = append(out, bp)
		}
	}
	for _, r := range h.ranges {
		if r.Enabled() && r.Match(addr) {
			out = append(out, r)
		}
	}
	for _, u := range h.unconditional {
		if u.Enabled() {
			out = append(out, u)
		}
	}
	return out
}

func (h *Holder) HasAny() bool { return h.anyEnabled }
