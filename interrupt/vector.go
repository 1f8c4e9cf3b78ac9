// vector.go - the real-mode interrupt vector table
//
// Ported from cpu_x86.go's handleInterrupt: vector n lives at physical
// address n*4 as a (IP, CS) pair, per spec.md §4.6. VectorTable is a thin
// view over the first 1KB of memory rather than a copy, so guest code
// that pokes its own vectors (common in DOS-era real-mode programs) is
// observed immediately.

package interrupt

import "github.com/retrodos/pccore/mem"

const VectorTableSize = 256 * 4

type VectorTable struct {
	bus mem.Bus
}

func NewVectorTable(bus mem.Bus) *VectorTable {
	return &VectorTable{bus: bus}
}

func (v *VectorTable) Get(n byte) (ip, cs uint16) {
	addr := uint32(n) * 4
	return mem.Read16(v.bus, addr), mem.Read16(v.bus, addr+2)
}

func (v *VectorTable) Set(n byte, ip, cs uint16) {
	addr := uint32(n) * 4
	mem.Write16(v.bus, addr, ip)
	mem.Write16(v.bus, addr+2, cs)
}
