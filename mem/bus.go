// bus.go - memory and I/O bus interfaces consumed by the core
//
// Generalized from the X86Bus interface in cpu_x86.go (IntuitionEngine),
// split into a byte-addressed memory bus and a port I/O bus, with the
// breakpoint-bypassing "sneaky" read spec.md §6 requires for condition
// evaluation.

package mem

// Bus is the byte-addressed memory bus the core reads instruction bytes,
// operands, and stack data from. Implementations are expected to call
// their own write/read breakpoint monitors on Read8/Write8 — the core
// never calls a breakpoints.Manager directly, it relies on the bus to do
// so (spec.md §6).
type Bus interface {
	Read8(addr uint32) byte
	Write8(addr uint32, v byte)

	// SneakyRead8 reads a byte without notifying any read-breakpoint
	// holder. Used exclusively by breakpoint condition predicates so that
	// evaluating `[$1000] == 0` cannot itself retrigger a memory
	// breakpoint (spec.md §4.5, §8).
	SneakyRead8(addr uint32) byte

	// Slice returns a read-only view of [addr, addr+length) without
	// triggering breakpoints, for parsing instruction bytes ahead of IP.
	Slice(addr uint32, length int) []byte
}

// IOBus is the port I/O space accessed by IN/OUT and the string I/O
// instructions (INS/OUTS).
type IOBus interface {
	In8(port uint16) byte
	Out8(port uint16, v byte)
}

// Read16/Write16/Read32/Write32 are little-endian convenience wrappers used
// throughout the parser and execution helper. They are free functions
// rather than Bus methods so that any Bus implementation gets them without
// extra boilerplate, mirroring cpu_x86.go's read16/read32/write16/write32.

func Read16(b Bus, addr uint32) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

func Read32(b Bus, addr uint32) uint32 {
	b0 := b.Read8(addr)
	b1 := b.Read8(addr + 1)
	b2 := b.Read8(addr + 2)
	b3 := b.Read8(addr + 3)
	return uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16 | uint32(b3)<<24
}

func Write16(b Bus, addr uint32, v uint16) {
	b.Write8(addr, byte(v))
	b.Write8(addr+1, byte(v>>8))
}

func Write32(b Bus, addr uint32, v uint32) {
	b.Write8(addr, byte(v))
	b.Write8(addr+1, byte(v>>8))
	b.Write8(addr+2, byte(v>>16))
	b.Write8(addr+3, byte(v>>24))
}

func SneakyRead16(b Bus, addr uint32) uint16 {
	lo := b.SneakyRead8(addr)
	hi := b.SneakyRead8(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

func SneakyRead32(b Bus, addr uint32) uint32 {
	b0 := b.SneakyRead8(addr)
	b1 := b.SneakyRead8(addr + 1)
	b2 := b.SneakyRead8(addr + 2)
	b3 := b.SneakyRead8(addr + 3)
	return uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16 | uint32(b3)<<24
}
