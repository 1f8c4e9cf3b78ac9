// flat.go - reference flat-memory Bus implementation
//
// Adapted from cpu_x86_test.go's TestX86Bus and the 32MB flat model in
// cpu_x86.go (x86MemorySize/x86AddressMask), generalized into a reusable
// Bus implementation with pluggable read/write monitor hooks so a
// breakpoints.Manager can observe every access without this package
// importing the breakpoints package.

package mem

const (
	// AddressSpace matches the teacher's 32MB flat model; real-mode
	// programs only ever address the low 1MB of it.
	AddressSpace = 32 * 1024 * 1024
	AddressMask  = AddressSpace - 1
)

// FlatBus is a flat byte array addressed directly by the 20/25-bit linear
// address computed from SegmentedAddress.Linear(). OnRead/OnWrite, when
// set, are invoked on every non-sneaky access — this is the seam the
// breakpoints package's read/write holders attach to.
type FlatBus struct {
	mem   [AddressSpace]byte
	ports [65536]byte

	OnRead  func(addr uint32)
	OnWrite func(addr uint32)
}

func NewFlatBus() *FlatBus {
	return &FlatBus{}
}

func (b *FlatBus) Read8(addr uint32) byte {
	addr &= AddressMask
	if b.OnRead != nil {
		b.OnRead(addr)
	}
	return b.mem[addr]
}

func (b *FlatBus) Write8(addr uint32, v byte) {
	addr &= AddressMask
	if b.OnWrite != nil {
		b.OnWrite(addr)
	}
	b.mem[addr] = v
}

func (b *FlatBus) SneakyRead8(addr uint32) byte {
	return b.mem[addr&AddressMask]
}

func (b *FlatBus) Slice(addr uint32, length int) []byte {
	addr &= AddressMask
	end := addr + uint32(length)
	if end > AddressSpace {
		end = AddressSpace
	}
	return b.mem[addr:end]
}

func (b *FlatBus) In8(port uint16) byte          { return b.ports[port] }
func (b *FlatBus) Out8(port uint16, v byte)      { b.ports[port] = v }

// LoadAt copies data into memory starting at addr, for loading a flat
// program image (cmd/pccore's loader, and tests).
func (b *FlatBus) LoadAt(addr uint32, data []byte) {
	for i, v := range data {
		b.mem[(addr+uint32(i))&AddressMask] = v
	}
}
