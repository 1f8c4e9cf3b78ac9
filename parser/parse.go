// parse.go - top-level instruction decode
//
// Ported from cpu_x86.go's Step() prefix-consuming loop and
// initBaseOps/initExtendedOps' per-opcode operand shapes (IntuitionEngine),
// restructured so every byte the instruction needs is consumed once, here,
// rather than re-fetched during execution. Grp1-5 (cpu_x86_grp.go) are
// resolved to one concrete Opcode member at parse time using the ModR/M
// reg field, instead of staying a deferred dispatch.

package parser

import (
	"github.com/retrodos/pccore/mem"
	"github.com/retrodos/pccore/state"
)

// maxInstructionLength bounds how many bytes Parse will ever read ahead
// of start; real 386 encodings top out at 15 bytes including prefixes.
const maxInstructionLength = 16

// Parse decodes one instruction at start. addr32/opsize32 give the
// default address/operand size for the current mode (true for 32-bit,
// false for 16-bit; cmd/pccore and the tests pass false for both). A
// 0x66/0x67 prefix flips the corresponding one for this instruction only,
// mirroring cpu_x86.go's prefixOpSize/prefixAddrSize.
func Parse(bus mem.Bus, start state.SegmentedAddress, addr32, opsize32 bool) (*CfgInstruction, error) {
	linear := start.Linear()
	raw := bus.Slice(linear, maxInstructionLength)
	r := newByteReader(raw, linear)

	inst := &CfgInstruction{Address: start}
	inst.Prefixes.SegmentOverride = -1

	opByte := consumePrefixes(r, &inst.Prefixes)
	if inst.Prefixes.OperandSize66 {
		opsize32 = !opsize32
	}
	if inst.Prefixes.AddressSize67 {
		addr32 = !addr32
	}

	size := Size32
	if !opsize32 {
		size = Size16
	}
	inst.Operands.Size = size

	if opByte == 0x0F {
		opByte = r.u8()
		decodeTwoByte(r, inst, opByte, addr32, size)
	} else {
		decodeOneByte(r, inst, opByte, addr32, size)
	}

	// An unrecognized opcode leaves inst.Opcode at its zero value,
	// OpInvalid. Parsing itself never fails: the instruction still
	// carries a well-defined Length (the bytes consumed finding out it
	// was invalid), and Execute turns OpInvalid into an interrupt-6
	// delivery rather than a host-level error (spec.md §7).
	inst.Length = r.pos
	inst.Linear = linear
	inst.Fields = r.fields
	return inst, nil
}

// consumePrefixes reads legacy/segment/REP prefix bytes until a
// non-prefix byte is found, returning that byte (the opcode, or 0x0F for
// the two-byte escape).
func consumePrefixes(r *byteReader, p *Prefixes) byte {
	for {
		b := r.u8()
		switch b {
		case 0x26:
			p.SegmentOverride = state.SegES
		case 0x2E:
			p.SegmentOverride = state.SegCS
		case 0x36:
			p.SegmentOverride = state.SegSS
		case 0x3E:
			p.SegmentOverride = state.SegDS
		case 0x64:
			p.SegmentOverride = state.SegFS
		case 0x65:
			p.SegmentOverride = state.SegGS
		case 0x66:
			p.OperandSize66 = true
		case 0x67:
			p.AddressSize67 = true
		case 0xF0:
			p.Lock = true
		case 0xF2:
			p.RepKind = RepNZ
		case 0xF3:
			p.RepKind = RepZ
		default:
			return b
		}
	}
}

func regField(b byte) byte { return b & 7 }

func modrmOf(r *byteReader, addr32 bool) ModRmContext {
	return decodeModRM(r, addr32)
}
