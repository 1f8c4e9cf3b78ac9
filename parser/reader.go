// reader.go - sequential byte consumption over a mem.Bus slice
//
// The teacher fetches instruction bytes live, one at a time, directly off
// EIP as it decodes (cpu_x86.go's fetch8/16/32). Since parsing is now
// fully separated from execution, the parser instead takes an upfront
// Slice() view of memory at the candidate address and consumes it with a
// cursor, recording each consumed range as an AnyField for the cfg
// package's SMC re-validation.

package parser

type byteReader struct {
	data   []byte
	pos    int
	fields []AnyField
	base   uint32
}

func newByteReader(data []byte, base uint32) *byteReader {
	return &byteReader{data: data, base: base}
}

func (r *byteReader) record(length int, isFinal bool) AnyField {
	f := AnyField{
		Address: r.base + uint32(r.pos-length),
		Length:  length,
		Raw:     append([]byte(nil), r.data[r.pos-length:r.pos]...),
		IsFinal: isFinal,
	}
	r.fields = append(r.fields, f)
	return f
}

func (r *byteReader) u8() byte {
	v := r.data[r.pos]
	r.pos++
	r.record(1, true)
	return v
}

func (r *byteReader) u16() uint16 {
	v := uint16(r.data[r.pos]) | uint16(r.data[r.pos+1])<<8
	r.pos += 2
	r.record(2, true)
	return v
}

func (r *byteReader) u32() uint32 {
	v := uint32(r.data[r.pos]) | uint32(r.data[r.pos+1])<<8 |
		uint32(r.data[r.pos+2])<<16 | uint32(r.data[r.pos+3])<<24
	r.pos += 4
	r.record(4, true)
	return v
}

// imm8/imm16/imm32 read an immediate or displacement operand: same bytes
// as u8/u16/u32 but recorded as non-final, since operand bytes are the
// field class that can legitimately differ between two otherwise-identical
// parses at the same address under self-modifying code (spec.md §4.2's
// discriminator reduction re-tests exactly these fields).
func (r *byteReader) imm8() byte {
	v := r.data[r.pos]
	r.pos++
	r.fields = append(r.fields, AnyField{Address: r.base + uint32(r.pos-1), Length: 1, Raw: []byte{v}, IsFinal: false})
	return v
}

func (r *byteReader) imm16() uint16 {
	v := uint16(r.data[r.pos]) | uint16(r.data[r.pos+1])<<8
	b := append([]byte(nil), r.data[r.pos:r.pos+2]...)
	r.pos += 2
	r.fields = append(r.fields, AnyField{Address: r.base + uint32(r.pos-2), Length: 2, Raw: b, IsFinal: false})
	return v
}

func (r *byteReader) imm32() uint32 {
	v := uint32(r.data[r.pos]) | uint32(r.data[r.pos+1])<<8 |
		uint32(r.data[r.pos+2])<<16 | uint32(r.data[r.pos+3])<<24
	b := append([]byte(nil), r.data[r.pos:r.pos+4]...)
	r.pos += 4
	r.fields = append(r.fields, AnyField{Address: r.base + uint32(r.pos-4), Length: 4, Raw: b, IsFinal: false})
	return v
}
