// instruction.go - parsed instruction representation
//
// CfgInstruction is the tagged-variant-via-struct spec.md §9 asks for: one
// Go type, an Opcode enum handle and a decoded Operands payload; the
// execute func is looked up by Opcode in exec's dispatch table (kept out of
// this package to avoid parser importing exec). cfg.Node wraps a CfgInstruction with graph
// edges; this package only concerns itself with "what did we parse".

package parser

import "github.com/retrodos/pccore/state"

// InstructionField records one consumed byte range of an instruction's
// encoding (a prefix byte, the opcode byte(s), ModR/M, SIB, displacement,
// or immediate) together with the value it decoded to. IsFinal marks
// fields whose value can never legitimately change for a given address
// without the encoding itself changing shape (prefix, opcode, ModR/M,
// SIB) — the cfg package's shape comparison (sameShape) compares only the
// final fields, so two parses of the same address that differ only in a
// non-final field (a displacement or immediate) count as the same shape.
type InstructionField[T any] struct {
	Address uint32
	Length  int
	Value   T
	IsFinal bool
}

// AnyField is the non-generic view InstructionsFeeder re-checks against
// memory; Raw holds the encoded bytes as last read so they can be
// re-compared byte for byte without knowing each field's original type.
type AnyField struct {
	Address uint32
	Length  int
	Raw     []byte
	IsFinal bool
}

// Prefixes records every prefix byte consumed ahead of the opcode.
type Prefixes struct {
	SegmentOverride int // -1 = none, else state.Seg* index
	OperandSize66   bool
	AddressSize67   bool
	Lock            bool
	RepKind         RepKind
}

type RepKind int

const (
	RepNone RepKind = iota
	RepZ            // REP / REPE (0xF3)
	RepNZ           // REPNE (0xF2)
)

// Operands is the decoded operand payload for whichever Opcode the
// instruction carries. Not every field applies to every opcode; the
// execute function for a given Opcode only reads the fields its own
// encoding populates.
type Operands struct {
	ModRM    ModRmContext
	HasModRM bool

	RegField byte // register operand encoded in the opcode's low 3 bits, or ModRM.Reg

	Imm8  byte
	Imm16 uint16
	Imm32 uint32

	Rel8  int8
	Rel32 int32 // sign-extended rel16 or rel32, per OperandSize

	Size OperandSize

	AluOp AluOp

	SegIndex int // operand naming a segment register (MOV Sw, PUSH/POP seg)

	StringSize OperandSize

	PortImm8   byte
	PortFromDX bool

	// MoffsAddr holds the absolute (segment-relative) offset for the
	// A0-A3 MOV AL/eAX,moffs and MOV moffs,AL/eAX forms.
	MoffsAddr uint32

	// FarSeg holds the immediate segment half of a direct far CALL/JMP
	// (9A/EA); the offset half reuses Imm16/Imm32 per Size.
	FarSeg uint16

	// ShiftByCL distinguishes SHLD/SHRD's two count sources: Imm8 (the
	// ib form) when false, CL when true. Kept as its own field rather
	// than reusing Grp2's PortFromDX reuse of the same idea, since the
	// two groups don't share an executor.
	ShiftByCL bool
}

// CfgInstruction is a single parsed instruction: address, consumed byte
// fields, decoded operands, and an Opcode handle. It carries no execute
// function pointer of its own: exec's dispatch table supplies that,
// keyed by the Opcode handle, so this package has no dependency on exec
// (exec already depends on parser for Opcode and CfgInstruction, and a
// func field here pointing back at exec.Helper would cycle).
type CfgInstruction struct {
	Address state.SegmentedAddress
	Linear  uint32
	Length  int

	Prefixes Prefixes
	Opcode   Opcode
	Operands Operands

	Fields []AnyField
}
