// snapshot.go - Snapshot: the read-only state view peripheral threads use
//
// Adapted from debug_snapshot.go's MachineSnapshot/TakeSnapshot/
// RestoreSnapshot/SaveSnapshotToFile/LoadSnapshotFromFile. The teacher
// captured a generic DebuggableCPU's named register list plus its whole
// address space for save-state and backstep; here a Snapshot is the
// concrete register file (a plain value copy, since State already is one)
// plus the 1MB real-mode address space a peripheral thread or a save-state
// command needs a stable, non-racing view of per spec.md's "peripheral
// threads observe CPU state through read-only snapshots" scheduling note.
package state

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/retrodos/pccore/mem"
)

const (
	snapshotMagic   = "PCCS"
	snapshotVersion = 1
)

// Snapshot is an immutable point-in-time view: a register file value copy
// (safe to read from another goroutine without synchronizing with the
// running core) plus however much of the address space the caller asked
// to capture.
type Snapshot struct {
	Registers State
	Memory    []byte
}

// Take copies the register file and memSize bytes starting at 0 out of
// bus. The result shares no storage with the live core.
func Take(s *State, bus mem.Bus, memSize int) Snapshot {
	mem := make([]byte, memSize)
	copy(mem, bus.Slice(0, memSize))
	return Snapshot{Registers: *s, Memory: mem}
}

// Restore writes a snapshot's registers and memory back into a live
// core. Callers are responsible for pausing the run loop (pause.Handler)
// first - Restore does not itself synchronize with a concurrent Step.
func Restore(snap Snapshot, s *State, bus mem.Bus) {
	*s = snap.Registers
	for i, b := range snap.Memory {
		bus.Write8(uint32(i), b)
	}
}

// SaveToFile gzip-compresses and writes a snapshot, mirroring the
// teacher's on-disk layout: magic, version, a fixed register block, then
// a length-prefixed compressed memory image.
func SaveToFile(snap Snapshot, path string) error {
	var buf bytes.Buffer
	buf.WriteString(snapshotMagic)
	binary.Write(&buf, binary.LittleEndian, uint32(snapshotVersion))
	binary.Write(&buf, binary.LittleEndian, snap.Registers)

	binary.Write(&buf, binary.LittleEndian, uint32(len(snap.Memory)))
	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	if _, err := gz.Write(snap.Memory); err != nil {
		return fmt.Errorf("compressing memory: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("closing gzip: %w", err)
	}
	buf.Write(compressed.Bytes())

	return os.WriteFile(path, buf.Bytes(), 0644)
}

// LoadFromFile reads back a snapshot written by SaveToFile.
func LoadFromFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	r := bytes.NewReader(data)

	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return Snapshot{}, fmt.Errorf("reading magic: %w", err)
	}
	if string(magic) != snapshotMagic {
		return Snapshot{}, fmt.Errorf("invalid snapshot magic: %q", string(magic))
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return Snapshot{}, fmt.Errorf("reading version: %w", err)
	}
	if version != snapshotVersion {
		return Snapshot{}, fmt.Errorf("unsupported snapshot version: %d", version)
	}

	var regs State
	if err := binary.Read(r, binary.LittleEndian, &regs); err != nil {
		return Snapshot{}, fmt.Errorf("reading registers: %w", err)
	}

	var memLen uint32
	if err := binary.Read(r, binary.LittleEndian, &memLen); err != nil {
		return Snapshot{}, fmt.Errorf("reading memory length: %w", err)
	}

	remaining := data[len(data)-r.Len():]
	gz, err := gzip.NewReader(bytes.NewReader(remaining))
	if err != nil {
		return Snapshot{}, fmt.Errorf("opening gzip reader: %w", err)
	}
	defer gz.Close()

	memBytes := make([]byte, memLen)
	if _, err := io.ReadFull(gz, memBytes); err != nil {
		return Snapshot{}, fmt.Errorf("decompressing memory: %w", err)
	}

	return Snapshot{Registers: regs, Memory: memBytes}, nil
}
