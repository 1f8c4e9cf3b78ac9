// runner.go - Runner: the fetch/execute/link step loop
//
// Grounded on cpu_x86_runner.go's CPUX86Runner (Step/Run/Execute, the
// perf-counter sampling cadence, and the mutex-guarded goroutine shape of
// StartExecution/Stop), generalized from a single CPU+bus pairing into a
// loop that fetches through an InstructionsFeeder, executes through
// exec.Execute, and records the CFG edge the instruction actually took.
package cfg

import (
	"sync"
	"time"

	"github.com/retrodos/pccore/breakpoints"
	"github.com/retrodos/pccore/exec"
	"github.com/retrodos/pccore/interrupt"
	"github.com/retrodos/pccore/mem"
	"github.com/retrodos/pccore/parser"
	"github.com/retrodos/pccore/pause"
	"github.com/retrodos/pccore/state"
)

// Runner drives one CPU/bus pairing through the fetch/execute/link cycle
// and maintains the CFG the feeder and successor edges describe.
type Runner struct {
	State  *state.State
	Bus    mem.Bus
	Feeder *InstructionsFeeder

	Helper *exec.Helper

	// Pause, when set, is consulted once per instruction boundary in Run
	// so a debugger console running on another goroutine can park the
	// loop between instructions without racing Step.
	Pause *pause.Handler

	PerfEnabled      bool
	InstructionCount uint64
	perfStart        time.Time
	lastPerfReport   time.Time

	execMu     sync.Mutex
	execDone   chan struct{}
	execActive bool
}

// NewRunner wires a feeder over bus/state and an exec.Helper sharing the
// same state/bus, vector table, callback handler and breakpoints manager.
func NewRunner(s *state.State, bus mem.Bus, io mem.IOBus, vectors *interrupt.VectorTable, callbacks interrupt.CallbackHandler, bp *breakpoints.Manager, addr32, opsize32 bool) *Runner {
	return &Runner{
		State:  s,
		Bus:    bus,
		Feeder: NewInstructionsFeeder(bus, addr32, opsize32),
		Helper: &exec.Helper{
			State:       s,
			Bus:         bus,
			IO:          io,
			Vectors:     vectors,
			Callbacks:   callbacks,
			Breakpoints: bp,
		},
	}
}

// Step runs exactly one instruction: fetch its node, check the execution
// breakpoint holder, execute it, then record the successor edge the
// instruction actually took (either an explicit control transfer via
// Helper.NextNode, or ordinary fall-through) before advancing CS:IP.
//
// Returns the Node just executed and the Node fetch/execute settled on as
// successor — the caller (or a future step) uses the latter as next's
// starting point without re-walking the feeder.
func (r *Runner) Step() (*Node, *Node, error) {
	from, err := r.Feeder.Fetch(r.State.CS_IP())
	if err != nil {
		return nil, nil, err
	}

	if r.Helper.Breakpoints != nil {
		r.Helper.Breakpoints.CheckExecution()
	}

	if err := exec.Execute(from.Instruction, r.Helper); err != nil {
		return from, nil, err
	}

	nextAddr := r.successorAddress(from)
	to, err := r.Feeder.Fetch(nextAddr)
	if err != nil {
		return from, nil, err
	}

	kind := Normal
	if r.Helper.NextNode != nil {
		kind = classifyTransfer(from.Instruction.Opcode)
	}
	r.Feeder.RecordSuccessor(from, kind, to)

	r.State.SetSeg(state.SegCS, nextAddr.Segment)
	r.State.SetIP(nextAddr.Offset)
	return from, to, nil
}

// successorAddress is either the explicit target an executor set via
// Helper.NextNode, or plain fall-through past the instruction just run.
func (r *Runner) successorAddress(from *Node) state.SegmentedAddress {
	if r.Helper.NextNode != nil {
		return *r.Helper.NextNode
	}
	addr := from.Instruction.Address
	addr.Offset += uint16(from.Instruction.Length)
	return addr
}

// classifyTransfer picks the SuccessorType for an explicit transfer based
// on the opcode that produced it. CALL's own edge is a Jump (to the
// callee); RET/IRET's edge is CallToRet, since its target is whatever
// address was popped off the stack rather than the instruction's static
// fall-through. INT/INTO land as InterruptCall; IRET as InterruptRet takes
// priority over the CallToRet reading when returning from a vector.
func classifyTransfer(op parser.Opcode) SuccessorType {
	switch op {
	case parser.OpCallRel16, parser.OpCallRel32, parser.OpCallRM16, parser.OpCallRM32,
		parser.OpJmpRel8, parser.OpJmpRel16, parser.OpJmpRel32, parser.OpJmpRM16, parser.OpJmpRM32,
		parser.OpJccRel8, parser.OpJccRel16or32, parser.OpLoop, parser.OpLoope, parser.OpLoopne, parser.OpJcxz,
		parser.OpCallFar, parser.OpJmpFar, parser.OpCallRMFar16, parser.OpCallRMFar32,
		parser.OpJmpRMFar16, parser.OpJmpRMFar32:
		return Jump
	case parser.OpRetNear, parser.OpRetNearImm16, parser.OpRetFar, parser.OpRetFarImm16:
		return CallToRet
	case parser.OpIntImm8, parser.OpInt3, parser.OpInto:
		return InterruptCall
	case parser.OpIret:
		return InterruptRet
	default:
		return Normal
	}
}

// Run executes instructions until State.IsRunning goes false, sampling
// InstructionCount the way CPUX86Runner.Run does for a MIPS readout.
func (r *Runner) Run() error {
	if r.PerfEnabled {
		r.perfStart = time.Now()
		r.lastPerfReport = r.perfStart
		r.InstructionCount = 0
	}
	for r.State.IsRunning {
		if r.Pause != nil {
			r.Pause.WaitIfPaused()
			if !r.State.IsRunning {
				break
			}
		}
		if _, _, err := r.Step(); err != nil {
			r.State.IsRunning = false
			if r.Helper.Breakpoints != nil {
				r.Helper.Breakpoints.MonitorMachineStop()
			}
			return err
		}
		if r.PerfEnabled {
			r.InstructionCount++
		}
	}
	return nil
}

// StartExecution runs the CPU on its own goroutine, mirroring
// CPUX86Runner's guarded start/stop pair so a debugger console can issue
// Stop from another goroutine without racing the run loop.
func (r *Runner) StartExecution() <-chan error {
	r.execMu.Lock()
	defer r.execMu.Unlock()
	errc := make(chan error, 1)
	if r.execActive {
		errc <- nil
		return errc
	}
	r.execActive = true
	r.execDone = make(chan struct{})
	go func() {
		defer func() {
			r.execMu.Lock()
			r.execActive = false
			close(r.execDone)
			r.execMu.Unlock()
		}()
		errc <- r.Run()
	}()
	return errc
}

// Stop halts the run loop and blocks until it has exited.
func (r *Runner) Stop() {
	r.execMu.Lock()
	r.State.IsRunning = false
	if !r.execActive {
		r.execMu.Unlock()
		return
	}
	done := r.execDone
	r.execMu.Unlock()
	<-done
}
