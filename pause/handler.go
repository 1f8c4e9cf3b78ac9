// handler.go - Handler: a cooperative pause point for the run loop
//
// Grounded on debug_cpu_x86.go's DebugX86.Freeze/Resume/trapLoop: that
// type hardwires one breakpoint-map consumer into an atomic-bool-plus-
// channel stop/go signal around CPU_X86.Step. Handler generalizes the
// same idiom into a standalone collaborator any Runner can hold a
// reference to, with broadcast channels a debugger console can select on
// instead of polling a boolean.
package pause

import "sync"

// Handler lets one goroutine ask a run loop to park at its next
// instruction boundary, and lets any number of observers learn when that
// request lands and when the loop resumes.
type Handler struct {
	mu        sync.Mutex
	requested bool
	paused    bool
	pausingCh chan struct{}
	pausedCh  chan struct{}
	resumedCh chan struct{}
}

func NewHandler() *Handler {
	return &Handler{
		pausingCh: make(chan struct{}),
		pausedCh:  make(chan struct{}),
		resumedCh: make(chan struct{}),
	}
}

// RequestPause asks the run loop to stop at its next instruction
// boundary. The returned channel closes once WaitIfPaused has actually
// parked the loop there — a caller that needs to know the CPU has
// genuinely stopped (not merely that a request was posted) waits on it.
func (h *Handler) RequestPause() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.requested {
		h.requested = true
		close(h.pausingCh)
	}
	return h.pausedCh
}

// Resume releases a parked loop, or cancels a pending request that
// WaitIfPaused hasn't reached yet, and starts the next pause cycle's
// broadcast channels fresh.
func (h *Handler) Resume() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.requested && !h.paused {
		return
	}
	h.requested = false
	h.paused = false
	close(h.resumedCh)
	h.pausingCh = make(chan struct{})
	h.pausedCh = make(chan struct{})
	h.resumedCh = make(chan struct{})
}

// WaitIfPaused is the cooperative pause point: a run loop calls this once
// per instruction boundary. A pending request marks the handler paused,
// closes Paused(), and blocks until Resume is called.
func (h *Handler) WaitIfPaused() {
	h.mu.Lock()
	if !h.requested {
		h.mu.Unlock()
		return
	}
	h.paused = true
	pausedCh := h.pausedCh
	resumedCh := h.resumedCh
	close(pausedCh)
	h.mu.Unlock()
	<-resumedCh
}

// Pausing closes the moment a pause request is posted, before the loop
// has necessarily reached a boundary.
func (h *Handler) Pausing() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pausingCh
}

// Paused closes once the loop is actually parked.
func (h *Handler) Paused() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pausedCh
}

// Resumed closes once Resume has been called for the current cycle.
func (h *Handler) Resumed() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.resumedCh
}

// IsPaused reports whether the loop is currently parked in WaitIfPaused.
func (h *Handler) IsPaused() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paused
}
