package pause

import (
	"testing"
	"time"
)

func TestRequestPauseParksAndResumes(t *testing.T) {
	h := NewHandler()
	loopDone := make(chan struct{})
	waited := make(chan struct{})

	go func() {
		close(waited)
		h.WaitIfPaused()
		close(loopDone)
	}()

	<-waited
	time.Sleep(10 * time.Millisecond) // let the loop reach WaitIfPaused's fast path once
	if h.IsPaused() {
		t.Fatalf("expected not paused before any request")
	}

	paused := h.RequestPause()
	select {
	case <-loopDone:
	case <-time.After(time.Second):
		t.Fatalf("first WaitIfPaused call blocked although no pause was pending when it ran")
	}

	// The first WaitIfPaused call already returned (no request was
	// pending then), so simulate the loop's next boundary check.
	go h.WaitIfPaused()

	select {
	case <-paused:
	case <-time.After(time.Second):
		t.Fatalf("Paused channel never closed")
	}
	if !h.IsPaused() {
		t.Fatalf("expected paused after WaitIfPaused parked")
	}

	resumed := h.Resumed()
	h.Resume()
	select {
	case <-resumed:
	case <-time.After(time.Second):
		t.Fatalf("Resumed channel never closed")
	}
	if h.IsPaused() {
		t.Fatalf("expected not paused after Resume")
	}
}

func TestResumeWithoutRequestIsNoop(t *testing.T) {
	h := NewHandler()
	h.Resume() // must not panic or block
}
