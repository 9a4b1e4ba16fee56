package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// lockedBuffer guards a bytes.Buffer shared with the spinner goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerSilentWithoutTerminal(t *testing.T) {
	var out lockedBuffer
	s := newSpinnerTo(context.Background(), &out, "Rendering...")
	if s.animate {
		t.Fatal("a buffer is not a terminal")
	}

	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if got := out.String(); got != "" {
		t.Errorf("spinner wrote %q to a non-terminal", got)
	}
}

func TestSpinnerDrawsFrames(t *testing.T) {
	var out lockedBuffer
	s := newSpinnerTo(context.Background(), &out, "Computing layout...")
	s.animate = true

	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Computing layout...") {
		t.Errorf("output %q is missing the message", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("Stop should clear the line, output ends with %q", got[max(0, len(got)-8):])
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerTo(ctx, &lockedBuffer{}, "Testing with context...")
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after cancellation")
	}
	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerTo(ctx, &lockedBuffer{}, "Testing with timeout...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerTo(context.Background(), &lockedBuffer{}, "Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithMessage(t *testing.T) {
	s := newSpinnerTo(context.Background(), &lockedBuffer{}, "Rendering...")
	s.Start()
	s.StopWithSuccess("Rendered org.svg")

	s = newSpinnerTo(context.Background(), &lockedBuffer{}, "Rendering...")
	s.Start()
	s.StopWithError("Render failed")
}
