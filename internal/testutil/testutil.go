// Package testutil provides helpers shared by chime tests
package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/ayoisaiah/chime/internal/osutil"
)

type GoldenTest interface {
	Output() ([]byte, string)
}

// CompareGoldenFile verifies that the output of an operation matches
// the expected output.
func CompareGoldenFile(t *testing.T, tc GoldenTest) {
	t.Helper()

	if runtime.GOOS == osutil.Windows {
		// TODO: need to sort out line endings
		t.Skip("skipping golden file test in Windows")
	}

	g := goldie.New(
		t,
		goldie.WithFixtureDir("testdata"),
	)

	output, golden := tc.Output()
	if output != nil {
		g.Assert(t, golden, output)
		return
	}

	f := filepath.Join("testdata", golden+".golden")
	if _, err := os.Stat(f); err == nil || errors.Is(err, os.ErrExist) {
		t.Fatalf("expected no output, but golden file exists: %s", f)
	}
}

// Emission is a single recorded event.
type Emission struct {
	Event string
	Args  []any
}

// Recorder is a notify.Sink that keeps every event it receives.
type Recorder struct {
	events []Emission
	mu     sync.Mutex
	signal chan struct{}
}

func NewRecorder() *Recorder {
	return &Recorder{signal: make(chan struct{}, 1)}
}

func (r *Recorder) Emit(event string, args ...any) {
	r.mu.Lock()
	r.events = append(r.events, Emission{Event: event, Args: args})
	r.mu.Unlock()

	select {
	case r.signal <- struct{}{}:
	default:
	}
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Emission {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.events)
}

// Named returns the recorded emissions of a single event.
func (r *Recorder) Named(event string) []Emission {
	var out []Emission

	for _, e := range r.Events() {
		if e.Event == event {
			out = append(out, e)
		}
	}

	return out
}

// Reset discards recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
}

// WaitFor blocks until at least n emissions of event were recorded or the
// timeout elapses. It fails the test on timeout.
func (r *Recorder) WaitFor(t *testing.T, event string, n int, timeout time.Duration) []Emission {
	t.Helper()

	deadline := time.After(timeout)

	for {
		if got := r.Named(event); len(got) >= n {
			return got
		}

		select {
		case <-r.signal:
		case <-deadline:
			t.Fatalf("timed out waiting for %d %q events, got %d", n, event, len(r.Named(event)))
			return nil
		}
	}
}
