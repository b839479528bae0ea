package testutil

import "sync"

// Recorder counts change signals by name. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	counts map[string]int
	events []string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{counts: make(map[string]int)}
}

// Signal returns a callback that records name each time it runs.
func (r *Recorder) Signal(name string) func() {
	return func() {
		r.mu.Lock()
		r.counts[name]++
		r.events = append(r.events, name)
		r.mu.Unlock()
	}
}

// Count returns how often name was signaled.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[name]
}

// Total returns the number of recorded signals.
func (r *Recorder) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Events returns the recorded names in order.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.counts = make(map[string]int)
	r.events = nil
	r.mu.Unlock()
}
