package converter

import (
	"context"
	"io"
	"sync"

	"voicescribe/internal/app/pipeline"
)

// countingRunner blocks every run until release is closed and tracks how many
// runs overlap.
type countingRunner struct {
	release chan struct{}

	mu      sync.Mutex
	current int
	max     int
}

func (r *countingRunner) Run(ctx context.Context, up pipeline.Upload) (*pipeline.Result, error) {
	r.mu.Lock()
	r.current++
	if r.current > r.max {
		r.max = r.current
	}
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.current--
		r.mu.Unlock()
	}()

	io.Copy(io.Discard, up.Body)
	<-r.release
	return &pipeline.Result{Text: "ok", State: pipeline.StateDone, Persisted: true}, nil
}

func (r *countingRunner) inFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *countingRunner) maxSeen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.max
}
