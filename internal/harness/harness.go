// Package harness runs derivations against one backend at a time and times
// them, so that the software and platform backends can be compared on equal
// terms.
package harness

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/kdfbench/kdfbench/internal/kdf"
)

// State is the lifecycle position of a single run.
type State int32

const (
	StateIdle State = iota
	StateBuilding
	StateDeriving
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBuilding:
		return "building"
	case StateDeriving:
		return "deriving"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Harness dispatches runs to the configured backends.
type Harness struct {
	backends map[kdf.Kind]kdf.Backend
	builder  *kdf.Builder
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Harness.
type Option func(*Harness)

// WithBackend registers b under b.Kind(), replacing any backend of that kind.
func WithBackend(b kdf.Backend) Option {
	return func(h *Harness) {
		h.backends[b.Kind()] = b
	}
}

// WithBuilder sets the builder used by RunRaw and StartRaw.
func WithBuilder(b *kdf.Builder) Option {
	return func(h *Harness) {
		h.builder = b
	}
}

// WithLogger sets the logger. Secrets and derived keys are never logged.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// New creates a harness with the software and platform backends, then
// applies opts.
func New(opts ...Option) *Harness {
	h := &Harness{
		backends: map[kdf.Kind]kdf.Backend{
			kdf.KindSoftware: kdf.NewSoftwareBackend(),
			kdf.KindPlatform: kdf.NewPlatformBackend(nil),
		},
		builder: kdf.NewBuilder(),
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Backend returns the backend registered for kind.
func (h *Harness) Backend(kind kdf.Kind) (kdf.Backend, bool) {
	b, ok := h.backends[kind]
	return b, ok
}

// Build assembles a request with the harness builder.
func (h *Harness) Build(raw kdf.RawParams) (*kdf.Request, error) {
	return h.builder.Build(raw)
}

// Run derives req on the backend selected by kind and records the elapsed
// wall-clock time. Failures are returned as *HarnessError; no retry is made.
func (h *Harness) Run(ctx context.Context, req *kdf.Request, kind kdf.Kind) (*kdf.Result, error) {
	backend, ok := h.backends[kind]
	if !ok {
		return nil, &HarnessError{Backend: kind, State: StateDeriving, Err: fmt.Errorf("%w: %q", ErrUnknownBackend, kind)}
	}

	if req != nil {
		h.logger.Debug("derivation started",
			"backend", kind, "algo", req.Algorithm, "iter", req.Iterations, "bits", req.Bits)
	}

	start := h.now()
	res, err := backend.Derive(ctx, req)
	elapsed := h.now().Sub(start)

	if err != nil {
		h.logger.Debug("derivation failed", "backend", kind, "elapsed", elapsed, "error", err)
		return nil, &HarnessError{Backend: kind, State: StateDeriving, Elapsed: elapsed, Err: err}
	}

	res.Elapsed = elapsed
	res.ElapsedSeconds = elapsed.Seconds()

	h.logger.Debug("derivation finished", "backend", kind, "elapsed", elapsed)
	return res, nil
}

// RunRaw builds a request from raw and runs it. Build failures abort the run
// before any backend is invoked.
func (h *Harness) RunRaw(ctx context.Context, raw kdf.RawParams, kind kdf.Kind) (*kdf.Result, error) {
	req, err := h.builder.Build(raw)
	if err != nil {
		return nil, &HarnessError{Backend: kind, State: StateBuilding, Err: err}
	}
	return h.Run(ctx, req, kind)
}

// Pending is the handle of a run started with Start. Its result becomes
// visible only once the run has reached a terminal state.
type Pending struct {
	state  atomic.Int32
	done   chan struct{}
	result *kdf.Result
	err    error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func (p *Pending) setState(s State) {
	p.state.Store(int32(s))
}

func (p *Pending) resolve(res *kdf.Result, err error) {
	p.result, p.err = res, err
	if err != nil {
		p.setState(StateFailed)
	} else {
		p.setState(StateCompleted)
	}
	close(p.done)
}

// State returns the current lifecycle state.
func (p *Pending) State() State {
	return State(p.state.Load())
}

// Done is closed once the run has completed or failed.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the run resolves and returns its outcome.
func (p *Pending) Wait() (*kdf.Result, error) {
	<-p.done
	return p.result, p.err
}

// Start runs req on its own goroutine and returns immediately.
func (h *Harness) Start(ctx context.Context, req *kdf.Request, kind kdf.Kind) *Pending {
	p := newPending()
	p.setState(StateDeriving)
	go func() {
		p.resolve(h.Run(ctx, req, kind))
	}()
	return p
}

// StartRaw builds and runs a request on its own goroutine and returns
// immediately.
func (h *Harness) StartRaw(ctx context.Context, raw kdf.RawParams, kind kdf.Kind) *Pending {
	p := newPending()
	p.setState(StateBuilding)
	go func() {
		req, err := h.builder.Build(raw)
		if err != nil {
			p.resolve(nil, &HarnessError{Backend: kind, State: StateBuilding, Err: err})
			return
		}
		p.setState(StateDeriving)
		p.resolve(h.Run(ctx, req, kind))
	}()
	return p
}
