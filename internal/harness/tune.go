package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/kdfbench/kdfbench/internal/kdf"
)

// DefaultMaxTuneIterations bounds Tune when the caller passes no limit.
const DefaultMaxTuneIterations = 10_000_000

// TuneResult is the outcome of Tune.
type TuneResult struct {
	Backend    kdf.Kind      `json:"backend"`
	Iterations int           `json:"iterations"`
	Elapsed    time.Duration `json:"elapsed"`
	Rounds     int           `json:"rounds"`
	Capped     bool          `json:"capped"`
}

// Tune searches for the iteration count whose run on kind takes at least
// target. Starting from the request's count it at least doubles each round,
// extrapolating from the last timing, and stops at maxIterations.
func (h *Harness) Tune(ctx context.Context, req *kdf.Request, kind kdf.Kind, target time.Duration, maxIterations int) (*TuneResult, error) {
	if target <= 0 {
		return nil, &kdf.ParamError{Field: "target", Reason: fmt.Sprintf("must be positive (got %s)", target)}
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxTuneIterations
	}

	probe := req.Clone()
	if probe.Iterations <= 0 {
		probe.Iterations = 1
	}
	if probe.Iterations > maxIterations {
		probe.Iterations = maxIterations
	}

	out := &TuneResult{Backend: kind}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := h.Run(ctx, probe, kind)
		if err != nil {
			return nil, err
		}
		out.Rounds++
		out.Iterations = probe.Iterations
		out.Elapsed = res.Elapsed

		if res.Elapsed >= target {
			return out, nil
		}
		if probe.Iterations >= maxIterations {
			out.Capped = true
			return out, nil
		}

		probe.Iterations = nextIterations(probe.Iterations, res.Elapsed, target, maxIterations)
	}
}

func nextIterations(current int, elapsed, target time.Duration, max int) int {
	next := current * 2
	if elapsed > 0 {
		estimate := int(float64(current) * float64(target) / float64(elapsed))
		if estimate > next {
			next = estimate
		}
	}
	if next > max || next <= 0 {
		next = max
	}
	return next
}
