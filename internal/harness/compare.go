package harness

import (
	"context"
	"crypto/subtle"

	"golang.org/x/sync/errgroup"

	"github.com/kdfbench/kdfbench/internal/kdf"
)

// Comparison holds one run per backend on the same request.
type Comparison struct {
	Software *kdf.Result `json:"software"`
	Platform *kdf.Result `json:"platform"`
	Match    bool        `json:"match"`
}

// Speedup is software elapsed time divided by platform elapsed time.
func (c *Comparison) Speedup() float64 {
	if c.Platform == nil || c.Software == nil || c.Platform.Elapsed <= 0 {
		return 0
	}
	return float64(c.Software.Elapsed) / float64(c.Platform.Elapsed)
}

// Compare runs req on the software backend, then on the platform backend.
// Each run gets its own copy of the request and the runs never overlap. A
// software failure skips the platform run and is returned.
func (h *Harness) Compare(ctx context.Context, req *kdf.Request) (*Comparison, error) {
	if err := req.Validate(); err != nil {
		return nil, &HarnessError{State: StateBuilding, Err: err}
	}

	var software, platform *kdf.Result
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(1)

	g.Go(func() error {
		res, err := h.Run(gctx, req.Clone(), kdf.KindSoftware)
		software = res
		return err
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		res, err := h.Run(gctx, req.Clone(), kdf.KindPlatform)
		platform = res
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Comparison{
		Software: software,
		Platform: platform,
		Match:    keysEqual(software.KeyHex, platform.KeyHex),
	}, nil
}

// CompareRaw builds one request from raw and compares both backends on it.
func (h *Harness) CompareRaw(ctx context.Context, raw kdf.RawParams) (*Comparison, error) {
	req, err := h.builder.Build(raw)
	if err != nil {
		return nil, &HarnessError{State: StateBuilding, Err: err}
	}
	return h.Compare(ctx, req)
}

func keysEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
