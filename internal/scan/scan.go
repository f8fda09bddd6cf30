// Package scan resolves scanned or typed product codes against the
// product lookup endpoint: one at a time for the camera path, as a
// concurrent batch for the bulk-entry path.
package scan

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"inventario-bot/internal/api"
)

var resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "barcode_resolutions_total",
	Help: "Barcode resolutions by outcome.",
}, []string{"outcome"})

// Lookup is the slice of the API client the resolver needs.
type Lookup interface {
	GetProductByBarcode(ctx context.Context, barcode string) (*api.Product, error)
}

// Result is the outcome for one code of a batch. Either Product or
// Err is set; Reason carries the user-facing failure text.
type Result struct {
	Code    string
	Product *api.Product
	Err     error
	Reason  string
}

func (r Result) OK() bool { return r.Err == nil }

// Summary aggregates one batch for the notification: how many codes
// resolved and which ones did not.
type Summary struct {
	Resolved int
	Failed   []string
}

type Resolver struct {
	lookup Lookup
	limit  int
}

// NewResolver caps batch fan-out at limit concurrent lookups; the
// remote service is not assumed to tolerate unlimited bursts.
func NewResolver(lookup Lookup, limit int) *Resolver {
	if limit <= 0 {
		limit = 8
	}
	return &Resolver{lookup: lookup, limit: limit}
}

// ResolveSingle handles the live-scan path: one code, one lookup.
func (r *Resolver) ResolveSingle(ctx context.Context, code string) (*api.Product, error) {
	p, err := r.lookup.GetProductByBarcode(ctx, strings.TrimSpace(code))
	if err != nil {
		resolutions.WithLabelValues("failure").Inc()
		return nil, err
	}
	resolutions.WithLabelValues("success").Inc()
	return p, nil
}

// CleanCodes drops blank and whitespace-only entries, preserving
// order and duplicates: each remaining code is resolved on its own.
func CleanCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// ResolveBatch resolves every non-blank code concurrently. One code's
// failure never blocks or aborts the others; the batch completes only
// once every lookup has settled. Results come back in input order,
// each attributable to its originating code. An empty cleaned batch
// returns nil: nothing to process.
func (r *Resolver) ResolveBatch(ctx context.Context, codes []string) []Result {
	codes = CleanCodes(codes)
	if len(codes) == 0 {
		return nil
	}

	results := make([]Result, len(codes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	for i, code := range codes {
		g.Go(func() error {
			p, err := r.lookup.GetProductByBarcode(gctx, code)
			if err != nil {
				resolutions.WithLabelValues("failure").Inc()
				results[i] = Result{Code: code, Err: err, Reason: failureReason(code, err)}
				return nil // per-code failures stay in the result, never cancel siblings
			}
			resolutions.WithLabelValues("success").Inc()
			results[i] = Result{Code: code, Product: p}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Summarize counts successes and collects the failed codes.
func Summarize(results []Result) Summary {
	var s Summary
	for _, res := range results {
		if res.OK() {
			s.Resolved++
		} else {
			s.Failed = append(s.Failed, res.Code)
		}
	}
	return s
}

func failureReason(code string, err error) string {
	if api.IsNotFound(err) {
		return "producto no encontrado: " + code
	}
	return api.UserMessage(err, "error consultando el código "+code)
}
