// Package parallel bounds how many rule kernels ground concurrently.
//
// Independent kernels may ground in parallel as long as the atom manager,
// data store, and ground-kernel store they share are thread-safe; a
// single kernel's own methods are never run concurrently with themselves
// by the pool.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// KernelGrounder is the subset of pkg/grounding.RuleKernel's behavior a
// Pool needs to fan out: grounding itself.
type KernelGrounder interface {
	GroundAll(ctx context.Context) error
}

// Pool runs GroundAll across a set of kernels, bounded to at most
// maxConcurrency simultaneously in flight. It is a thin, purpose-specific
// wrapper over errgroup.Group rather than a general-purpose task queue:
// the grounder has exactly one kind of parallel work (grounding a kernel),
// so there is no Submit/Shutdown lifecycle to manage beyond one Wait.
type Pool struct {
	maxConcurrency int
}

// NewPool constructs a Pool. maxConcurrency <= 0 means unbounded (as many
// goroutines as kernels handed to GroundAll).
func NewPool(maxConcurrency int) *Pool {
	return &Pool{maxConcurrency: maxConcurrency}
}

// GroundAll grounds every kernel, short-circuiting on the first error per
// errgroup.Group's standard contract. Already-inserted ground rules
// remain valid after an error since grounding is idempotent under merge.
func (p *Pool) GroundAll(ctx context.Context, kernels []KernelGrounder) error {
	g, gctx := errgroup.WithContext(ctx)
	if p.maxConcurrency > 0 {
		g.SetLimit(p.maxConcurrency)
	}
	for _, k := range kernels {
		k := k
		g.Go(func() error {
			return k.GroundAll(gctx)
		})
	}
	return g.Wait()
}
