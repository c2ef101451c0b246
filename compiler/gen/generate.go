package gen

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/dacgen/descriptor"
)

// Generator runs the per-descriptor pipeline: resolve, analyze, synthesize,
// classify, emit, cache. Descriptors are processed in parallel; each one
// reads only its own resolved data and the shared read-only configuration,
// so the only synchronization is the cache's map access.
type Generator struct {
	config  *Config
	cache   *Cache
	workers int
}

// NewGenerator creates a generator for the given project configuration.
func NewGenerator(cfg *Config) (*Generator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Generator{config: cfg, cache: NewCache(), workers: workers}, nil
}

// WithWorkers sets the number of parallel workers.
func (g *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// Cache returns the generator's incremental cache. It persists across
// Generate passes so unchanged descriptors skip re-emission.
func (g *Generator) Cache() *Cache {
	return g.cache
}

// Result is the outcome of one descriptor's pipeline run.
type Result struct {
	// Command is the resolved descriptor.
	Command *Command
	// Diagnostics collected by the analyzer and the isolation boundary.
	Diagnostics []Diagnostic
	// Artifacts generated for the descriptor. Empty when an error
	// diagnostic blocked emission.
	Artifacts []*Artifact
	// State is the incremental-cache verdict.
	State State
}

// Errored reports whether error diagnostics blocked emission.
func (r *Result) Errored() bool {
	return HasErrors(r.Diagnostics)
}

// Report is the outcome of one generation pass.
type Report struct {
	// Results holds one entry per input descriptor, in input order.
	Results []*Result
	// Removed lists identities cached in a previous pass and absent from
	// this one; their entries were deleted and no artifacts exist for them.
	Removed []string
}

// Diagnostics returns every diagnostic of the pass in input order.
func (r *Report) Diagnostics() []Diagnostic {
	var diags []Diagnostic
	for _, res := range r.Results {
		diags = append(diags, res.Diagnostics...)
	}
	return diags
}

// Artifacts returns every artifact of the pass in input order.
func (r *Report) Artifacts() []*Artifact {
	var arts []*Artifact
	for _, res := range r.Results {
		arts = append(arts, res.Artifacts...)
	}
	return arts
}

// Generate runs one pass over the given descriptors and returns the report.
// Descriptors run concurrently on a bounded worker pool; results keep input
// order. An in-flight descriptor always runs to completion so the
// per-descriptor isolation boundary holds, and one malformed descriptor
// never aborts the batch.
func (g *Generator) Generate(ctx context.Context, descs []*descriptor.CommandDescriptor) (*Report, error) {
	pass := g.cache.Begin()
	results := make([]*Result, len(descs))

	errg, _ := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)
	for i, d := range descs {
		errg.Go(func() error {
			results[i] = g.generateOne(pass, d)
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}

	return &Report{Results: results, Removed: pass.End()}, nil
}

// generateOne runs the full pipeline for a single descriptor. A recover
// boundary converts any escaped failure into an internal-failure diagnostic
// on this descriptor alone. The subject is captured up front so the deferred
// closure never touches the descriptor itself.
func (g *Generator) generateOne(pass *Pass, d *descriptor.CommandDescriptor) (res *Result) {
	res = &Result{}
	subject := "<nil>"
	if d != nil {
		subject = d.Name
	}
	defer func() {
		if v := recover(); v != nil {
			if res.Command != nil {
				pass.Forget(res.Command.Identity())
			}
			res.Artifacts = nil
			res.State = StateSkipped
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Code:     CodeInternalFailure,
				Severity: SeverityError,
				Subject:  subject,
				Message:  fmt.Sprintf("generation panicked: %v", v),
			})
		}
	}()

	if d == nil {
		res.State = StateSkipped
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Code:     CodeInternalFailure,
			Severity: SeverityError,
			Subject:  subject,
			Message:  "descriptor is nil",
		})
		return res
	}

	c := Resolve(d, g.config)
	res.Command = c
	res.Diagnostics = Analyze(c)
	if HasErrors(res.Diagnostics) {
		pass.Forget(c.Identity())
		res.State = StateSkipped
		return res
	}

	key, err := CacheKey(c)
	if err != nil {
		return g.fail(pass, res, err)
	}
	if arts, ok := pass.Reuse(c.Identity(), key); ok {
		res.Artifacts = arts
		res.State = StateUnchanged
		return res
	}

	proj, err := g.emitProjection(c)
	if err != nil {
		return g.fail(pass, res, err)
	}
	proj.CacheKey = key
	artifacts := []*Artifact{proj}

	if src, ok := c.Source(); ok {
		if st := Classify(c); st != StrategyNone {
			text, mode := Synthesize(src, c.Params)
			handler, err := g.emitHandler(c, text, mode, st)
			if err != nil {
				return g.fail(pass, res, err)
			}
			handler.CacheKey = key
			artifacts = append(artifacts, handler)
		}
	}

	res.Artifacts = artifacts
	res.State = pass.Record(c.Identity(), key, artifacts)
	return res
}

// fail converts an infrastructure error into an internal-failure diagnostic
// and evicts the descriptor from the cache.
func (g *Generator) fail(pass *Pass, res *Result, err error) *Result {
	pass.Forget(res.Command.Identity())
	res.Artifacts = nil
	res.State = StateSkipped
	res.Diagnostics = append(res.Diagnostics, Diagnostic{
		Code:     CodeInternalFailure,
		Severity: SeverityError,
		Subject:  res.Command.Name,
		Message:  err.Error(),
	})
	return res
}
