// Package gen generates data-access code from command descriptors.
//
// # Architecture
//
// Each descriptor flows through a pure, per-descriptor pipeline:
//
//	descriptor.CommandDescriptor (builder API or compiler/load)
//	        ↓
//	Resolve: merge project defaults, resolve parameter names
//	        ↓
//	Analyze: validation rules, typed diagnostics (DA1001-DA1005)
//	        ↓
//	Synthesize + Classify: command text/mode and execution strategy
//	        ↓
//	emit: jennifer-rendered projection and handler artifacts
//	        ↓
//	Cache: structural cache keys; unchanged descriptors skip emission
//
// Descriptors run concurrently on a bounded worker pool; apart from the
// cache's map access the pipeline is stateless across descriptors, and a
// recover boundary turns any escaped failure into a DA1004 diagnostic on
// the offending descriptor alone.
//
// # Diagnostics
//
// Diagnostics are the sole error-reporting channel for descriptor problems.
// Warnings never block; a descriptor with error diagnostics produces zero
// artifacts while the rest of the pass is unaffected.
//
// # Determinism
//
// Identical resolved input produces byte-identical artifact text. The
// incremental cache relies on this: cache-key equality is both necessary
// and sufficient for output equality.
//
// # Error Handling
//
// Infrastructure failures use structured error types:
//
//   - DescriptorError: descriptor definition errors
//   - ConfigError: configuration errors
//   - GenerationError: emission and write failures
//
// Example:
//
//	if gen.IsConfigError(err) {
//		var cerr *gen.ConfigError
//		errors.As(err, &cerr)
//		log.Fatalf("config option %s: %s", cerr.Option, cerr.Message)
//	}
package gen
