package gen

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// Writer persists generated artifacts under an output directory, walking
// each artifact's scope chain outermost-first to open the matching
// directory scopes.
type Writer struct {
	outDir  string
	workers int

	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks write-phase throughput.
type WriterMetrics struct {
	FilesWritten int
	TotalBytes   int64
}

// NewWriter creates a writer rooted at outDir.
func NewWriter(outDir string) *Writer {
	return &Writer{outDir: outDir, workers: runtime.GOMAXPROCS(0)}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns the accumulated write metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// WriteReport writes every artifact the pass produced. Unchanged entries are
// skipped; their files were written when the entry was first recorded.
func (w *Writer) WriteReport(report *Report) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return NewGenerationError("write", w.outDir, "create output directory", err)
	}
	errg := new(errgroup.Group)
	errg.SetLimit(w.workers)
	for _, res := range report.Results {
		if res.State == StateUnchanged {
			continue
		}
		for _, a := range res.Artifacts {
			errg.Go(func() error {
				return w.writeArtifact(a)
			})
		}
	}
	return errg.Wait()
}

// writeArtifact formats and writes a single artifact file.
func (w *Writer) writeArtifact(a *Artifact) error {
	full := filepath.Join(w.outDir, filepath.FromSlash(a.Path()))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return NewGenerationError("write", a.Path(), "create scope directory", err)
	}

	// goimports prunes unused imports and keeps output stable across runs.
	formatted, err := imports.Process(full, []byte(a.Body), nil)
	if err != nil {
		// Keep the unformatted output around for debugging.
		debugPath := full + ".error"
		_ = os.WriteFile(debugPath, []byte(a.Body), 0o644)
		return NewGenerationError("write", a.Path(), "format (unformatted written to "+debugPath+")", err)
	}

	if err := os.WriteFile(full, formatted, 0o644); err != nil {
		return NewGenerationError("write", a.Path(), "write file", err)
	}

	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(formatted))
	w.mu.Unlock()
	return nil
}
