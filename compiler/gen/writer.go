package gen

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"
)

// Writer renders Jennifer files, formats them and writes them to disk.
// It is safe for concurrent use.
type Writer struct {
	outDir string

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks generation performance
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
	RenderTime     time.Duration
	FormatTime     time.Duration
	WriteTime      time.Duration
}

// NewWriter creates a writer for the given output directory.
func NewWriter(outDir string) *Writer {
	return &Writer{outDir: outDir}
}

// Metrics returns a snapshot of the writer metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// formatOptions only format and group imports. Jennifer already computed the
// import set, so resolving packages again would only slow the run down.
var formatOptions = &imports.Options{
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
	FormatOnly: true,
}

// Write renders f and writes it to name in the output directory.
func (w *Writer) Write(f *jen.File, name string) error {
	fullPath := filepath.Join(w.outDir, name)

	// 1. Render
	start := time.Now()
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return NewGenerationError("render", name, "", err)
	}
	rendered := time.Since(start)

	// 2. Format
	start = time.Now()
	formatted, err := imports.Process(fullPath, buf.Bytes(), formatOptions)
	if err != nil {
		// Write unformatted file for debugging (errors intentionally ignored as we're already in error state)
		debugPath := fullPath + ".error"
		_ = os.WriteFile(debugPath, buf.Bytes(), 0o644)
		return NewGenerationError("format", name, "unformatted output written to "+debugPath, err)
	}
	format := time.Since(start)

	// 3. Write
	start = time.Now()
	if err := os.WriteFile(fullPath, formatted, 0o644); err != nil {
		return NewGenerationError("write", name, "", err)
	}
	_ = os.Remove(fullPath + ".error")
	write := time.Since(start)

	w.mu.Lock()
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += int64(len(formatted))
	w.metrics.RenderTime += rendered
	w.metrics.FormatTime += format
	w.metrics.WriteTime += write
	w.mu.Unlock()
	return nil
}
