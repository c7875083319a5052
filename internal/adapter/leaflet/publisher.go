package leaflet

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/quake-map/internal/mapview"
)

// Output file names inside the publish directory.
const (
	PageFile = "index.html"
	SpecFile = "map.json"
)

// DirPublisher writes the rendered page and its JSON spec to a directory.
// It implements pipeline.Publisher.
type DirPublisher struct {
	dir      string
	renderer *Renderer
	logger   *slog.Logger
}

// NewDirPublisher creates a publisher that writes into dir, creating it if needed.
func NewDirPublisher(dir string, renderer *Renderer, logger *slog.Logger) *DirPublisher {
	return &DirPublisher{dir: dir, renderer: renderer, logger: logger}
}

// Name identifies the sink in logs and metrics.
func (p *DirPublisher) Name() string { return "file" }

// Publish renders both outputs before touching disk, then replaces each file atomically.
func (p *DirPublisher) Publish(_ context.Context, spec mapview.Spec) error {
	html, err := p.renderer.RenderHTML(spec)
	if err != nil {
		return err
	}
	js, err := RenderJSON(spec)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	pagePath := filepath.Join(p.dir, PageFile)
	if err := writeFileAtomic(pagePath, html); err != nil {
		return err
	}
	specPath := filepath.Join(p.dir, SpecFile)
	if err := writeFileAtomic(specPath, js); err != nil {
		return err
	}

	p.logger.Info("map written", "page", pagePath, "spec", specPath, "markers", spec.MarkerCount())
	return nil
}

// writeFileAtomic writes to a temp file then renames it over path, so a
// browser or static server never reads a half-written file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
