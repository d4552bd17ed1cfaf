package publisher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// FileExporter writes markdown and JSON renditions of a report to the
// local output directory.
type FileExporter struct {
	dir string
	log *zap.Logger
}

func NewFileExporter(dir string, log *zap.Logger) *FileExporter {
	return &FileExporter{dir: dir, log: log.Named("publisher.export")}
}

// ExportMarkdown writes a markdown body under a slug of the title and
// returns its path.
func (e *FileExporter) ExportMarkdown(title, body string) (string, error) {
	path := filepath.Join(e.dir, slug.Make(title)+".md")
	if err := e.write(path, []byte(body)); err != nil {
		return "", err
	}
	return path, nil
}

// ExportJSON writes the structured payload under a slug of the title and
// returns its path.
func (e *FileExporter) ExportJSON(title string, payload interface{}) (string, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(e.dir, slug.Make(title)+".json")
	if err := e.write(path, data); err != nil {
		return "", err
	}
	return path, nil
}

func (e *FileExporter) write(path string, data []byte) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	e.log.Info("report exported", zap.String("path", path))
	return nil
}
