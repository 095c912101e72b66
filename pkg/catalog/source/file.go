package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/matzehuels/vibegraph/pkg/catalog"
	verrors "github.com/matzehuels/vibegraph/pkg/errors"
)

// FileSource reads and writes a snapshot as one JSON document.
type FileSource struct {
	path string
}

// NewFileSource returns a source for the JSON file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads the file and fills in embedded refs.
func (s *FileSource) Load(ctx context.Context) (catalog.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return catalog.Snapshot{}, verrors.Wrap(verrors.ErrCodeNotFound, err, "catalog file %s", s.path)
	}
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("read catalog: %w", err)
	}

	var snap catalog.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return catalog.Snapshot{}, verrors.Wrap(verrors.ErrCodeInvalidCatalog, err, "decode %s", s.path)
	}
	return snap.Denormalize(), nil
}

// Save writes snap as indented JSON, creating parent directories.
func (s *FileSource) Save(ctx context.Context, snap catalog.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create catalog dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// Name returns "file:<path>".
func (s *FileSource) Name() string { return KindFile + ":" + s.path }

// Close does nothing.
func (s *FileSource) Close() error { return nil }

var (
	_ Source = (*FileSource)(nil)
	_ Writer = (*FileSource)(nil)
)
