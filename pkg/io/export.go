package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/depexport/pkg/model"
)

// WriteComponents encodes components as an indented JSON array of
// {"name", "version"} objects. A nil slice is written as [].
func WriteComponents(components []model.Component, w io.Writer) error {
	if components == nil {
		components = []model.Component{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(components); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportComponents writes components to path, creating parent directories.
// The file is written to a temporary sibling and renamed into place, so path
// is either left untouched or fully written.
func ExportComponents(components []model.Component, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := WriteComponents(components, f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
