package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Dir stores each key as <Root>/<key>.json.
type Dir struct {
	Root string
}

// NewDir creates a Dir gateway rooted at root, creating the directory if needed.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Dir{Root: root}, nil
}

// Path returns the file backing key.
func (d *Dir) Path(key string) string {
	return filepath.Join(d.Root, key+".json")
}

func (d *Dir) Get(_ context.Context, key string) (string, bool, error) {
	if err := CheckKey(key); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(d.Path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set writes through a temp file and rename so readers never see a partial value.
func (d *Dir) Set(_ context.Context, key, value string) error {
	if err := CheckKey(key); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(d.Root, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", key, err)
	}
	if err := os.Rename(tmpName, d.Path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	return nil
}

func (d *Dir) Delete(_ context.Context, key string) error {
	if err := CheckKey(key); err != nil {
		return err
	}
	err := os.Remove(d.Path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}
