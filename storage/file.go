package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File stores each fragment as <root>/<key>.json. Writes go to a temp file
// in the same directory and are renamed into place.
type File struct {
	mu   sync.Mutex
	root string
}

func NewFile(root string) (*File, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage/file: mkdir %s: %w", root, err)
	}
	return &File{root: root}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.root, key+".json")
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage/file: get %s: %w", key, err)
	}
	return data, nil
}

func (f *File) Set(ctx context.Context, key string, value []byte) error {
	return f.SetMany(ctx, map[string][]byte{key: value})
}

// SetMany stages every entry before renaming any of them. A failed stage
// leaves the previous files untouched. Renames run one key at a time and
// are not atomic as a group.
func (f *File) SetMany(_ context.Context, entries map[string][]byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	staged := make(map[string]string, len(entries))
	cleanup := func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}
	for key, value := range entries {
		tmp, err := f.stage(key, value)
		if err != nil {
			cleanup()
			return err
		}
		staged[key] = tmp
	}
	for key, tmp := range staged {
		if err := os.Rename(tmp, f.path(key)); err != nil {
			cleanup()
			return fmt.Errorf("storage/file: rename %s: %w", key, err)
		}
		delete(staged, key)
	}
	return nil
}

func (f *File) stage(key string, value []byte) (string, error) {
	tmp, err := os.CreateTemp(f.root, key+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("storage/file: create temp for %s: %w", key, err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(name)
		return "", fmt.Errorf("storage/file: write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(name)
		return "", fmt.Errorf("storage/file: sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("storage/file: close %s: %w", key, err)
	}
	return name, nil
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage/file: delete %s: %w", key, err)
	}
	return nil
}

func (f *File) Close() error { return nil }
