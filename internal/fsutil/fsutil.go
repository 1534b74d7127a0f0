// Package fsutil holds the durable-write primitives shared by the checkpoint
// store and the renderers: data is written and fsynced under a temporary
// name in the destination directory, then renamed into place.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// Stage writes data to a synced temporary file in dir and returns its path.
// The caller renames it into place or removes it. ext is appended to the
// random name so globbing on the final extension never matches staged files.
func Stage(dir, ext string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, ".tmp-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("fsync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return path, nil
}

// WriteFile atomically replaces path with data. Readers see either the old
// content or the complete new content, never a prefix.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := Stage(dir, filepath.Ext(path), data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	SyncDir(dir)
	return nil
}

// SyncDir flushes directory entries after a rename. Failure is ignored:
// some filesystems do not support fsync on directories.
func SyncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
