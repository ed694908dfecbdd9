package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore saves uploaded files to disk under a base directory.
type DiskStore struct {
	basePath string
}

// NewDiskStore creates the base directory if missing.
func NewDiskStore(basePath string) (*DiskStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("storage base path is required")
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve storage dir: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &DiskStore{basePath: abs}, nil
}

func (d *DiskStore) Dir() string {
	return d.basePath
}

// Save streams r into a temp file in the store and renames it into place,
// so a partially written upload is never visible under its final name.
func (d *DiskStore) Save(ctx context.Context, r io.Reader, _ int64, _ string) (string, error) {
	tmp, err := os.CreateTemp(d.basePath, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := io.Copy(tmp, readerWithContext(ctx, r)); err != nil {
		cleanup()
		return "", fmt.Errorf("write file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("close file: %w", err)
	}

	name := newName()
	if err := os.Rename(tmpName, filepath.Join(d.basePath, name)); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("store file: %w", err)
	}

	return name, nil
}

func (d *DiskStore) Open(_ context.Context, name string) (*Object, error) {
	target, err := d.resolve(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, ErrNotFound
	}

	return &Object{
		ReadSeekCloser: f,
		Name:           name,
		Size:           info.Size(),
		ModTime:        info.ModTime(),
	}, nil
}

// resolve maps name to a path and proves it stays inside basePath.
func (d *DiskStore) resolve(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if strings.HasPrefix(name, ".upload-") {
		return "", ErrNotFound
	}

	target := filepath.Join(d.basePath, name)

	rel, err := filepath.Rel(d.basePath, target)
	if err != nil || rel != filepath.Base(target) {
		return "", ErrInvalidName
	}

	return target, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
