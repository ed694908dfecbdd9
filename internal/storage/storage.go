// Package storage keeps uploaded file bytes under server-generated names.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("stored file not found")
	ErrInvalidName = errors.New("invalid stored file name")
)

// Object is an opened stored file. Callers must Close it.
type Object struct {
	io.ReadSeekCloser
	Name        string
	Size        int64
	ContentType string
	ModTime     time.Time
}

type Store interface {
	// Save writes r under a fresh name and returns that name.
	Save(ctx context.Context, r io.Reader, size int64, contentType string) (string, error)
	// Open returns the bytes stored under name.
	Open(ctx context.Context, name string) (*Object, error)
}

func newName() string {
	return uuid.NewString()
}

// ValidateName rejects anything that could address a file outside the
// store, even though Save never produces such names.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return ErrInvalidName
	case len(name) > 255:
		return ErrInvalidName
	case strings.ContainsAny(name, `/\`+"\x00"):
		return ErrInvalidName
	case strings.Contains(name, ".."):
		return ErrInvalidName
	}
	return nil
}
