// Package archive persists composite analyses as JSON documents on a local
// filesystem or an S3-compatible bucket.
package archive

import (
	"context"
	"errors"
	"fmt"

	"github.com/newthinker/elite/internal/config"
)

// ErrNotFound is returned by Read when no object exists at the path.
var ErrNotFound = errors.New("archive object not found")

// Storage is a flat key/value blob store addressed by slash-separated paths.
type Storage interface {
	Write(ctx context.Context, path string, data []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	// List returns every path under prefix, relative to the store root, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}

// NewFromConfig builds the backend selected by cfg.Type
func NewFromConfig(cfg config.ArchiveConfig) (Storage, error) {
	switch cfg.Type {
	case "localfs", "":
		return NewLocalFS(cfg.Path)
	case "s3":
		return NewS3(cfg.S3)
	default:
		return nil, fmt.Errorf("unknown archive type %q", cfg.Type)
	}
}
