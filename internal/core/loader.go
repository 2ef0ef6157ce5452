package core

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Rorical/RoriDocs/internal/markdown"
)

// ErrNotAFile is returned when a selection resolves to a directory
var ErrNotAFile = errors.New("not a regular file")

// NavigationError means the selected file could not be loaded
type NavigationError struct {
	Path string
	Err  error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// Loader reads and parses a selected document
type Loader interface {
	Load(ctx context.Context, path string) (*markdown.Document, error)
}

var _ Loader = FileLoader{}

// FileLoader loads markdown files from the local filesystem
type FileLoader struct{}

// Load reads path and parses it as markdown
func (FileLoader) Load(ctx context.Context, path string) (*markdown.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &NavigationError{Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &NavigationError{Path: path, Err: ErrNotAFile}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &NavigationError{Path: path, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return markdown.Parse(path, data), nil
}
