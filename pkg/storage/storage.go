// Package storage keeps uploaded files for upload form elements.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrOutsideRoot is returned when a stored path escapes the storage root.
var ErrOutsideRoot = errors.New("storage: path outside root")

// Storage persists uploads and resolves their public URLs.
type Storage interface {
	// Store writes the uploaded file under dir and returns its relative path.
	Store(ctx context.Context, file *multipart.FileHeader, dir string) (string, error)
	// Delete removes a previously stored file. Missing files are not an error.
	Delete(ctx context.Context, stored string) error
	// URL returns the public URL of a stored path.
	URL(stored string) string
}

// Local stores files on disk below Root and serves them from BaseURL.
type Local struct {
	Root    string
	BaseURL string
}

var _ Storage = (*Local)(nil)

// NewLocal returns a disk storage rooted at root.
func NewLocal(root, baseURL string) *Local {
	return &Local{
		Root:    filepath.Clean(strings.TrimSpace(root)),
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

// Store copies the upload to <root>/<dir>/<uuid><ext>. The random name keeps
// uploads with the same original name from colliding.
func (l *Local) Store(ctx context.Context, file *multipart.FileHeader, dir string) (string, error) {
	if file == nil {
		return "", errors.New("storage: no file")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	rel := path.Join(strings.Trim(filepath.ToSlash(dir), "/"), name)
	target, err := l.resolve(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("storage: create dir: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("storage: create %s: %w", rel, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("storage: write %s: %w", rel, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("storage: close %s: %w", rel, err)
	}
	return rel, nil
}

// Delete removes stored from disk.
func (l *Local) Delete(ctx context.Context, stored string) error {
	if strings.TrimSpace(stored) == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := l.resolve(stored)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", stored, err)
	}
	return nil
}

// URL joins BaseURL and stored.
func (l *Local) URL(stored string) string {
	stored = strings.TrimLeft(filepath.ToSlash(stored), "/")
	if stored == "" {
		return ""
	}
	if l.BaseURL == "" {
		return "/" + stored
	}
	return l.BaseURL + "/" + stored
}

func (l *Local) resolve(rel string) (string, error) {
	target := filepath.Join(l.Root, filepath.FromSlash(rel))
	within, err := filepath.Rel(l.Root, target)
	if err != nil || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, rel)
	}
	return target, nil
}
