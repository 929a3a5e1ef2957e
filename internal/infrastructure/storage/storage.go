// Package storage keeps uploaded documents under paths relative to the
// upload root, on local disk or in a MinIO bucket.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidPath = errors.New("invalid file path")
)

// Store is implemented by Disk and MinioStore. Paths are slash-separated and
// relative to the upload root.
type Store interface {
	Put(ctx context.Context, rel string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, rel string) (io.ReadCloser, error)
	Exists(ctx context.Context, rel string) (bool, error)
	Delete(ctx context.Context, rel string) error
}

// Clean normalises rel and rejects absolute paths and parent traversal.
func Clean(rel string) (string, error) {
	rel = strings.TrimSpace(strings.ReplaceAll(rel, "\\", "/"))
	if rel == "" || strings.HasPrefix(rel, "/") {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." {
			return "", ErrInvalidPath
		}
	}
	c := path.Clean(rel)
	if c == "." {
		return "", ErrInvalidPath
	}
	return c, nil
}

// Join builds a store path from clean segments.
func Join(elem ...string) string { return path.Join(elem...) }

var legacyPrefixes = []string{"static/uploads/", "uploads/"}

// Resolve finds the stored object for a path recorded on an attachment row.
// Older rows hold paths relative to the loans folder, newer ones relative to
// the upload root, and some carry the public "static/uploads/" prefix.
func Resolve(ctx context.Context, s Store, folder, stored string) (string, error) {
	p, err := Clean(stored)
	if err != nil {
		return "", err
	}
	candidates := []string{path.Join(folder, p), p}
	for _, prefix := range legacyPrefixes {
		if rest, ok := strings.CutPrefix(p, prefix); ok && rest != "" {
			candidates = append(candidates, rest, path.Join(folder, rest))
		}
	}
	for _, c := range candidates {
		ok, err := s.Exists(ctx, c)
		if err != nil {
			return "", err
		}
		if ok {
			return c, nil
		}
	}
	return "", ErrNotFound
}
