package loan

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	domain "tuka-portal/internal/domain/loan"
	"tuka-portal/internal/infrastructure/storage"
	"tuka-portal/pkg/id"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// safeName reduces a client filename to a portable base name.
func safeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(strings.TrimSpace(name), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}

type signature struct {
	data        []byte
	contentType string
	ext         string
}

// decodeSignature parses "data:image/png;base64,...". Empty input yields nil.
func decodeSignature(raw string) (*signature, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	header, payload, ok := strings.Cut(raw, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: signature must be a base64 data URI", domain.ErrInvalidForm)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, fmt.Errorf("%w: signature is not valid base64", domain.ErrInvalidForm)
	}
	ct := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	ext := ".png"
	switch ct {
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	case "image/svg+xml":
		ext = ".svg"
	}
	return &signature{data: data, contentType: ct, ext: ext}, nil
}

// fileWriter saves uploads for one application and records every path it
// wrote so a failed transaction can remove them again.
type fileWriter struct {
	store   storage.Store
	number  string
	written []string
}

func (w *fileWriter) path(folder, filename string) string {
	return storage.Join(folder, w.number, id.ShortToken(8)+"_"+safeName(filename))
}

func (w *fileWriter) saveUpload(ctx context.Context, doc domain.Document, up Upload) (string, error) {
	rc, err := up.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", up.Field, err)
	}
	defer rc.Close()

	rel := w.path(doc.Folder, up.Filename)
	if err := w.store.Put(ctx, rel, rc, up.Size, up.ContentType); err != nil {
		return "", fmt.Errorf("store %s: %w", up.Field, err)
	}
	w.written = append(w.written, rel)
	return rel, nil
}

func (w *fileWriter) saveSignature(ctx context.Context, sig *signature) (string, error) {
	rel := w.path(domain.FolderSignatures, "signature"+sig.ext)
	if err := w.store.Put(ctx, rel, bytes.NewReader(sig.data), int64(len(sig.data)), sig.contentType); err != nil {
		return "", fmt.Errorf("store signature: %w", err)
	}
	w.written = append(w.written, rel)
	return rel, nil
}

// discard removes everything written so far; failures are only logged.
func (w *fileWriter) discard(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for _, rel := range w.written {
		if err := w.store.Delete(ctx, rel); err != nil {
			slog.Warn("upload cleanup failed", "path", rel, "err", err)
		}
	}
	w.written = nil
}
