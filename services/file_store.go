package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStore keeps submission files outside the database.
type FileStore interface {
	Save(ctx context.Context, ext string, r io.Reader) (string, error)
	Delete(path string) error
}

// LocalFileStore writes files below root, grouped by upload month.
type LocalFileStore struct {
	root string
	now  func() time.Time
}

func NewLocalFileStore(root string) *LocalFileStore {
	if strings.TrimSpace(root) == "" {
		root = "./uploads"
	}
	return &LocalFileStore{root: root, now: time.Now}
}

// Save stores r under submissions/YYYY/MM/<uuid><ext> and returns the path relative to root.
func (s *LocalFileStore) Save(ctx context.Context, ext string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel := filepath.Join("submissions", s.now().Format("2006/01"), uuid.NewString()+strings.ToLower(ext))
	full := filepath.Join(s.root, rel)
	if err := os.MkdirAll(filepath.Dir(full), os.ModePerm); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

// Delete removes a stored file; a missing file is not an error.
func (s *LocalFileStore) Delete(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return fmt.Errorf("refusing to delete %q outside the upload root", path)
	}
	if err := os.Remove(filepath.Join(s.root, clean)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}
