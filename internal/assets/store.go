// Package assets stores uploaded product images on local disk.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"storefront-admin/internal/domain"
)

// MaxImageBytes bounds a single upload.
const MaxImageBytes = 10 << 20

type Store struct {
	dir     string
	baseURL string
	logger  *log.Logger
}

func New(dir, baseURL string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

func (s *Store) Dir() string {
	return s.dir
}

// Save sniffs the content type, rejects anything that is not an image and
// writes the bytes under a random name. It returns the public URL.
func (s *Store) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload %s: %w", name, err)
	}
	if len(data) > MaxImageBytes {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrInvalidField, name, MaxImageBytes)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		s.logger.Printf("assets: rejected file=%s type=%s", name, mtype.String())
		return "", fmt.Errorf("%w: %s is %s, not an image", domain.ErrInvalidField, name, mtype.String())
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create assets dir: %w", err)
	}
	filename := uuid.NewString() + mtype.Extension()
	if err := writeFile(filepath.Join(s.dir, filename), data); err != nil {
		return "", err
	}
	s.logger.Printf("assets: stored file=%s as=%s type=%s bytes=%d", name, filename, mtype.String(), len(data))
	return s.baseURL + "/" + filename, nil
}

func writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
