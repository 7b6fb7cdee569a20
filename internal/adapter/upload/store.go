// Package upload keeps applicant documents on local disk.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrTooLarge        = errors.New("document too large")
)

type LocalStore struct {
	dir      string
	prefix   string
	maxBytes int64
}

// NewLocalStore stores files under dir and returns URLs under prefix.
func NewLocalStore(dir, prefix string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &LocalStore{dir: dir, prefix: strings.TrimRight(prefix, "/"), maxBytes: maxBytes}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

// Save sniffs the content, accepts images and PDFs, and returns the public URL.
func (s *LocalStore) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrTooLarge
	}
	mt := mimetype.Detect(data)
	if !allowed(mt) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}

	name := uuid.NewString() + mt.Extension()
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}
	return s.prefix + "/" + name, nil
}

// SaveAll stores every file in order. On the first failure it removes what
// it already wrote.
func (s *LocalStore) SaveAll(files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := s.saveHeader(fh)
		if err != nil {
			s.remove(urls)
			return nil, fmt.Errorf("%s: %w", fh.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *LocalStore) saveHeader(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return s.Save(f)
}

func (s *LocalStore) remove(urls []string) {
	for _, u := range urls {
		_ = os.Remove(filepath.Join(s.dir, filepath.Base(u)))
	}
}

func allowed(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("application/pdf") || strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}
