package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStore keeps proofs on the local disk under a flat directory. The ref is
// the generated filename, never the caller-supplied one.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates the upload directory if needed
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save writes the file under a unique generated name and returns it as the ref
func (s *LocalStore) Save(ctx context.Context, r io.Reader, originalName string) (string, error) {
	ref := GenerateRef(originalName)

	f, err := os.Create(filepath.Join(s.dir, ref))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return ref, nil
}

// Delete removes a stored file; deleting a missing ref is not an error
func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(ref)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalStore) URL(ref string) string {
	return s.baseURL + "/" + ref
}

// GenerateRef builds a unique storage filename keeping the original extension
func GenerateRef(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	short := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("payment_%d_%s%s", time.Now().Unix(), short, ext)
}
