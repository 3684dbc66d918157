// Package storage keeps uploaded files in a single flat directory.
package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// FileStore writes uploads into the root of its filesystem. Writes are not
// locked: two uploads with the same sanitized name race and the last one wins.
type FileStore struct {
	fs afero.Fs
}

// NewFileStore roots the store at dir on the OS filesystem, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	return NewFileStoreFs(afero.NewOsFs(), dir)
}

// NewFileStoreFs is NewFileStore over an arbitrary afero filesystem.
// The BasePathFs wrapper refuses any path that resolves outside dir.
func NewFileStoreFs(base afero.Fs, dir string) (*FileStore, error) {
	if err := base.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", dir, err)
	}
	return &FileStore{fs: afero.NewBasePathFs(base, dir)}, nil
}

// Save stores r under the sanitized form of name and returns the stored name.
func (s *FileStore) Save(name string, r io.Reader) (string, error) {
	stored := SecureFilename(name)
	if stored == "" {
		stored = "upload-" + uuid.NewString()
	}

	f, err := s.fs.OpenFile("/"+stored, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %q: %w", stored, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write %q: %w", stored, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %q: %w", stored, err)
	}
	return stored, nil
}

// Count returns the number of regular files in the upload directory.
func (s *FileStore) Count() (int, error) {
	entries, err := afero.ReadDir(s.fs, "/")
	if err != nil {
		return 0, fmt.Errorf("list uploads: %w", err)
	}
	n := 0
	for _, e := range entries {
		if e.Mode().IsRegular() {
			n++
		}
	}
	return n, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename flattens name into a single safe path component: separators
// become spaces, whitespace runs become "_", anything outside [A-Za-z0-9_.-]
// is dropped and leading/trailing dots and underscores are trimmed. The
// result may be empty.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", " ")
	name = strings.ReplaceAll(name, "/", " ")
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")
	if name == "" || path.Base(name) != name {
		return ""
	}
	return name
}
