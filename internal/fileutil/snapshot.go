package fileutil

import (
	"bytes"
	"errors"
	"fmt"
	"os"
)

// ErrConcurrentModification is returned by Commit when the file changed after
// its snapshot was taken.
var ErrConcurrentModification = errors.New("file changed since it was read")

// Snapshot is the content of a file at read time.
type Snapshot struct {
	Path   string
	Data   []byte
	Hash   string
	Mode   os.FileMode
	Exists bool
}

// ReadSnapshot reads path. A missing file yields an empty snapshot with
// Exists unset, so new files can be created through Commit.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Snapshot{Path: path, Hash: HashBytes(nil), Mode: 0o644}, nil
		}
		return nil, err
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return &Snapshot{Path: path, Data: data, Hash: HashBytes(data), Mode: mode, Exists: true}, nil
}

// Text returns the snapshot content as a string.
func (s *Snapshot) Text() string {
	return string(s.Data)
}

// CommitOptions controls Commit.
type CommitOptions struct {
	// Backup keeps the previous content in a ".bak" file next to the target.
	Backup bool
}

// Commit replaces the file with data if it still matches the snapshot. It
// reports whether the file was written; unchanged content is not rewritten.
func (s *Snapshot) Commit(data []byte, opts CommitOptions) (bool, error) {
	if s.Exists && bytes.Equal(data, s.Data) {
		return false, nil
	}

	current, err := os.ReadFile(s.Path)
	switch {
	case err == nil:
		if !s.Exists || HashBytes(current) != s.Hash {
			return false, fmt.Errorf("%s: %w", s.Path, ErrConcurrentModification)
		}
	case os.IsNotExist(err):
		if s.Exists {
			return false, fmt.Errorf("%s: %w", s.Path, ErrConcurrentModification)
		}
	default:
		return false, err
	}

	if opts.Backup && s.Exists {
		if err := WriteAtomic(s.Path+".bak", s.Data, s.Mode); err != nil {
			return false, fmt.Errorf("failed to write backup: %w", err)
		}
	}
	if err := WriteAtomic(s.Path, data, s.Mode); err != nil {
		return false, err
	}

	s.Data = data
	s.Hash = HashBytes(data)
	s.Exists = true
	return true, nil
}
