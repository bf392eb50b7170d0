// Package workspace applies edits and splices to files on disk.
package workspace

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/skelly-dev/graft/internal/editor"
	"github.com/skelly-dev/graft/internal/fileutil"
	"github.com/skelly-dev/graft/internal/scissors"
)

// Change describes one file edit. Written is false for previews and for
// edits that left the content unchanged.
type Change struct {
	Path      string `json:"path"`
	Before    string `json:"-"`
	After     string `json:"-"`
	Found     bool   `json:"found"`
	Formatted bool   `json:"formatted"`
	Written   bool   `json:"written"`
}

// Changed reports whether the edit altered the content.
func (c Change) Changed() bool {
	return c.Before != c.After
}

// Service reads, edits and commits files.
type Service struct {
	editor   *editor.Editor
	logger   *slog.Logger
	backup   bool
	dryRun   bool
	parallel int
	progress func(file string, done int)
}

// Option configures a Service.
type Option func(*Service)

// WithEditor sets the editor used for structural edits.
func WithEditor(e *editor.Editor) Option {
	return func(s *Service) {
		s.editor = e
	}
}

// WithLogger sets the logger for write outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithBackup keeps the previous content of every written file in a ".bak"
// file.
func WithBackup(backup bool) Option {
	return func(s *Service) {
		s.backup = backup
	}
}

// WithDryRun computes changes without writing them.
func WithDryRun(dryRun bool) Option {
	return func(s *Service) {
		s.dryRun = dryRun
	}
}

// WithParallel bounds the number of files outlined concurrently.
func WithParallel(n int) Option {
	return func(s *Service) {
		s.parallel = n
	}
}

// WithProgress sets a callback invoked after each file a directory outline
// completes. Calls are serialized.
func WithProgress(fn func(file string, done int)) Option {
	return func(s *Service) {
		s.progress = fn
	}
}

// New returns a Service with the default editor.
func New(opts ...Option) *Service {
	s := &Service{
		editor:   editor.New(),
		logger:   slog.New(slog.DiscardHandler),
		parallel: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.parallel < 1 {
		s.parallel = 1
	}
	return s
}

// Apply performs a structural edit on the file at path. Create operations
// may target a file that does not exist yet.
func (s *Service) Apply(path string, edit editor.Edit) (Change, error) {
	snap, err := fileutil.ReadSnapshot(path)
	if err != nil {
		return Change{}, err
	}
	if !snap.Exists && edit.Op != editor.OpCreate {
		return Change{}, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}

	res, err := s.editor.Apply(snap.Text(), edit)
	if err != nil {
		return Change{}, fmt.Errorf("%s: %w", path, err)
	}
	change := Change{
		Path:      path,
		Before:    snap.Text(),
		After:     res.Text,
		Found:     res.Found,
		Formatted: res.Formatted,
	}
	if err := s.commit(snap, &change); err != nil {
		return Change{}, err
	}
	s.logger.Info("edit",
		"path", path,
		"op", string(edit.Op),
		"address", edit.Address,
		"found", change.Found,
		"written", change.Written,
	)
	return change, nil
}

// Splice applies a line-oriented cut to the file at path.
func (s *Service) Splice(path string, cut scissors.Cut) (Change, error) {
	return s.transform(path, string(cut.Mode), func(text string) (string, error) {
		return scissors.Apply(text, cut)
	})
}

// FindReplace applies SEARCH/REPLACE blocks to the file at path.
func (s *Service) FindReplace(path, command string) (Change, error) {
	return s.transform(path, "find_replace", func(text string) (string, error) {
		return scissors.FindReplace(text, command)
	})
}

// Write replaces the content of path, creating it if necessary.
func (s *Service) Write(path, text string) (Change, error) {
	return s.transform(path, "write", func(string) (string, error) {
		return text, nil
	})
}

// Read returns the content of path.
func (s *Service) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Service) transform(path, op string, fn func(string) (string, error)) (Change, error) {
	snap, err := fileutil.ReadSnapshot(path)
	if err != nil {
		return Change{}, err
	}
	if !snap.Exists && op != "write" {
		return Change{}, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	out, err := fn(snap.Text())
	if err != nil {
		return Change{}, fmt.Errorf("%s: %w", path, err)
	}
	change := Change{Path: path, Before: snap.Text(), After: out, Found: true}
	if err := s.commit(snap, &change); err != nil {
		return Change{}, err
	}
	s.logger.Info("splice", "path", path, "op", op, "written", change.Written)
	return change, nil
}

func (s *Service) commit(snap *fileutil.Snapshot, change *Change) error {
	if s.dryRun {
		return nil
	}
	if snap.Exists && !change.Changed() {
		return nil
	}
	written, err := snap.Commit([]byte(change.After), fileutil.CommitOptions{Backup: s.backup})
	if err != nil {
		return err
	}
	change.Written = written
	return nil
}
