package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/skelly-dev/graft/internal/editor"
	"github.com/skelly-dev/graft/internal/fileutil"
	"github.com/skelly-dev/graft/internal/ignore"
	"github.com/skelly-dev/graft/internal/syntax"
)

// Extensions are the file extensions treated as Python source.
var Extensions = []string{".py", ".pyi", ".pyw"}

// FileOutline is the outline of one source file.
type FileOutline struct {
	Path      string         `json:"path" yaml:"path"`
	Hash      string         `json:"hash" yaml:"hash"`
	ModuleDoc string         `json:"module_doc,omitempty" yaml:"module_doc,omitempty"`
	Entries   []editor.Entry `json:"entries" yaml:"entries"`
	Text      string         `json:"-" yaml:"-"`
}

// Issue records a file that could not be outlined.
type Issue struct {
	File     string `json:"file" yaml:"file"`
	Severity string `json:"severity" yaml:"severity"`
	Message  string `json:"message" yaml:"message"`
}

// OutlineResult collects the outlines under one root.
type OutlineResult struct {
	Root   string        `json:"root" yaml:"root"`
	Files  []FileOutline `json:"files" yaml:"files"`
	Issues []Issue       `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// IsSource reports whether path has a Python source extension.
func IsSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range Extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// OutlineFile parses one file and returns its outline.
func (s *Service) OutlineFile(ctx context.Context, path string) (FileOutline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileOutline{}, err
	}
	prog, err := syntax.ParseContext(ctx, data)
	if err != nil {
		return FileOutline{}, fmt.Errorf("%s: %w", path, err)
	}
	return FileOutline{
		Path:      path,
		Hash:      fileutil.HashBytes(data),
		ModuleDoc: editor.ModuleDoc(prog),
		Entries:   editor.Entries(prog),
		Text:      editor.OutlineProgram(prog),
	}, nil
}

// OutlineDir outlines every source file under root that the ignore rules
// admit. Files that fail to parse are reported as issues; the walk continues.
// Results are sorted by path.
func (s *Service) OutlineDir(ctx context.Context, root string) (*OutlineResult, error) {
	matcher, err := ignore.Load(root)
	if err != nil {
		return nil, err
	}

	result := &OutlineResult{Root: root, Files: make([]FileOutline, 0)}
	var mu sync.Mutex
	addIssue := func(issue Issue) {
		mu.Lock()
		result.Issues = append(result.Issues, issue)
		mu.Unlock()
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(s.parallel)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		relPath := path
		if rel, relErr := filepath.Rel(root, path); relErr == nil {
			relPath = filepath.ToSlash(rel)
		}
		if err != nil {
			addIssue(Issue{File: relPath, Severity: "warning", Message: fmt.Sprintf("walk error: %v", err)})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if gctx.Err() != nil {
			return gctx.Err()
		}
		if relPath != "." && matcher.ShouldIgnore(relPath, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsSource(path) {
			return nil
		}

		group.Go(func() error {
			outline, err := s.OutlineFile(gctx, path)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				addIssue(Issue{File: relPath, Severity: "error", Message: strings.TrimPrefix(err.Error(), path+": ")})
				return nil
			}
			outline.Path = relPath
			mu.Lock()
			result.Files = append(result.Files, outline)
			if s.progress != nil {
				s.progress(relPath, len(result.Files))
			}
			mu.Unlock()
			return nil
		})
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})
	sort.Slice(result.Issues, func(i, j int) bool {
		if result.Issues[i].File == result.Issues[j].File {
			return result.Issues[i].Message < result.Issues[j].Message
		}
		return result.Issues[i].File < result.Issues[j].File
	})
	s.logger.Debug("outline", "root", root, "files", len(result.Files), "issues", len(result.Issues))
	return result, nil
}
