package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/skelly-dev/graft/internal/editor"
	"github.com/skelly-dev/graft/internal/scissors"
)

const module = `class C:
    def f(self):
        return 1
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestApplyWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mod.py")
	writeFile(t, path, module)

	svc := New(WithBackup(true))
	change, err := svc.Apply(path, editor.Edit{
		Op:      editor.OpReplace,
		Address: "C.f",
		Code:    "def f(self):\n    return 2\n",
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !change.Found || !change.Written || !change.Formatted {
		t.Fatalf("unexpected change %#v", change)
	}
	want := "class C:\n    def f(self):\n        return 2\n"
	if diff := cmp.Diff(want, readFile(t, path)); diff != "" {
		t.Fatalf("unexpected file content (-want +got):\n%s", diff)
	}
	if got := readFile(t, path+".bak"); got != module {
		t.Fatalf("unexpected backup %q", got)
	}
}

func TestApplyDryRunLeavesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mod.py")
	writeFile(t, path, module)

	change, err := New(WithDryRun(true)).Apply(path, editor.Edit{Op: editor.OpRemove, Address: "C.f"})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if change.Written || !change.Changed() {
		t.Fatalf("unexpected change %#v", change)
	}
	if got := readFile(t, path); got != module {
		t.Fatalf("dry run modified the file: %q", got)
	}
}

func TestApplyNotFoundKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mod.py")
	writeFile(t, path, module)

	_, err := New().Apply(path, editor.Edit{Op: editor.OpRemove, Address: "C.nonexistent"})
	if !errors.Is(err, editor.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := readFile(t, path); got != module {
		t.Fatalf("failed edit modified the file: %q", got)
	}
}

func TestApplyCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.py")

	change, err := New().Apply(path, editor.Edit{Op: editor.OpCreate, Address: "g", Code: "def g():\n    pass\n"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !change.Written {
		t.Fatalf("expected new file to be written")
	}
	if got := readFile(t, path); got != "def g():\n    pass\n" {
		t.Fatalf("unexpected content %q", got)
	}

	_, err = New().Apply(filepath.Join(t.TempDir(), "absent.py"), editor.Edit{Op: editor.OpRemove, Address: "g"})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestSpliceAndFindReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	writeFile(t, path, "start\nold\nend\n")

	svc := New()
	if _, err := svc.Splice(path, scissors.Cut{Mode: scissors.ReplaceBetween, First: "start", Second: "end", Text: "new"}); err != nil {
		t.Fatalf("splice failed: %v", err)
	}
	if got := readFile(t, path); got != "start\nnew\nend\n" {
		t.Fatalf("unexpected splice result %q", got)
	}

	command := "<<<<<<< SEARCH\nnew\n=======\nnewer\n>>>>>>> REPLACE"
	if _, err := svc.FindReplace(path, command); err != nil {
		t.Fatalf("find replace failed: %v", err)
	}
	if got := readFile(t, path); got != "start\nnewer\nend\n" {
		t.Fatalf("unexpected find replace result %q", got)
	}

	if _, err := svc.Splice(path, scissors.Cut{Mode: scissors.InsertAfter, First: "missing", Text: "x"}); !errors.Is(err, scissors.ErrCuttingPointNotFound) {
		t.Fatalf("expected ErrCuttingPointNotFound, got %v", err)
	}
}

func TestWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "out.txt")
	svc := New()
	change, err := svc.Write(path, "hello\n")
	if err != nil || !change.Written {
		t.Fatalf("write failed: %#v (%v)", change, err)
	}
	got, err := svc.Read(path)
	if err != nil || got != "hello\n" {
		t.Fatalf("read returned %q (%v)", got, err)
	}
}

func TestOutlineDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.py"), "def b():\n    \"\"\"Bee.\"\"\"\n")
	writeFile(t, filepath.Join(root, "pkg", "a.py"), "class A:\n    def m(self):\n        pass\n")
	writeFile(t, filepath.Join(root, "pkg", "broken.py"), "def broken(:\n")
	writeFile(t, filepath.Join(root, "pkg", "__pycache__", "a.py"), "def cached():\n    pass\n")
	writeFile(t, filepath.Join(root, "legacy", "old.py"), "def old():\n    pass\n")
	writeFile(t, filepath.Join(root, "README.md"), "# readme\n")
	writeFile(t, filepath.Join(root, ".graftignore"), "legacy/\n")

	result, err := New(WithParallel(2)).OutlineDir(context.Background(), root)
	if err != nil {
		t.Fatalf("outline failed: %v", err)
	}

	paths := make([]string, 0, len(result.Files))
	for _, file := range result.Files {
		paths = append(paths, file.Path)
	}
	if diff := cmp.Diff([]string{"b.py", "pkg/a.py"}, paths); diff != "" {
		t.Fatalf("unexpected files (-want +got):\n%s", diff)
	}
	if len(result.Issues) != 1 || result.Issues[0].File != "pkg/broken.py" || result.Issues[0].Severity != "error" {
		t.Fatalf("unexpected issues %#v", result.Issues)
	}
	if !strings.Contains(result.Issues[0].Message, "parse error") {
		t.Fatalf("expected parse error message, got %q", result.Issues[0].Message)
	}

	a := result.Files[1]
	if len(a.Entries) != 2 || a.Entries[1].Address != "A.m" {
		t.Fatalf("unexpected entries %#v", a.Entries)
	}
	if a.Text != "class A:\n\n    def m(self):\n        pass" {
		t.Fatalf("unexpected outline text %q", a.Text)
	}
	if result.Files[0].Entries[0].Docstring != "Bee." {
		t.Fatalf("expected docstring in entries, got %#v", result.Files[0].Entries)
	}
}

func TestOutlineDirCanceled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.py"), "x = 1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().OutlineDir(ctx, root); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestIsSource(t *testing.T) {
	cases := map[string]bool{"a.py": true, "b.PYI": true, "c.pyw": true, "d.go": false, "py": false}
	for path, want := range cases {
		if got := IsSource(path); got != want {
			t.Fatalf("IsSource(%q) = %v, want %v", path, got, want)
		}
	}
}
