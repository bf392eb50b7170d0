package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/skelly-dev/graft/internal/workspace"
)

func TestParseMessage(t *testing.T) {
	content := "Detailed thoughts and plans: fix the method.\n\n" +
		"Command: Replace_Code_At_Address app.py \"C.f\"\n" +
		"```python\ndef f(self):\n    return 2\n```\n"

	msg := ParseMessage(content)
	if msg.Command != "replace_code_at_address" {
		t.Fatalf("unexpected command %q", msg.Command)
	}
	if diff := cmp.Diff([]string{"app.py", "C.f"}, msg.Args); diff != "" {
		t.Fatalf("unexpected args (-want +got):\n%s", diff)
	}
	if !msg.HasBlock || msg.Block != "def f(self):\n    return 2\n" {
		t.Fatalf("unexpected block %q", msg.Block)
	}
	if diff := cmp.Diff([]string{"app.py", "C.f", "def f(self):\n    return 2\n"}, msg.CallArgs()); diff != "" {
		t.Fatalf("unexpected call args (-want +got):\n%s", diff)
	}
}

func TestSplitArgs(t *testing.T) {
	got := SplitArgs(`a.py "def hello_world():" 'x y' plain`)
	want := []string{"a.py", "def hello_world():", "x y", "plain"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected args (-want +got):\n%s", diff)
	}
}

func TestMessageDone(t *testing.T) {
	cases := map[string]bool{
		"no command here":       true,
		"Command: done":         true,
		"Command: Finished.":    true,
		"Command: none":         true,
		"Command: read_x a.py":  false,
		"Commands: read_x a.py": true,
	}
	for content, want := range cases {
		if got := ParseMessage(content).Done(); got != want {
			t.Fatalf("%q: Done() = %v, want %v", content, got, want)
		}
	}
}

func newBuiltinRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry(nil)
	if err := RegisterBuiltins(reg, workspace.New()); err != nil {
		t.Fatalf("register builtins: %v", err)
	}
	return reg
}

func TestDispatchAddressTools(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.py")
	if err := os.WriteFile(path, []byte("class C:\n    def f(self):\n        return 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	reg := newBuiltinRegistry(t)
	ctx := context.Background()

	out := reg.Dispatch(ctx, "Command: replace_code_at_address "+path+" C.f\n```python\ndef f(self):\n    return 2\n```")
	if out != path+" successfully written." {
		t.Fatalf("unexpected reply %q", out)
	}

	out = reg.Dispatch(ctx, "Command: read_code_at_address "+path+" C.f")
	if out != "def f(self):\n    return 2\n" {
		t.Fatalf("unexpected extract %q", out)
	}

	out = reg.Dispatch(ctx, "Command: read_code_at_address "+path+" C.g")
	if out != "No code found at address 'C.g'." {
		t.Fatalf("unexpected missing reply %q", out)
	}

	out = reg.Dispatch(ctx, "Command: read_code_signatures_and_docstrings "+path)
	if out != "class C:\n\n    def f(self):\n        pass" {
		t.Fatalf("unexpected outline %q", out)
	}

	out = reg.Dispatch(ctx, "Command: remove_code_at_address "+path+" C.nonexistent")
	if !strings.HasPrefix(out, "Error executing command:") || !strings.Contains(out, "not found") {
		t.Fatalf("unexpected remove reply %q", out)
	}
}

func TestDispatchLineTools(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	reg := newBuiltinRegistry(t)
	ctx := context.Background()

	if out := reg.Dispatch(ctx, "Command: write_text_to_file "+path+"\n```\nstart\nend\n```"); out != path+" successfully written." {
		t.Fatalf("unexpected write reply %q", out)
	}
	out := reg.Dispatch(ctx, "Command: insert_text_between_matching_lines "+path+" start end\n```\nmiddle\n```")
	if out != path+" successfully written." {
		t.Fatalf("unexpected splice reply %q", out)
	}
	if got := reg.Dispatch(ctx, "Command: read_text_from_file "+path); got != "start\nmiddle\nend\n" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestDispatchErrors(t *testing.T) {
	reg := newBuiltinRegistry(t)
	ctx := context.Background()

	if out := reg.Dispatch(ctx, "Command: launch_rockets now"); out != "Error: Command not found" {
		t.Fatalf("unexpected reply %q", out)
	}
	if out := reg.Dispatch(ctx, "Command: read_code_at_address only_path.py"); !strings.HasPrefix(out, "Error: Arguments must be specified correctly") {
		t.Fatalf("unexpected reply %q", out)
	}
	if out := reg.Dispatch(ctx, "All good.\nCommand: done"); out != EndOfSession {
		t.Fatalf("unexpected reply %q", out)
	}
}

func TestBuiltinNames(t *testing.T) {
	reg := newBuiltinRegistry(t)
	if reg.Count() != 17 {
		t.Fatalf("expected 17 builtin tools, got %d: %v", reg.Count(), reg.Names())
	}
	if reg.Get("find_and_replace") == nil || reg.Get("replace_docstring_at_address") == nil {
		t.Fatalf("missing builtin tools: %v", reg.Names())
	}
}
