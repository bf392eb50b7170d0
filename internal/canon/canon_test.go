package canon

import (
	"errors"
	"testing"

	"github.com/skelly-dev/graft/internal/syntax"
)

func TestFormatIsIdempotent(t *testing.T) {
	sources := []string{
		"import os\ndef f(x):\n  return x\nclass C:\n  def g(self): return 1\n",
		"\"\"\"Module.\"\"\"\n\n\n\n\nX = 1\n\n\n\n\nY = 2\n",
		"class A:\n    class B:\n        def c(self):\n            '''Doc.\n            '''\n",
	}
	f := Default()
	for _, src := range sources {
		once, err := f.Format(src)
		if err != nil {
			t.Fatalf("format failed: %v", err)
		}
		twice, err := f.Format(once)
		if err != nil {
			t.Fatalf("second format failed: %v", err)
		}
		if once != twice {
			t.Fatalf("format is not idempotent:\nonce:\n%s\ntwice:\n%s", once, twice)
		}
	}
}

func TestFormatRejectsInvalidSyntax(t *testing.T) {
	_, err := Format("def f(:\n    pass\n")
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *FormatError, got %T (%v)", err, err)
	}
	var perr *syntax.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected wrapped parse error, got %v", err)
	}
}

func TestFormatRejectsTabIndentation(t *testing.T) {
	src := "def f():\n\treturn 1\n"
	_, err := Format(src)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if !Valid(src) {
		t.Fatalf("expected tab-indented program to be valid")
	}
}

func TestFormatUsesConfiguredIndent(t *testing.T) {
	got, err := New(2, 1).Format("class A:\n    def f(self):\n        return 1\n")
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	want := "class A:\n  def f(self):\n    return 1\n"
	if got != want {
		t.Fatalf("unexpected output:\n%q\nwant\n%q", got, want)
	}
}

func TestValid(t *testing.T) {
	if !Valid("x = 1\n") {
		t.Fatalf("expected valid program")
	}
	if Valid("x = = 1\n") {
		t.Fatalf("expected invalid program")
	}
}
