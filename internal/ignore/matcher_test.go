package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMatcher_DefaultAndUserOverrides(t *testing.T) {
	m := NewMatcher([]string{
		"vendor/**",
		"!vendor/keep/file.py",
		"*.tmp",
	})

	cases := []struct {
		path    string
		isDir   bool
		ignored bool
	}{
		{path: ".git/config", isDir: false, ignored: true},
		{path: "pkg/__pycache__/mod.cpython-312.pyc", isDir: false, ignored: true},
		{path: ".venv", isDir: true, ignored: true},
		{path: "src/app.egg-info", isDir: true, ignored: true},
		{path: "vendor/lib/a.py", isDir: false, ignored: true},
		{path: "vendor/keep/file.py", isDir: false, ignored: false},
		{path: "nested/cache.tmp", isDir: false, ignored: true},
		{path: "src/main.py", isDir: false, ignored: false},
	}

	for _, tc := range cases {
		got := m.ShouldIgnore(tc.path, tc.isDir)
		if got != tc.ignored {
			t.Fatalf("path %s: expected ignored=%v, got %v", tc.path, tc.ignored, got)
		}
	}
}

func TestMatcher_NegatedDirectoryRule(t *testing.T) {
	m := NewMatcher([]string{
		"generated/",
		"!generated/include/",
	})

	if !m.ShouldIgnore("generated/out/file.py", false) {
		t.Fatalf("expected generated/out/file.py to be ignored")
	}
	if m.ShouldIgnore("generated/include/file.py", false) {
		t.Fatalf("expected generated/include/file.py to be included")
	}
}

func TestMatcher_AnchoredRule(t *testing.T) {
	m := NewMatcher([]string{"/scripts/*.py"})
	if !m.ShouldIgnore("scripts/run.py", false) {
		t.Fatalf("expected anchored rule to match at the root")
	}
	if m.ShouldIgnore("pkg/scripts/run.py", false) {
		t.Fatalf("expected anchored rule not to match nested paths")
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("# comment\n\nlegacy/\n"), 0o644); err != nil {
		t.Fatalf("write ignore file: %v", err)
	}
	rules, err := LoadRules(root)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	if len(rules) != 1 || rules[0] != "legacy/" {
		t.Fatalf("unexpected rules %#v", rules)
	}

	m, err := Load(root)
	if err != nil {
		t.Fatalf("load matcher: %v", err)
	}
	if !m.ShouldIgnore("legacy/old.py", false) {
		t.Fatalf("expected legacy/ to be ignored")
	}

	empty := t.TempDir()
	if rules, err := LoadRules(empty); err != nil || rules != nil {
		t.Fatalf("expected no rules for missing file, got %#v (%v)", rules, err)
	}
}
