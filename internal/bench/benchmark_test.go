package bench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skelly-dev/graft/internal/editor"
	"github.com/skelly-dev/graft/internal/workspace"
)

func BenchmarkOutlineDir_MediumRepo(b *testing.B) {
	root := b.TempDir()
	createSyntheticPythonRepo(b, root, 250)
	svc := workspace.New(workspace.WithParallel(8))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result, err := svc.OutlineDir(context.Background(), root)
		if err != nil {
			b.Fatalf("outline failed: %v", err)
		}
		if len(result.Files) != 250 {
			b.Fatalf("expected 250 files, got %d", len(result.Files))
		}
	}
}

func BenchmarkReplace_LargeModule(b *testing.B) {
	src := syntheticModule(200)
	code := "def method_99(self):\n    return -1\n"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := editor.Replace(src, "Service_100.method_99", code); err != nil {
			b.Fatalf("replace failed: %v", err)
		}
	}
}

func BenchmarkOutline_LargeModule(b *testing.B) {
	src := syntheticModule(200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if out := editor.Outline(src); strings.HasPrefix(out, "Unable") {
			b.Fatalf("outline failed: %s", out)
		}
	}
}

func syntheticModule(classes int) string {
	var sb strings.Builder
	sb.WriteString("\"\"\"Synthetic module.\"\"\"\n\nimport os\n")
	for i := 0; i < classes; i++ {
		fmt.Fprintf(&sb, "\n\nclass Service_%d:\n    \"\"\"Service %d.\"\"\"\n", i, i)
		for j := 98; j < 101; j++ {
			fmt.Fprintf(&sb, "\n    def method_%d(self, value=%d):\n        return helper_%d(value)\n", j, j, i)
		}
		fmt.Fprintf(&sb, "\n\ndef helper_%d(value):\n    return value + %d\n", i, i)
	}
	return sb.String()
}

func createSyntheticPythonRepo(tb testing.TB, root string, files int) {
	tb.Helper()

	for i := 0; i < files; i++ {
		dir := filepath.Join(root, fmt.Sprintf("pkg%d", i%10))
		if err := os.MkdirAll(dir, 0755); err != nil {
			tb.Fatalf("mkdir failed: %v", err)
		}

		filePath := filepath.Join(dir, fmt.Sprintf("file_%03d.py", i))
		src := fmt.Sprintf(`def func_%d():
    return helper_%d()


def helper_%d():
    return %d
`, i, i, i, i)

		if err := os.WriteFile(filePath, []byte(src), 0644); err != nil {
			tb.Fatalf("write failed: %v", err)
		}
	}
}

func TestSyntheticModuleRoundTrip(t *testing.T) {
	src := syntheticModule(3)
	out, err := editor.Replace(src, "Service_1.method_99", "def method_99(self):\n    return -1\n")
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if got := editor.Extract(out, "Service_1.method_99"); got != "def method_99(self):\n    return -1\n" {
		t.Fatalf("unexpected extract %q", got)
	}
	if editor.Extract(out, "Service_2.method_99") != editor.Extract(src, "Service_2.method_99") {
		t.Fatalf("untouched method changed")
	}
}
