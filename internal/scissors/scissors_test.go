package scissors

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sample = `def hello_world():
    print("Hello, World!")
    return None

def goodbye_world():
    print("Goodbye, World!")
    return None
`

func TestInsertBeforeLine(t *testing.T) {
	got, err := InsertBeforeLine(sample, "def hello_world():", "# This is a new comment")
	if err != nil {
		t.Fatalf("insert before failed: %v", err)
	}
	if !strings.HasPrefix(got, "# This is a new comment\ndef hello_world():\n") {
		t.Fatalf("unexpected output:\n%s", got)
	}

	got, err = InsertBeforeLine("", "anything", "x = 1\n")
	if err != nil || got != "x = 1\n" {
		t.Fatalf("expected new code for empty input, got %q (%v)", got, err)
	}
}

func TestInsertAfterLine(t *testing.T) {
	got, err := InsertAfterLine(sample, `print("Hello, World!")`, "    print('Additional line')")
	if err != nil {
		t.Fatalf("insert after failed: %v", err)
	}
	if !strings.Contains(got, "    print(\"Hello, World!\")\n    print('Additional line')\n    return None\n") {
		t.Fatalf("unexpected output:\n%s", got)
	}

	got, err = InsertAfterLine("a = 1\nb = 2\n", "b = 2", "c = 3\n")
	if err != nil {
		t.Fatalf("insert after last line failed: %v", err)
	}
	if got != "a = 1\nb = 2\nc = 3\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestReplaceBeforeAndAfterLine(t *testing.T) {
	got, err := ReplaceBeforeLine(sample, "def goodbye_world():", "def new_function():\n    pass\n")
	if err != nil {
		t.Fatalf("replace before failed: %v", err)
	}
	if strings.Contains(got, "hello_world") || !strings.HasPrefix(got, "def new_function():\n    pass\ndef goodbye_world():") {
		t.Fatalf("unexpected output:\n%s", got)
	}

	got, err = ReplaceAfterLine(sample, "def goodbye_world():", "    return 'Goodbye'\n")
	if err != nil {
		t.Fatalf("replace after failed: %v", err)
	}
	if !strings.HasSuffix(got, "def goodbye_world():\n    return 'Goodbye'\n") {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestBetweenLines(t *testing.T) {
	text := "start\nold one\nold two\nend\ntail\n"

	got, err := ReplaceBetweenLines(text, "start", "end", "new")
	if err != nil {
		t.Fatalf("replace between failed: %v", err)
	}
	if diff := cmp.Diff("start\nnew\nend\ntail\n", got); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}

	got, err = InsertBetweenLines(text, "start", "end", "new")
	if err != nil {
		t.Fatalf("insert between failed: %v", err)
	}
	if diff := cmp.Diff("start\nnew\nold one\nold two\nend\ntail\n", got); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}

	if _, err := ReplaceBetweenLines("end\nstart\n", "start", "end", "x"); !errors.Is(err, ErrCuttingPointNotFound) {
		t.Fatalf("expected second marker to be searched after the first, got %v", err)
	}
}

func TestMissingCuttingPoint(t *testing.T) {
	for _, mode := range Modes {
		_, err := Apply(sample, Cut{Mode: mode, First: "non_existent_line", Second: "return None", Text: "x"})
		if !errors.Is(err, ErrCuttingPointNotFound) {
			t.Fatalf("%s: expected ErrCuttingPointNotFound, got %v", mode, err)
		}
	}
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("insert-between")
	if err != nil || mode != InsertBetween || !mode.Between() {
		t.Fatalf("unexpected mode %q (%v)", mode, err)
	}
	if _, err := ParseMode("cut_everything"); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}

func TestFindReplace(t *testing.T) {
	src := "def greeting():\n    print(\"Hello\")\n"
	command := "<<<<<<< SEARCH\ndef greeting():\n    print(\"Hello\")\n=======\ndef greeting():\n    print(\"Goodbye\")\n>>>>>>> REPLACE\n"
	got, err := FindReplace(src, command)
	if err != nil {
		t.Fatalf("find replace failed: %v", err)
	}
	if got != "def greeting():\n    print(\"Goodbye\")\n" {
		t.Fatalf("unexpected output %q", got)
	}

	if _, err := FindReplace(src, "no block here"); !errors.Is(err, ErrMalformedBlock) {
		t.Fatalf("expected ErrMalformedBlock, got %v", err)
	}

	missing := "<<<<<<< SEARCH\nnothing\n=======\nsomething\n>>>>>>> REPLACE"
	if _, err := FindReplace(src, missing); !errors.Is(err, ErrSearchTextNotFound) {
		t.Fatalf("expected ErrSearchTextNotFound, got %v", err)
	}
}

func TestFindReplaceAppliesBlocksInOrder(t *testing.T) {
	command := "<<<<<<< SEARCH\na\n=======\nb\n>>>>>>> REPLACE\n<<<<<<< SEARCH\nb\n=======\nc\n>>>>>>> REPLACE\n"
	got, err := FindReplace("a\n", command)
	if err != nil {
		t.Fatalf("find replace failed: %v", err)
	}
	if got != "c\n" {
		t.Fatalf("unexpected output %q", got)
	}
}
