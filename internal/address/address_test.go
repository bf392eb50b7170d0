package address

import (
	"errors"
	"strings"
	"testing"

	"github.com/skelly-dev/graft/internal/syntax"
)

const nested = `class Outer:
    class Inner:
        def method(self):
            return "nested"

    def method(self):
        return "outer"


class Inner:
    def method(self):
        return "top"


def factory():
    class Inner:
        def method(self):
            return "local"
    return Inner


CONSTANT = 1
`

func mustParse(t *testing.T, src string) *syntax.Program {
	t.Helper()
	prog, err := syntax.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return prog
}

func TestParse(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "f", want: "f"},
		{in: "Outer.Inner.method", want: "Outer.Inner.method"},
		{in: "  _private  ", want: "_private"},
		{in: "", wantErr: true},
		{in: "A..b", wantErr: true},
		{in: "A.1b", wantErr: true},
		{in: "A.b-c", wantErr: true},
		{in: ".a", wantErr: true},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidAddress) {
				t.Fatalf("Parse(%q): expected ErrInvalidAddress, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", tc.in, err)
		}
		if got.String() != tc.want {
			t.Fatalf("Parse(%q) = %q, want %q", tc.in, got.String(), tc.want)
		}
	}
}

func TestContainerAndLeaf(t *testing.T) {
	addr, err := Parse("A.B.c")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if addr.Leaf() != "c" {
		t.Fatalf("expected leaf c, got %q", addr.Leaf())
	}
	if addr.Container().String() != "A.B" {
		t.Fatalf("expected container A.B, got %q", addr.Container().String())
	}
	single, _ := Parse("f")
	if !single.Container().IsRoot() {
		t.Fatalf("expected single segment container to be the root")
	}
}

func TestResolveFollowsDirectClassNesting(t *testing.T) {
	prog := mustParse(t, nested)
	cases := []struct {
		addr string
		want string
		ok   bool
	}{
		{addr: "Outer.Inner.method", want: `"nested"`, ok: true},
		{addr: "Outer.method", want: `"outer"`, ok: true},
		{addr: "Inner.method", want: `"top"`, ok: true},
		{addr: "CONSTANT", ok: true},
		{addr: "factory", ok: true},
		{addr: "factory.Inner.method", ok: false},
		{addr: "Outer.Inner.missing", ok: false},
		{addr: "method", ok: false},
	}
	for _, tc := range cases {
		addr, err := Parse(tc.addr)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.addr, err)
		}
		m, ok := Resolve(prog, addr)
		if ok != tc.ok {
			t.Fatalf("Resolve(%q) found=%v, want %v", tc.addr, ok, tc.ok)
		}
		if !ok {
			continue
		}
		if m.Path.String() != tc.addr {
			t.Fatalf("Resolve(%q) path = %q", tc.addr, m.Path.String())
		}
		if tc.want != "" && !strings.Contains(prog.Text(m.Node), tc.want) {
			t.Fatalf("Resolve(%q) matched wrong node:\n%s", tc.addr, prog.Text(m.Node))
		}
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	prog := mustParse(t, "def f():\n    return 1\n\n\ndef f():\n    return 2\n")
	addr, _ := Parse("f")
	m, ok := Resolve(prog, addr)
	if !ok {
		t.Fatalf("expected f to resolve")
	}
	if m.Index != 0 || m.Parent != nil {
		t.Fatalf("expected first top-level f, got index %d parent %v", m.Index, m.Parent)
	}
}

func TestResolveContainer(t *testing.T) {
	prog := mustParse(t, nested)

	addr, _ := Parse("Outer.Inner.new_method")
	container, ok := ResolveContainer(prog, addr)
	if !ok || container == nil || container.Name != "Inner" {
		t.Fatalf("expected Outer.Inner container, got %v %v", container, ok)
	}

	addr, _ = Parse("factory.helper")
	if _, ok := ResolveContainer(prog, addr); ok {
		t.Fatalf("functions must not act as containers")
	}

	addr, _ = Parse("Missing.method")
	if _, ok := ResolveContainer(prog, addr); ok {
		t.Fatalf("expected missing container")
	}

	addr, _ = Parse("top_level")
	if container, ok := ResolveContainer(prog, addr); !ok || container != nil {
		t.Fatalf("expected root container, got %v %v", container, ok)
	}
}

func TestWalkOrder(t *testing.T) {
	prog := mustParse(t, nested)
	var got []string
	Walk(prog, func(m Match) bool {
		got = append(got, m.Path.String())
		return true
	})
	want := []string{
		"Outer", "Outer.Inner", "Outer.Inner.method", "Outer.method",
		"Inner", "Inner.method", "factory", "CONSTANT",
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected walk order:\n got %v\nwant %v", got, want)
	}
}
