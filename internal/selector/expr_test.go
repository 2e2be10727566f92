package selector

import (
	"errors"
	"strings"
	"testing"
)

func TestEval(t *testing.T) {
	ns := Namespace{"linux": true, "unix": true, "win": false, "osx": false, "linux-64": true}

	tests := []struct {
		expr string
		want bool
	}{
		{"linux", true},
		{"win", false},
		{"not win", true},
		{"not not linux", true},
		{"linux and unix", true},
		{"linux and win", false},
		{"win or osx", false},
		{"win or linux", true},
		{"linux-64", true},
		{"(win or osx) and linux", false},
		{"not (win or osx)", true},
		{"win or linux and unix", true},
		{"(linux)", true},
		{"((linux))", true},
		{"True", true},
		{"false", false},
		{"not false and linux", true},
	}
	for _, tt := range tests {
		got, err := Eval(tt.expr, ns)
		if err != nil {
			t.Errorf("Eval(%q): %v", tt.expr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Eval(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestEvalUndefined(t *testing.T) {
	_, err := Eval("linux and cuda", Namespace{"linux": true})
	var undef *UndefinedError
	if !errors.As(err, &undef) {
		t.Fatalf("err = %v, want *UndefinedError", err)
	}
	if undef.Name != "cuda" {
		t.Errorf("Name = %q, want cuda", undef.Name)
	}
}

func TestEvalShortCircuit(t *testing.T) {
	// The right operand is never looked up once the result is known.
	got, err := Eval("win and cuda", Namespace{"win": false})
	if err != nil || got {
		t.Errorf("Eval = %v, %v; want false, nil", got, err)
	}
	got, err = Eval("linux or cuda", Namespace{"linux": true})
	if err != nil || !got {
		t.Errorf("Eval = %v, %v; want true, nil", got, err)
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		expr string
		msg  string
	}{
		{"", "empty expression"},
		{"   ", "empty expression"},
		{"linux and", "unexpected end"},
		{"(linux", "missing ')'"},
		{"linux)", "unexpected ')'"},
		{"and linux", "unexpected operator"},
		{"linux win", "unexpected 'win'"},
		{"not", "unexpected end"},
	}
	for _, tt := range tests {
		_, err := Parse(tt.expr)
		var syn *SyntaxError
		if !errors.As(err, &syn) {
			t.Errorf("Parse(%q) err = %v, want *SyntaxError", tt.expr, err)
			continue
		}
		if !strings.Contains(err.Error(), tt.msg) {
			t.Errorf("Parse(%q) err = %q, want it to contain %q", tt.expr, err, tt.msg)
		}
	}
}

func TestIdentifiers(t *testing.T) {
	e, err := Parse("(linux and not aarch64) or win or True")
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Join(e.Identifiers(), ",")
	if got != "linux,aarch64,win" {
		t.Errorf("Identifiers = %q", got)
	}
}

func TestSeed(t *testing.T) {
	ns := Namespace{"win": false}
	if err := Seed("(linux or win) and not cuda", ns); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	for _, name := range []string{"linux", "cuda"} {
		if v, ok := ns[name]; !ok || !v {
			t.Errorf("ns[%q] = %v, %v; want true, true", name, v, ok)
		}
	}
	if ns["win"] {
		t.Error("existing entry win must not be overwritten")
	}
	for _, op := range Operators {
		if _, ok := ns[op]; ok {
			t.Errorf("operator %q inserted into namespace", op)
		}
	}
	if _, ok := ns["(linux"]; ok {
		t.Error("parenthesis leaked into a selector name")
	}
}

func TestEvalDefault(t *testing.T) {
	e, err := Parse("linux and cuda")
	if err != nil {
		t.Fatal(err)
	}
	if e.EvalDefault(Namespace{"linux": true}, false) {
		t.Error("undefined cuda should default to false")
	}
	if !e.EvalDefault(Namespace{"linux": true}, true) {
		t.Error("undefined cuda should default to true")
	}
}

func TestPlatformNamespace(t *testing.T) {
	tests := []struct {
		subdir string
		truthy []string
	}{
		{"linux-64", []string{"linux", "unix", "x86_64"}},
		{"linux-aarch64", []string{"linux", "unix", "aarch64"}},
		{"osx-arm64", []string{"osx", "unix", "arm64"}},
		{"win-64", []string{"win", "x86_64"}},
		{"win-32", []string{"win", "x86"}},
		{"noarch", []string{"noarch"}},
		{"", nil},
	}
	for _, tt := range tests {
		ns := PlatformNamespace(tt.subdir)
		want := make(map[string]bool)
		for _, name := range tt.truthy {
			want[name] = true
		}
		for name, v := range ns {
			if v != want[name] {
				t.Errorf("PlatformNamespace(%q)[%s] = %v, want %v", tt.subdir, name, v, want[name])
			}
		}
		for name := range want {
			if _, ok := ns[name]; !ok {
				t.Errorf("PlatformNamespace(%q) missing %s", tt.subdir, name)
			}
		}
	}
}
