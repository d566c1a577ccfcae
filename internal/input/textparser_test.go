package input

import (
	"strings"
	"testing"
)

const plusSource = `
0 : Nat
s : Nat -> Nat
plus : Nat -> Nat -> Nat

plus(0, y) -> y
plus(s(x), y) -> s(plus(x, y))
`

func TestDefaultParserParsesDeclarationsAndRules(t *testing.T) {
	alpha, rules, err := DefaultParser{}.Parse(strings.NewReader(plusSource))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got, want := len(alpha.Names()), 3; got != want {
		t.Fatalf("len(alpha.Names()) = %d, want %d", got, want)
	}
	if got, want := len(rules), 2; got != want {
		t.Fatalf("len(rules) = %d, want %d", got, want)
	}
}

func TestDefaultParserRejectsUnknownIdentifier(t *testing.T) {
	src := "0 : Nat\nfoo(0) -> 0\n"
	if _, _, err := (DefaultParser{}).Parse(strings.NewReader(src)); err == nil {
		t.Fatalf("Parse() error = nil, want an error for undeclared constant %q", "foo")
	}
}

func TestDefaultParserSkipsCommentsAndBlankLines(t *testing.T) {
	src := "# a comment\n\n0 : Nat\n\n# another\n"
	alpha, rules, err := DefaultParser{}.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(alpha.Names()) != 1 || len(rules) != 0 {
		t.Fatalf("Parse() = (%v names, %d rules), want (1 name, 0 rules)", alpha.Names(), len(rules))
	}
}
