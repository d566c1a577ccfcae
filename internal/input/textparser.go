package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gitrdm/afsmterm/internal/rule"
	"github.com/gitrdm/afsmterm/internal/term"
	"github.com/gitrdm/afsmterm/internal/typesys"
)

// DefaultParser is the concrete Parser this module ships as a default
// for cmd/afsmterm, grounded on textconverter.cpp's bracket-matching
// text format (the same `f(a, b)` curried-application surface syntax
// and `A -> B` right-associative arrow types that source's
// convert_type/convert_term read) but simplified to a line-oriented
// grammar: one `name : Type` alphabet declaration or one `lhs -> rhs`
// rewrite rule per line, blank lines and `#`-comments ignored.
//
// This line-splitting and bracket bookkeeping is plain text scanning
// with no ecosystem-library concern to reach for -- unlike spec.md §6's
// other collaborator contracts, the file format itself is explicitly
// left to "the collaborator (out of scope)", so DefaultParser is one
// reference implementation of that contract, not the contract itself.
type DefaultParser struct{}

func (DefaultParser) Parse(r io.Reader) (*rule.Alphabet, []*rule.Rule, error) {
	alpha := rule.NewAlphabet()
	var ruleLines []string

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := topLevelIndex(line, ":"); idx >= 0 {
			name := strings.TrimSpace(line[:idx])
			typ, err := parseType(strings.TrimSpace(line[idx+1:]))
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			alpha.Declare(name, typ)
			continue
		}
		ruleLines = append(ruleLines, fmt.Sprintf("%d:%s", lineNo, line))
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	var rules []*rule.Rule
	for _, tagged := range ruleLines {
		sep := strings.IndexByte(tagged, ':')
		lineNo, line := tagged[:sep], tagged[sep+1:]
		idx := topLevelIndex(line, "->")
		if idx < 0 {
			return nil, nil, fmt.Errorf("line %s: expected \"lhs -> rhs\"", lineNo)
		}
		ctr := term.NewCounter()
		vars := map[string]*term.Var{}
		left, leftType, err := parseTerm(strings.TrimSpace(line[:idx]), alpha, ctr, vars)
		if err != nil {
			return nil, nil, fmt.Errorf("line %s: %w", lineNo, err)
		}
		right, _, err := parseTerm(strings.TrimSpace(line[idx+2:]), alpha, ctr, vars)
		if err != nil {
			return nil, nil, fmt.Errorf("line %s: %w", lineNo, err)
		}
		_ = leftType
		rules = append(rules, rule.NewRule(left, right))
	}
	return alpha, rules, nil
}

// topLevelIndex finds the first occurrence of sep outside of any
// bracket nesting, mirroring textconverter.cpp's find_substring/
// find_matching_bracket bracket-aware scan.
func topLevelIndex(s, sep string) int {
	depth := 0
	for i := 0; i+len(sep) <= len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && s[i:i+len(sep)] == sep {
			return i
		}
	}
	return -1
}

// parseType parses a right-associative arrow type, e.g. "Nat -> Nat ->
// Nat" as Nat -> (Nat -> Nat), with parens for explicit grouping and a
// bare identifier as a base (data) type.
func parseType(s string) (typesys.Type, error) {
	s = strings.TrimSpace(s)
	s = stripOuterParens(s)
	if idx := topLevelIndex(s, "->"); idx >= 0 {
		left, err := parseType(s[:idx])
		if err != nil {
			return nil, err
		}
		right, err := parseType(s[idx+2:])
		if err != nil {
			return nil, err
		}
		return typesys.NewArrow(left, right), nil
	}
	name := strings.TrimSpace(s)
	if name == "" {
		return nil, fmt.Errorf("empty type")
	}
	return typesys.NewDataType(name), nil
}

func stripOuterParens(s string) string {
	for len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		depth := 0
		balanced := true
		for i := 0; i < len(s)-1; i++ {
			if s[i] == '(' {
				depth++
			}
			if s[i] == ')' {
				depth--
				if depth == 0 {
					balanced = false
					break
				}
			}
		}
		if !balanced {
			break
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// parseTerm parses a curried-application term "f(a1, a2, ...)" (nested
// applications and plain identifiers) against the declared alphabet:
// a name found in alpha is a constant; any other identifier becomes a
// pattern variable where the enclosing application fixes its type (an
// unknown identifier with no such type, e.g. in head position, is an
// error), reusing the same *term.Var (and index) on every occurrence
// within one rule -- both sides share vars.
func parseTerm(s string, alpha *rule.Alphabet, ctr *term.Counter, vars map[string]*term.Var) (term.MetaTerm, typesys.Type, error) {
	return parseTermExpecting(s, alpha, ctr, vars, nil)
}

// parseTermExpecting is parseTerm with an expected type threaded down
// from the enclosing application's parameter type, the only place a
// bare variable occurrence (as opposed to one already seen earlier in
// the same rule) can have its type determined.
func parseTermExpecting(s string, alpha *rule.Alphabet, ctr *term.Counter, vars map[string]*term.Var, expected typesys.Type) (term.MetaTerm, typesys.Type, error) {
	s = strings.TrimSpace(s)
	s = stripOuterParens(s)
	if s == "" {
		return nil, nil, fmt.Errorf("empty term")
	}

	open := strings.IndexByte(s, '(')
	if open < 0 || s[len(s)-1] != ')' {
		return parseAtom(s, alpha, ctr, vars, expected)
	}
	head := strings.TrimSpace(s[:open])
	args, err := splitArgs(s[open+1 : len(s)-1])
	if err != nil {
		return nil, nil, err
	}

	fnTerm, fnType, err := parseAtom(head, alpha, ctr, vars, nil)
	if err != nil {
		return nil, nil, err
	}
	cur := fnTerm
	curType := fnType
	for _, argSrc := range args {
		arrow, ok := curType.(*typesys.Arrow)
		if !ok {
			return nil, nil, fmt.Errorf("%q applied to too many arguments", head)
		}
		argTerm, _, err := parseTermExpecting(argSrc, alpha, ctr, vars, arrow.Left)
		if err != nil {
			return nil, nil, err
		}
		cur = term.NewApp(cur, argTerm, arrow.Right)
		curType = arrow.Right
	}
	return cur, curType, nil
}

func parseAtom(name string, alpha *rule.Alphabet, ctr *term.Counter, vars map[string]*term.Var, expected typesys.Type) (term.MetaTerm, typesys.Type, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, fmt.Errorf("empty identifier")
	}
	if typ, ok := alpha.Lookup(name); ok {
		return term.NewConst(name, typ), typ, nil
	}
	if v, ok := vars[name]; ok {
		return v, v.Typ, nil
	}
	if expected != nil {
		v := term.NewVar(ctr.Fresh(), expected, false)
		vars[name] = v
		return v, expected, nil
	}
	return nil, nil, fmt.Errorf("%q is neither a declared constant nor a variable seen earlier in this rule", name)
}

func splitArgs(s string) ([]string, error) {
	var args []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unmatched closing bracket in %q", s)
			}
		case ',':
			if depth == 0 {
				args = append(args, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unmatched bracket in %q", s)
	}
	last := strings.TrimSpace(s[start:])
	if last != "" {
		args = append(args, last)
	}
	return args, nil
}
