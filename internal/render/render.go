// Package render turns the tag-bracketed intermediate representation the
// proof-search methods write into their output regions (spec.md §6) into
// either plain text, with UTF-8 symbols substituted for the ASCII
// fallbacks and ANSI colour codes for terminal highlighting, or HTML,
// which leaves the tags in place for a stylesheet to target and only
// turns newlines into <br/>. The plain layout is a pure string-rewriting
// pass, grounded on outputmodule.cpp's plain_layout: a fixed, ordered
// list of tag substitutions followed by a final sweep that drops any tag
// left unmatched.
package render

import "strings"

// Options controls how Render lays out a tagged document.
type Options struct {
	HTML  bool // emit HTML instead of plain text
	UTF8  bool // substitute UTF-8 glyphs instead of ASCII fallbacks
	Color bool // emit ANSI colour escapes (plain mode only)
}

// Render lays out doc -- a string built from the Symbol/Tag helpers
// below plus the structural tags (<p>, <header>, <table>/<tr>/<td>,
// <prettybox>) the proof-search methods wrap their output in -- into
// its final form.
func Render(doc string, opts Options) string {
	if opts.HTML {
		return htmlLayout(doc)
	}
	return plainLayout(doc, opts)
}

// replaceOccurrences replaces every occurrence of from with to.
func replaceOccurrences(txt, from, to string) string {
	return strings.ReplaceAll(txt, from, to)
}

// replaceTag replaces a tag's opening and closing markers independently,
// leaving the tag's content in place -- the same two-pass substitution
// outputmodule.cpp's replace_tag performs.
func replaceTag(txt, tag, open, close string) string {
	txt = replaceOccurrences(txt, "<"+tag+">", open)
	txt = replaceOccurrences(txt, "</"+tag+">", close)
	return txt
}

// plainLayout mirrors OutputModule::plain_layout's fixed substitution
// order: types, terms, polynomials, rules, relations, citations,
// structure, greek letters, then colours, ending with a sweep that
// silently drops any tag nothing above matched.
func plainLayout(txt string, opts Options) string {
	sym := func(s string) string { return utfSymbol(s, opts.UTF8) }

	// types
	txt = replaceTag(txt, "typechildren", "(", ")")
	txt = replaceOccurrences(txt, "<nexttypechild/>", ", ")
	txt = replaceOccurrences(txt, "<typearrow/>", sym("->"))
	txt = replaceTag(txt, "typedecchildren", "[", "]")
	txt = replaceOccurrences(txt, "<nexttypedecchild/>", " "+sym("*")+" ")
	txt = replaceOccurrences(txt, "<typedecarrow/>", sym("-->"))

	// terms
	txt = replaceTag(txt, "abstraction", sym("/\\"), "")
	txt = replaceTag(txt, "binder", "<green>", "</green>.")
	txt = replaceTag(txt, "constant", "<red>", "</red>")
	txt = replaceTag(txt, "metavar", "<blue>", "</blue>")
	txt = replaceTag(txt, "freevariable", "<blue>", "</blue>")
	txt = replaceTag(txt, "boundvariable", "<green>", "</green>")
	txt = replaceTag(txt, "functionchildren", "(", ")")
	txt = replaceOccurrences(txt, "<nextfunctionchild/>", ", ")
	txt = replaceTag(txt, "metachildren", "(", ")")
	txt = replaceOccurrences(txt, "<nextmetachild/>", ", ")
	txt = replaceOccurrences(txt, "<nextapplicationchild/>", sym(" "))
	txt = replaceTag(txt, "bracket", "(", ")")

	// polynomials
	txt = replaceTag(txt, "freepolvar", "<blue>x", "</blue>")
	txt = replaceTag(txt, "freepolfun", "<blue>F", "</blue>")
	txt = replaceTag(txt, "boundpolvar", "<green>y", "</green>")
	txt = replaceTag(txt, "boundpolfun", "<green>G", "</green>")
	txt = replaceTag(txt, "parameter", "<cyan>a", "</cyan>")
	txt = replaceOccurrences(txt, "<funcabstraction/>", sym("\\"))
	txt = replaceOccurrences(txt, "<funcdot/>", ".")
	txt = replaceOccurrences(txt, "<addition/>", "<red>+</red>")

	// rules
	txt = replaceOccurrences(txt, "<rulearrow/>", sym("=>"))
	txt = replaceOccurrences(txt, "<betaarrow/>", sym("=>_beta"))
	txt = replaceOccurrences(txt, "<dparrow/>", sym("=#>"))

	// relations
	txt = replaceOccurrences(txt, "<gterm/>", sym("gterm"))
	txt = replaceOccurrences(txt, "<geqterm/>", sym("geqterm"))
	txt = replaceOccurrences(txt, "<geqorgterm/>", sym("gterm")+"?")
	txt = replaceOccurrences(txt, "<polgeq/>", sym(">="))
	txt = replaceOccurrences(txt, "<polg/>", sym(">"))
	txt = replaceOccurrences(txt, "<leftinterpret/>", sym("[["))
	txt = replaceOccurrences(txt, "<rightinterpret/>", sym("]]"))
	txt = replaceOccurrences(txt, "<supterm/>", sym("|>"))
	txt = replaceOccurrences(txt, "<rankreduce/>", sym("[>]"))

	// citations
	txt = replaceTag(txt, "citname", "[", "]  ")
	txt = replaceTag(txt, "citcontents", "", "\n")

	// structure
	txt = replaceTag(txt, "p", "", "\n\n")
	txt = replaceOccurrences(txt, `<p class="boxpar">`, "<p>  ")
	txt = replaceTag(txt, "table", "", "\n")
	txt = replaceTag(txt, "tr", "  ", "\n")
	txt = replaceTag(txt, "td", "", " ")
	txt = replaceTag(txt, "doubletd", "", " ")
	txt = replaceTag(txt, "bigheader", "\n<bold>+++ ", " +++</bold>\n\n")
	txt = replaceTag(txt, "header", "<bold>", "</bold>\n\n")
	txt = replaceTag(txt, "pre", "", "")
	txt = replaceTag(txt, "prettybox", "", "")

	// greek
	txt = replaceOccurrences(txt, "<beta/>", sym("beta"))
	txt = replaceOccurrences(txt, "<eta/>", sym("eta"))
	txt = replaceOccurrences(txt, "<gamma/>", sym("gamma"))
	txt = replaceOccurrences(txt, "<nu/>", sym("nu"))
	txt = replaceOccurrences(txt, "<pi/>", sym("pi"))

	// rest
	txt = replaceOccurrences(txt, "<bottom/>", sym("_|_"))
	txt = replaceOccurrences(txt, "<in/>", sym("in"))
	txt = replaceOccurrences(txt, "^#", sym("#"))
	txt = replaceOccurrences(txt, "<emptyset/>", sym("{}"))
	txt = replaceTag(txt, "subscript", "_", "")

	txt = parseColours(txt, opts.Color)

	return dropRemainingTags(txt)
}

// dropRemainingTags sweeps out any "<...>" this layout did not
// explicitly substitute, leaving its content in place -- exactly the
// tail loop plain_layout ends with.
func dropRemainingTags(txt string) string {
	var out strings.Builder
	for {
		a := strings.IndexByte(txt, '<')
		if a < 0 {
			out.WriteString(txt)
			return out.String()
		}
		b := strings.IndexByte(txt[a:], '>')
		if b < 0 {
			out.WriteString(txt)
			return out.String()
		}
		out.WriteString(txt[:a])
		txt = txt[a+b+1:]
	}
}

// htmlLayout is deliberately thin, same as outputmodule.cpp's own
// html_layout: the tags already read as valid (or near-valid) HTML, a
// stylesheet is expected to style them, and the only rewrite needed here
// is turning embedded newlines into <br/> so preformatted verbose text
// still breaks lines in a browser.
func htmlLayout(txt string) string {
	return replaceOccurrences(txt, "\n", "<br/>")
}

var ansiCodes = map[string]string{
	"bold":  "1",
	"red":   "31",
	"green": "32",
	"blue":  "1;34",
	"cyan":  "36",
}

// parseColours turns the <bold>/<red>/<green>/<blue>/<cyan> colour tags
// plain_layout's substitutions leave behind into ANSI escape codes, or
// strips them bare when color is false.
func parseColours(txt string, color bool) string {
	for tag, code := range ansiCodes {
		if color {
			txt = replaceTag(txt, tag, "\x1b["+code+"m", "\x1b[0m")
		} else {
			txt = replaceTag(txt, tag, "", "")
		}
	}
	return txt
}
