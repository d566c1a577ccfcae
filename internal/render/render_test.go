package render

import (
	"strings"
	"testing"
)

func TestPlainLayoutSubstitutesArrowsASCII(t *testing.T) {
	doc := "<constant>plus</constant>" + RuleArrow + "<boundvariable>x</boundvariable>"
	got := Render(doc, Options{})
	want := "plus=>x"
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestPlainLayoutSubstitutesArrowsUTF8(t *testing.T) {
	doc := "a" + RuleArrow + "b"
	got := Render(doc, Options{UTF8: true})
	if !strings.Contains(got, "⇒") {
		t.Fatalf("Render() = %q, want it to contain ⇒", got)
	}
}

func TestPlainLayoutDropsUnknownTags(t *testing.T) {
	doc := "<weirdtag>x</weirdtag>plain"
	got := Render(doc, Options{})
	if strings.Contains(got, "<") || strings.Contains(got, ">") {
		t.Fatalf("Render() = %q, want all tags stripped", got)
	}
	if !strings.Contains(got, "plain") {
		t.Fatalf("Render() = %q, want content preserved", got)
	}
}

func TestPlainLayoutColourOnlyWhenRequested(t *testing.T) {
	doc := "<red>x</red>"
	plain := Render(doc, Options{})
	if strings.Contains(plain, "\x1b") {
		t.Fatalf("Render() without Color = %q, want no ANSI escapes", plain)
	}
	coloured := Render(doc, Options{Color: true})
	if !strings.Contains(coloured, "\x1b[31m") {
		t.Fatalf("Render() with Color = %q, want ANSI red escape", coloured)
	}
}

func TestHTMLLayoutTurnsNewlinesIntoBreaks(t *testing.T) {
	got := Render("a\nb", Options{HTML: true})
	if got != "a<br/>b" {
		t.Fatalf("Render() = %q, want %q", got, "a<br/>b")
	}
}

func TestMakeCiteListRendersKnownFields(t *testing.T) {
	lib := map[string]Citation{
		"kop12": {Key: "kop12", Fields: map[string]string{
			"author": "Kop, A.",
			"title":  "Higher Order Termination",
			"year":   "2012",
		}},
	}
	got := MakeCiteList([]string{"kop12"}, lib)
	if !strings.Contains(got, "<citname>kop12</citname>") {
		t.Fatalf("MakeCiteList() = %q, want a citname tag", got)
	}
	if !strings.Contains(got, `<span class="cite author">Kop, A.</span>`) {
		t.Fatalf("MakeCiteList() = %q, want an author span", got)
	}
}

func TestMakeCiteListEmptyWhenNoKeys(t *testing.T) {
	if got := MakeCiteList(nil, nil); got != "" {
		t.Fatalf("MakeCiteList() = %q, want empty string", got)
	}
}

func TestUpAppendsHashMarker(t *testing.T) {
	if got := Up("plus"); got != "plus^#" {
		t.Fatalf("Up() = %q, want %q", got, "plus^#")
	}
}
