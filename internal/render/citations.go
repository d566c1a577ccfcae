package render

import "sort"

// Citation is one bibliography entry a proof may reference, e.g. the
// paper a termination method is drawn from. Fields are free-form
// BibTeX-style keys (author, title, booktitle, volume, series, pages,
// publisher, note, year, journal); only the ones present are rendered.
type Citation struct {
	Key    string
	Fields map[string]string
}

// citeFieldOrder and citeFieldPunct mirror outputmodule.cpp's
// make_citelist: each field is wrapped in a "cite FIELD" span and
// followed by fixed connector punctuation, in this fixed order.
var citeFieldOrder = []string{"author", "title", "booktitle", "journal", "volume", "series", "pages", "publisher", "note", "year"}

var citeFieldPunct = map[string]string{
	"author":    ".  ",
	"title":     ".  ",
	"booktitle": ", ",
	"journal":   ", ",
	"volume":    ", ",
	"series":    ", ",
	"pages":     ", ",
	"publisher": ", ",
	"note":      ".  ",
	"year":      ".\n",
}

// MakeCiteList renders every citation named in keys (looked up in lib,
// a proof's citation library) as a <citname>/<citcontents> block,
// prefixed with a bigheader -- the Go equivalent of
// OutputModule::make_citelist, which builds the same structure from the
// method stack's accumulated `cites` set.
func MakeCiteList(keys []string, lib map[string]Citation) string {
	if len(keys) == 0 {
		return ""
	}
	sorted := append([]string{}, keys...)
	sort.Strings(sorted)

	out := "<bigheader>Citations</bigheader>"
	for _, key := range sorted {
		cite, ok := lib[key]
		if !ok {
			continue
		}
		out += "<citname>" + key + "</citname><citcontents>" + renderCiteFields(cite) + "</citcontents>"
	}
	return out
}

func renderCiteFields(c Citation) string {
	out := ""
	for _, field := range citeFieldOrder {
		value, ok := c.Fields[field]
		if !ok || value == "" {
			continue
		}
		label := field
		if field == "journal" {
			value = "In " + value
		}
		out += `<span class="cite ` + label + `">` + value + "</span>" + citeFieldPunct[field]
	}
	return out
}
