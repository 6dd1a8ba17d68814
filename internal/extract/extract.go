// Package extract pulls structural legal markers out of chunk text.
//
// Extraction is pure and stateless per chunk: every pattern is tried
// independently and the first match wins per field. Carrying article,
// chapter and title context forward across the chunks of one document is
// the indexer's job, via the Carry accumulator.
package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Patterns for Colombian legal document structure. All matches are
// case-insensitive; the accented and unaccented spellings both occur in
// scanned texts.
var (
	articleRe   = regexp.MustCompile(`(?i)art[íi]culo\.?\s*(\d+[A-Za-z]?)[.\-\s:]`)
	titleRe     = regexp.MustCompile(`(?i)t[íi]tulo\s+([IVXLCDM]+|\d+)[.\-\s]*([^\n]*)`)
	chapterRe   = regexp.MustCompile(`(?i)cap[íi]tulo\s+([IVXLCDM]+|\d+)[.\-\s]*([^\n]*)`)
	sentenciaRe = regexp.MustCompile(`(?i)(?:sentencia\s+)?([CTSU]-\d+)\s+de\s+(\d{4})`)
	leyRe       = regexp.MustCompile(`(?i)ley\s+(\d+)\s+de\s+(\d{4})`)
	decretoRe   = regexp.MustCompile(`(?i)decreto\s+(\d+)\s+de\s+(\d{4})`)
	sectionRe   = regexp.MustCompile(`(?m)^=+\n([^\n=]+)\n=+`)
)

// Fields holds the optional structural markers found in one chunk.
// An empty string means the marker was not present; no field is required.
type Fields struct {
	// Article is the normalized article citation, e.g. "Artículo 131".
	Article string

	// Title is the normalized title heading, e.g. "Título II - Régimen Nacional".
	Title string

	// Chapter is the normalized chapter heading, e.g. "Capítulo IV".
	Chapter string

	// Sentencia is the normalized court ruling citation,
	// e.g. "Sentencia C-038 de 2020".
	Sentencia string

	// Ley is a law citation found in the text, e.g. "Ley 769 de 2002".
	Ley string

	// Decreto is a decree citation, e.g. "Decreto 2106 de 2019".
	Decreto string

	// Section is a visual section heading, common in practical guides.
	Section string
}

// Empty reports whether no marker was extracted.
func (f Fields) Empty() bool {
	return f == Fields{}
}

// FromText scans one chunk's text and returns the markers it contains.
// Fields without a match are left empty; that is not an error.
func FromText(text string) Fields {
	var f Fields

	if m := articleRe.FindStringSubmatch(text); m != nil {
		f.Article = "Artículo " + m[1]
	}

	if m := titleRe.FindStringSubmatch(text); m != nil {
		f.Title = headed("Título", m[1], m[2])
	}

	if m := chapterRe.FindStringSubmatch(text); m != nil {
		f.Chapter = headed("Capítulo", m[1], m[2])
	}

	if m := sentenciaRe.FindStringSubmatch(text); m != nil {
		f.Sentencia = fmt.Sprintf("Sentencia %s de %s", strings.ToUpper(m[1]), m[2])
	}

	if m := leyRe.FindStringSubmatch(text); m != nil {
		f.Ley = fmt.Sprintf("Ley %s de %s", m[1], m[2])
	}

	if m := decretoRe.FindStringSubmatch(text); m != nil {
		f.Decreto = fmt.Sprintf("Decreto %s de %s", m[1], m[2])
	}

	if m := sectionRe.FindStringSubmatch(text); m != nil {
		f.Section = strings.TrimSpace(m[1])
	}

	return f
}

// headed formats "<kind> <numeral>" with an optional trailing heading phrase.
func headed(kind, numeral, heading string) string {
	heading = strings.TrimSpace(heading)
	if heading == "" {
		return kind + " " + numeral
	}
	return fmt.Sprintf("%s %s - %s", kind, numeral, heading)
}

// Carry threads document-level context across sequential chunks.
//
// Legal texts state the governing article, chapter and title once and then
// continue for pages; chunks after the heading would otherwise lose it.
// The zero value is the correct initial state at the start of a document.
type Carry struct {
	Article string
	Chapter string
	Title   string
}

// Apply fills the positional fields of f that lack an explicit marker with
// the carried context, and returns the updated carry for the next chunk.
// Only article, chapter and title are carried; citation fields (sentencia,
// ley, decreto) and sections are meaningful only where they appear.
func (c Carry) Apply(f Fields) (Fields, Carry) {
	next := c
	if f.Article != "" {
		next.Article = f.Article
	} else {
		f.Article = c.Article
	}
	if f.Chapter != "" {
		next.Chapter = f.Chapter
	} else {
		f.Chapter = c.Chapter
	}
	if f.Title != "" {
		next.Title = f.Title
	} else {
		f.Title = c.Title
	}
	return f, next
}
