// Package citation renders chunk metadata as human-readable references and
// markdown links to the official norm texts.
package citation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vialtech/normad/internal/docmeta"
	"github.com/vialtech/normad/internal/sources"
)

// FallbackReference is returned when metadata carries nothing citable.
const FallbackReference = "Referencia general"

var sentenciaCodeRe = regexp.MustCompile(`[CTSU]-\d+`)

// Formatter resolves source names and URLs against the document catalog.
type Formatter struct {
	registry *sources.Registry
}

// NewFormatter creates a Formatter backed by the given catalog.
func NewFormatter(registry *sources.Registry) *Formatter {
	return &Formatter{registry: registry}
}

// FormatReference builds the display reference for a retrieved chunk:
// emoji-tagged parts joined with " | ", most specific information first
// after the source name.
func (f *Formatter) FormatReference(meta docmeta.Metadata) string {
	doc := f.registry.LookupOrDefault(meta.Source)

	var parts []string
	if doc.Name != "" {
		parts = append(parts, "📖 "+doc.Name)
	}
	if meta.Sentencia != "" {
		parts = append(parts, "⚖️ "+meta.Sentencia)
	}
	if meta.Article != "" {
		parts = append(parts, "📌 "+meta.Article)
	}
	// A law or decree mention is only worth repeating when the source
	// document is not that law or decree itself.
	if meta.Ley != "" && !strings.Contains(doc.Name, "Ley") {
		parts = append(parts, "📜 "+meta.Ley)
	}
	if meta.Decreto != "" && !strings.Contains(doc.Name, "Decreto") {
		parts = append(parts, "📋 "+meta.Decreto)
	}
	switch {
	case meta.Chapter != "":
		parts = append(parts, "📂 "+meta.Chapter)
	case meta.Title != "":
		parts = append(parts, "📂 "+meta.Title)
	case meta.Section != "":
		parts = append(parts, "📂 "+meta.Section)
	}

	if len(parts) == 0 {
		return FallbackReference
	}
	return strings.Join(parts, " | ")
}

// URL resolves the best link target for a chunk. Ruling-specific URLs win
// over the source document's download URL; empty means no link is known.
func (f *Formatter) URL(meta docmeta.Metadata) string {
	if meta.Sentencia != "" {
		if code := sentenciaCodeRe.FindString(meta.Sentencia); code != "" {
			if url, ok := f.registry.RulingURL(code); ok {
				return url
			}
		}
	}
	return f.registry.LookupOrDefault(meta.Source).URL
}

// FormatLink renders a compact citation, as a markdown link when a URL is
// known and as plain text otherwise.
func (f *Formatter) FormatLink(meta docmeta.Metadata) string {
	doc := f.registry.LookupOrDefault(meta.Source)

	var parts []string
	if meta.Article != "" {
		parts = append(parts, meta.Article)
	}
	if meta.Sentencia != "" {
		parts = append(parts, meta.Sentencia)
	}
	shortName := doc.DisplayShortName()
	if shortName != "" && !containsAny(parts, shortName) {
		parts = append(parts, shortName)
	}

	text := "Referencia"
	if len(parts) > 0 {
		text = strings.Join(parts, ", ")
	}

	if url := f.URL(meta); url != "" {
		return fmt.Sprintf("[%s](%s)", text, url)
	}
	return text
}

func containsAny(parts []string, s string) bool {
	for _, p := range parts {
		if strings.Contains(p, s) {
			return true
		}
	}
	return false
}
