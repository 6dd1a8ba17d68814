package citation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vialtech/normad/internal/citation"
	"github.com/vialtech/normad/internal/docmeta"
	"github.com/vialtech/normad/internal/extract"
	"github.com/vialtech/normad/internal/sources"
)

func newFormatter(t *testing.T) *citation.Formatter {
	t.Helper()
	return citation.NewFormatter(sources.DefaultRegistry())
}

func TestFormatReference(t *testing.T) {
	f := newFormatter(t)

	ref := f.FormatReference(docmeta.Metadata{
		Source: "codigo_transito",
		Fields: extract.Fields{
			Article: "Artículo 131",
			Chapter: "Capítulo II - Sanciones",
		},
	})
	assert.Contains(t, ref, "📖 Ley 769 de 2002")
	assert.Contains(t, ref, "📌 Artículo 131")
	assert.Contains(t, ref, "📂 Capítulo II - Sanciones")
	assert.Equal(t, 3, strings.Count(ref, " | ")+1, "parts joined with pipes: %s", ref)
}

func TestFormatReference_SentenciaFirstAfterSource(t *testing.T) {
	f := newFormatter(t)

	ref := f.FormatReference(docmeta.Metadata{
		Source: "jurisprudencia",
		Fields: extract.Fields{Sentencia: "Sentencia C-038 de 2020"},
	})
	assert.Contains(t, ref, "⚖️ Sentencia C-038 de 2020")
}

func TestFormatReference_SkipsLeyWhenSourceIsThatLey(t *testing.T) {
	f := newFormatter(t)

	ref := f.FormatReference(docmeta.Metadata{
		Source: "codigo_transito",
		Fields: extract.Fields{Ley: "Ley 769 de 2002"},
	})
	assert.NotContains(t, ref, "📜")
}

func TestFormatReference_TitleUsedWhenNoChapter(t *testing.T) {
	f := newFormatter(t)

	ref := f.FormatReference(docmeta.Metadata{
		Source: "codigo_transito",
		Fields: extract.Fields{Title: "Título I - Disposiciones generales"},
	})
	assert.Contains(t, ref, "📂 Título I - Disposiciones generales")
}

func TestFormatReference_Fallback(t *testing.T) {
	f := citation.NewFormatter(mustRegistry(t))
	ref := f.FormatReference(docmeta.Metadata{})
	assert.Equal(t, citation.FallbackReference, ref)
}

// mustRegistry builds a minimal registry whose LookupOrDefault yields an
// empty name only for the empty source ID.
func mustRegistry(t *testing.T) *sources.Registry {
	t.Helper()
	registry, err := sources.NewRegistry([]sources.SourceDocument{
		{ID: "x", Name: "X", Priority: 5, Year: 2020},
	}, nil)
	require.NoError(t, err)
	return registry
}

func TestURL_RulingURLWinsOverSource(t *testing.T) {
	f := newFormatter(t)

	url := f.URL(docmeta.Metadata{
		Source: "jurisprudencia",
		Fields: extract.Fields{Sentencia: "Sentencia C-038 de 2020"},
	})
	assert.Equal(t, "https://www.corteconstitucional.gov.co/relatoria/2020/C-038-20.htm", url)
}

func TestURL_FallsBackToSourceURL(t *testing.T) {
	f := newFormatter(t)

	url := f.URL(docmeta.Metadata{Source: "codigo_transito"})
	assert.Contains(t, url, "funcionpublica")
}

func TestURL_UnknownSentenciaUsesSourceURL(t *testing.T) {
	f := newFormatter(t)

	url := f.URL(docmeta.Metadata{
		Source: "jurisprudencia",
		Fields: extract.Fields{Sentencia: "Sentencia C-999 de 2024"},
	})
	assert.Equal(t, f.URL(docmeta.Metadata{Source: "jurisprudencia"}), url)
}

func TestFormatLink(t *testing.T) {
	f := newFormatter(t)

	link := f.FormatLink(docmeta.Metadata{
		Source: "codigo_transito",
		Fields: extract.Fields{Article: "Artículo 131"},
	})
	assert.True(t, strings.HasPrefix(link, "[Artículo 131, "), link)
	assert.Contains(t, link, "](")
	assert.True(t, strings.HasSuffix(link, ")"), link)
	assert.Equal(t, 1, strings.Count(link, "["), "no nested brackets: %s", link)
}

func TestFormatLink_ShortNameNotRepeated(t *testing.T) {
	registry, err := sources.NewRegistry([]sources.SourceDocument{
		{ID: "fallos", Name: "Fallos", ShortName: "C-038", Priority: 2, Year: 2020},
	}, nil)
	require.NoError(t, err)
	f := citation.NewFormatter(registry)

	// The sentencia text already contains the catalog short name, so the
	// short name is not appended again.
	link := f.FormatLink(docmeta.Metadata{
		Source: "fallos",
		Fields: extract.Fields{Sentencia: "Sentencia C-038 de 2020"},
	})
	assert.Equal(t, "Sentencia C-038 de 2020", link)
}

func TestFormatLink_NoURLIsPlainText(t *testing.T) {
	f := newFormatter(t)

	link := f.FormatLink(docmeta.Metadata{
		Source: "compendio_normativo",
		Fields: extract.Fields{Article: "Artículo 5"},
	})
	assert.NotContains(t, link, "](")
}

func TestFormatLink_EmptyMetadata(t *testing.T) {
	f := citation.NewFormatter(mustRegistry(t))
	assert.Equal(t, "Referencia", f.FormatLink(docmeta.Metadata{}))
}
