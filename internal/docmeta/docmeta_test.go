package docmeta_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vialtech/normad/internal/docmeta"
	"github.com/vialtech/normad/internal/extract"
)

func TestToMap_OmitsAbsentMarkers(t *testing.T) {
	meta := docmeta.Metadata{
		Source:         "codigo_transito",
		SourceName:     "Ley 769 de 2002",
		SourceType:     "ley",
		SourcePriority: 1,
		ChunkIndex:     3,
		ChunkHash:      "abc123def456",
		IndexedAt:      "2026-08-29T00:00:00Z",
		Fields:         extract.Fields{Article: "Artículo 131"},
	}

	m := meta.ToMap()
	assert.Equal(t, "codigo_transito", m[docmeta.KeySource])
	assert.Equal(t, "1", m[docmeta.KeySourcePriority])
	assert.Equal(t, "3", m[docmeta.KeyChunkIndex])
	assert.Equal(t, "Artículo 131", m[docmeta.KeyArticle])

	_, hasTitle := m[docmeta.KeyTitle]
	assert.False(t, hasTitle, "absent markers omitted")
	_, hasSentencia := m[docmeta.KeySentencia]
	assert.False(t, hasSentencia)
}

func TestFromMap_RoundTrip(t *testing.T) {
	meta := docmeta.Metadata{
		Source:         "jurisprudencia",
		SourceName:     "Jurisprudencia Constitucional",
		SourceType:     "jurisprudencia",
		SourcePriority: 2,
		ChunkIndex:     7,
		ChunkHash:      "0011aabbccdd",
		IndexedAt:      "2026-08-29T00:00:00Z",
		Fields: extract.Fields{
			Sentencia: "Sentencia C-038 de 2020",
			Chapter:   "Capítulo II",
		},
	}

	assert.Equal(t, meta, docmeta.FromMap(meta.ToMap()))
}

func TestFromMap_Defaults(t *testing.T) {
	meta := docmeta.FromMap(map[string]string{docmeta.KeySource: "x"})
	assert.Equal(t, 5, meta.SourcePriority)
	assert.Equal(t, 0, meta.ChunkIndex)

	garbled := docmeta.FromMap(map[string]string{docmeta.KeySourcePriority: "high"})
	assert.Equal(t, 5, garbled.SourcePriority)
}

func TestHashChunk(t *testing.T) {
	h := docmeta.HashChunk("Artículo 131. Multas.")
	assert.Len(t, h, 12)
	assert.Equal(t, h, docmeta.HashChunk("Artículo 131. Multas."))
	assert.NotEqual(t, h, docmeta.HashChunk("Artículo 132. Multas."))
}
