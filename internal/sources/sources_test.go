package sources_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vialtech/normad/internal/sources"
)

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	docs := []sources.SourceDocument{
		{ID: "codigo_transito", Name: "a"},
		{ID: "codigo_transito", Name: "b"},
	}
	_, err := sources.NewRegistry(docs, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewRegistry_RejectsEmptyID(t *testing.T) {
	_, err := sources.NewRegistry([]sources.SourceDocument{{Name: "no id"}}, nil)
	require.Error(t, err)
}

func TestRegistry_Lookup(t *testing.T) {
	reg := sources.DefaultRegistry()

	doc, err := reg.Lookup("codigo_transito")
	require.NoError(t, err)
	assert.Equal(t, sources.TypeLey, doc.Type)
	assert.Equal(t, 1, doc.Priority)
	assert.Contains(t, doc.Name, "Ley 769 de 2002")
	assert.Contains(t, doc.URL, "5557")

	_, err = reg.Lookup("codigo_penal")
	assert.ErrorIs(t, err, sources.ErrUnknownSource)
}

func TestRegistry_LookupOrDefault_UnknownSource(t *testing.T) {
	reg := sources.DefaultRegistry()

	doc := reg.LookupOrDefault("misc_notes")
	assert.Equal(t, "misc_notes", doc.ID)
	assert.Equal(t, "misc_notes", doc.Name)
	assert.Equal(t, sources.DefaultPriority, doc.Priority)
	assert.Empty(t, doc.URL)
}

func TestRegistry_RulingURL(t *testing.T) {
	reg := sources.DefaultRegistry()

	url, ok := reg.RulingURL("C-038")
	require.True(t, ok)
	assert.Contains(t, url, "C-038-20.htm")
	assert.Contains(t, url, "corteconstitucional")

	_, ok = reg.RulingURL("T-999")
	assert.False(t, ok)
}

func TestSourceDocument_DisplayShortName(t *testing.T) {
	tests := []struct {
		name string
		doc  sources.SourceDocument
		want string
	}{
		{"short name preferred", sources.SourceDocument{ID: "x", Name: "Long", ShortName: "Short"}, "Short"},
		{"falls back to name", sources.SourceDocument{ID: "x", Name: "Long"}, "Long"},
		{"falls back to id", sources.SourceDocument{ID: "x"}, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.doc.DisplayShortName())
		})
	}
}

func TestDefaultRegistry_CatalogSanity(t *testing.T) {
	reg := sources.DefaultRegistry()
	require.GreaterOrEqual(t, reg.Len(), 15)

	for _, id := range reg.IDs() {
		doc, err := reg.Lookup(id)
		require.NoError(t, err)
		assert.NotEmpty(t, doc.Name, "source %s has no name", id)
		assert.NotZero(t, doc.Priority, "source %s has no priority", id)
		assert.NotZero(t, doc.Year, "source %s has no year", id)
	}
}
