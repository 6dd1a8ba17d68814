package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vialtech/normad/internal/extract"
)

func TestFromText_Article(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"trailing period", "Artículo 131. Multas por infracciones de tránsito.", "Artículo 131"},
		{"letter suffix with colon", "Artículo 131A: Comparendos electrónicos.", "Artículo 131A"},
		{"unaccented", "ARTICULO 2. Definiciones para la aplicación del código.", "Artículo 2"},
		{"abbreviated", "Art. 45- Prelación de las señales.", ""},
		{"mid sentence", "según lo dispuesto en el artículo 106.", "Artículo 106"},
		{"no article", "Las autoridades de tránsito velarán por la seguridad.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extract.FromText(tt.text).Article)
		})
	}
}

func TestFromText_TitleAndChapter(t *testing.T) {
	fields := extract.FromText("TÍTULO III - NORMAS DE COMPORTAMIENTO\nCAPÍTULO XI. Límites de velocidad\n")
	assert.Equal(t, "Título III - NORMAS DE COMPORTAMIENTO", fields.Title)
	assert.Equal(t, "Capítulo XI - Límites de velocidad", fields.Chapter)

	bare := extract.FromText("Capítulo IV\n")
	assert.Equal(t, "Capítulo IV", bare.Chapter)
}

func TestFromText_Sentencia(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"explicit", "La Sentencia C-038 de 2020 declaró exequible la fotodetección.", "Sentencia C-038 de 2020"},
		{"bare code", "como lo señaló la C-530 de 2003 en su parte motiva", "Sentencia C-530 de 2003"},
		{"tutela", "en la T-100 de 2019 la Corte reiteró", "Sentencia T-100 de 2019"},
		{"lowercase code", "la sentencia c-321 de 2022 sobre embriaguez", "Sentencia C-321 de 2022"},
		{"absent", "sin pronunciamiento judicial relevante", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extract.FromText(tt.text).Sentencia)
		})
	}
}

func TestFromText_LeyAndDecreto(t *testing.T) {
	fields := extract.FromText("modificado por la Ley 2251 de 2022 y el Decreto 2106 de 2019")
	assert.Equal(t, "Ley 2251 de 2022", fields.Ley)
	assert.Equal(t, "Decreto 2106 de 2019", fields.Decreto)

	// A year alone never matches a citation pattern.
	none := extract.FromText("expedida en el año 2002 y reformada en 2019")
	assert.Empty(t, none.Ley)
	assert.Empty(t, none.Decreto)
}

func TestFromText_Section(t *testing.T) {
	text := "=====\nPreguntas frecuentes sobre comparendos\n=====\ncontenido de la guía"
	assert.Equal(t, "Preguntas frecuentes sobre comparendos", extract.FromText(text).Section)
}

func TestFromText_Empty(t *testing.T) {
	assert.True(t, extract.FromText("texto sin marcadores estructurales").Empty())
}

func TestCarry_FillsMissingFields(t *testing.T) {
	var carry extract.Carry

	first, carry := carry.Apply(extract.FromText("Artículo 131. CAPÍTULO VIII. Sanciones\nLas multas se impondrán..."))
	assert.Equal(t, "Artículo 131", first.Article)
	assert.Equal(t, "Artículo 131", carry.Article)

	second, carry := carry.Apply(extract.FromText("continuación del texto sin encabezados"))
	assert.Equal(t, "Artículo 131", second.Article)
	assert.Equal(t, first.Chapter, second.Chapter)

	third, carry := carry.Apply(extract.FromText("Artículo 132. De la renovación de licencias."))
	assert.Equal(t, "Artículo 132", third.Article)
	assert.Equal(t, "Artículo 132", carry.Article)
}

func TestCarry_DoesNotCarryCitations(t *testing.T) {
	var carry extract.Carry

	_, carry = carry.Apply(extract.FromText("La Sentencia C-038 de 2020 y la Ley 769 de 2002."))
	next, _ := carry.Apply(extract.FromText("texto posterior"))
	assert.Empty(t, next.Sentencia)
	assert.Empty(t, next.Ley)
}
