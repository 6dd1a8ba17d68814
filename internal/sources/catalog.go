package sources

// defaultRulingURLs maps chamber code + number of a court ruling to its
// relatoría page. Only rulings cited by the corpus are listed; unknown
// rulings fall back to the source-level URL.
var defaultRulingURLs = map[string]string{
	"C-038": "https://www.corteconstitucional.gov.co/relatoria/2020/C-038-20.htm",
	"C-321": "https://www.corteconstitucional.gov.co/relatoria/2022/C-321-22.htm",
	"C-530": "https://www.corteconstitucional.gov.co/relatoria/2003/C-530-03.htm",
	"C-980": "https://www.corteconstitucional.gov.co/relatoria/2010/C-980-10.htm",
}

// defaultCatalog is the reference data for the Colombian transit-law corpus.
var defaultCatalog = []SourceDocument{
	{
		ID:             "codigo_transito",
		Name:           "Ley 769 de 2002 (Código Nacional de Tránsito Terrestre)",
		ShortName:      "Ley 769 de 2002",
		Type:           TypeLey,
		Priority:       1,
		Year:           2002,
		OfficialSource: "Secretaría del Senado",
		URL:            "https://www.funcionpublica.gov.co/eva/gestornormativo/norma.php?i=5557",
	},
	{
		ID:             "decreto_2106",
		Name:           "Decreto 2106 de 2019 (Simplificación de Trámites)",
		ShortName:      "Decreto 2106 de 2019",
		Type:           TypeDecreto,
		Priority:       2,
		Year:           2019,
		OfficialSource: "Función Pública",
		URL:            "https://www.funcionpublica.gov.co/eva/gestornormativo/norma.php?i=103352",
	},
	{
		ID:             "decreto_1079",
		Name:           "Decreto 1079 de 2015 (Decreto Único Reglamentario Transporte)",
		ShortName:      "Decreto 1079 de 2015",
		Type:           TypeDecreto,
		Priority:       2,
		Year:           2015,
		OfficialSource: "Ministerio de Transporte",
		URL:            "https://www.funcionpublica.gov.co/eva/gestornormativo/norma.php?i=77889",
	},
	{
		ID:             "ley_1843",
		Name:           "Ley 1843 de 2017 (Fotodetección de Infracciones)",
		ShortName:      "Ley 1843 de 2017",
		Type:           TypeLey,
		Priority:       1,
		Year:           2017,
		OfficialSource: "Secretaría del Senado",
		URL:            "https://www.funcionpublica.gov.co/eva/gestornormativo/norma.php?i=82815",
	},
	{
		ID:             "ley_2251",
		Name:           "Ley 2251 de 2022 (Ley Julián Esteban - Velocidad)",
		ShortName:      "Ley 2251 de 2022",
		Type:           TypeLey,
		Priority:       1,
		Year:           2022,
		OfficialSource: "Función Pública",
	},
	{
		ID:             "compendio_normativo",
		Name:           "Compendio Normativo de Tránsito 2024-2025",
		ShortName:      "Compendio Normativo 2024-2025",
		Type:           TypeCompendio,
		Priority:       1,
		Year:           2025,
		OfficialSource: "Compilación actualizada",
	},
	{
		ID:             "inventario_documentos",
		Name:           "Inventario de Documentos Oficiales y Jerarquía Normativa",
		ShortName:      "Inventario de Documentos",
		Type:           TypeReferencia,
		Priority:       2,
		Year:           2025,
		OfficialSource: "Guía de fuentes oficiales",
	},
	{
		ID:             "senorbiter",
		Name:           "Guías Prácticas Señor Biter",
		ShortName:      "Guías Señor Biter",
		Type:           TypeGuia,
		Priority:       3,
		Year:           2024,
		OfficialSource: "senorbiter.com - Educador en derechos de conductores",
	},
	{
		ID:             "jurisprudencia",
		Name:           "Jurisprudencia Constitucional",
		ShortName:      "Jurisprudencia",
		Type:           TypeJurisprudencia,
		Priority:       2,
		Year:           2020,
		OfficialSource: "Corte Constitucional / Consejo de Estado",
		URL:            "https://www.corteconstitucional.gov.co/relatoria/",
	},
	{
		ID:             "resolucion_compilatoria",
		Name:           "Resolución 20223040045295 de 2022 (Resolución Única Compilatoria)",
		ShortName:      "Res. 20223040045295 de 2022",
		Type:           TypeResolucion,
		Priority:       2,
		Year:           2022,
		OfficialSource: "Ministerio de Transporte",
	},
	{
		ID:             "manual_senalizacion",
		Name:           "Manual de Señalización Vial de Colombia 2024 (Anexo 76)",
		ShortName:      "Manual de Señalización 2024",
		Type:           TypeManual,
		Priority:       2,
		Year:           2024,
		OfficialSource: "Ministerio de Transporte",
	},
	{
		ID:             "manual_senalizacion_2015",
		Name:           "Manual de Señalización Vial 2015 (histórico)",
		ShortName:      "Manual de Señalización 2015",
		Type:           TypeManual,
		Priority:       3,
		Year:           2015,
		OfficialSource: "Ministerio de Transporte",
	},
	{
		ID:             "pnsv_2022",
		Name:           "Decreto 1430 de 2022 (Plan Nacional de Seguridad Vial 2022-2031)",
		ShortName:      "Decreto 1430 de 2022",
		Type:           TypeDecreto,
		Priority:       2,
		Year:           2022,
		OfficialSource: "DAPRE / MinTransporte",
	},
	{
		ID:             "resolucion_velocidad",
		Name:           "Resolución 20233040025995 de 2023 (Metodología Velocidad)",
		ShortName:      "Res. 20233040025995 de 2023",
		Type:           TypeResolucion,
		Priority:       2,
		Year:           2023,
		OfficialSource: "MinTransporte / ANSV",
	},
	{
		ID:             "resolucion_cascos",
		Name:           "Resolución 20203040023385 de 2020 (Condiciones Uso Casco)",
		ShortName:      "Res. 20203040023385 de 2020",
		Type:           TypeResolucion,
		Priority:       2,
		Year:           2020,
		OfficialSource: "MinTransporte",
		URL:            "https://www.mintransporte.gov.co/publicaciones/10596/resoluciones-2020/",
	},
	{
		ID:             "resolucion_sast",
		Name:           "Resolución 20203040011245 de 2020 (Criterios Técnicos SAST/Fotodetección)",
		ShortName:      "Res. 20203040011245 de 2020",
		Type:           TypeResolucion,
		Priority:       2,
		Year:           2020,
		OfficialSource: "MinTransporte",
	},
	{
		ID:             "resolucion_pesv",
		Name:           "Resolución 20223040040595 de 2022 (Metodología PESV)",
		ShortName:      "Res. 20223040040595 de 2022",
		Type:           TypeResolucion,
		Priority:       2,
		Year:           2022,
		OfficialSource: "MinTransporte",
	},
	{
		ID:             "concepto_fotomultas",
		Name:           "Concepto Sala de Consulta Rad. 2433 de 2020 (Fotomultas)",
		ShortName:      "Concepto Rad. 2433 de 2020",
		Type:           TypeJurisprudencia,
		Priority:       2,
		Year:           2020,
		OfficialSource: "Consejo de Estado",
	},
	{
		ID:             "circular_plan365",
		Name:           "Circular Conjunta 023 de 2025 (Plan 365)",
		ShortName:      "Circular 023 de 2025",
		Type:           TypeCircular,
		Priority:       3,
		Year:           2025,
		OfficialSource: "MinTransporte + ANSV + Supertransporte + DITRA",
	},
	{
		ID:             "circular_sast",
		Name:           "Circular Externa 20254000000867 (SAST y Control Señalización)",
		ShortName:      "Circular 20254000000867",
		Type:           TypeCircular,
		Priority:       3,
		Year:           2025,
		OfficialSource: "Superintendencia de Transporte",
	},
	{
		ID:             "constitucion",
		Name:           "Constitución Política de Colombia 1991",
		ShortName:      "Constitución Política",
		Type:           TypeConstitucion,
		Priority:       1,
		Year:           1991,
		OfficialSource: "DAPRE / Secretaría del Senado",
		URL:            "https://www.secretariasenado.gov.co/constitucion-politica",
	},
}

// DefaultRegistry returns the registry for the Colombian transit-law corpus.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(defaultCatalog, defaultRulingURLs)
	if err != nil {
		// The default catalog is compile-time data; an invalid entry is a bug.
		panic(err)
	}
	return r
}
