// Package sources holds the registry of known legal source documents.
//
// A SourceDocument describes one ingestible legal text (a law, decree,
// resolution, ruling compilation, guide...) together with the reference
// data the indexer and the citation formatter need: display names,
// authority priority and canonical URLs. The registry is immutable once
// built and is passed explicitly to the services that consume it.
package sources

import (
	"errors"
	"fmt"
)

// ErrUnknownSource is returned when a source ID is not present in the registry.
// Callers may treat this as non-fatal and fall back to degraded metadata.
var ErrUnknownSource = errors.New("unknown source")

// Type classifies a source document. The values are the Spanish legal
// categories used throughout the corpus; they drive the chunker's choice
// of split boundaries.
type Type string

const (
	TypeLey            Type = "ley"
	TypeDecreto        Type = "decreto"
	TypeResolucion     Type = "resolucion"
	TypeJurisprudencia Type = "jurisprudencia"
	TypeGuia           Type = "guia"
	TypeConstitucion   Type = "constitucion"
	TypeCircular       Type = "circular"
	TypeCompendio      Type = "compendio"
	TypeManual         Type = "manual"
	TypeReferencia     Type = "referencia"
)

// DefaultPriority is the priority assumed for sources that are not in the
// registry. It yields a neutral relevance boost (multiplier of 1.0).
const DefaultPriority = 5

// SourceDocument identifies one ingestible legal text.
type SourceDocument struct {
	// ID is the stable key used in chunk metadata and manifest entries.
	ID string

	// Name is the full display name, e.g.
	// "Ley 769 de 2002 (Código Nacional de Tránsito Terrestre)".
	Name string

	// ShortName is a compact form used in hyperlink citations,
	// e.g. "Ley 769 de 2002". Falls back to Name when empty.
	ShortName string

	// Type classifies the document and selects the chunking strategy.
	Type Type

	// Priority ranks authoritativeness: 1 = highest (laws, constitution),
	// 2 = medium (decrees, jurisprudence), 3 = lower (guides).
	// Lower values receive a larger relevance boost at query time.
	Priority int

	// Year of enactment or publication.
	Year int

	// OfficialSource names the publishing authority.
	OfficialSource string

	// URL is the canonical location of the authoritative text, when known.
	URL string
}

// DisplayShortName returns ShortName, falling back to Name and then ID.
func (d SourceDocument) DisplayShortName() string {
	if d.ShortName != "" {
		return d.ShortName
	}
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// Registry is an immutable lookup table of source documents plus the
// table of ruling-specific URLs.
type Registry struct {
	docs       map[string]SourceDocument
	rulingURLs map[string]string
}

// NewRegistry builds a registry from the given documents and ruling URL
// table. The inputs are copied; later mutation of the arguments does not
// affect the registry.
func NewRegistry(docs []SourceDocument, rulingURLs map[string]string) (*Registry, error) {
	m := make(map[string]SourceDocument, len(docs))
	for _, d := range docs {
		if d.ID == "" {
			return nil, fmt.Errorf("source document with empty ID (name %q)", d.Name)
		}
		if _, dup := m[d.ID]; dup {
			return nil, fmt.Errorf("duplicate source ID %q", d.ID)
		}
		m[d.ID] = d
	}

	urls := make(map[string]string, len(rulingURLs))
	for code, u := range rulingURLs {
		urls[code] = u
	}

	return &Registry{docs: m, rulingURLs: urls}, nil
}

// Lookup returns the source document for id.
// Returns ErrUnknownSource when the ID is not registered.
func (r *Registry) Lookup(id string) (SourceDocument, error) {
	d, ok := r.docs[id]
	if !ok {
		return SourceDocument{}, fmt.Errorf("%w: %q", ErrUnknownSource, id)
	}
	return d, nil
}

// LookupOrDefault returns the registered document for id, or a degraded
// placeholder (name = ID, default priority) when the ID is unknown.
func (r *Registry) LookupOrDefault(id string) SourceDocument {
	if d, ok := r.docs[id]; ok {
		return d
	}
	return SourceDocument{ID: id, Name: id, Priority: DefaultPriority}
}

// RulingURL returns the URL of a specific court ruling given its chamber
// code and number, e.g. "C-038". Returns false when no URL is registered.
func (r *Registry) RulingURL(code string) (string, bool) {
	u, ok := r.rulingURLs[code]
	return u, ok
}

// IDs returns the registered source IDs in unspecified order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.docs))
	for id := range r.docs {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	return len(r.docs)
}
