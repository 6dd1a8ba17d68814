// Package chunker splits legal document text into overlapping segments.
//
// Splitting is recursive: the separator list for the document type is
// tried in priority order, so a law is broken at article, chapter and
// title boundaries before paragraph, line and finally word boundaries.
// Chunk size and overlap are measured in characters. A single
// unsplittable unit longer than the target size (one very long article,
// for instance) is emitted as its own oversized chunk; nothing is
// truncated or dropped.
package chunker

import (
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/vialtech/normad/internal/sources"
)

// Default sizing, tuned for statute articles: large enough to hold a full
// article plus its parágrafos, with enough overlap that a citation
// spanning a boundary survives in at least one chunk.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Separator lists per document category, most-structural first.
var (
	legalSeparators = []string{
		"\nARTÍCULO", "\nArtículo",
		"\nCAPÍTULO", "\nCapítulo",
		"\nTÍTULO", "\nTítulo",
		"\nPARÁGRAFO", "\nParágrafo",
		"\n\n", "\n", ". ", " ",
	}
	rulingSeparators = []string{
		"\nSentencia", "\nSENTENCIA",
		"\nCONSIDERANDO", "\nRESUELVE",
		"\n\n", "\n", ". ", " ",
	}
	guideSeparators = []string{
		"\n================", "\n===",
		"\n\n\n", "\n\n", "\n", ". ", " ",
	}
	defaultSeparators = []string{"\n\n", "\n", ". ", " "}
)

// Config holds chunker sizing.
type Config struct {
	// ChunkSize is the target chunk length in characters.
	ChunkSize int `koanf:"chunk_size"`

	// ChunkOverlap is how many trailing characters of a chunk are repeated
	// at the start of the next one.
	ChunkOverlap int `koanf:"chunk_overlap"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = DefaultChunkOverlap
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("chunk overlap cannot be negative, got %d", c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", c.ChunkOverlap, c.ChunkSize)
	}
	return nil
}

// Chunker splits document text into chunks. It is stateless and safe for
// concurrent use; output is deterministic for the same input and config.
type Chunker struct {
	config Config
}

// New creates a Chunker with the given configuration.
func New(config Config) (*Chunker, error) {
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &Chunker{config: config}, nil
}

// Split splits text into ordered, overlapping chunks using the separator
// priority appropriate for the document type.
func (c *Chunker) Split(text string, docType sources.Type) ([]string, error) {
	if text == "" {
		return nil, nil
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(c.config.ChunkSize),
		textsplitter.WithChunkOverlap(c.config.ChunkOverlap),
		textsplitter.WithSeparators(SeparatorsFor(docType)),
	)

	chunks, err := splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("splitting text: %w", err)
	}
	return chunks, nil
}

// SeparatorsFor returns the separator priority list for a document type.
func SeparatorsFor(docType sources.Type) []string {
	switch docType {
	case sources.TypeLey, sources.TypeDecreto, sources.TypeConstitucion:
		return legalSeparators
	case sources.TypeJurisprudencia:
		return rulingSeparators
	case sources.TypeGuia:
		return guideSeparators
	default:
		return defaultSeparators
	}
}
