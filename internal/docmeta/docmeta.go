// Package docmeta defines the typed metadata record attached to every
// stored chunk, and its conversion to and from the flat string map the
// vector store persists.
//
// Optional markers use the empty string for "absent"; ToMap omits absent
// fields entirely so that store-side exact-match filters never see empty
// values.
package docmeta

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/vialtech/normad/internal/extract"
	"github.com/vialtech/normad/internal/sources"
)

// Metadata map keys as persisted in the vector store.
const (
	KeySource         = "source"
	KeySourceName     = "source_name"
	KeySourceType     = "source_type"
	KeySourcePriority = "source_priority"
	KeyChunkIndex     = "chunk_index"
	KeyChunkHash      = "chunk_hash"
	KeyIndexedAt      = "indexed_at"
	KeyArticle        = "article"
	KeyTitle          = "title"
	KeyChapter        = "chapter"
	KeySentencia      = "sentencia"
	KeyLey            = "ley"
	KeyDecreto        = "decreto"
	KeySection        = "section"
)

// Metadata is the full metadata record for one stored chunk: the source
// reference data captured at indexing time plus the extracted markers.
type Metadata struct {
	// Source is the source document ID this chunk belongs to.
	Source string

	// SourceName is the display name of the source at indexing time.
	SourceName string

	// SourceType is the source's document category.
	SourceType string

	// SourcePriority is the source's authority priority (lower = higher).
	SourcePriority int

	// ChunkIndex is the chunk's position within its source document.
	ChunkIndex int

	// ChunkHash is the content hash of the chunk text.
	ChunkHash string

	// IndexedAt is the RFC 3339 timestamp of the indexing pass.
	IndexedAt string

	// Fields are the structural markers extracted from (or carried onto)
	// this chunk.
	extract.Fields
}

// ToMap flattens the record into the string map stored alongside the
// vector. Absent optional fields are omitted.
func (m Metadata) ToMap() map[string]string {
	out := map[string]string{
		KeySource:         m.Source,
		KeySourceName:     m.SourceName,
		KeySourceType:     m.SourceType,
		KeySourcePriority: strconv.Itoa(m.SourcePriority),
		KeyChunkIndex:     strconv.Itoa(m.ChunkIndex),
		KeyChunkHash:      m.ChunkHash,
		KeyIndexedAt:      m.IndexedAt,
	}

	optional := map[string]string{
		KeyArticle:   m.Article,
		KeyTitle:     m.Title,
		KeyChapter:   m.Chapter,
		KeySentencia: m.Sentencia,
		KeyLey:       m.Ley,
		KeyDecreto:   m.Decreto,
		KeySection:   m.Section,
	}
	for k, v := range optional {
		if v != "" {
			out[k] = v
		}
	}

	return out
}

// FromMap rebuilds a Metadata record from a stored string map.
// Missing numeric fields fall back to safe defaults.
func FromMap(m map[string]string) Metadata {
	meta := Metadata{
		Source:         m[KeySource],
		SourceName:     m[KeySourceName],
		SourceType:     m[KeySourceType],
		SourcePriority: parseIntOr(m[KeySourcePriority], sources.DefaultPriority),
		ChunkIndex:     parseIntOr(m[KeyChunkIndex], 0),
		ChunkHash:      m[KeyChunkHash],
		IndexedAt:      m[KeyIndexedAt],
		Fields: extract.Fields{
			Article:   m[KeyArticle],
			Title:     m[KeyTitle],
			Chapter:   m[KeyChapter],
			Sentencia: m[KeySentencia],
			Ley:       m[KeyLey],
			Decreto:   m[KeyDecreto],
			Section:   m[KeySection],
		},
	}
	return meta
}

func parseIntOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// hashLen is the number of hex digits kept from the content digest.
// 48 bits is plenty to keep chunk IDs unique within one source.
const hashLen = 12

// HashChunk returns the truncated content hash used for chunk identity
// and change detection.
func HashChunk(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:hashLen]
}
