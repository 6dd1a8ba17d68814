package indexer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ManifestEntry records what was last indexed for one document file.
type ManifestEntry struct {
	Hash       string `json:"hash"`
	SourceID   string `json:"source_id"`
	ChunkCount int    `json:"chunk_count"`
	IndexedAt  string `json:"indexed_at"`
}

// Manifest maps document paths to their last indexed state. It is the
// source of truth for change detection: a document whose content hash
// matches its manifest entry is skipped.
type Manifest struct {
	path    string
	entries map[string]ManifestEntry
}

// LoadManifest reads the manifest at path. A missing file yields an empty
// manifest, a corrupt one is an error.
func LoadManifest(path string) (*Manifest, error) {
	m := &Manifest{path: path, entries: make(map[string]ManifestEntry)}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	if err := json.Unmarshal(content, &m.entries); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return m, nil
}

// Get returns the entry for a document path.
func (m *Manifest) Get(docPath string) (ManifestEntry, bool) {
	entry, ok := m.entries[docPath]
	return entry, ok
}

// Set stores an entry for a document path in memory. Call Save to persist.
func (m *Manifest) Set(docPath string, entry ManifestEntry) {
	m.entries[docPath] = entry
}

// Delete removes an entry.
func (m *Manifest) Delete(docPath string) {
	delete(m.entries, docPath)
}

// Len returns the number of tracked documents.
func (m *Manifest) Len() int {
	return len(m.entries)
}

// Paths returns the tracked document paths in sorted order.
func (m *Manifest) Paths() []string {
	paths := make([]string, 0, len(m.entries))
	for p := range m.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// ChunksBySource aggregates chunk counts per source ID.
func (m *Manifest) ChunksBySource() map[string]int {
	counts := make(map[string]int, len(m.entries))
	for _, entry := range m.entries {
		counts[entry.SourceID] += entry.ChunkCount
	}
	return counts
}

// TotalChunks sums chunk counts across all entries.
func (m *Manifest) TotalChunks() int {
	total := 0
	for _, entry := range m.entries {
		total += entry.ChunkCount
	}
	return total
}

// Save writes the manifest atomically: a temp file in the same directory is
// renamed over the target so readers never observe a partial write.
func (m *Manifest) Save() error {
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create manifest directory %s: %w", dir, err)
	}

	content, err := json.MarshalIndent(m.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp manifest: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp manifest: %w", err)
	}

	if err := os.Rename(tmpPath, m.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace manifest %s: %w", m.path, err)
	}
	return nil
}
