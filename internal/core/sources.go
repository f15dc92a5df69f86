package core

import (
	"encoding/json"
	"fmt"
	"os"
)

// SourceMap maps internal document identifiers to their public pages.
// Loaded once at startup; read-only afterwards.
type SourceMap struct {
	SourceToURL map[string]string `json:"source_to_url"`
	FallbackURL string            `json:"fallback_url"`
}

// DefaultSourceMap returns the faculty site mappings shipped with the service.
func DefaultSourceMap() SourceMap {
	return SourceMap{
		SourceToURL: map[string]string{
			"data/departament.txt":         "https://economice.ulbsibiu.ro/departament/",
			"data/cercetare.txt":           "https://economice.ulbsibiu.ro/cercetare",
			"data/structura-2025-2026.txt": "https://economice.ulbsibiu.ro/structura-2025-2026/",
			"data/licentamk.txt":           "https://economice.ulbsibiu.ro/programe-studii",
		},
		FallbackURL: "https://economice.ulbsibiu.ro",
	}
}

// LoadSourceMap reads mappings from a JSON file. A missing file is not an
// error; the shipped defaults are used instead.
func LoadSourceMap(path string) (SourceMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSourceMap(), nil
		}
		return SourceMap{}, fmt.Errorf("failed to read url mappings %s: %w", path, err)
	}

	var sm SourceMap
	if err := json.Unmarshal(data, &sm); err != nil {
		return SourceMap{}, fmt.Errorf("failed to parse url mappings %s: %w", path, err)
	}
	if sm.FallbackURL == "" {
		sm.FallbackURL = DefaultSourceMap().FallbackURL
	}
	return sm, nil
}

// ResolveURL returns the public URL for a document identifier, falling back to
// the faculty homepage for unmapped sources. Total function, never fails.
func (m SourceMap) ResolveURL(sourceID string) string {
	if url, ok := m.SourceToURL[sourceID]; ok {
		return url
	}
	return m.FallbackURL
}
