// Package titles reconciles free-text job titles against a precomputed
// synonym map and builds that map via an external clustering oracle.
package titles

import (
	"encoding/json"
	"os"
	"strings"
)

// Resolver maps raw job titles to their canonical form. It is built once
// at startup by inverting the canonical->synonyms mapping file and is
// read-only afterwards, so it is safe for concurrent readers.
type Resolver struct {
	canonical map[string]string
}

// NewResolver inverts a canonical->synonyms mapping into a synonym
// lookup table. Synonyms are trimmed; a later duplicate synonym does not
// override an earlier assignment, so every raw title maps to at most one
// canonical title.
func NewResolver(mapping map[string][]string) *Resolver {
	canonical := make(map[string]string)
	for main, synonyms := range mapping {
		for _, synonym := range synonyms {
			key := strings.TrimSpace(synonym)
			if key == "" {
				continue
			}
			if _, ok := canonical[key]; !ok {
				canonical[key] = main
			}
		}
	}
	return &Resolver{canonical: canonical}
}

// LoadResolver reads the mapping file and builds a Resolver from it.
func LoadResolver(path string) (*Resolver, error) {
	mapping, err := LoadMappings(path)
	if err != nil {
		return nil, err
	}
	return NewResolver(mapping), nil
}

// LoadMappings reads a canonical->synonyms JSON mapping file.
func LoadMappings(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var mapping map[string][]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}

// Resolve returns the canonical title for a raw one. Unknown titles pass
// through unchanged; Resolve never fails.
func (r *Resolver) Resolve(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := r.canonical[trimmed]; ok {
		return canonical
	}
	return raw
}

// Len reports the number of known synonyms.
func (r *Resolver) Len() int {
	return len(r.canonical)
}
