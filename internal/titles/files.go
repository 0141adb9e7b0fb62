package titles

import (
	"encoding/json"
	"os"
)

// LoadTitles reads a plain JSON array of raw title strings.
func LoadTitles(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var titles []string
	if err := json.Unmarshal(data, &titles); err != nil {
		return nil, err
	}
	return titles, nil
}

// WriteMappings persists the canonical->synonyms map as indented JSON.
func WriteMappings(path string, mappings map[string][]string) error {
	return writeJSON(path, mappings)
}

// WriteFailed persists the buckets that exhausted their oracle retries
// so an operator can reprocess them later.
func WriteFailed(path string, failed []Bucket) error {
	return writeJSON(path, failed)
}

func writeJSON(path string, v any) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
