package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Qwertymart/cdek/internal/normalize"
)

// DecodeMessage resolves the "single object or array" message shape once
// at the decode boundary and always hands records onward as a slice.
func DecodeMessage(body []byte) ([]*normalize.Record, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty message body")
	}

	if trimmed[0] == '[' {
		var records []*normalize.Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("decode record list: %w", err)
		}
		return records, nil
	}

	var record normalize.Record
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return []*normalize.Record{&record}, nil
}
