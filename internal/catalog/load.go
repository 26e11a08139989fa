package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads card records from a JSON catalog file. The file holds a
// plain array of record objects.
func LoadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	return records, nil
}
