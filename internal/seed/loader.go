package seed

import (
	"encoding/json"
	"fmt"
	"os"
)

// sampleFile is the on-disk shape: a flat field-name → value map, with
// an optional per-endpoint section that is flattened in as well.
type sampleFile struct {
	Fields    map[string]interface{}            `json:"fields"`
	Endpoints map[string]map[string]interface{} `json:"endpoints"`
}

// LoadFile merges user-provided sample values from a JSON file into the
// source.
func LoadFile(s *Source, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var file sampleFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	s.Merge(file.Fields)
	for _, fields := range file.Endpoints {
		s.Merge(fields)
	}
	return nil
}
