package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a catalogue document from path and validates it. An empty path
// returns the built-in default (which is also validated, guarding against
// edits that break its invariants).
func Load(path string) (*Definitions, error) {
	if path == "" {
		defs := Default()
		if err := defs.Validate(); err != nil {
			return nil, fmt.Errorf("built-in catalogue invalid: %w", err)
		}
		return defs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue file: %w", err)
	}
	var defs Definitions
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parse catalogue file: %w", err)
	}
	if err := defs.Validate(); err != nil {
		return nil, fmt.Errorf("catalogue %s invalid: %w", path, err)
	}
	return &defs, nil
}
