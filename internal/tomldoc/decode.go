package tomldoc

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// DecodeFile parses a TOML file into a generic value tree.
// Used for reading documents that are merged into the output.
func DecodeFile(path string) (map[string]any, error) {
	var data map[string]any
	if _, err := toml.DecodeFile(path, &data); err != nil {
		return nil, fmt.Errorf("failed to parse TOML file %q: %w", path, err)
	}
	return data, nil
}
