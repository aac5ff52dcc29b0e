// Package tomldoc renders canonical configuration trees to TOML and decodes
// existing documents from disk.
//
// Encoding goes through pelletier/go-toml/v2, which writes map keys in
// sorted order; together with the engine's sequence ordering this makes the
// serialized document a pure function of the canonical tree.
package tomldoc

import (
	"bytes"
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
)

// Header is prepended to generated documents when add_header is enabled.
const Header = "# This file is auto-generated by needscfg.\n" +
	"# It is a duplicate of shared and local configs to make external tools work.\n" +
	"# Do not manually modify it - changes will be overwritten.\n" +
	"\n"

// Encode renders a canonical value tree to TOML bytes.
// The tree must contain only TOML-serializable values; the engine's
// normalizer guarantees that.
func Encode(root map[string]any, addHeader bool) ([]byte, error) {
	var buf bytes.Buffer
	if addHeader {
		buf.WriteString(Header)
	}

	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("failed to encode TOML document: %w", err)
	}
	return buf.Bytes(), nil
}
