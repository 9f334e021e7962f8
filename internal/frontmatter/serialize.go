package frontmatter

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// SerializeYAML renders fields as YAML without delimiters.
//
// Map keys are emitted in sorted order so the output is stable for hashing.
// An empty map serializes to an empty slice.
func SerializeYAML(fields map[string]any) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fields); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
