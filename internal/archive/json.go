// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// WriteJSON saves papers to path as an indented UTF-8 JSON array. Non-ASCII
// characters are preserved unescaped so Japanese titles stay readable.
func WriteJSON(path string, papers []types.Paper) error {
	data, err := MarshalJSON(papers)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// MarshalJSON renders papers as indented JSON without HTML escaping.
func MarshalJSON(papers []types.Paper) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(papers); err != nil {
		return nil, fmt.Errorf("encoding papers: %w", err)
	}
	return buf.Bytes(), nil
}
