// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-agent/pkg/types"
)

func TestMarshalJSONPreservesNonASCII(t *testing.T) {
	papers := []types.Paper{{
		ID:       "W1",
		Title:    "深層学習による創薬",
		Abstract: "タンパク質構造予測 <sup>1</sup>",
	}}

	data, err := MarshalJSON(papers)
	require.NoError(t, err)

	// Japanese stays readable, HTML stays unescaped.
	assert.Contains(t, string(data), "深層学習による創薬")
	assert.Contains(t, string(data), "<sup>1</sup>")
	assert.NotContains(t, string(data), `<`)
}

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	papers := samplePapers()

	require.NoError(t, WriteJSON(path, papers))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []types.Paper
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, papers, got)
}
