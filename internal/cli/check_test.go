package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckValid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ok.ipynb", validNotebook)

	out, err := execute(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All notebooks match the schema")
}

func TestCheckUnknownCellType(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sql.ipynb", `{"nbformat":4,"nbformat_minor":5,"metadata":{},"cells":[
		{"id":"q","cell_type":"sql","metadata":{},"source":"SELECT 1"}]}`)

	out, err := execute(t, "check", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ "+path)
}

func TestCheckDoesNotSeeUniqueness(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dup.ipynb", `{"nbformat":4,"nbformat_minor":5,"metadata":{},"cells":[
		{"id":"a","cell_type":"raw","metadata":{},"source":""},
		{"id":"a","cell_type":"raw","metadata":{},"source":""}]}`)

	_, err := execute(t, "check", path)
	assert.NoError(t, err, "the schema checks structure only")

	_, err = execute(t, "validate", path)
	assert.Error(t, err)
}

func TestCheckNotJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "junk.ipynb", "[1,")

	out, err := execute(t, "check", "--format", "json", path)
	require.Error(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   SchemaResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.Len(t, resp.Data.Files, 1)
	assert.NotEmpty(t, resp.Data.Files[0].Error)
}
