package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nbformat/internal/store"
)

func putJSON(t *testing.T, db string, args ...string) []PutResult {
	t.Helper()
	out, err := execute(t, append([]string{"archive", "put", "--db", db, "--format", "json"}, args...)...)
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   []PutResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestArchivePutGetList(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "nb.db")
	path := writeFile(t, dir, "demo.ipynb", validNotebook)

	puts := putJSON(t, db, path)
	require.Len(t, puts, 1)
	assert.True(t, puts[0].Inserted)
	digest := puts[0].Digest
	assert.Len(t, digest, 64)

	again := putJSON(t, db, path)
	assert.False(t, again[0].Inserted)
	assert.Equal(t, digest, again[0].Digest)

	out, err := execute(t, "archive", "get", "--db", db, digest)
	require.NoError(t, err)
	assert.Equal(t, canonicalNotebook, out)

	target := filepath.Join(dir, "copy.ipynb")
	_, err = execute(t, "archive", "get", "--db", db, digest, "-o", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, canonicalNotebook, string(data))

	out, err = execute(t, "archive", "ls", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, digest)
	assert.Contains(t, out, "demo.ipynb")
	assert.Contains(t, out, "v4.5")
}

func TestArchiveGetJSON(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "nb.db")
	digest := putJSON(t, db, writeFile(t, dir, "demo.ipynb", validNotebook))[0].Digest

	out, err := execute(t, "archive", "get", "--db", db, "--format", "json", digest)
	require.NoError(t, err)

	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Contains(t, string(resp.Data), `"nbformat_minor"`)
}

func TestArchiveCells(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "nb.db")
	digest := putJSON(t, db, writeFile(t, dir, "demo.ipynb", validNotebook))[0].Digest

	out, err := execute(t, "archive", "cells", "--db", db, digest)
	require.NoError(t, err)
	assert.Contains(t, out, "[0] code")
	assert.Contains(t, out, "c1")
	assert.Contains(t, out, "outputs=1")

	out, err = execute(t, "archive", "cells", "--db", db, "--format", "json", digest)
	require.NoError(t, err)
	var resp struct {
		Data []store.CellRow `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "c1", resp.Data[0].ID)
}

func TestArchiveNotFound(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nb.db")

	_, err := execute(t, "archive", "get", "--db", db, "deadbeef")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)

	_, err = execute(t, "archive", "cells", "--db", db, "deadbeef")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestArchivePutRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "nb.db")
	bad := writeFile(t, dir, "bad.ipynb", duplicateIDNotebook)

	out, err := execute(t, "archive", "put", "--db", db, bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "[E120]")

	out, err = execute(t, "archive", "ls", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No notebooks archived.")
}

func TestArchivePutName(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "nb.db")
	a := writeFile(t, dir, "a.ipynb", validNotebook)
	b := writeFile(t, dir, "b.ipynb", canonicalNotebook)

	putJSON(t, db, "--name", "custom", a)

	out, err := execute(t, "archive", "ls", "--db", db, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "custom"`)

	_, err = execute(t, "archive", "put", "--db", db, "--name", "x", a, b)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestArchiveRequiresDB(t *testing.T) {
	_, err := execute(t, "archive", "ls")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "db"))
}
