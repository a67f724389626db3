package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := mainImpl(append([]string{"-log-level", "error"}, args...), &out)
	return out.String(), err
}

func TestCLI(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "store")

	for _, kv := range [][2]string{{"user_1", "alice"}, {"user_2", "42"}, {"admin_1", "true"}} {
		_, err := runCLI(t, "-path", store, "set", kv[0], kv[1])
		require.NoError(t, err)
	}

	out, err := runCLI(t, "-path", store, "get", "user_2")
	require.NoError(t, err)
	assert.Equal(t, "\"user_2\"\t\"42\"\tNumber\n", out)

	out, err = runCLI(t, "-path", store, "-limit", "1", "prefix", "user_")
	require.NoError(t, err)
	assert.Equal(t, "\"user_1\"\t\"alice\"\tString\n# 1 shown, 3 in tree, more: true\n", out)

	out, err = runCLI(t, "-path", store, "-reverse", "range")
	require.NoError(t, err)
	assert.Contains(t, out, "\"user_2\"\t\"42\"\tNumber\n\"user_1\"")

	file := filepath.Join(dir, "dump.yaml")
	out, err = runCLI(t, "-path", store, "-format", "yaml", "-file", file, "export")
	require.NoError(t, err)
	assert.Equal(t, "exported 3 records to "+file+"\n", out)

	out, err = runCLI(t, "-path", store, "-tree", "copy", "-format", "yaml", "-file", file, "import")
	require.NoError(t, err)
	assert.Equal(t, "imported 3 records from "+file+"\n", out)

	out, err = runCLI(t, "-path", store, "trees")
	require.NoError(t, err)
	assert.Equal(t, "copy\ndefault\n", out)

	out, err = runCLI(t, "-path", store, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, `"key_count": 3`)
	assert.Contains(t, out, `"tree_count": 2`)
}

func TestCLI_Errors(t *testing.T) {
	store := filepath.Join(t.TempDir(), "store")

	_, err := runCLI(t, "get", "k")
	assert.ErrorContains(t, err, "-path is required")

	_, err = runCLI(t, "-path", store, "frobnicate")
	assert.ErrorContains(t, err, "unknown command")

	_, err = runCLI(t, "-path", store, "get")
	assert.ErrorContains(t, err, "expected 1 argument")

	_, err = runCLI(t, "-path", store, "get", "missing")
	assert.ErrorContains(t, err, "not found")

	_, err = runCLI(t, "-path", store, "-format", "toml", "-file", "x", "export")
	assert.ErrorContains(t, err, "unsupported format")
}
