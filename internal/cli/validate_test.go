package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_Valid(t *testing.T) {
	dir := writeSchemas(t)

	out, err := execute(t, "validate", dir)
	require.NoError(t, err)
	assert.Equal(t, "✓ All schemas valid\n", out)
}

func TestValidateCommand_InvalidSchema(t *testing.T) {
	dir := writeSchemas(t)
	bad := "name: broken\nview: true\ncolumns:\n  - name: plain\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(bad), 0o644))

	out, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, ErrCodeParseFailed)
	assert.Contains(t, out, "broken.yaml")
}

func TestValidateCommand_CollectsAllErrors(t *testing.T) {
	dir := writeSchemaFiles(t, map[string]string{
		"one.yaml": "view: true\n",         // missing name
		"two.yaml": "name: t\nlimit: -1\n", // negative limit
		"ok.yaml":  "name: fine\n",
	})

	out, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "one.yaml")
	assert.Contains(t, out, "two.yaml")
	assert.NotContains(t, out, "ok.yaml")
}

func TestValidateCommand_GraphErrors(t *testing.T) {
	dir := writeSchemaFiles(t, map[string]string{
		"v.yaml": "name: v\nview: true\ncolumns:\n  - name: ghost.id\n",
	})

	out, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "ghost")
}

func TestValidateCommand_MissingDirectory(t *testing.T) {
	out, err := execute(t, "validate", "/no/such/dir")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNotFound)
}

func TestValidateCommand_JSONFormat(t *testing.T) {
	dir := writeSchemas(t)

	out, err := execute(t, "--format", "json", "validate", dir)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["valid"])
}

func TestValidateCommand_JSONFormatErrors(t *testing.T) {
	dir := writeSchemaFiles(t, map[string]string{"bad.yaml": "view: true\n"})

	out, err := execute(t, "--format", "json", "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeParseFailed, resp.Error.Code)
}
