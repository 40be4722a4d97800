package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranspileCommand_ToMySQL(t *testing.T) {
	out, err := execute(t, "transpile", "--to", "mysql", `SELECT COUNT(*) AS "total_rows"`)
	require.NoError(t, err)
	assert.Equal(t, "SELECT\n  COUNT(*) AS `total_rows`\n", out)
}

func TestTranspileCommand_FromMySQL(t *testing.T) {
	out, err := execute(t, "transpile", "--from", "mysql", "--to", "postgres", "SELECT `a` FROM t")
	require.NoError(t, err)
	assert.Equal(t, "SELECT\n  \"a\"\nFROM t\n", out)
}

func TestTranspileCommand_Default(t *testing.T) {
	out, err := execute(t, "transpile", "select a from t")
	require.NoError(t, err)
	assert.Equal(t, "SELECT\n  a\nFROM t\n", out)
}

func TestTranspileCommand_ParseError(t *testing.T) {
	out, err := execute(t, "transpile", "not sql at all")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeParseFailed)
}
