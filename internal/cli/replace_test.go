package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceCommand(t *testing.T) {
	out, err := execute(t, "replace", "--map", "customers=clients", "SELECT * FROM customers")
	require.NoError(t, err)
	assert.Equal(t, "SELECT\n  *\nFROM \"clients\" AS customers\n", out)
}

func TestReplaceCommand_SubqueryMapping(t *testing.T) {
	out, err := execute(t, "replace", "--map", "orders=SELECT * FROM order_rows", "SELECT * FROM orders")
	require.NoError(t, err)
	assert.Contains(t, out, "FROM (\n  SELECT\n    *\n  FROM \"order_rows\"\n) AS orders")
}

func TestReplaceCommand_BadMapEntry(t *testing.T) {
	out, err := execute(t, "replace", "--map", "no-equals-sign", "SELECT * FROM t")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "want old=new")
}

func TestReplaceCommand_MaliciousQuery(t *testing.T) {
	out, err := execute(t, "replace", "--map", "a=b", "SELECT * FROM a; SELECT * FROM b")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "malicious query rejected")
}
