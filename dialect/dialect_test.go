package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"users"`, ANSI.QuoteIdentifier("users"))
	assert.Equal(t, "`users`", MySQL.QuoteIdentifier("users"))
}

func TestQuoteIdentifier_EscapesEmbeddedQuotes(t *testing.T) {
	// A closing quote inside the name must not terminate the identifier.
	assert.Equal(t, `"a""b"`, ANSI.QuoteIdentifier(`a"b`))
	assert.Equal(t, "`a``b`", MySQL.QuoteIdentifier("a`b"))
}

func TestLookup(t *testing.T) {
	testCases := []struct {
		name string
		want string
	}{
		{"", "ansi"},
		{"ansi", "ansi"},
		{"postgres", "postgres"},
		{"POSTGRES", "postgres"}, // case-insensitive
		{"sqlite", "sqlite"},
		{"duckdb", "duckdb"},
		{"mysql", "mysql"},
		{"oracle", "ansi"}, // unknown falls back to Default
	}

	for _, tc := range testCases {
		d := Lookup(tc.name)
		require.NotNil(t, d)
		assert.Equal(t, tc.want, d.Name, "Lookup(%q)", tc.name)
	}
}

func TestLookup_MySQLQuoting(t *testing.T) {
	d := Lookup("mysql")
	assert.Equal(t, byte('`'), d.QuoteOpen)
	assert.True(t, d.IsQuoteOpen('`'))
	assert.False(t, d.IsQuoteOpen('"'))
}

func TestNames_Sorted(t *testing.T) {
	assert.Equal(t, []string{"ansi", "duckdb", "mysql", "postgres", "sqlite"}, Names())
}
