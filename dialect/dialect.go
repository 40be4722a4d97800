package dialect

import (
	"sort"
	"strings"
)

// Indent is one level of indentation, shared by every renderer in the
// module so serialized output stays deterministic for golden tests.
const Indent = "  "

// Dialect describes the syntax conventions of one SQL engine.
//
// Only the parts that affect parsing and re-emission live here: identifier
// quoting and a name for registry lookup. Connection handling, placeholders
// and type mapping belong to the execution layer, which this module does not
// have.
type Dialect struct {
	// Name is the registry key, e.g. "postgres" or "mysql".
	Name string

	// QuoteOpen and QuoteClose delimit a quoted identifier.
	QuoteOpen  byte
	QuoteClose byte

	// QuoteEscape is the sequence that represents the closing quote
	// character inside a quoted identifier.
	QuoteEscape string
}

// QuoteIdentifier wraps name in the dialect's identifier quotes, escaping
// embedded closing quotes.
func (d *Dialect) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, string(d.QuoteClose), d.QuoteEscape)
	return string(d.QuoteOpen) + escaped + string(d.QuoteClose)
}

// IsQuoteOpen reports whether ch starts a quoted identifier in this dialect.
func (d *Dialect) IsQuoteOpen(ch byte) bool {
	return ch == d.QuoteOpen
}

// ANSI is the default dialect: double-quoted identifiers, standard clause
// ordering. Postgres, SQLite and DuckDB share its conventions.
var ANSI = &Dialect{
	Name:        "ansi",
	QuoteOpen:   '"',
	QuoteClose:  '"',
	QuoteEscape: `""`,
}

// MySQL uses backtick identifier quoting.
var MySQL = &Dialect{
	Name:        "mysql",
	QuoteOpen:   '`',
	QuoteClose:  '`',
	QuoteEscape: "``",
}

// Default is the dialect assumed when none is named.
var Default = ANSI

// registry maps dialect names to their conventions. Engines that share ANSI
// quoting are registered as aliases of the same conventions under their own
// names.
var registry = map[string]*Dialect{
	"ansi":     ANSI,
	"postgres": {Name: "postgres", QuoteOpen: '"', QuoteClose: '"', QuoteEscape: `""`},
	"sqlite":   {Name: "sqlite", QuoteOpen: '"', QuoteClose: '"', QuoteEscape: `""`},
	"duckdb":   {Name: "duckdb", QuoteOpen: '"', QuoteClose: '"', QuoteEscape: `""`},
	"mysql":    MySQL,
}

// Lookup resolves a dialect by name, case-insensitively. An empty name
// resolves to Default. Unknown names fall back to Default so that callers
// passing engine names this module has no special handling for still get
// well-formed ANSI output.
func Lookup(name string) *Dialect {
	if name == "" {
		return Default
	}
	if d, ok := registry[strings.ToLower(name)]; ok {
		return d
	}
	return Default
}

// Names returns the registered dialect names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
