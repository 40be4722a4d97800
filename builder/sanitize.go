package builder

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/datatap/semquery/dialect"
	"github.com/datatap/semquery/sqlparse"
)

// Slug maps any schema-supplied string to a SQL-safe bare identifier. The
// input is NFKC-normalized and lower-cased, then every rune outside
// [a-z0-9_] becomes one underscore, so runs of disallowed characters become
// runs of underscores and statement terminators or comment markers turn
// into inert identifier text.
//
// The function is total: an empty input (or one consisting solely of
// disallowed runes that normalize away) yields "_".
func Slug(name string) string {
	name = strings.ToLower(norm.NFKC.String(name))
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// TableAlias renders a schema-supplied name as a SQL table alias. A name
// that lexes to exactly one bare identifier is emitted as-is; line comments
// around it are discarded ("users --" aliases as users). Anything else is
// emitted as one quoted identifier whose text is the whole original string,
// so an embedded ";" or keyword can never terminate the enclosing
// statement.
func TableAlias(name string, d *dialect.Dialect) string {
	if d == nil {
		d = dialect.Default
	}
	l := sqlparse.NewLexer(name, d)
	first := l.NextToken()
	second := l.NextToken()
	if first.Type == sqlparse.IDENT && second.Type == sqlparse.EOF {
		return first.Literal
	}
	return d.QuoteIdentifier(name)
}

// quoteIfNeeded emits a trusted name bare when it is a safe identifier and
// quoted otherwise.
func quoteIfNeeded(name string, d *dialect.Dialect) string {
	if sqlparse.IsSafeBareIdentifier(name) {
		return name
	}
	return d.QuoteIdentifier(name)
}

// safeDottedRef reports whether name is a bare table.column reference and
// returns its parts.
func safeDottedRef(name string) (table, column string, ok bool) {
	table, column, found := strings.Cut(name, ".")
	if !found {
		return "", "", false
	}
	if !sqlparse.IsSafeBareIdentifier(table) || !sqlparse.IsSafeBareIdentifier(column) {
		return "", "", false
	}
	return table, column, true
}
