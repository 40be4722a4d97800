package builder

import (
	"strconv"
	"strings"

	"github.com/datatap/semquery/dialect"
	"github.com/datatap/semquery/schema"
)

// DefaultHeadRows is the row limit HeadQuery applies when the caller passes
// a non-positive n.
const DefaultHeadRows = 5

// Kind tags the two builder variants behind the common interface.
type Kind string

const (
	// KindTable builds queries for a single physical table.
	KindTable Kind = "table"

	// KindView composes queries across joined dependencies.
	KindView Kind = "view"
)

// QueryBuilder is the capability shared by both builder variants. A view's
// dependencies dispatch through this interface, so a dependency's builder
// may itself be another view builder, nesting without bound.
//
// Builders are stateless aside from their schema and dependency references:
// every call is a pure function of those inputs, and concurrent calls
// against independent instances need no locking.
type QueryBuilder interface {
	// Kind reports the builder variant.
	Kind() Kind

	// BuildQuery renders the full SELECT for the schema.
	BuildQuery() (string, error)

	// HeadQuery renders the same query with its LIMIT forced to n.
	// Non-positive n means DefaultHeadRows.
	HeadQuery(n int) (string, error)
}

// Loader owns one data source's schema and its query builder. Loaders are
// constructed upstream; the view builder only reads them.
type Loader interface {
	Schema() *schema.Schema
	QueryBuilder() QueryBuilder
}

// CheckCompatibleSources reports whether a set of sources can participate
// in one view: vacuously true for zero or one source, otherwise true iff
// every source is compatible with the first.
func CheckCompatibleSources(sources []*schema.Source) bool {
	if len(sources) <= 1 {
		return true
	}
	first := sources[0]
	for _, s := range sources[1:] {
		if !first.IsCompatibleSource(s) {
			return false
		}
	}
	return true
}

// SQLQueryBuilder renders queries for one single-table schema by
// deterministic templating; no parsing is involved on this path.
type SQLQueryBuilder struct {
	schema *schema.Schema
	d      *dialect.Dialect
}

// NewSQLQueryBuilder returns a builder over s using default-dialect
// quoting.
func NewSQLQueryBuilder(s *schema.Schema) *SQLQueryBuilder {
	return &SQLQueryBuilder{schema: s, d: dialect.Default}
}

// Kind implements QueryBuilder.
func (b *SQLQueryBuilder) Kind() Kind { return KindTable }

// BuildQuery renders SELECT <cols> FROM <table> with GROUP BY, ORDER BY and
// LIMIT appended only when the schema carries them.
func (b *SQLQueryBuilder) BuildQuery() (string, error) {
	return b.render(b.schema.Limit), nil
}

// HeadQuery renders the same query with LIMIT forced to n, overriding any
// schema-level limit.
func (b *SQLQueryBuilder) HeadQuery(n int) (string, error) {
	if n <= 0 {
		n = DefaultHeadRows
	}
	return b.render(n), nil
}

// RowCountQuery always renders SELECT COUNT(*) FROM <table>, ignoring
// columns, grouping, ordering and limit.
func (b *SQLQueryBuilder) RowCountQuery() string {
	return "SELECT\n" + dialect.Indent + "COUNT(*)\nFROM " + quoteIfNeeded(b.schema.Name, b.d)
}

func (b *SQLQueryBuilder) render(limit int) string {
	var sb strings.Builder
	sb.WriteString("SELECT\n" + dialect.Indent)
	sb.WriteString(strings.Join(b.columns(), ",\n"+dialect.Indent))
	sb.WriteString("\nFROM " + quoteIfNeeded(b.schema.Name, b.d))
	sb.WriteString(renderTrailingClauses(b.schema.GroupBy, b.schema.OrderBy, limit, b.d))
	return sb.String()
}

// columns renders the SELECT list: a bare quoted name per plain column, the
// expression aliased to the column's alias (or name) when one is set, and
// "*" when the schema lists no columns.
func (b *SQLQueryBuilder) columns() []string {
	if len(b.schema.Columns) == 0 {
		return []string{"*"}
	}
	cols := make([]string, len(b.schema.Columns))
	for i, col := range b.schema.Columns {
		if col.Expression == "" {
			cols[i] = quoteIfNeeded(col.Name, b.d)
			continue
		}
		alias := col.Alias
		if alias == "" {
			alias = col.Name
		}
		cols[i] = col.Expression + " AS " + quoteIfNeeded(alias, b.d)
	}
	return cols
}

// renderTrailingClauses appends GROUP BY, ORDER BY and LIMIT in the fixed
// clause order, each only when present. Order-by entries are
// developer-authored "column direction" strings and pass through verbatim.
func renderTrailingClauses(groupBy, orderBy []string, limit int, d *dialect.Dialect) string {
	var sb strings.Builder
	if len(groupBy) > 0 {
		sb.WriteString("\nGROUP BY")
		for i, col := range groupBy {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString("\n" + dialect.Indent + quoteIfNeeded(col, d))
		}
	}
	if len(orderBy) > 0 {
		sb.WriteString("\nORDER BY")
		for i, entry := range orderBy {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString("\n" + dialect.Indent + entry)
		}
	}
	if limit > 0 {
		sb.WriteString("\nLIMIT " + strconv.Itoa(limit))
	}
	return sb.String()
}
