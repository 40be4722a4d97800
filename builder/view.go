package builder

import (
	"strconv"
	"strings"

	"github.com/datatap/semquery/dialect"
	"github.com/datatap/semquery/schema"
	"github.com/datatap/semquery/sqlparse"
)

// ViewQueryBuilder composes a joined SQL subquery tree from a view schema
// and the loaders of the tables it references. Every call is a pure
// recursive tree-walk over the dependency graph, terminating at loaders
// whose builders are single-table builders.
type ViewQueryBuilder struct {
	schema *schema.Schema
	deps   map[string]Loader
	d      *dialect.Dialect
}

// NewViewQueryBuilder validates the view's dependency graph and returns a
// builder. Construction fails with a *BuildError when the view references
// no tables, when a referenced table has no loader, or when the view
// transitively depends on itself.
func NewViewQueryBuilder(s *schema.Schema, deps map[string]Loader) (*ViewQueryBuilder, error) {
	tables := s.Tables()
	if len(tables) == 0 {
		return nil, &BuildError{Code: ErrCodeEmptyView, Message: "view references no tables", View: s.Name}
	}
	for _, table := range tables {
		if _, ok := deps[table]; !ok {
			return nil, NewMissingDependencyError(s.Name, table)
		}
	}
	if err := checkCycles(s.Name, deps); err != nil {
		return nil, err
	}
	return &ViewQueryBuilder{schema: s, deps: deps, d: dialect.Default}, nil
}

// Kind implements QueryBuilder.
func (b *ViewQueryBuilder) Kind() Kind { return KindView }

// BuildQuery renders the two-layer view query: an outer SELECT of the
// flattened column aliases over the parenthesized, aliased FROM/JOIN tree.
func (b *ViewQueryBuilder) BuildQuery() (string, error) {
	return b.build(b.schema.Limit)
}

// HeadQuery builds the composed query without any schema-level limit, then
// appends a single outer LIMIT n. The limit is never pushed into inner
// subqueries.
func (b *ViewQueryBuilder) HeadQuery(n int) (string, error) {
	if n <= 0 {
		n = DefaultHeadRows
	}
	query, err := b.build(0)
	if err != nil {
		return "", err
	}
	return query + "\nLIMIT " + strconv.Itoa(n), nil
}

func (b *ViewQueryBuilder) build(limit int) (string, error) {
	expr, err := b.tableExpression()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("SELECT\n" + dialect.Indent)
	sb.WriteString(strings.Join(b.outerColumns(), ",\n"+dialect.Indent))
	sb.WriteString("\nFROM " + expr)
	sb.WriteString(renderTrailingClauses(b.schema.GroupBy, b.schema.OrderBy, limit, b.d))
	return sb.String(), nil
}

// flatAlias is the flattened, sanitized alias of one view column: the slug
// of its explicit alias when set, otherwise of its dotted reference.
func flatAlias(col schema.Column) string {
	if col.Alias != "" {
		return Slug(col.Alias)
	}
	return Slug(col.Name)
}

// outerColumns re-selects each flattened alias as itself.
func (b *ViewQueryBuilder) outerColumns() []string {
	if len(b.schema.Columns) == 0 {
		return []string{"*"}
	}
	cols := make([]string, len(b.schema.Columns))
	for i, col := range b.schema.Columns {
		alias := flatAlias(col)
		cols[i] = alias + " AS " + alias
	}
	return cols
}

// innerColumns selects table.column under its flattened alias. A column
// name that is not a clean dotted reference is fully sanitized on both
// sides, so schema-supplied text can never escape the identifier context.
func (b *ViewQueryBuilder) innerColumns() []string {
	if len(b.schema.Columns) == 0 {
		return []string{"*"}
	}
	cols := make([]string, len(b.schema.Columns))
	for i, col := range b.schema.Columns {
		alias := flatAlias(col)
		if table, column, ok := safeDottedRef(col.Name); ok {
			cols[i] = table + "." + column + " AS " + alias
		} else {
			cols[i] = alias + " AS " + alias
		}
	}
	return cols
}

// tableExpression composes the FROM/JOIN tree: the first referenced table
// wrapped by its loader's own builder, one JOIN per newly-introduced table
// with its relations' conditions AND-ed together, the whole expression
// parenthesized and aliased to the sanitized view name.
func (b *ViewQueryBuilder) tableExpression() (string, error) {
	tables := b.schema.Tables()
	first := tables[0]

	var sb strings.Builder
	sb.WriteString("SELECT\n" + dialect.Indent)
	sb.WriteString(strings.Join(b.innerColumns(), ",\n"+dialect.Indent))

	wrapped, err := b.wrapTable(first)
	if err != nil {
		return "", err
	}
	sb.WriteString("\nFROM " + wrapped)

	joined := map[string]bool{first: true}
	type joinGroup struct {
		table string
		conds []string
	}
	var groups []joinGroup
	index := map[string]int{}
	for _, rel := range b.schema.Relations {
		table := tableOf(rel.To)
		if joined[table] && !joined[tableOf(rel.From)] {
			// Reversed edge: the new table is on the from side.
			table = tableOf(rel.From)
		}
		cond := rel.From + " = " + rel.To
		if i, ok := index[table]; ok {
			groups[i].conds = append(groups[i].conds, cond)
			continue
		}
		joined[table] = true
		index[table] = len(groups)
		groups = append(groups, joinGroup{table: table, conds: []string{cond}})
	}

	for _, g := range groups {
		wrapped, err := b.wrapTable(g.table)
		if err != nil {
			return "", err
		}
		sb.WriteString("\nJOIN " + wrapped)
		sb.WriteString("\n" + dialect.Indent + "ON " + strings.Join(g.conds, " AND "))
	}

	alias := TableAlias(b.schema.Name, b.d)
	return "(\n" + sqlparse.IndentBlock(sb.String()) + "\n) AS " + alias, nil
}

// wrapTable renders one dependency as a parenthesized subquery aliased to
// the table name, recursing into the dependency's own builder.
func (b *ViewQueryBuilder) wrapTable(table string) (string, error) {
	loader, ok := b.deps[table]
	if !ok {
		return "", NewMissingDependencyError(b.schema.Name, table)
	}
	sub, err := loader.QueryBuilder().BuildQuery()
	if err != nil {
		return "", err
	}
	return "(\n" + sqlparse.IndentBlock(sub) + "\n) AS " + TableAlias(table, b.d), nil
}

func tableOf(ref string) string {
	table, _, _ := strings.Cut(ref, ".")
	return table
}
