// Package transform provides SQL-text transforms over the sqlparse engine:
// base-table extraction, table-reference substitution and dialect
// transpilation.
//
// Every operation parses its input into a fresh tree, builds a new tree if
// it rewrites anything, and re-serializes with the module's fixed formatting
// (two-space indent, upper-case keywords, one clause per line), so equal
// inputs always produce byte-identical output.
package transform

import (
	"github.com/datatap/semquery/dialect"
	"github.com/datatap/semquery/sqlparse"
)

// ExtractTableNames returns the base table names referenced by query, in
// first-occurrence order without duplicates. Names introduced as CTE aliases
// are resolved to the tables underneath them. Schema-qualified references
// are returned without the schema prefix; quoted identifiers keep their
// exact text. A query with no FROM clause yields an empty slice.
func ExtractTableNames(query string, dialectName string) ([]string, error) {
	d := dialect.Lookup(dialectName)
	stmts, err := sqlparse.ParseStatements(query, d)
	if err != nil {
		return nil, err
	}

	names := []string{}
	seen := map[string]bool{}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, stmt := range stmts {
		collectTables(stmt, map[string]bool{}, add)
	}
	return names, nil
}

// collectTables walks one statement. cteNames holds the CTE aliases visible
// at this level; they shadow base tables of the same name.
func collectTables(stmt *sqlparse.SelectStatement, cteNames map[string]bool, add func(string)) {
	// CTE bodies are walked first: their aliases are defined left to
	// right, and each body may reference earlier aliases.
	local := make(map[string]bool, len(cteNames)+len(stmt.With))
	for name := range cteNames {
		local[name] = true
	}
	for _, cte := range stmt.With {
		collectTables(cte.Select, local, add)
		local[cte.Name.Name] = true
	}

	if stmt.From != nil {
		collectTableExpr(stmt.From, local, add)
	}
	for _, join := range stmt.Joins {
		collectTableExpr(join.Table, local, add)
		collectExprTables(join.On, local, add)
	}
	collectExprTables(stmt.Where, local, add)
	for _, item := range stmt.Items {
		collectExprTables(item.Expr, local, add)
	}
	collectExprTables(stmt.Having, local, add)
}

func collectTableExpr(t sqlparse.TableExpr, cteNames map[string]bool, add func(string)) {
	switch table := t.(type) {
	case *sqlparse.TableName:
		if !cteNames[table.Name.Name] {
			add(table.Name.Name)
		}
	case *sqlparse.FromSubquery:
		if table.Select != nil {
			collectTables(table.Select, cteNames, add)
		}
	}
}

func collectExprTables(e sqlparse.Expr, cteNames map[string]bool, add func(string)) {
	switch expr := e.(type) {
	case nil:
	case *sqlparse.SubqueryExpr:
		collectTables(expr.Select, cteNames, add)
	case *sqlparse.BinaryExpr:
		collectExprTables(expr.Left, cteNames, add)
		collectExprTables(expr.Right, cteNames, add)
	case *sqlparse.UnaryExpr:
		collectExprTables(expr.Expr, cteNames, add)
	case *sqlparse.ParenExpr:
		collectExprTables(expr.Expr, cteNames, add)
	case *sqlparse.InExpr:
		collectExprTables(expr.Expr, cteNames, add)
		if expr.Select != nil {
			collectTables(expr.Select, cteNames, add)
		}
		for _, item := range expr.List {
			collectExprTables(item, cteNames, add)
		}
	case *sqlparse.IsNullExpr:
		collectExprTables(expr.Expr, cteNames, add)
	case *sqlparse.BetweenExpr:
		collectExprTables(expr.Expr, cteNames, add)
		collectExprTables(expr.Low, cteNames, add)
		collectExprTables(expr.High, cteNames, add)
	case *sqlparse.FuncCall:
		for _, arg := range expr.Args {
			collectExprTables(arg, cteNames, add)
		}
	case *sqlparse.CaseExpr:
		collectExprTables(expr.Operand, cteNames, add)
		for _, arm := range expr.Whens {
			collectExprTables(arm.When, cteNames, add)
			collectExprTables(arm.Then, cteNames, add)
		}
		collectExprTables(expr.Else, cteNames, add)
	}
}

// ReplaceTableAndColumnNames substitutes table references per mapping. A
// mapping value that parses as a table identifier is emitted quoted and
// aliased to the original reference name; one that parses as a SQL
// expression or subquery is wrapped in parentheses and aliased the same
// way. Tables absent from the mapping pass through unchanged apart from
// uniform identifier quoting.
//
// A query carrying more than one statement is rejected with a
// *MaliciousInputError; a mapping value that parses as neither an
// identifier nor an expression is rejected with an *InvalidMappingError
// naming the value.
func ReplaceTableAndColumnNames(query string, mapping map[string]string) (string, error) {
	d := dialect.Default
	stmts, err := sqlparse.ParseStatements(query, d)
	if err != nil {
		return "", err
	}
	if len(stmts) > 1 {
		return "", &MaliciousInputError{Reason: "query contains multiple statements"}
	}

	rewritten, err := rewriteSelect(stmts[0], mapping, d)
	if err != nil {
		return "", err
	}
	return sqlparse.Render(rewritten, d, sqlparse.Options{IdentifyAll: true}), nil
}

// rewriteSelect returns a copy of stmt with every mapped table reference
// substituted, recursing through CTEs, derived tables and subquery
// expressions. The input tree is never mutated.
func rewriteSelect(stmt *sqlparse.SelectStatement, mapping map[string]string, d *dialect.Dialect) (*sqlparse.SelectStatement, error) {
	out := *stmt

	if len(stmt.With) > 0 {
		out.With = make([]sqlparse.CTE, len(stmt.With))
		for i, cte := range stmt.With {
			sub, err := rewriteSelect(cte.Select, mapping, d)
			if err != nil {
				return nil, err
			}
			out.With[i] = sqlparse.CTE{Name: cte.Name, Select: sub}
		}
	}

	if stmt.From != nil {
		from, err := rewriteTableExpr(stmt.From, mapping, d)
		if err != nil {
			return nil, err
		}
		out.From = from
	}

	if len(stmt.Joins) > 0 {
		out.Joins = make([]sqlparse.JoinClause, len(stmt.Joins))
		for i, join := range stmt.Joins {
			table, err := rewriteTableExpr(join.Table, mapping, d)
			if err != nil {
				return nil, err
			}
			out.Joins[i] = sqlparse.JoinClause{Keyword: join.Keyword, Table: table, On: join.On}
		}
	}

	return &out, nil
}

func rewriteTableExpr(t sqlparse.TableExpr, mapping map[string]string, d *dialect.Dialect) (sqlparse.TableExpr, error) {
	switch table := t.(type) {
	case *sqlparse.TableName:
		value, ok := mapping[table.Name.Name]
		if !ok {
			return table, nil
		}
		return substituteTable(table, value, d)
	case *sqlparse.FromSubquery:
		if table.Select == nil {
			return table, nil
		}
		sub, err := rewriteSelect(table.Select, mapping, d)
		if err != nil {
			return nil, err
		}
		out := *table
		out.Select = sub
		return &out, nil
	default:
		return t, nil
	}
}

// substituteTable builds the replacement node for one mapped table
// reference. The alias is the original explicit alias when present,
// otherwise the original table name, and is emitted bare when it lexes
// as a plain identifier (quoted otherwise, so a mapped table whose
// original name carries spaces still renders valid SQL).
func substituteTable(table *sqlparse.TableName, value string, d *dialect.Dialect) (sqlparse.TableExpr, error) {
	alias := table.Name
	if table.Alias != nil {
		alias = *table.Alias
	}

	if parts, ok := parseTableIdentifier(value, d); ok {
		out := &sqlparse.TableName{
			Name:     sqlparse.Ident{Name: parts[len(parts)-1], Quoted: true},
			Alias:    &alias,
			RawAlias: true,
		}
		if len(parts) == 2 {
			out.Schema = &sqlparse.Ident{Name: parts[0], Quoted: true}
		}
		return out, nil
	}

	if expr, err := sqlparse.ParseExpr(value, d); err == nil {
		return &sqlparse.FromSubquery{Expr: expr, Alias: &alias, RawAlias: true}, nil
	}

	// A bare SELECT (no surrounding parentheses) is still a usable
	// subquery; anything past one statement is an injection attempt.
	if stmts, err := sqlparse.ParseStatements(value, d); err == nil {
		if len(stmts) > 1 {
			return nil, &MaliciousInputError{Reason: "mapping value contains multiple statements"}
		}
		return &sqlparse.FromSubquery{Select: stmts[0], Alias: &alias, RawAlias: true}, nil
	}

	return nil, &InvalidMappingError{Value: value}
}

// parseTableIdentifier reports whether value lexes as a lone table
// identifier, optionally schema-qualified, and returns its parts.
func parseTableIdentifier(value string, d *dialect.Dialect) ([]string, bool) {
	l := sqlparse.NewLexer(value, d)
	var parts []string
	tok := l.NextToken()
	for {
		if tok.Type != sqlparse.IDENT && tok.Type != sqlparse.QUOTED {
			return nil, false
		}
		parts = append(parts, tok.Literal)
		tok = l.NextToken()
		if tok.Type != sqlparse.DOT {
			break
		}
		tok = l.NextToken()
	}
	if tok.Type != sqlparse.EOF || len(parts) == 0 || len(parts) > 2 {
		return nil, false
	}
	return parts, true
}

// Transpile re-emits query under toDialect's conventions, parsing it under
// the default dialect.
func Transpile(query string, toDialect string) (string, error) {
	return TranspileFrom(query, toDialect, "")
}

// TranspileFrom parses query under fromDialect and re-emits it under
// toDialect. Identifier quoting is preserved as parsed: identifiers quoted
// in the input stay quoted in the target's style, bare identifiers stay
// bare.
func TranspileFrom(query string, toDialect string, fromDialect string) (string, error) {
	from := dialect.Lookup(fromDialect)
	to := dialect.Lookup(toDialect)
	stmt, err := sqlparse.ParseOne(query, from)
	if err != nil {
		return "", err
	}
	return sqlparse.Render(stmt, to, sqlparse.Options{}), nil
}
