package sqlparse

import (
	"strings"

	"github.com/datatap/semquery/dialect"
)

// Options controls rendering behavior.
type Options struct {
	// IdentifyAll quotes every identifier, regardless of whether it was
	// quoted in the input. Aliases marked raw by a transform stay bare as
	// long as they are safe bare identifiers; anything else is quoted.
	IdentifyAll bool
}

// Render serializes a statement under d's quoting conventions using the
// module's fixed format: two-space indentation, upper-case keywords, one
// clause per line. Rendering is a pure function of the tree, the dialect and
// the options.
func Render(stmt *SelectStatement, d *dialect.Dialect, opts Options) string {
	if d == nil {
		d = dialect.Default
	}
	r := &renderer{d: d, opts: opts}
	return r.selectStatement(stmt)
}

// RenderExpr serializes a standalone expression the same way Render does.
func RenderExpr(expr Expr, d *dialect.Dialect, opts Options) string {
	if d == nil {
		d = dialect.Default
	}
	r := &renderer{d: d, opts: opts}
	return r.expr(expr)
}

// IsSafeBareIdentifier reports whether name can be emitted without quoting:
// a leading letter or underscore, followed by letters, digits or
// underscores, and not colliding with a keyword.
func IsSafeBareIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if isLetter(ch) || (i > 0 && isDigit(ch)) {
			continue
		}
		return false
	}
	return !IsReservedWord(name)
}

// IndentBlock prefixes every line of block with one indentation level.
func IndentBlock(block string) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = dialect.Indent + line
	}
	return strings.Join(lines, "\n")
}

type renderer struct {
	d    *dialect.Dialect
	opts Options
}

func (r *renderer) ident(id Ident) string {
	if r.opts.IdentifyAll || id.Quoted || !IsSafeBareIdentifier(id.Name) {
		return r.d.QuoteIdentifier(id.Name)
	}
	return id.Name
}

func (r *renderer) aliasIdent(id Ident, raw bool) string {
	if raw && IsSafeBareIdentifier(id.Name) {
		return id.Name
	}
	return r.ident(id)
}

func (r *renderer) selectStatement(stmt *SelectStatement) string {
	var b strings.Builder

	if len(stmt.With) > 0 {
		b.WriteString("WITH ")
		for i, cte := range stmt.With {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(r.ident(cte.Name))
			b.WriteString(" AS (\n")
			b.WriteString(IndentBlock(r.selectStatement(cte.Select)))
			b.WriteString("\n)")
		}
		b.WriteString("\n")
	}

	b.WriteString("SELECT")
	if stmt.Distinct {
		b.WriteString(" DISTINCT")
	}
	for i, item := range stmt.Items {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n" + dialect.Indent)
		b.WriteString(r.expr(item.Expr))
		if item.Alias != nil {
			b.WriteString(" AS " + r.ident(*item.Alias))
		}
	}

	if stmt.From != nil {
		b.WriteString("\nFROM ")
		b.WriteString(r.tableExpr(stmt.From))
	}

	for _, join := range stmt.Joins {
		b.WriteString("\n" + join.Keyword + " ")
		b.WriteString(r.tableExpr(join.Table))
		if join.On != nil {
			b.WriteString("\n" + dialect.Indent + "ON " + r.expr(join.On))
		}
	}

	if stmt.Where != nil {
		b.WriteString("\nWHERE\n" + dialect.Indent + r.expr(stmt.Where))
	}

	if len(stmt.GroupBy) > 0 {
		b.WriteString("\nGROUP BY")
		for i, expr := range stmt.GroupBy {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString("\n" + dialect.Indent + r.expr(expr))
		}
	}

	if stmt.Having != nil {
		b.WriteString("\nHAVING\n" + dialect.Indent + r.expr(stmt.Having))
	}

	if len(stmt.OrderBy) > 0 {
		b.WriteString("\nORDER BY")
		for i, item := range stmt.OrderBy {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString("\n" + dialect.Indent + r.expr(item.Expr))
			if item.Dir != "" {
				b.WriteString(" " + item.Dir)
			}
		}
	}

	if stmt.Limit != nil {
		b.WriteString("\nLIMIT " + r.expr(stmt.Limit))
	}
	if stmt.Offset != nil {
		b.WriteString("\nOFFSET " + r.expr(stmt.Offset))
	}

	return b.String()
}

func (r *renderer) tableExpr(t TableExpr) string {
	switch table := t.(type) {
	case *TableName:
		var b strings.Builder
		if table.Schema != nil {
			b.WriteString(r.ident(*table.Schema) + ".")
		}
		b.WriteString(r.ident(table.Name))
		if table.Alias != nil {
			b.WriteString(" AS " + r.aliasIdent(*table.Alias, table.RawAlias))
		}
		return b.String()
	case *FromSubquery:
		var body string
		if table.Select != nil {
			body = r.selectStatement(table.Select)
		} else {
			body = r.expr(table.Expr)
		}
		out := "(\n" + IndentBlock(body) + "\n)"
		if table.Alias != nil {
			out += " AS " + r.aliasIdent(*table.Alias, table.RawAlias)
		}
		return out
	default:
		return ""
	}
}

func (r *renderer) expr(e Expr) string {
	switch expr := e.(type) {
	case *StarExpr:
		if expr.Table != nil {
			return r.ident(*expr.Table) + ".*"
		}
		return "*"
	case *ColumnRef:
		if expr.Table != nil {
			return r.ident(*expr.Table) + "." + r.ident(expr.Column)
		}
		return r.ident(expr.Column)
	case *Literal:
		return r.literal(expr)
	case *FuncCall:
		return r.funcCall(expr)
	case *BinaryExpr:
		op := expr.Op
		if op == "!=" {
			op = "<>"
		}
		return r.expr(expr.Left) + " " + op + " " + r.expr(expr.Right)
	case *UnaryExpr:
		if expr.Op == "NOT" {
			return "NOT " + r.expr(expr.Expr)
		}
		return expr.Op + r.expr(expr.Expr)
	case *ParenExpr:
		return "(" + r.expr(expr.Expr) + ")"
	case *SubqueryExpr:
		return "(\n" + IndentBlock(r.selectStatement(expr.Select)) + "\n)"
	case *InExpr:
		return r.inExpr(expr)
	case *IsNullExpr:
		if expr.Not {
			return r.expr(expr.Expr) + " IS NOT NULL"
		}
		return r.expr(expr.Expr) + " IS NULL"
	case *BetweenExpr:
		op := " BETWEEN "
		if expr.Not {
			op = " NOT BETWEEN "
		}
		return r.expr(expr.Expr) + op + r.expr(expr.Low) + " AND " + r.expr(expr.High)
	case *CaseExpr:
		return r.caseExpr(expr)
	default:
		return ""
	}
}

func (r *renderer) literal(lit *Literal) string {
	switch lit.Type {
	case STRINGLIT:
		return "'" + strings.ReplaceAll(lit.Value, "'", "''") + "'"
	case NULL, TRUE, FALSE:
		return string(lit.Type)
	default:
		return lit.Value
	}
}

func (r *renderer) funcCall(call *FuncCall) string {
	name := strings.ToUpper(call.Name)
	if call.Star {
		return name + "(*)"
	}
	args := make([]string, len(call.Args))
	for i, arg := range call.Args {
		args[i] = r.expr(arg)
	}
	prefix := ""
	if call.Distinct {
		prefix = "DISTINCT "
	}
	return name + "(" + prefix + strings.Join(args, ", ") + ")"
}

func (r *renderer) inExpr(in *InExpr) string {
	out := r.expr(in.Expr)
	if in.Not {
		out += " NOT"
	}
	out += " IN ("
	if in.Select != nil {
		return out + "\n" + IndentBlock(r.selectStatement(in.Select)) + "\n)"
	}
	items := make([]string, len(in.List))
	for i, item := range in.List {
		items[i] = r.expr(item)
	}
	return out + strings.Join(items, ", ") + ")"
}

func (r *renderer) caseExpr(c *CaseExpr) string {
	var b strings.Builder
	b.WriteString("CASE")
	if c.Operand != nil {
		b.WriteString(" " + r.expr(c.Operand))
	}
	for _, arm := range c.Whens {
		b.WriteString(" WHEN " + r.expr(arm.When) + " THEN " + r.expr(arm.Then))
	}
	if c.Else != nil {
		b.WriteString(" ELSE " + r.expr(c.Else))
	}
	b.WriteString(" END")
	return b.String()
}
