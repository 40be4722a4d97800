package sqlparse

// The AST mirrors the shape of a single SELECT statement closely enough to
// re-emit it deterministically. Nodes are immutable by convention: transforms
// build new nodes rather than mutating parsed ones.

// Expr is a SQL expression node.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the renderer and in transforms.
type Expr interface {
	exprNode()
}

// TableExpr is a FROM/JOIN table factor.
//
// Sealed for the same reason as Expr. A table factor is either a (possibly
// schema-qualified, possibly aliased) table name, or a parenthesized
// subquery with an alias.
type TableExpr interface {
	tableNode()
}

// Ident is one identifier with its quoting state as parsed. Quoted
// identifiers keep their exact text, including spaces and special
// characters.
type Ident struct {
	Name   string
	Quoted bool
}

// SelectStatement is the root node for a parsed query, including any leading
// WITH clause.
type SelectStatement struct {
	With     []CTE
	Distinct bool
	Items    []SelectItem
	From     TableExpr // nil for a FROM-less query
	Joins    []JoinClause
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	OrderBy  []OrderItem
	Limit    Expr
	Offset   Expr
}

// CTE is one WITH-clause entry. The alias names the subquery; it is not a
// base table.
type CTE struct {
	Name   Ident
	Select *SelectStatement
}

// SelectItem is one projection in the SELECT list.
type SelectItem struct {
	Expr  Expr
	Alias *Ident // nil when the item has no alias
}

// JoinClause is one JOIN attached to the FROM clause.
type JoinClause struct {
	// Keyword is the normalized join keyword: "JOIN", "LEFT JOIN",
	// "RIGHT JOIN", "FULL JOIN" or "CROSS JOIN".
	Keyword string
	Table   TableExpr
	On      Expr // nil for CROSS JOIN
}

// OrderItem is one ORDER BY entry.
type OrderItem struct {
	Expr Expr
	Dir  string // "", "ASC" or "DESC"
}

// TableName references a base table, optionally schema-qualified and
// aliased.
type TableName struct {
	Schema *Ident
	Name   Ident
	Alias  *Ident

	// RawAlias marks an alias introduced by a table-mapping substitution.
	// Raw aliases are emitted bare even when the renderer quotes every
	// other identifier.
	RawAlias bool
}

func (*TableName) tableNode() {}

// FromSubquery is a parenthesized derived table. Exactly one of Select and
// Expr is set: Select for a subquery parsed in place, Expr for a full
// expression substituted by a table mapping (which is wrapped in its own
// parentheses when emitted).
type FromSubquery struct {
	Select   *SelectStatement
	Expr     Expr
	Alias    *Ident
	RawAlias bool
}

func (*FromSubquery) tableNode() {}

// StarExpr is "*" or "table.*".
type StarExpr struct {
	Table *Ident
}

func (*StarExpr) exprNode() {}

// ColumnRef is a column reference, optionally qualified.
type ColumnRef struct {
	Table  *Ident
	Column Ident
}

func (*ColumnRef) exprNode() {}

// Literal is a number, string, placeholder, NULL or boolean literal. For
// strings, Value holds the unescaped text.
type Literal struct {
	Type  TokenType
	Value string
}

func (*Literal) exprNode() {}

// FuncCall is a function invocation. Star covers COUNT(*).
type FuncCall struct {
	Name     string
	Distinct bool
	Star     bool
	Args     []Expr
}

func (*FuncCall) exprNode() {}

// BinaryExpr is an infix operation. Op is the upper-case operator text.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr is a prefix operation: NOT or unary minus.
type UnaryExpr struct {
	Op   string
	Expr Expr
}

func (*UnaryExpr) exprNode() {}

// ParenExpr preserves explicit grouping parentheses from the input.
type ParenExpr struct {
	Expr Expr
}

func (*ParenExpr) exprNode() {}

// SubqueryExpr is a parenthesized scalar or IN-list subquery.
type SubqueryExpr struct {
	Select *SelectStatement
}

func (*SubqueryExpr) exprNode() {}

// InExpr is "<expr> [NOT] IN (<list or subquery>)". Exactly one of List and
// Select is set.
type InExpr struct {
	Expr   Expr
	Not    bool
	List   []Expr
	Select *SelectStatement
}

func (*InExpr) exprNode() {}

// IsNullExpr is "<expr> IS [NOT] NULL".
type IsNullExpr struct {
	Expr Expr
	Not  bool
}

func (*IsNullExpr) exprNode() {}

// BetweenExpr is "<expr> [NOT] BETWEEN <low> AND <high>".
type BetweenExpr struct {
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
}

func (*BetweenExpr) exprNode() {}

// CaseExpr is a searched or simple CASE expression.
type CaseExpr struct {
	Operand Expr // nil for searched CASE
	Whens   []CaseWhen
	Else    Expr
}

// CaseWhen is one WHEN/THEN arm of a CaseExpr.
type CaseWhen struct {
	When Expr
	Then Expr
}

func (*CaseExpr) exprNode() {}
