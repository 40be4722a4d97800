package sqlparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOne_SimpleSelect(t *testing.T) {
	stmt, err := ParseOne("SELECT a, b FROM users WHERE age > 21", nil)
	require.NoError(t, err)

	require.Len(t, stmt.Items, 2)
	assert.Equal(t, &ColumnRef{Column: Ident{Name: "a"}}, stmt.Items[0].Expr)

	from, ok := stmt.From.(*TableName)
	require.True(t, ok)
	assert.Equal(t, "users", from.Name.Name)

	where, ok := stmt.Where.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ">", where.Op)
}

func TestParseOne_SchemaQualifiedTable(t *testing.T) {
	stmt, err := ParseOne("SELECT * FROM analytics.orders", nil)
	require.NoError(t, err)

	from, ok := stmt.From.(*TableName)
	require.True(t, ok)
	require.NotNil(t, from.Schema)
	assert.Equal(t, "analytics", from.Schema.Name)
	assert.Equal(t, "orders", from.Name.Name)
}

func TestParseOne_Aliases(t *testing.T) {
	stmt, err := ParseOne("SELECT u.name full_name FROM users AS u", nil)
	require.NoError(t, err)

	require.NotNil(t, stmt.Items[0].Alias)
	assert.Equal(t, "full_name", stmt.Items[0].Alias.Name)

	from := stmt.From.(*TableName)
	require.NotNil(t, from.Alias)
	assert.Equal(t, "u", from.Alias.Name)
}

func TestParseOne_JoinNormalization(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{"SELECT * FROM a JOIN b ON a.id = b.id", "JOIN"},
		{"SELECT * FROM a INNER JOIN b ON a.id = b.id", "JOIN"},
		{"SELECT * FROM a LEFT JOIN b ON a.id = b.id", "LEFT JOIN"},
		{"SELECT * FROM a LEFT OUTER JOIN b ON a.id = b.id", "LEFT JOIN"},
		{"SELECT * FROM a RIGHT OUTER JOIN b ON a.id = b.id", "RIGHT JOIN"},
		{"SELECT * FROM a FULL OUTER JOIN b ON a.id = b.id", "FULL JOIN"},
		{"SELECT * FROM a CROSS JOIN b", "CROSS JOIN"},
	}

	for _, tc := range testCases {
		stmt, err := ParseOne(tc.input, nil)
		require.NoError(t, err, tc.input)
		require.Len(t, stmt.Joins, 1, tc.input)
		assert.Equal(t, tc.want, stmt.Joins[0].Keyword, tc.input)
	}
}

func TestParseOne_CTE(t *testing.T) {
	stmt, err := ParseOne("WITH recent AS (SELECT * FROM sales), top AS (SELECT * FROM recent) SELECT * FROM top", nil)
	require.NoError(t, err)

	require.Len(t, stmt.With, 2)
	assert.Equal(t, "recent", stmt.With[0].Name.Name)
	assert.Equal(t, "top", stmt.With[1].Name.Name)
}

func TestParseOne_DerivedTable(t *testing.T) {
	stmt, err := ParseOne("SELECT * FROM (SELECT id FROM users) AS u", nil)
	require.NoError(t, err)

	sub, ok := stmt.From.(*FromSubquery)
	require.True(t, ok)
	require.NotNil(t, sub.Select)
	require.NotNil(t, sub.Alias)
	assert.Equal(t, "u", sub.Alias.Name)
}

func TestParseOne_TrailingClauses(t *testing.T) {
	stmt, err := ParseOne("SELECT dept, COUNT(*) FROM emp GROUP BY dept HAVING COUNT(*) > 2 ORDER BY dept DESC LIMIT 10 OFFSET 5", nil)
	require.NoError(t, err)

	require.Len(t, stmt.GroupBy, 1)
	require.NotNil(t, stmt.Having)
	require.Len(t, stmt.OrderBy, 1)
	assert.Equal(t, "DESC", stmt.OrderBy[0].Dir)
	assert.Equal(t, &Literal{Type: NUMBER, Value: "10"}, stmt.Limit)
	assert.Equal(t, &Literal{Type: NUMBER, Value: "5"}, stmt.Offset)
}

func TestParseOne_ExpressionForms(t *testing.T) {
	inputs := []string{
		"SELECT * FROM t WHERE a IN (1, 2, 3)",
		"SELECT * FROM t WHERE a NOT IN (SELECT id FROM other)",
		"SELECT * FROM t WHERE a IS NOT NULL",
		"SELECT * FROM t WHERE a BETWEEN 1 AND 10",
		"SELECT * FROM t WHERE NOT (a = 1 OR b = 2) AND c LIKE 'x%'",
		"SELECT CASE WHEN a > 0 THEN 'pos' ELSE 'neg' END FROM t",
		"SELECT CASE a WHEN 1 THEN 'one' END FROM t",
		"SELECT COUNT(DISTINCT city), MAX(price + 1) FROM t",
		"SELECT -a, a || b FROM t",
		"SELECT (SELECT MAX(id) FROM other) FROM t",
	}
	for _, input := range inputs {
		_, err := ParseOne(input, nil)
		assert.NoError(t, err, input)
	}
}

func TestParseStatements_SemicolonSeparated(t *testing.T) {
	stmts, err := ParseStatements("SELECT * FROM a; SELECT * FROM b;", nil)
	require.NoError(t, err)
	assert.Len(t, stmts, 2)
}

func TestParseStatements_Empty(t *testing.T) {
	_, err := ParseStatements("", nil)
	require.Error(t, err)
	assert.True(t, IsParseError(err))

	_, err = ParseStatements(";;", nil)
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

func TestParseOne_RejectsMultipleStatements(t *testing.T) {
	_, err := ParseOne("SELECT * FROM a; SELECT * FROM b", nil)
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

func TestParseOne_SyntaxErrors(t *testing.T) {
	inputs := []string{
		"SELECT",
		"SELECT FROM t",
		"SELECT * FROM",
		"SELECT * FROM t WHERE",
		"SELECT * FROM t GROUP dept",
		"UPDATE t SET a = 1",
		"SELECT a b c FROM t",
	}
	for _, input := range inputs {
		_, err := ParseOne(input, nil)
		require.Error(t, err, input)
		assert.True(t, IsParseError(err), input)
	}
}

func TestParseExpr(t *testing.T) {
	expr, err := ParseExpr("price * quantity", nil)
	require.NoError(t, err)

	bin, ok := expr.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "*", bin.Op)
}

func TestParseExpr_RequiresFullConsumption(t *testing.T) {
	_, err := ParseExpr("a = 1; DROP TABLE users", nil)
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

func TestParseError_Message(t *testing.T) {
	_, err := ParseOne("SELECT * FROM t GROUP dept", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
	assert.Contains(t, err.Error(), `near "dept"`)
}
