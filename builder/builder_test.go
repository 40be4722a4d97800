package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatap/semquery/schema"
)

func TestSQLQueryBuilder_SelectStar(t *testing.T) {
	b := NewSQLQueryBuilder(&schema.Schema{Name: "orders"})

	assert.Equal(t, KindTable, b.Kind())

	query, err := b.BuildQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT\n  *\nFROM orders", query)
}

func TestSQLQueryBuilder_Columns(t *testing.T) {
	b := NewSQLQueryBuilder(&schema.Schema{
		Name: "orders",
		Columns: []schema.Column{
			{Name: "id"},
			{Name: "first name"},
		},
	})

	query, err := b.BuildQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT\n  id,\n  \"first name\"\nFROM orders", query)
}

func TestSQLQueryBuilder_ExpressionColumns(t *testing.T) {
	b := NewSQLQueryBuilder(&schema.Schema{
		Name: "orders",
		Columns: []schema.Column{
			{Name: "total", Expression: "price * quantity", Alias: "total"},
			{Name: "upper_name", Expression: "UPPER(name)"},
		},
	})

	query, err := b.BuildQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT\n  price * quantity AS total,\n  UPPER(name) AS upper_name\nFROM orders", query)
}

func TestSQLQueryBuilder_TrailingClauses(t *testing.T) {
	b := NewSQLQueryBuilder(&schema.Schema{
		Name:    "orders",
		Columns: []schema.Column{{Name: "dept"}},
		GroupBy: []string{"dept"},
		OrderBy: []string{"dept DESC"},
		Limit:   10,
	})

	query, err := b.BuildQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT\n  dept\nFROM orders\nGROUP BY\n  dept\nORDER BY\n  dept DESC\nLIMIT 10", query)
}

func TestSQLQueryBuilder_QuotesUnsafeTableName(t *testing.T) {
	b := NewSQLQueryBuilder(&schema.Schema{Name: "order items"})

	query, err := b.BuildQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT\n  *\nFROM \"order items\"", query)
}

func TestSQLQueryBuilder_HeadQuery(t *testing.T) {
	b := NewSQLQueryBuilder(&schema.Schema{Name: "orders", Limit: 100})

	query, err := b.HeadQuery(3)
	require.NoError(t, err)
	assert.Equal(t, "SELECT\n  *\nFROM orders\nLIMIT 3", query)
}

func TestSQLQueryBuilder_HeadQueryDefaultRows(t *testing.T) {
	b := NewSQLQueryBuilder(&schema.Schema{Name: "orders"})

	query, err := b.HeadQuery(0)
	require.NoError(t, err)
	assert.Equal(t, "SELECT\n  *\nFROM orders\nLIMIT 5", query)

	query, err = b.HeadQuery(-7)
	require.NoError(t, err)
	assert.Equal(t, "SELECT\n  *\nFROM orders\nLIMIT 5", query)
}

func TestSQLQueryBuilder_RowCountQuery(t *testing.T) {
	b := NewSQLQueryBuilder(&schema.Schema{
		Name:    "orders",
		Columns: []schema.Column{{Name: "id"}},
		Limit:   10,
	})

	// Columns, grouping and limit are all ignored.
	assert.Equal(t, "SELECT\n  COUNT(*)\nFROM orders", b.RowCountQuery())
}

func TestCheckCompatibleSources(t *testing.T) {
	pg := func(db string) *schema.Source {
		return &schema.Source{Type: "postgres", Connection: schema.Connection{Host: "h", Port: 5432, Database: db}}
	}

	assert.True(t, CheckCompatibleSources(nil))
	assert.True(t, CheckCompatibleSources([]*schema.Source{pg("shop")}))
	assert.True(t, CheckCompatibleSources([]*schema.Source{pg("shop"), pg("shop")}))
	assert.False(t, CheckCompatibleSources([]*schema.Source{pg("shop"), pg("billing")}))
	assert.True(t, CheckCompatibleSources([]*schema.Source{
		{Type: "csv"},
		{Type: "parquet"},
	}))
}
