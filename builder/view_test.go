package builder

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatap/semquery/schema"
)

// testLoader is a minimal Loader for wiring dependency graphs in tests.
type testLoader struct {
	s  *schema.Schema
	qb QueryBuilder
}

func (l *testLoader) Schema() *schema.Schema     { return l.s }
func (l *testLoader) QueryBuilder() QueryBuilder { return l.qb }

func tableLoader(name string) *testLoader {
	s := &schema.Schema{Name: name}
	return &testLoader{s: s, qb: NewSQLQueryBuilder(s)}
}

func parentChildrenSchema() *schema.Schema {
	return &schema.Schema{
		Name: "parent_children",
		View: true,
		Columns: []schema.Column{
			{Name: "parents.id"},
			{Name: "parents.name"},
			{Name: "children.name"},
		},
		Relations: []schema.Relation{
			{From: "parents.id", To: "children.id"},
		},
	}
}

func parentChildrenDeps() map[string]Loader {
	return map[string]Loader{
		"parents":  tableLoader("parents"),
		"children": tableLoader("children"),
	}
}

const parentChildrenQuery = "SELECT\n" +
	"  parents_id AS parents_id,\n" +
	"  parents_name AS parents_name,\n" +
	"  children_name AS children_name\n" +
	"FROM (\n" +
	"  SELECT\n" +
	"    parents.id AS parents_id,\n" +
	"    parents.name AS parents_name,\n" +
	"    children.name AS children_name\n" +
	"  FROM (\n" +
	"    SELECT\n" +
	"      *\n" +
	"    FROM parents\n" +
	"  ) AS parents\n" +
	"  JOIN (\n" +
	"    SELECT\n" +
	"      *\n" +
	"    FROM children\n" +
	"  ) AS children\n" +
	"    ON parents.id = children.id\n" +
	") AS parent_children"

func TestViewQueryBuilder_BuildQuery(t *testing.T) {
	vb, err := NewViewQueryBuilder(parentChildrenSchema(), parentChildrenDeps())
	require.NoError(t, err)

	assert.Equal(t, KindView, vb.Kind())

	query, err := vb.BuildQuery()
	require.NoError(t, err)
	assert.Equal(t, parentChildrenQuery, query)
}

func TestViewQueryBuilder_HeadQuery(t *testing.T) {
	vb, err := NewViewQueryBuilder(parentChildrenSchema(), parentChildrenDeps())
	require.NoError(t, err)

	query, err := vb.HeadQuery(3)
	require.NoError(t, err)
	assert.Equal(t, parentChildrenQuery+"\nLIMIT 3", query)
}

func TestViewQueryBuilder_HeadQueryDefaultRows(t *testing.T) {
	vb, err := NewViewQueryBuilder(parentChildrenSchema(), parentChildrenDeps())
	require.NoError(t, err)

	query, err := vb.HeadQuery(0)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(query, "\nLIMIT 5"))
}

func TestViewQueryBuilder_HeadQueryIgnoresSchemaLimit(t *testing.T) {
	s := parentChildrenSchema()
	s.Limit = 100
	vb, err := NewViewQueryBuilder(s, parentChildrenDeps())
	require.NoError(t, err)

	query, err := vb.HeadQuery(3)
	require.NoError(t, err)
	// Exactly one LIMIT, the head's.
	assert.Equal(t, 1, strings.Count(query, "LIMIT"))
	assert.True(t, strings.HasSuffix(query, "\nLIMIT 3"))
}

func TestViewQueryBuilder_SchemaLimit(t *testing.T) {
	s := parentChildrenSchema()
	s.Limit = 7
	vb, err := NewViewQueryBuilder(s, parentChildrenDeps())
	require.NoError(t, err)

	query, err := vb.BuildQuery()
	require.NoError(t, err)
	assert.Equal(t, parentChildrenQuery+"\nLIMIT 7", query)
}

func TestViewQueryBuilder_ColumnAlias(t *testing.T) {
	s := parentChildrenSchema()
	s.Columns[1].Alias = "parent name"
	vb, err := NewViewQueryBuilder(s, parentChildrenDeps())
	require.NoError(t, err)

	query, err := vb.BuildQuery()
	require.NoError(t, err)
	assert.Contains(t, query, "parents.name AS parent_name")
	assert.Contains(t, query, "parent_name AS parent_name")
}

func TestViewQueryBuilder_SanitizesViewName(t *testing.T) {
	s := parentChildrenSchema()
	s.Name = "parent children; DROP TABLE x"
	vb, err := NewViewQueryBuilder(s, parentChildrenDeps())
	require.NoError(t, err)

	query, err := vb.BuildQuery()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(query, `) AS "parent children; DROP TABLE x"`))
}

func TestViewQueryBuilder_SanitizesColumnReference(t *testing.T) {
	s := parentChildrenSchema()
	s.Columns = append(s.Columns, schema.Column{Name: "children.name; DROP TABLE y"})
	vb, err := NewViewQueryBuilder(s, parentChildrenDeps())
	require.NoError(t, err)

	query, err := vb.BuildQuery()
	require.NoError(t, err)
	// The reference is not a clean table.column, so both sides collapse to
	// the sanitized alias.
	assert.Contains(t, query, "children_name__drop_table_y AS children_name__drop_table_y")
	assert.NotContains(t, query, "DROP TABLE y")
}

func TestViewQueryBuilder_MultipleRelationsToOneTable(t *testing.T) {
	s := &schema.Schema{
		Name: "pair",
		View: true,
		Columns: []schema.Column{
			{Name: "a.id"},
			{Name: "b.id"},
		},
		Relations: []schema.Relation{
			{From: "a.id", To: "b.parent_id"},
			{From: "a.code", To: "b.code"},
		},
	}
	vb, err := NewViewQueryBuilder(s, map[string]Loader{
		"a": tableLoader("a"),
		"b": tableLoader("b"),
	})
	require.NoError(t, err)

	query, err := vb.BuildQuery()
	require.NoError(t, err)
	// Both conditions collapse into one JOIN.
	assert.Equal(t, 1, strings.Count(query, "JOIN"))
	assert.Contains(t, query, "ON a.id = b.parent_id AND a.code = b.code")
}

func TestViewQueryBuilder_ViewOverView(t *testing.T) {
	inner, err := NewViewQueryBuilder(parentChildrenSchema(), parentChildrenDeps())
	require.NoError(t, err)

	top := &schema.Schema{
		Name: "top",
		View: true,
		Columns: []schema.Column{
			{Name: "parent_children.parents_name"},
		},
	}
	vb, err := NewViewQueryBuilder(top, map[string]Loader{
		"parent_children": &testLoader{s: parentChildrenSchema(), qb: inner},
	})
	require.NoError(t, err)

	query, err := vb.BuildQuery()
	require.NoError(t, err)
	assert.Contains(t, query, "parent_children.parents_name AS parent_children_parents_name")
	assert.True(t, strings.HasSuffix(query, ") AS top"))
	// The inner view's composed query is embedded whole.
	assert.Contains(t, query, "FROM parents")
	assert.Contains(t, query, "FROM children")
}

func TestNewViewQueryBuilder_EmptyView(t *testing.T) {
	s := &schema.Schema{Name: "empty", View: true}
	_, err := NewViewQueryBuilder(s, nil)
	require.Error(t, err)

	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, ErrCodeEmptyView, be.Code)
}

func TestNewViewQueryBuilder_MissingDependency(t *testing.T) {
	_, err := NewViewQueryBuilder(parentChildrenSchema(), map[string]Loader{
		"parents": tableLoader("parents"),
	})
	require.Error(t, err)

	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, ErrCodeMissingDependency, be.Code)
	assert.Contains(t, be.Error(), "children")
}
