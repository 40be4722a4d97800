package builder

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The composed view SQL must be executable as-is. SQLite shares the default
// dialect's identifier quoting, so it doubles as a cheap syntax oracle.
func TestViewQueryBuilder_ExecutesOnSQLite(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE parents (id INTEGER, name TEXT);
		CREATE TABLE children (id INTEGER, name TEXT);
		INSERT INTO parents VALUES (1, 'ann'), (2, 'bob');
		INSERT INTO children VALUES (1, 'cat'), (1, 'dot'), (3, 'eve');
	`)
	require.NoError(t, err)

	vb, err := NewViewQueryBuilder(parentChildrenSchema(), parentChildrenDeps())
	require.NoError(t, err)

	query, err := vb.BuildQuery()
	require.NoError(t, err)

	rows, err := db.Query(query)
	require.NoError(t, err)
	defer rows.Close()

	cols, err := rows.Columns()
	require.NoError(t, err)
	assert.Equal(t, []string{"parents_id", "parents_name", "children_name"}, cols)

	var got [][3]any
	for rows.Next() {
		var id int
		var parent, child string
		require.NoError(t, rows.Scan(&id, &parent, &child))
		got = append(got, [3]any{id, parent, child})
	}
	require.NoError(t, rows.Err())

	// parent 1 joins both of its children; parent 2 and child 3 drop out.
	assert.ElementsMatch(t, [][3]any{
		{1, "ann", "cat"},
		{1, "ann", "dot"},
	}, got)
}

func TestSQLQueryBuilder_HeadQueryExecutesOnSQLite(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE parents (id INTEGER, name TEXT);
		INSERT INTO parents VALUES (1, 'ann'), (2, 'bob'), (3, 'cid');
	`)
	require.NoError(t, err)

	query, err := tableLoader("parents").QueryBuilder().HeadQuery(2)
	require.NoError(t, err)

	rows, err := db.Query(query)
	require.NoError(t, err)
	defer rows.Close()

	n := 0
	for rows.Next() {
		n++
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, 2, n)
}
