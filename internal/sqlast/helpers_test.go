package sqlast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/relplan/internal/query"
	"github.com/roach88/relplan/internal/schema"
)

func mustType(t *testing.T, s string) schema.TypeRef {
	t.Helper()
	ref, err := schema.ParseTypeRef(s)
	require.NoError(t, err)
	return ref
}

func mustObject(t *testing.T, name, table, key string, fields ...*schema.Field) *schema.Object {
	t.Helper()
	o, err := schema.NewObject(name, fields...)
	require.NoError(t, err)
	o.SQLTable = table
	o.UniqueKey = key
	return o
}

// testSchema is a small blog schema covering every classification path.
func testSchema(t *testing.T) *schema.Schema {
	t.Helper()

	s := schema.New("Query")
	require.NoError(t, s.AddObject(mustObject(t, "Query", "", "",
		&schema.Field{Name: "viewer", Type: mustType(t, "User")},
		&schema.Field{Name: "user", Type: mustType(t, "User!"), Where: "{table}.id = {args.id}"},
		&schema.Field{Name: "users", Type: mustType(t, "[User!]!")},
		&schema.Field{Name: "posts", Type: mustType(t, "[Post]")},
		&schema.Field{Name: "drafts", Type: mustType(t, "[Draft]")},
		&schema.Field{Name: "settings", Type: mustType(t, "Settings")},
		&schema.Field{Name: "version", Type: mustType(t, "String")},
	)))
	require.NoError(t, s.AddObject(mustObject(t, "User", "users", "id",
		&schema.Field{Name: "id", Type: mustType(t, "Int!")},
		&schema.Field{Name: "name", Type: mustType(t, "String")},
		&schema.Field{Name: "email", Type: mustType(t, "String"), SQLColumn: "email_address"},
		&schema.Field{Name: "fullName", Type: mustType(t, "String"), Resolver: true, SQLDeps: []string{"first_name", "last_name"}},
		&schema.Field{Name: "nickname", Type: mustType(t, "String"), Resolver: true},
		&schema.Field{Name: "slug", Type: mustType(t, "String"), Resolver: true, SQLColumn: "slug_text", SQLDeps: []string{"name"}},
		&schema.Field{Name: "posts", Type: mustType(t, "[Post]"), SQLJoin: "{parent}.id = {child}.author_id"},
		&schema.Field{Name: "following", Type: mustType(t, "[User]"), JoinTable: "relationships",
			SQLJoins: []string{"{parent}.id = {join}.follower_id", "{join}.followee_id = {child}.id"}},
		&schema.Field{Name: "bestFriend", Type: mustType(t, "User"), Resolver: true, SQLDeps: []string{"best_friend_id"},
			SQLJoin: "{parent}.best_friend_id = {child}.id"},
	)))
	require.NoError(t, s.AddObject(mustObject(t, "Post", "posts", "id",
		&schema.Field{Name: "id", Type: mustType(t, "Int!")},
		&schema.Field{Name: "body", Type: mustType(t, "String")},
		&schema.Field{Name: "author", Type: mustType(t, "User"), SQLJoin: "{parent}.author_id = {child}.id"},
	)))
	// Draft has a table but no unique key.
	require.NoError(t, s.AddObject(mustObject(t, "Draft", "drafts", "",
		&schema.Field{Name: "body", Type: mustType(t, "String")},
	)))
	// Settings has no table at all.
	require.NoError(t, s.AddObject(mustObject(t, "Settings", "", "",
		&schema.Field{Name: "theme", Type: mustType(t, "String")},
	)))
	return s
}

func buildQuery(t *testing.T, text string, opts ...Option) (Node, error) {
	t.Helper()
	return BuildDocument(testSchema(t), query.MustParse(text), opts...)
}

func mustBuild(t *testing.T, text string) Node {
	t.Helper()
	n, err := buildQuery(t, text)
	require.NoError(t, err)
	return n
}

func asTable(t *testing.T, n Node) *Table {
	t.Helper()
	tbl, ok := n.(*Table)
	require.True(t, ok, "expected *Table, got %T", n)
	return tbl
}
