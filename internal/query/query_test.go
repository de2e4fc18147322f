package query

import (
	"testing"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relplan/internal/ir"
)

func TestParseShorthand(t *testing.T) {
	doc, err := Parse(`{ viewer { id name } }`)
	require.NoError(t, err)

	assert.Equal(t, "query", doc.Operation)
	require.Len(t, doc.Fields, 1)
	viewer := doc.Fields[0]
	assert.Equal(t, "viewer", viewer.Name)
	require.Len(t, viewer.Selections, 2)
	assert.Equal(t, "id", viewer.Selections[0].Name)
	assert.Equal(t, "name", viewer.Selections[1].Name)
	assert.Empty(t, viewer.Selections[0].Selections)
}

func TestParseNamedOperation(t *testing.T) {
	doc, err := Parse(`query Feed { users { id } posts { id } }`)
	require.NoError(t, err)

	assert.Equal(t, "Feed", doc.Name)
	assert.Len(t, doc.Fields, 2)
}

func TestParseArguments(t *testing.T) {
	doc, err := Parse(`{
		user(id: 7, handle: "ada", active: true, role: ADMIN, score: 1.5, ids: [1, 2], by: $who) { id }
	}`)
	require.NoError(t, err)

	args := doc.Fields[0].Args
	require.Len(t, args, 7)

	tests := []struct {
		name    string
		value   ir.Value
		literal bool
	}{
		{"id", ir.Int(7), true},
		{"handle", ir.String("ada"), true},
		{"active", ir.Bool(true), true},
		{"role", ir.String("ADMIN"), true},
		{"score", ir.String("1.5"), true},
		{"ids", ir.Null{}, false},
		{"by", ir.Null{}, false},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, args[i].Name)
			assert.Equal(t, tt.value, args[i].Value)
			assert.Equal(t, tt.literal, args[i].Literal)
		})
	}
}

func TestParseAlias(t *testing.T) {
	doc, err := Parse(`{ me: viewer { id } }`)
	require.NoError(t, err)

	assert.Equal(t, "viewer", doc.Fields[0].Name)
	assert.Equal(t, "me", doc.Fields[0].Alias)
}

func TestParseRejectsFragments(t *testing.T) {
	_, err := Parse(`{ viewer { ...UserFields } } fragment UserFields on User { id }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UserFields")

	_, err = Parse(`{ viewer { ... on User { id } } }`)
	require.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(`{ viewer `)
	require.Error(t, err)

	_, err = Parse(`fragment F on User { id }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no operation")
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse(`{`) })
	assert.NotPanics(t, func() { MustParse(`{ a }`) })
}

func TestFromFieldASTs(t *testing.T) {
	fields := []*ast.Field{{
		Name: &ast.Name{Value: "users"},
		Arguments: []*ast.Argument{{
			Name:  &ast.Name{Value: "first"},
			Value: &ast.IntValue{Value: "10"},
		}},
		SelectionSet: &ast.SelectionSet{Selections: []ast.Selection{
			&ast.Field{Name: &ast.Name{Value: "id"}},
		}},
	}}

	out, err := FromFieldASTs(fields)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, Field{
		Name:       "users",
		Args:       []Arg{{Name: "first", Value: ir.Int(10), Literal: true}},
		Selections: []Field{{Name: "id"}},
	}, out[0])
}
