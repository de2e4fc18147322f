package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSchema(t *testing.T) *Schema {
	t.Helper()
	user, err := NewObject("User",
		&Field{Name: "id", Type: NonNullOf(Named("Int"))},
		&Field{Name: "email", Type: Named("String"), SQLColumn: "email_address"},
	)
	require.NoError(t, err)
	user.SQLTable = "users"
	user.UniqueKey = "id"

	query, err := NewObject("Query",
		&Field{Name: "users", Type: ListOf(Named("User"))},
	)
	require.NoError(t, err)

	s := New("Query")
	require.NoError(t, s.AddObject(query))
	require.NoError(t, s.AddObject(user))
	return s
}

func TestSchemaLookup(t *testing.T) {
	s := newTestSchema(t)

	f, ok := s.Field("User", "email")
	require.True(t, ok)
	assert.Equal(t, "email_address", f.SQLColumn)

	_, ok = s.Field("User", "missing")
	assert.False(t, ok)
	_, ok = s.Field("Nope", "id")
	assert.False(t, ok)

	o, ok := s.Object("User")
	require.True(t, ok)
	assert.Equal(t, "users", o.SQLTable)
	assert.Equal(t, "Query", s.QueryType())
}

func TestSchemaFieldOrder(t *testing.T) {
	s := newTestSchema(t)
	o, _ := s.Object("User")

	names := []string{}
	for _, f := range o.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"id", "email"}, names)

	objs := []string{}
	for _, o := range s.Objects() {
		objs = append(objs, o.Name)
	}
	assert.Equal(t, []string{"Query", "User"}, objs)
}

func TestSchemaDuplicates(t *testing.T) {
	s := newTestSchema(t)

	dup, err := NewObject("User")
	require.NoError(t, err)
	assert.Error(t, s.AddObject(dup))

	assert.Error(t, s.AddScalar("User"))
	require.NoError(t, s.AddScalar("DateTime"))

	dt, err := NewObject("DateTime")
	require.NoError(t, err)
	assert.Error(t, s.AddObject(dt))

	_, err = NewObject("Bad", &Field{Name: "a"}, &Field{Name: "a"})
	assert.Error(t, err)
}

func TestSchemaScalars(t *testing.T) {
	s := New("Query")
	assert.True(t, s.IsScalar("Int"))
	assert.False(t, s.IsScalar("DateTime"))

	require.NoError(t, s.AddScalar("DateTime"))
	require.NoError(t, s.AddScalar("Color"))
	assert.True(t, s.IsScalar("DateTime"))
	assert.Equal(t, []string{"Color", "DateTime"}, s.Scalars())
}

func TestSchemaHashStable(t *testing.T) {
	a := newTestSchema(t)
	b := newTestSchema(t)

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)

	o, _ := b.Object("User")
	o.UniqueKey = "email"
	hc, err := b.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)
}

func TestNewRegistry(t *testing.T) {
	a, err := NewObject("A")
	require.NoError(t, err)
	b, err := NewObject("B")
	require.NoError(t, err)

	s, err := NewRegistry("A", a, b)
	require.NoError(t, err)
	assert.Equal(t, "A", s.QueryType())
	assert.Len(t, s.Objects(), 2)

	dup, err := NewObject("A")
	require.NoError(t, err)
	_, err = NewRegistry("A", a, dup)
	assert.Error(t, err)
}
