package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortedKeysUTF16Order(t *testing.T) {
	// U+FF61 sorts before U+1F600 in UTF-8 but after it in UTF-16 (surrogates).
	obj := Object{
		"\U0001F600": Int(1),
		"\uFF61":     Int(2),
		"a":          Int(3),
	}
	assert.Equal(t, []string{"a", "\U0001F600", "\uFF61"}, obj.SortedKeys())
}

func TestObjectMarshalJSON(t *testing.T) {
	obj := Object{
		"table": String("users"),
		"args":  List{Object{"name": String("id"), "value": Int(1)}},
		"many":  Bool(true),
		"none":  Null{},
	}

	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.JSONEq(t, `{"args":[{"name":"id","value":1}],"many":true,"none":null,"table":"users"}`, string(data))
}

func TestFromGo(t *testing.T) {
	v, err := FromGo(map[string]any{
		"name":  "ada",
		"count": 3,
		"tags":  []any{"a", true},
		"gone":  nil,
	})
	require.NoError(t, err)
	assert.Equal(t, Object{
		"name":  String("ada"),
		"count": Int(3),
		"tags":  List{String("a"), Bool(true)},
		"gone":  Null{},
	}, v)
}

func TestFromGoRejectsFloats(t *testing.T) {
	_, err := FromGo(1.5)
	require.Error(t, err)

	_, err = FromGo(map[string]any{"x": []any{2.5}})
	require.Error(t, err)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, List{String("a"), String("b")}, Strings("a", "b"))
	assert.Equal(t, List{}, Strings())
}
