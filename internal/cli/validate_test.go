package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relplan/internal/compiler"
)

type validateResponse struct {
	Status string           `json:"status"`
	Data   ValidationResult `json:"data"`
	Error  *CLIError        `json:"error"`
}

func runValidateCmd(t *testing.T, format, dir string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})
	err := cmd.Execute()
	return buf.String(), err
}

func TestValidate_Valid(t *testing.T) {
	out, err := runValidateCmd(t, "text", shopSchema)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Schema valid: 4 object type(s)")
	assert.Contains(t, out, "info: Recursive relation:")
	assert.Contains(t, out, "warning: type Supplier is not reachable from Query")
}

func TestValidate_ValidJSON(t *testing.T) {
	out, err := runValidateCmd(t, "json", shopSchema)
	require.NoError(t, err)

	var resp validateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 4, resp.Data.Objects)
	assert.Empty(t, resp.Data.Errors)

	require.Len(t, resp.Data.Warnings, 2)
	assert.Equal(t, compiler.LevelInfo, resp.Data.Warnings[0].Level)
	cycle := resp.Data.Warnings[0].Path
	require.Len(t, cycle, 3)
	assert.Equal(t, cycle[0], cycle[2])
	assert.ElementsMatch(t, []string{"Customer", "Order"}, cycle[:2])
	assert.Equal(t, []string{"Supplier"}, resp.Data.Warnings[1].Path)
}

func TestValidate_Invalid(t *testing.T) {
	out, err := runValidateCmd(t, "json", "testdata/schemas/broken")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp validateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)

	var codes []string
	for _, e := range resp.Data.Errors {
		codes = append(codes, e.Code)
	}
	assert.Equal(t, []string{compiler.ErrMissingUniqueKey, compiler.ErrUnknownFieldType}, codes)
	assert.Equal(t, compiler.ErrMissingUniqueKey, resp.Error.Code)
}

func TestValidate_InvalidText(t *testing.T) {
	out, err := runValidateCmd(t, "text", "testdata/schemas/broken")
	require.Error(t, err)

	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "E122: type.Query.fields.items:")
	assert.Contains(t, out, `E120: type.Item.fields.price.type: unknown type "Money"`)
}

func TestValidate_SchemaFormatIsValidationFailure(t *testing.T) {
	out, err := runValidateCmd(t, "json", "testdata/schemas/malformed")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp validateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Errors, 1)
	assert.Equal(t, ErrCodeSchemaDefinition, resp.Data.Errors[0].Code)
	assert.Positive(t, resp.Data.Errors[0].Line)
}

func TestValidate_CommandErrors(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		code string
	}{
		{"missing directory", "testdata/schemas/nope", ErrCodeNotFound},
		{"no cue files", t.TempDir(), ErrCodeNoFiles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runValidateCmd(t, "json", tt.dir)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}
