package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"compile", "validate", "test", "plans"}, names)
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--format", "yaml", "validate", "testdata/schemas/shop"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestRootCommand_DispatchesWithGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--format", "json", "validate", "testdata/schemas/shop"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), `"status":"ok"`)
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
}

func TestRootOptions_Logger(t *testing.T) {
	ctx := context.Background()

	quiet := (&RootOptions{}).Logger(io.Discard)
	assert.True(t, quiet.Enabled(ctx, slog.LevelInfo))
	assert.False(t, quiet.Enabled(ctx, slog.LevelDebug))

	verbose := (&RootOptions{Verbose: true}).Logger(io.Discard)
	assert.True(t, verbose.Enabled(ctx, slog.LevelDebug))
}
