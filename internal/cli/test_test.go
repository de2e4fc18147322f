package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenariosDir = "testdata/scenarios"

type testResponse struct {
	Status string     `json:"status"`
	Data   TestResult `json:"data"`
	Error  *CLIError  `json:"error"`
}

func runTestCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// writeShopScenario writes a scenario against the shop schema into dir.
func writeShopScenario(t *testing.T, dir, name, query, assertions string) string {
	t.Helper()
	schemaDir, err := filepath.Abs(shopSchema)
	require.NoError(t, err)

	content := fmt.Sprintf("name: %s\ndescription: %q\nschema: %q\nquery: %q\nassertions:\n%s",
		name, "scenario "+name, schemaDir, query, assertions)
	path := filepath.Join(dir, name+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestTest_AllPass(t *testing.T) {
	out, err := runTestCmd(t, "text", scenariosDir)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ customer\n")
	assert.Contains(t, out, "✓ customers\n")
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTest_JSON(t *testing.T) {
	out, err := runTestCmd(t, "json", scenariosDir)
	require.NoError(t, err)

	var resp testResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 2, resp.Data.Passed)

	for _, s := range resp.Data.Scenarios {
		if s.Name == "customers" {
			assert.Equal(t, customersPlanHash, s.PlanHash)
		}
	}
}

func TestTest_Filter(t *testing.T) {
	out, err := runTestCmd(t, "json", scenariosDir, "--filter", "customers")
	require.NoError(t, err)

	var resp testResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "customers", resp.Data.Scenarios[0].Name)
}

func TestTest_InvalidFilter(t *testing.T) {
	_, err := runTestCmd(t, "text", scenariosDir, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTest_AssertionFailure(t *testing.T) {
	dir := t.TempDir()
	writeShopScenario(t, dir, "wrong_aliases", "{ customers { id } }",
		"  - type: aliases\n    aliases: [clients]\n")

	out, err := runTestCmd(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "✗ wrong_aliases")
	assert.Contains(t, out, "Assertion failed: aliases")
	assert.Contains(t, out, "Test Summary: 0 passed, 1 failed, 1 total")
}

func TestTest_GoldenUpdateAndMismatch(t *testing.T) {
	dir := t.TempDir()
	writeShopScenario(t, dir, "customers", customersQuery,
		"  - type: grab_many\n    table: customers\n    expect: true\n")

	_, err := runTestCmd(t, "text", dir, "--update")
	require.NoError(t, err)

	// Same query, same schema, same name: the regenerated golden equals the
	// committed one.
	got, err := os.ReadFile(filepath.Join(dir, "golden", "customers.golden"))
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join(scenariosDir, "golden", "customers.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	_, err = runTestCmd(t, "text", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "customers.golden"), []byte("{}"), 0644))
	out, err := runTestCmd(t, "json", dir)
	require.Error(t, err)

	var resp testResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Contains(t, resp.Data.Scenarios[0].Errors[0], "does not match golden file")
}

func TestTest_LoadFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: bad\nbogus: true\n"), 0644))

	out, err := runTestCmd(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ bad.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTest_EmptyAndMissing(t *testing.T) {
	out, err := runTestCmd(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")

	out, err = runTestCmd(t, "json", "testdata/nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("a", "b", "golden", "viewer.golden"),
		goldenFilePath(filepath.Join("a", "b", "viewer.yaml")))
}
