package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relplan/internal/store"
)

type planShowResponse struct {
	Status string     `json:"status"`
	Data   store.Plan `json:"data"`
	Error  *CLIError  `json:"error"`
}

type planListResponse struct {
	Status string         `json:"status"`
	Data   PlanListResult `json:"data"`
}

func runPlansCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewPlansCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// seedStore records two compilations of the same plan and one of another.
func seedStore(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "plans.db")
	for _, q := range []string{customersQuery, customersQuery, "{ customer(id: 1) { name } }"} {
		_, err := runCompileCmd(t, "json", shopSchema, q, "--store", dbPath)
		require.NoError(t, err)
	}
	return dbPath
}

func TestPlansList(t *testing.T) {
	dbPath := seedStore(t)

	out, err := runPlansCmd(t, "json", "list", "--store", dbPath)
	require.NoError(t, err)

	var resp planListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, 3, resp.Data.Total)

	c := resp.Data.Compilations
	assert.Equal(t, []int64{1, 2, 3}, []int64{c[0].Seq, c[1].Seq, c[2].Seq})
	assert.Equal(t, customersPlanHash, c[0].PlanHash)
	assert.Equal(t, c[0].PlanHash, c[1].PlanHash)
	assert.Equal(t, "customer", c[2].RootField)
	assert.Equal(t, customersQuery, c[0].Query)
}

func TestPlansList_LimitAndText(t *testing.T) {
	dbPath := seedStore(t)

	out, err := runPlansCmd(t, "text", "list", "--store", dbPath, "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "2 compilation(s)")
	assert.Contains(t, out, "6f405d449b2f  customers")
}

func TestPlansShow(t *testing.T) {
	dbPath := seedStore(t)

	out, err := runPlansCmd(t, "json", "show", customersPlanHash, "--store", dbPath)
	require.NoError(t, err)

	var resp planShowResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, customersPlanHash, resp.Data.Hash)
	assert.Equal(t, "customers", resp.Data.RootField)
	assert.Contains(t, string(resp.Data.Plan), `"as":"orders"`)

	golden, err := os.ReadFile(filepath.Join(scenariosDir, "golden", "customers.golden"))
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"plan":`+string(resp.Data.Plan)+`,"plan_hash"`,
		"stored plan is the canonical JSON the hash covers")
}

func TestPlansShow_UnknownHash(t *testing.T) {
	dbPath := seedStore(t)

	out, err := runPlansCmd(t, "json", "show", "deadbeef", "--store", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp planShowResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestPlans_MissingStore(t *testing.T) {
	out, err := runPlansCmd(t, "json", "list", "--store", filepath.Join(t.TempDir(), "none.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNotFound)
}

func TestPlans_StoreFlagRequired(t *testing.T) {
	_, err := runPlansCmd(t, "text", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store")
}
