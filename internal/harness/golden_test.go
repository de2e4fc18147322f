package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden(t *testing.T) {
	// Regenerate with:
	//   go test ./internal/harness -run TestRunWithGolden -update
	for _, name := range []string{
		"viewer",
		"users_list",
		"alias_collision",
		"user_args",
		"missing_unique_key",
		"two_roots",
	} {
		t.Run(name, func(t *testing.T) {
			result, err := RunWithGolden(t, loadFixture(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestPlanSnapshot_OmitsEmpty(t *testing.T) {
	snap := PlanSnapshot{ScenarioName: "empty"}
	obj := snap.toCanonical()

	assert.Equal(t, []string{"scenario_name"}, obj.SortedKeys())
}
