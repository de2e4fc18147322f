package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/relplan/internal/store"
)

// PlansOptions holds flags for the plans commands.
type PlansOptions struct {
	*RootOptions
	Store string
	Limit int
}

// PlanListResult is the payload of plans list.
type PlanListResult struct {
	Compilations []store.Compilation `json:"compilations"`
	Total        int                 `json:"total"`
}

// NewPlansCommand creates the plans command group.
func NewPlansCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlansOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Inspect the plan store",
		Long: `Inspect compilations recorded with compile --store.

Examples:
  relplan plans list --store ./plans.db
  relplan plans list --store ./plans.db --limit 10 --format json
  relplan plans show 3f2a... --store ./plans.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Store, "store", "", "path to the plan store (required)")
	_ = cmd.MarkPersistentFlagRequired("store")

	cmd.AddCommand(newPlansListCommand(opts))
	cmd.AddCommand(newPlansShowCommand(opts))

	return cmd
}

func newPlansListCommand(opts *PlansOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List recorded compilations in log order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlansList(opts, cmd)
		},
	}
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "show at most n compilations (0 for all)")
	return cmd
}

func newPlansShowCommand(opts *PlansOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <plan-hash>",
		Short:         "Print a stored plan",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlansShow(opts, args[0], cmd)
		},
	}
}

// openExistingStore opens the store at path, refusing to create a new one.
func openExistingStore(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("plan store not found: %s", path)}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeStoreFailed, Message: err.Error()}
	}
	return st, nil
}

func runPlansList(opts *PlansOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openExistingStore(opts.Store)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	defer st.Close()

	compilations, err := st.ListCompilations(ctx, opts.Limit)
	if err != nil {
		return outputCompileError(formatter, ErrCodeStoreFailed, err.Error(), nil, "")
	}

	if formatter.Format == "json" {
		return formatter.Success(PlanListResult{
			Compilations: compilations,
			Total:        len(compilations),
		})
	}

	w := formatter.Writer
	if len(compilations) == 0 {
		fmt.Fprintln(w, "No compilations recorded.")
		return nil
	}
	for _, c := range compilations {
		fmt.Fprintf(w, "%4d  %s  %s  %s\n", c.Seq, shortHash(c.PlanHash), c.RootField, c.ID)
		formatter.VerboseLog("  query: %s", c.Query)
	}
	fmt.Fprintf(w, "\n%d compilation(s)\n", len(compilations))
	return nil
}

func runPlansShow(opts *PlansOptions, hash string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openExistingStore(opts.Store)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	defer st.Close()

	plan, err := st.ReadPlan(ctx, hash)
	if errors.Is(err, store.ErrPlanNotFound) {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}
	if err != nil {
		return outputCompileError(formatter, ErrCodeStoreFailed, err.Error(), nil, "")
	}

	if formatter.Format == "json" {
		return formatter.Success(plan)
	}

	fmt.Fprintf(formatter.Writer, "Plan %s (root field %s)\n\n", plan.Hash, plan.RootField)
	fmt.Fprintln(formatter.Writer, string(plan.Plan))
	return nil
}
