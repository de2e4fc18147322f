package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/relplan/internal/ir"
	"github.com/roach88/relplan/internal/query"
	"github.com/roach88/relplan/internal/sqlast"
	"github.com/roach88/relplan/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	File   string // read the query from a file
	Type   string // parent type, defaults to the schema's query type
	Output string // output file path for the canonical plan
	Store  string // plan store database path
}

// CompileOutput is the JSON payload of a successful compile.
type CompileOutput struct {
	PlanHash   string          `json:"plan_hash"`
	SchemaHash string          `json:"schema_hash"`
	Seq        int64           `json:"seq,omitempty"`
	Plan       json.RawMessage `json:"plan"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <schema-dir> [query]",
		Short: "Compile a query into a SQL AST plan",
		Long: `Compile a GraphQL-shaped query against a CUE schema into a SQL AST plan.

The query is taken from the second argument or from --file. The plan is
printed as an indented tree, or as canonical JSON with --format json.
With --store the compilation is appended to a SQLite plan log.`,
		Example: `  relplan compile ./schema '{ users { id name } }'
  relplan compile ./schema --file query.graphql --format json
  relplan compile ./schema '{ posts { body } }' --type User --store plans.db`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context(), opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read the query from a file")
	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "parent type (default: the schema's query type)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the canonical plan JSON to a file")
	cmd.Flags().StringVar(&opts.Store, "store", "", "record the compilation in this plan store")

	return cmd
}

func runCompile(ctx context.Context, opts *CompileOptions, args []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := opts.Logger(cmd.ErrOrStderr())

	queryText, err := readQuery(opts, args)
	if err != nil {
		return outputCompileError(formatter, ErrCodeQueryInvalid, err.Error(), nil, "")
	}

	loadResult, err := LoadSchema(args[0])
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Loaded schema from %d CUE file(s) in %s", loadResult.FileCount, args[0])

	doc, err := query.Parse(queryText)
	if err != nil {
		return outputCompileError(formatter, ErrCodeQueryInvalid, err.Error(), nil, "")
	}

	parentType := opts.Type
	if parentType == "" {
		parentType = loadResult.Schema.QueryType()
	}

	plan, err := sqlast.Build(loadResult.Schema, parentType, doc.Fields, sqlast.WithLogger(logger))
	if err != nil {
		return outputBuildError(formatter, err)
	}

	planJSON, err := sqlast.MarshalCanonical(plan)
	if err != nil {
		return outputCompileError(formatter, ErrCodeGeneric, fmt.Sprintf("encoding plan: %v", err), nil, "")
	}
	planHash, err := sqlast.Hash(plan)
	if err != nil {
		return outputCompileError(formatter, ErrCodeGeneric, fmt.Sprintf("hashing plan: %v", err), nil, "")
	}

	out := CompileOutput{
		PlanHash:   planHash,
		SchemaHash: loadResult.SchemaHash,
		Plan:       planJSON,
	}

	// trace_id is the stored compilation id; empty unless --store is set.
	var traceID string
	if opts.Store != "" {
		c, err := recordCompilation(ctx, opts.Store, store.Record{
			Query:      queryText,
			SchemaHash: loadResult.SchemaHash,
			Plan:       plan,
		})
		if err != nil {
			return outputCompileError(formatter, ErrCodeStoreFailed, err.Error(), nil, "")
		}
		traceID = c.ID
		out.Seq = c.Seq
		logger.Debug("recorded compilation", "id", c.ID, "seq", c.Seq, "plan_hash", c.PlanHash)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, planJSON, 0644); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil, traceID)
		}
	}

	return outputCompileSuccess(formatter, out, plan, opts.Output, traceID)
}

// readQuery returns the query text from the positional argument or --file.
func readQuery(opts *CompileOptions, args []string) (string, error) {
	switch {
	case len(args) == 2 && opts.File != "":
		return "", errors.New("query given both as an argument and with --file")
	case len(args) == 2:
		return args[1], nil
	case opts.File != "":
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return "", fmt.Errorf("reading query file: %w", err)
		}
		return string(data), nil
	default:
		return "", errors.New("no query: pass it as an argument or with --file")
	}
}

func recordCompilation(ctx context.Context, path string, rec store.Record) (store.Compilation, error) {
	st, err := store.Open(path)
	if err != nil {
		return store.Compilation{}, err
	}
	defer st.Close()
	return st.RecordCompilation(ctx, rec)
}

// outputCompileSuccess outputs the compiled plan.
func outputCompileSuccess(formatter *OutputFormatter, out CompileOutput, plan sqlast.Node, outputFile, traceID string) error {
	if formatter.Format == "json" {
		return formatter.SuccessWithTrace(out, traceID)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled plan %s\n\n", shortHash(out.PlanHash))
	renderTree(formatter.Writer, plan, 0)
	fmt.Fprintln(formatter.Writer)
	if out.Seq > 0 {
		fmt.Fprintf(formatter.Writer, "Recorded compilation %s (seq %d)\n", traceID, out.Seq)
	}
	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote canonical plan to %s\n", outputFile)
	}
	return nil
}

// renderTree writes one line per node, children indented two spaces.
func renderTree(w io.Writer, n sqlast.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch node := n.(type) {
	case *sqlast.Table:
		fmt.Fprintf(w, "%stable %s as %s", indent, node.Table, node.As)
		if node.GrabMany {
			fmt.Fprint(w, " [many]")
		}
		if len(node.Args) > 0 {
			fmt.Fprintf(w, " (%s)", formatArgs(node.Args))
		}
		if node.JoinTable != "" {
			fmt.Fprintf(w, " via %s as %s", node.JoinTable, node.JoinTableAs)
		}
		fmt.Fprintln(w)
		for _, child := range node.Children {
			renderTree(w, child, depth+1)
		}
	case *sqlast.Column:
		if node.FieldName != "" && node.FieldName != node.Column {
			fmt.Fprintf(w, "%scolumn %s -> %s\n", indent, node.Column, node.FieldName)
			return
		}
		fmt.Fprintf(w, "%scolumn %s\n", indent, node.Column)
	case *sqlast.Dependency:
		fmt.Fprintf(w, "%sdeps %s\n", indent, strings.Join(node.ColumnDeps, ", "))
	}
}

func formatArgs(args []sqlast.Arg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		v, err := ir.MarshalValue(a.Value)
		if err != nil {
			v = []byte("?")
		}
		parts[i] = a.Name + ": " + string(v)
	}
	return strings.Join(parts, ", ")
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// outputLoadError outputs a schema load failure.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		return outputCompileError(formatter, ErrCodeGeneric, err.Error(), nil, "")
	}
	var details interface{}
	if loadErr.Pos.IsValid() {
		details = map[string]interface{}{
			"file":   loadErr.Pos.Filename(),
			"line":   loadErr.Pos.Line(),
			"column": loadErr.Pos.Column(),
		}
		if formatter.Format != "json" {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
		}
	}
	return outputCompileError(formatter, loadErr.Code, loadErr.Message, details, "")
}

// outputCompileError outputs a command-level error (exit code 2).
func outputCompileError(formatter *OutputFormatter, code, message string, details interface{}, traceID string) error {
	_ = formatter.ErrorWithTrace(code, message, details, traceID)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// outputBuildError outputs a plan build failure (exit code 1).
func outputBuildError(formatter *OutputFormatter, err error) error {
	code := MapBuildErrorCode(err)
	var details interface{}
	var buildErr *sqlast.CompileError
	if errors.As(err, &buildErr) {
		details = map[string]string{
			"kind":  string(buildErr.Code),
			"type":  buildErr.Type,
			"field": buildErr.Field,
		}
	}
	if formatter.Format != "json" {
		fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
		fmt.Fprintln(formatter.Writer)
	}
	_ = formatter.Error(code, err.Error(), details)
	return WrapExitError(ExitFailure, fmt.Sprintf("%s: %s", code, err.Error()), nil)
}
