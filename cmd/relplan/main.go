// Command relplan compiles GraphQL-shaped queries into SQL AST plans.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/roach88/relplan/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := cli.NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()

	// ExitErrors have already been written by the command's formatter.
	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintf(stderr, "relplan: %v\n", err)
	}
	return cli.GetExitCode(err)
}
