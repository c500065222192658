// Command configcheck validates the configuration bindings declared in a
// component manifest against env, .env, YAML and flag sources, without
// starting the application.
//
//	configcheck validate --manifest configinject.yaml --env-file .env.production
//	configcheck validate -m configinject.yaml -D server.port=8443 -o json
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Exit codes
const (
	ExitSuccess         = 0 // configuration is valid
	ExitGenericError    = 1 // unexpected failure
	ExitConfigError     = 2 // manifest or sources could not be loaded
	ExitValidationError = 3 // the report has problems
	ExitUsageError      = 4 // bad flags or arguments
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and maps the outcome to an exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		fmt.Fprintf(stderr, "configcheck: %s\n", cliErr.Message)
		if cliErr.Cause != nil {
			fmt.Fprintf(stderr, "  Cause: %v\n", cliErr.Cause)
		}
		return cliErr.ExitCode()
	}
	fmt.Fprintf(stderr, "configcheck: %v\n", err)
	return ExitGenericError
}
