package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/hitexpect/packages/core/checkfile"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>...",
	Short: "Validate check files without evaluating them",
	Long: `Validate check files for syntax errors, unknown matchers, wrong argument
counts and broken dependencies without evaluating any check.

Examples:
  hitexpect validate users.check.yaml
  hitexpect validate ./checks/`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := checkfile.Discover(args)
	if err != nil {
		return usageError(err)
	}

	if len(files) == 0 {
		return usageError(fmt.Errorf("no %s files found", strings.Join(checkfile.Extensions, " or ")))
	}

	hasErrors := false
	for _, file := range files {
		_, err := checkfile.LoadFile(file)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s:\n  %s\n", file, strings.ReplaceAll(err.Error(), "\n", "\n  "))
			hasErrors = true
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
		}
	}

	if hasErrors {
		return &exitError{code: ExitParseError, err: fmt.Errorf("validation failed")}
	}

	return nil
}
