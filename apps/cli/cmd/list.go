package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/hitexpect/packages/core/checkfile"
	"github.com/abdul-hamid-achik/hitexpect/packages/expect"
	"github.com/spf13/cobra"
)

var listMatchersFlag bool

var listCmd = &cobra.Command{
	Use:   "list [file|directory]...",
	Short: "List the checks in check files, or the available matchers",
	Long: `List all checks defined in check files.

Examples:
  hitexpect list users.check.yaml
  hitexpect list ./checks/
  hitexpect list --matchers`,
	RunE: listCommand,
}

func init() {
	listCmd.Flags().BoolVar(&listMatchersFlag, "matchers", false, "List the matcher names check files may use")
}

func listCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if listMatchersFlag {
		for _, name := range expect.Names() {
			fmt.Fprintln(out, name)
		}
		return nil
	}
	if len(args) == 0 {
		return usageError(fmt.Errorf("requires at least 1 file or directory, or --matchers"))
	}

	files, err := checkfile.Discover(args)
	if err != nil {
		return usageError(err)
	}

	if len(files) == 0 {
		return usageError(fmt.Errorf("no %s files found", strings.Join(checkfile.Extensions, " or ")))
	}

	for _, file := range files {
		f, err := checkfile.LoadFile(file)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error parsing %s: %v\n", file, err)
			continue
		}

		fmt.Fprintf(out, "\n%s (%s):\n", file, f.Name)
		for _, c := range f.Checks {
			name := c.Name
			if name == "" {
				name = fmt.Sprintf("%s (line %d)", c.MatcherName(), c.Line)
			}
			fmt.Fprintf(out, "  - %s\n", name)
			subject := c.Subject
			if subject == "" {
				subject = "<document>"
			}
			fmt.Fprintf(out, "    %s %s %v\n", subject, c.MatcherName(), c.Args)
			if len(c.Tags) > 0 {
				fmt.Fprintf(out, "    tags: %v\n", c.Tags)
			}
			if len(c.Depends) > 0 {
				fmt.Fprintf(out, "    depends: %v\n", c.Depends)
			}
		}
	}

	return nil
}
