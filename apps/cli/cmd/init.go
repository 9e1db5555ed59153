package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/hitexpect/packages/core/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a new hitexpect project",
	Long: `Initialize a new hitexpect project in the current directory.

This creates:
  - hitexpect.config.json  - Configuration file with environments
  - users.json             - Example data document
  - users.check.yaml       - Example check file

Examples:
  hitexpect init
  hitexpect init ./checks --force`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleData = `{
  "users": [
    {"id": 1, "name": "Ada", "age": 36, "role": "engineer", "tags": ["math", "engines"]},
    {"id": 2, "name": "Grace", "age": 45, "role": "admiral", "tags": ["cobol"]}
  ]
}
`

const exampleChecks = `name: users
description: Example checks against users.json
data: ./users.json

checks:
  - name: first user
    subject: users.0.name
    matcher: equals
    args: ["Ada"]
    tags: [smoke]

  - name: user count
    subject: users
    matcher: length
    args: [2]

  - name: adults only
    subject: users.#.age
    matcher: each
    args: [gte, "{{minAge}}"]

  - name: no interns
    subject: users.#.role
    matcher: contains
    not: true
    args: ["intern"]
    message: "interns are not allowed"

  - name: first id
    subject: users.0.id
    matcher: exists
    capture:
      firstId: ""

  - name: lookup by id
    depends: [first id]
    subject: users.#(id=={{firstId}}).name
    matcher: equals
    args: ["Ada"]
`

func initCommand(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "hitexpect.config.json")
	dataFile := filepath.Join(dir, "users.json")
	checkFile := filepath.Join(dir, "users.check.yaml")

	if !forceInit {
		for _, f := range []string{configFile, dataFile, checkFile} {
			if _, err := os.Stat(f); err == nil {
				return usageError(fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.Environments = map[string]map[string]any{
		"dev":     {"minAge": 18},
		"staging": {"minAge": 21},
	}
	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	for _, f := range []struct{ path, content string }{
		{dataFile, exampleData},
		{checkFile, exampleChecks},
	} {
		if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("failed to create %s: %w", f.path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", f.path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nhitexpect project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'hitexpect check %s' to evaluate the example checks.\n", checkFile)

	return nil
}
