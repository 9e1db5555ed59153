package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/hitexpect/packages/diff"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	diffNormalizeFlag bool
	diffNoColorFlag   bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <expected> <actual>",
	Short: "Print the unified diff of two files",
	Long: `Print the unified diff of two files, the same way failing checks show
their multi-line differences. Exits with status 1 when the files differ.

With --normalize, JSON and YAML documents are re-encoded as indented JSON
with sorted keys before comparing, so formatting and key order are ignored.

Examples:
  hitexpect diff expected.txt actual.txt
  hitexpect diff --normalize expected.json actual.yaml`,
	Args: usageArgs(cobra.ExactArgs(2)),
	RunE: diffCommand,
}

func init() {
	diffCmd.Flags().BoolVar(&diffNormalizeFlag, "normalize", false, "Compare JSON/YAML documents by content")
	diffCmd.Flags().BoolVar(&diffNoColorFlag, "no-color", getEnvBool("HITEXPECT_NO_COLOR", false), "Disable colored output (env: HITEXPECT_NO_COLOR)")
}

func diffCommand(cmd *cobra.Command, args []string) error {
	expected, err := readDiffInput(args[0], diffNormalizeFlag)
	if err != nil {
		return usageError(err)
	}
	actual, err := readDiffInput(args[1], diffNormalizeFlag)
	if err != nil {
		return usageError(err)
	}

	unified := diff.Unified(expected, actual)
	if unified == "" {
		return nil
	}
	if diffNoColorFlag {
		color.NoColor = true
	}
	fmt.Fprintln(cmd.OutOrStdout(), diff.Colorize(unified))
	return &exitError{code: ExitTestFailure}
}

func readDiffInput(path string, normalize bool) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", path, err)
	}
	if !normalize {
		return string(data), nil
	}
	return normalizeDocument(data)
}

// normalizeDocument re-encodes a JSON or YAML document as indented JSON.
// YAML is a superset of JSON, so one decoder serves both.
func normalizeDocument(data []byte) (string, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("cannot normalize document: %w", err)
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("cannot normalize document: %w", err)
	}
	return string(out) + "\n", nil
}
