package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/hitexpect/packages/output"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	compareOutputFlag    string
	compareThresholdFlag string
)

var compareCmd = &cobra.Command{
	Use:   "compare <baseline.json> <current.json>",
	Short: "Compare two JSON check reports",
	Long: `Compare two reports written by the json reporter and show which checks
started failing, started passing, appeared or disappeared between runs.

Examples:
  hitexpect compare baseline.json current.json
  hitexpect compare baseline.json current.json --output json
  hitexpect compare baseline.json current.json --threshold 25%`,
	Args: usageArgs(cobra.ExactArgs(2)),
	RunE: compareCommand,
}

func init() {
	compareCmd.Flags().StringVarP(&compareOutputFlag, "output", "o", "console", "Output format: console, json")
	compareCmd.Flags().StringVar(&compareThresholdFlag, "threshold", "", "Fail if any check is slower by this percentage (e.g., 25%)")
}

// Status changes between two reports
const (
	ChangeFixed     = "fixed"
	ChangeBroken    = "broken"
	ChangeSlower    = "slower"
	ChangeFaster    = "faster"
	ChangeUnchanged = "unchanged"
	ChangeNew       = "new"
	ChangeRemoved   = "removed"
)

// durationNoise is the relative duration change, in percent, below which a
// check counts as unchanged.
const durationNoise = 10.0

// Comparison is the fate of one check between the baseline and the
// current report.
type Comparison struct {
	Name           string  `json:"name"`
	File           string  `json:"file,omitempty"`
	Change         string  `json:"change"`
	Status1        string  `json:"baselineStatus,omitempty"`
	Status2        string  `json:"currentStatus,omitempty"`
	Duration1      float64 `json:"baselineDuration,omitempty"`
	Duration2      float64 `json:"currentDuration,omitempty"`
	DurationChange float64 `json:"durationChange,omitempty"`
}

// CompareSummary counts changes by kind.
type CompareSummary struct {
	Total            int     `json:"total"`
	Fixed            int     `json:"fixed"`
	Broken           int     `json:"broken"`
	Slower           int     `json:"slower"`
	Faster           int     `json:"faster"`
	Unchanged        int     `json:"unchanged"`
	New              int     `json:"new"`
	Removed          int     `json:"removed"`
	ThresholdPercent float64 `json:"thresholdPercent,omitempty"`
	ThresholdPassed  bool    `json:"thresholdPassed"`
}

// CompareResult is the full comparison of two reports.
type CompareResult struct {
	Baseline    string         `json:"baseline"`
	Current     string         `json:"current"`
	Summary     CompareSummary `json:"summary"`
	Comparisons []Comparison   `json:"comparisons"`
}

// Failed reports whether a check broke or the duration threshold was
// exceeded.
func (r *CompareResult) Failed() bool {
	return r.Summary.Broken > 0 || !r.Summary.ThresholdPassed
}

func compareCommand(cmd *cobra.Command, args []string) error {
	baseline, err := loadReport(args[0])
	if err != nil {
		return usageError(fmt.Errorf("failed to load %s: %w", args[0], err))
	}
	current, err := loadReport(args[1])
	if err != nil {
		return usageError(fmt.Errorf("failed to load %s: %w", args[1], err))
	}

	var threshold float64
	if compareThresholdFlag != "" {
		if threshold, err = parseThreshold(compareThresholdFlag); err != nil {
			return usageError(err)
		}
	}

	result := compareReports(args[0], args[1], baseline, current, threshold)

	switch strings.ToLower(compareOutputFlag) {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	case "console", "":
		printComparison(cmd.OutOrStdout(), result)
	default:
		return usageError(fmt.Errorf("unknown output format %q (want console or json)", compareOutputFlag))
	}

	if result.Failed() {
		return &exitError{code: ExitTestFailure}
	}
	return nil
}

func loadReport(path string) (*output.JSONOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var report output.JSONOutput
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func parseThreshold(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid threshold %q", s)
	}
	return v, nil
}

func reportKey(c output.JSONCheck) string {
	return c.File + "::" + c.Name
}

func compareReports(name1, name2 string, baseline, current *output.JSONOutput, threshold float64) *CompareResult {
	result := &CompareResult{
		Baseline: name1,
		Current:  name2,
		Summary: CompareSummary{
			ThresholdPercent: threshold,
			ThresholdPassed:  true,
		},
	}

	checks1 := make(map[string]output.JSONCheck, len(baseline.Checks))
	checks2 := make(map[string]output.JSONCheck, len(current.Checks))
	var keys []string
	for _, c := range baseline.Checks {
		checks1[reportKey(c)] = c
		keys = append(keys, reportKey(c))
	}
	for _, c := range current.Checks {
		k := reportKey(c)
		if _, ok := checks1[k]; !ok {
			keys = append(keys, k)
		}
		checks2[k] = c
	}
	sort.Strings(keys)

	for i, key := range keys {
		if i > 0 && keys[i-1] == key {
			continue
		}
		c1, in1 := checks1[key]
		c2, in2 := checks2[key]

		var comp Comparison
		switch {
		case in1 && in2:
			comp = Comparison{
				Name: c2.Name, File: c2.File,
				Status1: c1.Status, Status2: c2.Status,
				Duration1: c1.Duration, Duration2: c2.Duration,
			}
			if c1.Duration > 0 {
				comp.DurationChange = (c2.Duration - c1.Duration) / c1.Duration * 100
			}
			comp.Change = classifyChange(c1, c2, comp.DurationChange)
			if threshold > 0 && comp.DurationChange > threshold {
				result.Summary.ThresholdPassed = false
			}
		case in1:
			comp = Comparison{Name: c1.Name, File: c1.File, Change: ChangeRemoved, Status1: c1.Status, Duration1: c1.Duration}
		default:
			comp = Comparison{Name: c2.Name, File: c2.File, Change: ChangeNew, Status2: c2.Status, Duration2: c2.Duration}
		}

		result.Summary.count(comp.Change)
		result.Comparisons = append(result.Comparisons, comp)
	}
	return result
}

func classifyChange(c1, c2 output.JSONCheck, durationChange float64) string {
	switch {
	case c1.Skipped || c2.Skipped:
		return ChangeUnchanged
	case !c1.Passed && c2.Passed:
		return ChangeFixed
	case c1.Passed && !c2.Passed:
		return ChangeBroken
	case durationChange > durationNoise:
		return ChangeSlower
	case durationChange < -durationNoise:
		return ChangeFaster
	}
	return ChangeUnchanged
}

func (s *CompareSummary) count(change string) {
	s.Total++
	switch change {
	case ChangeFixed:
		s.Fixed++
	case ChangeBroken:
		s.Broken++
	case ChangeSlower:
		s.Slower++
	case ChangeFaster:
		s.Faster++
	case ChangeNew:
		s.New++
	case ChangeRemoved:
		s.Removed++
	default:
		s.Unchanged++
	}
}

func printComparison(w io.Writer, r *CompareResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "\n%s\n", bold("Report Comparison"))
	fmt.Fprintf(w, "  %s: %s\n", cyan("Baseline"), r.Baseline)
	fmt.Fprintf(w, "  %s: %s\n\n", cyan("Current"), r.Current)

	fmt.Fprintf(w, "%s\n", bold("Summary"))
	fmt.Fprintf(w, "  Total:      %d\n", r.Summary.Total)
	printCount := func(label string, n int, paint func(a ...any) string) {
		if n > 0 {
			fmt.Fprintf(w, "  %-11s %s\n", label+":", paint(strconv.Itoa(n)))
		}
	}
	printCount("Broken", r.Summary.Broken, red)
	printCount("Fixed", r.Summary.Fixed, green)
	printCount("Slower", r.Summary.Slower, yellow)
	printCount("Faster", r.Summary.Faster, green)
	printCount("New", r.Summary.New, cyan)
	printCount("Removed", r.Summary.Removed, yellow)
	printCount("Unchanged", r.Summary.Unchanged, fmt.Sprint)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s\n", bold("Checks"))
	for _, c := range r.Comparisons {
		name := c.Name
		if name == "" {
			name = "(unnamed)"
		}
		switch c.Change {
		case ChangeBroken:
			fmt.Fprintf(w, "  %s %s  %s → %s\n", red("✗"), name, c.Status1, red(c.Status2))
		case ChangeFixed:
			fmt.Fprintf(w, "  %s %s  %s → %s\n", green("✓"), name, c.Status1, green(c.Status2))
		case ChangeNew:
			fmt.Fprintf(w, "  %s %s  (new, %s)\n", cyan("+"), name, c.Status2)
		case ChangeRemoved:
			fmt.Fprintf(w, "  %s %s  (removed)\n", yellow("-"), name)
		default:
			fmt.Fprintf(w, "  = %s  %.0fms → %.0fms %+.1f%%\n", name, c.Duration1, c.Duration2, c.DurationChange)
		}
	}
	fmt.Fprintln(w)

	if r.Summary.ThresholdPercent > 0 {
		if r.Summary.ThresholdPassed {
			fmt.Fprintf(w, "%s Threshold check passed (max regression: %.1f%%)\n", green("✓"), r.Summary.ThresholdPercent)
		} else {
			fmt.Fprintf(w, "%s Threshold check failed (some checks exceeded %.1f%% regression)\n", red("✗"), r.Summary.ThresholdPercent)
		}
	}
}
