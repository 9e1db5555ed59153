package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/hitexpect/packages/core/checkfile"
	"github.com/abdul-hamid-achik/hitexpect/packages/core/config"
	"github.com/abdul-hamid-achik/hitexpect/packages/core/runner"
	"github.com/abdul-hamid-achik/hitexpect/packages/output"
	"github.com/abdul-hamid-achik/hitexpect/packages/snapshot"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file|directory>...",
	Short: "Run expectations from check files",
	Long: `Run the checks defined in .check.yaml files.

Examples:
  hitexpect check users.check.yaml
  hitexpect check ./checks/ --tags smoke
  hitexpect check ./checks/ --env staging --var minAge=21
  hitexpect check ./checks/ -r console -r junit --output-dir reports
  hitexpect check ./checks/ --update-snapshots
  hitexpect check ./checks/ --watch`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: checkCommand,
}

var (
	envFlag             string
	configFlag          string
	nameFlag            string
	tagsFlag            string
	varFlags            []string
	verboseFlag         bool
	noColorFlag         bool
	reporterFlags       []string
	outputDirFlag       string
	bailFlag            bool
	timeoutFlag         string
	parallelFlag        bool
	concurrencyFlag     int
	dryRunFlag          bool
	watchFlag           bool
	updateSnapshotsFlag bool
	strictSnapshotsFlag bool
	snapshotStoreFlag   string
)

func init() {
	checkCmd.Flags().StringVarP(&envFlag, "env", "e", getEnvString("HITEXPECT_ENV", ""), "Environment to use (env: HITEXPECT_ENV)")
	checkCmd.Flags().StringVar(&configFlag, "config", getEnvString("HITEXPECT_CONFIG", ""), "Path to config file (env: HITEXPECT_CONFIG)")
	checkCmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Run only checks whose name matches a glob pattern")
	checkCmd.Flags().StringVarP(&tagsFlag, "tags", "t", getEnvString("HITEXPECT_TAGS", ""), "Run only checks with specified tags (comma-separated) (env: HITEXPECT_TAGS)")
	checkCmd.Flags().StringArrayVar(&varFlags, "var", nil, "Set a variable (name=value), may be repeated")

	checkCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("HITEXPECT_VERBOSE", false), "Verbose output (env: HITEXPECT_VERBOSE)")
	checkCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("HITEXPECT_NO_COLOR", false), "Disable colored output (env: HITEXPECT_NO_COLOR)")
	checkCmd.Flags().StringSliceVarP(&reporterFlags, "reporter", "r", getEnvList("HITEXPECT_REPORTERS"), "Reporters: console, json, junit, tap, html (env: HITEXPECT_REPORTERS)")
	checkCmd.Flags().StringVar(&outputDirFlag, "output-dir", getEnvString("HITEXPECT_OUTPUT_DIR", ""), "Write non-console reports to this directory (env: HITEXPECT_OUTPUT_DIR)")

	checkCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("HITEXPECT_BAIL", false), "Stop on first failure (env: HITEXPECT_BAIL)")
	checkCmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("HITEXPECT_TIMEOUT", ""), "Per-check timeout (e.g., 500ms, 5s) (env: HITEXPECT_TIMEOUT)")
	checkCmd.Flags().BoolVarP(&parallelFlag, "parallel", "p", getEnvBool("HITEXPECT_PARALLEL", false), "Evaluate independent checks in parallel (env: HITEXPECT_PARALLEL)")
	checkCmd.Flags().IntVar(&concurrencyFlag, "concurrency", getEnvInt("HITEXPECT_CONCURRENCY", 0), "Number of checks evaluated at once in parallel mode (env: HITEXPECT_CONCURRENCY)")
	checkCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Parse and show what would run without evaluating")
	checkCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch check files and data for changes and re-run")

	checkCmd.Flags().BoolVarP(&updateSnapshotsFlag, "update-snapshots", "u", getEnvBool("HITEXPECT_UPDATE_SNAPSHOTS", false), "Overwrite mismatching snapshots (env: HITEXPECT_UPDATE_SNAPSHOTS)")
	checkCmd.Flags().BoolVar(&strictSnapshotsFlag, "strict-snapshots", getEnvBool("HITEXPECT_STRICT_SNAPSHOTS", false), "Fail on missing snapshots instead of recording them (env: HITEXPECT_STRICT_SNAPSHOTS)")
	checkCmd.Flags().StringVar(&snapshotStoreFlag, "snapshot-store", getEnvString("HITEXPECT_SNAPSHOT_STORE", ""), "Shared snapshot store: a .json file or sqlite://path (env: HITEXPECT_SNAPSHOT_STORE)")
}

// checkOptions is the effective configuration of one check invocation,
// after merging the config file with flags.
type checkOptions struct {
	runner    *runner.Config
	reporters []string
	outputDir string
	noColor   bool
	store     string
}

func checkCommand(cmd *cobra.Command, args []string) error {
	files, err := checkfile.Discover(args)
	if err != nil {
		return usageError(err)
	}
	if len(files) == 0 {
		return usageError(fmt.Errorf("no %s files found", strings.Join(checkfile.Extensions, " or ")))
	}

	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return &exitError{code: ExitConfigError, err: fmt.Errorf("loading config: %w", err)}
	}
	opts, err := buildCheckOptions(cmd, fileConfig)
	if err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}
	if opts.noColor {
		color.NoColor = true
	}

	if dryRunFlag {
		return dryRun(cmd.OutOrStdout(), files)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.store != "" {
		store, err := snapshot.Open(opts.store)
		if err != nil {
			return &exitError{code: ExitConfigError, err: fmt.Errorf("opening snapshot store: %w", err)}
		}
		if c, ok := store.(io.Closer); ok {
			defer c.Close()
		}
		opts.runner.Snapshots = store
	}

	code, err := runAll(ctx, cmd.OutOrStdout(), files, opts)
	if err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}
	if watchFlag {
		return watch(ctx, cmd.OutOrStdout(), args, files, opts)
	}
	if code != ExitSuccess {
		return &exitError{code: code}
	}
	return nil
}

func buildCheckOptions(cmd *cobra.Command, fileConfig *config.Config) (*checkOptions, error) {
	flags := cmd.Flags()

	timeout := time.Duration(fileConfig.Timeout) * time.Millisecond
	if timeoutFlag != "" {
		d, err := time.ParseDuration(timeoutFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout value %q: %w (use format like 500ms, 5s)", timeoutFlag, err)
		}
		timeout = d
	}

	vars, err := parseVars(varFlags)
	if err != nil {
		return nil, err
	}
	for k, v := range fileConfig.Vars {
		if _, ok := vars[k]; !ok {
			vars[k] = v
		}
	}

	environment := envFlag
	if environment == "" {
		environment = fileConfig.DefaultEnvironment
	}

	concurrency := fileConfig.Concurrency
	if concurrencyFlag > 0 {
		concurrency = concurrencyFlag
	}

	mode := snapshot.ModeRecordNew
	switch {
	case overrideBool(flags.Changed("update-snapshots"), updateSnapshotsFlag, fileConfig.GetUpdateSnapshots()):
		mode = snapshot.ModeUpdate
	case overrideBool(flags.Changed("strict-snapshots"), strictSnapshotsFlag, fileConfig.GetStrictSnapshots()):
		mode = snapshot.ModeStrict
	}

	reporters := reporterFlags
	if len(reporters) == 0 {
		reporters = fileConfig.Reporters
	}
	if len(reporters) == 0 {
		reporters = []string{"console"}
	}
	for _, name := range reporters {
		if _, err := output.New(name, io.Discard, false); err != nil {
			return nil, err
		}
	}

	outputDir := outputDirFlag
	if outputDir == "" {
		outputDir = fileConfig.OutputDir
	}
	store := snapshotStoreFlag
	if store == "" {
		store = fileConfig.SnapshotStore
	}

	return &checkOptions{
		runner: &runner.Config{
			Environment:  environment,
			Environments: fileConfig.Environments,
			Vars:         vars,
			Verbose:      overrideBool(flags.Changed("verbose"), verboseFlag, fileConfig.GetVerbose()),
			Timeout:      timeout,
			Bail:         overrideBool(flags.Changed("bail"), bailFlag, fileConfig.GetBail()),
			NameFilter:   nameFlag,
			TagsFilter:   splitList(tagsFlag),
			Parallel:     overrideBool(flags.Changed("parallel"), parallelFlag, fileConfig.GetParallel()),
			Concurrency:  concurrency,
			SnapshotMode: mode,
			Output:       cmd.ErrOrStderr(),
		},
		reporters: reporters,
		outputDir: outputDir,
		noColor:   overrideBool(flags.Changed("no-color"), noColorFlag, fileConfig.GetNoColor()),
		store:     store,
	}, nil
}

// overrideBool lets an explicit flag win over the config file, and a true
// environment default win over a false config value.
func overrideBool(changed, flag, fromConfig bool) bool {
	if changed {
		return flag
	}
	return flag || fromConfig
}

// parseVars parses name=value pairs. Values that look like numbers or
// booleans keep that type so they compare naturally with document values.
func parseVars(pairs []string) (map[string]any, error) {
	vars := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q (want name=value)", pair)
		}
		vars[name] = parseScalar(raw)
	}
	return vars, nil
}

func parseScalar(raw string) any {
	if i, err := strconv.Atoi(raw); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func dryRun(w io.Writer, files []string) error {
	failed := false
	for _, path := range files {
		f, err := checkfile.LoadFile(path)
		if err != nil {
			fmt.Fprintf(w, "Error in %s: %v\n", path, err)
			failed = true
			continue
		}
		fmt.Fprintf(w, "Would run: %s (%d checks)\n", path, len(f.Checks))
	}
	if failed {
		return &exitError{code: ExitParseError}
	}
	return nil
}

// reportSet is the formatter for one run together with the files it
// writes to.
type reportSet struct {
	formatter output.Formatter
	closers   []io.Closer
}

func (s *reportSet) close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// newReportSet builds the reporters: console always writes to stdout, the
// rest write to files under outputDir or to stdout when no directory is set.
func newReportSet(stdout io.Writer, opts *checkOptions) (*reportSet, error) {
	set := &reportSet{}
	var formatters []output.Formatter
	for _, name := range opts.reporters {
		w := stdout
		if name != "console" && opts.outputDir != "" {
			if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
				_ = set.close()
				return nil, fmt.Errorf("creating output dir: %w", err)
			}
			path := filepath.Join(opts.outputDir, "hitexpect-report"+output.Extension(name))
			f, err := os.Create(path)
			if err != nil {
				_ = set.close()
				return nil, fmt.Errorf("cannot create output file: %w", err)
			}
			set.closers = append(set.closers, f)
			w = f
		}
		formatter, err := output.New(name, w, opts.runner.Verbose)
		if err != nil {
			_ = set.close()
			return nil, err
		}
		formatters = append(formatters, formatter)
	}
	if len(formatters) == 1 {
		set.formatter = formatters[0]
	} else {
		set.formatter = output.NewMultiFormatter(formatters...)
	}
	return set, nil
}

// runAll runs every file once and returns the exit code of the run. The
// error is reserved for reporter failures.
func runAll(ctx context.Context, stdout io.Writer, files []string, opts *checkOptions) (int, error) {
	reports, err := newReportSet(stdout, opts)
	if err != nil {
		return ExitConfigError, err
	}
	defer reports.close()

	formatter := reports.formatter
	formatter.FormatHeader(version)

	r := runner.NewRunner(opts.runner)
	code := ExitSuccess
	start := time.Now()

	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		result, err := r.RunFile(ctx, path)
		if err != nil {
			formatter.FormatError(fmt.Errorf("%s: %w", path, err))
			if checkfile.IsParseError(err) {
				code = ExitParseError
			} else if code == ExitSuccess {
				code = ExitTestFailure
			}
			if opts.runner.Bail {
				break
			}
			continue
		}

		formatter.FormatResult(result)
		if !result.OK() && code == ExitSuccess {
			code = ExitTestFailure
		}
		if opts.runner.Bail && !result.OK() {
			break
		}
	}

	if flushable, ok := formatter.(output.Flushable); ok {
		if err := flushable.Flush(time.Since(start)); err != nil {
			return code, fmt.Errorf("error writing output: %w", err)
		}
	}
	return code, nil
}
