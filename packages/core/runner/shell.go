package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// runCommand runs cmdStr through sh -c in the check file's directory and
// returns its standard output. A leading "-" ignores a non-zero exit.
func (fc *fileRun) runCommand(ctx context.Context, cmdStr string) (string, error) {
	cmdStr = strings.TrimSpace(cmdStr)
	if cmdStr == "" {
		return "", nil
	}

	ignoreError := strings.HasPrefix(cmdStr, "-")
	if ignoreError {
		cmdStr = strings.TrimSpace(strings.TrimPrefix(cmdStr, "-"))
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", fc.localExecutable(cmdStr))
	cmd.Dir = fc.baseDir
	cmd.Env = os.Environ()

	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()

	if fc.runner.config.Verbose && (len(output) > 0 || stderr.Len() > 0) {
		fmt.Fprintf(fc.runner.config.Output, "Command output: %s%s\n", output, stderr.String())
	}

	if err != nil && !ignoreError {
		return "", fmt.Errorf("command %q failed: %v\nOutput: %s", cmdStr, err, strings.TrimSpace(stderr.String()))
	}
	return string(output), nil
}

// localExecutable rewrites a command whose executable is a script next to
// the check file, such as ./seed.sh or seed.sh, to its full path.
func (fc *fileRun) localExecutable(cmdStr string) string {
	parts := strings.Fields(cmdStr)
	if len(parts) == 0 {
		return cmdStr
	}

	executable := parts[0]
	switch {
	case strings.HasPrefix(executable, "./") || strings.HasPrefix(executable, "../"):
		parts[0] = filepath.Join(fc.baseDir, executable)
	case !filepath.IsAbs(executable) && !isInPath(executable):
		candidate := filepath.Join(fc.baseDir, executable)
		if _, err := os.Stat(candidate); err != nil {
			return cmdStr
		}
		parts[0] = candidate
	default:
		return cmdStr
	}
	return strings.Join(parts, " ")
}

func isInPath(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}
