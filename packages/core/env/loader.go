package env

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SystemPrefix marks environment variables that become check variables:
// HITEXPECT_VAR_minAge=18 defines minAge.
const SystemPrefix = "HITEXPECT_VAR_"

type Environment struct {
	Name      string
	Variables map[string]any
}

// LoadEnvironment collects the variables of the named environment. Later
// sources win: the config file's environments section, then .env and
// .env.<name> next to the check files, then HITEXPECT_VAR_* variables.
func LoadEnvironment(dir, envName string, configEnvs map[string]map[string]any) (*Environment, error) {
	env := &Environment{
		Name:      envName,
		Variables: make(map[string]any),
	}

	if vars, ok := configEnvs[envName]; ok {
		for k, v := range vars {
			env.Variables[k] = v
		}
	}

	files := []string{".env"}
	if envName != "" {
		files = append(files, ".env."+envName)
	}
	for _, name := range files {
		vars, err := LoadDotEnv(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for k, v := range vars {
			env.Variables[k] = v
		}
	}

	for k, v := range LoadSystemEnv(SystemPrefix) {
		env.Variables[k] = v
	}

	return env, nil
}

func MergeVariables(sources ...map[string]any) map[string]any {
	result := make(map[string]any)
	for _, src := range sources {
		for k, v := range src {
			result[k] = v
		}
	}
	return result
}

// LoadSystemEnv returns the process environment. With a prefix, only the
// variables carrying it are returned, with the prefix removed.
func LoadSystemEnv(prefix string) map[string]any {
	result := make(map[string]any)
	for _, e := range os.Environ() {
		key, val, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		if prefix == "" {
			result[key] = val
			continue
		}
		if name, found := strings.CutPrefix(key, prefix); found && name != "" {
			result[name] = val
		}
	}
	return result
}
