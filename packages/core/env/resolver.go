package env

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/hitexpect/packages/builtin"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
)

var (
	variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)
	wholePattern    = regexp.MustCompile(`^\s*\{\{([^}]+)\}\}\s*$`)
)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Resolver handles variable resolution with thread-safe access to variables and captures.
// It supports environment variables, built-in functions, subjects captured by
// earlier checks, and user-defined variables. Dotted names walk into maps,
// sequences and struct fields: {{user.tags.0}}.
type Resolver struct {
	mu        sync.RWMutex
	variables map[string]any
	captures  map[string]any
	funcs     *builtin.Registry
	warnFunc  WarnFunc
}

func NewResolver() *Resolver {
	return &Resolver{
		variables: make(map[string]any),
		captures:  make(map[string]any),
		funcs:     builtin.NewRegistry(),
	}
}

// SetWarnFunc sets a function to be called when warnings occur (e.g., unresolved variables)
func (r *Resolver) SetWarnFunc(fn WarnFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnFunc = fn
}

func (r *Resolver) warn(format string, args ...any) {
	r.mu.RLock()
	fn := r.warnFunc
	r.mu.RUnlock()
	if fn != nil {
		fn(format, args...)
	}
}

func (r *Resolver) SetVariables(vars map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range vars {
		r.variables[k] = v
	}
}

func (r *Resolver) SetVariable(name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variables[name] = value
}

// SetCapture stores a subject captured by a check under both
// checkName.captureName and the bare captureName.
func (r *Resolver) SetCapture(checkName, captureName string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if checkName != "" {
		r.captures[checkName+"."+captureName] = value
	}
	r.captures[captureName] = value
}

func (r *Resolver) GetCapture(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.captures[name]
	return v, ok
}

// Resolve replaces every placeholder in input with its value formatted as
// text. Placeholders that cannot be resolved are left as they are.
func (r *Resolver) Resolve(input string) string {
	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])
		val, err := r.evaluate(expr)
		if err != nil {
			r.warn("%v", err)
			return match
		}
		return fmt.Sprintf("%v", val)
	})
}

// ResolveValue resolves placeholders inside v, walking maps and slices
// decoded from a check file. A string that is exactly one placeholder
// takes the value's own type, so "{{minAge}}" can become the number 18.
func (r *Resolver) ResolveValue(v any) any {
	switch t := v.(type) {
	case string:
		if m := wholePattern.FindStringSubmatch(t); m != nil {
			val, err := r.evaluate(strings.TrimSpace(m[1]))
			if err != nil {
				r.warn("%v", err)
				return t
			}
			return val
		}
		return r.Resolve(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, elem := range t {
			out[r.Resolve(k)] = r.ResolveValue(elem)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = r.ResolveValue(elem)
		}
		return out
	}
	return v
}

func (r *Resolver) evaluate(expr string) (any, error) {
	if name, ok := strings.CutPrefix(expr, "$"); ok {
		if val, set := os.LookupEnv(name); set {
			return val, nil
		}
		return nil, fmt.Errorf("unresolved environment variable: $%s", name)
	}

	if builtin.IsCall(expr) {
		val, ok, err := r.funcs.Call(expr)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("unresolved function call: %s", expr)
		}
		return val, nil
	}

	if val, ok := r.GetVariable(expr); ok {
		return val, nil
	}
	return nil, fmt.Errorf("unresolved variable: %s", expr)
}

// HasUnresolvedVariables reports whether any placeholder in input would be
// left as is by Resolve.
func (r *Resolver) HasUnresolvedVariables(input string) bool {
	return len(r.GetUnresolvedVariables(input)) > 0
}

// GetUnresolvedVariables lists the placeholder names in input that have no
// value, in order of appearance.
func (r *Resolver) GetUnresolvedVariables(input string) []string {
	var names []string
	for _, m := range variablePattern.FindAllStringSubmatch(input, -1) {
		expr := strings.TrimSpace(m[1])
		if builtin.IsCall(expr) {
			continue
		}
		if _, err := r.evaluate(expr); err != nil {
			names = append(names, expr)
		}
	}
	return names
}

func (r *Resolver) ResolveAll(values map[string]string) map[string]string {
	result := make(map[string]string)
	for k, v := range values {
		result[k] = r.Resolve(v)
	}
	return result
}

func (r *Resolver) HasVariable(name string) bool {
	_, ok := r.GetVariable(name)
	return ok
}

// GetVariable looks name up in captures first, then variables. A dotted
// name that is not itself a key walks into the value of its first segment.
func (r *Resolver) GetVariable(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if v, ok := r.lookupLocked(name); ok {
		return v, true
	}

	segments := strings.Split(name, ".")
	for split := len(segments) - 1; split > 0; split-- {
		root, ok := r.lookupLocked(strings.Join(segments[:split], "."))
		if !ok {
			continue
		}
		if v, ok := walk(root, segments[split:]); ok {
			return v, true
		}
	}
	return nil, false
}

func (r *Resolver) lookupLocked(name string) (any, bool) {
	if v, ok := r.captures[name]; ok {
		return v, true
	}
	v, ok := r.variables[name]
	return v, ok
}

func walk(v any, path []string) (any, bool) {
	for _, seg := range path {
		var key any = seg
		if n, err := strconv.Atoi(seg); err == nil && value.KindOf(v) == value.OrderedSequence {
			key = n
		}
		next, ok := value.Lookup(v, key)
		if !ok {
			return nil, false
		}
		v = next
	}
	return v, true
}

// Variables returns a copy of the user-defined variables.
func (r *Resolver) Variables() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]any, len(r.variables))
	for k, v := range r.variables {
		out[k] = v
	}
	return out
}

func (r *Resolver) Clone() *Resolver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := NewResolver()
	for k, v := range r.variables {
		clone.variables[k] = v
	}
	for k, v := range r.captures {
		clone.captures[k] = v
	}
	clone.warnFunc = r.warnFunc
	return clone
}
