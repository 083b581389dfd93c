package environ

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrInvalidName indicates a variable name that cannot be stored in an environment.
	ErrInvalidName = errors.New("environment variable name must be non-empty and contain no '=' or NUL")
)

// Environment provides access to environment variables.
type Environment interface {
	Lookup(name string) (string, bool)
	Set(name, value string) error
}

// Process reads and writes the environment of the running process.
type Process struct{}

// Lookup reports the value of name and whether it is set.
func (Process) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// Set writes name into the process environment.
func (Process) Set(name, value string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.Setenv(name, value); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}

// Memory keeps variables in-memory and guards access with a RWMutex.
type Memory struct {
	mu   sync.RWMutex
	vars map[string]string
}

// NewMemory initialises an environment with a copy of vars.
func NewMemory(vars map[string]string) *Memory {
	return &Memory{vars: cloneVars(vars)}
}

// FromList builds a Memory environment from KEY=VALUE entries such as os.Environ.
// Entries without '=' are skipped; later entries win.
func FromList(entries []string) *Memory {
	vars := make(map[string]string, len(entries))
	for _, entry := range entries {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = value
	}
	return &Memory{vars: vars}
}

// Lookup reports the value of name and whether it is set.
func (m *Memory) Lookup(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.vars[name]
	return value, ok
}

// Set validates name and stores value.
func (m *Memory) Set(name, value string) error {
	if err := validateName(name); err != nil {
		return err
	}

	m.mu.Lock()
	if m.vars == nil {
		m.vars = make(map[string]string)
	}
	m.vars[name] = value
	m.mu.Unlock()

	return nil
}

// Snapshot returns a defensive copy of the stored variables.
func (m *Memory) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return cloneVars(m.vars)
}

// Environ returns the variables as sorted KEY=VALUE entries, the form exec.Cmd expects.
func (m *Memory) Environ() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.vars))
	for name, value := range m.vars {
		out = append(out, name+"="+value)
	}
	sort.Strings(out)
	return out
}

func cloneVars(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for name, value := range src {
		out[name] = value
	}
	return out
}

func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, "=\x00") {
		return ErrInvalidName
	}
	return nil
}
