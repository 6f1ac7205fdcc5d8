package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scope selects which config file a write targets.
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeLocal  Scope = "local"
)

// ParseScope converts a CLI argument to a Scope.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeGlobal, ScopeLocal:
		return Scope(s), nil
	default:
		return "", fmt.Errorf("unknown scope %q, want %q or %q", s, ScopeGlobal, ScopeLocal)
	}
}

// ErrNoLocalConfig indicates a local write outside a git repository.
var ErrNoLocalConfig = errors.New("local config unavailable: not inside a git repository")

// Set validates value and writes it under key in the file for scope,
// preserving other keys.
func (r *Resolver) Set(scope Scope, key, value string) error {
	if err := ValidateValue(key, value); err != nil {
		return err
	}

	path, perm, err := r.pathFor(scope)
	if err != nil {
		return err
	}

	existing, err := readFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if existing == nil {
		existing = make(map[string]any)
	}
	existing[key] = parseValue(value)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return writeFile(path, existing, perm)
}

// Unset removes key from the file for scope. A missing file is not an error.
func (r *Resolver) Unset(scope Scope, key string) error {
	path, perm, err := r.pathFor(scope)
	if err != nil {
		return err
	}

	existing, err := readFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if _, ok := existing[key]; !ok {
		return nil
	}
	delete(existing, key)
	return writeFile(path, existing, perm)
}

// pathFor returns the file and permissions used for scope. The local file
// is shared with the repository and stays world-readable.
func (r *Resolver) pathFor(scope Scope) (string, os.FileMode, error) {
	switch scope {
	case ScopeGlobal:
		if r.globalPath == "" {
			return "", 0, fmt.Errorf("global config path not available")
		}
		return r.globalPath, 0o600, nil
	case ScopeLocal:
		if r.localPath == "" {
			return "", 0, ErrNoLocalConfig
		}
		return r.localPath, 0o644, nil
	default:
		return "", 0, fmt.Errorf("unknown scope %q", scope)
	}
}

func writeFile(path string, values map[string]any, perm os.FileMode) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

// parseValue converts string values to appropriate types for YAML.
func parseValue(value string) any {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	default:
		return value
	}
}
