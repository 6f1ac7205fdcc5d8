// Package config resolves devstash settings from layered sources.
//
// Precedence, highest first:
//  1. Command-line flags (ResolveWithFlags)
//  2. Environment variables (DEVSTASH_LOG_LEVEL, DEVSTASH_GIT_BINARY, ...)
//  3. Local config: .devstash.yaml in the repository root
//  4. Global config: ~/.config/devstash/config.yaml
//  5. Built-in defaults (Defaults)
//
// # Basic Usage
//
//	resolver := config.NewResolver(repoDir)
//	settings, err := resolver.Resolve().Settings()
//	if err != nil {
//	    return err
//	}
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: settings.LogLevel(),
//	}))
//
// # Config Sources
//
// Each resolved value tracks where it came from:
//   - "default": built-in default value
//   - "global": ~/.config/devstash/config.yaml
//   - "local": .devstash.yaml in the repository root
//   - "env": environment variable
//   - "flag": command-line flag
//
// Unknown keys in either file are skipped and recorded in Resolver.Warnings.
package config
