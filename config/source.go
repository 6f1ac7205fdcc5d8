package config

// Source indicates where a configuration value came from.
type Source string

// Configuration source constants.
const (
	SourceDefault Source = "default"
	SourceGlobal  Source = "global" // ~/.config/devstash/config.yaml
	SourceLocal   Source = "local"  // .devstash.yaml in the repository root
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)
