package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	CasesPath string // a case file or a directory of case files

	LogFormat string
	LogLevel  string
	Workers   int

	// PrintLogger keeps compiler logging at the level cases ask for instead
	// of forcing it down to errors.
	PrintLogger     bool
	UpdateSnapshots bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.CasesPath == "" {
		return nil, errors.New("CasesPath is a required configuration field and cannot be empty")
	}
	if cfg.Workers < 1 {
		return nil, errors.New("Workers must be at least 1")
	}
	return &cfg, nil
}
