package config

import "errors"

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrCasesInvalid       = errors.New("cases must be positive")
	ErrMaxViolations      = errors.New("max_violations cannot be negative")
	ErrCorpusDirEmpty     = errors.New("corpus_dir cannot be empty")
	ErrUnknownSuite       = errors.New("unknown suite")
)
