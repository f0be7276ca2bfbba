package cli

import "errors"

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrUnknownFlag     = errors.New("unknown flag")
	ErrFlagRequiresArg = errors.New("flag requires an argument")
	ErrUnknownSuite    = errors.New("unknown suite")
	ErrViolations      = errors.New("metamorphic relations violated")
	ErrCanceled        = errors.New("run canceled")
)
