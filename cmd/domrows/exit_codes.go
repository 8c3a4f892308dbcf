package main

import (
	"errors"
	"os"

	"github.com/dgallion1/domrows/internal/config"
	"github.com/dgallion1/domrows/internal/domrow"
	"github.com/dgallion1/domrows/internal/source"
	"github.com/dgallion1/domrows/internal/tabular"
)

// Exit codes for the domrows CLI.
const (
	ExitSuccess    = 0 // Successful conversion
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid flags, arguments or config
	ExitIO         = 3 // Input missing, unreadable or output unwritable
	ExitConversion = 4 // Row set or document could not be converted
)

var (
	ErrUsage         = errors.New("usage")
	ErrInputNotFound = errors.New("input file not found")
	ErrWriteOutput   = errors.New("cannot write output")
	ErrRoundTrip     = errors.New("rebuilt tree differs from source")
)

// exitCodeFor returns the exit code for an error. Callers wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, domrow.ErrRootNotFound) ||
		errors.Is(err, domrow.ErrMalformedAttributes) ||
		errors.Is(err, domrow.ErrDuplicateID) ||
		errors.Is(err, tabular.ErrMissingColumn) ||
		errors.Is(err, ErrRoundTrip) {
		return ExitConversion
	}

	if errors.Is(err, ErrInputNotFound) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, tabular.ErrUnsupportedFormat) ||
		errors.Is(err, source.ErrUnsupportedFormat) ||
		errors.Is(err, config.ErrInvalid) {
		return ExitUsage
	}

	return ExitGeneral
}
