package pack

import (
	"errors"
	"fmt"
)

// Kind classifies where in a run an error originated. Fatal kinds
// (config, enumeration, output) abort the run; per-file kinds are
// collected and reported without stopping other files.
type Kind int

const (
	// KindConfig marks invalid or unreadable run configuration.
	KindConfig Kind = iota + 1
	// KindEnumeration marks a failure to walk the project root.
	KindEnumeration
	// KindPerFile marks a failure that is isolated to a single file.
	KindPerFile
	// KindOutputWrite marks a failure writing or finalizing the artifact.
	KindOutputWrite
	// KindIgnoreSource marks an unreadable ignore file; the run
	// continues without it.
	KindIgnoreSource
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindEnumeration:
		return "enumeration"
	case KindPerFile:
		return "file"
	case KindOutputWrite:
		return "output"
	case KindIgnoreSource:
		return "ignore-source"
	default:
		return "unknown"
	}
}

// Error is the error type produced by this package. Path is the
// project-relative path involved, when one applies.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether any error in err's chain is a pack error of
// the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == kind
}
