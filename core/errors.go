package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDecode matches every *DecodeError via errors.Is.
	ErrDecode = errors.New("malformed reference data")
	// ErrUnknownAntenna matches every *UnknownAntennaError via errors.Is.
	ErrUnknownAntenna = errors.New("unknown antenna")
	// ErrEmptyEndpoint is the panic value raised when the power of an
	// endpoint without antennas is requested.
	ErrEmptyEndpoint = errors.New("endpoint has no antennas")
)

// DecodeError reports reference data that could not be loaded. Index is the
// zero-based record position, or -1 when the document as a whole is bad.
type DecodeError struct {
	Source string
	Index  int
	Field  string
	Err    error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to decode %s", e.Source)
	if e.Index >= 0 {
		fmt.Fprintf(&b, ": record %d", e.Index)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %q", e.Field)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// UnknownAntennaError is returned when a name or alias has no catalog entry.
// Suggestions holds the closest canonical names, best first.
type UnknownAntennaError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownAntennaError) Error() string {
	msg := fmt.Sprintf("unknown antenna: %s", e.Name)
	if len(e.Suggestions) == 0 {
		return msg
	}
	quoted := make([]string, len(e.Suggestions))
	for i, s := range e.Suggestions {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return msg + " (did you mean " + strings.Join(quoted, ", ") + "?)"
}

func (e *UnknownAntennaError) Is(target error) bool { return target == ErrUnknownAntenna }
