package linkcalc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadSpecifier matches every malformed antenna specifier.
var ErrBadSpecifier = errors.New("bad antenna specifier")

// ParseSpecifier splits "[count:]name" into its parts. A bare name means one
// unit. "name:count" is accepted as well when only the second part is a
// number. A count of 0 is valid and adds nothing.
func ParseSpecifier(s string) (int, string, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		name := strings.TrimSpace(parts[0])
		if name == "" {
			return 0, "", fmt.Errorf("%w: empty antenna name", ErrBadSpecifier)
		}
		return 1, name, nil
	case 2:
		first, second := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if n, err := strconv.Atoi(first); err == nil {
			return checkCount(n, second, s)
		}
		if n, err := strconv.Atoi(second); err == nil {
			return checkCount(n, first, s)
		}
		return 0, "", fmt.Errorf("%w: no antenna count in %q", ErrBadSpecifier, s)
	default:
		return 0, "", fmt.Errorf("%w: antenna specifier should be [<NUMBER_OF_ANTENNA>:]<ANTENNA_NAME>, but %s", ErrBadSpecifier, s)
	}
}

func checkCount(n int, name, raw string) (int, string, error) {
	if n < 0 {
		return 0, "", fmt.Errorf("%w: negative antenna count in %q", ErrBadSpecifier, raw)
	}
	if name == "" {
		return 0, "", fmt.Errorf("%w: empty antenna name in %q", ErrBadSpecifier, raw)
	}
	return n, name, nil
}
