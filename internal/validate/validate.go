package validate

import (
	"regexp"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

const (
	minUsername = 3
	minPassword = 6
	// MinPrice is the lowest accepted listing price.
	MinPrice = 0.01
)

func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < minUsername || len(s) > 50 {
		return "", false
	}
	return s, true
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Password only enforces the length floor; strength rules belong to a real
// auth system, which this is not.
func Password(s string) bool {
	return len(s) >= minPassword
}

// Name validates a displayable product name.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 100 {
		return "", false
	}
	return s, true
}

func Price(p float64) bool { return p >= MinPrice }

// ID validates a resource identifier (product/user/purchase ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}
