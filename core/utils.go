package core

import (
	"strings"
	"time"
)

// DateFormat is the wire format for all date-only fields (ISO YYYY-MM-DD).
const DateFormat = "2006-01-02"

// NowFunc returns the current time; mockable in tests.
var NowFunc = time.Now

// Today returns the current date in DateFormat.
func Today() string {
	return NowFunc().Format(DateFormat)
}

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}
