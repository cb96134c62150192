package security

import (
	"regexp"
	"strings"
)

// allow only safe single-segment characters: no path separators, no
// traversal sequences, no control characters.
var safeSegmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-. ]+$`)

// SanitizeSegment validates a single path parameter or query value intended
// for use in a filesystem lookup (e.g. a filename). Unlike SanitizePath it
// never "cleans" the value into something usable — an unsafe segment always
// returns "", forcing callers to treat it as absent rather than silently
// repaired.
func SanitizeSegment(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, "/") || strings.Contains(raw, "\\") {
		return ""
	}
	if strings.Contains(raw, "..") {
		return ""
	}
	if !safeSegmentRegex.MatchString(raw) {
		return ""
	}
	return raw
}
