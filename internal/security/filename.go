package security

import "strings"

// SanitizeFilename makes a safe path component from an arbitrary string. Any
// character outside ASCII letters, digits, dot, underscore or dash is replaced
// with an underscore, runs of replacements are collapsed, and the result is
// capped at 128 characters. Summary export names arrive from user-supplied
// paths (sometimes Windows drive paths with spaces), so the output must be
// usable as a directory name on any platform.
func SanitizeFilename(s string) string {
	const maxLen = 128
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastUnderscore = false
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}
