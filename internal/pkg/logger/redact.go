package logger

import "strings"

// RedactEmail masks an email address for safe logging.
// "jane.roe@example.org" becomes "ja***@example.org". Local parts of
// two characters or fewer are fully masked.
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := parts[0]
	if len(name) > 2 {
		return name[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}
