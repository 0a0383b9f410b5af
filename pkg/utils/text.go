package utils

// Truncate returns s cut to at most maxLen bytes. If maxLen is 0 or negative,
// returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// TruncateEllipsis returns s cut to maxLen bytes with "..." appended when
// anything was removed.
func TruncateEllipsis(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
