package session

import "strings"

const titleLimit = 40

// DeriveTitle builds a conversation title from the first message of a new
// session: the first 40 characters of the trimmed text plus an ellipsis
// marker. The marker is appended unconditionally, so titles always read as
// excerpts.
func DeriveTitle(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) > titleLimit {
		runes = runes[:titleLimit]
	}
	return string(runes) + "..."
}
