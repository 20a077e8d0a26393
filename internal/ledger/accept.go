package ledger

import "strings"

// Accept reports whether a message from sender should be counted when the
// chat's configured source is source. An empty source accepts everyone.
func Accept(source, sender string) bool {
	if source == "" {
		return true
	}
	return normalizeIdentifier(sender) == normalizeIdentifier(source)
}

func normalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimLeft(s, "@"))
}
