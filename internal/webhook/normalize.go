package webhook

import "strings"

// NormalizeEmail lowercases and trims an email. Every identity comparison in
// the system goes through this, so two casings of the same address always
// resolve to the same access record.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ValidEmail is a minimal ingress check: non-empty, one "@", something on
// both sides. Provider payloads are not trusted to be well-formed beyond that.
func ValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Count(email, "@") == 1 && !strings.ContainsAny(email, " \t")
}
