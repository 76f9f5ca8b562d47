package webhook

import "strings"

// DefaultDuration is what unrecognized plan names fall back to. The provider
// only signals the duration through the offer name, so any future plan that
// doesn't mention 30/60/90 silently becomes a 30-day grant. Known limitation,
// kept for compatibility with live offers.
const DefaultDuration = 30

// ResolveDuration maps a free-text offer name to an access window in days by
// substring matching, in 30 -> 60 -> 90 priority.
func ResolveDuration(offerName string) int {
	name := strings.ToLower(offerName)

	switch {
	case strings.Contains(name, "30 dias"), strings.Contains(name, "30dias"), strings.Contains(name, "30"):
		return 30
	case strings.Contains(name, "60 dias"), strings.Contains(name, "60dias"), strings.Contains(name, "60"):
		return 60
	case strings.Contains(name, "90 dias"), strings.Contains(name, "90dias"), strings.Contains(name, "90"):
		return 90
	}

	return DefaultDuration
}
