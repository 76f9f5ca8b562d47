package webhook

import "strings"

var approvedStatuses = map[string]bool{
	"approved":  true,
	"aprovado":  true,
	"paid":      true,
	"pago":      true,
	"complete":  true,
	"completed": true,
}

// IsApproved decides whether a notification represents an approved purchase.
// Status and event description are independent heuristics ORed together, so
// either alone can approve. The provider has no dedicated refund/chargeback
// event shape; a refund carrying status "paid" would still classify as
// approved (known gap, left to product review).
func IsApproved(status, eventDescription string) bool {
	if approvedStatuses[strings.ToLower(status)] {
		return true
	}

	event := strings.ToLower(eventDescription)
	if strings.Contains(event, "compra") && strings.Contains(event, "aprovada") {
		return true
	}
	if strings.Contains(event, "purchase") && strings.Contains(event, "approved") {
		return true
	}
	return event == "approved" || event == "paid"
}
