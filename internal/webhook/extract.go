package webhook

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Fields holds the normalized view of one inbound notification. Absent fields
// stay zero-valued; validation is the pipeline's concern, not the extractor's.
type Fields struct {
	Email            string
	Status           string
	EventDescription string
	OfferName        string
	TransactionID    string
	SaleID           string
	Amount           decimal.NullDecimal
	PurchaseDate     *time.Time
	FullName         string
	Phone            string
}

// Candidate paths per logical field, highest priority first. The provider does
// not version its payloads, so field names show up in several casings and
// nestings; new variants are added here, not in code.
var (
	emailPaths  = []string{"customer.email", "contactEmail", "email", "Email", "EMAIL"}
	statusPaths = []string{"status", "Status", "STATUS"}
	eventPaths  = []string{"event_description", "eventDescription", "Event_Description", "event"}
	offerPaths  = []string{"offer_name", "offerName", "Offer_Name", "product_name", "productName", "products.0.offer_name"}
	txnPaths    = []string{"transaction_id", "id", "transactionId"}
	salePaths   = []string{"sale_id", "saleId", "order_id"}
	amountPaths = []string{"amount", "value", "price"}
	datePaths   = []string{"purchase_date", "created_at", "date", "Date"}
	namePaths   = []string{"customer.name", "name", "full_name", "customer_name"}
	phonePaths  = []string{"customer.phone_number", "phone", "telephone", "customer_phone"}
)

// Extract probes the payload for each logical field, first non-empty match
// wins. It is total over any payload shape and never fails.
func Extract(payload map[string]any) Fields {
	f := Fields{
		Email:            firstString(payload, emailPaths),
		Status:           firstString(payload, statusPaths),
		EventDescription: firstString(payload, eventPaths),
		OfferName:        firstString(payload, offerPaths),
		TransactionID:    firstString(payload, txnPaths),
		SaleID:           firstString(payload, salePaths),
		FullName:         firstString(payload, namePaths),
		Phone:            firstString(payload, phonePaths),
	}

	for _, path := range amountPaths {
		if v, ok := lookup(payload, path); ok {
			if d, ok := toDecimal(v); ok {
				f.Amount = decimal.NullDecimal{Decimal: d, Valid: true}
				break
			}
		}
	}

	for _, path := range datePaths {
		raw := firstString(payload, []string{path})
		if raw == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			f.PurchaseDate = &t
			break
		}
	}

	return f
}

func firstString(payload map[string]any, paths []string) string {
	for _, path := range paths {
		if v, ok := lookup(payload, path); ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

// lookup walks a dot-separated path through nested maps and []any indices,
// e.g. "products.0.offer_name".
func lookup(payload map[string]any, path string) (any, bool) {
	var cur any = payload
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, ok := sliceIndex(part)
			if !ok || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

func sliceIndex(part string) (int, bool) {
	idx := 0
	if part == "" {
		return 0, false
	}
	for _, r := range part {
		if r < '0' || r > '9' {
			return 0, false
		}
		idx = idx*10 + int(r-'0')
	}
	return idx, true
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}
