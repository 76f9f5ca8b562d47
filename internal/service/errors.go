package service

import "errors"

// Terminal pipeline failures, mapped to HTTP status in the handlers. Anything
// else that goes wrong mid-pipeline is reported per step, not raised.
var (
	// ErrEmailRequired: no extractable, well-formed email. Rejected before
	// any side effect.
	ErrEmailRequired = errors.New("email is required")

	// ErrAuditWrite: the purchase_events insert failed. Nothing downstream
	// is attempted; losing the audit trail is worse than double-processing
	// on a provider retry.
	ErrAuditWrite = errors.New("failed to persist purchase event")

	// ErrAccessGrant: the access record write failed. Earlier steps may have
	// committed; the caller is expected to replay the notification, which is
	// safe because every step except the subscription ledger is idempotent.
	ErrAccessGrant = errors.New("failed to persist access record")

	// ErrAccessNotFound / ErrAccessExpired are negative verification results,
	// not backend failures.
	ErrAccessNotFound = errors.New("access not found")
	ErrAccessExpired  = errors.New("access expired")
)
