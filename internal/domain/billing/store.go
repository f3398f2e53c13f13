package billing

import "context"

// RecordStore provides single-item point lookups against the upstream record
// tables. Implementations return (nil, nil) when a record is absent; an error
// means the store itself failed and the operation must abort rather than be
// treated as not-found.
type RecordStore interface {
	// GetInvoice looks up an invoice by its primary key.
	GetInvoice(ctx context.Context, id string) (*Invoice, error)
	// GetPatient looks up a patient by its primary key.
	GetPatient(ctx context.Context, id string) (*Patient, error)
	// GetProfile looks up a practitioner profile by the caller's user id.
	// Implementations without a configured profile table return (nil, nil).
	GetProfile(ctx context.Context, userID string) (*PractitionerProfile, error)
}
