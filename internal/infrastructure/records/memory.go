package records

import (
	"context"
	"sync"

	"github.com/cabinet/backend/internal/domain/billing"
)

// Ensure MemoryRecordStore implements billing.RecordStore
var _ billing.RecordStore = (*MemoryRecordStore)(nil)

// MemoryRecordStore is an in-memory billing.RecordStore for development and
// tests. Lookups are counted so tests can assert that the pipeline
// short-circuits without touching the patient or profile tables.
type MemoryRecordStore struct {
	mu       sync.Mutex
	invoices map[string]billing.Invoice
	patients map[string]billing.Patient
	profiles map[string]billing.PractitionerProfile

	// Err, when set, is returned by every lookup to simulate store failure.
	Err error

	InvoiceLookups int
	PatientLookups int
	ProfileLookups int
}

// NewMemoryRecordStore creates an empty in-memory record store
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{
		invoices: make(map[string]billing.Invoice),
		patients: make(map[string]billing.Patient),
		profiles: make(map[string]billing.PractitionerProfile),
	}
}

// PutInvoice seeds an invoice record
func (s *MemoryRecordStore) PutInvoice(inv billing.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.ID] = inv
}

// PutPatient seeds a patient record
func (s *MemoryRecordStore) PutPatient(p billing.Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients[p.ID] = p
}

// PutProfile seeds a practitioner profile record
func (s *MemoryRecordStore) PutProfile(p billing.PractitionerProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
}

// GetInvoice implements billing.RecordStore
func (s *MemoryRecordStore) GetInvoice(ctx context.Context, id string) (*billing.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InvoiceLookups++
	if s.Err != nil {
		return nil, s.Err
	}
	if inv, ok := s.invoices[id]; ok {
		return &inv, nil
	}
	return nil, nil
}

// GetPatient implements billing.RecordStore
func (s *MemoryRecordStore) GetPatient(ctx context.Context, id string) (*billing.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PatientLookups++
	if s.Err != nil {
		return nil, s.Err
	}
	if p, ok := s.patients[id]; ok {
		return &p, nil
	}
	return nil, nil
}

// GetProfile implements billing.RecordStore
func (s *MemoryRecordStore) GetProfile(ctx context.Context, userID string) (*billing.PractitionerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ProfileLookups++
	if s.Err != nil {
		return nil, s.Err
	}
	if p, ok := s.profiles[userID]; ok {
		return &p, nil
	}
	return nil, nil
}
