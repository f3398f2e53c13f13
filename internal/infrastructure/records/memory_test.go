package records

import (
	"context"
	"errors"
	"testing"

	"github.com/cabinet/backend/internal/domain/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRecordStore_RoundTrip(t *testing.T) {
	store := NewMemoryRecordStore()
	ctx := context.Background()

	store.PutInvoice(billing.Invoice{ID: "inv1", InvoiceNumber: "INV-001"})
	store.PutPatient(billing.Patient{ID: "p1", FirstName: "Jean", LastName: "Dupont"})
	store.PutProfile(billing.PractitionerProfile{UserID: "u1", GivenName: "Marie"})

	inv, err := store.GetInvoice(ctx, "inv1")
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, "INV-001", inv.InvoiceNumber)

	patient, err := store.GetPatient(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, patient)
	assert.Equal(t, "Jean Dupont", patient.DisplayName())

	profile, err := store.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Marie", profile.GivenName)
}

func TestMemoryRecordStore_AbsentAndCounts(t *testing.T) {
	store := NewMemoryRecordStore()
	ctx := context.Background()

	inv, err := store.GetInvoice(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, inv)
	assert.Equal(t, 1, store.InvoiceLookups)
	assert.Equal(t, 0, store.PatientLookups)
	assert.Equal(t, 0, store.ProfileLookups)
}

func TestMemoryRecordStore_InjectedFailure(t *testing.T) {
	store := NewMemoryRecordStore()
	store.Err = errors.New("store down")

	_, err := store.GetInvoice(context.Background(), "inv1")
	assert.EqualError(t, err, "store down")
}
