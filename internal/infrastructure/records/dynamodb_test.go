package records

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cabinet/backend/internal/domain/billing"
	infraconfig "github.com/cabinet/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamoClient serves GetItem from a map keyed by table name.
type fakeDynamoClient struct {
	items map[string]map[string]types.AttributeValue
	err   error
	calls int
}

func (f *fakeDynamoClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[*params.TableName]}, nil
}

func marshalItem(t *testing.T, v interface{}) map[string]types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(v)
	require.NoError(t, err)
	return item
}

func testTables() *infraconfig.TablesConfig {
	return &infraconfig.TablesConfig{Invoice: "Invoice", Patient: "Patient", Profile: "UserProfile"}
}

func TestNewDynamoRecordStore_Validation(t *testing.T) {
	_, err := NewDynamoRecordStore(nil, nil)
	assert.EqualError(t, err, "tables configuration is required")

	_, err = NewDynamoRecordStore(&infraconfig.TablesConfig{Patient: "Patient"}, nil)
	assert.EqualError(t, err, "invoice table is required")

	_, err = NewDynamoRecordStore(&infraconfig.TablesConfig{Invoice: "Invoice"}, nil)
	assert.EqualError(t, err, "patient table is required")
}

func TestDynamoRecordStore_GetInvoice(t *testing.T) {
	total := 150.5
	client := &fakeDynamoClient{items: map[string]map[string]types.AttributeValue{
		"Invoice": marshalItem(t, billing.Invoice{
			ID:            "inv1",
			PatientID:     "p1",
			InvoiceNumber: "INV-001",
			Total:         &total,
			Date:          "2024-03-15",
			Status:        billing.StatusPending,
		}),
	}}

	store, err := NewDynamoRecordStore(testTables(), nil, WithClient(client))
	require.NoError(t, err)

	inv, err := store.GetInvoice(context.Background(), "inv1")
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, "INV-001", inv.InvoiceNumber)
	assert.Equal(t, "p1", inv.PatientID)
	require.NotNil(t, inv.Total)
	assert.Equal(t, 150.5, *inv.Total)
	assert.Nil(t, inv.Price)
}

func TestDynamoRecordStore_AbsentIsNotAnError(t *testing.T) {
	client := &fakeDynamoClient{items: map[string]map[string]types.AttributeValue{}}
	store, err := NewDynamoRecordStore(testTables(), nil, WithClient(client))
	require.NoError(t, err)

	inv, err := store.GetInvoice(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, inv)

	patient, err := store.GetPatient(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, patient)
}

func TestDynamoRecordStore_StoreFailurePropagates(t *testing.T) {
	client := &fakeDynamoClient{err: errors.New("connection refused")}
	store, err := NewDynamoRecordStore(testTables(), nil, WithClient(client))
	require.NoError(t, err)

	_, err = store.GetInvoice(context.Background(), "inv1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDynamoRecordStore_GetProfile(t *testing.T) {
	client := &fakeDynamoClient{items: map[string]map[string]types.AttributeValue{
		"UserProfile": marshalItem(t, billing.PractitionerProfile{
			UserID:     "user-1",
			GivenName:  "Marie",
			FamilyName: "Curie",
			RPPS:       "10101010101",
		}),
	}}
	store, err := NewDynamoRecordStore(testTables(), nil, WithClient(client))
	require.NoError(t, err)

	profile, err := store.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Marie Curie", profile.DisplayName())
	assert.Equal(t, "10101010101", profile.RPPS)
}

func TestDynamoRecordStore_GetProfile_TableNotConfigured(t *testing.T) {
	client := &fakeDynamoClient{}
	tables := testTables()
	tables.Profile = ""

	store, err := NewDynamoRecordStore(tables, nil, WithClient(client))
	require.NoError(t, err)

	profile, err := store.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, profile)
	assert.Zero(t, client.calls, "no store access expected when profile table is unset")
}
