// Package records provides record store implementations for the point
// lookups the invoice pipeline performs.
package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cabinet/backend/internal/domain/billing"
	infraconfig "github.com/cabinet/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure DynamoRecordStore implements billing.RecordStore
var _ billing.RecordStore = (*DynamoRecordStore)(nil)

// getItemAPI is the slice of the DynamoDB client the store uses.
type getItemAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoRecordStore implements billing.RecordStore against DynamoDB tables.
// All lookups are single-item gets by primary key; the store performs no
// writes and keeps no cache across calls.
type DynamoRecordStore struct {
	client       getItemAPI
	invoiceTable string
	patientTable string
	profileTable string // empty = profile lookups disabled
	logger       *zap.Logger
}

// DynamoRecordStoreOption is a functional option for configuring DynamoRecordStore
type DynamoRecordStoreOption func(*DynamoRecordStore)

// WithLogger sets a custom logger for DynamoRecordStore
func WithLogger(logger *zap.Logger) DynamoRecordStoreOption {
	return func(s *DynamoRecordStore) {
		s.logger = logger
	}
}

// WithClient overrides the DynamoDB client, mainly for tests
func WithClient(client getItemAPI) DynamoRecordStoreOption {
	return func(s *DynamoRecordStore) {
		s.client = client
	}
}

// NewDynamoRecordStore creates a record store over the configured tables.
// Static credentials from the storage config are reused when present;
// otherwise the default AWS credential chain applies.
func NewDynamoRecordStore(tables *infraconfig.TablesConfig, storage *infraconfig.StorageConfig, opts ...DynamoRecordStoreOption) (*DynamoRecordStore, error) {
	if tables == nil {
		return nil, errors.New("tables configuration is required")
	}
	if tables.Invoice == "" {
		return nil, errors.New("invoice table is required")
	}
	if tables.Patient == "" {
		return nil, errors.New("patient table is required")
	}

	store := &DynamoRecordStore{
		invoiceTable: tables.Invoice,
		patientTable: tables.Patient,
		profileTable: tables.Profile,
		logger:       zap.NewNop(),
	}

	for _, opt := range opts {
		opt(store)
	}

	if store.client == nil {
		region := ""
		loadOpts := []func(*awsconfig.LoadOptions) error{}
		if storage != nil {
			region = storage.Region
			if storage.AccessKey != "" {
				loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
					credentials.NewStaticCredentialsProvider(storage.AccessKey, storage.SecretKey, "")))
			}
		}
		if region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(region))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS config: %w", err)
		}
		store.client = dynamodb.NewFromConfig(awsCfg)
	}

	return store, nil
}

// GetInvoice looks up an invoice by its primary key.
func (s *DynamoRecordStore) GetInvoice(ctx context.Context, id string) (*billing.Invoice, error) {
	var invoice billing.Invoice
	found, err := s.getItem(ctx, s.invoiceTable, "id", id, &invoice)
	if err != nil || !found {
		return nil, err
	}
	return &invoice, nil
}

// GetPatient looks up a patient by its primary key.
func (s *DynamoRecordStore) GetPatient(ctx context.Context, id string) (*billing.Patient, error) {
	var patient billing.Patient
	found, err := s.getItem(ctx, s.patientTable, "id", id, &patient)
	if err != nil || !found {
		return nil, err
	}
	return &patient, nil
}

// GetProfile looks up a practitioner profile by the caller's user id.
// Returns (nil, nil) when no profile table is configured.
func (s *DynamoRecordStore) GetProfile(ctx context.Context, userID string) (*billing.PractitionerProfile, error) {
	if s.profileTable == "" {
		s.logger.Debug("profile table not configured, skipping lookup")
		return nil, nil
	}
	var profile billing.PractitionerProfile
	found, err := s.getItem(ctx, s.profileTable, "userId", userID, &profile)
	if err != nil || !found {
		return nil, err
	}
	return &profile, nil
}

// getItem performs a single GetItem call and unmarshals the item into out.
// Returns false with a nil error when the item is absent; any store failure
// is returned as an error so it is not mistaken for not-found.
func (s *DynamoRecordStore) getItem(ctx context.Context, table, keyName, keyValue string, out interface{}) (bool, error) {
	resp, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			keyName: &types.AttributeValueMemberS{Value: keyValue},
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to get item from %s: %w", table, err)
	}
	if resp.Item == nil {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(resp.Item, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal item from %s: %w", table, err)
	}
	return true, nil
}
