package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	infraconfig "github.com/cabinet/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3Client struct {
	putInput  *s3.PutObjectInput
	putErr    error
	getOutput *s3.GetObjectOutput
	getErr    error
	headErr   error
}

func (f *fakeS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putInput = params
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOutput, nil
}

func (f *fakeS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadObjectOutput{}, nil
}

type fakePresigner struct {
	input   *s3.GetObjectInput
	expires time.Duration
	err     error
}

func (f *fakePresigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4Request, error) {
	f.input = params
	opts := &s3.PresignOptions{}
	for _, fn := range optFns {
		fn(opts)
	}
	f.expires = opts.Expires
	if f.err != nil {
		return nil, f.err
	}
	return &v4Request{URL: "https://signed.example.com/" + *params.Key}, nil
}

func newTestStorage(t *testing.T, cfg *infraconfig.StorageConfig, client *fakeS3Client, presign *fakePresigner) *S3ObjectStorage {
	t.Helper()
	if cfg == nil {
		cfg = &infraconfig.StorageConfig{Bucket: "cabinet-invoices"}
	}
	storage, err := NewS3ObjectStorage(cfg, WithClient(client, presign))
	require.NoError(t, err)
	return storage
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	_, err := NewS3ObjectStorage(nil)
	assert.Error(t, err)

	_, err = NewS3ObjectStorage(&infraconfig.StorageConfig{})
	assert.ErrorContains(t, err, "bucket")
}

func TestUpload(t *testing.T) {
	client := &fakeS3Client{}
	storage := newTestStorage(t, nil, client, &fakePresigner{})

	err := storage.Upload(context.Background(), "invoices/INV-001.pdf",
		[]byte("%PDF-1.4"), "application/pdf", `attachment; filename="INV-001.pdf"`)
	require.NoError(t, err)

	require.NotNil(t, client.putInput)
	assert.Equal(t, "cabinet-invoices", *client.putInput.Bucket)
	assert.Equal(t, "invoices/INV-001.pdf", *client.putInput.Key)
	assert.Equal(t, "application/pdf", *client.putInput.ContentType)
	assert.Equal(t, `attachment; filename="INV-001.pdf"`, *client.putInput.ContentDisposition)

	body, err := io.ReadAll(client.putInput.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), body)
}

func TestUpload_EmptyKey(t *testing.T) {
	storage := newTestStorage(t, nil, &fakeS3Client{}, &fakePresigner{})
	err := storage.Upload(context.Background(), "", nil, "application/pdf", "")
	assert.Error(t, err)
}

func TestDownload(t *testing.T) {
	contentType := "image/png"
	client := &fakeS3Client{getOutput: &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader([]byte("png-bytes"))),
		ContentType: &contentType,
	}}
	storage := newTestStorage(t, nil, client, &fakePresigner{})

	data, ct, err := storage.Download(context.Background(), "signatures/u.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.Equal(t, "image/png", ct)
}

func TestDownload_NotFound(t *testing.T) {
	client := &fakeS3Client{getErr: &types.NoSuchKey{}}
	storage := newTestStorage(t, nil, client, &fakePresigner{})

	_, _, err := storage.Download(context.Background(), "signatures/missing.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestDownload_Failure(t *testing.T) {
	client := &fakeS3Client{getErr: errors.New("access denied")}
	storage := newTestStorage(t, nil, client, &fakePresigner{})

	_, _, err := storage.Download(context.Background(), "signatures/u.png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrObjectNotFound)
}

func TestObjectExists(t *testing.T) {
	tests := []struct {
		name    string
		headErr error
		want    bool
		wantErr bool
	}{
		{"present", nil, true, false},
		{"typed not found", &types.NotFound{}, false, false},
		{"string not found code", errors.New("api error NotFound: Not Found"), false, false},
		{"store failure", errors.New("access denied"), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newTestStorage(t, nil, &fakeS3Client{headErr: tt.headErr}, &fakePresigner{})
			exists, err := storage.ObjectExists(context.Background(), "invoices/INV-001.pdf")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, exists)
		})
	}
}

func TestGenerateDownloadURL(t *testing.T) {
	presign := &fakePresigner{}
	storage := newTestStorage(t, nil, &fakeS3Client{}, presign)

	url, expiresAt, err := storage.GenerateDownloadURL(context.Background(),
		"invoices/INV-001.pdf", "INV-001.pdf", 30*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "https://signed.example.com/invoices/INV-001.pdf", url)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)
	assert.Equal(t, 30*time.Minute, presign.expires)
	require.NotNil(t, presign.input.ResponseContentDisposition)
	assert.Equal(t, `attachment; filename="INV-001.pdf"`, *presign.input.ResponseContentDisposition)
}

func TestGenerateDownloadURL_DefaultExpiration(t *testing.T) {
	presign := &fakePresigner{}
	cfg := &infraconfig.StorageConfig{Bucket: "cabinet-invoices", PresignExpiration: 2 * time.Hour}
	storage := newTestStorage(t, cfg, &fakeS3Client{}, presign)

	_, _, err := storage.GenerateDownloadURL(context.Background(), "invoices/INV-001.pdf", "", 0)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, presign.expires)
	assert.Nil(t, presign.input.ResponseContentDisposition)
}

func TestObjectURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  *infraconfig.StorageConfig
		want string
	}{
		{
			name: "aws s3 virtual-hosted style",
			cfg:  &infraconfig.StorageConfig{Bucket: "cabinet-invoices"},
			want: "https://cabinet-invoices.s3.amazonaws.com/invoices/INV-001.pdf",
		},
		{
			name: "custom endpoint path style",
			cfg:  &infraconfig.StorageConfig{Bucket: "cabinet-invoices", Endpoint: "http://localhost:9000"},
			want: "http://localhost:9000/cabinet-invoices/invoices/INV-001.pdf",
		},
		{
			name: "endpoint without scheme gets one",
			cfg:  &infraconfig.StorageConfig{Bucket: "cabinet-invoices", Endpoint: "minio:9000", UseSSL: true},
			want: "https://minio:9000/cabinet-invoices/invoices/INV-001.pdf",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newTestStorage(t, tt.cfg, &fakeS3Client{}, &fakePresigner{})
			assert.Equal(t, tt.want, storage.ObjectURL("invoices/INV-001.pdf"))
		})
	}
}
