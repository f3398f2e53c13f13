package invoicing

import (
	"context"
	"time"

	"github.com/cabinet/backend/internal/domain/billing"
)

// ObjectStorage is the object-store capability the pipeline consumes:
// write-once artifact uploads, signature reads, and reference URLs.
type ObjectStorage interface {
	// Upload writes an object under key, overwriting any prior object.
	Upload(ctx context.Context, key string, data []byte, contentType, contentDisposition string) error
	// Download returns the object bytes and recorded content type.
	Download(ctx context.Context, key string) (data []byte, contentType string, err error)
	// ObjectExists reports whether an object is present under key.
	ObjectExists(ctx context.Context, key string) (bool, error)
	// GenerateDownloadURL returns a presigned GET URL that triggers an
	// attachment download of the given filename.
	GenerateDownloadURL(ctx context.Context, key, filename string, expiresIn time.Duration) (string, time.Time, error)
	// ObjectURL returns the deterministic, reconstructible reference URL
	// for an object key. No signing, no expiry.
	ObjectURL(key string) string
}

// DocumentRenderer produces the self-contained HTML fee receipt for the
// given records. Missing patient or profile degrade to empty fields.
type DocumentRenderer interface {
	Render(ctx context.Context, invoice *billing.Invoice, patient *billing.Patient, profile *billing.PractitionerProfile) (string, error)
}

// PDFConverter turns an HTML document into PDF bytes. A conversion failure
// is fatal to the whole operation.
type PDFConverter interface {
	Convert(ctx context.Context, html, title string) ([]byte, error)
}
