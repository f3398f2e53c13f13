package rendering

import (
	"bytes"
	"context"
	"encoding/base64"
	"html/template"
	"os"
	"time"

	"github.com/cabinet/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// consultationDateLayouts are tried in priority order when normalizing the
// invoice date. Inputs arrive in sortable year-month-day forms: a plain
// calendar date, a date-time with fractional seconds, a date-time without.
var consultationDateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05Z07:00",
}

// defaultSignatureContentType is assumed when the object store did not
// record a content type for the signature image.
const defaultSignatureContentType = "image/png"

// ObjectFetcher is the read slice of the object store the renderer needs to
// inline the practitioner's signature image.
type ObjectFetcher interface {
	Download(ctx context.Context, key string) (data []byte, contentType string, err error)
}

// DocumentData is the view model bound to the invoice template. All fields
// are plain strings the template can drop in place; absent source fields
// arrive here as empty strings and the templates tolerate them.
type DocumentData struct {
	PractitionerName  string
	ProfessionalTitle string
	RPPSNumber        string
	SIRETNumber       string
	Address           string
	// PostalCode and City have no structured source in the profile record
	// (the postal address is one free-text field); they stay empty so
	// templates laid out with separate slots still render.
	PostalCode       string
	City             string
	Phone            string
	Email            string
	InvoiceFooter    string
	SignatureDataURI template.URL
	InvoiceNumber    string
	Amount           string
	ConsultationDate string
	PatientName      string
}

// DocumentRenderer fills the invoice template with data derived from the
// three records. It never fails on degraded inputs: missing patient,
// missing profile, malformed dates, and unfetchable signatures all render
// as empty fields.
type DocumentRenderer struct {
	templatePath string
	fetcher      ObjectFetcher
	logger       *zap.Logger
}

// NewDocumentRenderer creates a renderer loading the external template from
// templatePath, with the built-in template as fallback.
func NewDocumentRenderer(templatePath string, fetcher ObjectFetcher, logger *zap.Logger) *DocumentRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentRenderer{
		templatePath: templatePath,
		fetcher:      fetcher,
		logger:       logger,
	}
}

// Render produces the complete, self-contained HTML receipt.
func (r *DocumentRenderer) Render(ctx context.Context, invoice *billing.Invoice, patient *billing.Patient, profile *billing.PractitionerProfile) (string, error) {
	if invoice == nil {
		return "", NewRenderError(ErrCodeInvalidTemplate, "invoice record is required", nil)
	}

	data := r.buildData(ctx, invoice, patient, profile)

	tmpl, err := r.loadTemplate()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute invoice template", err)
	}
	return buf.String(), nil
}

// buildData derives the view model from the records.
func (r *DocumentRenderer) buildData(ctx context.Context, invoice *billing.Invoice, patient *billing.Patient, profile *billing.PractitionerProfile) DocumentData {
	data := DocumentData{
		PractitionerName: profile.DisplayName(),
		Phone:            profile.Phone(),
		InvoiceNumber:    invoice.InvoiceNumber,
		Amount:           invoice.Amount().String(),
		ConsultationDate: r.formatConsultationDate(invoice.Date),
		PatientName:      patient.DisplayName(),
	}

	if profile != nil {
		data.ProfessionalTitle = profile.ProfessionalTitle
		data.RPPSNumber = profile.RPPS
		data.SIRETNumber = profile.SIRET
		data.Address = profile.PostalAddress
		data.Email = profile.Email
		data.InvoiceFooter = profile.InvoiceFooter

		if profile.SignatureS3Key != "" {
			data.SignatureDataURI = r.signatureDataURI(ctx, profile.SignatureS3Key)
		}
	}

	return data
}

// formatConsultationDate normalizes the invoice date to DD/MM/YYYY. Inputs
// that match none of the accepted layouts pass through unchanged; the
// formatter never fails.
func (r *DocumentRenderer) formatConsultationDate(value string) string {
	if value == "" {
		return ""
	}
	for _, layout := range consultationDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("02/01/2006")
		}
	}
	r.logger.Warn("unparseable invoice date, passing through", zap.String("date", value))
	return value
}

// signatureDataURI fetches the signature image and inlines it as a data
// URI. Every failure is swallowed: the receipt still renders, just without
// a signature.
func (r *DocumentRenderer) signatureDataURI(ctx context.Context, key string) template.URL {
	if r.fetcher == nil {
		return ""
	}
	data, contentType, err := r.fetcher.Download(ctx, key)
	if err != nil {
		r.logger.Warn("failed to load signature image, rendering without it",
			zap.String("key", key), zap.Error(err))
		return ""
	}
	if contentType == "" {
		contentType = defaultSignatureContentType
	}
	return template.URL("data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data))
}

// loadTemplate parses the external template asset, falling back to the
// built-in template when the asset is missing or does not parse. The
// receipt must never fail to render purely because the asset is absent.
func (r *DocumentRenderer) loadTemplate() (*template.Template, error) {
	if r.templatePath != "" {
		content, err := os.ReadFile(r.templatePath)
		if err != nil {
			r.logger.Warn("invoice template not readable, using built-in template",
				zap.String("path", r.templatePath), zap.Error(err))
		} else {
			tmpl, err := template.New("invoice").Parse(string(content))
			if err != nil {
				r.logger.Warn("invoice template does not parse, using built-in template",
					zap.String("path", r.templatePath), zap.Error(err))
			} else {
				return tmpl, nil
			}
		}
	}

	tmpl, err := template.New("invoice").Parse(defaultInvoiceTemplate)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidTemplate, "built-in invoice template does not parse", err)
	}
	return tmpl, nil
}
