// Package invoicing orchestrates the invoice PDF pipeline: load records,
// render the HTML receipt, convert to PDF, publish the artifact.
package invoicing

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/cabinet/backend/internal/domain/billing"
	"go.uber.org/zap"
)

const (
	// artifactPrefix is the logical folder all PDF artifacts live under.
	artifactPrefix = "invoices/"
	pdfContentType = "application/pdf"

	msgInvoiceIDRequired = "Invoice ID is required"
	msgInvoiceNotFound   = "Invoice not found"
	msgGenerated         = "PDF generated successfully"
	msgDownloadReady     = "Download URL generated successfully"
	msgDraftNotPrintable = "Cannot download PDF for DRAFT invoices. Please mark as PENDING first."
	msgArtifactMissing   = "PDF not found in storage. Please generate the PDF first by marking the invoice as PENDING."
)

// Service runs the generation pipeline. Each invocation is independent and
// stateless; all collaborator calls happen strictly in sequence.
type Service struct {
	records    billing.RecordStore
	renderer   DocumentRenderer
	converter  PDFConverter
	storage    ObjectStorage
	presignTTL time.Duration
	logger     *zap.Logger
}

// ServiceOption is a functional option for configuring Service
type ServiceOption func(*Service)

// WithPresignTTL overrides the validity window of download URLs
func WithPresignTTL(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.presignTTL = d
	}
}

// NewService creates the pipeline service
func NewService(
	records billing.RecordStore,
	renderer DocumentRenderer,
	converter PDFConverter,
	storage ObjectStorage,
	logger *zap.Logger,
	opts ...ServiceOption,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		records:    records,
		renderer:   renderer,
		converter:  converter,
		storage:    storage,
		presignTTL: time.Hour,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GeneratePDF runs the full pipeline for one invoice and returns the
// structured invocation result. Fatal conditions short-circuit; soft
// conditions (missing patient, profile, signature) degrade inside the
// renderer instead of failing the operation.
func (s *Service) GeneratePDF(ctx context.Context, req GenerateRequest) GenerateResult {
	if req.InvoiceID == "" {
		return GenerateResult{Success: false, Message: msgInvoiceIDRequired}
	}

	invoice, err := s.records.GetInvoice(ctx, req.InvoiceID)
	if err != nil {
		return s.generateFailure("invoice lookup failed", err)
	}
	if invoice == nil {
		s.logger.Info("invoice not found", zap.String("invoiceId", req.InvoiceID))
		return GenerateResult{Success: false, Message: msgInvoiceNotFound}
	}

	// Patient and profile lookups only happen once the invoice resolved.
	var patient *billing.Patient
	if invoice.PatientID != "" {
		if patient, err = s.records.GetPatient(ctx, invoice.PatientID); err != nil {
			return s.generateFailure("patient lookup failed", err)
		}
	}

	var profile *billing.PractitionerProfile
	if req.UserID != "" {
		if profile, err = s.records.GetProfile(ctx, req.UserID); err != nil {
			return s.generateFailure("profile lookup failed", err)
		}
	}

	html, err := s.renderer.Render(ctx, invoice, patient, profile)
	if err != nil {
		return s.generateFailure("document rendering failed", err)
	}

	pdf, err := s.converter.Convert(ctx, html, "Reçu d'honoraires - "+invoice.ArtifactName())
	if err != nil {
		return s.generateFailure("PDF conversion failed", err)
	}

	name := invoice.ArtifactName()
	key := artifactKey(name)
	if err := s.storage.Upload(ctx, key, pdf, pdfContentType, attachmentDisposition(name+".pdf")); err != nil {
		return s.generateFailure("artifact upload failed", err)
	}

	url := s.storage.ObjectURL(key)
	s.logger.Info("invoice PDF generated",
		zap.String("invoiceId", invoice.ID),
		zap.String("key", key),
		zap.Int("bytes", len(pdf)))

	return GenerateResult{Success: true, PDFURL: url, Message: msgGenerated}
}

// DownloadPDF returns a short-lived presigned URL for a previously published
// artifact. DRAFT invoices are not downloadable.
func (s *Service) DownloadPDF(ctx context.Context, invoiceID string) DownloadResult {
	if invoiceID == "" {
		return DownloadResult{Success: false, Message: msgInvoiceIDRequired}
	}

	invoice, err := s.records.GetInvoice(ctx, invoiceID)
	if err != nil {
		s.logger.Error("invoice lookup failed", zap.String("invoiceId", invoiceID), zap.Error(err))
		return DownloadResult{Success: false, Message: err.Error()}
	}
	if invoice == nil {
		return DownloadResult{Success: false, Message: msgInvoiceNotFound}
	}
	if invoice.Status == billing.StatusDraft {
		return DownloadResult{Success: false, Message: msgDraftNotPrintable}
	}

	name := invoice.ArtifactName()
	key := artifactKey(name)
	exists, err := s.storage.ObjectExists(ctx, key)
	if err != nil || !exists {
		if err != nil {
			s.logger.Warn("artifact existence check failed", zap.String("key", key), zap.Error(err))
		}
		return DownloadResult{Success: false, Message: msgArtifactMissing}
	}

	url, _, err := s.storage.GenerateDownloadURL(ctx, key, name+".pdf", s.presignTTL)
	if err != nil {
		s.logger.Error("presigning failed", zap.String("key", key), zap.Error(err))
		return DownloadResult{Success: false, Message: err.Error()}
	}

	return DownloadResult{Success: true, DownloadURL: url, Message: msgDownloadReady}
}

// generateFailure logs a fatal pipeline error and shapes the caller-visible
// failure: the underlying message, then a blank line, then a diagnostic
// stack for operator triage. The service has no alerting layer of its own,
// so the invocation result doubles as the triage surface.
func (s *Service) generateFailure(stage string, err error) GenerateResult {
	s.logger.Error("invoice PDF generation failed", zap.String("stage", stage), zap.Error(err))
	return GenerateResult{
		Success: false,
		Message: fmt.Sprintf("%s: %s\n\nStack: %s", stage, err.Error(), debug.Stack()),
	}
}

// artifactKey builds the deterministic object key for an artifact name.
func artifactKey(name string) string {
	return artifactPrefix + name + ".pdf"
}

// attachmentDisposition builds a Content-Disposition that forces a browser
// download under the given filename.
func attachmentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}
