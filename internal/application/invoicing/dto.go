package invoicing

// GenerateRequest carries the arguments of a PDF generation invocation.
// UserID is the already-resolved caller identity; empty means anonymous,
// which skips the practitioner profile lookup.
type GenerateRequest struct {
	InvoiceID string
	UserID    string
}

// GenerateResult is the structured outcome of a generation invocation.
// Failures are reported here rather than as errors; Message carries the
// failure description and, for unexpected internal errors, a diagnostic
// stack appended after a blank line.
type GenerateResult struct {
	Success bool   `json:"success"`
	PDFURL  string `json:"pdfUrl,omitempty"`
	Message string `json:"message"`
}

// DownloadResult is the structured outcome of a download-URL invocation.
type DownloadResult struct {
	Success     bool   `json:"success"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	Message     string `json:"message"`
}
