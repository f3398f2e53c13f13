// Package rendering turns billing records into a printable HTML fee receipt
// and converts that document to PDF through headless Chrome.
package rendering

import "time"

// RenderRequest contains the parameters for rendering HTML to PDF
type RenderRequest struct {
	// HTML content to render
	HTML string
	// Title for the PDF document metadata
	Title string
	// Timeout overrides the default rendering timeout
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	// PDFData is the raw PDF file content
	PDFData []byte
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// RenderError represents an error during rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout   = "RENDER_TIMEOUT"
	ErrCodeRenderFailed    = "RENDER_FAILED"
	ErrCodeInvalidHTML     = "INVALID_HTML"
	ErrCodeInvalidTemplate = "INVALID_TEMPLATE"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
