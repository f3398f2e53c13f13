// Package dto defines the request shapes of the HTTP surface.
package dto

// GeneratePDFRequest is the invocation payload for PDF generation. The
// shape mirrors the function-style calls the web client already makes:
// the operation arguments plus the caller identity.
type GeneratePDFRequest struct {
	Arguments GenerateArguments `json:"arguments"`
	Identity  CallerIdentity    `json:"identity"`
}

// GenerateArguments carries the operation arguments.
type GenerateArguments struct {
	InvoiceID string `json:"invoiceId"`
}

// CallerIdentity carries the authenticated caller. Sub is the stable user
// id; Username is a fallback some identity providers populate instead.
type CallerIdentity struct {
	Sub      string `json:"sub"`
	Username string `json:"username"`
}

// UserID resolves the caller's user id, preferring the stable subject.
func (i CallerIdentity) UserID() string {
	if i.Sub != "" {
		return i.Sub
	}
	return i.Username
}
