// Package billing holds the read-only record snapshots the invoice PDF
// pipeline works with. Records are fetched per invocation and never mutated
// or persisted by this service.
package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state carried on an invoice record.
type InvoiceStatus string

const (
	StatusDraft   InvoiceStatus = "DRAFT"
	StatusPending InvoiceStatus = "PENDING"
	StatusPaid    InvoiceStatus = "PAID"
	StatusOverdue InvoiceStatus = "OVERDUE"
)

// Invoice is an invoice record as stored upstream. Total is the authoritative
// amount; Price is a legacy field kept as fallback for records written before
// the rename.
type Invoice struct {
	ID            string        `dynamodbav:"id" json:"id"`
	PatientID     string        `dynamodbav:"patientId" json:"patientId"`
	InvoiceNumber string        `dynamodbav:"invoiceNumber" json:"invoiceNumber"`
	Total         *float64      `dynamodbav:"total" json:"total,omitempty"`
	Price         *float64      `dynamodbav:"price" json:"price,omitempty"`
	Date          string        `dynamodbav:"date" json:"date"`
	Status        InvoiceStatus `dynamodbav:"status" json:"status,omitempty"`
}

// Amount returns the invoice amount in major currency units: total when
// present, the legacy price otherwise, zero when both are absent.
func (i *Invoice) Amount() decimal.Decimal {
	switch {
	case i.Total != nil:
		return decimal.NewFromFloat(*i.Total)
	case i.Price != nil:
		return decimal.NewFromFloat(*i.Price)
	default:
		return decimal.Zero
	}
}

// ArtifactName returns the human-readable identifier used to key the PDF
// artifact. Falls back to the record id so the key is always well-defined.
func (i *Invoice) ArtifactName() string {
	if i.InvoiceNumber != "" {
		return i.InvoiceNumber
	}
	return i.ID
}

// Patient is a patient record. Both name fields are optional.
type Patient struct {
	ID        string `dynamodbav:"id" json:"id"`
	FirstName string `dynamodbav:"firstName" json:"firstName,omitempty"`
	LastName  string `dynamodbav:"lastName" json:"lastName,omitempty"`
}

// DisplayName returns "First Last" with absent components dropped. A nil
// patient renders as an empty name rather than an error.
func (p *Patient) DisplayName() string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// PractitionerProfile is the practitioner profile record, keyed by the caller
// identity rather than by invoice. Every field is optional; an absent profile
// degrades to empty strings throughout the rendered document.
type PractitionerProfile struct {
	UserID            string `dynamodbav:"userId" json:"userId"`
	GivenName         string `dynamodbav:"givenName" json:"givenName,omitempty"`
	FamilyName        string `dynamodbav:"familyName" json:"familyName,omitempty"`
	ProfessionalTitle string `dynamodbav:"professionalTitle" json:"professionalTitle,omitempty"`
	RPPS              string `dynamodbav:"rpps" json:"rpps,omitempty"`
	SIRET             string `dynamodbav:"siret" json:"siret,omitempty"`
	PostalAddress     string `dynamodbav:"postalAddress" json:"postalAddress,omitempty"`
	PhoneNumber       string `dynamodbav:"phoneNumber" json:"phoneNumber,omitempty"`
	Email             string `dynamodbav:"email" json:"email,omitempty"`
	InvoiceFooter     string `dynamodbav:"invoiceFooter" json:"invoiceFooter,omitempty"`
	SignatureS3Key    string `dynamodbav:"signatureS3Key" json:"signatureS3Key,omitempty"`
}

// DisplayName returns "Given Family" trimmed, empty when both are absent.
func (p *PractitionerProfile) DisplayName() string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.GivenName + " " + p.FamilyName)
}

// Phone returns the phone number, mapping the literal string "None" to empty.
// Some upstream imports serialized a null phone as "None".
func (p *PractitionerProfile) Phone() string {
	if p == nil || p.PhoneNumber == "None" {
		return ""
	}
	return p.PhoneNumber
}
