// Package facturxlib provides a public API for building, serializing,
// embedding and inspecting Factur-X hybrid invoices.
//
// This package exposes the core types for the profile-aware invoice
// model, the Cross Industry Invoice serializer and the PDF container
// pipeline.
//
// Example usage:
//
//	engine := facturxlib.NewEngine()
//	xml, err := engine.Render(invoice, facturxlib.ProfileEN16931)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(xml)
package facturxlib

import (
	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/profile"
)

// Re-export core types for public API
type (
	Invoice                      = model.Invoice
	ExchangedDocument            = model.ExchangedDocument
	TradeTransaction             = model.TradeTransaction
	TradeAgreement               = model.TradeAgreement
	TradeSettlement              = model.TradeSettlement
	TradeParty                   = model.TradeParty
	TradeAddress                 = model.TradeAddress
	TradeContact                 = model.TradeContact
	TaxRegistration              = model.TaxRegistration
	TradeTax                     = model.TradeTax
	LineItem                     = model.LineItem
	AllowanceCharge              = model.AllowanceCharge
	PaymentMeans                 = model.PaymentMeans
	CreditorFinancialAccount     = model.CreditorFinancialAccount
	CreditorFinancialInstitution = model.CreditorFinancialInstitution
	MonetarySummation            = model.MonetarySummation
)

// Profile identifies a Factur-X conformance level.
type Profile = profile.Profile

// Re-export profile constants
const (
	ProfileMinimum = profile.Minimum
	ProfileBasicWL = profile.BasicWL
	ProfileBasic   = profile.Basic
	ProfileEN16931 = profile.EN16931
)

// ParseProfile resolves a case-insensitive profile token.
func ParseProfile(token string) (Profile, error) {
	return profile.Parse(token)
}

// DetectProfile resolves a profile from a guideline conformance URI.
func DetectProfile(uri string) (Profile, bool) {
	return profile.Detect(uri)
}

// Re-export error types
type (
	UnsupportedProfileError = model.UnsupportedProfileError
	IncompleteDocumentError = model.IncompleteDocumentError
	SerializationError      = model.SerializationError
	CodecError              = model.CodecError
)
