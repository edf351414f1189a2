// Package profile implements the four Factur-X conformance levels and the
// per-substructure inclusion rules attached to each of them.
package profile

import (
	"strings"

	"github.com/rezonia/facturx/internal/model"
)

// Profile is one of the four standardized conformance levels.
type Profile string

const (
	Minimum Profile = "MINIMUM"
	BasicWL Profile = "BASICWL"
	Basic   Profile = "BASIC"
	EN16931 Profile = "EN16931"
)

// All lists the supported profiles from the most minimal to the richest.
var All = []Profile{Minimum, BasicWL, Basic, EN16931}

// Parse normalizes and validates a profile token. The historical wire
// spelling "BASIC-WL" is folded to BASICWL before comparison. Unknown
// tokens fail fast, before any tree construction.
func Parse(token string) (Profile, error) {
	normalized := strings.ToUpper(strings.TrimSpace(token))
	normalized = strings.ReplaceAll(normalized, "-", "")

	switch Profile(normalized) {
	case Minimum, BasicWL, Basic, EN16931:
		return Profile(normalized), nil
	default:
		return "", model.NewUnsupportedProfileError(token)
	}
}

// URI returns the canonical conformance URI embedded in the document
// context block.
func (p Profile) URI() string {
	return "urn:factur-x.eu:1p0:" + strings.ToLower(string(p))
}

// String returns the canonical token.
func (p Profile) String() string {
	return string(p)
}

// Policy is the table of substructures a profile permits. The serializer
// is a pure function of (document, policy); every profile-conditional
// branch lives here.
type Policy struct {
	// LineItems permits SupplyChainTradeLineItem blocks.
	LineItems bool

	// HeaderTaxes permits the header-level tax breakdown list.
	HeaderTaxes bool

	// PaymentTerms permits the payment terms block.
	PaymentTerms bool

	// PaymentMeans permits payment instructions.
	PaymentMeans bool

	// AllowanceCharges permits document-level allowances and charges.
	AllowanceCharges bool

	// TradeContact permits a contact block on a trade party.
	TradeContact bool

	// SellerAssignedID permits the seller-assigned product id on a line.
	SellerAssignedID bool

	// SummationLineTotal permits LineTotalAmount in the header summation.
	SummationLineTotal bool

	// SummationChargeAllowance permits ChargeTotalAmount and
	// AllowanceTotalAmount in the header summation.
	SummationChargeAllowance bool
}

// Policy returns the inclusion rules for the profile.
func (p Profile) Policy() Policy {
	itemized := p == Basic || p == EN16931
	richest := p == EN16931
	return Policy{
		LineItems:                itemized,
		HeaderTaxes:              p != Minimum,
		PaymentTerms:             p != Minimum,
		PaymentMeans:             richest,
		AllowanceCharges:         richest,
		TradeContact:             richest,
		SellerAssignedID:         richest,
		SummationLineTotal:       p != Minimum,
		SummationChargeAllowance: richest,
	}
}

// Detect maps a conformance URI back to its profile token. Matching is by
// substring so minor historical spelling variants are tolerated. The
// basicwl and en16931 markers are checked before basic, which is a
// substring of basicwl.
func Detect(uri string) (Profile, bool) {
	lowered := strings.ToLower(uri)
	switch {
	case strings.Contains(lowered, "minimum"):
		return Minimum, true
	case strings.Contains(lowered, "basicwl"), strings.Contains(lowered, "basic-wl"):
		return BasicWL, true
	case strings.Contains(lowered, "en16931"), strings.Contains(lowered, "en-16931"):
		return EN16931, true
	case strings.Contains(lowered, "basic"):
		return Basic, true
	default:
		return "", false
	}
}
