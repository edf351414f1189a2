package xsd

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/rezonia/facturx/internal/profile"
)

// StructuralValidator checks the mandatory block structure and profile
// gating of a Cross Industry Invoice without XSD files. It is the
// fallback ruleset when no schema directory is configured.
type StructuralValidator struct{}

// NewStructural creates a structural validator.
func NewStructural() *StructuralValidator {
	return &StructuralValidator{}
}

// Validate parses the document and checks the mandatory tree shape. An
// unknown profile is validated against the any-profile subset only.
func (v *StructuralValidator) Validate(xml string, p profile.Profile) (bool, []string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		return false, []string{"malformed XML document: " + err.Error()}, nil
	}

	var messages []string
	report := func(format string, args ...interface{}) {
		messages = append(messages, fmt.Sprintf(format, args...))
	}

	root := doc.Root()
	if root == nil {
		return false, []string{"empty XML document"}, nil
	}
	if root.Tag != "CrossIndustryInvoice" {
		report("unexpected root element %q", root.FullTag())
		return false, messages, nil
	}

	if root.FindElement("ExchangedDocumentContext/GuidelineSpecifiedDocumentContextParameter/ID") == nil {
		report("missing document context guideline parameter")
	}

	header := root.FindElement("ExchangedDocument")
	if header == nil {
		report("missing ExchangedDocument block")
	} else {
		for _, tag := range []string{"ID", "TypeCode", "IssueDateTime/DateTimeString"} {
			if elem := header.FindElement(tag); elem == nil || elem.Text() == "" {
				report("missing or empty ExchangedDocument/%s", tag)
			}
		}
	}

	tx := root.FindElement("SupplyChainTradeTransaction")
	if tx == nil {
		report("missing SupplyChainTradeTransaction block")
		return len(messages) == 0, messages, nil
	}

	if tx.FindElement("ApplicableHeaderTradeAgreement/SellerTradeParty/Name") == nil {
		report("missing seller party name")
	}
	if tx.FindElement("ApplicableHeaderTradeAgreement/BuyerTradeParty") == nil {
		report("missing buyer party")
	}
	if tx.FindElement("ApplicableHeaderTradeDelivery") == nil {
		report("missing ApplicableHeaderTradeDelivery block")
	}

	settlement := tx.FindElement("ApplicableHeaderTradeSettlement")
	if settlement == nil {
		report("missing ApplicableHeaderTradeSettlement block")
		return len(messages) == 0, messages, nil
	}
	if elem := settlement.FindElement("InvoiceCurrencyCode"); elem == nil || elem.Text() == "" {
		report("missing or empty invoice currency code")
	}

	summation := settlement.FindElement("SpecifiedTradeSettlementHeaderMonetarySummation")
	if summation == nil {
		report("missing header monetary summation")
	} else {
		for _, tag := range []string{"TaxBasisTotalAmount", "TaxTotalAmount", "GrandTotalAmount", "DuePayableAmount"} {
			if summation.FindElement(tag) == nil {
				report("missing summation total %s", tag)
			}
		}
	}

	if _, known := profileKnown(p); known {
		v.checkProfileGating(tx, settlement, summation, p, report)
	}

	return len(messages) == 0, messages, nil
}

func profileKnown(p profile.Profile) (profile.Profile, bool) {
	for _, candidate := range profile.All {
		if candidate == p {
			return p, true
		}
	}
	return "", false
}

func (v *StructuralValidator) checkProfileGating(tx, settlement, summation *etree.Element, p profile.Profile, report func(string, ...interface{})) {
	policy := p.Policy()

	lines := tx.FindElements("IncludedSupplyChainTradeLineItem")
	if !policy.LineItems && len(lines) > 0 {
		report("profile %s does not permit line items, found %d", p, len(lines))
	}

	if !policy.HeaderTaxes && settlement.FindElement("ApplicableTradeTax") != nil {
		report("profile %s does not permit a header tax breakdown", p)
	}
	if !policy.PaymentTerms && settlement.FindElement("SpecifiedTradePaymentTerms") != nil {
		report("profile %s does not permit payment terms", p)
	}
	if !policy.PaymentMeans && settlement.FindElement("SpecifiedTradeSettlementPaymentMeans") != nil {
		report("profile %s does not permit payment means", p)
	}
	if !policy.AllowanceCharges && settlement.FindElement("SpecifiedTradeAllowanceCharge") != nil {
		report("profile %s does not permit allowances or charges", p)
	}

	if summation != nil {
		if !policy.SummationLineTotal && summation.FindElement("LineTotalAmount") != nil {
			report("profile %s does not permit LineTotalAmount in the summation", p)
		}
		if !policy.SummationChargeAllowance && summation.FindElement("ChargeTotalAmount") != nil {
			report("profile %s does not permit ChargeTotalAmount in the summation", p)
		}
	}
}
