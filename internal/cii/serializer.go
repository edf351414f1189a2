// Package cii serializes an invoice document into the Cross Industry
// Invoice element tree. Construction order follows the schema: context,
// exchanged document, then the transaction with line items, agreement,
// delivery and settlement. Which substructures appear is decided entirely
// by the profile policy; this package never inspects the profile token
// beyond resolving that policy.
package cii

import (
	"github.com/beevik/etree"

	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/money"
	"github.com/rezonia/facturx/internal/profile"
)

// Registered namespaces of the wire format.
const (
	NamespaceRSM = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	NamespaceRAM = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	NamespaceUDT = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"
	NamespaceQDT = "urn:un:unece:uncefact:data:standard:QualifiedDataType:100"
)

const (
	// dateFormatCode 102 marks a compact 8-digit calendar date.
	dateFormatCode = "102"
	dateLayout     = "20060102"

	// unitCodeOne is UN/ECE rec 20 "C62", one unit.
	unitCodeOne = "C62"

	// taxSchemeVAT tags a tax registration id as a VAT number.
	taxSchemeVAT = "VA"
)

// Generate serializes the invoice for the given profile and returns the
// XML text. A missing document or transaction block fails with
// IncompleteDocumentError before any output is produced.
func Generate(inv *model.Invoice, p profile.Profile) (string, error) {
	tree, err := BuildTree(inv, p)
	if err != nil {
		return "", err
	}

	tree.Indent(2)
	xml, err := tree.WriteToString()
	if err != nil {
		return "", model.NewSerializationError("could not write element tree", err)
	}
	return xml, nil
}

// BuildTree constructs the schema-ordered element tree without
// serializing it to text.
func BuildTree(inv *model.Invoice, p profile.Profile) (*etree.Document, error) {
	if inv == nil || inv.Document == nil {
		return nil, model.NewIncompleteDocumentError("exchanged document")
	}
	if inv.Transaction == nil {
		return nil, model.NewIncompleteDocumentError("supply chain trade transaction")
	}

	policy := p.Policy()

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("rsm:CrossIndustryInvoice")
	root.CreateAttr("xmlns:rsm", NamespaceRSM)
	root.CreateAttr("xmlns:ram", NamespaceRAM)
	root.CreateAttr("xmlns:udt", NamespaceUDT)
	root.CreateAttr("xmlns:qdt", NamespaceQDT)

	appendDocumentContext(root, p)
	appendExchangedDocument(root, inv.Document)
	appendTransaction(root, inv.Transaction, policy)

	return doc, nil
}

func appendDocumentContext(root *etree.Element, p profile.Profile) {
	exchanged := root.CreateElement("rsm:ExchangedDocumentContext")
	context := exchanged.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter")
	context.CreateElement("ram:ID").SetText(p.URI())
}

func appendExchangedDocument(root *etree.Element, header *model.ExchangedDocument) {
	exchanged := root.CreateElement("rsm:ExchangedDocument")
	exchanged.CreateElement("ram:ID").SetText(header.ID)

	typeCode := header.TypeCode
	if typeCode == "" {
		typeCode = model.CommercialInvoiceTypeCode
	}
	exchanged.CreateElement("ram:TypeCode").SetText(typeCode)

	issue := exchanged.CreateElement("ram:IssueDateTime")
	appendDateTimeString(issue, header.IssueDate.Format(dateLayout))
}

func appendTransaction(root *etree.Element, tx *model.TradeTransaction, policy profile.Policy) {
	transaction := root.CreateElement("rsm:SupplyChainTradeTransaction")

	if policy.LineItems {
		for i := range tx.LineItems {
			appendLineItem(transaction, &tx.LineItems[i], policy)
		}
	}

	agreement := transaction.CreateElement("ram:ApplicableHeaderTradeAgreement")
	appendTradeParty(agreement, "ram:SellerTradeParty", &tx.Agreement.Seller, policy)
	appendTradeParty(agreement, "ram:BuyerTradeParty", &tx.Agreement.Buyer, policy)

	// Always present, always empty at these profiles.
	transaction.CreateElement("ram:ApplicableHeaderTradeDelivery")

	appendSettlement(transaction, &tx.Settlement, policy)
}

func appendLineItem(transaction *etree.Element, line *model.LineItem, policy profile.Policy) {
	item := transaction.CreateElement("ram:IncludedSupplyChainTradeLineItem")

	lineDoc := item.CreateElement("ram:AssociatedDocumentLineDocument")
	lineDoc.CreateElement("ram:LineID").SetText(line.LineID)

	product := item.CreateElement("ram:SpecifiedTradeProduct")
	if policy.SellerAssignedID {
		product.CreateElement("ram:SellerAssignedID").SetText(line.Product.SellerAssignedID)
	}
	product.CreateElement("ram:Name").SetText(line.Product.Name)

	agreement := item.CreateElement("ram:SpecifiedLineTradeAgreement")
	netPrice := agreement.CreateElement("ram:NetPriceProductTradePrice")
	netPrice.CreateElement("ram:ChargeAmount").SetText(money.Format(line.NetPrice))

	delivery := item.CreateElement("ram:SpecifiedLineTradeDelivery")
	quantity := delivery.CreateElement("ram:BilledQuantity")
	quantity.SetText(line.BilledQuantity.String())
	quantity.CreateAttr("unitCode", unitCodeOne)

	settlement := item.CreateElement("ram:SpecifiedLineTradeSettlement")
	appendTradeTax(settlement, &line.Tax)
	summation := settlement.CreateElement("ram:SpecifiedTradeSettlementLineMonetarySummation")
	summation.CreateElement("ram:LineTotalAmount").SetText(money.Format(line.LineTotal))
}

func appendTradeParty(agreement *etree.Element, tag string, party *model.TradeParty, policy profile.Policy) {
	elem := agreement.CreateElement(tag)

	name := party.Name
	if name == "" {
		name = "Unknown"
	}
	elem.CreateElement("ram:Name").SetText(name)

	if policy.TradeContact && party.Contact != nil {
		appendTradeContact(elem, party.Contact)
	}

	if party.Address != nil {
		address := elem.CreateElement("ram:PostalTradeAddress")
		if party.Address.Postcode != "" {
			address.CreateElement("ram:PostcodeCode").SetText(party.Address.Postcode)
		}
		if party.Address.LineOne != "" {
			address.CreateElement("ram:LineOne").SetText(party.Address.LineOne)
		}
		if party.Address.City != "" {
			address.CreateElement("ram:CityName").SetText(party.Address.City)
		}
		address.CreateElement("ram:CountryID").SetText(party.Address.CountryID)
	}

	if party.TaxRegistration != nil && party.TaxRegistration.ID != "" {
		registration := elem.CreateElement("ram:SpecifiedTaxRegistration")
		id := registration.CreateElement("ram:ID")
		id.SetText(party.TaxRegistration.ID)
		id.CreateAttr("schemeID", taxSchemeVAT)
	}
}

func appendTradeContact(party *etree.Element, contact *model.TradeContact) {
	elem := party.CreateElement("ram:DefinedTradeContact")
	elem.CreateElement("ram:PersonName").SetText(contact.PersonName)
	elem.CreateElement("ram:DepartmentName").SetText(contact.Department)
	phone := elem.CreateElement("ram:TelephoneUniversalCommunication")
	phone.CreateElement("ram:CompleteNumber").SetText(contact.Phone)
	email := elem.CreateElement("ram:EmailURIUniversalCommunication")
	email.CreateElement("ram:URIID").SetText(contact.Email)
}

func appendSettlement(transaction *etree.Element, settlement *model.TradeSettlement, policy profile.Policy) {
	elem := transaction.CreateElement("ram:ApplicableHeaderTradeSettlement")
	elem.CreateElement("ram:InvoiceCurrencyCode").SetText(settlement.CurrencyCode)

	if policy.PaymentMeans && settlement.PaymentMeans != nil {
		appendPaymentMeans(elem, settlement.PaymentMeans)
	}

	if policy.HeaderTaxes {
		for i := range settlement.Taxes {
			appendTradeTax(elem, &settlement.Taxes[i])
		}
	}

	if policy.PaymentTerms && settlement.PaymentTerms != nil {
		appendPaymentTerms(elem, settlement.PaymentTerms)
	}

	if policy.AllowanceCharges {
		for i := range settlement.AllowanceCharges {
			appendAllowanceCharge(elem, &settlement.AllowanceCharges[i])
		}
	}

	appendMonetarySummation(elem, &settlement.Summation, policy)
}

func appendPaymentMeans(settlement *etree.Element, means *model.PaymentMeans) {
	elem := settlement.CreateElement("ram:SpecifiedTradeSettlementPaymentMeans")
	elem.CreateElement("ram:TypeCode").SetText(means.TypeCode)
	account := elem.CreateElement("ram:PayeePartyCreditorFinancialAccount")
	account.CreateElement("ram:IBANID").SetText(means.PayeeAccount.IBAN)
	institution := elem.CreateElement("ram:PayeeSpecifiedCreditorFinancialInstitution")
	institution.CreateElement("ram:BICID").SetText(means.PayeeInstitution.BIC)
}

func appendPaymentTerms(settlement *etree.Element, terms *model.PaymentTerms) {
	elem := settlement.CreateElement("ram:SpecifiedTradePaymentTerms")
	elem.CreateElement("ram:Description").SetText(terms.Description)
	due := elem.CreateElement("ram:DueDateDateTime")
	text := ""
	if !terms.DueDate.IsZero() {
		text = terms.DueDate.Format(dateLayout)
	}
	appendDateTimeString(due, text)
}

func appendTradeTax(parent *etree.Element, tax *model.TradeTax) {
	elem := parent.CreateElement("ram:ApplicableTradeTax")
	if tax.CalculatedAmount != nil {
		elem.CreateElement("ram:CalculatedAmount").SetText(money.Format(*tax.CalculatedAmount))
	}
	elem.CreateElement("ram:TypeCode").SetText(tax.TypeCode)
	if tax.BasisAmount != nil {
		elem.CreateElement("ram:BasisAmount").SetText(money.Format(*tax.BasisAmount))
	}
	elem.CreateElement("ram:CategoryCode").SetText(tax.CategoryCode)
	elem.CreateElement("ram:RateApplicablePercent").SetText(money.Rate(tax.RatePercent))
}

func appendAllowanceCharge(settlement *etree.Element, ac *model.AllowanceCharge) {
	elem := settlement.CreateElement("ram:SpecifiedTradeAllowanceCharge")
	indicator := elem.CreateElement("ram:ChargeIndicator")
	text := "false"
	if ac.ChargeIndicator {
		text = "true"
	}
	indicator.CreateElement("udt:Indicator").SetText(text)
	elem.CreateElement("ram:ActualAmount").SetText(money.Format(ac.ActualAmount))
	elem.CreateElement("ram:Reason").SetText(ac.Reason)
}

func appendMonetarySummation(settlement *etree.Element, sum *model.MonetarySummation, policy profile.Policy) {
	elem := settlement.CreateElement("ram:SpecifiedTradeSettlementHeaderMonetarySummation")

	if policy.SummationLineTotal {
		elem.CreateElement("ram:LineTotalAmount").SetText(money.Format(sum.LineTotal))
	}
	if policy.SummationChargeAllowance {
		elem.CreateElement("ram:ChargeTotalAmount").SetText(money.Format(sum.ChargeTotal))
		elem.CreateElement("ram:AllowanceTotalAmount").SetText(money.Format(sum.AllowanceTotal))
	}

	elem.CreateElement("ram:TaxBasisTotalAmount").SetText(money.Format(sum.TaxBasisTotal))
	elem.CreateElement("ram:TaxTotalAmount").SetText(money.Format(sum.TaxTotal))
	elem.CreateElement("ram:GrandTotalAmount").SetText(money.Format(sum.GrandTotal))
	elem.CreateElement("ram:DuePayableAmount").SetText(money.Format(sum.DuePayable))
}

func appendDateTimeString(parent *etree.Element, value string) {
	dateTime := parent.CreateElement("udt:DateTimeString")
	dateTime.SetText(value)
	dateTime.CreateAttr("format", dateFormatCode)
}
