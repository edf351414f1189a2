package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommercialInvoiceTypeCode is the UNTDID 1001 code for a commercial invoice.
const CommercialInvoiceTypeCode = "380"

// Invoice is the root of the invoice document graph. It is built once,
// consumed read-only by the serializer and discarded afterwards.
type Invoice struct {
	Document    *ExchangedDocument `json:"document"`
	Transaction *TradeTransaction  `json:"transaction"`
}

// ExchangedDocument carries the invoice header identity.
type ExchangedDocument struct {
	ID        string    `json:"id"`
	TypeCode  string    `json:"type_code"`
	IssueDate time.Time `json:"issue_date"`
}

// TradeTransaction holds line items, the trade agreement and the settlement.
// LineItems keep their original order; the serializer decides per profile
// whether they appear in the output at all.
type TradeTransaction struct {
	LineItems  []LineItem      `json:"line_items,omitempty"`
	Agreement  TradeAgreement  `json:"agreement"`
	Settlement TradeSettlement `json:"settlement"`
}

// TradeAgreement names the two parties of the transaction.
type TradeAgreement struct {
	Seller TradeParty `json:"seller"`
	Buyer  TradeParty `json:"buyer"`
}

// TradeParty represents seller or buyer.
type TradeParty struct {
	Name            string           `json:"name"`
	Address         *TradeAddress    `json:"address,omitempty"`
	TaxRegistration *TaxRegistration `json:"tax_registration,omitempty"`
	Contact         *TradeContact    `json:"contact,omitempty"`
}

// TradeAddress is a postal address. CountryID is required whenever the
// address is present; the other fields are optional.
type TradeAddress struct {
	Postcode  string `json:"postcode,omitempty"`
	LineOne   string `json:"line_one,omitempty"`
	City      string `json:"city,omitempty"`
	CountryID string `json:"country_id"`
}

// TradeContact is a party contact, emitted at the richest profile only.
type TradeContact struct {
	PersonName string `json:"person_name,omitempty"`
	Department string `json:"department,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
}

// TaxRegistration is a VAT registration identifier.
type TaxRegistration struct {
	ID string `json:"id"`
}

// TradeProduct identifies the billed product or service.
type TradeProduct struct {
	SellerAssignedID string `json:"seller_assigned_id,omitempty"`
	Name             string `json:"name"`
}

// LineItem is one billed entry within the transaction.
type LineItem struct {
	LineID         string          `json:"line_id"`
	Product        TradeProduct    `json:"product"`
	NetPrice       decimal.Decimal `json:"net_price"`
	BilledQuantity decimal.Decimal `json:"billed_quantity"`
	Tax            TradeTax        `json:"tax"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// TradeTax describes one tax breakdown entry. CalculatedAmount and
// BasisAmount are emitted only when set.
type TradeTax struct {
	CalculatedAmount *decimal.Decimal `json:"calculated_amount,omitempty"`
	TypeCode         string           `json:"type_code"`
	BasisAmount      *decimal.Decimal `json:"basis_amount,omitempty"`
	CategoryCode     string           `json:"category_code"`
	RatePercent      decimal.Decimal  `json:"rate_percent"`
}

// AllowanceCharge is a document-level charge (ChargeIndicator true) or
// allowance (false).
type AllowanceCharge struct {
	ChargeIndicator bool            `json:"charge_indicator"`
	ActualAmount    decimal.Decimal `json:"actual_amount"`
	Reason          string          `json:"reason,omitempty"`
}

// PaymentTerms describes how and when the invoice is payable.
type PaymentTerms struct {
	Description string    `json:"description,omitempty"`
	DueDate     time.Time `json:"due_date"`
}

// CreditorFinancialAccount is the payee account.
type CreditorFinancialAccount struct {
	IBAN string `json:"iban"`
}

// CreditorFinancialInstitution is the payee institution.
type CreditorFinancialInstitution struct {
	BIC string `json:"bic"`
}

// PaymentMeans carries payment instructions, richest profile only.
type PaymentMeans struct {
	TypeCode         string                       `json:"type_code"`
	PayeeAccount     CreditorFinancialAccount     `json:"payee_account"`
	PayeeInstitution CreditorFinancialInstitution `json:"payee_institution"`
}

// MonetarySummation aggregates header totals. Which fields appear in the
// output depends on the profile; the values themselves are caller-supplied.
type MonetarySummation struct {
	LineTotal      decimal.Decimal `json:"line_total"`
	ChargeTotal    decimal.Decimal `json:"charge_total"`
	AllowanceTotal decimal.Decimal `json:"allowance_total"`
	TaxBasisTotal  decimal.Decimal `json:"tax_basis_total"`
	TaxTotal       decimal.Decimal `json:"tax_total"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	DuePayable     decimal.Decimal `json:"due_payable"`
}

// TradeSettlement holds currency, payment data, tax breakdown,
// allowances/charges and the monetary summation.
type TradeSettlement struct {
	CurrencyCode     string            `json:"currency_code"`
	PaymentMeans     *PaymentMeans     `json:"payment_means,omitempty"`
	Taxes            []TradeTax        `json:"taxes,omitempty"`
	PaymentTerms     *PaymentTerms     `json:"payment_terms,omitempty"`
	AllowanceCharges []AllowanceCharge `json:"allowance_charges,omitempty"`
	Summation        MonetarySummation `json:"summation"`
}
