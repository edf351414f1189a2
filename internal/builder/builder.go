// Package builder maps an external business record onto the invoice
// document graph. It is a pure mapping stage: defaults are applied where
// upstream data is absent, and every profile-conditional decision is left
// to the profile policy and the serializer.
package builder

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/money"
	"github.com/rezonia/facturx/internal/profile"
)

// Default payment term applied when the record carries no due date.
const defaultPaymentTermDays = 30

const defaultPaymentDescription = "Payment by bank transfer"

// MappingError reports a business record field that could not be mapped.
type MappingError struct {
	Field   string
	Message string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("cannot map business record: %s: %s", e.Field, e.Message)
}

// Record is the read-only business-record shape consumed by the builder.
// Its exact layout is owned by the surrounding application; this is the
// subset the document model needs.
type Record struct {
	InvoiceID          string              `json:"invoice_id"`
	IssueDate          time.Time           `json:"issue_date,omitempty"`
	Seller             PartyRecord         `json:"seller"`
	Buyer              PartyRecord         `json:"buyer"`
	CurrencyCode       string              `json:"currency,omitempty"`
	Lines              []LineRecord        `json:"lines,omitempty"`
	PaymentDescription string              `json:"payment_description,omitempty"`
	DueDate            time.Time           `json:"due_date,omitempty"`
	PaymentMeans       *model.PaymentMeans `json:"payment_means,omitempty"`

	// Totals overrides the derived header summation when set.
	Totals *model.MonetarySummation `json:"totals,omitempty"`
}

// PartyRecord describes seller or buyer in the business record.
type PartyRecord struct {
	Name     string              `json:"name"`
	Street   string              `json:"street,omitempty"`
	Postcode string              `json:"postcode,omitempty"`
	City     string              `json:"city,omitempty"`
	Country  string              `json:"country,omitempty"`
	VATID    string              `json:"vat_id,omitempty"`
	Contact  *model.TradeContact `json:"contact,omitempty"`
}

// LineRecord is one billed line in the business record.
type LineRecord struct {
	ID          string          `json:"id,omitempty"`
	ProductID   string          `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    decimal.Decimal `json:"quantity"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxCategory string          `json:"tax_category,omitempty"`
	Total       decimal.Decimal `json:"total,omitempty"`
}

// Builder converts business records into invoice documents. The clock is
// injected so due-date defaults are reproducible.
type Builder struct {
	clock clockwork.Clock
}

// Option configures a Builder
type Option func(*Builder)

// WithClock injects the clock used for default due dates
func WithClock(c clockwork.Clock) Option {
	return func(b *Builder) {
		b.clock = c
	}
}

// New creates a Builder with a real clock unless overridden.
func New(opts ...Option) *Builder {
	b := &Builder{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildForProfile validates the profile token first, so an unknown token
// fails before any document construction, then builds the document and
// hands the resolved profile through untouched.
func (b *Builder) BuildForProfile(rec Record, token string) (*model.Invoice, profile.Profile, error) {
	p, err := profile.Parse(token)
	if err != nil {
		return nil, "", err
	}
	inv, err := b.Build(rec)
	if err != nil {
		return nil, "", err
	}
	return inv, p, nil
}

// Build maps the record onto a complete invoice document, applying
// defaults for absent upstream data.
func (b *Builder) Build(rec Record) (*model.Invoice, error) {
	if rec.InvoiceID == "" {
		return nil, &MappingError{Field: "invoice id", Message: "must not be empty"}
	}
	if rec.Seller.Name == "" {
		return nil, &MappingError{Field: "seller name", Message: "must not be empty"}
	}

	issueDate := rec.IssueDate
	if issueDate.IsZero() {
		issueDate = b.clock.Now()
	}

	dueDate := rec.DueDate
	if dueDate.IsZero() {
		dueDate = b.clock.Now().AddDate(0, 0, defaultPaymentTermDays)
	}

	description := rec.PaymentDescription
	if description == "" {
		description = defaultPaymentDescription
	}

	currency := rec.CurrencyCode
	if currency == "" {
		currency = "EUR"
	}

	lines := buildLines(rec.Lines)
	summation, taxes := deriveTotals(rec, lines)

	return &model.Invoice{
		Document: &model.ExchangedDocument{
			ID:        rec.InvoiceID,
			TypeCode:  model.CommercialInvoiceTypeCode,
			IssueDate: issueDate,
		},
		Transaction: &model.TradeTransaction{
			LineItems: lines,
			Agreement: model.TradeAgreement{
				Seller: buildParty(rec.Seller),
				Buyer:  buildParty(rec.Buyer),
			},
			Settlement: model.TradeSettlement{
				CurrencyCode: currency,
				PaymentMeans: rec.PaymentMeans,
				Taxes:        taxes,
				PaymentTerms: &model.PaymentTerms{
					Description: description,
					DueDate:     dueDate,
				},
				Summation: summation,
			},
		},
	}, nil
}

func buildParty(rec PartyRecord) model.TradeParty {
	party := model.TradeParty{
		Name:    rec.Name,
		Contact: rec.Contact,
	}
	if rec.Country != "" {
		party.Address = &model.TradeAddress{
			Postcode:  rec.Postcode,
			LineOne:   rec.Street,
			City:      rec.City,
			CountryID: rec.Country,
		}
	}
	if rec.VATID != "" {
		party.TaxRegistration = &model.TaxRegistration{ID: rec.VATID}
	}
	return party
}

func buildLines(recs []LineRecord) []model.LineItem {
	lines := make([]model.LineItem, 0, len(recs))
	for i, rec := range recs {
		id := rec.ID
		if id == "" {
			id = fmt.Sprintf("%d", i+1)
		}
		total := rec.Total
		if total.IsZero() {
			total = rec.UnitPrice.Mul(rec.Quantity).Round(2)
		}
		category := rec.TaxCategory
		if category == "" {
			category = "S"
		}
		lines = append(lines, model.LineItem{
			LineID: id,
			Product: model.TradeProduct{
				SellerAssignedID: rec.ProductID,
				Name:             rec.ProductName,
			},
			NetPrice:       rec.UnitPrice,
			BilledQuantity: rec.Quantity,
			Tax: model.TradeTax{
				TypeCode:     "VAT",
				CategoryCode: category,
				RatePercent:  rec.TaxRate,
			},
			LineTotal: total,
		})
	}
	return lines
}

// deriveTotals computes the header summation and tax breakdown from the
// line items unless the caller supplied totals explicitly. Tax entries
// are grouped by rate and category in first-seen order.
func deriveTotals(rec Record, lines []model.LineItem) (model.MonetarySummation, []model.TradeTax) {
	if rec.Totals != nil {
		return *rec.Totals, headerTaxes(lines)
	}

	basis := money.Zero
	for _, line := range lines {
		basis = basis.Add(line.LineTotal)
	}

	taxes := headerTaxes(lines)
	tax := money.Zero
	for _, t := range taxes {
		if t.CalculatedAmount != nil {
			tax = tax.Add(*t.CalculatedAmount)
		}
	}

	grand := basis.Add(tax)
	return model.MonetarySummation{
		LineTotal:     basis,
		TaxBasisTotal: basis,
		TaxTotal:      tax,
		GrandTotal:    grand,
		DuePayable:    grand,
	}, taxes
}

func headerTaxes(lines []model.LineItem) []model.TradeTax {
	type key struct {
		rate     string
		category string
	}

	var order []key
	basis := make(map[key]decimal.Decimal)
	for _, line := range lines {
		k := key{rate: line.Tax.RatePercent.String(), category: line.Tax.CategoryCode}
		if _, seen := basis[k]; !seen {
			order = append(order, k)
		}
		basis[k] = basis[k].Add(line.LineTotal)
	}

	taxes := make([]model.TradeTax, 0, len(order))
	for _, k := range order {
		rate := money.MustFromString(k.rate)
		amount := money.Percentage(basis[k], rate)
		taxes = append(taxes, model.TradeTax{
			CalculatedAmount: money.Ptr(amount),
			TypeCode:         "VAT",
			BasisAmount:      money.Ptr(basis[k]),
			CategoryCode:     k.category,
			RatePercent:      rate,
		})
	}
	return taxes
}
