package server

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rezonia/facturx/internal/builder"
	"github.com/rezonia/facturx/internal/model"
)

// InvoiceRequest is the JSON payload for the xml and generate endpoints.
type InvoiceRequest struct {
	Profile string        `json:"profile" binding:"required"`
	Invoice RecordPayload `json:"invoice" binding:"required"`
}

// RecordPayload mirrors the business-record shape accepted over HTTP.
type RecordPayload struct {
	InvoiceID          string                   `json:"invoice_id"`
	IssueDate          *time.Time               `json:"issue_date,omitempty"`
	Seller             PartyPayload             `json:"seller"`
	Buyer              PartyPayload             `json:"buyer"`
	Currency           string                   `json:"currency,omitempty"`
	Lines              []LinePayload            `json:"lines,omitempty"`
	PaymentDescription string                   `json:"payment_description,omitempty"`
	DueDate            *time.Time               `json:"due_date,omitempty"`
	PaymentMeans       *model.PaymentMeans      `json:"payment_means,omitempty"`
	Totals             *model.MonetarySummation `json:"totals,omitempty"`
}

// PartyPayload is one party of the invoice.
type PartyPayload struct {
	Name     string              `json:"name"`
	Street   string              `json:"street,omitempty"`
	Postcode string              `json:"postcode,omitempty"`
	City     string              `json:"city,omitempty"`
	Country  string              `json:"country,omitempty"`
	VATID    string              `json:"vat_id,omitempty"`
	Contact  *model.TradeContact `json:"contact,omitempty"`
}

// LinePayload is one billed line.
type LinePayload struct {
	ID          string          `json:"id,omitempty"`
	ProductID   string          `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    decimal.Decimal `json:"quantity"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxCategory string          `json:"tax_category,omitempty"`
	Total       decimal.Decimal `json:"total,omitempty"`
}

func (r RecordPayload) toRecord() builder.Record {
	rec := builder.Record{
		InvoiceID:          r.InvoiceID,
		Seller:             r.Seller.toRecord(),
		Buyer:              r.Buyer.toRecord(),
		CurrencyCode:       r.Currency,
		PaymentDescription: r.PaymentDescription,
		PaymentMeans:       r.PaymentMeans,
		Totals:             r.Totals,
	}
	if r.IssueDate != nil {
		rec.IssueDate = *r.IssueDate
	}
	if r.DueDate != nil {
		rec.DueDate = *r.DueDate
	}
	for _, line := range r.Lines {
		rec.Lines = append(rec.Lines, builder.LineRecord{
			ID:          line.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			TaxRate:     line.TaxRate,
			TaxCategory: line.TaxCategory,
			Total:       line.Total,
		})
	}
	return rec
}

func (p PartyPayload) toRecord() builder.PartyRecord {
	return builder.PartyRecord{
		Name:     p.Name,
		Street:   p.Street,
		Postcode: p.Postcode,
		City:     p.City,
		Country:  p.Country,
		VATID:    p.VATID,
		Contact:  p.Contact,
	}
}

// InfoResponse is the response for the info endpoint
type InfoResponse struct {
	Size             int      `json:"size"`
	Attachments      []string `json:"attachments,omitempty"`
	SignaturePresent bool     `json:"signature_present"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
