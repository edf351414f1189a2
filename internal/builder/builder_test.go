package builder_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/facturx/internal/builder"
	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/money"
	"github.com/rezonia/facturx/internal/profile"
)

var testNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestBuilder() *builder.Builder {
	return builder.New(builder.WithClock(clockwork.NewFakeClockAt(testNow)))
}

func sampleRecord() builder.Record {
	return builder.Record{
		InvoiceID: "INV-42",
		Seller: builder.PartyRecord{
			Name:     "Seller GmbH",
			Street:   "Hauptstr. 1",
			Postcode: "10115",
			City:     "Berlin",
			Country:  "DE",
			VATID:    "DE123456789",
		},
		Buyer: builder.PartyRecord{
			Name:    "Buyer SA",
			Country: "FR",
		},
		Lines: []builder.LineRecord{
			{
				ProductID:   "SKU-100",
				ProductName: "Widget",
				UnitPrice:   money.MustFromString("50.00"),
				Quantity:    money.MustFromString("2"),
				TaxRate:     money.MustFromString("19"),
			},
			{
				ProductName: "Gadget",
				UnitPrice:   money.MustFromString("10.00"),
				Quantity:    money.MustFromString("1"),
				TaxRate:     money.MustFromString("7"),
			},
		},
	}
}

func TestBuild(t *testing.T) {
	inv, err := newTestBuilder().Build(sampleRecord())
	require.NoError(t, err)

	require.NotNil(t, inv.Document)
	assert.Equal(t, "INV-42", inv.Document.ID)
	assert.Equal(t, model.CommercialInvoiceTypeCode, inv.Document.TypeCode)
	assert.Equal(t, testNow, inv.Document.IssueDate)

	require.NotNil(t, inv.Transaction)
	assert.Equal(t, "Seller GmbH", inv.Transaction.Agreement.Seller.Name)
	require.NotNil(t, inv.Transaction.Agreement.Seller.Address)
	assert.Equal(t, "DE", inv.Transaction.Agreement.Seller.Address.CountryID)
	require.NotNil(t, inv.Transaction.Agreement.Seller.TaxRegistration)
	assert.Equal(t, "DE123456789", inv.Transaction.Agreement.Seller.TaxRegistration.ID)

	assert.Equal(t, "EUR", inv.Transaction.Settlement.CurrencyCode)
	require.NotNil(t, inv.Transaction.Settlement.PaymentTerms)
	assert.Equal(t, "Payment by bank transfer", inv.Transaction.Settlement.PaymentTerms.Description)
	assert.Equal(t, testNow.AddDate(0, 0, 30), inv.Transaction.Settlement.PaymentTerms.DueDate)
}

func TestBuildLineDefaults(t *testing.T) {
	inv, err := newTestBuilder().Build(sampleRecord())
	require.NoError(t, err)

	require.Len(t, inv.Transaction.LineItems, 2)

	first := inv.Transaction.LineItems[0]
	assert.Equal(t, "1", first.LineID)
	assert.Equal(t, "SKU-100", first.Product.SellerAssignedID)
	assert.Equal(t, "Widget", first.Product.Name)
	assert.Equal(t, "100.00", money.Format(first.LineTotal))
	assert.Equal(t, "VAT", first.Tax.TypeCode)
	assert.Equal(t, "S", first.Tax.CategoryCode)

	second := inv.Transaction.LineItems[1]
	assert.Equal(t, "2", second.LineID)
	assert.Equal(t, "10.00", money.Format(second.LineTotal))
}

func TestBuildDerivedTotals(t *testing.T) {
	inv, err := newTestBuilder().Build(sampleRecord())
	require.NoError(t, err)

	sum := inv.Transaction.Settlement.Summation
	assert.Equal(t, "110.00", money.Format(sum.LineTotal))
	assert.Equal(t, "110.00", money.Format(sum.TaxBasisTotal))
	// 19% of 100.00 plus 7% of 10.00
	assert.Equal(t, "19.70", money.Format(sum.TaxTotal))
	assert.Equal(t, "129.70", money.Format(sum.GrandTotal))
	assert.Equal(t, "129.70", money.Format(sum.DuePayable))

	taxes := inv.Transaction.Settlement.Taxes
	require.Len(t, taxes, 2)
	assert.Equal(t, "19", taxes[0].RatePercent.String())
	require.NotNil(t, taxes[0].BasisAmount)
	assert.Equal(t, "100.00", money.Format(*taxes[0].BasisAmount))
	require.NotNil(t, taxes[0].CalculatedAmount)
	assert.Equal(t, "19.00", money.Format(*taxes[0].CalculatedAmount))
	assert.Equal(t, "7", taxes[1].RatePercent.String())
}

func TestBuildTaxGroupsByRate(t *testing.T) {
	rec := sampleRecord()
	rec.Lines[1].TaxRate = money.MustFromString("19")

	inv, err := newTestBuilder().Build(rec)
	require.NoError(t, err)

	taxes := inv.Transaction.Settlement.Taxes
	require.Len(t, taxes, 1)
	require.NotNil(t, taxes[0].BasisAmount)
	assert.Equal(t, "110.00", money.Format(*taxes[0].BasisAmount))
	require.NotNil(t, taxes[0].CalculatedAmount)
	assert.Equal(t, "20.90", money.Format(*taxes[0].CalculatedAmount))
}

func TestBuildExplicitTotals(t *testing.T) {
	rec := sampleRecord()
	rec.Totals = &model.MonetarySummation{
		LineTotal:     money.MustFromString("110.00"),
		TaxBasisTotal: money.MustFromString("110.00"),
		TaxTotal:      money.MustFromString("20.00"),
		GrandTotal:    money.MustFromString("130.00"),
		DuePayable:    money.MustFromString("130.00"),
	}

	inv, err := newTestBuilder().Build(rec)
	require.NoError(t, err)

	sum := inv.Transaction.Settlement.Summation
	assert.Equal(t, "20.00", money.Format(sum.TaxTotal))
	assert.Equal(t, "130.00", money.Format(sum.GrandTotal))
}

func TestBuildExplicitDates(t *testing.T) {
	rec := sampleRecord()
	rec.IssueDate = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	rec.DueDate = time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	inv, err := newTestBuilder().Build(rec)
	require.NoError(t, err)

	assert.Equal(t, rec.IssueDate, inv.Document.IssueDate)
	assert.Equal(t, rec.DueDate, inv.Transaction.Settlement.PaymentTerms.DueDate)
}

func TestBuildMappingErrors(t *testing.T) {
	b := newTestBuilder()

	rec := sampleRecord()
	rec.InvoiceID = ""
	_, err := b.Build(rec)
	require.Error(t, err)
	var mapping *builder.MappingError
	require.ErrorAs(t, err, &mapping)
	assert.Equal(t, "invoice id", mapping.Field)

	rec = sampleRecord()
	rec.Seller.Name = ""
	_, err = b.Build(rec)
	require.Error(t, err)
	require.ErrorAs(t, err, &mapping)
	assert.Equal(t, "seller name", mapping.Field)
}

func TestBuildForProfile(t *testing.T) {
	b := newTestBuilder()

	inv, p, err := b.BuildForProfile(sampleRecord(), "basic-wl")
	require.NoError(t, err)
	assert.Equal(t, profile.BasicWL, p)
	assert.NotNil(t, inv)

	// Unknown token fails before the record is inspected at all.
	broken := builder.Record{}
	_, _, err = b.BuildForProfile(broken, "FULL")
	require.Error(t, err)
	var unsupported *model.UnsupportedProfileError
	assert.ErrorAs(t, err, &unsupported)
}
