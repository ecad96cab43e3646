package pdf_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indentflow/internal/config"
	"indentflow/internal/domain"
	"indentflow/internal/pdf"
)

func samplePO() *domain.PurchaseOrder {
	delivery := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	return &domain.PurchaseOrder{
		PONumber:      "PO-0012",
		FirmName:      "Acme Steel",
		VendorName:    "Bharat Bearings",
		VendorAddress: "Plot 4, MIDC\nPune",
		VendorGSTIN:   "27ABCDE1234F1Z5",
		DeliveryDate:  &delivery,
		PaymentTerms:  "30 days",
		Terms:         domain.StringList{"Goods subject to inspection"},
		GSTPercent:    decimal.NewFromInt(18),
		Subtotal:      decimal.RequireFromString("1500"),
		GSTAmount:     decimal.RequireFromString("270"),
		Total:         decimal.RequireFromString("1770"),
		CreatedAt:     time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
		Lines: []domain.POLine{{
			IndentNumber: "SI-0101",
			ProductName:  "Bearing 6204 " + strings.Repeat("with a very long description ", 4),
			Quantity:     decimal.NewFromInt(10),
			UOM:          "NOS",
			Rate:         decimal.NewFromInt(150),
			Amount:       decimal.NewFromInt(1500),
		}},
	}
}

func TestRenderer_Render(t *testing.T) {
	r := pdf.NewRenderer(&config.POConfig{CompanyName: "Acme Group", CompanyAddress: "Nagpur"})

	out, err := r.Render(samplePO())

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderer_NoTermsNoLines(t *testing.T) {
	po := samplePO()
	po.Lines = nil
	po.Terms = nil
	po.PaymentTerms = ""
	po.DeliveryDate = nil

	out, err := pdf.NewRenderer(&config.POConfig{CompanyName: "Acme Group"}).Render(po)

	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
