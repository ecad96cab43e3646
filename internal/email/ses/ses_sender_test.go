package ses

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"indentflow/internal/domain"
)

func TestBuildPurchaseOrderHTML_EscapesFields(t *testing.T) {
	po := &domain.PurchaseOrder{
		PONumber: "PO-0003",
		FirmName: "A & B Traders",
		Total:    decimal.RequireFromString("1770"),
		Lines: []domain.POLine{{
			ProductName: "<script>",
			Quantity:    decimal.NewFromInt(2),
			UOM:         "NOS",
			Amount:      decimal.NewFromInt(1500),
		}},
	}

	body := buildPurchaseOrderHTML("Vendor", po, "https://files.example.com/po.pdf?sig=1&x=2")

	assert.Contains(t, body, "PO-0003")
	assert.Contains(t, body, "1770.00")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "A &amp; B Traders")
	assert.Contains(t, body, "sig=1&amp;x=2")
	assert.NotContains(t, body, "<script>")
}

func TestBuildOverdueText(t *testing.T) {
	items := []domain.OverdueItem{{
		EntityType: domain.EntityIndent,
		Number:     "SI-0009",
		FirmName:   "Acme",
		Stage:      domain.StageApproval,
		PlannedAt:  time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC),
	}}

	text := buildOverdueText(items)

	assert.Contains(t, text, "indent SI-0009 (Acme): approval planned 2026-01-02 08:00")
	assert.Contains(t, buildOverdueHTML(items, "https://app"), "<td>SI-0009</td>")
}
