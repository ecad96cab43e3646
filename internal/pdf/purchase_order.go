// Package pdf renders purchase order documents.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"indentflow/internal/config"
	"indentflow/internal/domain"
)

const (
	pageMargin = 12.0
	lineHeight = 6.0
)

// column widths of the line table, in mm; they sum to the printable A4 width.
var lineColumns = []struct {
	title string
	width float64
	align string
}{
	{"#", 8, "C"},
	{"Indent", 24, "L"},
	{"Item", 64, "L"},
	{"Qty", 20, "R"},
	{"UOM", 16, "C"},
	{"Rate", 25, "R"},
	{"Amount", 29, "R"},
}

// Renderer draws A4 purchase orders with the company block from config.
type Renderer struct {
	cfg *config.POConfig
}

// NewRenderer creates a Renderer.
func NewRenderer(cfg *config.POConfig) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render returns the PDF bytes of po. po.Lines must be populated.
func (r *Renderer) Render(po *domain.PurchaseOrder) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	doc.SetTitle(po.PONumber, true)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	r.header(doc, tr, po)
	vendorBlock(doc, tr, po)
	lineTable(doc, tr, po)
	totals(doc, po)
	terms(doc, tr, po)

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("pdf: rendering %s: %w", po.PONumber, err)
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: writing %s: %w", po.PONumber, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) header(doc *fpdf.Fpdf, tr func(string) string, po *domain.PurchaseOrder) {
	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 9, tr(r.cfg.CompanyName), "", 1, "C", false, 0, "")
	if r.cfg.CompanyAddress != "" {
		doc.SetFont("Helvetica", "", 9)
		doc.MultiCell(0, 4.5, tr(r.cfg.CompanyAddress), "", "C", false)
	}
	doc.Ln(3)

	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 8, "PURCHASE ORDER", "TB", 1, "C", false, 0, "")
	doc.Ln(2)

	doc.SetFont("Helvetica", "", 10)
	half := (210 - 2*pageMargin) / 2
	doc.CellFormat(half, lineHeight, "PO No: "+po.PONumber, "", 0, "L", false, 0, "")
	doc.CellFormat(half, lineHeight, "Date: "+po.CreatedAt.Format("02-01-2006"), "", 1, "R", false, 0, "")
	doc.CellFormat(half, lineHeight, tr("Firm: "+po.FirmName), "", 0, "L", false, 0, "")
	delivery := ""
	if po.DeliveryDate != nil {
		delivery = "Delivery by: " + po.DeliveryDate.Format("02-01-2006")
	}
	doc.CellFormat(half, lineHeight, delivery, "", 1, "R", false, 0, "")
	if po.QuotationNumber != "" {
		q := "Quotation: " + po.QuotationNumber
		if po.QuotationDate != nil {
			q += " dated " + po.QuotationDate.Format("02-01-2006")
		}
		doc.CellFormat(0, lineHeight, tr(q), "", 1, "L", false, 0, "")
	}
	doc.Ln(3)
}

func vendorBlock(doc *fpdf.Fpdf, tr func(string) string, po *domain.PurchaseOrder) {
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(0, lineHeight, "To", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	lines := []string{po.VendorName}
	if po.VendorAddress != "" {
		lines = append(lines, po.VendorAddress)
	}
	if po.VendorGSTIN != "" {
		lines = append(lines, "GSTIN: "+po.VendorGSTIN)
	}
	if po.VendorEmail != "" {
		lines = append(lines, po.VendorEmail)
	}
	doc.MultiCell(0, 5, tr(strings.Join(lines, "\n")), "", "L", false)
	doc.Ln(4)
}

func lineTable(doc *fpdf.Fpdf, tr func(string) string, po *domain.PurchaseOrder) {
	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(217, 225, 242)
	for _, c := range lineColumns {
		doc.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	for i := range po.Lines {
		l := &po.Lines[i]
		item := l.ProductName
		if l.Specifications != "" {
			item += " (" + l.Specifications + ")"
		}
		values := []string{
			fmt.Sprintf("%d", i+1),
			l.IndentNumber,
			truncate(doc, tr(item), lineColumns[2].width),
			l.Quantity.String(),
			tr(l.UOM),
			l.Rate.StringFixed(2),
			l.Amount.StringFixed(2),
		}
		for j, c := range lineColumns {
			doc.CellFormat(c.width, lineHeight, values[j], "1", 0, c.align, false, 0, "")
		}
		doc.Ln(-1)
	}
	doc.Ln(2)
}

func totals(doc *fpdf.Fpdf, po *domain.PurchaseOrder) {
	labelWidth := 0.0
	for _, c := range lineColumns[:len(lineColumns)-1] {
		labelWidth += c.width
	}
	amountWidth := lineColumns[len(lineColumns)-1].width

	rows := []struct {
		label string
		value string
		bold  bool
	}{
		{"Subtotal", po.Subtotal.StringFixed(2), false},
		{fmt.Sprintf("GST @ %s%%", po.GSTPercent.String()), po.GSTAmount.StringFixed(2), false},
		{"Total", po.Total.StringFixed(2), true},
	}
	for _, row := range rows {
		style := ""
		if row.bold {
			style = "B"
		}
		doc.SetFont("Helvetica", style, 10)
		doc.CellFormat(labelWidth, lineHeight, row.label, "", 0, "R", false, 0, "")
		doc.CellFormat(amountWidth, lineHeight, row.value, "1", 1, "R", false, 0, "")
	}
	doc.Ln(4)
}

func terms(doc *fpdf.Fpdf, tr func(string) string, po *domain.PurchaseOrder) {
	if po.PaymentTerms == "" && len(po.Terms) == 0 {
		return
	}
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(0, lineHeight, "Terms and Conditions", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	n := 1
	if po.PaymentTerms != "" {
		doc.MultiCell(0, 5, tr(fmt.Sprintf("%d. Payment: %s", n, po.PaymentTerms)), "", "L", false)
		n++
	}
	for _, t := range po.Terms {
		doc.MultiCell(0, 5, tr(fmt.Sprintf("%d. %s", n, t)), "", "L", false)
		n++
	}
}

// truncate shortens s with an ellipsis so it fits a cell of width mm.
func truncate(doc *fpdf.Fpdf, s string, width float64) string {
	limit := width - 2
	if doc.GetStringWidth(s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && doc.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
