// Package receipt renders sale receipts ("boletas"): a QR code pointing
// at the public scan page plus an A4 PDF embedding the transaction.
package receipt

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"vivero-api/internal/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

// ScanURL builds the public lookup URL encoded into the QR: the sold
// item's detail page plus the care notes entered at the counter.
func ScanURL(baseURL string, productID uint, careNotes string) string {
	u := fmt.Sprintf("%s/scan/%d", baseURL, productID)
	if careNotes != "" {
		u += "?cuidados=" + url.QueryEscape(careNotes)
	}
	return u
}

// QRPNG renders the payload as a 256x256 PNG.
func QRPNG(payload string) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.Medium, 256)
}

// QRDataURL renders the payload as an inline data URL, the format the
// product records store.
func QRDataURL(payload string) (string, error) {
	png, err := QRPNG(payload)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// FormatCLP formats an amount as Chilean pesos, no decimals, dot as
// thousands separator ($12.500).
func FormatCLP(amount decimal.Decimal) string {
	digits := amount.Round(0).StringFixed(0)
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var b strings.Builder
	for i, ch := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(ch)
	}

	out := "$" + b.String()
	if neg {
		out = "-" + out
	}
	return out
}

// BuildPDF renders the receipt for one sale. The QR PNG is embedded
// when provided.
func BuildPDF(sale *models.Sale, product *models.Product, careNotes string, qrPNG []byte) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Vivero NCJ - Boleta de Venta"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Fecha de emisión: %s", sale.SoldAt.Format("02-01-2006"))))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Boleta N°: 0001-%d", product.ID))
	pdf.Ln(12)

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(55, 8, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, tr(value), "", 1, "L", false, 0, "")
	}

	row("Producto:", product.Name)
	row("Cantidad Vendida:", fmt.Sprintf("%d", sale.Quantity))
	row("Precio Unitario:", FormatCLP(sale.UnitPrice))
	row("Total Venta:", FormatCLP(sale.Total))
	row("Cuidados:", careNotes)
	pdf.Ln(8)

	if len(qrPNG) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("boleta-qr", opts, bytes.NewReader(qrPNG))
		// Centered, 40mm square
		pageW, _ := pdf.GetPageSize()
		pdf.ImageOptions("boleta-qr", (pageW-40)/2, pdf.GetY(), 40, 40, false, opts, 0, "")
		pdf.SetY(pdf.GetY() + 44)
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, tr("Gracias por su compra"))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr("Vivero NCJ - Generado automáticamente"))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildDailyProfitPDF renders the daily profit aggregate table used by
// the report export endpoint.
func BuildDailyProfitPDF(title string, rows []ProfitRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 8, "Fecha", "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 8, "Total Ganancias", "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, r := range rows {
		pdf.CellFormat(60, 8, r.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(60, 8, FormatCLP(r.Total), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ProfitRow is one line of the exported profit tables.
type ProfitRow struct {
	Date  string
	Total decimal.Decimal
}

// Timestamped builds an export filename like GananciasMensuales-2026-09.pdf.
func Timestamped(prefix, ext string, t time.Time) string {
	return fmt.Sprintf("%s-%s.%s", prefix, t.Format("2006-01"), ext)
}
