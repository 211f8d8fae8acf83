package receipt

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"time"

	"vivero-api/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/scan/7",
		ScanURL("http://localhost:8080", 7, ""))
	assert.Equal(t, "http://localhost:8080/scan/7?cuidados=Riego+diario",
		ScanURL("http://localhost:8080", 7, "Riego diario"))
}

func TestScanURLEscapesCareNotes(t *testing.T) {
	got := ScanURL("http://localhost:8080", 3, "50% sol + agua")
	assert.Equal(t, "http://localhost:8080/scan/3?cuidados=50%25+sol+%2B+agua", got)

	parsed, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "50% sol + agua", parsed.Query().Get("cuidados"))

	// Accented notes survive the roundtrip too
	parsed, err = url.Parse(ScanURL("http://localhost:8080", 3, "Riego cada dos días"))
	require.NoError(t, err)
	assert.Equal(t, "Riego cada dos días", parsed.Query().Get("cuidados"))
}

func TestFormatCLP(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "$0"},
		{999, "$999"},
		{1000, "$1.000"},
		{12500, "$12.500"},
		{1234567, "$1.234.567"},
		{-4990, "-$4.990"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatCLP(decimal.NewFromInt(tc.amount)))
	}
}

func TestQRDataURL(t *testing.T) {
	url, err := QRDataURL("http://localhost:8080/scan/1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
}

func TestBuildPDF(t *testing.T) {
	sale := &models.Sale{
		Quantity:  2,
		UnitPrice: decimal.NewFromInt(4990),
		Total:     decimal.NewFromInt(9980),
		SoldAt:    time.Date(2025, 6, 2, 15, 0, 0, 0, time.Local),
	}
	product := &models.Product{ID: 12, Name: "Jazmín"}

	qrPNG, err := QRPNG(ScanURL("http://localhost:8080", product.ID, "Sol directo"))
	require.NoError(t, err)

	pdfBytes, err := BuildPDF(sale, product, "Sol directo", qrPNG)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
}

func TestBuildDailyProfitPDF(t *testing.T) {
	rows := []ProfitRow{
		{Date: "2025-06-01", Total: decimal.NewFromInt(15000)},
		{Date: "2025-06-02", Total: decimal.NewFromInt(8200)},
	}
	pdfBytes, err := BuildDailyProfitPDF("Ganancias Mensuales - Junio 2025", rows)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
}

func TestTimestamped(t *testing.T) {
	name := Timestamped("GananciasMensuales", "pdf", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "GananciasMensuales-2026-09.pdf", name)
}
