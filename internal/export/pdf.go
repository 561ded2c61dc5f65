package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

type Metric struct {
	Label string
	Value string
}

// Summary es el resumen ejecutivo de una semana.
type Summary struct {
	Title     string
	Subtitle  string
	Metrics   []Metric
	Notes     []string
	Generated time.Time
}

// latin1 quita lo que las fuentes base no pueden dibujar (emojis, símbolos).
func latin1(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r <= 0xFF {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// SummaryPDF: tabla de métricas y, si hay, observaciones.
func SummaryPDF(s Summary) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(v string) string { return tr(latin1(v)) }

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 16)
		pdf.SetTextColor(40, 40, 40)
		pdf.CellFormat(0, 10, text(s.Title), "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, 10, text(s.Subtitle), "", 1, "C", false, 0, "")
		pdf.Ln(10)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 10, text("Generado el "+s.Generated.Format("2006-01-02")), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "", 11)
	for _, m := range s.Metrics {
		pdf.CellFormat(60, 10, text(m.Label), "1", 0, "", false, 0, "")
		pdf.CellFormat(120, 10, text(m.Value), "1", 1, "", false, 0, "")
	}

	if len(s.Notes) > 0 {
		pdf.Ln(10)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 10, "Observaciones:", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		for _, n := range s.Notes {
			pdf.MultiCell(0, 10, text("- "+n), "", "", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("no se pudo generar el PDF: %w", err)
	}
	return buf.Bytes(), nil
}
