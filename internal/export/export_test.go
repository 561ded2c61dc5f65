package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"punto-express/internal/models"

	"github.com/xuri/excelize/v2"
)

func sampleRecords() []models.DailyRecord {
	return []models.DailyRecord{
		{Week: "Semana 38", Date: "2025-09-16", Machine: "Norte", Day: "Martes", Sales: 25000, Expenses: 4000},
		{Week: "Semana 38", Date: "2025-09-15", Machine: "Buses, Centro", Day: "Lunes", Sales: 12000, Expenses: 0},
	}
}

func TestMoneyAndPercent(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{Money(0), "$0"},
		{Money(1234567), "$1,234,567"},
		{Money(-50000), "-$50,000"},
		{Percent(12.5), "+12.50%"},
		{Percent(-30), "-30.00%"},
		{Percent(0), "+0.00%"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, tt.got)
		}
	}

	if Round2(0.125) != 0.12 {
		t.Errorf("expected half-even 0.12, got %v", Round2(0.125))
	}
	if Round2(33.3333) != 33.33 {
		t.Errorf("expected 33.33, got %v", Round2(33.3333))
	}
}

func TestRecordsCSV(t *testing.T) {
	data, err := RecordsCSV(sampleRecords())
	if err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("CSV should parse back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "semana" || rows[0][5] != "egresos" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[2][2] != "Buses, Centro" || rows[1][4] != "25000" {
		t.Errorf("unexpected rows %v", rows[1:])
	}
}

func TestRecordsCSV_Empty(t *testing.T) {
	data, err := RecordsCSV(nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "semana,fecha,maquina,dia,ventas,egresos\n" {
		t.Errorf("expected header only, got %q", data)
	}
}

func TestXLSX(t *testing.T) {
	data, err := XLSX(
		Table{Sheet: "Semana_38", Headers: RecordHeaders, Rows: RecordRows(sampleRecords())},
		Table{Sheet: "Resumen", Headers: []string{"Métrica", "Valor"}, Rows: [][]any{{"Total Ventas", "$37,000"}}},
	)
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("XLSX should open: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 2 || sheets[0] != "Semana_38" || sheets[1] != "Resumen" {
		t.Errorf("unexpected sheets %v", sheets)
	}

	rows, err := f.GetRows("Semana_38")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[1][2] != "Norte" || rows[1][4] != "25000" {
		t.Errorf("unexpected data row %v", rows[1])
	}

	summary, _ := f.GetRows("Resumen")
	if len(summary) != 2 || summary[1][1] != "$37,000" {
		t.Errorf("unexpected summary rows %v", summary)
	}
}

func TestXLSX_NoTables(t *testing.T) {
	if _, err := XLSX(); err == nil {
		t.Error("expected error without tables")
	}
}

func TestSummaryPDF(t *testing.T) {
	data, err := SummaryPDF(Summary{
		Title:    "Punto Express - Resumen Ejecutivo",
		Subtitle: "Semana 38",
		Metrics: []Metric{
			{Label: "Total Ventas", Value: Money(150000)},
			{Label: "Variación semanal", Value: Percent(-12.5)},
		},
		Notes:     []string{"🔴 Norte cayó 40% respecto a la semana anterior."},
		Generated: time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("expected a PDF document, got prefix %q", data[:min(len(data), 8)])
	}
}

func TestLatin1StripsEmoji(t *testing.T) {
	if got := latin1("🟢 Norte subió 25%"); got != "Norte subió 25%" {
		t.Errorf("unexpected %q", got)
	}
}
