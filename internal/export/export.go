// Package export arma archivos CSV, XLSX y PDF a partir de datos ya calculados.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"

	"punto-express/internal/models"

	"github.com/dustin/go-humanize"
	"github.com/xuri/excelize/v2"
)

const (
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeCSV  = "text/csv; charset=utf-8"
	MimePDF  = "application/pdf"
)

// Table es una hoja: encabezados y filas.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]any
}

// Money formatea pesos como "$1,234,567".
func Money(v int64) string {
	if v < 0 {
		return "-$" + humanize.Comma(-v)
	}
	return "$" + humanize.Comma(v)
}

// Percent formatea con signo y dos decimales: "+12.50%".
func Percent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// Round2 redondea a dos decimales, mitad al par.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// RecordHeaders son las columnas de las exportaciones de registros.
var RecordHeaders = []string{"semana", "fecha", "maquina", "dia", "ventas", "egresos"}

func RecordRows(records []models.DailyRecord) [][]any {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{r.Week, r.Date, r.Machine, r.Day, r.Sales, r.Expenses})
	}
	return rows
}

// RecordsCSV: historial completo en CSV UTF-8 con encabezado.
func RecordsCSV(records []models.DailyRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(RecordHeaders); err != nil {
		return nil, err
	}
	for _, r := range records {
		row := []string{
			r.Week, r.Date, r.Machine, r.Day,
			strconv.FormatInt(r.Sales, 10),
			strconv.FormatInt(r.Expenses, 10),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// XLSX escribe una hoja por tabla, con encabezado en negrita.
func XLSX(tables ...Table) ([]byte, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("no hay hojas para exportar")
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", t.Sheet); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(t.Sheet); err != nil {
			return nil, err
		}

		for col, h := range t.Headers {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(t.Sheet, cell, h); err != nil {
				return nil, err
			}
		}
		if len(t.Headers) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(t.Headers), 1)
			if err := f.SetCellStyle(t.Sheet, "A1", last, bold); err != nil {
				return nil, err
			}
		}

		for r, row := range t.Rows {
			for col, v := range row {
				cell, err := excelize.CoordinatesToCellName(col+1, r+2)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(t.Sheet, cell, v); err != nil {
					return nil, err
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("no se pudo generar el XLSX: %w", err)
	}
	return buf.Bytes(), nil
}
