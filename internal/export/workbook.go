package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/analysis"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/importer"
)

const (
	DetailSheet   = "Analisis Detail"
	SummarySheet  = "Ringkasan & Rekomendasi"
	TemplateSheet = "Template"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var metricHeaders = []string{
	"Selisih", "Selisih (%)", "Nilai Selisih", "Nilai Inventory",
	"Safety Stock", "Reorder Point", "EOQ", "Status", "Turnover", "Kelas ABC", "Kumulatif (%)",
}

// FileName returns the export file name for the given day.
func FileName(date time.Time) string {
	return fmt.Sprintf("Stock_Opname_Analysis_%s.xlsx", date.Format("2006-01-02"))
}

// Workbook builds the two-sheet analysis report.
func Workbook(result domain.AnalysisResult) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), DetailSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name detail sheet: %w", err)
	}
	if err := writeDetail(f, result.Analysis); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeSummary(f, result.Summary, result.Recommendations); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// Bytes renders the analysis report as an .xlsx payload.
func Bytes(result domain.AnalysisResult) ([]byte, error) {
	f, err := Workbook(result)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return toBytes(f)
}

// Template renders an empty import workbook carrying the recognized headers.
func Template() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), TemplateSheet); err != nil {
		return nil, fmt.Errorf("failed to name template sheet: %w", err)
	}
	if err := setRow(f, TemplateSheet, 1, toCells(importer.Headers)); err != nil {
		return nil, err
	}

	return toBytes(f)
}

func writeDetail(f *excelize.File, items []domain.Analysis) error {
	headers := append(append([]string{}, importer.Headers...), metricHeaders...)
	if err := setRow(f, DetailSheet, 1, toCells(headers)); err != nil {
		return err
	}

	for i, item := range items {
		row := []interface{}{
			item.Code,
			item.Name,
			item.Category,
			item.SystemStock,
			item.ActualStock,
			money(item.UnitCost),
			item.MinStock,
			item.MaxStock,
			item.LeadTime,
			item.AvgDemand,
			item.Variance,
			round(item.VariancePercentage, 2),
			money(item.VarianceValue),
			money(item.InventoryValue),
			item.SafetyStock,
			round(item.ReorderPoint, 2),
			item.EOQ,
			string(item.StockStatus),
			round(item.TurnoverRatio, 2),
			string(item.ABCClass),
			round(item.CumulativePercentage, 2),
		}
		if err := setRow(f, DetailSheet, i+2, row); err != nil {
			return err
		}
	}

	return nil
}

func writeSummary(f *excelize.File, s domain.Summary, recs []domain.Recommendation) error {
	rows := [][]interface{}{
		{"RINGKASAN ANALISIS"},
		{"Total Produk", s.TotalProducts},
		{"Total Nilai Inventory", money(s.TotalInventoryValue)},
		{"Total Nilai Selisih", money(s.TotalVarianceValue)},
		{"Tingkat Akurasi (%)", analysis.FormatPercent(s.AccuracyRate)},
		{"Item Low Stock", s.LowStockItems},
		{"Item Overstock", s.OverstockItems},
		{"Item Perlu Reorder", s.ReorderItems},
		{},
		{"REKOMENDASI TINDAKAN"},
	}
	for _, rec := range recs {
		rows = append(rows, []interface{}{strings.ToUpper(string(rec.Type)), rec.Message})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}

	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", rowNum, sheet, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func toBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// money rounds a currency amount to whole rupiah.
func money(v float64) float64 {
	return round(v, 0)
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
