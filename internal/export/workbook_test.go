package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/analysis"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/importer"
)

func sampleResult(t *testing.T) domain.AnalysisResult {
	t.Helper()

	engine, err := analysis.NewEngine(analysis.DefaultParams())
	require.NoError(t, err)

	return engine.Run([]domain.Product{
		{ID: "1", Code: "PRD001", Name: "Sabun", Category: "Toiletries", SystemStock: 30, ActualStock: 8, UnitCost: 1500, MinStock: 15, MaxStock: 50, LeadTime: 7, AvgDemand: 6},
		{ID: "2", Code: "PRD002", Name: "Gula", Category: "Sembako", SystemStock: 100, ActualStock: 110, UnitCost: 14000, MinStock: 15, MaxStock: 70, LeadTime: 7, AvgDemand: 6},
	})
}

func TestFileName(t *testing.T) {
	date := time.Date(2024, time.March, 5, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "Stock_Opname_Analysis_2024-03-05.xlsx", FileName(date))
}

func TestBytes(t *testing.T) {
	result := sampleResult(t)

	data, err := Bytes(result)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DetailSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(DetailSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Kode Produk", rows[0][0])
	assert.Equal(t, "PRD001", rows[1][0])
	assert.Equal(t, "PRD002", rows[2][0])
	assert.Contains(t, rows[1], "Low Stock")
	assert.Contains(t, rows[2], "Overstock")

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, "RINGKASAN ANALISIS", summary[0][0])
	assert.Equal(t, []string{"Total Produk", "2"}, summary[1])
	assert.Equal(t, "Tingkat Akurasi (%)", summary[4][0])
	assert.Equal(t, "0.00%", summary[4][1])
	assert.Equal(t, "REKOMENDASI TINDAKAN", summary[9][0])

	var types []string
	for _, row := range summary[10:] {
		types = append(types, row[0])
	}
	assert.Contains(t, types, "URGENT")
	assert.Contains(t, types, "WARNING")
	assert.Len(t, types, len(result.Recommendations))
}

func TestTemplate(t *testing.T) {
	data, err := Template()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(TemplateSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, importer.Headers, rows[0])

	res, err := importer.ParseXLSX(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, res.Products)
}
