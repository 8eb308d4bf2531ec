package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/analysis"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/importer"
)

const sampleCSV = "Kode Produk,Nama Produk,Kategori,Stok Sistem,Stok Aktual,Unit Cost,Min Stock,Max Stock,Lead Time,Avg Demand\n" +
	"PRD001,Sabun,Toiletries,30,8,1500,15,50,7,6\n" +
	"PRD002,Gula,Sembako,100,110,14000,15,70,7,6\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func newRunner(t *testing.T, cfg Config) *Runner {
	t.Helper()
	engine, err := analysis.NewEngine(analysis.DefaultParams())
	require.NoError(t, err)

	r := NewRunner(engine, cfg)
	r.now = func() time.Time { return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC) }
	return r
}

func TestRunner_Run(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "exports")

	good := writeFile(t, in, "gudang-a.csv", sampleCSV)
	broken := writeFile(t, in, "gudang-b.xlsx", "not a workbook")
	partial := writeFile(t, in, "gudang-c.csv", sampleCSV+"PRD003,Teh,Minuman,x,1,1,1,1,1,1\n")

	r := newRunner(t, Config{WorkerCount: 2, ExportDir: out})
	reports, err := r.Run(context.Background(), []string{good, broken, partial})
	require.NoError(t, err)
	require.Len(t, reports, 3)

	assert.Equal(t, good, reports[0].Path)
	assert.NoError(t, reports[0].Err)
	assert.Equal(t, 2, reports[0].Result.Summary.TotalProducts)
	assert.Equal(t, filepath.Join(out, "gudang-a_Stock_Opname_Analysis_2024-06-01.xlsx"), reports[0].ExportPath)
	assert.FileExists(t, reports[0].ExportPath)

	assert.ErrorIs(t, reports[1].Err, importer.ErrUnreadableFile)
	assert.Empty(t, reports[1].ExportPath)

	assert.NoError(t, reports[2].Err)
	assert.Len(t, reports[2].RowErrors, 1)
	assert.Equal(t, 2, reports[2].Result.Summary.TotalProducts)
	assert.FileExists(t, reports[2].ExportPath)
}

func TestRunner_NoExport(t *testing.T) {
	file := writeFile(t, t.TempDir(), "a.csv", sampleCSV)

	r := newRunner(t, Config{})
	assert.Equal(t, 1, r.cfg.WorkerCount)

	reports, err := r.Run(context.Background(), []string{file})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Empty(t, reports[0].ExportPath)
	assert.Len(t, reports[0].Result.Urgency, 2)
}

func TestRunner_Empty(t *testing.T) {
	r := newRunner(t, DefaultConfig())

	reports, err := r.Run(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, reports)
}
