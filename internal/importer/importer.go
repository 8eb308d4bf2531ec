package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
	"github.com/andresuchdata/stock-opname-dss/backend-go/pkg/validation"
)

// ErrUnreadableFile is returned when the upload cannot be opened as a workbook or CSV.
var ErrUnreadableFile = errors.New("unreadable import file")

// RowError describes a rejected data row. Row is the 1-based spreadsheet row number.
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d, %s: %s", e.Row, e.Column, e.Message)
}

// Result holds the accepted products, in file order, and the rejected rows.
type Result struct {
	Products []domain.Product `json:"products"`
	Errors   []RowError       `json:"errors"`
}

type field int

const (
	fieldCode field = iota
	fieldName
	fieldCategory
	fieldSystemStock
	fieldActualStock
	fieldUnitCost
	fieldMinStock
	fieldMaxStock
	fieldLeadTime
	fieldAvgDemand
)

// Headers are the canonical column labels, used by the import template and the export.
var Headers = []string{
	"Kode Produk", "Nama Produk", "Kategori", "Stok Sistem", "Stok Aktual",
	"Unit Cost", "Min Stock", "Max Stock", "Lead Time", "Avg Demand",
}

var columnAliases = map[string]field{
	"kodeproduk":     fieldCode,
	"productcode":    fieldCode,
	"code":           fieldCode,
	"namaproduk":     fieldName,
	"productname":    fieldName,
	"name":           fieldName,
	"kategori":       fieldCategory,
	"category":       fieldCategory,
	"stoksistem":     fieldSystemStock,
	"systemstock":    fieldSystemStock,
	"stokaktual":     fieldActualStock,
	"actualstock":    fieldActualStock,
	"unitcost":       fieldUnitCost,
	"hargasatuan":    fieldUnitCost,
	"minstock":       fieldMinStock,
	"stokminimum":    fieldMinStock,
	"maxstock":       fieldMaxStock,
	"stokmaksimum":   fieldMaxStock,
	"leadtime":       fieldLeadTime,
	"leadtimedays":   fieldLeadTime,
	"avgdemand":      fieldAvgDemand,
	"avgdailydemand": fieldAvgDemand,
}

// Defaults for blank or missing numeric cells.
const (
	defaultMinStock  = 1
	defaultMaxStock  = 10
	defaultLeadTime  = 1
	defaultAvgDemand = 1
)

// ParseFile reads an .xlsx or .csv file from disk.
func ParseFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrUnreadableFile, path, err)
	}
	return Parse(bytes.NewReader(data), filepath.Base(path))
}

// Parse dispatches on the file extension of filename.
func Parse(r io.Reader, filename string) (Result, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ParseXLSX(r)
	case ".csv":
		return ParseCSV(r)
	default:
		return Result{}, fmt.Errorf("%w: unsupported extension %q", ErrUnreadableFile, filepath.Ext(filename))
	}
}

// ParseXLSX reads the first sheet of a workbook.
func ParseXLSX(r io.Reader) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableFile)
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return Result{}, fmt.Errorf("%w: failed to read rows from sheet %s: %v", ErrUnreadableFile, sheets[0], err)
	}
	defer rows.Close()

	var records [][]string
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
		}
		records = append(records, record)
	}
	if err := rows.Error(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}

	return parseRecords(records), nil
}

// ParseCSV reads comma-separated rows with a header line.
func ParseCSV(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	return parseRecords(records), nil
}

func parseRecords(records [][]string) Result {
	res := Result{Products: []domain.Product{}, Errors: []RowError{}}
	if len(records) == 0 {
		return res
	}

	columns := mapColumns(records[0])

	for i, record := range records[1:] {
		rowNum := i + 2
		if isBlank(record) {
			continue
		}

		p, rowErr := parseRow(record, columns, rowNum, len(res.Products)+1)
		if rowErr != nil {
			res.Errors = append(res.Errors, *rowErr)
			continue
		}
		res.Products = append(res.Products, p)
	}

	return res
}

// mapColumns lists, per field, every column carrying one of its labels in header
// order. A later column is read when the earlier ones are blank or zero, so a
// legacy "Harga Satuan" backs up an empty "Unit Cost".
func mapColumns(header []string) map[field][]int {
	columns := make(map[field][]int)
	for i, label := range header {
		f, ok := columnAliases[compact(label)]
		if !ok {
			continue
		}
		columns[f] = append(columns[f], i)
	}
	return columns
}

type cellReader struct {
	record  []string
	columns map[field][]int
	rowNum  int
	err     *RowError
}

func (c *cellReader) cell(idx int) string {
	if idx >= len(c.record) {
		return ""
	}
	return strings.TrimSpace(c.record[idx])
}

func (c *cellReader) text(f field) string {
	for _, idx := range c.columns[f] {
		if v := c.cell(idx); v != "" {
			return v
		}
	}
	return ""
}

func (c *cellReader) number(f field, def float64) float64 {
	if c.err != nil {
		return def
	}

	for _, idx := range c.columns[f] {
		raw := c.cell(idx)
		if raw == "" {
			continue
		}

		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			c.err = &RowError{Row: c.rowNum, Column: Headers[f], Message: fmt.Sprintf("%q is not a number", raw)}
			return def
		}
		if v != 0 {
			return v
		}
	}
	return def
}

func (c *cellReader) integer(f field, def int) int {
	return int(math.Round(c.number(f, float64(def))))
}

func parseRow(record []string, columns map[field][]int, rowNum, seq int) (domain.Product, *RowError) {
	c := &cellReader{record: record, columns: columns, rowNum: rowNum}

	p := domain.Product{
		Code:        c.text(fieldCode),
		Name:        c.text(fieldName),
		Category:    c.text(fieldCategory),
		SystemStock: c.integer(fieldSystemStock, 0),
		ActualStock: c.integer(fieldActualStock, 0),
		UnitCost:    c.number(fieldUnitCost, 0),
		MinStock:    c.integer(fieldMinStock, defaultMinStock),
		MaxStock:    c.integer(fieldMaxStock, defaultMaxStock),
		LeadTime:    c.integer(fieldLeadTime, defaultLeadTime),
		AvgDemand:   c.number(fieldAvgDemand, defaultAvgDemand),
	}
	if c.err != nil {
		return domain.Product{}, c.err
	}

	if p.Code == "" {
		p.Code = fmt.Sprintf("PRD%03d", seq)
	}

	details, err := validation.Struct(p)
	if err != nil {
		return domain.Product{}, &RowError{Row: rowNum, Message: err.Error()}
	}
	if len(details) > 0 {
		fields := make([]string, 0, len(details))
		for name := range details {
			fields = append(fields, name)
		}
		sort.Strings(fields)
		return domain.Product{}, &RowError{Row: rowNum, Column: fields[0], Message: details[fields[0]]}
	}

	return p, nil
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func compact(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	return strings.NewReplacer(" ", "", "_", "", "-", "", "(", "", ")", "").Replace(label)
}
