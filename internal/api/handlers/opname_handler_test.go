package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/analysis"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/api"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/cache"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/export"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/repository"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine, err := analysis.NewEngine(analysis.DefaultParams())
	require.NoError(t, err)

	svc := service.NewOpnameService(repository.NewMemoryProductRepository(), engine, cache.NewMemoryReportCache(), nil, "exports")
	return api.NewRouter(&api.Services{OpnameService: svc}, nil)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createProduct(t *testing.T, router *gin.Engine, p domain.Product) domain.Product {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", p)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestProductCRUD(t *testing.T) {
	router := newTestRouter(t)

	created := createProduct(t, router, domain.Product{Name: "Sabun", SystemStock: 30, ActualStock: 8, UnitCost: 1500, MinStock: 15, MaxStock: 50, LeadTime: 7, AvgDemand: 6})
	require.NotEmpty(t, created.ID)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/api/v1/products/"+created.ID, map[string]interface{}{"actual_stock": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 0, updated.ActualStock)
	assert.Equal(t, "Sabun", updated.Name)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/"+created.ID+"/action-plan", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var plan domain.ActionPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, domain.StatusOutOfStock, plan.Status)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProduct_Validation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", map[string]interface{}{"name": "Bad", "unit_cost": -5})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body["error"])
	assert.Contains(t, body["details"], "UnitCost")

	rec = doJSON(t, router, http.MethodPost, "/api/v1/products", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalysisEndpoints(t *testing.T) {
	router := newTestRouter(t)
	createProduct(t, router, domain.Product{Name: "Sabun", Category: "Toiletries", SystemStock: 30, ActualStock: 8, UnitCost: 1500, MinStock: 15, MaxStock: 50, LeadTime: 7, AvgDemand: 6})
	createProduct(t, router, domain.Product{Name: "Gula", Category: "Sembako", SystemStock: 110, ActualStock: 110, UnitCost: 14000, MinStock: 15, MaxStock: 70, LeadTime: 7, AvgDemand: 6})
	createProduct(t, router, domain.Product{Name: "Kopi", Category: "Sembako", SystemStock: 60, ActualStock: 60, UnitCost: 20000, MinStock: 10, MaxStock: 100, LeadTime: 1, AvgDemand: 1})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/analysis?category=Sembako", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result.Analysis, 2)
	assert.Equal(t, 3, result.Summary.TotalProducts)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/analysis/urgency", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var urgency []domain.UrgencyItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &urgency))
	assert.Len(t, urgency, 2)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/analysis/recommendations?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var recs []domain.Recommendation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	assert.Len(t, recs, 1)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/analysis/recommendations?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/analysis/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary domain.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.LowStockItems)
	assert.Equal(t, 1, summary.OverstockItems)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/analysis/report", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report domain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 3, report.Summary.TotalProducts)
}

func TestGetUrgency_MinLevel(t *testing.T) {
	router := newTestRouter(t)
	createProduct(t, router, domain.Product{Name: "Beras", Category: "Sembako", SystemStock: 40, ActualStock: 0, UnitCost: 12000, MinStock: 20, MaxStock: 80, LeadTime: 7, AvgDemand: 8})
	createProduct(t, router, domain.Product{Name: "Sabun", Category: "Toiletries", SystemStock: 30, ActualStock: 8, UnitCost: 1500, MinStock: 15, MaxStock: 50, LeadTime: 7, AvgDemand: 6})
	createProduct(t, router, domain.Product{Name: "Gula", Category: "Sembako", SystemStock: 110, ActualStock: 110, UnitCost: 14000, MinStock: 15, MaxStock: 70, LeadTime: 7, AvgDemand: 6})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/analysis/urgency", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []domain.UrgencyItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.NotEmpty(t, all)

	tests := []struct {
		name      string
		minLevel  string
		wantCode  int
		threshold domain.UrgencyLevel
	}{
		{name: "lowest level keeps everything", minLevel: "low", wantCode: http.StatusOK, threshold: domain.UrgencyLow},
		{name: "lower case high", minLevel: "high", wantCode: http.StatusOK, threshold: domain.UrgencyHigh},
		{name: "critical", minLevel: "CRITICAL", wantCode: http.StatusOK, threshold: domain.UrgencyCritical},
		{name: "unknown level", minLevel: "urgent", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodGet, "/api/v1/analysis/urgency?min_level="+tt.minLevel, nil)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode != http.StatusOK {
				assert.Contains(t, rec.Body.String(), "min_level")
				return
			}

			var items []domain.UrgencyItem
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))

			want := 0
			for _, item := range all {
				if item.UrgencyLevel.AtLeast(tt.threshold) {
					want++
				}
			}
			assert.Len(t, items, want)
			for _, item := range items {
				assert.True(t, item.UrgencyLevel.AtLeast(tt.threshold), item.Code)
			}
		})
	}
}

func TestImportProducts(t *testing.T) {
	router := newTestRouter(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "opname.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("Kode Produk,Nama Produk,Stok Sistem,Stok Aktual\nA1,Teh,10,9\nA2,Kopi,x,1\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Imported int `json:"imported"`
		Rejected int `json:"rejected"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Imported)
	assert.Equal(t, 1, resp.Rejected)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/products/import", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportEndpoints(t *testing.T) {
	router := newTestRouter(t)
	createProduct(t, router, domain.Product{Name: "Sabun", SystemStock: 30, ActualStock: 8, UnitCost: 1500, MinStock: 15, MaxStock: 50, LeadTime: 7, AvgDemand: 6})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Stock_Opname_Analysis_")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = doJSON(t, router, http.MethodGet, "/api/v1/template", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = doJSON(t, router, http.MethodPost, "/api/v1/export/publish", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
