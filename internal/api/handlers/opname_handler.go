package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/analysis"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/export"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/importer"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/service"
)

type OpnameHandler struct {
	service *service.OpnameService
}

func NewOpnameHandler(service *service.OpnameService) *OpnameHandler {
	return &OpnameHandler{service: service}
}

func (h *OpnameHandler) ListProducts(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *OpnameHandler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *OpnameHandler) CreateProduct(c *gin.Context) {
	var input domain.Product
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	input.ID = ""

	product, err := h.service.CreateProduct(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err, "failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *OpnameHandler) UpdateProduct(c *gin.Context) {
	var patch domain.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.fail(c, err, "failed to update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *OpnameHandler) DeleteProduct(c *gin.Context) {
	if err := h.service.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "failed to delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OpnameHandler) GetActionPlan(c *gin.Context) {
	plan, err := h.service.ActionPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to build action plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *OpnameHandler) ImportProducts(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open file", "details": err.Error()})
		return
	}
	defer src.Close()

	res, err := h.service.ImportProducts(c.Request.Context(), src, file.Filename)
	if err != nil {
		h.fail(c, err, "failed to import products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"imported": len(res.Products),
		"rejected": len(res.Errors),
		"products": res.Products,
		"errors":   res.Errors,
	})
}

func (h *OpnameHandler) GetAnalysis(c *gin.Context) {
	filter := analysis.Filter{
		Search:       strings.TrimSpace(c.Query("search")),
		Status:       c.Query("status"),
		ABCClass:     c.Query("abc_class"),
		Category:     c.Query("category"),
		VarianceType: analysis.VarianceType(c.Query("variance_type")),
	}

	result, err := h.service.Analyze(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err, "failed to analyze products")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *OpnameHandler) GetUrgency(c *gin.Context) {
	items, err := h.service.Urgency(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to rank urgency")
		return
	}

	if level := strings.TrimSpace(c.Query("min_level")); level != "" {
		threshold, ok := domain.ParseUrgencyLevel(level)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_level must be one of CRITICAL, HIGH, MEDIUM, LOW"})
			return
		}
		filtered := make([]domain.UrgencyItem, 0, len(items))
		for _, item := range items {
			if item.UrgencyLevel.AtLeast(threshold) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	c.JSON(http.StatusOK, items)
}

func (h *OpnameHandler) GetRecommendations(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	recs, err := h.service.Recommendations(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err, "failed to build recommendations")
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *OpnameHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to summarize")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *OpnameHandler) GetLatestReport(c *gin.Context) {
	report, err := h.service.LatestReport(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to fetch report")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *OpnameHandler) ExportWorkbook(c *gin.Context) {
	data, name, err := h.service.Export(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to export analysis")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	c.Data(http.StatusOK, export.ContentType, data)
}

func (h *OpnameHandler) PublishExport(c *gin.Context) {
	info, err := h.service.PublishExport(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to publish export")
		return
	}
	c.JSON(http.StatusCreated, info)
}

func (h *OpnameHandler) ListPublished(c *gin.Context) {
	objects, err := h.service.PublishedExports(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to list published exports")
		return
	}
	c.JSON(http.StatusOK, objects)
}

func (h *OpnameHandler) DownloadTemplate(c *gin.Context) {
	data, err := h.service.Template()
	if err != nil {
		h.fail(c, err, "failed to build template")
		return
	}
	c.Header("Content-Disposition", "attachment; filename=Stock_Opname_Template.xlsx")
	c.Data(http.StatusOK, export.ContentType, data)
}

// fail maps service errors onto HTTP statuses.
func (h *OpnameHandler) fail(c *gin.Context, err error, message string) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": vErr.Details})
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, importer.ErrUnreadableFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
	case errors.Is(err, service.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": message, "details": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}
