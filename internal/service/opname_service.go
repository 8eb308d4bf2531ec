package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/analysis"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/cache"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/export"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/importer"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/repository"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/storage"
	"github.com/andresuchdata/stock-opname-dss/backend-go/pkg/validation"
)

var (
	ErrProductNotFound = repository.ErrProductNotFound
	ErrValidation      = errors.New("validation failed")
	ErrStorageDisabled = errors.New("object storage is not configured")
)

// ValidationError lists the rejected fields of a product payload.
type ValidationError struct {
	Details map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Details))
	for name := range e.Details {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// OpnameService recomputes the analysis from the current product collection on
// every read and republishes the latest report after every change.
type OpnameService struct {
	repo         repository.ProductRepository
	engine       *analysis.Engine
	cache        cache.ReportCache
	store        storage.ObjectStorage
	exportPrefix string
	now          func() time.Time
}

// NewOpnameService wires the service. store may be nil when publishing is disabled.
func NewOpnameService(repo repository.ProductRepository, engine *analysis.Engine, cacheImpl cache.ReportCache, store storage.ObjectStorage, exportPrefix string) *OpnameService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReportCache()
	}
	return &OpnameService{
		repo:         repo,
		engine:       engine,
		cache:        cacheImpl,
		store:        store,
		exportPrefix: exportPrefix,
		now:          time.Now,
	}
}

func (s *OpnameService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *OpnameService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *OpnameService) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := validate(p); err != nil {
		return domain.Product{}, err
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}

	s.refresh(ctx)
	return created, nil
}

func (s *OpnameService) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error) {
	if err := validate(patch); err != nil {
		return domain.Product{}, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.Product{}, err
	}

	s.refresh(ctx)
	return updated, nil
}

func (s *OpnameService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.refresh(ctx)
	return nil
}

// Seed replaces the collection with the given products.
func (s *OpnameService) Seed(ctx context.Context, products []domain.Product) error {
	if _, err := s.replaceAll(ctx, products); err != nil {
		return err
	}

	s.refresh(ctx)
	return nil
}

// ImportProducts replaces the collection with the readable rows of an uploaded file.
// An unreadable file leaves the collection untouched.
func (s *OpnameService) ImportProducts(ctx context.Context, r io.Reader, filename string) (importer.Result, error) {
	res, err := importer.Parse(r, filename)
	if err != nil {
		return importer.Result{}, err
	}

	stored, err := s.replaceAll(ctx, res.Products)
	if err != nil {
		return importer.Result{}, err
	}
	res.Products = stored

	log.Info().
		Str("file", filename).
		Int("imported", len(res.Products)).
		Int("rejected", len(res.Errors)).
		Msg("opname: products imported")

	s.refresh(ctx)
	return res, nil
}

// Analyze computes the full result and narrows the analysis rows with filter.
// Urgency, recommendations and summary always cover the whole collection.
func (s *OpnameService) Analyze(ctx context.Context, filter analysis.Filter) (domain.AnalysisResult, error) {
	result, err := s.compute(ctx)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	result.Analysis = filter.Apply(result.Analysis, s.engine.Params())
	return result, nil
}

func (s *OpnameService) Urgency(ctx context.Context) ([]domain.UrgencyItem, error) {
	result, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	return result.Urgency, nil
}

// Recommendations returns the advisory messages, at most limit of them when limit > 0.
func (s *OpnameService) Recommendations(ctx context.Context, limit int) ([]domain.Recommendation, error) {
	result, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	recs := result.Recommendations
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (s *OpnameService) Summary(ctx context.Context) (domain.Summary, error) {
	result, err := s.compute(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	return result.Summary, nil
}

// ActionPlan builds the remediation checklist of one product against the current batch.
func (s *OpnameService) ActionPlan(ctx context.Context, id string) (domain.ActionPlan, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return domain.ActionPlan{}, err
	}

	result, err := s.compute(ctx)
	if err != nil {
		return domain.ActionPlan{}, err
	}

	for _, item := range result.Analysis {
		if item.ID == id {
			return analysis.BuildActionPlan(item), nil
		}
	}

	// fallback result carries no rows
	return domain.ActionPlan{}, fmt.Errorf("action plan %s: %w", id, analysis.ErrComputation)
}

// LatestReport returns the published report, computing and publishing one on a cache miss.
func (s *OpnameService) LatestReport(ctx context.Context) (*domain.Report, error) {
	if report, ok, err := s.cache.GetLatest(ctx); err == nil && ok {
		return report, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("opname: cache get report failed")
	}

	report, err := s.publishReport(ctx)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Export renders the analysis workbook and its file name.
func (s *OpnameService) Export(ctx context.Context) ([]byte, string, error) {
	result, err := s.compute(ctx)
	if err != nil {
		return nil, "", err
	}

	data, err := export.Bytes(result)
	if err != nil {
		return nil, "", fmt.Errorf("build export: %w", err)
	}
	return data, export.FileName(s.now()), nil
}

func (s *OpnameService) Template() ([]byte, error) {
	return export.Template()
}

// PublishExport uploads the current export workbook to object storage.
func (s *OpnameService) PublishExport(ctx context.Context) (storage.ObjectInfo, error) {
	if s.store == nil {
		return storage.ObjectInfo{}, ErrStorageDisabled
	}

	data, name, err := s.Export(ctx)
	if err != nil {
		return storage.ObjectInfo{}, err
	}

	key := path.Join(s.exportPrefix, name)
	location, err := s.store.UploadObject(ctx, key, data, export.ContentType)
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("publish export: %w", err)
	}

	log.Info().Str("key", key).Str("location", location).Msg("opname: export published")
	return storage.ObjectInfo{Key: key, Size: int64(len(data)), Location: location}, nil
}

// PublishedExports lists the exports already uploaded.
func (s *OpnameService) PublishedExports(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	prefix := s.exportPrefix
	if prefix != "" {
		prefix = strings.TrimSuffix(prefix, "/") + "/"
	}
	return s.store.ListObjects(ctx, prefix)
}

func (s *OpnameService) compute(ctx context.Context) (domain.AnalysisResult, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("list products: %w", err)
	}

	result, err := s.engine.Analyze(products)
	if err != nil {
		log.Error().Err(err).Int("products", len(products)).Msg("opname: analysis failed, using fallback result")
	}
	return result, nil
}

// replaceAll swaps the whole collection. Every report published for the old
// collection is dropped first.
func (s *OpnameService) replaceAll(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("opname: cache invalidate failed")
	}

	stored, err := s.repo.ReplaceAll(ctx, products)
	if err != nil {
		return nil, fmt.Errorf("replace products: %w", err)
	}
	return stored, nil
}

// publishReport computes a report and stores it as the latest one. A fallback
// result is never published; it clears the cache instead.
func (s *OpnameService) publishReport(ctx context.Context) (domain.Report, error) {
	result, err := s.compute(ctx)
	if err != nil {
		return domain.Report{}, err
	}

	report := domain.Report{GeneratedAt: s.now().UTC(), AnalysisResult: result}
	if result.Fallback {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Msg("opname: cache invalidate failed")
		}
		return report, nil
	}
	if err := s.cache.SetLatest(ctx, report); err != nil {
		log.Warn().Err(err).Msg("opname: cache set report failed")
	}
	return report, nil
}

func (s *OpnameService) refresh(ctx context.Context) {
	if _, err := s.publishReport(ctx); err != nil {
		log.Warn().Err(err).Msg("opname: report refresh failed")
	}
}

func validate(v interface{}) error {
	details, err := validation.Struct(v)
	if err != nil {
		return err
	}
	if len(details) > 0 {
		return &ValidationError{Details: details}
	}
	return nil
}
