// backend-go/internal/repository/product_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
)

// ErrProductNotFound is returned when no product has the requested ID.
var ErrProductNotFound = errors.New("product not found")

// Safe defaults applied to zero-valued fields on create.
const (
	DefaultMinStock  = 1
	DefaultMaxStock  = 10
	DefaultLeadTime  = 1
	DefaultAvgDemand = 1
)

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error)
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, products []domain.Product) ([]domain.Product, error)
}

// MemoryProductRepository keeps the product collection in memory, in insertion order.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products []domain.Product
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{}
}

// List returns a copy of the collection so callers can analyze it without holding the lock.
func (r *MemoryProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *MemoryProductRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return domain.Product{}, fmt.Errorf("get %s: %w", id, ErrProductNotFound)
	}
	return r.products[idx], nil
}

func (r *MemoryProductRepository) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p = withDefaults(p, len(r.products)+1)
	r.products = append(r.products, p)
	return p, nil
}

func (r *MemoryProductRepository) Update(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return domain.Product{}, fmt.Errorf("update %s: %w", id, ErrProductNotFound)
	}

	patch.Apply(&r.products[idx])
	return r.products[idx], nil
}

func (r *MemoryProductRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("delete %s: %w", id, ErrProductNotFound)
	}

	r.products = append(r.products[:idx], r.products[idx+1:]...)
	return nil
}

// ReplaceAll swaps the whole collection, as an import does.
func (r *MemoryProductRepository) ReplaceAll(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	next := make([]domain.Product, len(products))
	for i, p := range products {
		next[i] = withDefaults(p, i+1)
	}

	r.mu.Lock()
	r.products = next
	r.mu.Unlock()

	out := make([]domain.Product, len(next))
	copy(out, next)
	return out, nil
}

func (r *MemoryProductRepository) indexOf(id string) int {
	for i := range r.products {
		if r.products[i].ID == id {
			return i
		}
	}
	return -1
}

// withDefaults fills the identity fields and the safe defaults that keep
// the formulas away from zero divisors.
func withDefaults(p domain.Product, seq int) domain.Product {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Code == "" {
		p.Code = fmt.Sprintf("PRD%03d", seq)
	}
	if p.MinStock == 0 {
		p.MinStock = DefaultMinStock
	}
	if p.MaxStock == 0 {
		p.MaxStock = DefaultMaxStock
	}
	if p.LeadTime == 0 {
		p.LeadTime = DefaultLeadTime
	}
	if p.AvgDemand == 0 {
		p.AvgDemand = DefaultAvgDemand
	}
	return p
}

// SampleProducts is a small catalog used to seed a fresh collection.
func SampleProducts() []domain.Product {
	return []domain.Product{
		{
			Code:        "PRD001",
			Name:        "Laptop Dell Inspiron",
			Category:    "Electronics",
			SystemStock: 50,
			ActualStock: 48,
			UnitCost:    8500000,
			MinStock:    10,
			MaxStock:    100,
			LeadTime:    7,
			AvgDemand:   8,
		},
		{
			Code:        "PRD002",
			Name:        "Mouse Wireless",
			Category:    "Accessories",
			SystemStock: 120,
			ActualStock: 125,
			UnitCost:    150000,
			MinStock:    20,
			MaxStock:    200,
			LeadTime:    3,
			AvgDemand:   15,
		},
	}
}
