package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"saheli-store/internal/models"
)

// MemoryProductRepository es una implementación en memoria de
// ProductRepository, usada por los tests de handlers.
type MemoryProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = primitive.NewObjectID()
	if product.ProductID == "" {
		product.ProductID = models.NewProductID()
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	r.products[product.ID.Hex()] = *product
	return nil
}

func (r *MemoryProductRepository) FindByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	product.Derive()
	return &product, nil
}

func (r *MemoryProductRepository) FindAll(_ context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*models.Product, 0, len(r.products))
	for _, p := range r.products {
		if !matchesFilter(p, filter) {
			continue
		}
		p := p
		p.Derive()
		matched = append(matched, &p)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func matchesFilter(p models.Product, f models.ProductFilter) bool {
	if f.Category != "" && !containsFold(p.Category, f.Category) {
		return false
	}
	if f.BestSeller != nil && p.BestSeller != *f.BestSeller {
		return false
	}
	if f.Recommended != nil && p.Recommended != *f.Recommended {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.Search != "" {
		if !containsFold(p.Title, f.Search) &&
			!containsFold(p.Category, f.Search) &&
			!containsFold(p.Description, f.Search) {
			return false
		}
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (r *MemoryProductRepository) Update(_ context.Context, id string, update models.ProductUpdate) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}

	update.Normalize()

	if update.Title != nil {
		product.Title = *update.Title
	}
	if update.Category != nil {
		product.Category = *update.Category
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Stock != nil {
		product.Stock = *update.Stock
		product.IsActive = *update.Stock > 0
	}
	if update.Discount != nil {
		product.Discount = *update.Discount
	}
	if update.Rating != nil {
		product.Rating = *update.Rating
	}
	if update.Recommended != nil {
		product.Recommended = *update.Recommended
	}
	if update.BestSeller != nil {
		product.BestSeller = *update.BestSeller
	}
	if update.Image != nil {
		product.Image = *update.Image
	}
	product.UpdatedAt = time.Now()

	r.products[id] = product
	product.Derive()
	return &product, nil
}

func (r *MemoryProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *MemoryProductRepository) ToggleFlag(_ context.Context, id, field string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !models.ToggleableFlags[field] {
		return nil, models.NewValidationError("Invalid field!")
	}

	product, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}

	switch field {
	case "recommended":
		product.Recommended = !product.Recommended
	case "bestSeller":
		product.BestSeller = !product.BestSeller
	}
	product.UpdatedAt = time.Now()

	r.products[id] = product
	product.Derive()
	return &product, nil
}
