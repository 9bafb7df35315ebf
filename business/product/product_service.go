package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"
	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/logger"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindActive(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uint64) error
}

const (
	activeCatalogKey   = "catalog:active"
	defaultLoadTimeout = 5 * time.Second
)

type productService struct {
	productRepo ProductRepository
	cache       *expirable.LRU[string, []domain.Product]
	group       singleflight.Group
	loadTimeout time.Duration
}

func NewProductService(productRepo ProductRepository, cacheSize int, cacheTTL, loadTimeout time.Duration) *productService {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	if loadTimeout <= 0 {
		loadTimeout = defaultLoadTimeout
	}

	return &productService{
		productRepo: productRepo,
		cache:       expirable.NewLRU[string, []domain.Product](cacheSize, nil, cacheTTL),
		loadTimeout: loadTimeout,
	}
}

// ActiveCatalog returns a snapshot of the active catalog. Concurrent callers
// share a single database read and the result is cached until a write or
// the TTL expires. Callers get their own copy of the slice.
//
// The shared read is detached from the caller that started it and bounded by
// the load timeout; each caller only waits as long as its own context allows.
func (s *productService) ActiveCatalog(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when loading active catalog")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if products, ok := s.cache.Get(activeCatalogKey); ok {
		return clone(products), nil
	}

	ch := s.group.DoChan(activeCatalogKey, func() (interface{}, error) {
		if products, ok := s.cache.Get(activeCatalogKey); ok {
			return products, nil
		}

		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()

		products, err := s.productRepo.FindActive(loadCtx)
		if err != nil {
			return nil, err
		}
		s.cache.Add(activeCatalogKey, products)
		return products, nil
	})

	select {
	case <-ctx.Done():
		logger.Error("context error while waiting for active catalog")
		return nil, fmt.Errorf("context error: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			logger.Error("Failed to load active catalog", res.Err)
			return nil, res.Err
		}
		return clone(res.Val.([]domain.Product)), nil
	}
}

// ActiveByCategory filters the active catalog; an empty category returns all.
func (s *productService) ActiveByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := s.ActiveCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return products, nil
	}

	out := make([]domain.Product, 0)
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *productService) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all product", err)
		return nil, err
	}

	return products, nil
}

func (s *productService) GetProductsByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		logger.Error("Failed to find products by ids", err)
		return nil, err
	}

	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uint64) (*domain.Product, error) {
	if id == 0 {
		logger.Error("invalid product id")
		return nil, errors.New("invalid product id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when get product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find product by id", err)
		return nil, err
	}

	return &product, nil
}

func validateProduct(product *domain.Product) error {
	if product.Name == "" {
		return errors.New("product name is required")
	}

	if product.Category == "" {
		return errors.New("product category is required")
	}

	if product.Price < 0 {
		return errors.New("price cannot be negative")
	}

	return nil
}

func (s *productService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if err := validateProduct(product); err != nil {
		logger.Error("Invalid product data", err)
		return nil, err
	}

	if !domain.IsRoutineCategory(product.Category) {
		logger.Warn("product category outside routine order", "category", product.Category)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error("failed to create new product", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.invalidate()
	logger.Info("product created successfully", "product_id", product.ID)

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if product.ID == 0 {
		logger.Error("Invalid product data: ID is required")
		return nil, errors.New("product ID is required")
	}

	if err := validateProduct(product); err != nil {
		logger.Error("Invalid product data", err)
		return nil, err
	}

	if _, err := s.productRepo.FindByID(ctx, product.ID); err != nil {
		logger.Error("product not found", err)
		return nil, errors.New("product not found")
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		logger.Error("failed to update product", err)
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	s.invalidate()

	updatedProduct, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		logger.Error("failed to fetch updated product", err)
		return nil, fmt.Errorf("failed to fetch updated product: %w", err)
	}

	logger.Info("product updated success", "product_id", product.ID)

	return &updatedProduct, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint64) error {
	if id == 0 {
		logger.Error("Invalid product id when deleting product")
		return errors.New("invalid product id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting product")
		return fmt.Errorf("context error: %w", err)
	}

	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		logger.Error("product not found", err)
		return errors.New("product not found")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete product", err)
		return fmt.Errorf("failed to delete product: %w", err)
	}
	s.invalidate()

	logger.Info("product deleted success", "product_id", id)

	return nil
}

func (s *productService) invalidate() {
	s.cache.Remove(activeCatalogKey)
}

func clone(products []domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)
	return out
}
