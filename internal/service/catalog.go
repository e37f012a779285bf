package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/store"
	"github.com/Skotchmaster/storefront/internal/transport"
)

// ProductIndex is an external full-text index kept next to the store. It
// is optional; every call site tolerates its failures.
type ProductIndex interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	SearchProducts(ctx context.Context, query string, limit int) ([]uint, error)
}

type CatalogService struct {
	Repo  store.Products
	Index ProductIndex
}

func (s *CatalogService) List(ctx context.Context, f store.ProductFilter) ([]models.Product, error) {
	f.Category = strings.TrimSpace(f.Category)
	f.Search = strings.TrimSpace(f.Search)
	return s.Repo.ListProducts(ctx, f)
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if err := Check(req); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, invalid("price", "must be at least 0")
	}
	if req.OldPrice != nil && req.OldPrice.IsNegative() {
		return nil, invalid("oldPrice", "must be at least 0")
	}

	p := &models.Product{
		Name:           req.Name,
		NameFr:         req.NameFr,
		Description:    req.Description,
		DescriptionFr:  req.DescriptionFr,
		Category:       req.Category,
		Price:          req.Price,
		OldPrice:       req.OldPrice,
		Stock:          req.Stock,
		Images:         req.Images,
		Specifications: req.Specifications,
		IsFeatured:     req.IsFeatured,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	s.reindex(ctx, *p)
	return p, nil
}

func (s *CatalogService) Update(ctx context.Context, id uint, req transport.UpdateProductRequest) (*models.Product, error) {
	if err := Check(req); err != nil {
		return nil, err
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, invalid("price", "must be at least 0")
	}
	if req.OldPrice != nil && req.OldPrice.IsNegative() {
		return nil, invalid("oldPrice", "must be at least 0")
	}

	p, err := s.Repo.UpdateProduct(ctx, id, models.ProductPatch{
		Name:           req.Name,
		NameFr:         req.NameFr,
		Description:    req.Description,
		DescriptionFr:  req.DescriptionFr,
		Category:       req.Category,
		Price:          req.Price,
		OldPrice:       req.OldPrice,
		Stock:          req.Stock,
		Images:         req.Images,
		Specifications: req.Specifications,
		IsFeatured:     req.IsFeatured,
	})
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, *p)
	return p, nil
}

// Delete succeeds for ids that do not exist.
func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_unindex_failed", "product_id", id, "error", err)
		}
	}
	return nil
}

// Search asks the full-text index first and falls back to the store's
// substring filter when there is no index or it is unavailable.
func (s *CatalogService) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.search")
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Product{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	if s.Index != nil {
		ids, err := s.Index.SearchProducts(ctx, query, limit)
		if err == nil {
			out := make([]models.Product, 0, len(ids))
			for _, id := range ids {
				p, err := s.Repo.GetProduct(ctx, id)
				if errors.Is(err, store.ErrNotFound) {
					continue
				}
				if err != nil {
					return nil, err
				}
				out = append(out, *p)
			}
			return out, nil
		}
		l.Warn("search_index_unavailable", "error", err)
	}

	list, err := s.Repo.ListProducts(ctx, store.ProductFilter{Search: query})
	if err != nil {
		return nil, err
	}
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// Reindex pushes every product to the index, e.g. after start-up.
func (s *CatalogService) Reindex(ctx context.Context) error {
	if s.Index == nil {
		return nil
	}
	list, err := s.Repo.ListProducts(ctx, store.ProductFilter{})
	if err != nil {
		return err
	}
	for _, p := range list {
		if err := s.Index.IndexProduct(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *CatalogService) reindex(ctx context.Context, p models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
	}
}
