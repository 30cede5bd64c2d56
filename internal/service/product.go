package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/furnix/furnix-api/internal/dto"
	"github.com/furnix/furnix-api/internal/model"
	"github.com/furnix/furnix-api/internal/notify"
	"github.com/furnix/furnix-api/internal/realtime"
	"github.com/furnix/furnix-api/internal/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSlugTaken       = errors.New("slug already in use")
)

const (
	productCacheTTL = 60 * time.Second

	lowStockThreshold = 3
)

type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	redisClient  *redis.Client
	hub          notify.Broadcaster
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, redisClient *redis.Client, hub notify.Broadcaster) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		redisClient:  redisClient,
		hub:          hub,
	}
}

func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := &model.Product{
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		Images:      req.Images,
		Tags:        req.Tags,
		Dimensions:  req.Dimensions,
		Materials:   req.Materials,
		Care:        req.Care,
		Variants:    req.Variants,
	}
	if req.CategoryID != "" {
		categoryID, err := parseID(req.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = categoryID
	}

	if product.Slug == "" {
		uniqueSlug, err := s.uniqueSlug(ctx, product.Title)
		if err != nil {
			return nil, err
		}
		product.Slug = uniqueSlug
	} else if err := s.checkSlugFree(ctx, product.Slug); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	resp := toProductResponse(product)
	return &resp, nil
}

// uniqueSlug derives a slug from the title and disambiguates collisions with
// a numeric suffix.
func (s *ProductService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	candidate := base
	for n := 1; ; n++ {
		exists, err := s.productRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

func (s *ProductService) checkSlugFree(ctx context.Context, slug string) error {
	exists, err := s.productRepo.SlugExists(ctx, slug)
	if err != nil {
		return fmt.Errorf("check slug: %w", err)
	}
	if exists {
		return ErrSlugTaken
	}
	return nil
}

// Get resolves a product by id, falling back to slug lookup when the key is
// not a well-formed id.
func (s *ProductService) Get(ctx context.Context, key string) (*dto.ProductResponse, error) {
	cacheKey := "product:" + key

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.ProductResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	product, err := s.lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	resp := toProductResponse(product)

	if s.redisClient != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}
	return &resp, nil
}

func (s *ProductService) lookup(ctx context.Context, key string) (*model.Product, error) {
	if id, err := primitive.ObjectIDFromHex(key); err == nil {
		product, err := s.productRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get product: %w", err)
		}
		if product != nil {
			return product, nil
		}
	}
	product, err := s.productRepo.GetBySlug(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context, req dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	products, total, err := s.productRepo.List(ctx, repository.ProductFilter{
		Query:    req.Query,
		Material: req.Material,
		Color:    req.Color,
		PriceMax: req.PriceMax,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}
	return &dto.ProductListResponse{Items: items, Total: total, Page: req.Page, PageSize: req.PageSize}, nil
}

func (s *ProductService) Search(ctx context.Context, query string) (*dto.SearchResponse, error) {
	products, err := s.productRepo.Search(ctx, query, 50)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}
	return &dto.SearchResponse{Products: items, Total: len(items)}, nil
}

func (s *ProductService) Update(ctx context.Context, key string, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	oldSlug := product.Slug
	if req.Slug != nil && *req.Slug != product.Slug {
		if err := s.checkSlugFree(ctx, *req.Slug); err != nil {
			return nil, err
		}
		product.Slug = *req.Slug
	}
	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.CategoryID != nil {
		categoryID, err := parseID(*req.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = categoryID
	}
	if req.Images != nil {
		product.Images = *req.Images
	}
	if req.Tags != nil {
		product.Tags = *req.Tags
	}
	if req.Dimensions != nil {
		product.Dimensions = *req.Dimensions
	}
	if req.Materials != nil {
		product.Materials = *req.Materials
	}
	if req.Care != nil {
		product.Care = *req.Care
	}
	if req.Variants != nil {
		product.Variants = *req.Variants
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidateCache(ctx, product, oldSlug)
	s.broadcastLowStock(product)

	resp := toProductResponse(product)
	return &resp, nil
}

func (s *ProductService) Delete(ctx context.Context, key string) error {
	product, err := s.lookup(ctx, key)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidateCache(ctx, product)
	return nil
}

func (s *ProductService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	category := &model.Category{Name: req.Name, Level: req.Level}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &dto.CategoryResponse{ID: category.ID.Hex(), Name: category.Name, Level: category.Level}, nil
}

func (s *ProductService) Categories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	resp := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, dto.CategoryResponse{ID: c.ID.Hex(), Name: c.Name, Level: c.Level})
	}
	return resp, nil
}

// broadcastLowStock pushes a stock:low event for the first variant whose
// stock is between one and the threshold after the update. Zero stock is out
// of stock, not low stock.
func (s *ProductService) broadcastLowStock(product *model.Product) {
	if s.hub == nil {
		return
	}
	for _, v := range product.Variants {
		if v.Stock > 0 && v.Stock <= lowStockThreshold {
			s.hub.Broadcast(realtime.EventStockLow, realtime.StockLow{
				ProductID: product.ID.Hex(),
				Title:     product.Title,
				Variant: realtime.StockLowVariant{
					Size:     v.Size,
					Color:    v.Color,
					Material: v.Material,
					Stock:    v.Stock,
				},
			})
			return
		}
	}
}

func (s *ProductService) invalidateCache(ctx context.Context, product *model.Product, extraSlugs ...string) {
	if s.redisClient == nil {
		return
	}
	keys := []string{"product:" + product.ID.Hex()}
	if product.Slug != "" {
		keys = append(keys, "product:"+product.Slug)
	}
	for _, extra := range extraSlugs {
		if extra != "" && extra != product.Slug {
			keys = append(keys, "product:"+extra)
		}
	}
	s.redisClient.Del(ctx, keys...)
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:          p.ID.Hex(),
		Slug:        p.Slug,
		Title:       p.Title,
		Description: p.Description,
		Images:      p.Images,
		Tags:        p.Tags,
		Dimensions:  p.Dimensions,
		Materials:   p.Materials,
		Care:        p.Care,
		Variants:    p.Variants,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if !p.CategoryID.IsZero() {
		resp.CategoryID = p.CategoryID.Hex()
	}
	return resp
}
