package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/opsdash/inventory-service/internal/apperr"
	"github.com/opsdash/inventory-service/internal/model"
	"github.com/opsdash/inventory-service/internal/product"
	"github.com/opsdash/inventory-service/internal/product/dto"
	"github.com/opsdash/inventory-service/pkg/cache"
	"github.com/opsdash/inventory-service/pkg/logger"
	"github.com/opsdash/inventory-service/pkg/search"
	"go.uber.org/zap"
)

const productIndex = "products"

type productUseCase struct {
	repo   product.Repository
	cache  *cache.RedisClient // nil disables cache invalidation
	es     *search.Client     // nil disables search indexing
	logger logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, cache *cache.RedisClient, es *search.Client, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		logger: log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if input.SKU == "" {
		return nil, apperr.Validation("sku", "sku is required")
	}
	if input.Name == "" {
		return nil, apperr.Validation("name", "name is required")
	}
	if input.OpeningStock < 0 {
		return nil, apperr.Validation("opening_stock", "opening stock cannot be negative, got %d", input.OpeningStock)
	}

	unique, err := uc.repo.IsSKUUnique(ctx, input.TenantID, input.SKU)
	if err != nil {
		return nil, apperr.Persistence("failed to check sku uniqueness", err)
	}
	if !unique {
		return nil, apperr.Conflict("sku %s already exists", input.SKU)
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		TenantID:    input.TenantID,
		SKU:         input.SKU,
		Name:        input.Name,
		Category:    input.Category,
		WeightGrams: input.WeightGrams,
		Price:       input.Price,
		Description: input.Description,
		VariantRefs: input.VariantRefs,
	}
	ledger := &model.StockLedger{
		TenantID:     input.TenantID,
		SKU:          input.SKU,
		OpeningStock: input.OpeningStock,
		UpdatedAt:    now,
	}

	if err := uc.repo.CreateWithLedger(ctx, p, ledger); err != nil {
		return nil, apperr.Persistence("failed to create product", err)
	}

	go uc.invalidateListCache(context.Background(), input.TenantID)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, tenantID, sku string) (*model.Product, error) {
	p, err := uc.repo.FindBySKU(ctx, tenantID, sku)
	if err != nil {
		return nil, apperr.Persistence("failed to load product", err)
	}
	if p == nil {
		return nil, apperr.NotFound("product %s not found", sku)
	}
	return p, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, dto.FieldDiff, error) {
	if input.Name == "" {
		return nil, nil, apperr.Validation("name", "name is required")
	}

	p, err := uc.repo.FindBySKU(ctx, input.TenantID, input.SKU)
	if err != nil {
		return nil, nil, apperr.Persistence("failed to load product", err)
	}
	if p == nil {
		return nil, nil, apperr.NotFound("product %s not found", input.SKU)
	}

	diff := dto.FieldDiff{}
	if p.Name != input.Name {
		diff["name"] = dto.FieldChange{From: p.Name, To: input.Name}
		p.Name = input.Name
	}
	if p.Category != input.Category {
		diff["category"] = dto.FieldChange{From: p.Category, To: input.Category}
		p.Category = input.Category
	}
	if p.WeightGrams != input.WeightGrams {
		diff["weight_grams"] = dto.FieldChange{From: p.WeightGrams, To: input.WeightGrams}
		p.WeightGrams = input.WeightGrams
	}
	if !floatPtrEqual(p.Price, input.Price) {
		diff["price"] = dto.FieldChange{From: p.Price, To: input.Price}
		p.Price = input.Price
	}
	if !strPtrEqual(p.Description, input.Description) {
		diff["description"] = dto.FieldChange{From: p.Description, To: input.Description}
		p.Description = input.Description
	}
	if !reflect.DeepEqual(p.VariantRefs, input.VariantRefs) {
		diff["variant_refs"] = dto.FieldChange{From: p.VariantRefs, To: input.VariantRefs}
		p.VariantRefs = input.VariantRefs
	}

	if len(diff) == 0 {
		return p, diff, nil
	}

	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, nil, apperr.Persistence("failed to update product", err)
	}

	go uc.invalidateListCache(context.Background(), input.TenantID)
	go uc.syncToElastic(context.Background(), p)

	return p, diff, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, tenantID, sku string) error {
	p, err := uc.repo.FindBySKU(ctx, tenantID, sku)
	if err != nil {
		return apperr.Persistence("failed to load product", err)
	}
	if p == nil {
		return apperr.NotFound("product %s not found", sku)
	}

	if err := uc.repo.Delete(ctx, tenantID, sku); err != nil {
		return apperr.Persistence("failed to delete product", err)
	}

	go uc.invalidateListCache(context.Background(), tenantID)
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), productIndex, p.ID); err != nil {
				uc.logger.Error("failed to delete product from search index", zap.Error(err))
			}
		}()
	}

	return nil
}

func (uc *productUseCase) SearchProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 50
	}

	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("search index query failed, falling back to database", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperr.Persistence("failed to list products", err)
	}
	return products, count, nil
}

func (uc *productUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	q := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": []map[string]any{
					{
						"query_string": map[string]any{
							"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
							"fields": []string{"name^3", "sku", "category"},
						},
					},
					{
						"term": map[string]any{
							"tenant_id": filters.TenantID,
						},
					},
				},
			},
		},
		"from": (filters.Page - 1) * filters.PageSize,
		"size": filters.PageSize,
	}

	res, err := uc.es.Search(ctx, productIndex, q)
	if err != nil {
		return nil, 0, err
	}

	var products []model.Product
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}

	mapping := `{
		"mappings": {
			"properties": {
				"tenant_id": { "type": "keyword" },
				"sku": { "type": "keyword" },
				"name": { "type": "text" },
				"category": { "type": "keyword" },
				"created_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, productIndex, mapping)

	if err := uc.es.Index(ctx, productIndex, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("sku", p.SKU), zap.Error(err))
	}
}

func (uc *productUseCase) invalidateListCache(ctx context.Context, tenantID string) {
	if uc.cache == nil {
		return
	}
	pattern := fmt.Sprintf("stock:list:%s:*", tenantID)
	keys, err := uc.cache.Client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
