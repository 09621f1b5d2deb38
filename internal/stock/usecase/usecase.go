package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/opsdash/inventory-service/internal/apperr"
	"github.com/opsdash/inventory-service/internal/model"
	"github.com/opsdash/inventory-service/internal/stock"
	"github.com/opsdash/inventory-service/internal/stock/dto"
	"github.com/opsdash/inventory-service/pkg/cache"
	"github.com/opsdash/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

const (
	lockTTL         = 5 * time.Second
	listCacheTTL    = 5 * time.Minute
	defaultPageSize = 50
	maxPageSize     = 200
)

// ProductLister is the slice of the product repository the read model needs.
type ProductLister interface {
	ListByTenant(ctx context.Context, tenantID string) ([]model.Product, error)
}

type stockUseCase struct {
	repo     stock.Repository
	products ProductLister
	locker   stock.Locker
	cache    *cache.RedisClient // nil disables listing cache
	logger   logger.ZapLogger
}

func NewStockUseCase(repo stock.Repository, products ProductLister, locker stock.Locker, cache *cache.RedisClient, log logger.ZapLogger) stock.UseCase {
	return &stockUseCase{
		repo:     repo,
		products: products,
		locker:   locker,
		cache:    cache,
		logger:   log,
	}
}

func (uc *stockUseCase) ApplyAdjustment(ctx context.Context, input *dto.ApplyAdjustmentInput) (*model.StockLedger, error) {
	if input.SKU == "" {
		return nil, apperr.Validation("sku", "sku is required")
	}
	if !input.Type.Valid() {
		return nil, apperr.Validation("type", "type must be inward or deduction")
	}
	if input.Amount <= 0 {
		return nil, apperr.Validation("amount", "amount must be a positive integer, got %d", input.Amount)
	}

	lock, err := uc.obtainSKULock(ctx, input.TenantID, input.SKU)
	if err != nil {
		return nil, err
	}
	defer lock.Release(ctx)

	ledger, err := uc.repo.GetLedger(ctx, input.TenantID, input.SKU)
	if err != nil {
		return nil, apperr.Persistence("failed to load ledger", err)
	}
	if ledger == nil {
		return nil, apperr.NotFound("product %s not found", input.SKU)
	}

	physicalBefore := ledger.PhysicalStock()
	newValue := ledger.CounterValue(input.Type) + input.Amount
	projected := ledger.ProjectedPhysical(input.Type, newValue)

	if input.Type == model.AdjustmentDeduction && projected < 0 {
		return nil, apperr.InvalidAdjustment(projected,
			"deduction of %d would drive physical stock negative (projected %d)", input.Amount, projected)
	}

	now := time.Now()
	if input.Type == model.AdjustmentInward {
		ledger.InwardAddition = newValue
	} else {
		ledger.Deduction = newValue
	}
	ledger.UpdatedAt = now

	adj := &model.StockAdjustment{
		ID:             uuid.New().String(),
		TenantID:       input.TenantID,
		SKU:            input.SKU,
		Type:           input.Type,
		Amount:         input.Amount,
		CounterAfter:   newValue,
		PhysicalBefore: physicalBefore,
		PhysicalAfter:  projected,
		Actor:          input.Actor,
		Note:           input.Note,
		CreatedAt:      now,
	}

	if err := uc.repo.SaveLedgerWithAdjustment(ctx, ledger, adj); err != nil {
		return nil, apperr.Persistence("failed to persist adjustment", err)
	}

	uc.logger.Info("stock adjustment applied",
		zap.String("tenant_id", input.TenantID),
		zap.String("sku", input.SKU),
		zap.String("type", string(input.Type)),
		zap.Int64("amount", input.Amount),
		zap.Int64("physical_after", projected),
	)

	go uc.invalidateListCache(context.Background(), input.TenantID)

	return ledger, nil
}

func (uc *stockUseCase) CanDeduct(ctx context.Context, tenantID, sku string) (bool, error) {
	ledger, err := uc.repo.GetLedger(ctx, tenantID, sku)
	if err != nil {
		return false, apperr.Persistence("failed to load ledger", err)
	}
	if ledger == nil {
		return false, apperr.NotFound("product %s not found", sku)
	}
	return ledger.PhysicalStock() > 0, nil
}

func (uc *stockUseCase) GetLedger(ctx context.Context, tenantID, sku string) (*model.StockLedger, error) {
	ledger, err := uc.repo.GetLedger(ctx, tenantID, sku)
	if err != nil {
		return nil, apperr.Persistence("failed to load ledger", err)
	}
	if ledger == nil {
		return nil, apperr.NotFound("product %s not found", sku)
	}
	return ledger, nil
}

func (uc *stockUseCase) ListStock(ctx context.Context, filters *dto.ListStockFilters) ([]dto.StockRow, int, error) {
	normalizeListFilters(filters)

	cacheKey := uc.listCacheKey(filters)
	if cacheKey != "" {
		if rows, count, ok := uc.listFromCache(ctx, cacheKey); ok {
			return rows, count, nil
		}
	}

	products, err := uc.products.ListByTenant(ctx, filters.TenantID)
	if err != nil {
		return nil, 0, apperr.Persistence("failed to load products", err)
	}
	ledgers, err := uc.repo.ListLedgers(ctx, filters.TenantID)
	if err != nil {
		return nil, 0, apperr.Persistence("failed to load ledgers", err)
	}

	rows := buildRows(products, ledgers)
	page, total := applyListing(rows, filters)

	uc.storeListCache(ctx, cacheKey, page, total)

	return page, total, nil
}

func (uc *stockUseCase) ListAdjustments(ctx context.Context, filters *dto.AdjustmentFilters) ([]model.StockAdjustment, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = defaultPageSize
	}
	items, count, err := uc.repo.ListAdjustments(ctx, filters)
	if err != nil {
		return nil, 0, apperr.Persistence("failed to list adjustments", err)
	}
	return items, count, nil
}

// ApplyOrderEvent mutates the externally owned counters. Blocked stock is
// floored at zero on release so an out-of-order cancel cannot push it
// negative; the non-negative-physical invariant is deliberately not applied
// here (fulfillment must win even when the warehouse count drifted).
func (uc *stockUseCase) ApplyOrderEvent(ctx context.Context, input *dto.OrderEventInput) error {
	if input.Quantity <= 0 {
		return apperr.Validation("quantity", "quantity must be a positive integer, got %d", input.Quantity)
	}

	lock, err := uc.obtainSKULock(ctx, input.TenantID, input.SKU)
	if err != nil {
		return err
	}
	defer lock.Release(ctx)

	ledger, err := uc.repo.GetLedger(ctx, input.TenantID, input.SKU)
	if err != nil {
		return apperr.Persistence("failed to load ledger", err)
	}
	if ledger == nil {
		return apperr.NotFound("product %s not found", input.SKU)
	}

	switch input.EventType {
	case dto.OrderConfirmed:
		ledger.BlockedStock += input.Quantity
	case dto.OrderFulfilled:
		ledger.AutoDeduction += input.Quantity
		ledger.BlockedStock = floorZero(ledger.BlockedStock - input.Quantity)
	case dto.OrderCancelled:
		ledger.BlockedStock = floorZero(ledger.BlockedStock - input.Quantity)
	case dto.OrderReturned:
		ledger.AutoAddition += input.Quantity
	default:
		return apperr.Validation("event_type", "unknown order event %q", input.EventType)
	}
	ledger.UpdatedAt = time.Now()

	if err := uc.repo.SaveLedger(ctx, ledger); err != nil {
		return apperr.Persistence("failed to persist order event", err)
	}

	go uc.invalidateListCache(context.Background(), input.TenantID)

	return nil
}

func (uc *stockUseCase) obtainSKULock(ctx context.Context, tenantID, sku string) (stock.LockHandle, error) {
	key := fmt.Sprintf("lock:stock:%s:%s", tenantID, sku)
	lock, err := uc.locker.Obtain(ctx, key, lockTTL)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, apperr.Unavailable("stock for %s is being adjusted, try again", sku)
		}
		uc.logger.Error("failed to obtain stock lock", zap.String("sku", sku), zap.Error(err))
		return nil, apperr.Unavailable("stock lock unavailable for %s", sku)
	}
	return lock, nil
}

func floorZero(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

type cachedListing struct {
	Rows  []dto.StockRow `json:"rows"`
	Count int            `json:"count"`
}

func (uc *stockUseCase) listCacheKey(filters *dto.ListStockFilters) string {
	if uc.cache == nil {
		return ""
	}
	data, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("stock:list:%s:%x", filters.TenantID, md5.Sum(data))
}

func (uc *stockUseCase) listFromCache(ctx context.Context, key string) ([]dto.StockRow, int, bool) {
	val, err := uc.cache.Client.Get(ctx, key).Result()
	if err != nil {
		return nil, 0, false
	}
	var cached cachedListing
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, 0, false
	}
	return cached.Rows, cached.Count, true
}

func (uc *stockUseCase) storeListCache(ctx context.Context, key string, rows []dto.StockRow, count int) {
	if key == "" {
		return
	}
	data, err := json.Marshal(cachedListing{Rows: rows, Count: count})
	if err != nil {
		return
	}
	uc.cache.Client.Set(ctx, key, data, listCacheTTL)
}

func (uc *stockUseCase) invalidateListCache(ctx context.Context, tenantID string) {
	if uc.cache == nil {
		return
	}
	pattern := fmt.Sprintf("stock:list:%s:*", tenantID)
	keys, err := uc.cache.Client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}
