package stock

import (
	"context"

	"github.com/opsdash/inventory-service/internal/model"
	"github.com/opsdash/inventory-service/internal/stock/dto"
)

type Repository interface {
	// GetLedger returns nil, nil when the SKU has no ledger for the tenant.
	GetLedger(ctx context.Context, tenantID, sku string) (*model.StockLedger, error)
	ListLedgers(ctx context.Context, tenantID string) ([]model.StockLedger, error)

	// SaveLedgerWithAdjustment persists the updated ledger counters and
	// appends the audit record in a single transaction.
	SaveLedgerWithAdjustment(ctx context.Context, ledger *model.StockLedger, adj *model.StockAdjustment) error

	// SaveLedger persists counter changes made by order-event application
	// (auto counters and blocked stock).
	SaveLedger(ctx context.Context, ledger *model.StockLedger) error

	ListAdjustments(ctx context.Context, filters *dto.AdjustmentFilters) ([]model.StockAdjustment, int, error)
}
