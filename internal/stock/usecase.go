package stock

import (
	"context"

	"github.com/opsdash/inventory-service/internal/model"
	"github.com/opsdash/inventory-service/internal/stock/dto"
)

type UseCase interface {
	ApplyAdjustment(ctx context.Context, input *dto.ApplyAdjustmentInput) (*model.StockLedger, error)

	// CanDeduct is the cheap pre-check used to gate the deduction flow in the
	// UI. The authoritative invariant check lives in ApplyAdjustment.
	CanDeduct(ctx context.Context, tenantID, sku string) (bool, error)

	GetLedger(ctx context.Context, tenantID, sku string) (*model.StockLedger, error)
	ListStock(ctx context.Context, filters *dto.ListStockFilters) ([]dto.StockRow, int, error)
	ListAdjustments(ctx context.Context, filters *dto.AdjustmentFilters) ([]model.StockAdjustment, int, error)

	// ApplyOrderEvent applies a collaborator mutation (order lifecycle) to the
	// externally owned counters. Not subject to the manual-deduction invariant.
	ApplyOrderEvent(ctx context.Context, input *dto.OrderEventInput) error
}
