package product

import (
	"context"

	"github.com/opsdash/inventory-service/internal/model"
	"github.com/opsdash/inventory-service/internal/product/dto"
)

type Repository interface {
	// CreateWithLedger inserts the product row and its opening stock ledger
	// in one transaction.
	CreateWithLedger(ctx context.Context, p *model.Product, ledger *model.StockLedger) error

	// FindBySKU returns nil, nil when the SKU does not exist for the tenant.
	FindBySKU(ctx context.Context, tenantID, sku string) (*model.Product, error)
	ListByTenant(ctx context.Context, tenantID string) ([]model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)

	Update(ctx context.Context, p *model.Product) error

	// Delete removes the product and its ledger; adjustment records are kept
	// for audit.
	Delete(ctx context.Context, tenantID, sku string) error

	IsSKUUnique(ctx context.Context, tenantID, sku string) (bool, error)
}
