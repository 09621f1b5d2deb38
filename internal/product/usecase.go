package product

import (
	"context"

	"github.com/opsdash/inventory-service/internal/model"
	"github.com/opsdash/inventory-service/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, tenantID, sku string) (*model.Product, error)

	// UpdateProduct applies the new field values and reports the
	// field-by-field diff back to the caller.
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, dto.FieldDiff, error)

	DeleteProduct(ctx context.Context, tenantID, sku string) error
	SearchProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
}
