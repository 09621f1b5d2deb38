package category

import (
	"context"

	"github.com/opsdash/inventory-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, tenantID, id string) (*model.Category, error)
	FindByName(ctx context.Context, tenantID, name string) (*model.Category, error)
	ListByTenant(ctx context.Context, tenantID string) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, tenantID, id string) error
}
