package category

import (
	"context"

	"github.com/opsdash/inventory-service/internal/category/dto"
	"github.com/opsdash/inventory-service/internal/model"
)

type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)
	ListCategories(ctx context.Context, tenantID string) ([]model.Category, error)
	UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, tenantID, id string) error
}
