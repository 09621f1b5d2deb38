package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/opsdash/inventory-service/internal/apperr"
	"github.com/opsdash/inventory-service/internal/category"
	"github.com/opsdash/inventory-service/internal/category/dto"
	"github.com/opsdash/inventory-service/internal/model"
	"github.com/opsdash/inventory-service/pkg/logger"
)

type categoryUseCase struct {
	repo   category.Repository
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	if input.Name == "" {
		return nil, apperr.Validation("name", "name is required")
	}

	existing, err := uc.repo.FindByName(ctx, input.TenantID, input.Name)
	if err != nil {
		return nil, apperr.Persistence("failed to check category name", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("category %s already exists", input.Name)
	}

	now := time.Now()
	c := &model.Category{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		TenantID:    input.TenantID,
		Name:        input.Name,
		Description: input.Description,
		SortOrder:   input.SortOrder,
		IsActive:    true,
	}

	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, apperr.Persistence("failed to create category", err)
	}
	return c, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, tenantID string) ([]model.Category, error) {
	categories, err := uc.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, apperr.Persistence("failed to list categories", err)
	}
	return categories, nil
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	if input.Name == "" {
		return nil, apperr.Validation("name", "name is required")
	}

	c, err := uc.repo.FindByID(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, apperr.Persistence("failed to load category", err)
	}
	if c == nil {
		return nil, apperr.NotFound("category not found")
	}

	c.Name = input.Name
	c.Description = input.Description
	c.SortOrder = input.SortOrder
	c.IsActive = input.IsActive
	c.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, apperr.Persistence("failed to update category", err)
	}
	return c, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, tenantID, id string) error {
	c, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return apperr.Persistence("failed to load category", err)
	}
	if c == nil {
		return nil
	}
	return uc.repo.Delete(ctx, tenantID, id)
}
