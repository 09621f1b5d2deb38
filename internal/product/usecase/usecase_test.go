package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/opsdash/inventory-service/internal/apperr"
	"github.com/opsdash/inventory-service/internal/model"
	"github.com/opsdash/inventory-service/internal/product"
	"github.com/opsdash/inventory-service/internal/product/dto"
	"github.com/opsdash/inventory-service/internal/product/usecase"
	"github.com/opsdash/inventory-service/pkg/logger"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateWithLedger(ctx context.Context, p *model.Product, ledger *model.StockLedger) error {
	args := m.Called(ctx, p, ledger)
	return args.Error(0)
}

func (m *MockRepository) FindBySKU(ctx context.Context, tenantID, sku string) (*model.Product, error) {
	args := m.Called(ctx, tenantID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockRepository) ListByTenant(ctx context.Context, tenantID string) ([]model.Product, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Product), args.Int(1), args.Error(2)
}

func (m *MockRepository) Update(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, tenantID, sku string) error {
	args := m.Called(ctx, tenantID, sku)
	return args.Error(0)
}

func (m *MockRepository) IsSKUUnique(ctx context.Context, tenantID, sku string) (bool, error) {
	args := m.Called(ctx, tenantID, sku)
	return args.Bool(0), args.Error(1)
}

func newUseCase(repo *MockRepository) product.UseCase {
	log := logger.NewZapLogger(&logger.ZapLoggerConfig{Level: "error", Encoding: "console"})
	return usecase.NewProductUseCase(repo, nil, nil, log)
}

func TestCreateProduct(t *testing.T) {
	repo := new(MockRepository)
	uc := newUseCase(repo)

	repo.On("IsSKUUnique", mock.Anything, "t1", "TS-001").Return(true, nil)
	repo.On("CreateWithLedger", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	p, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		TenantID:     "t1",
		SKU:          "TS-001",
		Name:         "Blue T-Shirt",
		Category:     "apparel",
		WeightGrams:  180,
		OpeningStock: 40,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "t1", p.TenantID)

	ledger := repo.Calls[1].Arguments.Get(2).(*model.StockLedger)
	assert.Equal(t, "TS-001", ledger.SKU)
	assert.Equal(t, int64(40), ledger.OpeningStock)
	assert.Equal(t, int64(40), ledger.PhysicalStock())
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	repo := new(MockRepository)
	uc := newUseCase(repo)

	repo.On("IsSKUUnique", mock.Anything, "t1", "TS-001").Return(false, nil)

	_, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		TenantID: "t1",
		SKU:      "TS-001",
		Name:     "Blue T-Shirt",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	repo.AssertNotCalled(t, "CreateWithLedger", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateProductValidation(t *testing.T) {
	repo := new(MockRepository)
	uc := newUseCase(repo)

	_, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{TenantID: "t1", Name: "x"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = uc.CreateProduct(context.Background(), &dto.CreateProductInput{TenantID: "t1", SKU: "S"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		TenantID: "t1", SKU: "S", Name: "x", OpeningStock: -1,
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdateProductReportsDiff(t *testing.T) {
	repo := new(MockRepository)
	uc := newUseCase(repo)

	oldPrice := 9.99
	existing := &model.Product{
		TenantID: "t1",
		SKU:      "TS-001",
		Name:     "Blue T-Shirt",
		Category: "apparel",
		Price:    &oldPrice,
	}
	repo.On("FindBySKU", mock.Anything, "t1", "TS-001").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	newPrice := 12.50
	updated, diff, err := uc.UpdateProduct(context.Background(), &dto.UpdateProductInput{
		TenantID: "t1",
		SKU:      "TS-001",
		Name:     "Navy T-Shirt",
		Category: "apparel",
		Price:    &newPrice,
	})
	require.NoError(t, err)

	assert.Equal(t, "Navy T-Shirt", updated.Name)
	require.Len(t, diff, 2)
	assert.Equal(t, dto.FieldChange{From: "Blue T-Shirt", To: "Navy T-Shirt"}, diff["name"])
	assert.Contains(t, diff, "price")
	assert.NotContains(t, diff, "category")
}

func TestUpdateProductNoChangesSkipsWrite(t *testing.T) {
	repo := new(MockRepository)
	uc := newUseCase(repo)

	existing := &model.Product{TenantID: "t1", SKU: "TS-001", Name: "Blue T-Shirt"}
	repo.On("FindBySKU", mock.Anything, "t1", "TS-001").Return(existing, nil)

	_, diff, err := uc.UpdateProduct(context.Background(), &dto.UpdateProductInput{
		TenantID: "t1",
		SKU:      "TS-001",
		Name:     "Blue T-Shirt",
	})
	require.NoError(t, err)
	assert.Empty(t, diff)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProductNotFound(t *testing.T) {
	repo := new(MockRepository)
	uc := newUseCase(repo)

	repo.On("FindBySKU", mock.Anything, "t1", "GHOST").Return(nil, nil)

	_, _, err := uc.UpdateProduct(context.Background(), &dto.UpdateProductInput{
		TenantID: "t1",
		SKU:      "GHOST",
		Name:     "x",
	})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteProductNotFound(t *testing.T) {
	repo := new(MockRepository)
	uc := newUseCase(repo)

	repo.On("FindBySKU", mock.Anything, "t1", "GHOST").Return(nil, nil)

	err := uc.DeleteProduct(context.Background(), "t1", "GHOST")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchProductsFallsBackToDatabase(t *testing.T) {
	repo := new(MockRepository)
	uc := newUseCase(repo) // no search client wired

	want := []model.Product{{SKU: "TS-001"}}
	repo.On("FindAll", mock.Anything, mock.Anything).Return(want, 1, nil)

	got, total, err := uc.SearchProducts(context.Background(), &dto.ProductFilters{
		TenantID:    "t1",
		SearchQuery: "shirt",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, want, got)
}
