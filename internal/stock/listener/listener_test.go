package listener

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/opsdash/inventory-service/internal/apperr"
	"github.com/opsdash/inventory-service/internal/model"
	"github.com/opsdash/inventory-service/internal/stock/dto"
	"github.com/opsdash/inventory-service/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) ApplyAdjustment(ctx context.Context, input *dto.ApplyAdjustmentInput) (*model.StockLedger, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StockLedger), args.Error(1)
}

func (m *mockUseCase) CanDeduct(ctx context.Context, tenantID, sku string) (bool, error) {
	args := m.Called(ctx, tenantID, sku)
	return args.Bool(0), args.Error(1)
}

func (m *mockUseCase) GetLedger(ctx context.Context, tenantID, sku string) (*model.StockLedger, error) {
	args := m.Called(ctx, tenantID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StockLedger), args.Error(1)
}

func (m *mockUseCase) ListStock(ctx context.Context, f *dto.ListStockFilters) ([]dto.StockRow, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]dto.StockRow), args.Int(1), args.Error(2)
}

func (m *mockUseCase) ListAdjustments(ctx context.Context, f *dto.AdjustmentFilters) ([]model.StockAdjustment, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.StockAdjustment), args.Int(1), args.Error(2)
}

func (m *mockUseCase) ApplyOrderEvent(ctx context.Context, input *dto.OrderEventInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func newListener(uc *mockUseCase) *OrderEventListener {
	log := logger.NewZapLogger(&logger.ZapLoggerConfig{Level: "error", Encoding: "console"})
	return NewOrderEventListener(nil, uc, log)
}

func TestProcessMessageAppliesEachItem(t *testing.T) {
	uc := new(mockUseCase)
	l := newListener(uc)

	uc.On("ApplyOrderEvent", mock.Anything, &dto.OrderEventInput{
		TenantID:  "t1",
		SKU:       "SKU-1",
		EventType: dto.OrderConfirmed,
		Quantity:  2,
		OrderID:   "ord-42",
	}).Return(nil)
	uc.On("ApplyOrderEvent", mock.Anything, &dto.OrderEventInput{
		TenantID:  "t1",
		SKU:       "SKU-2",
		EventType: dto.OrderConfirmed,
		Quantity:  1,
		OrderID:   "ord-42",
	}).Return(nil)

	l.processMessage(context.Background(), []byte(`{
		"event_id": "evt-1",
		"event_type": "order.confirmed",
		"tenant_id": "t1",
		"order_id": "ord-42",
		"items": [
			{"sku": "SKU-1", "quantity": 2},
			{"sku": "SKU-2", "quantity": 1}
		]
	}`))

	uc.AssertExpectations(t)
}

func TestProcessMessageSkipsUnknownEventType(t *testing.T) {
	uc := new(mockUseCase)
	l := newListener(uc)

	l.processMessage(context.Background(), []byte(`{
		"event_type": "order.shipped",
		"tenant_id": "t1",
		"items": [{"sku": "SKU-1", "quantity": 2}]
	}`))

	uc.AssertNotCalled(t, "ApplyOrderEvent", mock.Anything, mock.Anything)
}

func TestProcessMessageSkipsMalformedPayload(t *testing.T) {
	uc := new(mockUseCase)
	l := newListener(uc)

	l.processMessage(context.Background(), []byte(`{not json`))

	uc.AssertNotCalled(t, "ApplyOrderEvent", mock.Anything, mock.Anything)
}

func TestProcessMessageContinuesPastUnknownSKU(t *testing.T) {
	uc := new(mockUseCase)
	l := newListener(uc)

	uc.On("ApplyOrderEvent", mock.Anything, mock.MatchedBy(func(in *dto.OrderEventInput) bool {
		return in.SKU == "GHOST"
	})).Return(apperr.NotFound("stock ledger for GHOST not found"))
	uc.On("ApplyOrderEvent", mock.Anything, mock.MatchedBy(func(in *dto.OrderEventInput) bool {
		return in.SKU == "SKU-2"
	})).Return(nil)

	l.processMessage(context.Background(), []byte(`{
		"event_type": "order.fulfilled",
		"tenant_id": "t1",
		"order_id": "ord-7",
		"items": [
			{"sku": "GHOST", "quantity": 1},
			{"sku": "SKU-2", "quantity": 3}
		]
	}`))

	require.Equal(t, 2, len(uc.Calls))
	uc.AssertExpectations(t)
}
