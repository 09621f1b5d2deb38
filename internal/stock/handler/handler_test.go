package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/opsdash/inventory-service/internal/apperr"
	"github.com/opsdash/inventory-service/internal/auth"
	"github.com/opsdash/inventory-service/internal/model"
	"github.com/opsdash/inventory-service/internal/stock/dto"
	"github.com/opsdash/inventory-service/internal/stock/handler"
	"github.com/opsdash/inventory-service/pkg/logger"
)

type MockUseCase struct {
	mock.Mock
}

func (m *MockUseCase) ApplyAdjustment(ctx context.Context, input *dto.ApplyAdjustmentInput) (*model.StockLedger, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StockLedger), args.Error(1)
}

func (m *MockUseCase) CanDeduct(ctx context.Context, tenantID, sku string) (bool, error) {
	args := m.Called(ctx, tenantID, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockUseCase) GetLedger(ctx context.Context, tenantID, sku string) (*model.StockLedger, error) {
	args := m.Called(ctx, tenantID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StockLedger), args.Error(1)
}

func (m *MockUseCase) ListStock(ctx context.Context, f *dto.ListStockFilters) ([]dto.StockRow, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]dto.StockRow), args.Int(1), args.Error(2)
}

func (m *MockUseCase) ListAdjustments(ctx context.Context, f *dto.AdjustmentFilters) ([]model.StockAdjustment, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.StockAdjustment), args.Int(1), args.Error(2)
}

func (m *MockUseCase) ApplyOrderEvent(ctx context.Context, input *dto.OrderEventInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func newRouter(uc *MockUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewZapLogger(&logger.ZapLoggerConfig{Level: "error", Encoding: "console"})
	r := gin.New()
	v1 := r.Group("/v1", auth.Middleware())
	handler.NewStockHandler(uc, log).Register(v1)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set(auth.TenantHeader, "t1")
	req.Header.Set(auth.ActorHeader, "ops@acme")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestApplyAdjustmentOK(t *testing.T) {
	uc := new(MockUseCase)
	r := newRouter(uc)

	ledger := &model.StockLedger{TenantID: "t1", SKU: "SKU-1", OpeningStock: 10, InwardAddition: 5, BlockedStock: 2}
	uc.On("ApplyAdjustment", mock.Anything, mock.MatchedBy(func(in *dto.ApplyAdjustmentInput) bool {
		return in.TenantID == "t1" && in.SKU == "SKU-1" &&
			in.Type == model.AdjustmentInward && in.Amount == 5 && in.Actor == "ops@acme"
	})).Return(ledger, nil)

	w := doRequest(r, http.MethodPost, "/v1/stock/SKU-1/adjustments", `{"type":"inward","amount":5}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		OK             bool  `json:"ok"`
		PhysicalStock  int64 `json:"physical_stock"`
		AvailableStock int64 `json:"available_stock"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, int64(15), body.PhysicalStock)
	assert.Equal(t, int64(13), body.AvailableStock)
}

func TestApplyAdjustmentRejectsBadPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"UnknownType", `{"type":"transfer","amount":5}`},
		{"ZeroAmount", `{"type":"inward","amount":0}`},
		{"NegativeAmount", `{"type":"deduction","amount":-2}`},
		{"FractionalAmount", `{"type":"inward","amount":2.5}`},
		{"MissingType", `{"amount":5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockUseCase)
			r := newRouter(uc)

			w := doRequest(r, http.MethodPost, "/v1/stock/SKU-1/adjustments", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["ok"])
			assert.Equal(t, "validation", body["errorKind"])
			uc.AssertNotCalled(t, "ApplyAdjustment", mock.Anything, mock.Anything)
		})
	}
}

func TestApplyAdjustmentInvalidAdjustmentStatus(t *testing.T) {
	uc := new(MockUseCase)
	r := newRouter(uc)

	uc.On("ApplyAdjustment", mock.Anything, mock.Anything).
		Return(nil, apperr.InvalidAdjustment(-5, "deduction of 20 would drive physical stock negative (projected -5)"))

	w := doRequest(r, http.MethodPost, "/v1/stock/SKU-1/adjustments", `{"type":"deduction","amount":20}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		OK        bool   `json:"ok"`
		ErrorKind string `json:"errorKind"`
		Projected *int64 `json:"projectedPhysicalStock"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.OK)
	assert.Equal(t, "invalid_adjustment", body.ErrorKind)
	require.NotNil(t, body.Projected)
	assert.Equal(t, int64(-5), *body.Projected)
}

func TestErrorKindStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{apperr.NotFound("product GHOST not found"), http.StatusNotFound},
		{apperr.Unavailable("stock lock unavailable"), http.StatusServiceUnavailable},
		{apperr.Persistence("write failed", assert.AnError), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		uc := new(MockUseCase)
		r := newRouter(uc)
		uc.On("ApplyAdjustment", mock.Anything, mock.Anything).Return(nil, tt.err)

		w := doRequest(r, http.MethodPost, "/v1/stock/SKU-1/adjustments", `{"type":"inward","amount":1}`)
		assert.Equal(t, tt.status, w.Code)
	}
}

func TestMissingTenantHeader(t *testing.T) {
	uc := new(MockUseCase)
	r := newRouter(uc)

	req := httptest.NewRequest(http.MethodGet, "/v1/stock", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "ListStock", mock.Anything, mock.Anything)
}

func TestListStockPassesFilters(t *testing.T) {
	uc := new(MockUseCase)
	r := newRouter(uc)

	uc.On("ListStock", mock.Anything, mock.MatchedBy(func(f *dto.ListStockFilters) bool {
		return f.TenantID == "t1" && f.Query == "mug" && f.Category == "kitchen" &&
			f.StockFilter == dto.StockFilterLow && f.SortField == dto.SortByAvailable &&
			f.SortDir == "desc" && f.Page == 2 && f.PageSize == 10
	})).Return([]dto.StockRow{}, 0, nil)

	w := doRequest(r, http.MethodGet,
		"/v1/stock?query=mug&category=kitchen&stockFilter=low-stock&sortField=availableStock&sortDirection=desc&page=2&pageSize=10", "")
	assert.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}

func TestGetLedger(t *testing.T) {
	uc := new(MockUseCase)
	r := newRouter(uc)

	ledger := &model.StockLedger{TenantID: "t1", SKU: "SKU-1", OpeningStock: 1, BlockedStock: 4}
	uc.On("GetLedger", mock.Anything, "t1", "SKU-1").Return(ledger, nil)
	uc.On("CanDeduct", mock.Anything, "t1", "SKU-1").Return(true, nil)

	w := doRequest(r, http.MethodGet, "/v1/stock/SKU-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		AvailableStock int64  `json:"available_stock"`
		StockStatus    string `json:"stock_status"`
		Oversold       bool   `json:"oversold"`
		CanDeduct      bool   `json:"can_deduct"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(-3), body.AvailableStock)
	assert.Equal(t, "out-of-stock", body.StockStatus)
	assert.True(t, body.Oversold)
	assert.True(t, body.CanDeduct)
}
