package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/opsdash/inventory-service/internal/apperr"
	"github.com/opsdash/inventory-service/internal/auth"
	"github.com/opsdash/inventory-service/internal/httpapi"
	"github.com/opsdash/inventory-service/internal/model"
	"github.com/opsdash/inventory-service/internal/stock"
	"github.com/opsdash/inventory-service/internal/stock/dto"
	"github.com/opsdash/inventory-service/pkg/logger"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("adjustmenttype", func(fl validator.FieldLevel) bool {
			return model.AdjustmentType(fl.Field().String()).Valid()
		})
	}
}

type StockHandler struct {
	uc     stock.UseCase
	logger logger.ZapLogger
}

func NewStockHandler(uc stock.UseCase, log logger.ZapLogger) *StockHandler {
	return &StockHandler{uc: uc, logger: log}
}

func (h *StockHandler) Register(r gin.IRouter) {
	r.GET("/stock", h.ListStock)
	r.GET("/stock/:sku", h.GetLedger)
	r.POST("/stock/:sku/adjustments", h.ApplyAdjustment)
	r.GET("/stock/:sku/adjustments", h.ListSKUAdjustments)
	r.GET("/adjustments", h.ListAdjustments)
}

type adjustmentRequest struct {
	Type   string `json:"type" binding:"required,adjustmenttype"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Note   string `json:"note"`
}

func (h *StockHandler) ApplyAdjustment(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	var req adjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BindError(c, err)
		return
	}

	ledger, err := h.uc.ApplyAdjustment(c.Request.Context(), &dto.ApplyAdjustmentInput{
		TenantID: tenantID,
		SKU:      c.Param("sku"),
		Type:     model.AdjustmentType(req.Type),
		Amount:   req.Amount,
		Actor:    auth.GetActor(c),
		Note:     req.Note,
	})
	if err != nil {
		httpapi.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":              true,
		"ledger":          ledger,
		"physical_stock":  ledger.PhysicalStock(),
		"available_stock": ledger.AvailableStock(),
	})
}

func (h *StockHandler) GetLedger(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	sku := c.Param("sku")
	ledger, err := h.uc.GetLedger(c.Request.Context(), tenantID, sku)
	if err != nil {
		httpapi.Error(c, err)
		return
	}

	canDeduct, err := h.uc.CanDeduct(c.Request.Context(), tenantID, sku)
	if err != nil {
		httpapi.Error(c, err)
		return
	}

	available := ledger.AvailableStock()
	c.JSON(http.StatusOK, gin.H{
		"ledger":          ledger,
		"physical_stock":  ledger.PhysicalStock(),
		"available_stock": available,
		"stock_status":    ledger.Status(),
		"oversold":        available < 0,
		"can_deduct":      canDeduct,
	})
}

func (h *StockHandler) ListStock(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	filters := &dto.ListStockFilters{
		TenantID:    tenantID,
		Query:       c.Query("query"),
		Category:    c.Query("category"),
		StockFilter: dto.StockFilter(c.DefaultQuery("stockFilter", "all")),
		SortField:   dto.SortField(c.Query("sortField")),
		SortDir:     c.DefaultQuery("sortDirection", "asc"),
		Page:        queryInt(c, "page", 1),
		PageSize:    queryInt(c, "pageSize", 50),
	}

	rows, total, err := h.uc.ListStock(c.Request.Context(), filters)
	if err != nil {
		httpapi.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      rows,
		"totalCount": total,
	})
}

func (h *StockHandler) ListSKUAdjustments(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	h.listAdjustments(c, &dto.AdjustmentFilters{
		TenantID: tenantID,
		SKU:      c.Param("sku"),
		Type:     model.AdjustmentType(c.Query("type")),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 50),
	})
}

func (h *StockHandler) ListAdjustments(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	h.listAdjustments(c, &dto.AdjustmentFilters{
		TenantID: tenantID,
		SKU:      c.Query("sku"),
		Type:     model.AdjustmentType(c.Query("type")),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 50),
	})
}

func (h *StockHandler) listAdjustments(c *gin.Context, filters *dto.AdjustmentFilters) {
	items, total, err := h.uc.ListAdjustments(c.Request.Context(), filters)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"totalCount": total,
	})
}

func requireTenant(c *gin.Context) (string, bool) {
	tenantID := auth.GetTenantID(c)
	if tenantID == "" {
		httpapi.Error(c, apperr.Validation("tenant", "missing %s header", auth.TenantHeader))
		return "", false
	}
	return tenantID, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
