package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/opsdash/inventory-service/internal/apperr"
	"github.com/opsdash/inventory-service/internal/auth"
	"github.com/opsdash/inventory-service/internal/httpapi"
	"github.com/opsdash/inventory-service/internal/model"
	"github.com/opsdash/inventory-service/internal/product"
	"github.com/opsdash/inventory-service/internal/product/dto"
	"github.com/opsdash/inventory-service/pkg/logger"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{uc: uc, logger: log}
}

func (h *ProductHandler) Register(r gin.IRouter) {
	r.POST("/products", h.Create)
	r.GET("/products", h.Search)
	r.GET("/products/:sku", h.Get)
	r.PUT("/products/:sku", h.Update)
	r.DELETE("/products/:sku", h.Delete)
}

type createProductRequest struct {
	SKU          string            `json:"sku" binding:"required"`
	Name         string            `json:"name" binding:"required"`
	Category     string            `json:"category"`
	WeightGrams  int               `json:"weight_grams" binding:"gte=0"`
	Price        *float64          `json:"price"`
	Description  *string           `json:"description"`
	VariantRefs  model.VariantRefs `json:"variant_refs"`
	OpeningStock int64             `json:"opening_stock" binding:"gte=0"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BindError(c, err)
		return
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), &dto.CreateProductInput{
		TenantID:     tenantID,
		SKU:          req.SKU,
		Name:         req.Name,
		Category:     req.Category,
		WeightGrams:  req.WeightGrams,
		Price:        req.Price,
		Description:  req.Description,
		VariantRefs:  req.VariantRefs,
		OpeningStock: req.OpeningStock,
	})
	if err != nil {
		httpapi.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) Get(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	p, err := h.uc.GetProduct(c.Request.Context(), tenantID, c.Param("sku"))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type updateProductRequest struct {
	Name        string            `json:"name" binding:"required"`
	Category    string            `json:"category"`
	WeightGrams int               `json:"weight_grams" binding:"gte=0"`
	Price       *float64          `json:"price"`
	Description *string           `json:"description"`
	VariantRefs model.VariantRefs `json:"variant_refs"`
}

func (h *ProductHandler) Update(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BindError(c, err)
		return
	}

	p, diff, err := h.uc.UpdateProduct(c.Request.Context(), &dto.UpdateProductInput{
		TenantID:    tenantID,
		SKU:         c.Param("sku"),
		Name:        req.Name,
		Category:    req.Category,
		WeightGrams: req.WeightGrams,
		Price:       req.Price,
		Description: req.Description,
		VariantRefs: req.VariantRefs,
	})
	if err != nil {
		httpapi.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": p,
		"changed": diff,
	})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	if err := h.uc.DeleteProduct(c.Request.Context(), tenantID, c.Param("sku")); err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ProductHandler) Search(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	products, total, err := h.uc.SearchProducts(c.Request.Context(), &dto.ProductFilters{
		TenantID:    tenantID,
		SearchQuery: c.Query("query"),
		Category:    c.Query("category"),
		Page:        queryInt(c, "page", 1),
		PageSize:    queryInt(c, "pageSize", 50),
	})
	if err != nil {
		httpapi.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      products,
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
