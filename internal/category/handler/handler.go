package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opsdash/inventory-service/internal/apperr"
	"github.com/opsdash/inventory-service/internal/auth"
	"github.com/opsdash/inventory-service/internal/category"
	"github.com/opsdash/inventory-service/internal/category/dto"
	"github.com/opsdash/inventory-service/internal/httpapi"
	"github.com/opsdash/inventory-service/pkg/logger"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{uc: uc, logger: log}
}

func (h *CategoryHandler) Register(r gin.IRouter) {
	r.POST("/categories", h.Create)
	r.GET("/categories", h.List)
	r.PUT("/categories/:id", h.Update)
	r.DELETE("/categories/:id", h.Delete)
}

type categoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	SortOrder   int     `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BindError(c, err)
		return
	}

	created, err := h.uc.CreateCategory(c.Request.Context(), &dto.CreateCategoryInput{
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *CategoryHandler) List(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	categories, err := h.uc.ListCategories(c.Request.Context(), tenantID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": categories})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BindError(c, err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	updated, err := h.uc.UpdateCategory(c.Request.Context(), &dto.UpdateCategoryInput{
		TenantID:    tenantID,
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    isActive,
	})
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	if err := h.uc.DeleteCategory(c.Request.Context(), tenantID, c.Param("id")); err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func requireTenant(c *gin.Context) (string, bool) {
	tenantID := auth.GetTenantID(c)
	if tenantID == "" {
		httpapi.Error(c, apperr.Validation("tenant", "missing %s header", auth.TenantHeader))
		return "", false
	}
	return tenantID, true
}
