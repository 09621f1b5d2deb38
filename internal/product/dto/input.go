package dto

import "github.com/opsdash/inventory-service/internal/model"

type CreateProductInput struct {
	TenantID     string
	SKU          string
	Name         string
	Category     string
	WeightGrams  int
	Price        *float64
	Description  *string
	VariantRefs  model.VariantRefs
	OpeningStock int64
}

type UpdateProductInput struct {
	TenantID    string
	SKU         string
	Name        string
	Category    string
	WeightGrams int
	Price       *float64
	Description *string
	VariantRefs model.VariantRefs
}
