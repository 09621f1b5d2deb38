package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

type Product struct {
	BaseModel
	TenantID    string      `db:"tenant_id" json:"tenant_id"`
	SKU         string      `db:"sku" json:"sku"`
	Name        string      `db:"name" json:"name"`
	Category    string      `db:"category" json:"category"`
	WeightGrams int         `db:"weight_grams" json:"weight_grams"`
	Price       *float64    `db:"price" json:"price"`
	Description *string     `db:"description" json:"description"`
	VariantRefs VariantRefs `db:"variant_refs" json:"variant_refs"`
}

// VariantRef points at an externally mapped storefront variant (e.g. a
// Shopify variant id). The mapping itself is owned by the storefront sync;
// this service only stores the references.
type VariantRef struct {
	Store     string `json:"store"`
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
}

// VariantRefs is stored as a JSONB column.
type VariantRefs []VariantRef

func (v VariantRefs) Value() (driver.Value, error) {
	if v == nil {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (v *VariantRefs) Scan(src any) error {
	if src == nil {
		*v = nil
		return nil
	}
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, v)
	case string:
		return json.Unmarshal([]byte(data), v)
	default:
		return errors.New("variant_refs: unsupported scan source")
	}
}
