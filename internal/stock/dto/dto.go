package dto

import "github.com/opsdash/inventory-service/internal/model"

type StockFilter string

const (
	StockFilterAll StockFilter = "all"
	StockFilterIn  StockFilter = "in-stock"
	StockFilterLow StockFilter = "low-stock"
	StockFilterOut StockFilter = "out-of-stock"
)

type SortField string

const (
	SortByName      SortField = "name"
	SortBySKU       SortField = "sku"
	SortByPhysical  SortField = "physicalStock"
	SortByAvailable SortField = "availableStock"
)

type ListStockFilters struct {
	TenantID    string
	Query       string // case-insensitive substring on name or SKU
	Category    string // exact match
	StockFilter StockFilter
	SortField   SortField
	SortDir     string // asc, desc
	Page        int
	PageSize    int
}

// StockRow is the listing read-model row: the product plus its derived
// stock fields.
type StockRow struct {
	Product        model.Product     `json:"product"`
	Ledger         model.StockLedger `json:"ledger"`
	PhysicalStock  int64             `json:"physical_stock"`
	AvailableStock int64             `json:"available_stock"`
	StockStatus    model.StockStatus `json:"stock_status"`
	Oversold       bool              `json:"oversold"`
}

type AdjustmentFilters struct {
	TenantID string
	SKU      string
	Type     model.AdjustmentType
	Page     int
	PageSize int
}
