package usecase

import (
	"sort"
	"strings"

	"github.com/opsdash/inventory-service/internal/model"
	"github.com/opsdash/inventory-service/internal/stock/dto"
)

func normalizeListFilters(f *dto.ListStockFilters) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	if f.StockFilter == "" {
		f.StockFilter = dto.StockFilterAll
	}
	if f.SortDir == "" {
		f.SortDir = "asc"
	}
}

// buildRows joins the tenant's products with their ledgers. A product
// without a ledger row gets a zero ledger: missing counters default to 0.
func buildRows(products []model.Product, ledgers []model.StockLedger) []dto.StockRow {
	bySKU := make(map[string]model.StockLedger, len(ledgers))
	for _, l := range ledgers {
		bySKU[l.SKU] = l
	}

	rows := make([]dto.StockRow, 0, len(products))
	for _, p := range products {
		ledger := bySKU[p.SKU]
		ledger.TenantID = p.TenantID
		ledger.SKU = p.SKU

		available := ledger.AvailableStock()
		rows = append(rows, dto.StockRow{
			Product:        p,
			Ledger:         ledger,
			PhysicalStock:  ledger.PhysicalStock(),
			AvailableStock: available,
			StockStatus:    model.StatusFor(available),
			Oversold:       available < 0,
		})
	}
	return rows
}

// applyListing filters, sorts and pages rows. Pure: same inputs always
// produce the same page and total.
func applyListing(rows []dto.StockRow, f *dto.ListStockFilters) ([]dto.StockRow, int) {
	filtered := filterRows(rows, f)
	sortRows(filtered, f.SortField, f.SortDir)

	total := len(filtered)

	start := (f.Page - 1) * f.PageSize
	if start >= total {
		return []dto.StockRow{}, total
	}
	end := start + f.PageSize
	if end > total {
		end = total
	}
	return filtered[start:end], total
}

func filterRows(rows []dto.StockRow, f *dto.ListStockFilters) []dto.StockRow {
	query := strings.ToLower(f.Query)

	out := make([]dto.StockRow, 0, len(rows))
	for _, row := range rows {
		if query != "" &&
			!strings.Contains(strings.ToLower(row.Product.Name), query) &&
			!strings.Contains(strings.ToLower(row.Product.SKU), query) {
			continue
		}
		if f.Category != "" && row.Product.Category != f.Category {
			continue
		}
		if !matchesStockFilter(row.AvailableStock, f.StockFilter) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// matchesStockFilter implements the bucket predicates. Note the in-stock
// filter means "anything sellable" (available > 0) and therefore includes
// the low bucket.
func matchesStockFilter(available int64, filter dto.StockFilter) bool {
	switch filter {
	case dto.StockFilterOut:
		return available <= 0
	case dto.StockFilterLow:
		return available > 0 && available <= model.LowStockThreshold
	case dto.StockFilterIn:
		return available > 0
	default:
		return true
	}
}

func sortRows(rows []dto.StockRow, field dto.SortField, dir string) {
	if field == "" {
		return
	}

	desc := strings.EqualFold(dir, "desc")

	sort.SliceStable(rows, func(i, j int) bool {
		var less bool
		switch field {
		case dto.SortByName:
			less = strings.ToLower(rows[i].Product.Name) < strings.ToLower(rows[j].Product.Name)
		case dto.SortBySKU:
			less = strings.ToLower(rows[i].Product.SKU) < strings.ToLower(rows[j].Product.SKU)
		case dto.SortByPhysical:
			less = rows[i].PhysicalStock < rows[j].PhysicalStock
		case dto.SortByAvailable:
			less = rows[i].AvailableStock < rows[j].AvailableStock
		default:
			return false
		}
		if desc {
			return !less && !equalKey(rows[i], rows[j], field)
		}
		return less
	})
}

func equalKey(a, b dto.StockRow, field dto.SortField) bool {
	switch field {
	case dto.SortByName:
		return strings.EqualFold(a.Product.Name, b.Product.Name)
	case dto.SortBySKU:
		return strings.EqualFold(a.Product.SKU, b.Product.SKU)
	case dto.SortByPhysical:
		return a.PhysicalStock == b.PhysicalStock
	case dto.SortByAvailable:
		return a.AvailableStock == b.AvailableStock
	}
	return false
}
