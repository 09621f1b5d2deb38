package model

import "time"

type AdjustmentType string

const (
	AdjustmentInward    AdjustmentType = "inward"
	AdjustmentDeduction AdjustmentType = "deduction"
)

func (t AdjustmentType) Valid() bool {
	return t == AdjustmentInward || t == AdjustmentDeduction
}

type StockStatus string

const (
	StockStatusOut StockStatus = "out-of-stock"
	StockStatusLow StockStatus = "low-stock"
	StockStatusIn  StockStatus = "in-stock"
)

// LowStockThreshold is the fixed policy boundary between low-stock and
// in-stock: available stock in (0, LowStockThreshold] is low.
const LowStockThreshold = 10

// StockLedger holds the six cumulative counters backing a SKU's stock.
// OpeningStock is set once at product creation. InwardAddition and Deduction
// grow only through operator adjustments. AutoAddition, AutoDeduction and
// BlockedStock are owned by the order-processing collaborators and are only
// read here.
type StockLedger struct {
	TenantID       string    `db:"tenant_id" json:"tenant_id"`
	SKU            string    `db:"sku" json:"sku"`
	OpeningStock   int64     `db:"opening_stock" json:"opening_stock"`
	InwardAddition int64     `db:"inward_addition" json:"inward_addition"`
	Deduction      int64     `db:"deduction" json:"deduction"`
	AutoAddition   int64     `db:"auto_addition" json:"auto_addition"`
	AutoDeduction  int64     `db:"auto_deduction" json:"auto_deduction"`
	BlockedStock   int64     `db:"blocked_stock" json:"blocked_stock"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// PhysicalStock is the number of units actually in the warehouse,
// independent of reservations. Negative values are representable but an
// accepted manual deduction never produces one.
func (l *StockLedger) PhysicalStock() int64 {
	return l.OpeningStock + l.InwardAddition - l.Deduction + l.AutoAddition - l.AutoDeduction
}

// AvailableStock is physical stock minus units blocked for open orders. It
// goes negative when blocked stock exceeds physical stock; that is an alert
// condition (oversold), not an error.
func (l *StockLedger) AvailableStock() int64 {
	return l.PhysicalStock() - l.BlockedStock
}

// ProjectedPhysical recomputes physical stock with the counter for t
// replaced by newValue. Used to preview an adjustment before applying it.
func (l *StockLedger) ProjectedPhysical(t AdjustmentType, newValue int64) int64 {
	projected := *l
	switch t {
	case AdjustmentInward:
		projected.InwardAddition = newValue
	case AdjustmentDeduction:
		projected.Deduction = newValue
	}
	return projected.PhysicalStock()
}

// CounterValue returns the current value of the counter an adjustment of
// type t accumulates into.
func (l *StockLedger) CounterValue(t AdjustmentType) int64 {
	if t == AdjustmentInward {
		return l.InwardAddition
	}
	return l.Deduction
}

// Status buckets available stock for the listing UI.
func (l *StockLedger) Status() StockStatus {
	return StatusFor(l.AvailableStock())
}

func StatusFor(available int64) StockStatus {
	switch {
	case available <= 0:
		return StockStatusOut
	case available <= LowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// StockAdjustment is the append-only audit record written together with
// every accepted operator adjustment.
type StockAdjustment struct {
	ID             string         `db:"id" json:"id"`
	TenantID       string         `db:"tenant_id" json:"tenant_id"`
	SKU            string         `db:"sku" json:"sku"`
	Type           AdjustmentType `db:"type" json:"type"`
	Amount         int64          `db:"amount" json:"amount"`
	CounterAfter   int64          `db:"counter_after" json:"counter_after"`
	PhysicalBefore int64          `db:"physical_before" json:"physical_before"`
	PhysicalAfter  int64          `db:"physical_after" json:"physical_after"`
	Actor          string         `db:"actor" json:"actor"`
	Note           string         `db:"note" json:"note"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}
