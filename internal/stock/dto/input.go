package dto

import "github.com/opsdash/inventory-service/internal/model"

type ApplyAdjustmentInput struct {
	TenantID string
	SKU      string
	Type     model.AdjustmentType
	Amount   int64
	Actor    string
	Note     string
}

type OrderEventType string

const (
	OrderConfirmed OrderEventType = "order.confirmed"
	OrderFulfilled OrderEventType = "order.fulfilled"
	OrderCancelled OrderEventType = "order.cancelled"
	OrderReturned  OrderEventType = "order.returned"
)

type OrderEventInput struct {
	TenantID  string
	SKU       string
	EventType OrderEventType
	Quantity  int64
	OrderID   string
}
