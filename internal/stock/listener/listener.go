package listener

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/opsdash/inventory-service/internal/apperr"
	"github.com/opsdash/inventory-service/internal/stock"
	"github.com/opsdash/inventory-service/internal/stock/dto"
	"github.com/opsdash/inventory-service/pkg/broker"
	"github.com/opsdash/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

// OrderEventListener consumes order lifecycle events from the order
// processing backend and applies them to the externally owned ledger
// counters (blocked stock, auto addition/deduction).
type OrderEventListener struct {
	consumer *broker.KafkaConsumer
	uc       stock.UseCase
	logger   logger.ZapLogger
}

func NewOrderEventListener(consumer *broker.KafkaConsumer, uc stock.UseCase, log logger.ZapLogger) *OrderEventListener {
	return &OrderEventListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
	}
}

func (l *OrderEventListener) Start(ctx context.Context) {
	l.logger.Info("starting order event listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping order event listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("failed to read order event", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderEvent struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	TenantID  string           `json:"tenant_id"`
	OrderID   string           `json:"order_id"`
	Items     []OrderEventItem `json:"items"`
	Timestamp time.Time        `json:"timestamp"`
}

type OrderEventItem struct {
	SKU      string `json:"sku"`
	Quantity int64  `json:"quantity"`
}

func (l *OrderEventListener) processMessage(ctx context.Context, value []byte) {
	var event OrderEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("failed to unmarshal order event", zap.Error(err))
		return
	}

	eventType := dto.OrderEventType(event.EventType)
	switch eventType {
	case dto.OrderConfirmed, dto.OrderFulfilled, dto.OrderCancelled, dto.OrderReturned:
	default:
		return
	}

	l.logger.Info("processing order event",
		zap.String("event_type", event.EventType),
		zap.String("order_id", event.OrderID),
	)

	for _, item := range event.Items {
		err := l.uc.ApplyOrderEvent(ctx, &dto.OrderEventInput{
			TenantID:  event.TenantID,
			SKU:       item.SKU,
			EventType: eventType,
			Quantity:  item.Quantity,
			OrderID:   event.OrderID,
		})
		if err != nil {
			// Unknown SKUs happen when products were deleted after the order
			// was placed; skip instead of blocking the consumer group.
			var e *apperr.Error
			if errors.As(err, &e) && e.Kind == apperr.KindNotFound {
				l.logger.Warn("order event for unknown sku, skipping",
					zap.String("order_id", event.OrderID),
					zap.String("sku", item.SKU),
				)
				continue
			}
			l.logger.Error("failed to apply order event",
				zap.String("order_id", event.OrderID),
				zap.String("sku", item.SKU),
				zap.Error(err),
			)
		}
	}
}
