package cart

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type EventKind string

const (
	EventItemAdded       EventKind = "item_added"
	EventQuantityChanged EventKind = "quantity_changed"
	EventItemRemoved     EventKind = "item_removed"
	EventCleared         EventKind = "cleared"
	EventStockExceeded   EventKind = "stock_exceeded"
	EventRestored        EventKind = "restored"
)

// Event describes the outcome of one cart operation. How it is shown to a
// shopper is up to the observer.
type Event struct {
	Kind      EventKind `json:"kind"`
	Key       string    `json:"-"`
	ProductID string    `json:"product_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	Available int       `json:"available,omitempty"`
}

func (e Event) Message() string {
	switch e.Kind {
	case EventItemAdded:
		return fmt.Sprintf("Added %s to cart", e.Name)
	case EventQuantityChanged:
		return fmt.Sprintf("Updated %s quantity in cart", e.Name)
	case EventItemRemoved:
		return fmt.Sprintf("Removed %s from cart", e.Name)
	case EventCleared:
		return "Cart has been cleared"
	case EventStockExceeded:
		return fmt.Sprintf("Sorry, only %d items available", e.Available)
	case EventRestored:
		return fmt.Sprintf("Restored %d items from your last visit", e.Quantity)
	default:
		return string(e.Kind)
	}
}

type Observer interface {
	Notify(ctx context.Context, e Event)
}

type ObserverFunc func(ctx context.Context, e Event)

func (f ObserverFunc) Notify(ctx context.Context, e Event) { f(ctx, e) }

// Observers fans an event out in order.
type Observers []Observer

func (o Observers) Notify(ctx context.Context, e Event) {
	for _, obs := range o {
		if obs != nil {
			obs.Notify(ctx, e)
		}
	}
}

type nopObserver struct{}

func (nopObserver) Notify(context.Context, Event) {}

func LogObserver(log *zap.Logger) Observer {
	return ObserverFunc(func(_ context.Context, e Event) {
		fields := []zap.Field{
			zap.String("kind", string(e.Kind)),
			zap.String("key", e.Key),
		}
		if e.ProductID != "" {
			fields = append(fields, zap.String("product_id", e.ProductID), zap.Int("quantity", e.Quantity))
		}
		if e.Kind == EventStockExceeded {
			log.Info("cart change rejected", append(fields, zap.Int("available", e.Available))...)
			return
		}
		log.Debug("cart event", fields...)
	})
}

type Metrics struct {
	Events          *prometheus.CounterVec
	PersistFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "artful",
				Subsystem: "cart",
				Name:      "events_total",
				Help:      "Cart operations by outcome",
			},
			[]string{"kind"},
		),
		PersistFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "artful",
				Subsystem: "cart",
				Name:      "persist_failures_total",
				Help:      "Cart writes to durable storage that failed",
			},
		),
	}
	reg.MustRegister(m.Events, m.PersistFailures)
	return m
}

func (m *Metrics) Notify(_ context.Context, e Event) {
	m.Events.WithLabelValues(string(e.Kind)).Inc()
}
