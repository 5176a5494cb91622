package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mistvale/storefront/internal/domain"
	pkgkafka "github.com/mistvale/storefront/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicOrderPlaced        = "storefront.order.placed"
	TopicOrderStatusChanged = "storefront.order.status_changed"
	TopicInventoryLowStock  = "storefront.inventory.low_stock"
	TopicContactReceived    = "storefront.contact.received"
)

// Aggregate type constants.
const (
	AggregateTypeOrder   = "order"
	AggregateTypeFlavor  = "flavor"
	AggregateTypeContact = "contact"
)

// Source identifier for events originating from the storefront backend.
const SourceStorefront = "storefront"

// OrderPlacedData is the payload for an order.placed event (full order snapshot).
type OrderPlacedData struct {
	SaleID        string          `json:"sale_id"`
	Lines         []OrderLineData `json:"lines"`
	TotalCents    int64           `json:"total_cents"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
}

// OrderLineData is the event payload for a reserved order line.
type OrderLineData struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	FlavorID       string `json:"flavor_id"`
	FlavorName     string `json:"flavor_name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// OrderStatusChangedData is the payload for an order.status_changed event.
type OrderStatusChangedData struct {
	SaleID    string `json:"sale_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// StockLowData is the payload for an inventory.low_stock event, emitted when a
// reservation pushes a flavor to or below its threshold.
type StockLowData struct {
	ProductID  string `json:"product_id"`
	FlavorID   string `json:"flavor_id"`
	FlavorName string `json:"flavor_name"`
	Available  int    `json:"available"`
	Threshold  int    `json:"threshold"`
}

// ContactReceivedData is the payload for a contact.received event.
type ContactReceivedData struct {
	MessageID string `json:"message_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishOrderPlaced publishes an order.placed event with the full order snapshot.
func (p *Producer) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	lines := make([]OrderLineData, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = OrderLineData{
			ProductID:      line.ProductID,
			ProductName:    line.ProductName,
			FlavorID:       line.FlavorID,
			FlavorName:     line.FlavorName,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		}
	}

	data := OrderPlacedData{
		SaleID:        order.Sale.ID,
		Lines:         lines,
		TotalCents:    order.TotalCents,
		CustomerName:  order.Sale.CustomerName,
		CustomerEmail: order.Sale.CustomerEmail,
	}

	event, err := pkgkafka.NewEvent(TopicOrderPlaced, order.Sale.ID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.placed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderPlaced, event); err != nil {
		return fmt.Errorf("publish order.placed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.placed event",
		slog.String("sale_id", order.Sale.ID),
		slog.Int("lines", len(order.Lines)),
	)

	return nil
}

// PublishOrderStatusChanged publishes an order.status_changed event.
func (p *Producer) PublishOrderStatusChanged(ctx context.Context, saleID, oldStatus, newStatus string) error {
	data := OrderStatusChangedData{
		SaleID:    saleID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}

	event, err := pkgkafka.NewEvent(TopicOrderStatusChanged, saleID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.status_changed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderStatusChanged, event); err != nil {
		return fmt.Errorf("publish order.status_changed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.status_changed event",
		slog.String("sale_id", saleID),
		slog.String("old_status", oldStatus),
		slog.String("new_status", newStatus),
	)

	return nil
}

// PublishStockLow publishes an inventory.low_stock event for a flavor.
func (p *Producer) PublishStockLow(ctx context.Context, f *domain.Flavor) error {
	data := StockLowData{
		ProductID:  f.ProductID,
		FlavorID:   f.ID,
		FlavorName: f.Name,
		Available:  f.Available(),
		Threshold:  f.LowStockThreshold,
	}

	event, err := pkgkafka.NewEvent(TopicInventoryLowStock, f.ID, AggregateTypeFlavor, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create inventory.low_stock event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicInventoryLowStock, event); err != nil {
		return fmt.Errorf("publish inventory.low_stock event: %w", err)
	}

	p.logger.DebugContext(ctx, "published inventory.low_stock event",
		slog.String("flavor_id", f.ID),
		slog.Int("available", f.Available()),
	)

	return nil
}

// PublishContactReceived publishes a contact.received event.
func (p *Producer) PublishContactReceived(ctx context.Context, m *domain.ContactMessage) error {
	data := ContactReceivedData{
		MessageID: m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
	}

	event, err := pkgkafka.NewEvent(TopicContactReceived, m.ID, AggregateTypeContact, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create contact.received event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicContactReceived, event); err != nil {
		return fmt.Errorf("publish contact.received event: %w", err)
	}

	p.logger.DebugContext(ctx, "published contact.received event",
		slog.String("message_id", m.ID),
	)

	return nil
}
