package events

import (
	"context"
	"log/slog"

	"github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	"github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
)

var _ ports.EventPublisher = (*LogPublisher)(nil)

// LogPublisher records events in the structured log. Used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event domain.Event) error {
	if p == nil || p.logger == nil {
		return nil
	}
	attrs := []slog.Attr{slog.String("event", event.EventName()), slog.Time("occurredAt", event.OccurredAt())}
	if created, ok := event.(domain.InvoiceCreated); ok {
		attrs = append(attrs,
			slog.Int64("invoice.id", created.InvoiceID),
			slog.Int64("client.id", created.ClientID),
			slog.String("invoice.total", created.Total.StringFixed(domain.MoneyScale)))
	}
	p.logger.LogAttrs(ctx, slog.LevelInfo, "domain event", attrs...)
	return nil
}
