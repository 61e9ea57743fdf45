package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	invoicesapp "github.com/Apurer/invoicing-api/internal/domains/invoices/application"
	invoicedomain "github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	invoiceports "github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
	platformobservability "github.com/Apurer/invoicing-api/internal/platform/observability"
)

const tracerName = "github.com/Apurer/invoicing-api/internal/domains/invoices/adapters/observability/service"

// Service decorates the invoices service with tracing, logging, and metrics.
type Service struct {
	inner   invoiceports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core invoices service.
func New(inner invoiceports.Service, opts ...Option) invoiceports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateInvoice(ctx context.Context, input invoiceports.CreateInvoiceInput) (*invoicedomain.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "InvoiceService.CreateInvoice",
		trace.WithAttributes(attribute.Int64("client.id", input.ClientID), attribute.Int("invoice.lines", len(input.Items))))
	defer span.End()

	s.logInfo(ctx, "creating invoice", slog.Int64("client.id", input.ClientID), slog.Int("invoice.lines", len(input.Items)))
	result, err := s.inner.CreateInvoice(ctx, input)
	if err != nil {
		s.metrics.recordFailure(ctx, failureReason(err))
		return nil, s.handleError(ctx, span, err, "failed to create invoice", slog.Int64("client.id", input.ClientID))
	}
	span.SetAttributes(attribute.Int64("invoice.id", result.ID), attribute.String("invoice.total", result.Total.StringFixed(invoicedomain.MoneyScale)))
	s.metrics.recordCreated(ctx, result)
	s.logInfo(ctx, "invoice created",
		slog.Int64("invoice.id", result.ID),
		slog.Int64("client.id", result.Client.ID),
		slog.String("invoice.total", result.Total.StringFixed(invoicedomain.MoneyScale)))
	return result, nil
}

func (s *Service) GetInvoice(ctx context.Context, id int64) (*invoicedomain.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "InvoiceService.GetInvoice", trace.WithAttributes(attribute.Int64("invoice.id", id)))
	defer span.End()

	result, err := s.inner.GetInvoice(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load invoice", slog.Int64("invoice.id", id))
	}
	return result, nil
}

func (s *Service) ListInvoices(ctx context.Context) ([]*invoicedomain.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "InvoiceService.ListInvoices")
	defer span.End()

	result, err := s.inner.ListInvoices(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list invoices")
	}
	span.SetAttributes(attribute.Int("invoices.count", len(result)))
	return result, nil
}

func (s *Service) ListInvoicesByClient(ctx context.Context, clientID int64) ([]*invoicedomain.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "InvoiceService.ListInvoicesByClient", trace.WithAttributes(attribute.Int64("client.id", clientID)))
	defer span.End()

	result, err := s.inner.ListInvoicesByClient(ctx, clientID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list client invoices", slog.Int64("client.id", clientID))
	}
	span.SetAttributes(attribute.Int("invoices.count", len(result)))
	return result, nil
}

func (s *Service) RenderInvoice(ctx context.Context, id int64) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "InvoiceService.RenderInvoice", trace.WithAttributes(attribute.Int64("invoice.id", id)))
	defer span.End()

	result, err := s.inner.RenderInvoice(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to render invoice", slog.Int64("invoice.id", id))
	}
	span.SetAttributes(attribute.Int("document.bytes", len(result)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, invoicesapp.ErrClientNotFound):
		return "client_not_found"
	case errors.Is(err, invoicesapp.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, invoicesapp.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, invoicesapp.ErrInvalidRequest):
		return "invalid_request"
	default:
		return "internal"
	}
}

type serviceMetrics struct {
	invoicesCreated metric.Int64Counter
	invoiceFailures metric.Int64Counter
	unitsSold       metric.Int64Counter
	invoiceTotal    metric.Float64Histogram
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	invoicesCreated, _ := m.Int64Counter("invoices.service.invoices_created", metric.WithDescription("Number of invoices created"))
	invoiceFailures, _ := m.Int64Counter(platformobservability.InvoiceFailuresInstrument, metric.WithDescription("Number of rejected or failed invoice creations"))
	unitsSold, _ := m.Int64Counter("invoices.service.units_sold", metric.WithDescription("Product units removed from stock by invoices"))
	invoiceTotal, _ := m.Float64Histogram(platformobservability.InvoiceTotalInstrument, metric.WithDescription("Totals of created invoices"))
	return serviceMetrics{invoicesCreated: invoicesCreated, invoiceFailures: invoiceFailures, unitsSold: unitsSold, invoiceTotal: invoiceTotal}
}

func (m serviceMetrics) recordCreated(ctx context.Context, invoice *invoicedomain.Invoice) {
	if m.invoicesCreated != nil {
		m.invoicesCreated.Add(ctx, 1)
	}
	if m.unitsSold != nil {
		var units int64
		for _, item := range invoice.Items {
			units += item.Quantity
		}
		m.unitsSold.Add(ctx, units)
	}
	if m.invoiceTotal != nil {
		m.invoiceTotal.Record(ctx, invoice.Total.InexactFloat64())
	}
}

func (m serviceMetrics) recordFailure(ctx context.Context, reason string) {
	if m.invoiceFailures != nil {
		m.invoiceFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}

var _ invoiceports.Service = (*Service)(nil)
