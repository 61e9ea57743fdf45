package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	clientdomain "github.com/Apurer/invoicing-api/internal/domains/clients/domain"
	clientports "github.com/Apurer/invoicing-api/internal/domains/clients/ports"
)

const tracerName = "github.com/Apurer/invoicing-api/internal/domains/clients/adapters/observability/service"

// Service decorates the client service with tracing, logging, and metrics.
type Service struct {
	inner      clientports.Service
	tracer     trace.Tracer
	logger     *slog.Logger
	registered metric.Int64Counter
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
		if m == nil {
			return
		}
		s.registered, _ = m.Int64Counter("clients.service.clients_registered", metric.WithDescription("Number of clients registered"))
	}
}

// New wraps the core client service.
func New(inner clientports.Service, opts ...Option) clientports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
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

func (s *Service) CreateClient(ctx context.Context, input clientports.CreateClientInput) (*clientdomain.Client, error) {
	ctx, span := s.tracer.Start(ctx, "ClientService.CreateClient")
	defer span.End()

	result, err := s.inner.CreateClient(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register client")
	}
	span.SetAttributes(attribute.Int64("client.id", result.ID))
	if s.registered != nil {
		s.registered.Add(ctx, 1)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "client registered", slog.Int64("client.id", result.ID))
	return result, nil
}

func (s *Service) GetClient(ctx context.Context, id int64) (*clientdomain.Client, error) {
	ctx, span := s.tracer.Start(ctx, "ClientService.GetClient", trace.WithAttributes(attribute.Int64("client.id", id)))
	defer span.End()

	result, err := s.inner.GetClient(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load client", slog.Int64("client.id", id))
	}
	return result, nil
}

func (s *Service) GetClientByEmail(ctx context.Context, email string) (*clientdomain.Client, error) {
	ctx, span := s.tracer.Start(ctx, "ClientService.GetClientByEmail")
	defer span.End()

	result, err := s.inner.GetClientByEmail(ctx, email)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load client by email")
	}
	return result, nil
}

func (s *Service) ListClients(ctx context.Context) ([]*clientdomain.Client, error) {
	ctx, span := s.tracer.Start(ctx, "ClientService.ListClients")
	defer span.End()

	result, err := s.inner.ListClients(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list clients")
	}
	span.SetAttributes(attribute.Int("clients.count", len(result)))
	return result, nil
}

func (s *Service) DeleteClient(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "ClientService.DeleteClient", trace.WithAttributes(attribute.Int64("client.id", id)))
	defer span.End()

	if err := s.inner.DeleteClient(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete client", slog.Int64("client.id", id))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "client deleted", slog.Int64("client.id", id))
	return nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

var _ clientports.Service = (*Service)(nil)
