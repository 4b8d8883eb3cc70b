package otel

import (
	"context"
	"sizopi/config"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"google.golang.org/grpc/credentials/insecure"
)

// Otel opens scopes for handlers, services, repositories and infra clients.
// Shutdown flushes spans still buffered for export.
type Otel interface {
	NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope)
	Shutdown(ctx context.Context) error
}

type tracerProvider struct {
	provider *trace.TracerProvider
}

func (t *tracerProvider) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope) {
	ctx, span := t.provider.Tracer(scopeName).Start(ctx, spanName)

	return ctx, NewScope(span)
}

func (t *tracerProvider) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx) //nolint:wrapcheck
}

// New registers the global tracer provider. Without EXTERNAL_OTEL_ENDPOINT
// spans are still recorded in process so scopes behave the same, but
// nothing is exported.
func New(cfg *config.Config) Otel {
	options := []trace.TracerProviderOption{
		trace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(cfg.App.Name),
			semconv.DeploymentEnvironmentKey.String(cfg.Server.Env),
		)),
	}

	if endpoint := cfg.External.Otel.Endpoint; endpoint != "" {
		options = append(options, trace.WithBatcher(grpcExporter(endpoint)))
	} else {
		log.Warn().Msg("EXTERNAL_OTEL_ENDPOINT not set, traces stay in process")
	}

	provider := trace.NewTracerProvider(options...)
	otel.SetTracerProvider(provider)

	return &tracerProvider{provider: provider}
}

func grpcExporter(endpoint string) trace.SpanExporter {
	exporter, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		log.Fatal().Err(err).Str("endpoint", endpoint).Msg("Failed to create OTLP exporter")
	}

	log.Info().Str("endpoint", endpoint).Msg("Exporting traces over OTLP gRPC")

	return exporter
}
