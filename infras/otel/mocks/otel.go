package mocks

import (
	"context"
	"sizopi/infras/otel"

	"go.opentelemetry.io/otel/trace/noop"
)

// noopOtel hands out real scopes over non-recording spans, so code under
// test runs the same attribute and error paths without an exporter.
type noopOtel struct {
	provider noop.TracerProvider
}

func (o noopOtel) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, otel.Scope) {
	ctx, span := o.provider.Tracer(scopeName).Start(ctx, spanName)

	return ctx, otel.NewScope(span)
}

func (noopOtel) Shutdown(context.Context) error {
	return nil
}

func NewOtel() otel.Otel {
	return noopOtel{provider: noop.NewTracerProvider()}
}
