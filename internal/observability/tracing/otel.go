// Package tracing wires the clinic services into OpenTelemetry. Spans are
// exported over OTLP/gRPC; the bus, the Kafka transport and the circuit
// breaker all pick up the global tracer installed here.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// Config holds the exporter and sampling settings for one service.
type Config struct {
	// ServiceName identifies the service in exported spans.
	ServiceName string
	// ServiceVersion is stamped onto the service resource.
	ServiceVersion string
	// Environment distinguishes deployments sharing a collector.
	Environment string
	// OTLPEndpoint is the collector's gRPC address.
	OTLPEndpoint string
	// Insecure disables TLS towards the collector.
	Insecure bool
	// SampleRate is the fraction of traces kept; >= 1 keeps everything.
	SampleRate float64
}

// DefaultConfig returns settings for a local collector sampling everything.
func DefaultConfig(serviceName string) Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    "development",
		OTLPEndpoint:   "localhost:4317",
		Insecure:       true,
		SampleRate:     1.0,
	}
}

// Provider owns the installed tracer provider so callers can flush it on
// shutdown.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// Init builds the OTLP exporter, installs the global tracer provider and
// the W3C propagators, and returns a handle for shutdown.
func Init(ctx context.Context, cfg Config) (*Provider, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	res, err := serviceResource(cfg)
	if err != nil {
		return nil, err
	}

	sampler := sdktrace.AlwaysSample()
	if cfg.SampleRate < 1.0 {
		sampler = sdktrace.TraceIDRatioBased(cfg.SampleRate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return &Provider{tp: tp}, nil
}

// Shutdown flushes buffered spans and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

func serviceResource(cfg Config) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build service resource: %w", err)
	}
	return res, nil
}
