// Package telemetry wires the process into OpenTelemetry: an OTLP trace
// exporter for validation spans and an OTLP log exporter fed by the slog
// bridge, both sharing one service resource.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hydrokit/modelparams/build"
	"github.com/hydrokit/modelparams/closer"
	"github.com/hydrokit/modelparams/envutil"
	"github.com/hydrokit/modelparams/logger"
	"github.com/hydrokit/modelparams/stage"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

const (
	defaultTimeout = 5 * time.Second

	// In-cluster OpenTelemetry collector service endpoint, used as the
	// default when running under Kubernetes.
	defaultCollectorEndpoint = "http://opentelemetry-collector.opentelemetry.svc.cluster.local:4318"
)

var (
	tracerProvider *sdktrace.TracerProvider
	loggerProvider *sdklog.LoggerProvider
)

// Config holds the OpenTelemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	TraceEndpoint  string
	LogEndpoint    string
	Enabled        bool
	Timeout        time.Duration
}

// LoadConfigFromEnv loads OpenTelemetry configuration from environment
// variables. Signal-specific endpoints (OTEL_EXPORTER_OTLP_TRACES_ENDPOINT,
// OTEL_EXPORTER_OTLP_LOGS_ENDPOINT) fall back to the shared
// OTEL_EXPORTER_OTLP_ENDPOINT, which in turn defaults to the in-cluster
// collector when running under Kubernetes.
func LoadConfigFromEnv(ctx context.Context) (*Config, error) {
	enabled := envutil.BoolCtx(ctx, "OTEL_ENABLED",
		envutil.Default(false)).
		ValueOrElse(false)

	defaultEndpoint := ""
	if envutil.StringCtx(ctx, "KUBERNETES_SERVICE_HOST").ValueOrElse("") != "" {
		defaultEndpoint = defaultCollectorEndpoint
	}

	baseEndpoint, err := envutil.StringCtx(ctx, "OTEL_EXPORTER_OTLP_ENDPOINT",
		envutil.Default(defaultEndpoint)).
		Value()
	if err != nil {
		return nil, err
	}

	traceEndpoint, err := envutil.StringCtx(ctx, "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT",
		envutil.Default(baseEndpoint)).
		Value()
	if err != nil {
		return nil, err
	}

	logEndpoint, err := envutil.StringCtx(ctx, "OTEL_EXPORTER_OTLP_LOGS_ENDPOINT",
		envutil.Default(baseEndpoint)).
		Value()
	if err != nil {
		return nil, err
	}

	svcName, err := envutil.StringCtx(ctx, "OTEL_SERVICE_NAME",
		envutil.Default(logger.GetSubsystem(ctx))).
		Value()
	if err != nil {
		return nil, err
	}

	svcVersion, err := envutil.StringCtx(ctx, "OTEL_SERVICE_VERSION",
		envutil.Default(build.Version())).
		Value()
	if err != nil {
		return nil, err
	}

	timeout, err := envutil.DurationCtx(ctx, "OTEL_EXPORTER_OTLP_TIMEOUT",
		envutil.Default(defaultTimeout)).
		Value()
	if err != nil {
		return nil, err
	}

	return &Config{
		ServiceName:    svcName,
		ServiceVersion: svcVersion,
		Environment:    string(stage.Current(ctx)),
		TraceEndpoint:  traceEndpoint,
		LogEndpoint:    logEndpoint,
		Enabled:        enabled,
		Timeout:        timeout,
	}, nil
}

// Initialize sets up OpenTelemetry export with the given configuration.
//
// When a trace endpoint is configured, a batching OTLP trace provider is
// installed as the global tracer provider. When a log endpoint is configured,
// a batching OTLP log provider is installed and the slog bridge is attached
// to the default logger, so every record written through logger.Get is also
// exported.
func Initialize(ctx context.Context, config *Config) error {
	if !config.Enabled {
		slog.Info("OpenTelemetry export is disabled")

		return nil
	}

	if config.TraceEndpoint == "" && config.LogEndpoint == "" {
		slog.Warn("OpenTelemetry endpoints not configured, export will be disabled")

		return nil
	}

	// Create resource with service information
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	if config.TraceEndpoint != "" {
		exporter, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpointURL(config.TraceEndpoint),
			otlptracehttp.WithTimeout(config.Timeout),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}

		tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		)

		otel.SetTracerProvider(tracerProvider)

		// Set the global propagator to support trace context propagation
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	}

	if config.LogEndpoint != "" {
		exporter, err := otlploghttp.New(ctx,
			otlploghttp.WithEndpointURL(config.LogEndpoint),
			otlploghttp.WithTimeout(config.Timeout),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP log exporter: %w", err)
		}

		loggerProvider = sdklog.NewLoggerProvider(
			sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
			sdklog.WithResource(res),
		)

		global.SetLoggerProvider(loggerProvider)

		logger.AttachBridge(otelslog.NewHandler(config.ServiceName,
			otelslog.WithLoggerProvider(loggerProvider)))
	}

	slog.Info("OpenTelemetry export initialized",
		"service", config.ServiceName,
		"version", config.ServiceVersion,
		"environment", config.Environment,
		"trace_endpoint", config.TraceEndpoint,
		"log_endpoint", config.LogEndpoint,
	)

	return nil
}

// Shutdown gracefully shuts down the OpenTelemetry providers, flushing any
// batched spans and log records.
func Shutdown(ctx context.Context) error {
	if tracerProvider == nil && loggerProvider == nil {
		return nil
	}

	slog.Info("Shutting down OpenTelemetry providers")

	resources := closer.NewCloser()

	if tracerProvider != nil {
		provider := tracerProvider

		resources.Add(closer.CustomCloser(func() error {
			return provider.Shutdown(ctx)
		}))
	}

	if loggerProvider != nil {
		provider := loggerProvider

		resources.Add(closer.CustomCloser(func() error {
			return provider.Shutdown(ctx)
		}))
	}

	tracerProvider = nil
	loggerProvider = nil

	return resources.Close()
}
