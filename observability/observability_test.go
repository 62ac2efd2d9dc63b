package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/authsvc/logger"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if cfg.interval() != 15*time.Second {
		t.Errorf("expected interval 15s, got %v", cfg.interval())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}

	cfg.SampleRate = 2
	if err := cfg.Validate(); err == nil {
		t.Error("expected sample rate above 1 to fail")
	}
}

func TestNewMetrics_Noop(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	ctx := context.Background()
	metrics.RecordRequest(ctx, "GET", "/health", 200, 10*time.Millisecond)
	metrics.RecordAuthAttempt(ctx, "login", OutcomeSuccess)

	var nilMetrics *Metrics
	nilMetrics.RecordAuthAttempt(ctx, "login", OutcomeError)
}

func TestRecordAuthAttempt_Attributes(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}

	ctx := context.Background()
	metrics.RecordAuthAttempt(ctx, "login", OutcomeRejected)
	metrics.RecordAuthAttempt(ctx, "login", OutcomeRejected)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "auth.attempts" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok || len(sum.DataPoints) != 1 {
				t.Fatalf("expected one int64 sum data point, got %#v", m.Data)
			}
			dp := sum.DataPoints[0]
			if dp.Value != 2 {
				t.Errorf("expected value 2, got %d", dp.Value)
			}
			if v, _ := dp.Attributes.Value(attribute.Key(AttrOutcome)); v.AsString() != OutcomeRejected {
				t.Errorf("expected outcome %s, got %s", OutcomeRejected, v.AsString())
			}
			return
		}
	}
	t.Error("auth.attempts not collected")
}

func TestSetSpanError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := tp.Tracer("test").Start(context.Background(), SpanLogin)

	SetSpanError(span, nil)
	SetSpanError(span, errors.New("boom"))
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status().Code)
	}
	if len(spans[0].Events()) != 1 {
		t.Errorf("expected one recorded error event, got %d", len(spans[0].Events()))
	}
}

func TestComponent_DisabledIsNoop(t *testing.T) {
	c := NewComponent(Config{}, ServiceInfo{Name: "authsvc"}, logger.NewNop())
	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if c.tp != nil || c.mp != nil {
		t.Error("expected no providers when disabled")
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
	if d := c.Describe(); d.Details != "disabled" {
		t.Errorf("expected disabled details, got %s", d.Details)
	}
}
