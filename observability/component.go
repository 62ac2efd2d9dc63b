package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/authsvc/component"
	"github.com/kbukum/authsvc/logger"
)

// Component installs and shuts down the telemetry providers.
type Component struct {
	cfg  Config
	info ServiceInfo
	log  *logger.Logger
	tp   *sdktrace.TracerProvider
	mp   *sdkmetric.MeterProvider
}

var _ component.Component = (*Component)(nil)

// NewComponent creates a telemetry component.
func NewComponent(cfg Config, info ServiceInfo, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, info: info, log: log.WithComponent("telemetry")}
}

func (c *Component) Name() string { return "telemetry" }

// Start installs the OTLP providers when enabled.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}
	tp, err := InitTracer(ctx, c.cfg, c.info)
	if err != nil {
		return fmt.Errorf("telemetry start: %w", err)
	}
	mp, err := InitMeter(ctx, c.cfg, c.info)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return fmt.Errorf("telemetry start: %w", err)
	}
	c.tp, c.mp = tp, mp
	c.log.Info("Telemetry exporters installed", logger.Fields(
		"endpoint", c.cfg.Endpoint,
		"sample_rate", c.cfg.SampleRate,
	))
	return nil
}

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.tp != nil {
		errs = append(errs, c.tp.Shutdown(ctx))
		c.tp = nil
	}
	if c.mp != nil {
		errs = append(errs, c.mp.Shutdown(ctx))
		c.mp = nil
	}
	return errors.Join(errs...)
}

func (c *Component) Health(_ context.Context) component.Health {
	return component.Healthy(c.Name())
}

func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = fmt.Sprintf("otlp=%s sample=%.2f", c.cfg.Endpoint, c.cfg.SampleRate)
	}
	return component.Description{Name: "Telemetry", Type: "telemetry", Details: details}
}
