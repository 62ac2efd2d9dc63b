// Package observability provides OpenTelemetry tracing and metrics.
//
// Providers are installed globally by the telemetry Component when
// Config.Enabled is set; otherwise the otel no-op providers stay in place
// and spans and instruments cost nothing.
//
//	ctx, span := observability.StartSpan(ctx, "authn.login")
//	defer span.End()
//
//	metrics, _ := observability.NewMetrics(observability.Meter("authsvc"))
//	metrics.RecordAuthAttempt(ctx, "login", "success")
package observability
