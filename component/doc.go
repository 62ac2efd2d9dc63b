// Package component defines the lifecycle contract shared by the service's
// infrastructure pieces (database, redis, HTTP server, telemetry) and a
// Registry that starts them in order and stops them in reverse.
package component
