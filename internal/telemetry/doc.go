// Package telemetry exposes Prometheus metrics and OpenTelemetry spans for script builds.
package telemetry
