// Package observability wires OpenTelemetry metrics and tracing into data
// pipelines. InitMeter and InitTracer set up the global providers against an
// OTLP HTTP collector; PipelineMetrics carries the pipeline-level
// instruments, and TapRecords adapts them into a pipeline tap stage.
package observability
