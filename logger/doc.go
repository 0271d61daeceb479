// Package logger provides structured logging for the data-loading library,
// built on zerolog.
//
// Library components obtain a component-tagged sub-logger and emit sparse,
// structured events:
//
//	log := logger.WithComponent("checkpoint")
//	log.Info("position saved", logger.Fields("pipeline", name, "values", n))
//
// A process-wide default logger is available through the package-level
// functions; embedding applications may replace it with SetGlobalLogger.
package logger
