// Package logger provides structured logging for longreader using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with map fields. Run and chunk identifiers are
// carried on the context and attached by WithContext.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("longread")
//	log.WithContext(ctx).Info("chunk synthesized", logger.Fields("bytes", n))
package logger
