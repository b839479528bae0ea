// Package logger provides structured logging for storekit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("store")
//	log.Debug("action dispatched", logger.Fields("action", "SET_DATA", "key", key))
package logger
