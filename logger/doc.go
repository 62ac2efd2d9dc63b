// Package logger provides structured logging for the auth service using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers carrying request metadata from the context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "authsvc").WithComponent("authn")
//	log.Info("account created", logger.Fields(logger.FieldUserID, id))
package logger
