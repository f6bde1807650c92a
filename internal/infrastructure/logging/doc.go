// Package logging provides structured logging for tasktrack.
//
// It wraps log/slog so every component logs with the same default fields
// (service, version) and the same level filtering.
//
// Configuration comes from the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Never log passwords, password digests, bearer tokens, or the JWT secret.
// The one exception is the generated admin password printed once at first boot.
package logging
