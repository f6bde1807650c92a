// Package api implements the tasktrack HTTP REST API.
//
// This package provides:
//   - Registration, sign-in and profile endpoints
//   - Task endpoints backed by the task authorization engine
//   - Admin-only user management and audit trail endpoints
//   - Middleware stack (request ID, logging, recovery, CORS, bearer auth)
//   - TLS support for production deployments
//
// # Security
//
// Protected routes require "Authorization: Bearer <token>". The token is
// resolved to a principal on every request, so admin changes and deleted
// accounts take effect immediately.
//
// Task denials map to HTTP statuses at this boundary: not_found is 404,
// every other denial is 403 with the reason in the error body.
package api
