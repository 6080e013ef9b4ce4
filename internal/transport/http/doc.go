// Package http implements the HTTP handlers of the solar dashboard.
// Handlers are thin: they parse and validate query parameters, call the
// service layer and render the result with go-chi/render.
//
// # Error Handling
//
// Service errors are mapped to APIError values from internal/errors and
// written as RFC 7807 problem details by the shared ErrorHandler:
//
//	ErrUnknownCountry    → 404 /errors/not-found
//	ErrNoData            → 404 /errors/data/not-found
//	ErrMetricUnavailable → 404 /errors/data/metric-unavailable
//	ErrDataCorrupted     → 500 /errors/data/corrupted
//	ErrInvalidFormat     → 400 /errors/validation
//
// # Routes
//
// DataHandler.Routes is mounted under /api/data. HealthHandler methods are
// mounted individually under /api. The dashboard page is served at /.
package http
