// Package services implements the business logic layer of the solar
// dashboard. It sits between the HTTP handlers and the dataset and
// dataprocessing packages so analysis rules live in one place.
//
// DataService loads country frames through the dataset store, runs the
// analysis operations and renders exports. HealthService reports liveness,
// readiness and version information.
//
// Services return the sentinel errors declared in errors.go, wrapped with
// context; the transport layer maps them to problem responses.
package services
