// Package app wires the solar dashboard together and manages its lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, config.yaml, SOLAR_* environment)
//	2. Resolve paths and initialize the JSON logger
//	3. Initialize OpenTelemetry and the business metrics
//	4. Create the dataset store, WebSocket hub and services
//	5. Build the chi router and the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication(frontendFS)
//	if err != nil {
//	    os.Exit(1)
//	}
//	if err := application.Run(); err != nil {
//	    os.Exit(1)
//	}
//
// Run blocks until SIGINT or SIGTERM, then shuts the server down, closes
// WebSocket clients and flushes telemetry. The package never calls os.Exit.
package app
