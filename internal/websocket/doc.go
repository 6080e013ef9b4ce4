// Package websocket pushes dataset events to connected dashboard pages.
//
// A single Hub goroutine owns the client set. Clients are registered by the
// /ws handler; each runs a read pump that only tracks liveness and a write
// pump that drains its send buffer. After a cache reload the data service
// calls BroadcastDataUpdate and every page refreshes its charts.
package websocket
