// Package events contains the WebSocket event contracts pushed to dashboard clients.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// MessageTypeDataUpdate is broadcast after the dataset cache is reloaded
	MessageTypeDataUpdate MessageType = "data_update"

	MessageTypeSystemStatus MessageType = "system:status"

	MessageTypeConnect MessageType = "connect"
	MessageTypeError   MessageType = "error"
)

// WebSocketMessage is the envelope of every pushed event
type WebSocketMessage struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// DataUpdate tells clients which countries were reloaded and how many rows they hold
type DataUpdate struct {
	Countries []string       `json:"countries"`
	Rows      map[string]int `json:"rows"`
	Reason    string         `json:"reason"`
}

// ConnectInfo is sent once to a newly connected client
type ConnectInfo struct {
	ClientID string `json:"client_id"`
	Version  string `json:"version"`
}

// ErrorInfo describes a failure reported over the socket
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
