package types

import (
	"encoding/json"
	"time"

	"github.com/urmzd/neuracontrol/pkg/command"
	"github.com/urmzd/neuracontrol/pkg/dispatch"
)

// --- Request DTOs ---

// DispatchRequest is the request body for POST /dispatch
type DispatchRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// SetStateRequest documents the body of POST /devices/:id/state
type SetStateRequest struct {
	State string `json:"state" example:"ON"`
}

// ConnectionTestRequest is the request body for POST /connection/test
type ConnectionTestRequest struct {
	Port string `json:"port"`
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Actuator  string    `json:"actuator"`
	Simulated bool      `json:"simulated"`
	Reachable *bool     `json:"reachable,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// DeviceWithState combines a registry entry with its last recorded state
type DeviceWithState struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Index       int             `json:"index"` // position in the table, fixes the code pair
	OnPhrase    string          `json:"on_phrase"`
	OffPhrase   string          `json:"off_phrase"`
	OnCode      string          `json:"on_code"`
	OffCode     string          `json:"off_code"`
	StateSchema json.RawMessage `json:"state_schema,omitempty"`
	State       string          `json:"state"`
	Simulated   bool            `json:"simulated"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

// ListDevicesResponse is returned from GET /devices
type ListDevicesResponse struct {
	Devices []DeviceWithState `json:"devices"`
	Count   int               `json:"count"`
	Active  int               `json:"active"`
}

// DeviceResponse is returned from GET /devices/:id
type DeviceResponse struct {
	Device DeviceWithState `json:"device"`
}

// StateResponse is returned from GET/POST /devices/:id/state
type StateResponse struct {
	Device    string            `json:"device"`
	State     string            `json:"state"`
	Outcome   *dispatch.Outcome `json:"outcome,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// DispatchResponse is returned from POST /dispatch and the history endpoints
type DispatchResponse struct {
	ID        string             `json:"id"`
	Prompt    string             `json:"prompt"`
	Reply     string             `json:"reply"`
	Commands  []command.Command  `json:"commands"`
	Outcomes  []dispatch.Outcome `json:"outcomes"`
	Actuator  string             `json:"actuator"`
	Error     string             `json:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// HistoryResponse is returned from GET /history
type HistoryResponse struct {
	Dispatches []DispatchResponse `json:"dispatches"`
	Count      int                `json:"count"`
	Total      int                `json:"total"`
}

// PortsResponse is returned from GET /ports
type PortsResponse struct {
	Ports      []PortInfo `json:"ports"`
	Configured string     `json:"configured"`
	Selected   string     `json:"selected,omitempty"`
}

// PortInfo describes a serial port on the host
type PortInfo struct {
	Name    string `json:"name"`
	IsUSB   bool   `json:"is_usb"`
	VID     string `json:"vid,omitempty"`
	PID     string `json:"pid,omitempty"`
	Product string `json:"product,omitempty"`
}

// ConnectionTestResponse is returned from POST /connection/test
type ConnectionTestResponse struct {
	Port      string `json:"port"`
	Connected bool   `json:"connected"`
	Reason    string `json:"reason,omitempty"`
	Message   string `json:"message,omitempty"`
}

// NewDispatchResponse converts a dispatch result.
func NewDispatchResponse(res *dispatch.Result, errText string) DispatchResponse {
	return DispatchResponse{
		ID:        res.ID,
		Prompt:    res.Prompt,
		Reply:     res.Reply,
		Commands:  res.Commands,
		Outcomes:  res.Outcomes,
		Actuator:  res.Actuator,
		Error:     errText,
		CreatedAt: res.CreatedAt,
	}
}
