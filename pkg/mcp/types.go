package mcp

import (
	"github.com/urmzd/neuracontrol/pkg/command"
	"github.com/urmzd/neuracontrol/pkg/device"
	"github.com/urmzd/neuracontrol/pkg/dispatch"
	"github.com/urmzd/neuracontrol/pkg/serial"
)

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status    string `json:"status" jsonschema:"description=healthy or degraded"`
	Actuator  string `json:"actuator" jsonschema:"description=Actuator name (serial:<port> or simulated)"`
	Simulated bool   `json:"simulated" jsonschema:"description=True when running in demo mode"`
	Reachable *bool  `json:"reachable,omitempty" jsonschema:"description=Probe result when probe=true"`
	Timestamp string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// ListDevicesOutput is the output for the list_devices tool
type ListDevicesOutput struct {
	Devices []DeviceInfo `json:"devices" jsonschema:"description=Devices in definition order"`
	Count   int          `json:"count" jsonschema:"description=Total number of devices"`
	Active  int          `json:"active" jsonschema:"description=Number of devices currently on"`
}

// DeviceInfo represents a device in tool outputs
type DeviceInfo struct {
	ID        string `json:"id" jsonschema:"description=Device id"`
	Name      string `json:"name" jsonschema:"description=Display name"`
	OnPhrase  string `json:"on_phrase" jsonschema:"description=Phrase that turns the device on"`
	OffPhrase string `json:"off_phrase" jsonschema:"description=Phrase that turns the device off"`
	OnCode    string `json:"on_code" jsonschema:"description=Byte sent to turn the device on"`
	OffCode   string `json:"off_code" jsonschema:"description=Byte sent to turn the device off"`
	State     string `json:"state" jsonschema:"description=ON or OFF"`
}

// DeviceStateOutput is the output for get_device_state, set_device_state,
// turn_on and turn_off
type DeviceStateOutput struct {
	DeviceID string            `json:"device_id" jsonschema:"description=Device id"`
	State    string            `json:"state" jsonschema:"description=ON or OFF"`
	Outcome  *dispatch.Outcome `json:"outcome,omitempty" jsonschema:"description=Delivery result when a code was sent"`
}

// DispatchOutput is the output for the dispatch_prompt tool
type DispatchOutput struct {
	ID       string             `json:"id" jsonschema:"description=Dispatch id"`
	Reply    string             `json:"reply" jsonschema:"description=Language model reply"`
	Commands []command.Command  `json:"commands" jsonschema:"description=Commands found in the reply"`
	Outcomes []dispatch.Outcome `json:"outcomes" jsonschema:"description=Delivery result per command"`
}

// ListPortsOutput is the output for the list_ports tool
type ListPortsOutput struct {
	Ports []serial.PortInfo `json:"ports" jsonschema:"description=Serial ports on the host"`
	Count int               `json:"count" jsonschema:"description=Number of ports"`
}

// DeviceToInfo converts a device.Device to DeviceInfo
func DeviceToInfo(d device.Device, on bool) DeviceInfo {
	return DeviceInfo{
		ID:        d.ID,
		Name:      d.Name,
		OnPhrase:  d.OnPhrase,
		OffPhrase: d.OffPhrase,
		OnCode:    string(d.OnCode),
		OffCode:   string(d.OffCode),
		State:     device.StateString(on),
	}
}
