package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/urmzd/neuracontrol/pkg/device"
	"github.com/urmzd/neuracontrol/pkg/dispatch"
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	act := s.orchestrator.Actuator()
	_, simulated := act.(*dispatch.SimulatedActuator)

	out := GetHealthOutput{
		Status:    "healthy",
		Actuator:  act.Name(),
		Simulated: simulated,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if probe, _ := request.GetArguments()["probe"].(bool); probe && !simulated {
		reachable := s.orchestrator.Reachable(ctx)
		out.Reachable = &reachable
		if !reachable {
			out.Status = "degraded"
		}
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListDevices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	devices := s.orchestrator.Registry().All()
	states := s.states.Snapshot()

	infos := make([]DeviceInfo, 0, len(devices))
	for _, d := range devices {
		infos = append(infos, DeviceToInfo(d, states[d.ID]))
	}

	out := ListDevicesOutput{
		Devices: infos,
		Count:   len(infos),
		Active:  s.states.Active(),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetDeviceState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d, err := s.orchestrator.Registry().Lookup(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("device not found: %s", err)), nil
	}

	on, _ := s.states.Get(d.ID)
	out := DeviceStateOutput{
		DeviceID: d.ID,
		State:    device.StateString(on),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSetDeviceState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d, err := s.orchestrator.Registry().Lookup(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("device not found: %s", err)), nil
	}

	stateMap, ok := request.GetArguments()["state"].(map[string]any)
	if !ok {
		return mcp.NewToolResultError(`parameter "state" must be an object`), nil
	}

	on, err := s.validator.DesiredState(d, stateMap)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("validation error: %s", err)), nil
	}

	return s.actuate(ctx, d.ID, on)
}

func (s *Server) handleTurnOn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.actuate(ctx, id, true)
}

func (s *Server) handleTurnOff(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.actuate(ctx, id, false)
}

func (s *Server) actuate(ctx context.Context, id string, on bool) (*mcp.CallToolResult, error) {
	outcome, err := s.orchestrator.Actuate(ctx, id, on)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("device not found: %s", err)), nil
	}
	s.states.Apply(outcome)

	out := DeviceStateOutput{
		DeviceID: outcome.Device,
		State:    device.StateString(on),
		Outcome:  &outcome,
	}
	if !outcome.Success {
		return mcp.NewToolResultError(formatJSON(out)), nil
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleDispatchPrompt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := requiredString(request, "prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.orchestrator.Dispatch(ctx, prompt)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dispatch failed: %s", err)), nil
	}
	s.states.Apply(res.Outcomes...)

	out := DispatchOutput{
		ID:       res.ID,
		Reply:    res.Reply,
		Commands: res.Commands,
		Outcomes: res.Outcomes,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListPorts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ports, err := s.ports()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list ports: %s", err)), nil
	}

	out := ListPortsOutput{Ports: ports, Count: len(ports)}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// --- helpers ---

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
