package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Report which actuator is in use and, with probe=true, whether the board's serial port can be opened"),
			mcp.WithBoolean("probe",
				mcp.Description("Open and close the serial port (takes about two seconds)"),
			),
		),
		s.handleGetHealth,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_devices",
			mcp.WithDescription("List the controllable devices with their codes and last known state"),
		),
		s.handleListDevices,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_device_state",
			mcp.WithDescription("Get the last known state of a device"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Device id: led, fan, heater or lights"),
			),
		),
		s.handleGetDeviceState,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("set_device_state",
			mcp.WithDescription("Set a device's state with an object validated against the device's schema"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Device id"),
			),
			mcp.WithObject("state",
				mcp.Required(),
				mcp.Description("State object, e.g. {\"state\": \"ON\"}"),
			),
		),
		s.handleSetDeviceState,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("turn_on",
			mcp.WithDescription("Turn on a device"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Device id"),
			),
		),
		s.handleTurnOn,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("turn_off",
			mcp.WithDescription("Turn off a device"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Device id"),
			),
		),
		s.handleTurnOff,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("dispatch_prompt",
			mcp.WithDescription("Ask the language model about the home and apply every device command in its reply"),
			mcp.WithString("prompt",
				mcp.Required(),
				mcp.Description("Natural-language request, e.g. \"it's getting hot in here\""),
			),
		),
		s.handleDispatchPrompt,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_ports",
			mcp.WithDescription("List the serial ports on the host"),
		),
		s.handleListPorts,
	)
}
