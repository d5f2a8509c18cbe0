package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/urmzd/neuracontrol/pkg/device/schema"
	"github.com/urmzd/neuracontrol/pkg/dispatch"
	"github.com/urmzd/neuracontrol/pkg/serial"
)

// PortLister enumerates the host's serial ports.
type PortLister func() ([]serial.PortInfo, error)

// Server wraps the MCP server with the dispatch and actuation operations
type Server struct {
	mcpServer    *server.MCPServer
	orchestrator *dispatch.Orchestrator
	states       *dispatch.StateBook
	validator    *schema.Validator
	ports        PortLister
}

// NewServer creates a new MCP server. Device states are tracked in states,
// which the caller owns. A nil ports lister uses the host's enumerator.
func NewServer(orchestrator *dispatch.Orchestrator, states *dispatch.StateBook, validator *schema.Validator, ports PortLister) *Server {
	if validator == nil {
		validator = schema.NewValidator()
	}
	if ports == nil {
		ports = serial.ListPortDetails
	}

	s := &Server{
		orchestrator: orchestrator,
		states:       states,
		validator:    validator,
		ports:        ports,
	}

	s.mcpServer = server.NewMCPServer(
		"neuracontrol",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
