package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/urmzd/neuracontrol/pkg/api/handlers"
	"github.com/urmzd/neuracontrol/pkg/db"
	"github.com/urmzd/neuracontrol/pkg/device/schema"
	"github.com/urmzd/neuracontrol/pkg/dispatch"
)

// Deps are the services the HTTP API is built on.
type Deps struct {
	Orchestrator *dispatch.Orchestrator
	Database     *db.DB
	Validator    *schema.Validator
	Ports        handlers.PortLister // nil enumerates host ports
	SerialPort   string              // configured port name
}

// Router holds the Gin engine and dependencies
type Router struct {
	engine *gin.Engine
	deps   Deps
}

// NewRouter creates a new API router
func NewRouter(deps Deps) *Router {
	gin.SetMode(gin.ReleaseMode)

	if deps.Validator == nil {
		deps.Validator = schema.NewValidator()
	}

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine: engine,
		deps:   deps,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Health check at root
	healthHandler := handlers.NewHealthHandler(r.deps.Orchestrator)
	r.engine.GET("/health", healthHandler.Health)

	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)

		// Devices
		states := r.deps.Database.DeviceStates()
		devicesHandler := handlers.NewDevicesHandler(r.deps.Orchestrator.Registry(), states)
		controlHandler := handlers.NewControlHandler(r.deps.Orchestrator, states, r.deps.Validator)
		devices := v1.Group("/devices")
		{
			devices.GET("", devicesHandler.ListDevices)
			devices.GET("/:id", devicesHandler.GetDevice)
			devices.GET("/:id/state", controlHandler.GetState)
			devices.POST("/:id/state", controlHandler.SetState)
		}

		dispatchHandler := handlers.NewDispatchHandler(r.deps.Orchestrator, r.deps.Database)
		v1.POST("/dispatch", dispatchHandler.Dispatch)

		historyHandler := handlers.NewHistoryHandler(r.deps.Database.Dispatches())
		history := v1.Group("/history")
		{
			history.GET("", historyHandler.ListHistory)
			history.GET("/:id", historyHandler.GetDispatch)
			history.DELETE("", historyHandler.ClearHistory)
		}

		// Serial
		portsHandler := handlers.NewPortsHandler(r.deps.Orchestrator, r.deps.Ports, r.deps.Database.Settings(), r.deps.SerialPort)
		v1.GET("/ports", portsHandler.ListPorts)
		v1.POST("/connection/test", portsHandler.TestConnection)
	}
}

// Handler returns the router as an http.Handler
func (r *Router) Handler() http.Handler {
	return r.engine
}
