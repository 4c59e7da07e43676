package v1

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-api/internal/services"
)

type Handler interface {
	HandleIssueToken(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)
	HandleRequestLogMiddleware(c *gin.Context)
	HandleHealth(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type handlerImpl struct {
	logger zerolog.Logger
	auth   services.AuthService
	tasks  services.TaskService
	pinger Pinger
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	taskService services.TaskService,
	pinger Pinger,
) Handler {
	return &handlerImpl{
		logger: logger,
		auth:   authService,
		tasks:  taskService,
		pinger: pinger,
	}
}

// RegisterRoutes mounts the v1 API under /api/v1 and the health probe
// under /healthz.
func RegisterRoutes(router gin.IRouter, h Handler) {
	router.GET("/healthz", h.HandleHealth)

	api := router.Group("/api/v1", h.HandleAuthMiddleware)

	api.POST("/auth/token", h.HandleIssueToken)

	tasksRouter := api.Group("/tasks")
	tasksRouter.GET("", h.HandleGetTasks)
	tasksRouter.POST("", h.HandleCreateTask)
	tasksRouter.GET("/:id", h.HandleGetTask)
	tasksRouter.PUT("/:id", h.HandleUpdateTask)
	tasksRouter.PATCH("/:id", h.HandleUpdateTask)
	tasksRouter.DELETE("/:id", h.HandleDeleteTask)
}
