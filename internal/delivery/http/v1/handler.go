package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/construct-tasks/internal/services"
)

type Handler interface {
	HandleHealthCheck(c *gin.Context)

	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTaskProgress(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleRequestID(c *gin.Context)
	HandleRequestLogging(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	tasks  services.TaskService
}

func New(
	logger zerolog.Logger,
	taskService services.TaskService,
) Handler {
	return &handlerImpl{
		logger: logger,
		tasks:  taskService,
	}
}

// RegisterRoutes mounts every task endpoint on the router.
func RegisterRoutes(router gin.IRouter, h Handler) {
	router.GET("/", h.HandleHealthCheck)

	tasksRouter := router.Group("/tasks")
	tasksRouter.GET("", h.HandleGetTasks)
	tasksRouter.POST("", h.HandleCreateTask)
	tasksRouter.GET("/:id", h.HandleGetTask)
	tasksRouter.PUT("/:id", h.HandleUpdateTask)
	tasksRouter.PUT("/:id/progress", h.HandleUpdateTaskProgress)
	tasksRouter.DELETE("/:id", h.HandleDeleteTask)
}
