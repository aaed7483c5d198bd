package v1

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-manager/internal/services"
)

type Handler interface {
	HandleRegister(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleGetProfile(c *gin.Context)
	HandleUpdateProfile(c *gin.Context)

	HandleGetTasks(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleHealth(c *gin.Context)
}

// Pinger reports whether a backend behind the services is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type handlerImpl struct {
	logger   zerolog.Logger
	auth     services.AuthService
	guard    services.Guard
	tasks    services.TaskService
	profiles services.ProfileService
	pingers  []Pinger
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	guard services.Guard,
	taskService services.TaskService,
	profileService services.ProfileService,
	pingers ...Pinger,
) Handler {
	return &handlerImpl{
		logger:   logger,
		auth:     authService,
		guard:    guard,
		tasks:    taskService,
		profiles: profileService,
		pingers:  pingers,
	}
}

func RegisterRoutes(router gin.IRouter, h Handler) {
	router.GET("/healthz", h.HandleHealth)

	api := router.Group("/api")

	usersRouter := api.Group("/users")
	usersRouter.POST("/register/", h.HandleRegister)
	usersRouter.POST("/login/", h.HandleLogin)
	usersRouter.POST("/token/refresh/", h.HandleRefresh)
	usersRouter.POST("/logout/", h.HandleAuthMiddleware, h.HandleLogout)

	profileRouter := usersRouter.Group("/profile", h.HandleAuthMiddleware)
	for _, path := range []string{"/", "/:id/"} {
		profileRouter.GET(path, h.HandleGetProfile)
		profileRouter.PUT(path, h.HandleUpdateProfile)
		profileRouter.PATCH(path, h.HandleUpdateProfile)
	}

	tasksRouter := api.Group("/tasks", h.HandleAuthMiddleware)
	tasksRouter.GET("/", h.HandleGetTasks)
	tasksRouter.POST("/", h.HandleCreateTask)
	tasksRouter.GET("/:id/", h.HandleGetTask)
	tasksRouter.PATCH("/:id/", h.HandleUpdateTask)
	tasksRouter.DELETE("/:id/", h.HandleDeleteTask)
}
