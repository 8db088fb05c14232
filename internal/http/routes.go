package http

import (
	"net/http"
	"time"

	"todo_api/internal/http/handlers"
	"todo_api/internal/http/middleware"
	"todo_api/internal/http/respond"
	"todo_api/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the components the router wires together. They are built once at
// startup and shared by all requests.
type Deps struct {
	Auth           *service.AuthService
	Tasks          *service.TaskService
	Guard          *service.Guard
	DB             handlers.Pinger
	AllowedOrigins []string
	DevMode        bool
	Version        string
}

// NewRouter builds the engine with the global middleware stack and all routes.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(d.DevMode),
		middleware.RequestLogger(),
		middleware.Metrics(),
		cors.New(cors.Config{
			AllowOrigins:     d.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	h := handlers.NewHandler(d.Auth, d.Tasks, d.DevMode)
	healthHandler := handlers.NewHealthHandler(d.DB, d.Version)

	// Health checks, no auth
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/signin", h.Signin)
	}

	// Everything under /api/:user_id requires a token for that user.
	user := api.Group("/:user_id")
	user.Use(middleware.RequireUser(d.Guard, d.DevMode))
	{
		user.GET("/test", h.AuthTest)

		user.GET("/tasks", h.ListTasks)
		user.POST("/tasks", h.CreateTask)
		user.GET("/tasks/:task_id", h.GetTask)
		user.PUT("/tasks/:task_id", h.UpdateTask)
		user.DELETE("/tasks/:task_id", h.DeleteTask)
		user.PATCH("/tasks/:task_id/complete", h.CompleteTask)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Abort(c, http.StatusNotFound, respond.CodeNotFound, "Resource not found", nil, d.DevMode)
	})
}
