package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-manager/internal/repository"
	"task-manager/internal/service"
	"task-manager/internal/token"
)

// Server binds the application services to HTTP routes.
type Server struct {
	auth   *service.AuthService
	tasks  *service.TaskService
	tokens *token.Service
	users  *repository.UserRepository
	webDir string
}

func NewServer(auth *service.AuthService, tasks *service.TaskService, tokens *token.Service, users *repository.UserRepository, webDir string) *Server {
	return &Server{auth: auth, tasks: tasks, tokens: tokens, users: users, webDir: webDir}
}

// Router assembles the gin engine: public auth routes, bearer-protected
// routes behind the single auth gate, and the static web client.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	api.POST("/register", s.handleRegister)
	api.POST("/login", s.handleLogin)
	// Refresh does its own token handling: a token inside the expired-but-
	// refreshable grace window must reach the handler, which the gate's
	// Verify would reject up front.
	api.POST("/refresh", s.handleRefresh)

	protected := api.Group("")
	protected.Use(s.authRequired())
	{
		protected.POST("/logout", s.handleLogout)
		protected.GET("/profile", s.handleProfile)

		protected.GET("/tasks", s.handleListTasks)
		protected.POST("/tasks", s.handleCreateTask)
		protected.GET("/tasks/:id", s.handleShowTask)
		protected.PUT("/tasks/:id", s.handleUpdateTask)
		protected.DELETE("/tasks/:id", s.handleDeleteTask)
		protected.PUT("/tasks/:id/toggle-status", s.handleToggleStatus)
		protected.PATCH("/tasks/:id/toggle-status", s.handleToggleStatus)
	}

	if s.webDir != "" {
		r.Static("/app", s.webDir)
		r.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, "/app/")
		})
	}

	return r
}
