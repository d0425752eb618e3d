// Package server exposes the storage layer as a JSON HTTP API. Responses
// use the {"success": bool, "data": ...} envelope; every route requires a
// bearer token that maps to an owner.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timeblock/timeblock/internal/config"
	"github.com/timeblock/timeblock/internal/storage"
)

// Server is the timeblock API server.
type Server struct {
	store  *storage.Store
	cfg    config.Config
	router *gin.Engine
}

// New creates the server and registers all routes.
func New(store *storage.Store, cfg config.Config) *Server {
	router := gin.Default()

	s := &Server{
		store:  store,
		cfg:    cfg,
		router: router,
	}

	api := router.Group("/api", s.requireAuth)
	{
		api.GET("/settings", s.handleGetSettings)

		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleSaveTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)

		api.GET("/categories", s.handleListCategories)
		api.POST("/categories", s.handleSaveCategory)
		api.PUT("/categories/:id", s.handleUpdateCategory)
		api.DELETE("/categories/:id", s.handleDeleteCategory)

		api.GET("/tasks/:id/logs", s.handleListTimeLogs)
		api.POST("/tasks/:id/logs", s.handleSaveTimeLog)
		api.PUT("/tasks/:id/logs/:logID", s.handleUpdateTimeLogNote)
		api.DELETE("/tasks/:id/logs/:logID", s.handleDeleteTimeLog)

		api.GET("/todos", s.handleListTodos)
		api.POST("/todos", s.handleSaveTodo)
		api.POST("/todos/reorder", s.handleReorderTodos)
		api.PUT("/todos/:id", s.handleUpdateTodo)
		api.DELETE("/todos/:id", s.handleDeleteTodo)

		api.GET("/export", s.handleExport)
		api.POST("/import", s.handleImport)
		api.GET("/data", s.handleDataCounts)
		api.DELETE("/data", s.handleClearData)
	}

	return s
}

// Run starts the server on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler returns the underlying handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

const ownerKey = "owner"

// requireAuth resolves the bearer token to an owner name.
func (s *Server) requireAuth(c *gin.Context) {
	auth := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix {
		respondError(c, http.StatusUnauthorized, "You must be logged in")
		c.Abort()
		return
	}
	owner, ok := s.cfg.TokenOwner(auth[len(prefix):])
	if !ok {
		respondError(c, http.StatusUnauthorized, "You must be logged in")
		c.Abort()
		return
	}
	c.Set(ownerKey, owner)
	c.Next()
}

func owner(c *gin.Context) string {
	return c.GetString(ownerKey)
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "data": message})
}
