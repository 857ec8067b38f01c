package router

import (
	"bylines/internal/handlers"
	"bylines/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything RegisterRoutes wires up.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Contributors *handlers.ContributorHandler
	Roles        *handlers.RoleHandler
	Guests       *handlers.GuestHandler
	Assignments  *handlers.AssignmentHandler
	Settings     *handlers.SettingHandler
}

// RegisterRoutes mounts the JSON API. Reads and writes require an editor
// session; destructive operations and the default-role setting require an
// admin.
func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.Use(middleware.LoadUser())

	r.POST("/login", h.Auth.Login)
	r.GET("/logout", h.Auth.Logout)

	api := r.Group("/api", middleware.EditorRequired())
	{
		api.GET("/contributors", h.Contributors.List)
		api.GET("/contributors/:nicename", h.Contributors.Get)

		api.GET("/roles", h.Roles.List)
		api.PUT("/roles", h.Roles.Save)

		api.GET("/guest-authors", h.Guests.List)
		api.PUT("/guest-authors", h.Guests.Save)
		api.POST("/guest-authors", h.Guests.Create)
		api.PUT("/guest-authors/:id", h.Guests.Update)

		api.GET("/posts", h.Assignments.ListPosts)
		api.GET("/posts/:id", h.Assignments.GetPost)
		api.GET("/posts/:id/assignments", h.Assignments.Get)
		api.PUT("/posts/:id/assignments", h.Assignments.Put)

		api.GET("/settings/default-role", h.Settings.GetDefaultRole)
	}

	admin := r.Group("/api", middleware.AdminRequired())
	{
		admin.DELETE("/roles/:id", h.Roles.Delete)
		admin.DELETE("/guest-authors/:id", h.Guests.Delete)
		admin.PUT("/settings/default-role", h.Settings.SetDefaultRole)
	}
}
