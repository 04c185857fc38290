package user

import (
	"go-timeclock/internal/middleware"
	"go-timeclock/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", middleware.RBACAuthorize(enforcer, "users", "read"), h.GetAll)
		users.POST("", middleware.RBACAuthorize(enforcer, "users", "write"), h.Create)
		users.GET("/:id", middleware.RBACAuthorize(enforcer, "users", "read"), h.GetByID)
		users.PUT("/:id", middleware.RBACAuthorize(enforcer, "users", "write"), h.Update)
		users.DELETE("/:id", middleware.RBACAuthorize(enforcer, "users", "write"), h.Delete)
		users.PUT("/:id/schedule", middleware.RBACAuthorize(enforcer, "users", "write"), h.AssignSchedule)
		users.PUT("/:id/status", middleware.RBACAuthorize(enforcer, "users", "write"), h.ToggleStatus)
		users.POST("/:id/reset-pin", middleware.RBACAuthorize(enforcer, "users", "write"), h.ResetPin)
	}
}
