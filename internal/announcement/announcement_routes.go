package announcement

import (
	"go-timeclock/internal/middleware"
	"go-timeclock/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	announcements := r.Group("/announcements")
	announcements.Use(middleware.AuthMiddleware())
	{
		announcements.GET("", middleware.RBACAuthorize(enforcer, "announcements", "read"), h.GetAll)
		announcements.POST("", middleware.RBACAuthorize(enforcer, "announcements", "write"), h.Create)
		announcements.PUT("/:id", middleware.RBACAuthorize(enforcer, "announcements", "write"), h.Update)
		announcements.PUT("/:id/posted", middleware.RBACAuthorize(enforcer, "announcements", "write"), h.SetPosted)
		announcements.DELETE("/:id", middleware.RBACAuthorize(enforcer, "announcements", "write"), h.Delete)
	}
}
