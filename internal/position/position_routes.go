package position

import (
	"go-timeclock/internal/middleware"
	"go-timeclock/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	positions := r.Group("/positions")
	positions.Use(middleware.AuthMiddleware())
	{
		positions.GET("", middleware.RBACAuthorize(enforcer, "positions", "read"), h.GetAll)
		positions.POST("", middleware.RBACAuthorize(enforcer, "positions", "write"), h.Create)
		positions.GET("/:id", middleware.RBACAuthorize(enforcer, "positions", "read"), h.GetByID)
		positions.PUT("/:id", middleware.RBACAuthorize(enforcer, "positions", "write"), h.Update)
		positions.DELETE("/:id", middleware.RBACAuthorize(enforcer, "positions", "write"), h.Delete)
	}
}
