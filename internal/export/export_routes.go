package export

import (
	"go-timeclock/internal/middleware"
	"go-timeclock/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	exports := r.Group("/exports")
	exports.Use(middleware.AuthMiddleware())
	{
		exports.GET("/timesheet", middleware.RBACAuthorize(enforcer, "exports", "read"), h.ExportTimesheet)
	}
}
