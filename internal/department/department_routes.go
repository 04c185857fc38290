package department

import (
	"go-timeclock/internal/middleware"
	"go-timeclock/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	departments := r.Group("/departments")
	departments.Use(middleware.AuthMiddleware())
	{
		departments.GET("", middleware.RBACAuthorize(enforcer, "departments", "read"), h.GetAll)
		departments.POST("", middleware.RBACAuthorize(enforcer, "departments", "write"), h.Create)
		departments.POST("/seed", middleware.RBACAuthorize(enforcer, "departments", "write"), h.SeedStandard)
		departments.GET("/:id", middleware.RBACAuthorize(enforcer, "departments", "read"), h.GetByID)
		departments.PUT("/:id", middleware.RBACAuthorize(enforcer, "departments", "write"), h.Update)
		departments.DELETE("/:id", middleware.RBACAuthorize(enforcer, "departments", "write"), h.Delete)
	}
}
