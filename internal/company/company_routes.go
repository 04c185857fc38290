package company

import (
	"go-timeclock/internal/middleware"
	"go-timeclock/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	companies := r.Group("/companies")
	companies.Use(middleware.AuthMiddleware())
	{
		companies.GET("", middleware.RBACAuthorize(enforcer, "companies", "read"), h.GetAll)
		companies.POST("", middleware.RBACAuthorize(enforcer, "companies", "write"), h.Create)
		companies.GET("/:id", middleware.RBACAuthorize(enforcer, "companies", "read"), h.GetByID)
		companies.PUT("/:id", middleware.RBACAuthorize(enforcer, "companies", "write"), h.Update)
		companies.DELETE("/:id", middleware.RBACAuthorize(enforcer, "companies", "write"), h.Delete)
	}
}
