package schedule

import (
	"go-timeclock/internal/middleware"
	"go-timeclock/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	schedules := r.Group("/schedules")
	schedules.Use(middleware.AuthMiddleware())
	{
		schedules.GET("/resolve", middleware.RBACAuthorize(enforcer, "schedules", "read"), h.ResolveForUser)

		presets := schedules.Group("/presets")
		{
			presets.GET("", middleware.RBACAuthorize(enforcer, "schedules", "read"), h.GetPresets)
			presets.POST("", middleware.RBACAuthorize(enforcer, "schedules", "write"), h.CreatePreset)
			presets.GET("/:id", middleware.RBACAuthorize(enforcer, "schedules", "read"), h.GetPresetByID)
			presets.PUT("/:id", middleware.RBACAuthorize(enforcer, "schedules", "write"), h.UpdatePreset)
			presets.DELETE("/:id", middleware.RBACAuthorize(enforcer, "schedules", "write"), h.DeletePreset)
		}

		groups := schedules.Group("/groups")
		{
			groups.GET("", middleware.RBACAuthorize(enforcer, "schedules", "read"), h.GetGroups)
			groups.POST("", middleware.RBACAuthorize(enforcer, "schedules", "write"), h.CreateGroup)
			groups.GET("/:id", middleware.RBACAuthorize(enforcer, "schedules", "read"), h.GetGroupByID)
			groups.PUT("/:id", middleware.RBACAuthorize(enforcer, "schedules", "write"), h.UpdateGroup)
			groups.DELETE("/:id", middleware.RBACAuthorize(enforcer, "schedules", "write"), h.DeleteGroup)
			groups.PUT("/:id/overrides", middleware.RBACAuthorize(enforcer, "schedules", "write"), h.SetOverride)
			groups.DELETE("/:id/overrides/:day", middleware.RBACAuthorize(enforcer, "schedules", "write"), h.RemoveOverride)
		}
	}
}
