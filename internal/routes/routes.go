package routes

import (
	"github.com/gin-gonic/gin"

	"gstbooks/internal/authz"
	"gstbooks/internal/handlers"
	"gstbooks/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	resetHandler *handlers.PasswordResetHandler,
	adminHandler *handlers.AdminHandler,
) *gin.Engine {

	// ---- public
	auth := r.Group("/auth")
	{
		auth.POST("/forgot-password", resetHandler.ForgotPassword)
		auth.POST("/verify-reset-token", resetHandler.VerifyResetToken)
		auth.POST("/reset-password", resetHandler.ResetPassword)
	}

	// ---- back office (JWT + admin roles)
	admin := r.Group("/admin",
		middleware.AuthMiddleware(),
		middleware.RequireRoles(authz.RoleAdmin, authz.RoleSuperAdmin),
	)
	{
		admin.GET("/accounts/:id/reset-status", adminHandler.ResetStatus)
		admin.POST("/accounts/:id/revoke-reset", adminHandler.RevokeReset)
	}

	return r
}
