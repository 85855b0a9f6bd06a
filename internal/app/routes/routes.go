package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tpmanager/backend/internal/app/controllers"
	"github.com/tpmanager/backend/internal/app/models"
	"github.com/tpmanager/backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	tpController *controllers.TPController,
	teamController *controllers.TeamController,
	taskController *controllers.TaskController,
	assignmentController *controllers.AssignmentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.POST("/auth/logout", authController.Logout)
	authenticated.GET("/auth/me", authController.GetProfile)

	// User administration
	users := authenticated.Group("/users")
	{
		adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)
		users.PUT("/:userId/active", adminOnly, authController.SetUserActive)
	}

	// TP routes
	tps := authenticated.Group("/tps")
	{
		tps.GET("", tpController.ListTPs)
		tps.GET("/:tpId", tpController.GetTPByID)

		// Mutations are restricted to teaching staff
		staffOnly := authMiddleware.RoleRequired(models.RoleTeacher, models.RoleAdmin)
		tps.POST("", staffOnly, tpController.CreateTP)
		tps.PUT("/:tpId", staffOnly, tpController.UpdateTP)
		tps.DELETE("/:tpId", staffOnly, tpController.DeleteTP)

		// Teams scoped to a TP
		tps.GET("/:tpId/teams", teamController.ListTeamsByTP)
		tps.POST("/:tpId/teams", teamController.CreateTeam)

		// Auto-assignment
		tps.POST("/:tpId/auto-assign", staffOnly, assignmentController.AutoAssign)
		tps.GET("/:tpId/auto-assign/validate", staffOnly, assignmentController.ValidateAssignment)
	}

	// Team routes
	teams := authenticated.Group("/teams")
	{
		teams.POST("/join", teamController.JoinTeam)
		teams.GET("/:teamId", teamController.GetTeamByID)
		teams.DELETE("/:teamId", teamController.DeleteTeam)

		teams.GET("/:teamId/tasks", taskController.ListTasksByTeam)
		teams.POST("/:teamId/tasks", taskController.CreateTask)
		teams.GET("/:teamId/progress", taskController.GetTeamProgress)
	}

	// Task routes
	tasks := authenticated.Group("/tasks")
	{
		tasks.GET("/:id", taskController.GetTaskByID)
		tasks.PUT("/:id", taskController.UpdateTask)
		tasks.DELETE("/:id", taskController.DeleteTask)
		tasks.GET("/:id/updates", taskController.ListTaskUpdates)
	}
}
