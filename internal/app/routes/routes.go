package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/taskroom/internal/app/controllers"
	"github.com/yigit/taskroom/internal/app/models"
	"github.com/yigit/taskroom/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	classroomController *controllers.ClassroomController,
	classroomTaskController *controllers.ClassroomTaskController,
	taskController *controllers.TaskController,
	categoryController *controllers.CategoryController,
	syncController *controllers.SyncController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/google", authController.GoogleSignIn)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/logout", authController.Logout)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Profile and account
		authenticated.GET("/auth/profile", authController.GetProfile)
		authenticated.PUT("/auth/profile", authController.UpdateProfile)
		authenticated.PUT("/auth/password", authController.SetPassword)
		authenticated.POST("/auth/google/link", authController.LinkGoogle)
		authenticated.DELETE("/auth/google/link", authController.UnlinkGoogle)

		// Classrooms
		classrooms := authenticated.Group("/classrooms")
		{
			classrooms.GET("/owned", classroomController.ListOwnedClassrooms)
			classrooms.GET("/joined", classroomController.ListJoinedClassrooms)
			classrooms.POST("/join", classroomController.JoinClassroom)
			classrooms.GET("/:id", classroomController.GetClassroom)
			classrooms.POST("/:id/leave", classroomController.LeaveClassroom)
			classrooms.GET("/:id/tasks", classroomTaskController.ListTasks)

			// Owner-only operations require the TEACHER role
			teacherOnly := classrooms.Group("")
			teacherOnly.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
			{
				teacherOnly.POST("", classroomController.CreateClassroom)
				teacherOnly.PUT("/:id", classroomController.UpdateClassroom)
				teacherOnly.POST("/:id/code", classroomController.RegenerateJoinCode)
				teacherOnly.DELETE("/:id", classroomController.DeleteClassroom)
				teacherOnly.GET("/:id/students", classroomController.ListStudents)
				teacherOnly.DELETE("/:id/students/:studentId", classroomController.RemoveStudent)
				teacherOnly.POST("/:id/tasks", classroomTaskController.CreateTask)
			}
		}

		// Canonical classroom tasks addressed directly
		classroomTasks := authenticated.Group("/classroom-tasks")
		{
			classroomTasks.GET("/:taskId", classroomTaskController.GetTask)

			teacherTasks := classroomTasks.Group("")
			teacherTasks.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
			{
				teacherTasks.PUT("/:taskId", classroomTaskController.UpdateTask)
				teacherTasks.DELETE("/:taskId", classroomTaskController.DeleteTask)
				teacherTasks.POST("/:taskId/files", classroomTaskController.AttachFile)
				teacherTasks.DELETE("/:taskId/files/:fileId", classroomTaskController.RemoveFile)
			}
		}

		// Personal tasks
		tasks := authenticated.Group("/tasks")
		{
			tasks.POST("", taskController.CreateTask)
			tasks.GET("", taskController.ListTasks)
			tasks.GET("/:id", taskController.GetTask)
			tasks.PATCH("/:id", taskController.UpdateTask)
			tasks.DELETE("/:id", taskController.DeleteTask)
			tasks.POST("/:id/files", taskController.AttachFile)
			tasks.DELETE("/:id/files/:fileId", taskController.RemoveFile)
		}

		// Categories
		categories := authenticated.Group("/categories")
		{
			categories.POST("", categoryController.CreateCategory)
			categories.GET("", categoryController.ListCategories)
			categories.DELETE("/:id", categoryController.DeleteCategory)
		}

		// Sync
		authenticated.POST("/sync", syncController.SyncTasks)
		authenticated.GET("/sync/last", syncController.GetLastSync)
	}
}
