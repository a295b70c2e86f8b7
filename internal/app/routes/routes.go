package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/middleware"
	"github.com/yigit/collegeportal/internal/mockapi"
)

// SetupRouter configures all application routes under /api
func SetupRouter(router *gin.Engine, h *mockapi.Handler, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	students := authenticated.Group("/students")
	students.Use(authMiddleware.RoleRequired(models.RoleStudent))
	{
		students.GET("/me/courses", h.MyCourses)
		students.GET("/me/courses/:courseId", h.MyCourse)
		students.GET("/me/courses/:courseId/assignments", h.MyCourseAssignments)
		students.GET("/me/submissions", h.MySubmissions)
		students.GET("/assignments/:assignmentId", h.StudentAssignment)
		students.GET("/assignments/:assignmentId/submission", h.MySubmission)
		students.POST("/assignments/:assignmentId/submit", h.Submit)
	}

	// Enrollment management shares the /students prefix but is for admins
	enrollments := authenticated.Group("/students/:studentId/enroll")
	enrollments.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		enrollments.POST("/:courseId", h.Enroll)
		enrollments.DELETE("/:courseId", h.Unenroll)
	}

	teacher := authenticated.Group("/teacher")
	teacher.Use(authMiddleware.RoleRequired(models.RoleTeacher))
	{
		teacher.GET("/courses", h.TeacherCourses)
		teacher.GET("/courses/:courseId/students", h.CourseStudents)
		teacher.GET("/courses/:courseId/assignments", h.TeacherCourseAssignments)
		teacher.POST("/courses/:courseId/assignments", h.CreateAssignment)
		teacher.PUT("/assignments/:assignmentId", h.UpdateAssignment)
		teacher.DELETE("/assignments/:assignmentId", h.DeleteAssignment)
		teacher.GET("/assignments/:assignmentId/submissions", h.AssignmentSubmissions)
		teacher.POST("/submissions/:submissionId/grade", h.GradeSubmission)
	}

	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/dashboard", h.AdminDashboard)
		admin.GET("/teachers", h.Teachers)
		admin.GET("/students", h.Students)
		admin.GET("/users", h.Users)
		admin.DELETE("/users/:userId", h.DeleteUser)
		admin.GET("/courses", h.AllCourses)
		admin.POST("/courses", h.CreateCourse)
		admin.PUT("/courses/:courseId", h.UpdateCourse)
		admin.DELETE("/courses/:courseId", h.DeleteCourse)
	}
}
