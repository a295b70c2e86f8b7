package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/middleware"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

// AdminDashboard handles GET /admin/dashboard
func (h *Handler) AdminDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Stats())
}

// Teachers handles GET /admin/teachers
func (h *Handler) Teachers(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Users(models.RoleTeacher))
}

// Students handles GET /admin/students
func (h *Handler) Students(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Users(models.RoleStudent))
}

// Users handles GET /admin/users
func (h *Handler) Users(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Users(""))
}

// DeleteUser handles DELETE /admin/users/:userId
func (h *Handler) DeleteUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	if userID == middleware.UserID(c) {
		middleware.HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrBadRequest, "You cannot delete your own account"))
		return
	}
	files, err := h.store.DeleteUser(userID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	h.removeUploads(files)
	h.logger.Info().Int64("userID", userID).Msg("User deleted")
	c.Status(http.StatusNoContent)
}

// AllCourses handles GET /admin/courses
func (h *Handler) AllCourses(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Courses())
}

func teacherID(req dto.CourseRequest) int64 {
	if req.TeacherID == nil {
		return 0
	}
	return *req.TeacherID
}

// CreateCourse handles POST /admin/courses
func (h *Handler) CreateCourse(c *gin.Context) {
	var req dto.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}
	course, err := h.store.CreateCourse(req.Name, req.Description, teacherID(req))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// UpdateCourse handles PUT /admin/courses/:courseId
func (h *Handler) UpdateCourse(c *gin.Context) {
	courseID, ok := pathID(c, "courseId")
	if !ok {
		return
	}
	var req dto.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}
	course, err := h.store.UpdateCourse(courseID, req.Name, req.Description, teacherID(req))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// DeleteCourse handles DELETE /admin/courses/:courseId
func (h *Handler) DeleteCourse(c *gin.Context) {
	courseID, ok := pathID(c, "courseId")
	if !ok {
		return
	}
	files, err := h.store.DeleteCourse(courseID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	h.removeUploads(files)
	c.Status(http.StatusNoContent)
}

// enrollmentIDs parses the student and course path parameters
func enrollmentIDs(c *gin.Context) (studentID, courseID int64, ok bool) {
	if studentID, ok = pathID(c, "studentId"); !ok {
		return 0, 0, false
	}
	if courseID, ok = pathID(c, "courseId"); !ok {
		return 0, 0, false
	}
	return studentID, courseID, true
}

// Enroll handles POST /students/:studentId/enroll/:courseId
func (h *Handler) Enroll(c *gin.Context) {
	studentID, courseID, ok := enrollmentIDs(c)
	if !ok {
		return
	}
	e, err := h.store.Enroll(studentID, courseID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	h.logger.Info().Int64("studentID", studentID).Int64("courseID", courseID).Msg("Student enrolled")
	c.JSON(http.StatusCreated, e)
}

// Unenroll handles DELETE /students/:studentId/enroll/:courseId
func (h *Handler) Unenroll(c *gin.Context) {
	studentID, courseID, ok := enrollmentIDs(c)
	if !ok {
		return
	}
	if err := h.store.Unenroll(studentID, courseID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	h.logger.Info().Int64("studentID", studentID).Int64("courseID", courseID).Msg("Student unenrolled")
	c.Status(http.StatusNoContent)
}
