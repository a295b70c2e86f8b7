package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/middleware"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

var errNotYourCourse = apperrors.NewCustomError(apperrors.ErrAuthorizationFailed, "You do not teach this course")

// ownsCourse answers 404 or 403 and returns false unless the caller teaches courseID
func (h *Handler) ownsCourse(c *gin.Context, courseID int64) bool {
	teacherID, err := h.store.CourseTeacher(courseID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return false
	}
	if teacherID != middleware.UserID(c) {
		middleware.HandleAPIError(c, errNotYourCourse)
		return false
	}
	return true
}

// ownsAssignment resolves the assignment's course and checks ownership
func (h *Handler) ownsAssignment(c *gin.Context, assignmentID int64) bool {
	a, err := h.store.Assignment(assignmentID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return false
	}
	return h.ownsCourse(c, a.CourseID)
}

// TeacherCourses handles GET /teacher/courses
func (h *Handler) TeacherCourses(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.CoursesByTeacher(middleware.UserID(c)))
}

// CourseStudents handles GET /teacher/courses/:courseId/students
func (h *Handler) CourseStudents(c *gin.Context) {
	courseID, ok := pathID(c, "courseId")
	if !ok || !h.ownsCourse(c, courseID) {
		return
	}
	students, err := h.store.CourseStudents(courseID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

// TeacherCourseAssignments handles GET /teacher/courses/:courseId/assignments
func (h *Handler) TeacherCourseAssignments(c *gin.Context) {
	courseID, ok := pathID(c, "courseId")
	if !ok || !h.ownsCourse(c, courseID) {
		return
	}
	assignments, err := h.store.CourseAssignments(courseID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// CreateAssignment handles POST /teacher/courses/:courseId/assignments
func (h *Handler) CreateAssignment(c *gin.Context) {
	courseID, ok := pathID(c, "courseId")
	if !ok {
		return
	}
	var req dto.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}
	if !h.ownsCourse(c, courseID) {
		return
	}
	a, err := h.store.CreateAssignment(courseID, req.Title, req.Description, req.DueDate)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// UpdateAssignment handles PUT /teacher/assignments/:assignmentId
func (h *Handler) UpdateAssignment(c *gin.Context) {
	assignmentID, ok := pathID(c, "assignmentId")
	if !ok {
		return
	}
	var req dto.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}
	if !h.ownsAssignment(c, assignmentID) {
		return
	}
	a, err := h.store.UpdateAssignment(assignmentID, req.Title, req.Description, req.DueDate)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// DeleteAssignment handles DELETE /teacher/assignments/:assignmentId
func (h *Handler) DeleteAssignment(c *gin.Context) {
	assignmentID, ok := pathID(c, "assignmentId")
	if !ok || !h.ownsAssignment(c, assignmentID) {
		return
	}
	files, err := h.store.DeleteAssignment(assignmentID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	h.removeUploads(files)
	c.Status(http.StatusNoContent)
}

// AssignmentSubmissions handles GET /teacher/assignments/:assignmentId/submissions
func (h *Handler) AssignmentSubmissions(c *gin.Context) {
	assignmentID, ok := pathID(c, "assignmentId")
	if !ok || !h.ownsAssignment(c, assignmentID) {
		return
	}
	subs, err := h.store.AssignmentSubmissions(assignmentID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// GradeSubmission handles POST /teacher/submissions/:submissionId/grade?grade=&feedback=
func (h *Handler) GradeSubmission(c *gin.Context) {
	submissionID, ok := pathID(c, "submissionId")
	if !ok {
		return
	}
	var req dto.GradeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}
	courseID, err := h.store.SubmissionCourse(submissionID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	if !h.ownsCourse(c, courseID) {
		return
	}
	sub, err := h.store.Grade(submissionID, *req.Grade, req.Feedback)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	h.logger.Info().Int64("submissionID", submissionID).Float64("grade", *req.Grade).Msg("Submission graded")
	c.JSON(http.StatusOK, sub)
}
