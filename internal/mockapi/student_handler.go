package mockapi

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collegeportal/internal/middleware"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

// maxUploadSize caps a submission file
const maxUploadSize = 10 << 20

var errNotEnrolled = apperrors.NewCustomError(apperrors.ErrAuthorizationFailed, "You are not enrolled in this course")

// MyCourses handles GET /students/me/courses
func (h *Handler) MyCourses(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.CoursesByStudent(middleware.UserID(c)))
}

// MyCourse handles GET /students/me/courses/:courseId
func (h *Handler) MyCourse(c *gin.Context) {
	courseID, ok := pathID(c, "courseId")
	if !ok {
		return
	}
	course, err := h.store.Course(courseID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	if !h.store.Enrolled(middleware.UserID(c), courseID) {
		middleware.HandleAPIError(c, errNotEnrolled)
		return
	}
	c.JSON(http.StatusOK, course)
}

// MyCourseAssignments handles GET /students/me/courses/:courseId/assignments
func (h *Handler) MyCourseAssignments(c *gin.Context) {
	courseID, ok := pathID(c, "courseId")
	if !ok {
		return
	}
	assignments, err := h.store.CourseAssignments(courseID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	if !h.store.Enrolled(middleware.UserID(c), courseID) {
		middleware.HandleAPIError(c, errNotEnrolled)
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// MySubmissions handles GET /students/me/submissions
func (h *Handler) MySubmissions(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.StudentSubmissions(middleware.UserID(c)))
}

// StudentAssignment handles GET /students/assignments/:assignmentId
func (h *Handler) StudentAssignment(c *gin.Context) {
	assignmentID, ok := pathID(c, "assignmentId")
	if !ok {
		return
	}
	assignment, err := h.store.Assignment(assignmentID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	if !h.store.Enrolled(middleware.UserID(c), assignment.CourseID) {
		middleware.HandleAPIError(c, errNotEnrolled)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// MySubmission handles GET /students/assignments/:assignmentId/submission
func (h *Handler) MySubmission(c *gin.Context) {
	assignmentID, ok := pathID(c, "assignmentId")
	if !ok {
		return
	}
	sub, err := h.store.StudentSubmission(assignmentID, middleware.UserID(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Submit handles POST /students/assignments/:assignmentId/submit with
// multipart fields submissionText and file, each optional but not both
func (h *Handler) Submit(c *gin.Context) {
	assignmentID, ok := pathID(c, "assignmentId")
	if !ok {
		return
	}
	studentID := middleware.UserID(c)
	text := c.PostForm("submissionText")

	fileHeader, err := c.FormFile("file")
	if err != nil && err != http.ErrMissingFile {
		middleware.HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrBadRequest, "Invalid multipart body"))
		return
	}
	if text == "" && fileHeader == nil {
		middleware.HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrValidationFailed, "Submission text or file is required"))
		return
	}

	var fileURL string
	if fileHeader != nil {
		if fileHeader.Size > maxUploadSize {
			middleware.HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrValidationFailed, "File is too large"))
			return
		}
		f, err := fileHeader.Open()
		if err != nil {
			middleware.HandleAPIError(c, err)
			return
		}
		defer f.Close()
		fileURL, err = h.files.Save(filepath.Join("submissions", fmt.Sprint(assignmentID)), fileHeader.Filename, f)
		if err != nil {
			middleware.HandleAPIError(c, err)
			return
		}
	}

	sub, err := h.store.Submit(assignmentID, studentID, text, fileURL)
	if err != nil {
		if fileURL != "" {
			_ = h.files.Delete(fileURL)
		}
		middleware.HandleAPIError(c, err)
		return
	}

	h.logger.Info().Int64("submissionID", sub.ID).Int64("assignmentID", assignmentID).Int64("studentID", studentID).Msg("Assignment submitted")
	c.JSON(http.StatusCreated, sub)
}
