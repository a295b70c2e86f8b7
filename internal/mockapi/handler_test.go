package mockapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/bootstrap"
	"github.com/yigit/collegeportal/internal/config"
	"github.com/yigit/collegeportal/internal/pkg/auth"
	"github.com/yigit/collegeportal/internal/seed"
)

func init() {
	auth.BcryptCost = bcrypt.MinCost
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	deps   *bootstrap.Dependencies
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{}
	cfg.Mock.Port = "0"
	cfg.Mock.Mode = "test"
	cfg.Mock.JWTSecret = "test-secret"
	cfg.Mock.TokenTTL = time.Hour
	cfg.Mock.Issuer = "test"
	cfg.Mock.StoragePath = t.TempDir()
	cfg.Mock.Seed = true

	deps, err := bootstrap.BuildDependencies(cfg, zerolog.Nop())
	require.NoError(t, err)
	return &testServer{t: t, router: bootstrap.SetupRouter(cfg, deps, zerolog.Nop()), deps: deps}
}

func (s *testServer) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) doJSON(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}
	return s.do(method, path, token, reader, "application/json")
}

func (s *testServer) login(email string) string {
	s.t.Helper()
	return s.loginWith(email, seed.DefaultPassword)
}

func (s *testServer) loginWith(email, password string) string {
	s.t.Helper()
	w := s.doJSON(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.AuthResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

// assignmentID finds a seeded assignment by course and title
func (s *testServer) assignmentID(courseName, title string) int64 {
	s.t.Helper()
	for _, c := range s.deps.Store.Courses() {
		if c.Name != courseName {
			continue
		}
		list, err := s.deps.Store.CourseAssignments(c.ID)
		require.NoError(s.t, err)
		for _, a := range list {
			if a.Title == title {
				return a.ID
			}
		}
	}
	s.t.Fatalf("assignment %s/%s not seeded", courseName, title)
	return 0
}

// courseID finds a seeded course by name
func (s *testServer) courseID(name string) int64 {
	s.t.Helper()
	for _, c := range s.deps.Store.Courses() {
		if c.Name == name {
			return c.ID
		}
	}
	s.t.Fatalf("course %s not seeded", name)
	return 0
}

func (s *testServer) userID(email string) int64 {
	s.t.Helper()
	u, err := s.deps.Store.UserByEmail(email)
	require.NoError(s.t, err)
	return u.ID
}

func textForm(t *testing.T, text string, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	if text != "" {
		require.NoError(t, mw.WriteField("submissionText", text))
	}
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/ping", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.doJSON(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: seed.TeacherEmail, Password: seed.DefaultPassword})
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "TEACHER", resp.Role)
	assert.Equal(t, "Tom Teacher", resp.Name)

	user, _, err := auth.ParseIdentity(resp.Token, time.Now())
	require.NoError(t, err)
	assert.Equal(t, resp.ID, user.ID)

	w = s.doJSON(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: seed.TeacherEmail, Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", decodeError(t, w).Message)

	w = s.doJSON(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "nobody@college.edu", Password: "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.doJSON(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)
	req := dto.RegisterRequest{Name: "Nia", Email: "nia@college.edu", Password: "secret1", Role: models.RoleStudent}

	w := s.doJSON(http.MethodPost, "/api/auth/register", "", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "token")

	w = s.doJSON(http.MethodPost, "/api/auth/register", "", req)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email is already in use", decodeError(t, w).Message)

	req.Email = "other@college.edu"
	req.Role = "JANITOR"
	w = s.doJSON(http.MethodPost, "/api/auth/register", "", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token := s.loginWith("nia@college.edu", "secret1")
	user, _, err := auth.ParseIdentity(token, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)
}

func TestAuthAndRoleEnforcement(t *testing.T) {
	s := newTestServer(t)
	student := s.login(seed.StudentEmail)

	w := s.do(http.MethodGet, "/api/students/me/courses", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/students/me/courses", "garbage", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidToken, decodeError(t, w).Code)

	w = s.do(http.MethodGet, "/api/admin/dashboard", student, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodGet, "/api/teacher/courses", student, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStudentEndpoints(t *testing.T) {
	s := newTestServer(t)
	student := s.login(seed.StudentEmail)

	w := s.do(http.MethodGet, "/api/students/me/courses", student, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var courses []models.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &courses))
	assert.Len(t, courses, 2)

	w = s.do(http.MethodGet, "/api/students/me/submissions", student, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var subs []models.Submission
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subs))
	assert.Len(t, subs, 2)

	normalization := s.assignmentID("Databases", "Normalization")
	w = s.do(http.MethodGet, "/api/students/assignments/"+itoa(normalization)+"/submission", student, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	student2 := s.login(seed.Student2Email)
	w = s.do(http.MethodGet, "/api/students/assignments/"+itoa(normalization), student2, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSubmitRules(t *testing.T) {
	s := newTestServer(t)
	student := s.login(seed.StudentEmail)
	student2 := s.login(seed.Student2Email)
	normalization := s.assignmentID("Databases", "Normalization")
	sorting := s.assignmentID("Algorithms", "Sorting")
	submitPath := func(id int64) string { return "/api/students/assignments/" + itoa(id) + "/submit" }

	body, ct := textForm(t, "", "", nil)
	w := s.do(http.MethodPost, submitPath(normalization), student, body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty submission")

	body, ct = textForm(t, "late", "", nil)
	w = s.do(http.MethodPost, submitPath(sorting), student2, body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code, "past due")

	body, ct = textForm(t, "not mine", "", nil)
	w = s.do(http.MethodPost, submitPath(normalization), student2, body, ct)
	assert.Equal(t, http.StatusForbidden, w.Code, "not enrolled")

	body, ct = textForm(t, "3NF schema", "schema.sql", []byte("CREATE TABLE t();"))
	w = s.do(http.MethodPost, submitPath(normalization), student, body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sub models.Submission
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sub))
	assert.Equal(t, normalization, sub.AssignmentID)
	assert.Equal(t, "3NF schema", sub.SubmissionText)
	require.NotEmpty(t, sub.FileURL)
	assert.Contains(t, sub.FileURL, "/uploads/submissions/")

	w = s.do(http.MethodGet, sub.FileURL, "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CREATE TABLE t();", w.Body.String())

	body, ct = textForm(t, "again", "", nil)
	w = s.do(http.MethodPost, submitPath(normalization), student, body, ct)
	assert.Equal(t, http.StatusConflict, w.Code, "second submission")
}

func TestGradeSubmission(t *testing.T) {
	s := newTestServer(t)
	teacher := s.login(seed.TeacherEmail)
	sorting := s.assignmentID("Algorithms", "Sorting")

	w := s.do(http.MethodGet, "/api/teacher/assignments/"+itoa(sorting)+"/submissions", teacher, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var subs []models.Submission
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subs))
	require.Len(t, subs, 2)

	var ungraded models.Submission
	for _, sub := range subs {
		if !sub.Graded() {
			ungraded = sub
		}
	}
	require.NotZero(t, ungraded.ID)
	gradePath := "/api/teacher/submissions/" + itoa(ungraded.ID) + "/grade"

	w = s.do(http.MethodPost, gradePath, teacher, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "grade is required")
	w = s.do(http.MethodPost, gradePath+"?grade=150", teacher, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "grade above 100")

	q := url.Values{"grade": {"78.5"}, "feedback": {"Missing quicksort analysis"}}
	w = s.do(http.MethodPost, gradePath+"?"+q.Encode(), teacher, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var graded models.Submission
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &graded))
	require.NotNil(t, graded.Grade)
	assert.Equal(t, 78.5, *graded.Grade)
	assert.Equal(t, "Missing quicksort analysis", *graded.Feedback)
}

func TestTeacherOwnership(t *testing.T) {
	s := newTestServer(t)
	hash, err := auth.HashPassword(seed.DefaultPassword)
	require.NoError(t, err)
	other, err := s.deps.Store.CreateUser("Olga Other", "olga@college.edu", hash, models.RoleTeacher)
	require.NoError(t, err)
	course, err := s.deps.Store.CreateCourse("Compilers", "", other.ID)
	require.NoError(t, err)

	teacher := s.login(seed.TeacherEmail)
	w := s.do(http.MethodGet, "/api/teacher/courses/"+itoa(course.ID)+"/assignments", teacher, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.doJSON(http.MethodPost, "/api/teacher/courses/"+itoa(course.ID)+"/assignments", teacher,
		map[string]string{"title": "Parsing", "dueDate": "2030-01-01"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.doJSON(http.MethodPost, "/api/teacher/courses/"+itoa(course.ID)+"/assignments", s.login("olga@college.edu"),
		map[string]string{"title": "Parsing", "dueDate": "2030-01-01"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var a models.Assignment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	assert.Equal(t, "2030-01-01", a.DueDate.String())

	w = s.do(http.MethodGet, "/api/teacher/courses/999999/students", teacher, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodGet, "/api/teacher/courses/abc/students", teacher, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminEndpoints(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(seed.AdminEmail)

	w := s.do(http.MethodGet, "/api/admin/dashboard", admin, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalStudents)
	assert.Equal(t, 1, stats.TotalTeachers)
	assert.Equal(t, 2, stats.TotalCourses)

	w = s.doJSON(http.MethodPost, "/api/admin/courses", admin, dto.CourseRequest{Name: "Networks"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var course models.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &course))
	assert.Nil(t, course.Teacher)

	w = s.do(http.MethodDelete, "/api/admin/courses/"+itoa(course.ID), admin, nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	me, err := s.deps.Store.UserByEmail(seed.AdminEmail)
	require.NoError(t, err)
	w = s.do(http.MethodDelete, "/api/admin/users/"+itoa(me.ID), admin, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	student, err := s.deps.Store.UserByEmail(seed.Student2Email)
	require.NoError(t, err)
	w = s.do(http.MethodDelete, "/api/admin/users/"+itoa(student.ID), admin, nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/api/admin/students", admin, nil, "")
	var students []models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &students))
	assert.Len(t, students, 1)
}

func TestEnrollment(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(seed.AdminEmail)
	student2 := s.login(seed.Student2Email)
	databases := s.courseID("Databases")
	path := func(studentID, courseID int64) string {
		return "/api/students/" + itoa(studentID) + "/enroll/" + itoa(courseID)
	}
	myCourses := func() []string {
		w := s.do(http.MethodGet, "/api/students/me/courses", student2, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var courses []models.Course
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &courses))
		names := make([]string, 0, len(courses))
		for _, c := range courses {
			names = append(names, c.Name)
		}
		return names
	}
	sara := s.userID(seed.Student2Email)
	assert.NotContains(t, myCourses(), "Databases")

	w := s.do(http.MethodPost, path(sara, databases), student2, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code, "students cannot enroll themselves")

	w = s.do(http.MethodPost, path(sara, databases), admin, nil, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var e models.Enrollment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	require.NotNil(t, e.Course)
	assert.Equal(t, "Databases", e.Course.Name)
	assert.Contains(t, myCourses(), "Databases")

	w = s.do(http.MethodPost, path(sara, databases), admin, nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, path(s.userID(seed.TeacherEmail), databases), admin, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "only students can be enrolled")

	w = s.do(http.MethodPost, path(sara, 9999), admin, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, path(sara, databases), admin, nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotContains(t, myCourses(), "Databases")

	w = s.do(http.MethodDelete, path(sara, databases), admin, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/students/me/courses", student2, nil, "")
	assert.Equal(t, http.StatusOK, w.Code, "student routes are unaffected by the admin enrollment routes")
}

func TestDeletesRemoveUploads(t *testing.T) {
	s := newTestServer(t)
	student := s.login(seed.StudentEmail)
	teacher := s.login(seed.TeacherEmail)
	admin := s.login(seed.AdminEmail)

	upload := func(assignmentID int64) string {
		body, ct := textForm(t, "", "answer.txt", []byte("42"))
		w := s.do(http.MethodPost, "/api/students/assignments/"+itoa(assignmentID)+"/submit", student, body, ct)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var sub models.Submission
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sub))
		full := s.deps.FileStorage.FullPath(sub.FileURL)
		require.FileExists(t, full)
		return full
	}

	normalization := upload(s.assignmentID("Databases", "Normalization"))
	w := s.do(http.MethodDelete, "/api/teacher/assignments/"+itoa(s.assignmentID("Databases", "Normalization")), teacher, nil, "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.NoFileExists(t, normalization)

	heaps, err := s.deps.Store.CreateAssignment(s.courseID("Algorithms"), "Heaps", "", models.NewDate(2099, time.January, 1))
	require.NoError(t, err)
	heapsFile := upload(heaps.ID)
	w = s.do(http.MethodDelete, "/api/admin/courses/"+itoa(s.courseID("Algorithms")), admin, nil, "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.NoFileExists(t, heapsFile)

	indexes, err := s.deps.Store.CreateAssignment(s.courseID("Databases"), "Indexes", "", models.NewDate(2099, time.January, 1))
	require.NoError(t, err)
	indexesFile := upload(indexes.ID)
	w = s.do(http.MethodDelete, "/api/admin/users/"+itoa(s.userID(seed.StudentEmail)), admin, nil, "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.NoFileExists(t, indexesFile)
}
