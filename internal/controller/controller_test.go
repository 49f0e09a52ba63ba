package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/internal/testutil"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type api struct {
	t      *testing.T
	router *gin.Engine
}

// newAPI 与 app 中的路由保持一致的精简版本
func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	util.RegisterValidators()

	db := testutil.DB(t)
	cfg := testutil.Config(t)

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	contentRepo := repository.NewContentRepository(db)
	enrollRepo := repository.NewEnrollmentRepository(db)
	complRepo := repository.NewCompletionRepository(db)
	storage := service.NewStorageService(cfg)

	auth := service.NewAuthService(userRepo, cfg, nil)
	courses := service.NewCourseService(courseRepo, storage)
	enrollments := service.NewEnrollmentService(courseRepo, enrollRepo)
	completions := service.NewCompletionService(db, contentRepo, enrollRepo, complRepo)
	progress := service.NewProgressService(courseRepo, contentRepo, complRepo, enrollRepo)
	content := service.NewContentService(contentRepo, courseRepo, courses, completions, storage)
	certs := service.NewCertificateService(db, &cfg.Certificate, repository.NewCertificateRepository(db),
		enrollRepo, courseRepo, userRepo, progress, storage, service.PDFRenderer{})

	authC := NewAuthController(auth)
	courseC := NewCourseController(courses, enrollments, completions)
	contentC := NewContentController(content, completions)
	progressC := NewProgressController(progress)
	certC := NewCertificateController(certs)

	r := gin.New()
	pub := r.Group("/api")
	pub.POST("/register", authC.Register)
	pub.POST("/login", authC.Login)
	pub.GET("/courses/:id", middleware.TryAuthMiddleware(cfg.JWT.Secret, auth), courseC.GetCourse)
	pub.GET("/certificates/verify/:number", certC.VerifyCertificate)

	priv := r.Group("/api", middleware.AuthMiddleware(cfg.JWT.Secret, auth))
	priv.POST("/courses/:id/enroll", courseC.Enroll)
	priv.GET("/contents/:id", contentC.ViewContent)
	priv.POST("/contents/:id/complete", contentC.CompleteContent)
	priv.GET("/courses/:id/progress", progressC.GetCourseProgress)
	priv.GET("/courses/:id/progress/history", progressC.History)
	priv.POST("/courses/:id/certificate", certC.IssueCertificate)
	priv.GET("/certificates/:id/download", certC.DownloadCertificate)

	teach := priv.Group("", middleware.InstructorMiddleware())
	teach.POST("/courses", courseC.CreateCourse)
	teach.POST("/courses/:id/modules", courseC.CreateModule)
	teach.POST("/modules/:id/contents", contentC.CreateContent)

	return &api{t: t, router: r}
}

func (a *api) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (a *api) login(username string, instructor bool) string {
	a.t.Helper()
	w, _ := a.do(http.MethodPost, "/api/register", "", gin.H{
		"username":        username,
		"email":           username + "@example.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
		"isInstructor":    instructor,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	w, env := a.do(http.MethodPost, "/api/login", "", gin.H{
		"email":    username + "@example.com",
		"password": "secret1",
	})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &out))
	return out.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type idOnly struct {
	ID uint `json:"id"`
}

func TestCourseCompletionFlow(t *testing.T) {
	a := newAPI(t)

	lecturer := a.login("lecturer", true)
	student := a.login("student", false)

	w, env := a.do(http.MethodPost, "/api/courses", lecturer, gin.H{"title": "Go", "description": "Learn Go", "category": "Programming"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	course := decode[idOnly](t, env.Data)

	w, _ = a.do(http.MethodPost, "/api/courses", student, gin.H{"title": "Nope", "description": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = a.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/modules", course.ID), lecturer, gin.H{"title": "Basics"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	module := decode[idOnly](t, env.Data)

	var contentIDs []uint
	for i := 1; i <= 2; i++ {
		w, env = a.do(http.MethodPost, fmt.Sprintf("/api/modules/%d/contents", module.ID), lecturer, gin.H{
			"title":       fmt.Sprintf("Lesson %d", i),
			"contentType": "text",
			"contentText": "hello",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		contentIDs = append(contentIDs, decode[idOnly](t, env.Data).ID)
	}

	// 未报名不能查看内容
	w, _ = a.do(http.MethodGet, fmt.Sprintf("/api/contents/%d", contentIDs[0]), student, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = a.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", course.ID), student, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, _ = a.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", course.ID), student, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = a.do(http.MethodGet, fmt.Sprintf("/api/contents/%d", contentIDs[0]), student, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decode[service.ContentView](t, env.Data)
	assert.True(t, view.Completed)
	assert.True(t, view.Recorded)

	w, _ = a.do(http.MethodPost, fmt.Sprintf("/api/contents/%d/complete", contentIDs[0]), student, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = a.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/certificate", course.ID), student, nil)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	partial := decode[struct {
		Completed  int     `json:"completed"`
		Total      int     `json:"total"`
		Percentage float64 `json:"percentage"`
	}](t, env.Data)
	assert.Equal(t, 1, partial.Completed)
	assert.Equal(t, 2, partial.Total)
	assert.Equal(t, 50.0, partial.Percentage)

	w, _ = a.do(http.MethodPost, fmt.Sprintf("/api/contents/%d/complete", contentIDs[1]), student, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w, env = a.do(http.MethodGet, fmt.Sprintf("/api/courses/%d/progress", course.ID), student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"percentage":100`)

	w, env = a.do(http.MethodGet, fmt.Sprintf("/api/courses/%d", course.ID), student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[struct {
		Enrolled  bool   `json:"enrolled"`
		Completed []uint `json:"completedContentIds"`
	}](t, env.Data)
	assert.True(t, detail.Enrolled)
	assert.ElementsMatch(t, contentIDs, detail.Completed)

	w, env = a.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/certificate", course.ID), student, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	issued := decode[service.IssueResult](t, env.Data)

	w, env = a.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/certificate", course.ID), student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[service.IssueResult](t, env.Data).Existing)

	w, _ = a.do(http.MethodGet, "/api/certificates/verify/"+issued.Certificate.CertificateNumber, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = a.do(http.MethodGet, "/api/certificates/verify/CERT-000000000000", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = a.do(http.MethodGet, fmt.Sprintf("/api/certificates/%d/download", issued.Certificate.ID), student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, util.MimePDF, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), issued.Certificate.CertificateNumber)
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))

	w, _ = a.do(http.MethodGet, fmt.Sprintf("/api/certificates/%d/download", issued.Certificate.ID), lecturer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	a := newAPI(t)
	a.login("alice", false)

	w, _ := a.do(http.MethodPost, "/api/register", "", gin.H{
		"username":        "alice",
		"email":           "fresh@example.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = a.do(http.MethodPost, "/api/register", "", gin.H{
		"username":        "bob",
		"email":           "bob@example.com",
		"password":        "secret1",
		"confirmPassword": "different",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.do(http.MethodPost, "/api/login", "", gin.H{"email": "alice@example.com", "password": "wrong!"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// courseWithLessons 讲师创建一门课程、一个章节和 n 个文本内容
func (a *api) courseWithLessons(token string, n int) (uint, []uint) {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/courses", token, gin.H{"title": "Rounding", "description": "thirds"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	course := decode[idOnly](a.t, env.Data)

	w, env = a.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/modules", course.ID), token, gin.H{"title": "Only"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	module := decode[idOnly](a.t, env.Data)

	ids := make([]uint, 0, n)
	for i := 1; i <= n; i++ {
		w, env = a.do(http.MethodPost, fmt.Sprintf("/api/modules/%d/contents", module.ID), token, gin.H{
			"title":       fmt.Sprintf("Part %d", i),
			"contentType": "text",
			"contentText": "body",
		})
		require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
		ids = append(ids, decode[idOnly](a.t, env.Data).ID)
	}
	return course.ID, ids
}

func TestCourseProgressRoundsToOneDecimal(t *testing.T) {
	a := newAPI(t)
	lecturer := a.login("lecturer", true)
	student := a.login("student", false)

	courseID, contentIDs := a.courseWithLessons(lecturer, 3)
	w, _ := a.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", courseID), student, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	progressPath := fmt.Sprintf("/api/courses/%d/progress", courseID)
	want := []string{`"percentage":33.3`, `"percentage":66.7`, `"percentage":100`}
	for i, id := range contentIDs {
		w, _ = a.do(http.MethodPost, fmt.Sprintf("/api/contents/%d/complete", id), student, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w, env := a.do(http.MethodGet, progressPath, student, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(env.Data), want[i])
		assert.Contains(t, string(env.Data), fmt.Sprintf(`"completed":%d`, i+1))

		if i == 0 {
			// 资格不足时返回的进度同样取一位小数
			w, env = a.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/certificate", courseID), student, nil)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, string(env.Data), `"percentage":33.3`)
		}
	}
}

func TestProgressHistoryEndpoint(t *testing.T) {
	a := newAPI(t)
	lecturer := a.login("lecturer", true)
	student := a.login("student", false)
	outsider := a.login("outsider", false)

	courseID, contentIDs := a.courseWithLessons(lecturer, 2)
	w, _ := a.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", courseID), student, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = a.do(http.MethodPost, fmt.Sprintf("/api/contents/%d/complete", contentIDs[1]), student, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	historyPath := fmt.Sprintf("/api/courses/%d/progress/history", courseID)
	w, env := a.do(http.MethodGet, historyPath, student, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var items []model.Progress
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, contentIDs[1], items[0].ContentID)
	assert.True(t, items[0].Completed)

	w, _ = a.do(http.MethodGet, historyPath, outsider, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = a.do(http.MethodGet, "/api/courses/9999/progress/history", student, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
