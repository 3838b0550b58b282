package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shreesteel/backend/internal/auth"
	"github.com/shreesteel/backend/internal/logger"
	"github.com/shreesteel/backend/internal/models"
	"github.com/shreesteel/backend/internal/repository"
)

type testEnv struct {
	router      *gin.Engine
	db          *gorm.DB
	submissions repository.SubmissionRepository
	visits      repository.VisitRepository
	auth        *auth.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	_ = logger.Initialize("error", "")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ContactSubmission{}, &models.UserVisit{}))

	submissions := repository.NewSubmissionRepository(db)
	visits := repository.NewVisitRepository(db)
	authService := auth.NewService([]byte("test-secret"), "admin", "s3cret", "", time.Hour)

	h := NewHandlers(submissions, visits, authService)
	router := gin.New()
	h.RegisterRoutes(router)

	return &testEnv{
		router:      router,
		db:          db,
		submissions: submissions,
		visits:      visits,
		auth:        authService,
	}
}

// doJSON issues a JSON request against the test router.
func (e *testEnv) doJSON(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// adminHeaders logs in and returns the bearer header for admin routes.
func (e *testEnv) adminHeaders(t *testing.T) map[string]string {
	t.Helper()
	resp, err := e.auth.Login("admin", "s3cret")
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + resp.Token}
}

// decodeBody unmarshals a recorded response body into a map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func validContactBody() map[string]interface{} {
	return map[string]interface{}{
		"name":      "Ramesh Patel",
		"email":     "ramesh@example.com",
		"phone":     "+919876543210",
		"subject":   "Window grills for new flat",
		"message":   "Need six window grills fabricated and installed next month.",
		"sessionId": "sess-100",
		"visitorId": "visitor-100",
	}
}

func trackVisit(t *testing.T, e *testEnv, sessionID string) {
	t.Helper()
	w := e.doJSON(t, http.MethodPost, "/api/tracking/visit", map[string]interface{}{
		"sessionId":   sessionID,
		"visitorId":   "visitor-" + sessionID,
		"currentPage": "home",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
}
