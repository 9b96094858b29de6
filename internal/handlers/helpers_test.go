package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/debt_ledger/internal/dto"
	"github.com/SscSPs/debt_ledger/internal/middleware"
	"github.com/SscSPs/debt_ledger/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

const (
	testJWTSecret = "test-secret-key-that-is-long-enough"
	testJWTIssuer = "debt-ledger-test"
)

// newTestRouter returns an engine with the auth middleware on /api/v1 and the
// DTO validators registered on gin's validator.
func newTestRouter(t *testing.T) (*gin.Engine, *gin.RouterGroup) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		require.NoError(t, dto.RegisterValidators(v))
	}
	r := gin.New()
	return r, r.Group("/api/v1", middleware.AuthMiddleware(testJWTSecret, testJWTIssuer))
}

func testToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := utils.GenerateJWT(userID, testJWTSecret, time.Hour, testJWTIssuer)
	require.NoError(t, err)
	return token
}

// doRequest serves one authenticated request. body is JSON-encoded when non-nil.
func doRequest(t *testing.T, r *gin.Engine, method, url, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, payload)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+testToken(t, userID))
	}
	req.Header.Set("Accept", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
