package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	return c, rec
}

func TestOKMergesSuccessFlag(t *testing.T) {
	c, rec := newTestContext()
	OK(c, gin.H{"count": 2})

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success": true, "count": 2}`, rec.Body.String())
}

func TestErrorKeepsBusinessMessage(t *testing.T) {
	c, rec := newTestContext()
	Error(c, appErrors.Clone(appErrors.ErrQuotaExceeded, "College quota exceeded (45/45). Remove existing participants before adding new ones."))

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "College quota exceeded (45/45)")
}

func TestErrorHidesInternalDetailsBehindGenericMessage(t *testing.T) {
	c, rec := newTestContext()
	Error(c, errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Internal server error")
}

func TestUnauthenticatedEnvelope(t *testing.T) {
	c, rec := newTestContext()
	Unauthenticated(c, "https://vtufest2026.acharyahabba.com/")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"success": false, "message": "Token expired. Redirecting to login...", "redirect": "https://vtufest2026.acharyahabba.com/"}`, rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	c, rec := newTestContext()
	MethodNotAllowed(c)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.JSONEq(t, `{"error": "Method not allowed"}`, rec.Body.String())
}
