//go:build unit || e2e

package sessiontest

import (
	"net/http"
	"testing"
	"time"

	resdto "salon-booking/internal/handler/dto/response"
	"salon-booking/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// StartSession opens an anonymous checkout session and returns its bearer token.
func StartSession(t *testing.T, router *gin.Engine) resdto.SessionResponse {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/sessions", nil, "")
	require.Equal(t, http.StatusCreated, w.Code, "failed to start session: %s", w.Body.String())

	var resp resdto.SessionResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &resp))
	require.NotEmpty(t, resp.Token)
	return resp
}

// UpcomingMonday is a working day at least a week ahead in loc, far enough out
// that lead times never hide its slots.
func UpcomingMonday(loc *time.Location) time.Time {
	now := time.Now().In(loc)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 7)
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}
