package olympiad_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xdoubleu/essentia/v2/pkg/test"
)

func TestHome(t *testing.T) {
	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodGet,
		"/olympiad/",
	)

	rs := tReq.Do(t)
	require.Equal(t, http.StatusOK, rs.StatusCode)

	body, err := io.ReadAll(rs.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Отборочный этап открыт")
	assert.Contains(t, string(body), "Обновление недоступно")
	assert.Contains(t, string(body), "Январь 2026")
	assert.Contains(t, string(body), "Февраль 2026")
}

func TestHomeSignedIn(t *testing.T) {
	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodGet,
		"/olympiad/",
	)
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	require.Equal(t, http.StatusOK, rs.StatusCode)

	body, err := io.ReadAll(rs.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "/olympiad/admin/submissions")
}

func TestTheory(t *testing.T) {
	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodGet,
		"/olympiad/theory",
	)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusOK, rs.StatusCode)
}

func TestUploadForm(t *testing.T) {
	tReq := test.CreateRequestTester(
		routesOf(memberApp),
		http.MethodGet,
		"/olympiad/upload",
	)
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusOK, rs.StatusCode)
}

func TestUploadFormAnonymous(t *testing.T) {
	tReq := test.CreateRequestTester(
		routesOf(memberApp),
		http.MethodGet,
		"/olympiad/upload",
	)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusUnauthorized, rs.StatusCode)
}

func TestMySubmissions(t *testing.T) {
	tReq := test.CreateRequestTester(
		routesOf(memberApp),
		http.MethodGet,
		"/olympiad/submissions",
	)
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusOK, rs.StatusCode)
}

func TestAdminSubmissions(t *testing.T) {
	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodGet,
		"/olympiad/admin/submissions",
	)
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusOK, rs.StatusCode)
}

func TestAdminSubmissionsForbidden(t *testing.T) {
	tReq := test.CreateRequestTester(
		routesOf(memberApp),
		http.MethodGet,
		"/olympiad/admin/submissions",
	)
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusForbidden, rs.StatusCode)
}

func TestCalendarICS(t *testing.T) {
	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodGet,
		"/olympiad/calendar.ics",
	)

	rs := tReq.Do(t)
	require.Equal(t, http.StatusOK, rs.StatusCode)
	assert.Contains(t, rs.Header.Get("Content-Type"), "text/calendar")

	body, err := io.ReadAll(rs.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "BEGIN:VCALENDAR")
	assert.Contains(t, string(body), "BEGIN:VEVENT")
}
