package olympiad_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xdoubleu/essentia/v2/pkg/test"
	"olympiad.xdoubleu.com/apps/olympiad/internal/models"
)

type uploadFile struct {
	field   string
	name    string
	content string
}

func uploadRequest(
	t *testing.T,
	title string,
	files ...uploadFile,
) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	require.NoError(t, writer.WriteField("title", title))
	require.NoError(t, writer.WriteField("description", "разбор задач"))

	for _, file := range files {
		part, err := writer.CreateFormFile(file.field, file.name)
		require.NoError(t, err)

		_, err = io.WriteString(part, file.content)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/olympiad/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(&accessToken)

	rec := httptest.NewRecorder()
	routesOf(memberApp).ServeHTTP(rec, req)

	return rec
}

func uploadSubmission(t *testing.T, files ...uploadFile) models.Submission {
	t.Helper()

	rec := uploadRequest(t, "Комбинаторика", files...)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/olympiad/submissions", rec.Header().Get("Location"))

	submissions, err := memberApp.Services.Submissions.ListByUser(
		context.Background(),
		member.ID,
	)
	require.NoError(t, err)
	require.NotEmpty(t, submissions)

	submission := submissions[0]
	assert.Equal(t, models.StatusPending, submission.Status)

	return submission
}

func moderate(t *testing.T, id int64, action string) int {
	t.Helper()

	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodPost,
		fmt.Sprintf("/olympiad/admin/submissions/%d/%s", id, action),
	)
	tReq.SetFollowRedirect(false)
	tReq.AddCookie(&accessToken)

	return tReq.Do(t).StatusCode
}

func get(t *testing.T, handler http.Handler, path string, signedIn bool) *http.Response {
	t.Helper()

	tReq := test.CreateRequestTester(handler, http.MethodGet, path)
	if signedIn {
		tReq.AddCookie(&accessToken)
	}

	return tReq.Do(t)
}

func TestUploadApproveDownload(t *testing.T) {
	submission := uploadSubmission(t, uploadFile{
		field:   "file",
		name:    "notes.pdf",
		content: "pdf content",
	})
	require.True(t, submission.HasFile())
	assert.False(t, submission.HasVideo())

	filePath := fmt.Sprintf("/olympiad/theory/file/%d", submission.ID)

	rs := get(t, routesOf(memberApp), filePath, true)
	assert.Equal(t, http.StatusForbidden, rs.StatusCode)

	rs = get(t, getRoutes(), filePath, true)
	assert.Equal(t, http.StatusOK, rs.StatusCode)

	assert.Equal(t, http.StatusSeeOther, moderate(t, submission.ID, "approve"))

	rs = get(t, routesOf(memberApp), filePath, false)
	require.Equal(t, http.StatusOK, rs.StatusCode)
	assert.Contains(t, rs.Header.Get("Content-Disposition"), "attachment")

	content, err := io.ReadAll(rs.Body)
	require.NoError(t, err)
	assert.Equal(t, "pdf content", string(content))

	rs = get(t, getRoutes(), "/olympiad/theory", false)
	body, err := io.ReadAll(rs.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "notes.pdf")

	rs = get(t, getRoutes(), fmt.Sprintf("/olympiad/theory/video/%d", submission.ID), false)
	assert.Equal(t, http.StatusNotFound, rs.StatusCode)
}

func TestDownloadKeepsNonASCIIFilename(t *testing.T) {
	submission := uploadSubmission(t, uploadFile{
		field:   "file",
		name:    "конспект \"финал\".pdf",
		content: "pdf content",
	})
	require.NotNil(t, submission.FileName)

	assert.Equal(t, http.StatusSeeOther, moderate(t, submission.ID, "approve"))

	rs := get(
		t,
		routesOf(memberApp),
		fmt.Sprintf("/olympiad/theory/file/%d", submission.ID),
		false,
	)
	require.Equal(t, http.StatusOK, rs.StatusCode)

	disposition, params, err := mime.ParseMediaType(rs.Header.Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, *submission.FileName, params["filename"])
}

func TestUploadVideoRange(t *testing.T) {
	submission := uploadSubmission(t, uploadFile{
		field:   "video",
		name:    "lecture.mp4",
		content: "0123456789",
	})
	assert.Equal(t, http.StatusSeeOther, moderate(t, submission.ID, "approve"))

	req := httptest.NewRequest(
		http.MethodGet,
		fmt.Sprintf("/olympiad/theory/video/%d", submission.ID),
		nil,
	)
	req.Header.Set("Range", "bytes=0-3")

	rec := httptest.NewRecorder()
	getRoutes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "0123", rec.Body.String())
	assert.Equal(t, "inline", rec.Header().Get("Content-Disposition"))
}

func TestRejectAndDelete(t *testing.T) {
	submission := uploadSubmission(t, uploadFile{
		field:   "file",
		name:    "task.txt",
		content: "условие",
	})

	assert.Equal(t, http.StatusSeeOther, moderate(t, submission.ID, "reject"))

	rs := get(t, routesOf(memberApp), fmt.Sprintf("/olympiad/theory/file/%d", submission.ID), true)
	assert.Equal(t, http.StatusForbidden, rs.StatusCode)

	assert.Equal(t, http.StatusSeeOther, moderate(t, submission.ID, "delete"))

	rs = get(t, getRoutes(), fmt.Sprintf("/olympiad/theory/file/%d", submission.ID), true)
	assert.Equal(t, http.StatusNotFound, rs.StatusCode)

	_, err := testApp.Services.Submissions.Storage().Open(*submission.FilePath)
	assert.Error(t, err)
}

func TestModerateNotFound(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, moderate(t, 987654321, "approve"))
	assert.Equal(t, http.StatusNotFound, moderate(t, 987654321, "delete"))
}

func TestModerateForbidden(t *testing.T) {
	submission := uploadSubmission(t, uploadFile{
		field:   "file",
		name:    "draft.docx",
		content: "draft",
	})

	tReq := test.CreateRequestTester(
		routesOf(memberApp),
		http.MethodPost,
		fmt.Sprintf("/olympiad/admin/submissions/%d/approve", submission.ID),
	)
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusForbidden, rs.StatusCode)
}

func TestUploadValidation(t *testing.T) {
	rec := uploadRequest(t, "Без вложений")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = uploadRequest(t, "Неверный формат", uploadFile{
		field:   "file",
		name:    "script.exe",
		content: "binary",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = uploadRequest(t, "  ", uploadFile{
		field:   "file",
		name:    "notes.pdf",
		content: "pdf",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDownloadUnknown(t *testing.T) {
	rs := get(t, getRoutes(), "/olympiad/theory/file/987654321", false)
	assert.Equal(t, http.StatusNotFound, rs.StatusCode)

	rs = get(t, getRoutes(), "/olympiad/theory/file/abc", false)
	assert.Equal(t, http.StatusNotFound, rs.StatusCode)
}
