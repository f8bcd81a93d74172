package olympiad

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	httptools "github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
	"github.com/xdoubleu/essentia/v2/pkg/contexttools"
	"github.com/xdoubleu/essentia/v2/pkg/database"
	"github.com/xdoubleu/essentia/v2/pkg/parse"
	"olympiad.xdoubleu.com/apps/olympiad/internal/dtos"
	"olympiad.xdoubleu.com/apps/olympiad/internal/models"
	"olympiad.xdoubleu.com/apps/olympiad/internal/services"
	"olympiad.xdoubleu.com/internal/constants"
	sharedmodels "olympiad.xdoubleu.com/internal/models"
)

const (
	megabyte      = 1 << 20
	// parts beyond this are spooled to temporary files
	maxFormMemory = 32 << 20
)

func (app *Olympiad) submissionRoutes(prefix string, mux *http.ServeMux) {
	mux.HandleFunc(
		fmt.Sprintf("POST /%s/upload", prefix),
		app.Services.Auth.Access(app.uploadHandler),
	)
	mux.HandleFunc(
		fmt.Sprintf("POST /%s/admin/submissions/{id}/approve", prefix),
		app.Services.Auth.AdminAccess(app.approveSubmissionHandler),
	)
	mux.HandleFunc(
		fmt.Sprintf("POST /%s/admin/submissions/{id}/reject", prefix),
		app.Services.Auth.AdminAccess(app.rejectSubmissionHandler),
	)
	mux.HandleFunc(
		fmt.Sprintf("POST /%s/admin/submissions/{id}/delete", prefix),
		app.Services.Auth.AdminAccess(app.deleteSubmissionHandler),
	)
	mux.HandleFunc(
		fmt.Sprintf("GET /%s/theory/file/{id}", prefix),
		app.Services.Auth.OptionalUser(app.downloadFileHandler),
	)
	mux.HandleFunc(
		fmt.Sprintf("GET /%s/theory/video/{id}", prefix),
		app.Services.Auth.OptionalUser(app.streamVideoHandler),
	)
}

func (app *Olympiad) uploadHandler(w http.ResponseWriter, r *http.Request) {
	uploadURL := fmt.Sprintf("/%s/upload", app.GetName())

	user := contexttools.GetValue[sharedmodels.User](r.Context(), constants.UserContextKey)
	if user == nil {
		panic(errors.New("not signed in"))
	}

	maxBytes := int64(app.Config.MaxUploadSizeMB) * megabyte
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	err := r.ParseMultipartForm(maxFormMemory)
	if err != nil {
		httptools.RedirectWithError(w, r, uploadURL, err)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	var createSubmissionDto dtos.CreateSubmissionDto

	err = httptools.ReadForm(r, &createSubmissionDto)
	if err != nil {
		httptools.RedirectWithError(w, r, uploadURL, err)
		return
	}

	file, fileHeader := formFile(r, "file")
	video, videoHeader := formFile(r, "video")
	defer closeFiles(file, video)

	if fileHeader != nil {
		createSubmissionDto.FileName = fileHeader.Filename
	}
	if videoHeader != nil {
		createSubmissionDto.VideoName = videoHeader.Filename
	}

	if ok, errs := createSubmissionDto.Validate(); !ok {
		httptools.FailedValidationResponse(w, r, errs)
		return
	}

	_, err = app.Services.Submissions.Create(
		r.Context(),
		*user,
		&createSubmissionDto,
		toUpload(file, fileHeader),
		toUpload(video, videoHeader),
	)
	if err != nil {
		httptools.RedirectWithError(w, r, uploadURL, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/%s/submissions", app.GetName()), http.StatusSeeOther)
}

func (app *Olympiad) approveSubmissionHandler(w http.ResponseWriter, r *http.Request) {
	app.moderate(w, r, app.Services.Submissions.Approve)
}

func (app *Olympiad) rejectSubmissionHandler(w http.ResponseWriter, r *http.Request) {
	app.moderate(w, r, app.Services.Submissions.Reject)
}

func (app *Olympiad) deleteSubmissionHandler(w http.ResponseWriter, r *http.Request) {
	app.moderate(w, r, app.Services.Submissions.Delete)
}

func (app *Olympiad) moderate(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, id int64) error,
) {
	adminURL := fmt.Sprintf("/%s/admin/submissions", app.GetName())

	id, err := submissionID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	err = action(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrResourceNotFound) {
			http.NotFound(w, r)
			return
		}

		httptools.RedirectWithError(w, r, adminURL, err)
		return
	}

	http.Redirect(w, r, adminURL, http.StatusSeeOther)
}

func (app *Olympiad) downloadFileHandler(w http.ResponseWriter, r *http.Request) {
	submission, ok := app.accessibleSubmission(w, r)
	if !ok {
		return
	}

	if !submission.HasFile() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Disposition", attachment(*submission.FileName))
	app.serveStored(w, r, *submission.FileName, *submission.FilePath, submission.CreatedAt)
}

// attachment encodes non-ASCII names as filename* so browsers keep them.
func attachment(filename string) string {
	disposition := mime.FormatMediaType(
		"attachment",
		map[string]string{"filename": filename},
	)
	if disposition == "" {
		return "attachment"
	}

	return disposition
}

func (app *Olympiad) streamVideoHandler(w http.ResponseWriter, r *http.Request) {
	submission, ok := app.accessibleSubmission(w, r)
	if !ok {
		return
	}

	if !submission.HasVideo() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Disposition", "inline")
	app.serveStored(w, r, *submission.VideoName, *submission.VideoPath, submission.CreatedAt)
}

func (app *Olympiad) accessibleSubmission(
	w http.ResponseWriter,
	r *http.Request,
) (*models.Submission, bool) {
	id, err := submissionID(r)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	user := contexttools.GetValue[sharedmodels.User](r.Context(), constants.UserContextKey)

	submission, err := app.Services.Submissions.GetAccessible(r.Context(), id, user)
	switch {
	case errors.Is(err, services.ErrForbidden):
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return nil, false
	case errors.Is(err, database.ErrResourceNotFound):
		http.NotFound(w, r)
		return nil, false
	case err != nil:
		panic(err)
	}

	return submission, true
}

func (app *Olympiad) serveStored(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	path string,
	modTime time.Time,
) {
	file, err := app.Services.Submissions.Storage().Open(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer file.Close()

	// supports range requests for video seeking
	http.ServeContent(w, r, name, modTime, file)
}

func submissionID(r *http.Request) (int64, error) {
	idStr, err := parse.URLParam[string](r, "id", nil)
	if err != nil {
		return 0, err
	}

	return strconv.ParseInt(idStr, 10, 64)
}

func formFile(r *http.Request, key string) (multipart.File, *multipart.FileHeader) {
	file, header, err := r.FormFile(key)
	if err != nil || header.Filename == "" {
		return nil, nil
	}

	return file, header
}

func toUpload(file multipart.File, header *multipart.FileHeader) *services.Upload {
	if file == nil {
		return nil
	}

	return &services.Upload{Name: header.Filename, Content: file}
}

func closeFiles(files ...multipart.File) {
	for _, file := range files {
		if file != nil {
			_ = file.Close()
		}
	}
}
