package olympiad

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/xdoubleu/essentia/v2/pkg/contexttools"
	tpltools "github.com/xdoubleu/essentia/v2/pkg/tpl"
	"olympiad.xdoubleu.com/apps/olympiad/internal/models"
	"olympiad.xdoubleu.com/apps/olympiad/internal/storage"
	"olympiad.xdoubleu.com/internal/constants"
	sharedmodels "olympiad.xdoubleu.com/internal/models"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"deref": func(value *string) string {
			if value == nil {
				return ""
			}
			return *value
		},
		"accept": func(kind string) string {
			extensions := []string{}
			for _, ext := range storage.AllowedExtensions(storage.Kind(kind)) {
				extensions = append(extensions, "."+ext)
			}
			return strings.Join(extensions, ",")
		},
	}
}

func (app *Olympiad) templateRoutes(prefix string, mux *http.ServeMux) {
	mux.HandleFunc(
		fmt.Sprintf("GET /%s/{$}", prefix),
		app.Services.Auth.OptionalUser(app.homeHandler),
	)
	mux.HandleFunc(
		fmt.Sprintf("GET /%s/theory", prefix),
		app.Services.Auth.OptionalUser(app.theoryHandler),
	)
	mux.HandleFunc(
		fmt.Sprintf("GET /%s/upload", prefix),
		app.Services.Auth.TemplateAccess(app.uploadFormHandler),
	)
	mux.HandleFunc(
		fmt.Sprintf("GET /%s/submissions", prefix),
		app.Services.Auth.TemplateAccess(app.mySubmissionsHandler),
	)
	mux.HandleFunc(
		fmt.Sprintf("GET /%s/admin/submissions", prefix),
		app.Services.Auth.AdminAccess(app.adminSubmissionsHandler),
	)
}

type HomeTemplateData struct {
	User     *sharedmodels.User
	News     []models.NewsItem
	Calendar models.CalendarView
}

func (app *Olympiad) homeHandler(w http.ResponseWriter, r *http.Request) {
	user := contexttools.GetValue[sharedmodels.User](
		r.Context(),
		constants.UserContextKey,
	)

	data := HomeTemplateData{
		User:     user,
		News:     app.Services.News.GetNews(r.Context()),
		Calendar: app.Services.Calendar.GetView(r.Context(), app.clock.Now()),
	}

	tpltools.RenderWithPanic(app.tpl, w, "home.html", data)
}

type SubmissionsTemplateData struct {
	User        *sharedmodels.User
	Submissions []models.Submission
}

func (app *Olympiad) theoryHandler(w http.ResponseWriter, r *http.Request) {
	user := contexttools.GetValue[sharedmodels.User](
		r.Context(),
		constants.UserContextKey,
	)

	submissions, err := app.Services.Submissions.ListApproved(r.Context())
	if err != nil {
		panic(err)
	}

	tpltools.RenderWithPanic(app.tpl, w, "theory.html", SubmissionsTemplateData{
		User:        user,
		Submissions: submissions,
	})
}

func (app *Olympiad) uploadFormHandler(w http.ResponseWriter, r *http.Request) {
	user := contexttools.GetValue[sharedmodels.User](
		r.Context(),
		constants.UserContextKey,
	)
	if user == nil {
		panic(errors.New("not signed in"))
	}

	tpltools.RenderWithPanic(app.tpl, w, "upload.html", SubmissionsTemplateData{
		User:        user,
		Submissions: nil,
	})
}

func (app *Olympiad) mySubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	user := contexttools.GetValue[sharedmodels.User](
		r.Context(),
		constants.UserContextKey,
	)
	if user == nil {
		panic(errors.New("not signed in"))
	}

	submissions, err := app.Services.Submissions.ListByUser(r.Context(), user.ID)
	if err != nil {
		panic(err)
	}

	tpltools.RenderWithPanic(app.tpl, w, "submissions.html", SubmissionsTemplateData{
		User:        user,
		Submissions: submissions,
	})
}

func (app *Olympiad) adminSubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	user := contexttools.GetValue[sharedmodels.User](
		r.Context(),
		constants.UserContextKey,
	)

	submissions, err := app.Services.Submissions.ListAll(r.Context())
	if err != nil {
		panic(err)
	}

	tpltools.RenderWithPanic(app.tpl, w, "admin.html", SubmissionsTemplateData{
		User:        user,
		Submissions: submissions,
	})
}
