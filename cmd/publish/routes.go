package main

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/justinas/alice"
	"github.com/xdoubleu/essentia/v2/pkg/contexttools"
	"github.com/xdoubleu/essentia/v2/pkg/middleware"
	"github.com/xdoubleu/essentia/v2/pkg/tpl"
	"olympiad.xdoubleu.com/internal/constants"
	"olympiad.xdoubleu.com/internal/metrics"
	"olympiad.xdoubleu.com/internal/models"
)

const portalPath = "/olympiad/"

func (app *Application) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", app.Home)
	mux.HandleFunc("GET /signin", app.services.Auth.OptionalUser(app.signInPage))
	mux.HandleFunc("GET /register", app.services.Auth.OptionalUser(app.registerPage))
	mux.HandleFunc("GET /dashboard", app.services.Auth.TemplateAccess(app.Dashboard))
	mux.HandleFunc("GET /profile", app.services.Auth.TemplateAccess(app.Profile))

	mux.Handle("GET /metrics", metrics.Handler())

	app.authRoutes("api", mux)

	app.apps.Routes(mux)

	var sentryClientOptions sentry.ClientOptions
	if len(app.config.SentryDsn) > 0 {
		//nolint:exhaustruct //other fields are optional
		sentryClientOptions = sentry.ClientOptions{
			Dsn:              app.config.SentryDsn,
			Environment:      app.config.Env,
			Release:          app.config.Release,
			EnableTracing:    true,
			TracesSampleRate: app.config.SampleRate,
			SampleRate:       app.config.SampleRate,
		}
	}

	allowedOrigins := []string{app.config.WebURL}
	handlers, err := middleware.DefaultWithSentry(
		app.logger,
		allowedOrigins,
		app.config.Env,
		sentryClientOptions,
	)

	if err != nil {
		panic(err)
	}

	standard := alice.New(handlers...)
	return standard.Then(mux)
}

// Home sends visitors straight to the olympiad portal.
func (app *Application) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, portalPath, http.StatusSeeOther)
}

type PageTemplateData struct {
	User  *models.User
	Apps  []string
	Error string
}

func (app *Application) Dashboard(w http.ResponseWriter, r *http.Request) {
	tpl.RenderWithPanic(app.tpl, w, "dashboard.html", PageTemplateData{
		User:  currentUser(r),
		Apps:  app.apps.Names(),
		Error: "",
	})
}

func (app *Application) Profile(w http.ResponseWriter, r *http.Request) {
	tpl.RenderWithPanic(app.tpl, w, "profile.html", PageTemplateData{
		User:  currentUser(r),
		Apps:  app.apps.Names(),
		Error: "",
	})
}

func (app *Application) signInPage(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	tpl.RenderWithPanic(app.tpl, w, "sign-in.html", PageTemplateData{
		User:  nil,
		Apps:  nil,
		Error: r.URL.Query().Get("error"),
	})
}

func (app *Application) registerPage(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	tpl.RenderWithPanic(app.tpl, w, "register.html", PageTemplateData{
		User:  nil,
		Apps:  nil,
		Error: r.URL.Query().Get("error"),
	})
}

func currentUser(r *http.Request) *models.User {
	return contexttools.GetValue[models.User](r.Context(), constants.UserContextKey)
}
