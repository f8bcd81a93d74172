package main

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/supabase-community/gotrue-go"
	"github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"github.com/xdoubleu/essentia/v2/pkg/sentrytools"
	"github.com/xhit/go-str2duration/v2"
	"olympiad.xdoubleu.com/cmd/publish/internal/repositories"
	"olympiad.xdoubleu.com/cmd/publish/internal/services"
	"olympiad.xdoubleu.com/internal/config"
	"olympiad.xdoubleu.com/internal/migrations"
)

//go:embed templates/html/**/*html
var htmlTemplates embed.FS

type Application struct {
	logger   *slog.Logger
	config   config.Config
	services *services.Services
	apps     *Apps
	tpl      *template.Template
}

//	@title			olympiad
//	@version		1.0
//	@license.name	GPL-3.0
//	@Accept			json
//	@Produce		json

func main() {
	cfg := config.New(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	logger := slog.New(sentrytools.NewLogHandler(cfg.Env,
		slog.NewTextHandler(os.Stdout, nil)))
	db, err := postgres.Connect(
		logger,
		cfg.DBDsn,
		25, //nolint:mnd //no magic number
		"15m",
		60,             //nolint:mnd //no magic number
		10*time.Second, //nolint:mnd //no magic number
		5*time.Minute,  //nolint:mnd //no magic number
	)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	supabase := gotrue.New(
		cfg.SupabaseProjRef,
		cfg.SupabaseAPIKey,
	)

	app := NewApplication(logger, cfg, db, supabase)
	srv, err := newServer(cfg, app.Routes())
	if err != nil {
		panic(err)
	}

	err = httptools.Serve(logger, srv, cfg.Env)
	if err != nil {
		logger.Error("failed to serve server", logging.ErrAttr(err))
	}
}

// newServer bounds the time for request headers only. Bodies and responses
// get UPLOAD_TIMEOUT since uploads and video streams are large.
func newServer(cfg config.Config, handler http.Handler) (*http.Server, error) {
	uploadTimeout, err := str2duration.ParseDuration(cfg.UploadTimeout)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second, //nolint:mnd //no magic number
		ReadTimeout:       uploadTimeout,
		WriteTimeout:      uploadTimeout,
	}, nil
}

func NewApplication(
	logger *slog.Logger,
	config config.Config,
	db *pgxpool.Pool,
	supabaseClient gotrue.Client,
) *Application {
	tpl := template.Must(template.ParseFS(htmlTemplates, "templates/html/**/*.html"))

	spandb := postgres.NewSpanDB(db)

	//nolint:exhaustruct //other fields are optional
	app := &Application{
		logger: logger,
		config: config,
		services: services.New(
			config,
			repositories.New(spandb),
			supabaseClient,
			tpl,
		),
		tpl: tpl,
	}

	app.apps = NewApps(app.services.Auth, logger, config, db)

	err := app.ApplyMigrations(db)
	if err != nil {
		panic(err)
	}

	err = app.services.Auth.EnsureAdmin(context.Background())
	if err != nil {
		panic(err)
	}

	return app
}

// ApplyMigrations creates the shared tables before any app schema
// referencing them.
func (app *Application) ApplyMigrations(db *pgxpool.Pool) error {
	if err := migrations.Apply(app.logger, db); err != nil {
		return err
	}

	return app.apps.ApplyMigrations(db)
}
