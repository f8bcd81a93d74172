package olympiad

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"slices"
	"time"
	// needed for embedding timezone data.
	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/xdoubleu/essentia/v2/pkg/database/postgres"
	"github.com/xdoubleu/essentia/v2/pkg/threading"
	"github.com/xhit/go-str2duration/v2"
	"olympiad.xdoubleu.com/apps/olympiad/internal/cache"
	"olympiad.xdoubleu.com/apps/olympiad/internal/helper"
	"olympiad.xdoubleu.com/apps/olympiad/internal/jobs"
	"olympiad.xdoubleu.com/apps/olympiad/internal/models"
	"olympiad.xdoubleu.com/apps/olympiad/internal/repositories"
	"olympiad.xdoubleu.com/apps/olympiad/internal/services"
	"olympiad.xdoubleu.com/apps/olympiad/internal/storage"
	"olympiad.xdoubleu.com/apps/olympiad/pkg/olymp"
	"olympiad.xdoubleu.com/internal/auth"
	"olympiad.xdoubleu.com/internal/config"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

//go:embed templates/html/**/*html
var htmlTemplates embed.FS

//go:embed sources.yaml
var defaultSources []byte

type Olympiad struct {
	logger          *slog.Logger
	ctx             context.Context
	ctxCancel       context.CancelFunc
	db              postgres.DB
	Config          config.Config
	clients         Clients
	clock           cache.Clock
	catalog         models.Catalog
	calendarOptions helper.CalendarOptions
	cacheTTL        time.Duration
	uploads         *storage.Storage
	Services        *services.Services
	Repositories    *repositories.Repositories
	tpl             *template.Template
	jobQueue        *threading.JobQueue
}

func New(
	authService auth.Service,
	logger *slog.Logger,
	cfg config.Config,
	db postgres.DB,
) *Olympiad {
	client, err := newOlympClient(logger, cfg)
	if err != nil {
		panic(err)
	}

	clients := Clients{
		Olymp: client,
	}

	return NewInner(authService, logger, cfg, db, clients, cache.SystemClock())
}

func NewInner(
	authService auth.Service,
	logger *slog.Logger,
	cfg config.Config,
	db postgres.DB,
	clients Clients,
	clock cache.Clock,
) *Olympiad {
	tpl := template.Must(
		template.New("").Funcs(templateFuncs()).ParseFS(htmlTemplates, "templates/html/**/*.html"),
	)

	catalog, err := services.LoadCatalog(cfg.SourcesFile, defaultSources)
	if err != nil {
		panic(err)
	}

	calendarOptions, err := CalendarOptions(cfg)
	if err != nil {
		panic(err)
	}

	cacheTTL, err := str2duration.ParseDuration(cfg.FetchCacheTTL)
	if err != nil {
		panic(fmt.Errorf("invalid FETCH_CACHE_TTL: %w", err))
	}

	uploads, err := storage.New(cfg.UploadDir)
	if err != nil {
		panic(err)
	}

	//nolint:mnd //no magic number
	jobQueue := threading.NewJobQueue(logger, 2, 100)

	//nolint:exhaustruct //other fields are optional
	app := &Olympiad{
		logger:          logger,
		Config:          cfg,
		clients:         clients,
		clock:           clock,
		catalog:         catalog,
		calendarOptions: calendarOptions,
		cacheTTL:        cacheTTL,
		uploads:         uploads,
		tpl:             tpl,
		jobQueue:        jobQueue,
	}

	app.setContext()
	app.setDB(db, authService)
	app.setJobs()

	return app
}

func newOlympClient(logger *slog.Logger, cfg config.Config) (olymp.Client, error) {
	timeout, err := str2duration.ParseDuration(cfg.FetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT: %w", err)
	}

	return olymp.New(logger, olymp.Options{
		UserAgent: cfg.UserAgent,
		Timeout:   timeout,
	}), nil
}

// CalendarOptions builds the calendar layout from configuration.
func CalendarOptions(cfg config.Config) (helper.CalendarOptions, error) {
	options := helper.DefaultCalendarOptions()

	if cfg.CalendarMonths > 0 {
		options.Months = cfg.CalendarMonths
	}

	month, day, err := helper.ParseMonthDay(cfg.ExcludedDate)
	if err != nil {
		return options, err
	}
	options.ExcludedMonth = month
	options.ExcludedDay = day

	weekStart, err := helper.ParseWeekday(cfg.WeekStart)
	if err != nil {
		return options, err
	}
	options.WeekStart = weekStart

	return options, nil
}

func (app *Olympiad) setDB(
	db postgres.DB,
	authService auth.Service,
) {
	// make sure previous app is cancelled internally
	app.ctxCancel()
	app.jobQueue.Clear()

	app.setContext()

	spandb := postgres.NewSpanDB(db)
	app.db = spandb

	app.Repositories = repositories.New(app.db)
	app.Services = services.New(
		app.logger,
		app.cacheTTL,
		app.catalog,
		app.calendarOptions,
		app.clock,
		app.Repositories,
		app.clients.Olymp,
		app.uploads,
		authService,
	)
}

func (app *Olympiad) setJobs() {
	sources := slices.Concat(app.catalog.News, app.catalog.Calendar)

	err := app.jobQueue.AddJob(
		jobs.NewScrapeJob(app.Services.Pages, sources, app.cacheTTL),
		app.logJobState,
	)
	if err != nil {
		panic(err)
	}
}

func (app *Olympiad) logJobState(id string, isRunning bool, lastRunTime *time.Time) {
	attrs := []any{slog.String("job", id), slog.Bool("running", isRunning)}
	if lastRunTime != nil {
		attrs = append(attrs, slog.Time("lastRun", *lastRunTime))
	}

	app.logger.Debug("job state changed", attrs...)
}

func (app *Olympiad) setContext() {
	ctx, cancel := context.WithCancel(context.Background())
	app.ctx = ctx
	app.ctxCancel = cancel
}

func (app *Olympiad) ApplyMigrations(db *pgxpool.Pool) error {
	migrationsDB := stdlib.OpenDBFromPool(db)

	goose.SetLogger(slog.NewLogLogger(app.logger.Handler(), slog.LevelInfo))

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(string(goose.DialectPostgres)); err != nil {
		return err
	}

	if err := goose.Up(migrationsDB, "migrations"); err != nil {
		return err
	}

	return nil
}

func (app *Olympiad) GetName() string {
	return "olympiad"
}
