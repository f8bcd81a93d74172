package services

import (
	"log/slog"
	"time"

	"olympiad.xdoubleu.com/apps/olympiad/internal/cache"
	"olympiad.xdoubleu.com/apps/olympiad/internal/helper"
	"olympiad.xdoubleu.com/apps/olympiad/internal/models"
	"olympiad.xdoubleu.com/apps/olympiad/internal/repositories"
	"olympiad.xdoubleu.com/apps/olympiad/internal/storage"
	"olympiad.xdoubleu.com/apps/olympiad/pkg/olymp"
	"olympiad.xdoubleu.com/internal/auth"
)

type Services struct {
	Auth        auth.Service
	Pages       *PageService
	News        *NewsService
	Calendar    *CalendarService
	Submissions *SubmissionService
}

func New(
	logger *slog.Logger,
	cacheTTL time.Duration,
	catalog models.Catalog,
	calendarOptions helper.CalendarOptions,
	clock cache.Clock,
	repositories *repositories.Repositories,
	olympClient olymp.Client,
	uploads *storage.Storage,
	authService auth.Service,
) *Services {
	services := NewContent(logger, cacheTTL, catalog, calendarOptions, clock, olympClient)

	services.Auth = authService
	services.Submissions = &SubmissionService{
		logger:      logger,
		submissions: repositories.Submissions,
		storage:     uploads,
	}

	return services
}

// NewContent only wires the scraped news and calendar, Auth and Submissions
// stay nil.
func NewContent(
	logger *slog.Logger,
	cacheTTL time.Duration,
	catalog models.Catalog,
	calendarOptions helper.CalendarOptions,
	clock cache.Clock,
	olympClient olymp.Client,
) *Services {
	pages := &PageService{
		logger: logger,
		client: olympClient,
		cache:  cache.New[*olymp.Page]("pages", logger, cacheTTL, clock),
	}

	//nolint:exhaustruct //auth and submissions need a database
	return &Services{
		Pages: pages,
		News: &NewsService{
			logger:  logger,
			pages:   pages,
			sources: catalog.News,
		},
		Calendar: &CalendarService{
			logger:  logger,
			pages:   pages,
			sources: catalog.Calendar,
			base:    catalog.BaseCalendar,
			options: calendarOptions,
		},
	}
}
