package olympiad

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/xhit/go-str2duration/v2"
	"olympiad.xdoubleu.com/apps/olympiad/internal/cache"
	"olympiad.xdoubleu.com/apps/olympiad/internal/helper"
	"olympiad.xdoubleu.com/apps/olympiad/internal/models"
	"olympiad.xdoubleu.com/apps/olympiad/internal/services"
	"olympiad.xdoubleu.com/apps/olympiad/pkg/olymp"
	"olympiad.xdoubleu.com/internal/config"
)

// Portal serves the scraped news and calendar without a database or users.
type Portal struct {
	Catalog  models.Catalog
	Options  helper.CalendarOptions
	services *services.Services
}

func NewPortal(logger *slog.Logger, cfg config.Config) (*Portal, error) {
	client, err := newOlympClient(logger, cfg)
	if err != nil {
		return nil, err
	}

	return NewPortalInner(logger, cfg, client, cache.SystemClock())
}

func NewPortalInner(
	logger *slog.Logger,
	cfg config.Config,
	client olymp.Client,
	clock cache.Clock,
) (*Portal, error) {
	catalog, err := services.LoadCatalog(cfg.SourcesFile, defaultSources)
	if err != nil {
		return nil, err
	}

	options, err := CalendarOptions(cfg)
	if err != nil {
		return nil, err
	}

	cacheTTL, err := str2duration.ParseDuration(cfg.FetchCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_CACHE_TTL: %w", err)
	}

	return &Portal{
		Catalog:  catalog,
		Options:  options,
		services: services.NewContent(logger, cacheTTL, catalog, options, clock, client),
	}, nil
}

func (portal *Portal) News(ctx context.Context) []models.NewsItem {
	return portal.services.News.GetNews(ctx)
}

func (portal *Portal) Records(ctx context.Context) []models.Record {
	return portal.services.Calendar.GetRecords(ctx)
}

func (portal *Portal) Calendar(ctx context.Context, now time.Time) models.CalendarView {
	return portal.services.Calendar.GetView(ctx, now)
}

func (portal *Portal) ICS(ctx context.Context, now time.Time) string {
	return portal.services.Calendar.ICS(ctx, now)
}

// Sources lists every scraped source, news first.
func (portal *Portal) Sources() []olymp.Source {
	return slices.Concat(portal.Catalog.News, portal.Catalog.Calendar)
}
