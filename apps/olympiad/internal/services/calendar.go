package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"olympiad.xdoubleu.com/apps/olympiad/internal/helper"
	"olympiad.xdoubleu.com/apps/olympiad/internal/models"
	"olympiad.xdoubleu.com/apps/olympiad/pkg/olymp"
	"olympiad.xdoubleu.com/internal/metrics"
)

const icsProductID = "-//olympiad.xdoubleu.com//calendar//RU"

type CalendarService struct {
	logger  *slog.Logger
	pages   *PageService
	sources []olymp.Source
	base    []models.Record
	options helper.CalendarOptions
}

// GetScrapedRecords returns one record per calendar source, in source order.
// Sources that can't be fetched or carry no date get the placeholder label.
func (service *CalendarService) GetScrapedRecords(ctx context.Context) []models.Record {
	results := service.pages.fetchAll(ctx, service.sources)

	records := make([]models.Record, 0, len(service.sources))
	for i, source := range service.sources {
		date := models.PlaceholderDate

		if results[i].err != nil {
			service.logger.Warn(
				"fetching calendar source failed",
				slog.String("source", source.URL),
				logging.ErrAttr(results[i].err),
			)
		} else {
			date = dateLabel(results[i].page.Text, source.URL)
		}

		records = append(records, models.Record{
			Name:    source.Label,
			Subject: source.Subject,
			Stage:   source.Stage,
			Date:    date,
			Format:  source.Format,
			Link:    source.URL,
		})
	}

	return records
}

// GetRecords returns the base calendar followed by the scraped records.
func (service *CalendarService) GetRecords(ctx context.Context) []models.Record {
	records := make([]models.Record, 0, len(service.base)+len(service.sources))
	records = append(records, service.base...)
	records = append(records, service.GetScrapedRecords(ctx)...)
	return records
}

func (service *CalendarService) GetView(
	ctx context.Context,
	now time.Time,
) models.CalendarView {
	records := service.GetRecords(ctx)
	months, undated := helper.BuildCalendarView(records, now, service.options)

	metrics.RecordCalendar(len(records)-len(undated), len(undated))

	return models.CalendarView{
		Months:        months,
		Undated:       undated,
		WeekdayLabels: helper.WeekdayLabels(service.options),
	}
}

// ICS renders the bucketed records of the current view as all-day events.
func (service *CalendarService) ICS(ctx context.Context, now time.Time) string {
	view := service.GetView(ctx, now)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName("Олимпиады")

	for _, month := range view.Months {
		for _, week := range month.Weeks {
			for _, cell := range week {
				if cell == nil {
					continue
				}

				for _, record := range cell.Events {
					addEvent(cal, record, cell.Date, now)
				}
			}
		}
	}

	return cal.Serialize()
}

func (service *CalendarService) Options() helper.CalendarOptions {
	return service.options
}

func addEvent(cal *ics.Calendar, record models.Record, isoDate string, now time.Time) {
	day, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return
	}

	uid := uuid.NewSHA1(
		uuid.NameSpaceURL,
		[]byte(fmt.Sprintf("%s|%s|%s", record.Link, record.Name, isoDate)),
	)

	event := cal.AddEvent(uid.String() + "@olympiad.xdoubleu.com")
	event.SetDtStampTime(now)
	event.SetAllDayStartAt(day)
	event.SetAllDayEndAt(day.AddDate(0, 0, 1))
	event.SetSummary(record.Name)

	description := []string{}
	for _, part := range []string{record.Subject, record.Stage, record.Format} {
		if part != "" {
			description = append(description, part)
		}
	}
	if len(description) > 0 {
		event.SetDescription(strings.Join(description, ", "))
	}

	if record.Link != "" {
		event.SetURL(record.Link)
	}
}
