package helper

import (
	"fmt"
	"time"

	"olympiad.xdoubleu.com/apps/olympiad/internal/models"
	"olympiad.xdoubleu.com/apps/olympiad/pkg/dates"
)

const daysInWeek = 7

type YearMonth struct {
	Year  int
	Month time.Month
}

type CalendarOptions struct {
	Months        int
	ExcludedMonth time.Month
	ExcludedDay   int
	WeekStart     time.Weekday
	MonthLabels   [13]string
	// Monday first, rotated to WeekStart when rendered.
	WeekdayLabels [7]string
}

func DefaultCalendarOptions() CalendarOptions {
	return CalendarOptions{
		Months:        2, //nolint:mnd //current and next month
		ExcludedMonth: time.February,
		ExcludedDay:   14, //nolint:mnd //no magic number
		WeekStart:     time.Monday,
		MonthLabels:   dates.MonthLabelsRU,
		WeekdayLabels: dates.WeekdayLabelsRU,
	}
}

// TargetMonths returns the month containing reference followed by the next
// count-1 months.
func TargetMonths(reference time.Time, count int) []YearMonth {
	if count < 1 {
		count = 1
	}

	first := time.Date(reference.Year(), reference.Month(), 1, 0, 0, 0, 0, time.UTC)

	months := make([]YearMonth, 0, count)
	for i := range count {
		month := first.AddDate(0, i, 0)
		months = append(months, YearMonth{Year: month.Year(), Month: month.Month()})
	}

	return months
}

// BuildCalendarView buckets records into week grids for the target months.
// Every record either lands in exactly one cell or is returned in undated:
// unparseable dates, dates outside the target months and the excluded date.
func BuildCalendarView(
	records []models.Record,
	reference time.Time,
	opts CalendarOptions,
) ([]models.CalendarMonth, []models.Record) {
	targets := TargetMonths(reference, opts.Months)

	tracked := make(map[YearMonth]bool, len(targets))
	for _, target := range targets {
		tracked[target] = true
	}

	eventsByDate := map[string][]models.Record{}
	undated := []models.Record{}

	for _, record := range records {
		parsed, ok := dates.Extract(record.Date, "")
		if !ok || opts.isExcluded(parsed) ||
			!tracked[YearMonth{Year: parsed.Year, Month: parsed.Month}] {
			undated = append(undated, record)
			continue
		}

		key := parsed.ISO()
		eventsByDate[key] = append(eventsByDate[key], record)
	}

	months := make([]models.CalendarMonth, 0, len(targets))
	for _, target := range targets {
		months = append(months, models.CalendarMonth{
			Label: fmt.Sprintf("%s %d", opts.MonthLabels[target.Month], target.Year),
			Year:  target.Year,
			Month: int(target.Month),
			Weeks: buildWeeks(target, opts.WeekStart, eventsByDate),
		})
	}

	return months, undated
}

// WeekdayLabels returns the column headers starting at opts.WeekStart.
func WeekdayLabels(opts CalendarOptions) [7]string {
	var labels [7]string

	// WeekdayLabels[0] is Monday, time.Monday is 1.
	offset := (int(opts.WeekStart) + daysInWeek - 1) % daysInWeek
	for i := range daysInWeek {
		labels[i] = opts.WeekdayLabels[(offset+i)%daysInWeek]
	}

	return labels
}

func (opts CalendarOptions) isExcluded(d dates.Date) bool {
	return d.Month == opts.ExcludedMonth && d.Day == opts.ExcludedDay
}

func buildWeeks(
	target YearMonth,
	weekStart time.Weekday,
	eventsByDate map[string][]models.Record,
) []models.CalendarWeek {
	first := time.Date(target.Year, target.Month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	leading := (int(first.Weekday()) - int(weekStart) + daysInWeek) % daysInWeek

	weeks := []models.CalendarWeek{}
	var week models.CalendarWeek
	column := leading

	for day := 1; day <= daysInMonth; day++ {
		d := dates.Date{Year: target.Year, Month: target.Month, Day: day}
		key := d.ISO()

		events := eventsByDate[key]
		if events == nil {
			events = []models.Record{}
		}

		week[column] = &models.CalendarCell{
			Day:    day,
			Date:   key,
			Events: events,
		}

		column++
		if column == daysInWeek {
			weeks = append(weeks, week)
			week = models.CalendarWeek{}
			column = 0
		}
	}

	if column > 0 {
		weeks = append(weeks, week)
	}

	return weeks
}
