// Package dates recovers calendar dates from scraped page text and
// human-entered labels such as "15 марта 2026" or "01.02.26".
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RE2's \b and \s are ASCII-only, scraped text is not.
const (
	leftBoundary  = `(?:^|[^\p{L}\p{N}_])`
	rightBoundary = `(?:$|[^\p{L}\p{N}_])`
	space         = `[\s\p{Zs}]`
)

//nolint:gochecknoglobals //compiled once
var (
	yearRangeRegex = regexp.MustCompile(
		leftBoundary + `20\d{2}` + space + `*-` + space + `*20\d{2}` + rightBoundary,
	)
	dayMonthYearRegex = regexp.MustCompile(
		leftBoundary + `(\d{1,2})[./-](\d{1,2})[./-](\d{4}|\d{2})` + rightBoundary,
	)
	yearMonthDayRegex = regexp.MustCompile(
		leftBoundary + `(20\d{2})[./-](\d{1,2})[./-](\d{1,2})` + rightBoundary,
	)
	wordMonthRegex = regexp.MustCompile(
		leftBoundary + `(\d{1,2})` + space + `+([a-zа-яё]+)` + space + `+(\d{4})` + rightBoundary,
	)
	urlDateRegex = regexp.MustCompile(
		`/(20\d{2})[/-](\d{1,2})[/-](\d{1,2})` + rightBoundary,
	)
	dashReplacer = strings.NewReplacer("–", "-", "—", "-")
)

// Date is a calendar date without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func New(year int, month time.Month, day int) (Date, bool) {
	if year < 1 || year > 9999 {
		return Date{}, false
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, false
	}

	return Date{Year: year, Month: month, Day: day}, true
}

func FromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Format renders the normalized DD.MM.YYYY label stored on scraped records.
func Format(d Date) string {
	return fmt.Sprintf("%02d.%02d.%04d", d.Day, int(d.Month), d.Year)
}

// Extract tries the date rules in order and returns the first date found.
// An academic-year span like "2025-2026" anywhere in the text means the text
// carries no specific date. url may be empty.
func Extract(text string, url string) (Date, bool) {
	normalized := dashReplacer.Replace(strings.ToLower(strings.TrimSpace(text)))

	if normalized != "" {
		if yearRangeRegex.MatchString(normalized) {
			return Date{}, false
		}

		if d, ok := matchDayMonthYear(normalized); ok {
			return d, true
		}

		if d, ok := matchYearMonthDay(yearMonthDayRegex, normalized); ok {
			return d, true
		}

		if d, ok := matchWordMonth(normalized); ok {
			return d, true
		}
	}

	if url != "" {
		return matchYearMonthDay(urlDateRegex, url)
	}

	return Date{}, false
}

func matchDayMonthYear(text string) (Date, bool) {
	match := dayMonthYearRegex.FindStringSubmatch(text)
	if match == nil {
		return Date{}, false
	}

	year := match[3]
	if len(year) == 2 { //nolint:mnd //two-digit year
		year = "20" + year
	}

	return build(year, match[2], match[1])
}

func matchYearMonthDay(regex *regexp.Regexp, text string) (Date, bool) {
	match := regex.FindStringSubmatch(text)
	if match == nil {
		return Date{}, false
	}

	return build(match[1], match[2], match[3])
}

func matchWordMonth(text string) (Date, bool) {
	match := wordMonthRegex.FindStringSubmatch(text)
	if match == nil {
		return Date{}, false
	}

	month, ok := monthFromWord(match[2])
	if !ok {
		return Date{}, false
	}

	return build(match[3], strconv.Itoa(month), match[1])
}

func build(yearStr, monthStr, dayStr string) (Date, bool) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return Date{}, false
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return Date{}, false
	}

	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return Date{}, false
	}

	return New(year, time.Month(month), day)
}
