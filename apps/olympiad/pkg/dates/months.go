package dates

import "strings"

// MonthKeyword maps a Russian month-name prefix to its month number.
type MonthKeyword struct {
	Prefix string
	Month  int
}

// MonthKeywords is matched in order, the first prefix a word starts with wins.
//
//nolint:gochecknoglobals //lookup table
var MonthKeywords = []MonthKeyword{
	{"янв", 1},
	{"январ", 1},
	{"фев", 2},
	{"феврал", 2},
	{"мар", 3},
	{"март", 3},
	{"апр", 4},
	{"апрел", 4},
	{"май", 5},
	{"мая", 5},
	{"июн", 6},
	{"июнь", 6},
	{"июня", 6},
	{"июл", 7},
	{"июль", 7},
	{"июля", 7},
	{"авг", 8},
	{"август", 8},
	{"сен", 9},
	{"сент", 9},
	{"сентябр", 9},
	{"окт", 10},
	{"октябр", 10},
	{"ноя", 11},
	{"нояб", 11},
	{"ноябр", 11},
	{"дек", 12},
	{"декабр", 12},
}

// MonthLabelsRU is indexed by month number, index 0 is unused.
//
//nolint:gochecknoglobals //lookup table
var MonthLabelsRU = [13]string{
	"",
	"Январь",
	"Февраль",
	"Март",
	"Апрель",
	"Май",
	"Июнь",
	"Июль",
	"Август",
	"Сентябрь",
	"Октябрь",
	"Ноябрь",
	"Декабрь",
}

// WeekdayLabelsRU starts on Monday.
//
//nolint:gochecknoglobals //lookup table
var WeekdayLabelsRU = [7]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

func monthFromWord(word string) (int, bool) {
	for _, keyword := range MonthKeywords {
		if strings.HasPrefix(word, keyword.Prefix) {
			return keyword.Month, true
		}
	}

	return 0, false
}
