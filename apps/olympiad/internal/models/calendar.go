package models

// Record is an event-like row shown on the calendar. Date is free text.
type Record struct {
	Name    string `json:"name"    yaml:"name"`
	Subject string `json:"subject" yaml:"subject"`
	Stage   string `json:"stage"   yaml:"stage"`
	Date    string `json:"date"    yaml:"date"`
	Format  string `json:"format"  yaml:"format"`
	Link    string `json:"link"    yaml:"link"`
}

type CalendarCell struct {
	Day    int
	Date   string
	Events []Record
}

// CalendarWeek holds nil for days of an adjacent month.
type CalendarWeek [7]*CalendarCell

type CalendarMonth struct {
	Label string
	Year  int
	Month int
	Weeks []CalendarWeek
}

type CalendarView struct {
	Months        []CalendarMonth
	Undated       []Record
	WeekdayLabels [7]string
}
