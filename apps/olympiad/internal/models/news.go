package models

type NewsItem struct {
	Title   string `json:"title"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Summary string `json:"summary"`
	Source  string `json:"source"`
}

const (
	PlaceholderTitle   = "Обновление недоступно"
	PlaceholderDate    = "2025-2026"
	PlaceholderSummary = "Подробности на сайте источника."
)
