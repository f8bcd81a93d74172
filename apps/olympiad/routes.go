package olympiad

import (
	"fmt"
	"net/http"
)

func (app *Olympiad) Routes(prefix string, mux *http.ServeMux) {
	app.templateRoutes(prefix, mux)
	app.submissionRoutes(prefix, mux)
	app.calendarRoutes(prefix, mux)
}

func (app *Olympiad) calendarRoutes(prefix string, mux *http.ServeMux) {
	mux.HandleFunc(
		fmt.Sprintf("GET /%s/calendar.ics", prefix),
		app.calendarICSHandler,
	)
}

func (app *Olympiad) calendarICSHandler(w http.ResponseWriter, r *http.Request) {
	output := app.Services.Calendar.ICS(r.Context(), app.clock.Now())

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="olympiads.ics"`)
	_, _ = w.Write([]byte(output))
}
