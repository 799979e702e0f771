package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cinevo/cinema-api/api"
	"github.com/cinevo/cinema-api/internal/domain"
)

// GetDailyStats reports the booking counters of a single day. Days outside the
// retention window have been pruned and read as not found.
func (app *Application) GetDailyStats(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		var err error

		day, err = time.Parse(time.DateOnly, raw)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("invalid date parameter, expected YYYY-MM-DD"))
			return
		}
	}

	stats, err := app.statsRepo.GetDaily(r.Context(), day)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.DailyStatsResponse{
		Date:     stats.Day.Format(time.DateOnly),
		Bookings: stats.Bookings,
		Seats:    stats.Seats,
		Revenue:  stats.Revenue,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
