package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cinevo/cinema-api/api"
	"github.com/cinevo/cinema-api/internal/domain"
	"github.com/cinevo/cinema-api/internal/scheduling"
)

func (app *Application) CreateScreening(w http.ResponseWriter, r *http.Request) {
	var input api.CreateScreeningRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	screening, err := app.scheduler.CreateScreening(r.Context(), scheduling.CreateScreeningInput{
		MovieID:   input.MovieId,
		TheaterID: input.TheaterId,
		HallID:    input.HallId,
		StartTime: input.StartTime,
		Price:     input.Price,
		Quality:   input.Quality,
	})
	if err != nil {
		app.scheduleErrorResponse(w, r, err)
		return
	}

	headers := http.Header{
		"Location": []string{fmt.Sprintf("/screenings/%d", screening.ID)},
	}

	err = app.writeJSON(w, http.StatusCreated, toScreeningResponse(screening), headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateScreening(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "screeningId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.UpdateScreeningRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	screening, err := app.scheduler.UpdateScreening(r.Context(), id, scheduling.UpdateScreeningInput{
		MovieID:   input.MovieId,
		TheaterID: input.TheaterId,
		HallID:    input.HallId,
		StartTime: input.StartTime,
		Price:     input.Price,
		Quality:   input.Quality,
	})
	if err != nil {
		app.scheduleErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toScreeningResponse(screening), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// scheduleErrorResponse maps scheduler failures onto HTTP statuses. A
// ScheduleConflictError carries the blocking screening, which is worth
// returning to the operator fixing the timetable.
func (app *Application) scheduleErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var conflictErr *domain.ScheduleConflictError

	switch {
	case errors.As(err, &conflictErr):
		app.conflictResponse(w, r, conflictErr.Error())
	case errors.Is(err, domain.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, domain.ErrEditConflict):
		app.editConflictResponse(w, r)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetScreening(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "screeningId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	screening, err := app.screeningRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toScreeningResponse(screening), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteScreening(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "screeningId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.screeningRepo.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetTheaterScreenings lists the screenings of a theater on a given day,
// defaulting to today.
func (app *Application) GetTheaterScreenings(w http.ResponseWriter, r *http.Request) {
	theaterId, err := app.readIDParam(r, "theaterId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err = time.Parse(time.DateOnly, raw)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("invalid date parameter, expected YYYY-MM-DD"))
			return
		}
	}

	if _, err = app.theaterRepo.GetById(r.Context(), theaterId); err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	summaries, err := app.screeningRepo.GetByTheaterAndDate(r.Context(), theaterId, date)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	screenings := make([]api.ScreeningSummary, len(summaries))
	for i, summary := range summaries {
		screenings[i] = api.ScreeningSummary{
			Id:         summary.ID,
			Code:       summary.PublicCode,
			MovieTitle: summary.MovieTitle,
			HallName:   summary.HallName,
			StartTime:  summary.StartTime,
			EndTime:    summary.EndTime,
			Price:      summary.Price,
			Quality:    summary.Quality,
		}
	}

	resp := api.ScreeningListResponse{Screenings: screenings}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetScreeningSeats returns the hall layout for a screening with per-seat
// availability.
func (app *Application) GetScreeningSeats(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "screeningId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	screening, err := app.screeningRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	hall, err := app.theaterRepo.GetHall(r.Context(), screening.TheaterID, screening.HallID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	booked, err := app.bookingRepo.GetBookedSeats(r.Context(), screening.ID, []int{})
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	taken := make(map[int]bool, len(booked))
	for _, sb := range booked {
		taken[sb.SeatID] = true
	}

	seats := make([]api.SeatResponse, len(hall.Seats))
	for i, seat := range hall.Seats {
		seats[i] = api.SeatResponse{
			Id:        seat.ID,
			Label:     seat.Label,
			Row:       seat.Row,
			Column:    seat.Col,
			Type:      seat.Type,
			Available: !taken[seat.ID],
		}
	}

	resp := api.SeatMapResponse{
		ScreeningId: screening.ID,
		HallId:      hall.ID,
		HallName:    hall.Name,
		Seats:       seats,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toScreeningResponse(screening *domain.Screening) api.ScreeningResponse {
	return api.ScreeningResponse{
		Id:        screening.ID,
		Code:      screening.PublicCode,
		MovieId:   screening.MovieID,
		TheaterId: screening.TheaterID,
		HallId:    screening.HallID,
		StartTime: screening.StartTime,
		EndTime:   screening.EndTime,
		Price:     screening.Price,
		Quality:   screening.Quality,
		Version:   screening.Version,
	}
}
