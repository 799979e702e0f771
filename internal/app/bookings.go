package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cinevo/cinema-api/api"
	"github.com/cinevo/cinema-api/internal/domain"
	qrcode "github.com/skip2/go-qrcode"
)

func (app *Application) CreateBooking(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	userId := app.contextGetUserId(r)

	var input api.CreateBookingRequest

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

	// Duplicate labels in one request are a malformed request, not a seat
	// conflict, and are rejected before any database work.
	if label, ok := firstDuplicate(input.Seats); ok {
		app.badRequestResponse(w, r, fmt.Errorf("seat %q is requested more than once", label))
		return
	}

	booking, err := app.guard.CreateBooking(r.Context(), userId, input.ScreeningId, input.Seats)
	if err != nil {
		var seatsErr *domain.SeatsUnavailableError

		switch {
		case errors.As(err, &seatsErr):
			app.conflictResponse(w, r, seatsErr.Error())
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			logger.Error("failed to create booking", "error", err)
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := app.statsRepo.RecordBooking(ctx, booking.CreatedAt, booking.SeatsNumber, booking.TotalPrice)
		if err != nil {
			logger.Error("failed to record booking stats", "error", err, "bookingId", booking.ID)
		}
	})

	app.background(func() {
		err := app.sendBookingConfirmation(userId, booking)
		if err != nil {
			logger.Error("failed to send booking confirmation email", "error", err, "bookingId", booking.ID)
		}
	})

	headers := http.Header{
		"Location": []string{fmt.Sprintf("/bookings/%d", booking.ID)},
	}

	err = app.writeJSON(w, http.StatusCreated, toBookingResponse(booking), headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) sendBookingConfirmation(userId int, booking *domain.Booking) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	user, err := app.userRepo.GetById(ctx, userId)
	if err != nil {
		return err
	}

	screening, err := app.screeningRepo.GetById(ctx, booking.ScreeningID)
	if err != nil {
		return err
	}

	movie, err := app.movieRepo.GetById(ctx, screening.MovieID)
	if err != nil {
		return err
	}

	theater, err := app.theaterRepo.GetById(ctx, screening.TheaterID)
	if err != nil {
		return err
	}

	hall, err := app.theaterRepo.GetHall(ctx, screening.TheaterID, screening.HallID)
	if err != nil {
		return err
	}

	seats := make([]string, len(booking.Seats))
	for i, seat := range booking.Seats {
		seats[i] = seat.SeatLabel
	}

	data := map[string]any{
		"publicCode":  booking.PublicCode,
		"movieTitle":  movie.Title,
		"theaterName": theater.Name,
		"hallName":    hall.Name,
		"startTime":   screening.StartTime.Format(time.RFC1123),
		"seats":       strings.Join(seats, ", "),
		"totalPrice":  booking.TotalPrice.StringFixed(2),
	}

	return app.mailer.Send(user.Email, "booking_confirmation.tmpl", data)
}

func (app *Application) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)
	pagination := app.readPagination(r)

	summaries, metadata, err := app.bookingRepo.GetSummariesByUserId(r.Context(), userId, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	bookings := make([]api.BookingSummary, len(summaries))
	for i, summary := range summaries {
		bookings[i] = api.BookingSummary{
			Id:          summary.BookingID,
			Code:        summary.PublicCode,
			MovieTitle:  summary.MovieTitle,
			TheaterName: summary.TheaterName,
			HallName:    summary.HallName,
			StartTime:   summary.StartTime,
			SeatsNumber: summary.SeatsNumber,
			TotalPrice:  summary.TotalPrice,
			Status:      string(summary.Status),
			CreatedAt:   summary.CreatedAt,
		}
	}

	resp := api.BookingListResponse{
		Bookings: bookings,
		Metadata: toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, ok := app.bookingForRequest(w, r)
	if !ok {
		return
	}

	err := app.writeJSON(w, http.StatusOK, toBookingResponse(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetBookingQRCode renders the booking's public code as a PNG, the artifact
// scanned at the hall entrance.
func (app *Application) GetBookingQRCode(w http.ResponseWriter, r *http.Request) {
	booking, ok := app.bookingForRequest(w, r)
	if !ok {
		return
	}

	png, err := qrcode.Encode(booking.PublicCode, qrcode.Medium, 256)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// CheckInBooking marks a booking as used at the entrance. Staff only.
func (app *Application) CheckInBooking(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.guard.MarkUsed(r.Context(), id)
	if err != nil {
		app.bookingStatusErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toBookingResponse(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelBooking(w http.ResponseWriter, r *http.Request) {
	booking, ok := app.bookingForRequest(w, r)
	if !ok {
		return
	}

	booking, err := app.guard.Cancel(r.Context(), booking.ID)
	if err != nil {
		app.bookingStatusErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toBookingResponse(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// bookingForRequest loads the booking in the URL and enforces that the caller
// owns it, unless they hold a staff or admin role.
func (app *Application) bookingForRequest(w http.ResponseWriter, r *http.Request) (*domain.Booking, bool) {
	id, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return nil, false
	}

	booking, err := app.bookingRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return nil, false
	}

	userId := app.contextGetUserId(r)
	role := domain.Role(app.sessionManager.GetString(r.Context(), SessionKeyRole.String()))

	if booking.UserID != userId && role != domain.RoleStaff && role != domain.RoleAdmin {
		app.notFoundResponse(w, r)
		return nil, false
	}

	return booking, true
}

func (app *Application) bookingStatusErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrBookingStatusConflict):
		app.badRequestResponse(w, r, domain.ErrBookingStatusConflict)
	case errors.Is(err, domain.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, domain.ErrEditConflict):
		app.editConflictResponse(w, r)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

func firstDuplicate(labels []string) (string, bool) {
	seen := make(map[string]bool, len(labels))

	for _, label := range labels {
		if seen[label] {
			return label, true
		}
		seen[label] = true
	}

	return "", false
}

func toBookingResponse(booking *domain.Booking) api.BookingResponse {
	seats := make([]string, len(booking.Seats))
	for i, seat := range booking.Seats {
		seats[i] = seat.SeatLabel
	}

	return api.BookingResponse{
		Id:          booking.ID,
		Code:        booking.PublicCode,
		ScreeningId: booking.ScreeningID,
		Seats:       seats,
		SeatsNumber: booking.SeatsNumber,
		TotalPrice:  booking.TotalPrice,
		Status:      string(booking.Status),
		CreatedAt:   booking.CreatedAt,
		Version:     booking.Version,
	}
}
