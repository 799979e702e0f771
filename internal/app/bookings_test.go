package app

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cinevo/cinema-api/api"
	"github.com/cinevo/cinema-api/internal/booking"
	"github.com/cinevo/cinema-api/internal/domain"
	"github.com/cinevo/cinema-api/internal/mocks"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func bookingTestScreening() *domain.Screening {
	return &domain.Screening{
		ID:        5,
		MovieID:   2,
		TheaterID: 1,
		HallID:    3,
		Price:     decimal.NewFromInt(10),
	}
}

func bookingTestHall() *domain.Hall {
	return &domain.Hall{
		ID:        3,
		TheaterID: 1,
		Name:      "Hall 3",
		Seats: []domain.Seat{
			{ID: 11, HallID: 3, Label: "A1", Row: "A", Col: 1, Type: "STANDARD"},
			{ID: 12, HallID: 3, Label: "A2", Row: "A", Col: 2, Type: "STANDARD"},
			{ID: 13, HallID: 3, Label: "B1", Row: "B", Col: 1, Type: "STANDARD"},
		},
	}
}

func TestCreateBookingHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           api.CreateBookingRequest
		setupMocks     func(sr *mocks.MockScreeningRepo, tr *mocks.MockTheaterRepo, br *mocks.MockBookingRepo)
		wantStatus     int
		wantErrMessage string
	}{
		{
			name:           "missing seats",
			body:           api.CreateBookingRequest{ScreeningId: 5},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "is required",
		},
		{
			name:           "malformed seat label",
			body:           api.CreateBookingRequest{ScreeningId: 5, Seats: []string{"a1"}},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "must be a valid seat label, like A1 or AB12",
		},
		{
			name:           "duplicate seat in request",
			body:           api.CreateBookingRequest{ScreeningId: 5, Seats: []string{"A1", "A2", "A1"}},
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: `seat "A1" is requested more than once`,
		},
		{
			name: "screening does not exist",
			body: api.CreateBookingRequest{ScreeningId: 99, Seats: []string{"A1"}},
			setupMocks: func(sr *mocks.MockScreeningRepo, tr *mocks.MockTheaterRepo, br *mocks.MockBookingRepo) {
				sr.On("GetById", mock.Anything, 99).Return(nil, domain.ErrRecordNotFound)
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: "The requested resource not found",
		},
		{
			name: "unknown seat label",
			body: api.CreateBookingRequest{ScreeningId: 5, Seats: []string{"Z9"}},
			setupMocks: func(sr *mocks.MockScreeningRepo, tr *mocks.MockTheaterRepo, br *mocks.MockBookingRepo) {
				sr.On("GetById", mock.Anything, 5).Return(bookingTestScreening(), nil)
				tr.On("GetHall", mock.Anything, 1, 3).Return(bookingTestHall(), nil)
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: "The requested resource not found",
		},
		{
			name: "seat already booked",
			body: api.CreateBookingRequest{ScreeningId: 5, Seats: []string{"A1", "A2"}},
			setupMocks: func(sr *mocks.MockScreeningRepo, tr *mocks.MockTheaterRepo, br *mocks.MockBookingRepo) {
				sr.On("GetById", mock.Anything, 5).Return(bookingTestScreening(), nil)
				tr.On("GetHall", mock.Anything, 1, 3).Return(bookingTestHall(), nil)
				br.On("GetBookedSeats", mock.Anything, 5, []int{11, 12}).Return(
					[]domain.SeatBooking{{BookingID: 7, ScreeningID: 5, SeatID: 11}}, nil)
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: "seat(s) no longer available: A1",
		},
		{
			name: "booking lost a commit race",
			body: api.CreateBookingRequest{ScreeningId: 5, Seats: []string{"B1"}},
			setupMocks: func(sr *mocks.MockScreeningRepo, tr *mocks.MockTheaterRepo, br *mocks.MockBookingRepo) {
				sr.On("GetById", mock.Anything, 5).Return(bookingTestScreening(), nil)
				tr.On("GetHall", mock.Anything, 1, 3).Return(bookingTestHall(), nil)
				br.On("GetBookedSeats", mock.Anything, 5, []int{13}).Return([]domain.SeatBooking{}, nil)
				br.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).
					Return(&domain.SeatsUnavailableError{SeatLabels: []string{"B1"}})
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: "seat(s) no longer available: B1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screeningRepo := &mocks.MockScreeningRepo{}
			theaterRepo := &mocks.MockTheaterRepo{}
			bookingRepo := &mocks.MockBookingRepo{}

			if tt.setupMocks != nil {
				tt.setupMocks(screeningRepo, theaterRepo, bookingRepo)
			}

			app := newTestApplication(func(app *Application) {
				app.screeningRepo = screeningRepo
				app.theaterRepo = theaterRepo
				app.bookingRepo = bookingRepo
				app.guard = booking.NewGuard(screeningRepo, theaterRepo, bookingRepo)
			})

			w, r := executeRequest(t, http.MethodPost, "/bookings", tt.body)
			app.CreateBooking(w, asUser(r, 42))

			checkErrorResponse(t, w, tt.wantStatus, tt.wantErrMessage)
		})
	}
}

func TestCreateBookingHandlerSuccess(t *testing.T) {
	screeningRepo := &mocks.MockScreeningRepo{}
	theaterRepo := &mocks.MockTheaterRepo{}
	bookingRepo := &mocks.MockBookingRepo{}
	statsRepo := &mocks.MockStatsRepo{}
	userRepo := &mocks.MockUserRepo{}
	movieRepo := &mocks.MockMovieRepo{}

	screeningRepo.On("GetById", mock.Anything, 5).Return(bookingTestScreening(), nil)
	theaterRepo.On("GetHall", mock.Anything, 1, 3).Return(bookingTestHall(), nil)
	bookingRepo.On("GetBookedSeats", mock.Anything, 5, []int{11, 12}).Return([]domain.SeatBooking{}, nil)
	bookingRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).
		Run(func(args mock.Arguments) {
			b := args.Get(1).(*domain.Booking)
			b.ID = 31
			b.Version = 1
		}).
		Return(nil)

	// Stubs for the post-commit side effects running in the background.
	statsRepo.On("RecordBooking", mock.Anything, mock.Anything, 2, mock.Anything).Return(nil).Maybe()
	userRepo.On("GetById", mock.Anything, 42).
		Return(&domain.User{ID: 42, Email: "pat@example.com"}, nil).Maybe()
	movieRepo.On("GetById", mock.Anything, 2).
		Return(&domain.Movie{ID: 2, Title: "Arrival", Duration: 116}, nil).Maybe()
	theaterRepo.On("GetById", mock.Anything, 1).
		Return(&domain.Theater{ID: 1, Name: "Downtown"}, nil).Maybe()

	app := newTestApplication(func(app *Application) {
		app.screeningRepo = screeningRepo
		app.theaterRepo = theaterRepo
		app.bookingRepo = bookingRepo
		app.statsRepo = statsRepo
		app.userRepo = userRepo
		app.movieRepo = movieRepo
		app.guard = booking.NewGuard(screeningRepo, theaterRepo, bookingRepo)
	})

	body := api.CreateBookingRequest{ScreeningId: 5, Seats: []string{"A1", "A2"}}

	w, r := executeRequest(t, http.MethodPost, "/bookings", body)
	app.CreateBooking(w, asUser(r, 42))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp api.BookingResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode booking response: %v", err)
	}

	if resp.Id != 31 {
		t.Errorf("Id = %d, want 31", resp.Id)
	}
	if resp.Status != string(domain.BookingStatusPending) {
		t.Errorf("Status = %s, want %s", resp.Status, domain.BookingStatusPending)
	}
	if resp.SeatsNumber != 2 {
		t.Errorf("SeatsNumber = %d, want 2", resp.SeatsNumber)
	}
	if diff := cmp.Diff([]string{"A1", "A2"}, resp.Seats); diff != "" {
		t.Errorf("Seats mismatch (-want +got):\n%s", diff)
	}
	if !resp.TotalPrice.Equal(decimal.NewFromInt(20)) {
		t.Errorf("TotalPrice = %s, want 20", resp.TotalPrice)
	}
	if resp.Code == "" {
		t.Error("expected a non-empty booking code")
	}
	if w.Header().Get("Location") != "/bookings/31" {
		t.Errorf("Location = %s, want /bookings/31", w.Header().Get("Location"))
	}

	bookingRepo.AssertExpectations(t)
}

func TestCheckInBookingHandler(t *testing.T) {
	tests := []struct {
		name           string
		current        domain.BookingStatus
		wantStatus     int
		wantErrMessage string
	}{
		{
			name:       "pending booking checks in",
			current:    domain.BookingStatusPending,
			wantStatus: http.StatusOK,
		},
		{
			name:           "used booking is rejected",
			current:        domain.BookingStatusUsed,
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: "booking is already in the requested status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookingRepo := &mocks.MockBookingRepo{}
			bookingRepo.On("GetById", mock.Anything, 31).
				Return(&domain.Booking{ID: 31, UserID: 42, ScreeningID: 5, Status: tt.current}, nil)
			bookingRepo.On("UpdateStatus", mock.Anything, mock.AnythingOfType("*domain.Booking")).Return(nil).Maybe()

			app := newTestApplication(func(app *Application) {
				app.bookingRepo = bookingRepo
				app.guard = booking.NewGuard(&mocks.MockScreeningRepo{}, &mocks.MockTheaterRepo{}, bookingRepo)
			})

			w, r := executeRequest(t, http.MethodPost, "/bookings/31/check-in", nil)
			r = withUrlParam(asUser(r, 1), "bookingId", "31")

			app.CheckInBooking(w, r)

			checkErrorResponse(t, w, tt.wantStatus, tt.wantErrMessage)

			if tt.wantStatus == http.StatusOK {
				var resp api.BookingResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode booking response: %v", err)
				}
				if resp.Status != string(domain.BookingStatusUsed) {
					t.Errorf("Status = %s, want %s", resp.Status, domain.BookingStatusUsed)
				}
			}
		})
	}
}
