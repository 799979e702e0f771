package app

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/cinevo/cinema-api/api"
	"github.com/cinevo/cinema-api/internal/domain"
	"github.com/cinevo/cinema-api/internal/mocks"
	"github.com/cinevo/cinema-api/internal/scheduling"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func screeningsAt(h, m int) time.Time {
	return time.Date(2025, time.June, 6, h, m, 0, 0, time.UTC)
}

func TestCreateScreeningHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           api.CreateScreeningRequest
		setupMocks     func(mr *mocks.MockMovieRepo, tr *mocks.MockTheaterRepo, sr *mocks.MockScreeningRepo)
		wantStatus     int
		wantErrMessage string
	}{
		{
			name: "missing movie id",
			body: api.CreateScreeningRequest{
				TheaterId: 1,
				HallId:    3,
				StartTime: screeningsAt(20, 0),
				Price:     decimal.NewFromInt(10),
				Quality:   "2D",
			},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "is required",
		},
		{
			name: "invalid quality",
			body: api.CreateScreeningRequest{
				MovieId:   2,
				TheaterId: 1,
				HallId:    3,
				StartTime: screeningsAt(20, 0),
				Price:     decimal.NewFromInt(10),
				Quality:   "8K",
			},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "must be one of: 2D 3D IMAX 4DX",
		},
		{
			name: "movie does not exist",
			body: api.CreateScreeningRequest{
				MovieId:   99,
				TheaterId: 1,
				HallId:    3,
				StartTime: screeningsAt(20, 0),
				Price:     decimal.NewFromInt(10),
				Quality:   "2D",
			},
			setupMocks: func(mr *mocks.MockMovieRepo, tr *mocks.MockTheaterRepo, sr *mocks.MockScreeningRepo) {
				mr.On("GetById", mock.Anything, 99).Return(nil, domain.ErrRecordNotFound)
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: "The requested resource not found",
		},
		{
			name: "hall is occupied",
			body: api.CreateScreeningRequest{
				MovieId:   2,
				TheaterId: 1,
				HallId:    3,
				StartTime: screeningsAt(20, 0),
				Price:     decimal.NewFromInt(10),
				Quality:   "2D",
			},
			setupMocks: func(mr *mocks.MockMovieRepo, tr *mocks.MockTheaterRepo, sr *mocks.MockScreeningRepo) {
				mr.On("GetById", mock.Anything, 2).Return(&domain.Movie{ID: 2, Duration: 120}, nil)
				tr.On("LockHall", mock.Anything, 1, 3).Return(nil)
				sr.On("GetByHall", mock.Anything, 1, 3).Return([]domain.Screening{
					{ID: 9, StartTime: screeningsAt(21, 0), EndTime: screeningsAt(23, 0)},
				}, nil)
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movieRepo := &mocks.MockMovieRepo{}
			theaterRepo := &mocks.MockTheaterRepo{}
			screeningRepo := &mocks.MockScreeningRepo{}

			if tt.setupMocks != nil {
				tt.setupMocks(movieRepo, theaterRepo, screeningRepo)
			}

			app := newTestApplication(func(app *Application) {
				app.movieRepo = movieRepo
				app.theaterRepo = theaterRepo
				app.screeningRepo = screeningRepo
				app.scheduler = scheduling.NewScheduler(movieRepo, theaterRepo, screeningRepo)
			})

			w, r := executeRequest(t, http.MethodPost, "/screenings", tt.body)
			app.CreateScreening(w, asUser(r, 1))

			checkErrorResponse(t, w, tt.wantStatus, tt.wantErrMessage)
		})
	}
}

func TestCreateScreeningHandlerSuccess(t *testing.T) {
	movieRepo := &mocks.MockMovieRepo{}
	theaterRepo := &mocks.MockTheaterRepo{}
	screeningRepo := &mocks.MockScreeningRepo{}

	movieRepo.On("GetById", mock.Anything, 2).Return(&domain.Movie{ID: 2, Duration: 95}, nil)
	theaterRepo.On("LockHall", mock.Anything, 1, 3).Return(nil)
	screeningRepo.On("GetByHall", mock.Anything, 1, 3).Return([]domain.Screening{
		{ID: 9, StartTime: screeningsAt(17, 0), EndTime: screeningsAt(19, 0)},
	}, nil)
	screeningRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Screening")).
		Run(func(args mock.Arguments) {
			s := args.Get(1).(*domain.Screening)
			s.ID = 10
			s.Version = 1
		}).
		Return(nil)

	app := newTestApplication(func(app *Application) {
		app.movieRepo = movieRepo
		app.theaterRepo = theaterRepo
		app.screeningRepo = screeningRepo
		app.scheduler = scheduling.NewScheduler(movieRepo, theaterRepo, screeningRepo)
	})

	// Starting exactly when the previous screening ends is legal.
	body := api.CreateScreeningRequest{
		MovieId:   2,
		TheaterId: 1,
		HallId:    3,
		StartTime: screeningsAt(19, 0),
		Price:     decimal.NewFromFloat(12.50),
		Quality:   "IMAX",
	}

	w, r := executeRequest(t, http.MethodPost, "/screenings", body)
	app.CreateScreening(w, asUser(r, 1))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp api.ScreeningResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode screening response: %v", err)
	}

	if resp.Id != 10 {
		t.Errorf("Id = %d, want 10", resp.Id)
	}
	if !resp.EndTime.Equal(screeningsAt(20, 35)) {
		t.Errorf("EndTime = %s, want %s", resp.EndTime, screeningsAt(20, 35))
	}
	if w.Header().Get("Location") != "/screenings/10" {
		t.Errorf("Location = %s, want /screenings/10", w.Header().Get("Location"))
	}

	screeningRepo.AssertExpectations(t)
}

func TestUpdateScreeningHandler(t *testing.T) {
	existing := func() *domain.Screening {
		return &domain.Screening{
			ID:        9,
			MovieID:   2,
			TheaterID: 1,
			HallID:    3,
			StartTime: screeningsAt(17, 0),
			EndTime:   screeningsAt(19, 0),
			Price:     decimal.NewFromInt(10),
			Quality:   "2D",
			Version:   1,
		}
	}

	tests := []struct {
		name           string
		body           api.UpdateScreeningRequest
		wantStatus     int
		wantErrMessage string
	}{
		{
			name: "reschedule into a free slot",
			body: api.UpdateScreeningRequest{
				StartTime: ptr(screeningsAt(19, 0)),
				Quality:   ptr("IMAX"),
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "reschedule into an occupied slot",
			body: api.UpdateScreeningRequest{
				StartTime: ptr(screeningsAt(20, 0)),
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "move into an occupied hall",
			body: api.UpdateScreeningRequest{
				HallId: ptr(4),
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movieRepo := &mocks.MockMovieRepo{}
			theaterRepo := &mocks.MockTheaterRepo{}
			screeningRepo := &mocks.MockScreeningRepo{}

			screeningRepo.On("GetById", mock.Anything, 9).Return(existing(), nil)
			movieRepo.On("GetById", mock.Anything, 2).Return(&domain.Movie{ID: 2, Duration: 95}, nil)
			theaterRepo.On("LockHall", mock.Anything, 1, 3).Return(nil)
			screeningRepo.On("GetByHall", mock.Anything, 1, 3).Return([]domain.Screening{
				*existing(),
				{ID: 14, StartTime: screeningsAt(21, 0), EndTime: screeningsAt(23, 0)},
			}, nil)

			// Hall 4 runs another screening over the unchanged 17:00 slot, so
			// moving there must be rejected.
			theaterRepo.On("LockHall", mock.Anything, 1, 4).Return(nil)
			screeningRepo.On("GetByHall", mock.Anything, 1, 4).Return([]domain.Screening{
				{ID: 15, StartTime: screeningsAt(17, 0), EndTime: screeningsAt(19, 0)},
			}, nil)
			screeningRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Screening")).Return(nil).Maybe()

			app := newTestApplication(func(app *Application) {
				app.movieRepo = movieRepo
				app.theaterRepo = theaterRepo
				app.screeningRepo = screeningRepo
				app.scheduler = scheduling.NewScheduler(movieRepo, theaterRepo, screeningRepo)
			})

			w, r := executeRequest(t, http.MethodPatch, "/screenings/9", tt.body)
			r = withUrlParam(asUser(r, 1), "screeningId", "9")

			app.UpdateScreening(w, r)

			checkErrorResponse(t, w, tt.wantStatus, tt.wantErrMessage)

			if tt.wantStatus == http.StatusOK {
				var resp api.ScreeningResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode screening response: %v", err)
				}
				if !resp.EndTime.Equal(screeningsAt(20, 35)) {
					t.Errorf("EndTime = %s, want %s", resp.EndTime, screeningsAt(20, 35))
				}
				if resp.Quality != "IMAX" {
					t.Errorf("Quality = %s, want IMAX", resp.Quality)
				}
			}
		})
	}
}

func TestGetScreeningSeatsHandler(t *testing.T) {
	screeningRepo := &mocks.MockScreeningRepo{}
	theaterRepo := &mocks.MockTheaterRepo{}
	bookingRepo := &mocks.MockBookingRepo{}

	screeningRepo.On("GetById", mock.Anything, 5).Return(bookingTestScreening(), nil)
	theaterRepo.On("GetHall", mock.Anything, 1, 3).Return(bookingTestHall(), nil)

	// The unfiltered lookup must send an empty array, never a nil slice; nil
	// reaches the database as NULL and reports every seat as free.
	bookingRepo.On("GetBookedSeats", mock.Anything, 5, []int{}).Return(
		[]domain.SeatBooking{{BookingID: 7, ScreeningID: 5, SeatID: 12}}, nil)

	app := newTestApplication(func(app *Application) {
		app.screeningRepo = screeningRepo
		app.theaterRepo = theaterRepo
		app.bookingRepo = bookingRepo
	})

	w, r := executeRequest(t, http.MethodGet, "/screenings/5/seats", nil)
	r = withUrlParam(r, "screeningId", "5")

	app.GetScreeningSeats(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp api.SeatMapResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode seat map response: %v", err)
	}

	if len(resp.Seats) != 3 {
		t.Fatalf("len(Seats) = %d, want 3", len(resp.Seats))
	}

	available := make(map[string]bool, len(resp.Seats))
	for _, seat := range resp.Seats {
		available[seat.Label] = seat.Available
	}

	if !available["A1"] || available["A2"] || !available["B1"] {
		t.Errorf("availability = %v, want A1 and B1 free, A2 taken", available)
	}
}
