package booking

import (
	"context"
	"testing"

	"github.com/cinevo/cinema-api/internal/domain"
	"github.com/cinevo/cinema-api/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type GuardTestSuite struct {
	suite.Suite
	screenings *mocks.MockScreeningRepo
	theaters   *mocks.MockTheaterRepo
	bookings   *mocks.MockBookingRepo
	guard      *Guard
}

func (s *GuardTestSuite) SetupTest() {
	s.screenings = new(mocks.MockScreeningRepo)
	s.theaters = new(mocks.MockTheaterRepo)
	s.bookings = new(mocks.MockBookingRepo)
	s.guard = NewGuard(s.screenings, s.theaters, s.bookings)
}

func TestGuardSuite(t *testing.T) {
	suite.Run(t, new(GuardTestSuite))
}

func testScreening() *domain.Screening {
	return &domain.Screening{
		ID:        5,
		TheaterID: 1,
		HallID:    3,
		Price:     decimal.NewFromInt(10),
	}
}

func testHall() *domain.Hall {
	return &domain.Hall{
		ID:        3,
		TheaterID: 1,
		Name:      "Hall 3",
		Seats: []domain.Seat{
			{ID: 11, HallID: 3, Label: "A1", Row: "A", Col: 1},
			{ID: 12, HallID: 3, Label: "A2", Row: "A", Col: 2},
			{ID: 13, HallID: 3, Label: "B1", Row: "B", Col: 1},
		},
	}
}

func (s *GuardTestSuite) TestCreateBooking() {
	tests := []struct {
		name            string
		seatLabels      []string
		setupMocks      func()
		wantErr         error
		wantUnavailable []string
		wantTotal       decimal.Decimal
	}{
		{
			name:       "should fail when screening does not exist",
			seatLabels: []string{"A1"},
			setupMocks: func() {
				s.screenings.On("GetById", mock.Anything, 5).Return(nil, domain.ErrRecordNotFound)
			},
			wantErr: domain.ErrRecordNotFound,
		},
		{
			name:       "should fail when a seat is not part of the hall layout",
			seatLabels: []string{"A1", "Z9"},
			setupMocks: func() {
				s.screenings.On("GetById", mock.Anything, 5).Return(testScreening(), nil)
				s.theaters.On("GetHall", mock.Anything, 1, 3).Return(testHall(), nil)
			},
			wantErr: domain.ErrRecordNotFound,
		},
		{
			name:       "should fail when a requested seat is already booked",
			seatLabels: []string{"A1", "A2"},
			setupMocks: func() {
				s.screenings.On("GetById", mock.Anything, 5).Return(testScreening(), nil)
				s.theaters.On("GetHall", mock.Anything, 1, 3).Return(testHall(), nil)
				s.bookings.On("GetBookedSeats", mock.Anything, 5, []int{11, 12}).Return([]domain.SeatBooking{
					{BookingID: 2, ScreeningID: 5, SeatID: 11},
				}, nil)
			},
			wantUnavailable: []string{"A1"},
		},
		{
			name:       "should surface a commit-time uniqueness race as a seat conflict",
			seatLabels: []string{"B1"},
			setupMocks: func() {
				s.screenings.On("GetById", mock.Anything, 5).Return(testScreening(), nil)
				s.theaters.On("GetHall", mock.Anything, 1, 3).Return(testHall(), nil)
				s.bookings.On("GetBookedSeats", mock.Anything, 5, []int{13}).Return([]domain.SeatBooking{}, nil)
				s.bookings.On("Create", mock.Anything, mock.Anything).
					Return(&domain.SeatsUnavailableError{SeatLabels: []string{"B1"}})
			},
			wantUnavailable: []string{"B1"},
		},
		{
			name:       "should create the booking with one seat row per seat",
			seatLabels: []string{"A1", "B1"},
			setupMocks: func() {
				s.screenings.On("GetById", mock.Anything, 5).Return(testScreening(), nil)
				s.theaters.On("GetHall", mock.Anything, 1, 3).Return(testHall(), nil)
				s.bookings.On("GetBookedSeats", mock.Anything, 5, []int{11, 13}).Return([]domain.SeatBooking{}, nil)
				s.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			wantTotal: decimal.NewFromInt(20),
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			tt.setupMocks()

			created, err := s.guard.CreateBooking(context.Background(), 42, 5, tt.seatLabels)

			switch {
			case tt.wantErr != nil:
				s.Require().ErrorIs(err, tt.wantErr)
				s.bookings.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)

			case tt.wantUnavailable != nil:
				var unavailable *domain.SeatsUnavailableError
				s.Require().ErrorAs(err, &unavailable)
				s.Equal(tt.wantUnavailable, unavailable.SeatLabels)

			default:
				s.Require().NoError(err)
				s.Equal(42, created.UserID)
				s.Equal(5, created.ScreeningID)
				s.Equal(domain.BookingStatusPending, created.Status)
				s.Equal(len(tt.seatLabels), created.SeatsNumber)
				s.Len(created.Seats, created.SeatsNumber)
				s.True(tt.wantTotal.Equal(created.TotalPrice),
					"total price = %s, want %s", created.TotalPrice, tt.wantTotal)

				for i, label := range tt.seatLabels {
					s.Equal(label, created.Seats[i].SeatLabel)
					s.Equal(5, created.Seats[i].ScreeningID)
				}
			}
		})
	}
}

// A failed attempt must never reach the insert: the one existing Create
// expectation above covers the happy path, and AssertNotCalled in the error
// branches covers rollback-equivalent behavior at this level.
func (s *GuardTestSuite) TestCreateBookingDoesNotInsertOnSeatConflict() {
	s.screenings.On("GetById", mock.Anything, 5).Return(testScreening(), nil)
	s.theaters.On("GetHall", mock.Anything, 1, 3).Return(testHall(), nil)
	s.bookings.On("GetBookedSeats", mock.Anything, 5, []int{11, 12}).Return([]domain.SeatBooking{
		{BookingID: 9, ScreeningID: 5, SeatID: 11},
	}, nil)

	_, err := s.guard.CreateBooking(context.Background(), 42, 5, []string{"A1", "A2"})

	var unavailable *domain.SeatsUnavailableError
	s.Require().ErrorAs(err, &unavailable)
	s.bookings.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *GuardTestSuite) TestStatusTransitions() {
	tests := []struct {
		name       string
		transition func(context.Context, int) (*domain.Booking, error)
		current    domain.BookingStatus
		want       domain.BookingStatus
		wantErr    error
	}{
		{
			name:       "should mark a pending booking as used",
			transition: func(ctx context.Context, id int) (*domain.Booking, error) { return s.guard.MarkUsed(ctx, id) },
			current:    domain.BookingStatusPending,
			want:       domain.BookingStatusUsed,
		},
		{
			name:       "should reject marking an already used booking as used",
			transition: func(ctx context.Context, id int) (*domain.Booking, error) { return s.guard.MarkUsed(ctx, id) },
			current:    domain.BookingStatusUsed,
			wantErr:    domain.ErrBookingStatusConflict,
		},
		{
			name:       "should cancel a pending booking",
			transition: func(ctx context.Context, id int) (*domain.Booking, error) { return s.guard.Cancel(ctx, id) },
			current:    domain.BookingStatusPending,
			want:       domain.BookingStatusCanceled,
		},
		{
			name:       "should reject canceling an already canceled booking",
			transition: func(ctx context.Context, id int) (*domain.Booking, error) { return s.guard.Cancel(ctx, id) },
			current:    domain.BookingStatusCanceled,
			wantErr:    domain.ErrBookingStatusConflict,
		},
		{
			// Only same-status transitions conflict; canceling a used
			// booking is a back-office correction and stays legal.
			name:       "should allow canceling a used booking",
			transition: func(ctx context.Context, id int) (*domain.Booking, error) { return s.guard.Cancel(ctx, id) },
			current:    domain.BookingStatusUsed,
			want:       domain.BookingStatusCanceled,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			s.bookings.On("GetById", mock.Anything, 77).
				Return(&domain.Booking{ID: 77, Status: tt.current}, nil)

			if tt.wantErr == nil {
				s.bookings.On("UpdateStatus", mock.Anything, mock.Anything).Return(nil)
			}

			booking, err := tt.transition(context.Background(), 77)

			if tt.wantErr != nil {
				s.Require().ErrorIs(err, tt.wantErr)
				s.bookings.AssertNotCalled(s.T(), "UpdateStatus", mock.Anything, mock.Anything)
				return
			}

			s.Require().NoError(err)
			s.Equal(tt.want, booking.Status)
			s.bookings.AssertExpectations(s.T())
		})
	}
}

func (s *GuardTestSuite) TestMarkUsedMissingBooking() {
	s.bookings.On("GetById", mock.Anything, 404).Return(nil, domain.ErrRecordNotFound)

	_, err := s.guard.MarkUsed(context.Background(), 404)

	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}
