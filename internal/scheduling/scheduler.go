package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/cinevo/cinema-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Scheduler decides whether a candidate screening may occupy a hall without
// colliding with screenings already scheduled there. All checks and the
// subsequent insert/update run in one transaction, with a row lock on the hall
// so two concurrent requests for the same hall serialize instead of both
// passing the overlap scan.
type Scheduler struct {
	movies     domain.MovieRepository
	theaters   domain.TheaterRepository
	screenings domain.ScreeningRepository

	// cleaningBuffer is added to the movie runtime when deriving the end of
	// the occupied window. Zero keeps back-to-back screenings legal.
	cleaningBuffer time.Duration
}

type SchedulerOption func(*Scheduler)

// WithCleaningBuffer reserves extra hall time after each screening.
func WithCleaningBuffer(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.cleaningBuffer = d
		}
	}
}

func NewScheduler(
	movies domain.MovieRepository,
	theaters domain.TheaterRepository,
	screenings domain.ScreeningRepository,
	opts ...SchedulerOption) *Scheduler {

	s := &Scheduler{
		movies:     movies,
		theaters:   theaters,
		screenings: screenings,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateScreeningInput struct {
	MovieID   int
	TheaterID int
	HallID    int
	StartTime time.Time
	Price     decimal.Decimal
	Quality   string
}

type UpdateScreeningInput struct {
	MovieID   *int
	TheaterID *int
	HallID    *int
	StartTime *time.Time
	Price     *decimal.Decimal
	Quality   *string
}

func (s *Scheduler) CreateScreening(ctx context.Context, in CreateScreeningInput) (*domain.Screening, error) {
	var created *domain.Screening

	err := s.screenings.WithTx(ctx, func(ctx context.Context) error {
		movie, err := s.movies.GetById(ctx, in.MovieID)
		if err != nil {
			return fmt.Errorf("movie: %w", err)
		}

		if err := s.theaters.LockHall(ctx, in.TheaterID, in.HallID); err != nil {
			return fmt.Errorf("hall: %w", err)
		}

		end := s.endOf(in.StartTime, movie.Duration)

		err = s.validateNoOverlap(ctx, in.TheaterID, in.HallID, interval{in.StartTime, end}, 0)
		if err != nil {
			return err
		}

		screening := &domain.Screening{
			PublicCode: uuid.NewString(),
			MovieID:    in.MovieID,
			TheaterID:  in.TheaterID,
			HallID:     in.HallID,
			StartTime:  in.StartTime,
			EndTime:    end,
			Price:      in.Price,
			Quality:    in.Quality,
		}

		if err := s.screenings.Create(ctx, screening); err != nil {
			return err
		}

		created = screening
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateScreening re-validates the overlap invariant with the screening's own
// slot excluded from the scan, re-resolving movie and hall when the patch
// changes them.
func (s *Scheduler) UpdateScreening(ctx context.Context, id int, in UpdateScreeningInput) (*domain.Screening, error) {
	var updated *domain.Screening

	err := s.screenings.WithTx(ctx, func(ctx context.Context) error {
		screening, err := s.screenings.GetById(ctx, id)
		if err != nil {
			return fmt.Errorf("screening: %w", err)
		}

		if in.MovieID != nil {
			screening.MovieID = *in.MovieID
		}
		if in.TheaterID != nil {
			screening.TheaterID = *in.TheaterID
		}
		if in.HallID != nil {
			screening.HallID = *in.HallID
		}
		if in.StartTime != nil {
			screening.StartTime = *in.StartTime
		}
		if in.Price != nil {
			screening.Price = *in.Price
		}
		if in.Quality != nil {
			screening.Quality = *in.Quality
		}

		movie, err := s.movies.GetById(ctx, screening.MovieID)
		if err != nil {
			return fmt.Errorf("movie: %w", err)
		}

		if err := s.theaters.LockHall(ctx, screening.TheaterID, screening.HallID); err != nil {
			return fmt.Errorf("hall: %w", err)
		}

		screening.EndTime = s.endOf(screening.StartTime, movie.Duration)

		err = s.validateNoOverlap(
			ctx,
			screening.TheaterID,
			screening.HallID,
			interval{screening.StartTime, screening.EndTime},
			screening.ID,
		)
		if err != nil {
			return err
		}

		if err := s.screenings.Update(ctx, screening); err != nil {
			return err
		}

		updated = screening
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// validateNoOverlap scans every screening in the hall and rejects the
// candidate on the first intersection. Any overlap forbids scheduling, so no
// ordering or tie-breaking is needed.
func (s *Scheduler) validateNoOverlap(
	ctx context.Context,
	theaterID, hallID int,
	candidate interval,
	excludeID int) error {

	existing, err := s.screenings.GetByHall(ctx, theaterID, hallID)
	if err != nil {
		return err
	}

	for _, sc := range existing {
		if excludeID != 0 && sc.ID == excludeID {
			continue
		}

		if candidate.overlaps(interval{sc.StartTime, sc.EndTime}) {
			return &domain.ScheduleConflictError{
				ScreeningID: sc.ID,
				StartTime:   sc.StartTime,
				EndTime:     sc.EndTime,
			}
		}
	}

	return nil
}

func (s *Scheduler) endOf(start time.Time, durationMinutes int) time.Time {
	return start.Add(time.Duration(durationMinutes)*time.Minute + s.cleaningBuffer)
}
