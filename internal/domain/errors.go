package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrRecordNotFound        = errors.New("record not found")
	ErrEditConflict          = errors.New("edit conflict")
	ErrUserAlreadyExists     = errors.New("user already exists")
	ErrBookingStatusConflict = errors.New("booking is already in the requested status")
)

// ScheduleConflictError reports that a candidate screening interval intersects
// an already scheduled screening in the same hall.
type ScheduleConflictError struct {
	ScreeningID int
	StartTime   time.Time
	EndTime     time.Time
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("screening %d already occupies the hall from %s to %s",
		e.ScreeningID,
		e.StartTime.Format(time.RFC3339),
		e.EndTime.Format(time.RFC3339))
}

// SeatsUnavailableError reports seats that are already booked for a screening.
// The repository raises it both from the availability pre-check and from a
// unique-constraint violation at commit time, so a lost race surfaces exactly
// like an ordinary double-booking.
type SeatsUnavailableError struct {
	SeatLabels []string
}

func (e *SeatsUnavailableError) Error() string {
	return fmt.Sprintf("seat(s) no longer available: %s", strings.Join(e.SeatLabels, ", "))
}
