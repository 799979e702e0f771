package domain

import "context"

type Theater struct {
	ID      int
	Name    string
	Address string
	City    string
	Halls   []Hall
}

type Hall struct {
	ID        int
	TheaterID int
	Name      string
	Seats     []Seat
}

type Seat struct {
	ID     int
	HallID int
	// Label is the user-facing seat identifier inside the hall, e.g. "A1".
	Label string
	Row   string
	Col   int
	Type  string
}

// SeatByLabel flattens the hall layout into a lookup table. Booking requests
// reference seats by label, so this is the existence check's view of the hall.
func (h *Hall) SeatByLabel() map[string]Seat {
	seats := make(map[string]Seat, len(h.Seats))
	for _, seat := range h.Seats {
		seats[seat.Label] = seat
	}

	return seats
}

type TheaterRepository interface {
	GetAll(ctx context.Context) ([]Theater, error)
	GetById(ctx context.Context, id int) (*Theater, error)
	// GetHall returns the hall and its full seat layout, or ErrRecordNotFound
	// when the (theaterID, hallID) pair does not exist.
	GetHall(ctx context.Context, theaterID, hallID int) (*Hall, error)
	// LockHall takes a row lock on the hall inside the current transaction so
	// concurrent scheduling attempts for the same hall serialize.
	LockHall(ctx context.Context, theaterID, hallID int) error
}
