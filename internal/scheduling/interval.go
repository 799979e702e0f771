package scheduling

import "time"

// interval is a half-open time window [start, end). A screening ending exactly
// when another starts does not overlap it.
type interval struct {
	start time.Time
	end   time.Time
}

func (a interval) overlaps(b interval) bool {
	return a.start.Before(b.end) && b.start.Before(a.end)
}
