package schedule

import "time"

// ResolveOptions tunes availability resolution. When ReferenceDate is set,
// sessions whose validity date range does not contain it are skipped;
// otherwise every session is treated as always in its weekly cycle.
type ResolveOptions struct {
	ReferenceDate *time.Time
}

// Availability partitions a building's rooms for one query window. Every
// room of the building appears in exactly one of the two lists.
type Availability struct {
	Free     []string
	Occupied []string
}

// Resolve partitions the named building's rooms into free and occupied for
// the window [start, end) on the given day. A room is occupied iff at least
// one session covers the day and overlaps the window; rooms never scheduled
// at all are always free. A building with no rooms yields two empty lists.
func (ix *Index) Resolve(building string, day Day, start, end int, opts ResolveOptions) (Availability, error) {
	if day < Monday || day > Sunday {
		return Availability{}, ErrInvalidDay
	}
	if start < 0 || end > MinutesPerDay || start >= end {
		return Availability{}, ErrInvalidWindow
	}

	e, ok := ix.entries[building]
	if !ok {
		return Availability{}, ErrBuildingNotFound
	}

	occupied := make(map[string]bool)
	for _, s := range e.sessions {
		if !s.Days.Contains(day) {
			continue
		}
		// Half-open interval overlap.
		if s.Start >= end || start >= s.End {
			continue
		}
		if opts.ReferenceDate != nil && !sessionValidOn(s, *opts.ReferenceDate) {
			continue
		}
		occupied[s.Room] = true
	}

	avail := Availability{Free: []string{}, Occupied: []string{}}
	for _, room := range e.info.Rooms {
		if occupied[room] {
			avail.Occupied = append(avail.Occupied, room)
		} else {
			avail.Free = append(avail.Free, room)
		}
	}
	return avail, nil
}

// sessionValidOn reports whether the date falls inside the session's
// inclusive [ValidFrom, ValidTo] range, comparing calendar dates only.
func sessionValidOn(s Session, at time.Time) bool {
	date := truncateToDay(at)
	if !s.ValidFrom.IsZero() && date.Before(truncateToDay(s.ValidFrom)) {
		return false
	}
	if !s.ValidTo.IsZero() && date.After(truncateToDay(s.ValidTo)) {
		return false
	}
	return true
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
