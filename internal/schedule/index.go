package schedule

import (
	"errors"
	"sort"
	"sync/atomic"
	"time"
)

var (
	// ErrBuildingNotFound is returned for lookups of unknown building names.
	ErrBuildingNotFound = errors.New("building not found")
	// ErrInvalidDay is returned for day tokens outside mon..sun.
	ErrInvalidDay = errors.New("invalid day")
	// ErrInvalidWindow is returned for malformed or zero-length time windows.
	ErrInvalidWindow = errors.New("invalid time window")
)

// Session is one weekly class meeting occupying a room. Start and End are
// minutes since midnight forming the half-open interval [Start, End).
// ValidFrom/ValidTo bound the weekly cycle inclusively; zero values mean
// unbounded.
type Session struct {
	Room          string
	Subject       string
	CatalogNumber string
	Section       string
	CourseTitle   string
	Instructors   []string
	Capacity      int
	Days          DaySet
	Start         int
	End           int
	ValidFrom     time.Time
	ValidTo       time.Time
}

// BuildingInfo is the immutable catalog entry for one building.
type BuildingInfo struct {
	Name      string
	Latitude  float64
	Longitude float64
	Rooms     []string
}

// BuildingSchedule pairs a building with its class sessions; the unit the
// index is constructed from.
type BuildingSchedule struct {
	Info     BuildingInfo
	Sessions []Session
}

type indexEntry struct {
	info     BuildingInfo
	sessions []Session
}

// Index is an immutable mapping from building name to coordinate, room set
// and class sessions. Lookups are case-sensitive exact matches. An Index is
// never mutated after construction, so it is safe for unlocked concurrent
// reads.
type Index struct {
	entries map[string]*indexEntry
	names   []string
}

// NewIndex builds an index from per-building schedules. Room sets are sorted
// and deduplicated.
func NewIndex(schedules []BuildingSchedule) *Index {
	entries := make(map[string]*indexEntry, len(schedules))
	names := make([]string, 0, len(schedules))
	for _, bs := range schedules {
		info := bs.Info
		info.Rooms = dedupeSorted(info.Rooms)
		entries[info.Name] = &indexEntry{info: info, sessions: bs.Sessions}
		names = append(names, info.Name)
	}
	sort.Strings(names)
	return &Index{entries: entries, names: names}
}

// Lookup returns the class sessions of the named building.
func (ix *Index) Lookup(building string) ([]Session, error) {
	e, ok := ix.entries[building]
	if !ok {
		return nil, ErrBuildingNotFound
	}
	return e.sessions, nil
}

// Building returns the catalog entry of the named building.
func (ix *Index) Building(name string) (BuildingInfo, error) {
	e, ok := ix.entries[name]
	if !ok {
		return BuildingInfo{}, ErrBuildingNotFound
	}
	return e.info, nil
}

// Names returns all building names in lexical order.
func (ix *Index) Names() []string {
	out := make([]string, len(ix.names))
	copy(out, ix.names)
	return out
}

// Buildings returns all catalog entries in lexical name order.
func (ix *Index) Buildings() []BuildingInfo {
	out := make([]BuildingInfo, 0, len(ix.names))
	for _, n := range ix.names {
		out = append(out, ix.entries[n].info)
	}
	return out
}

func dedupeSorted(rooms []string) []string {
	sorted := make([]string, len(rooms))
	copy(sorted, rooms)
	sort.Strings(sorted)
	out := sorted[:0]
	for i, r := range sorted {
		if i == 0 || r != sorted[i-1] {
			out = append(out, r)
		}
	}
	return out
}

// Holder publishes the current Index. Request paths read it without locking;
// the fetcher swaps in a freshly built index after a successful sync. With
// the fetcher disabled the index set at startup is the only one ever
// published.
type Holder struct {
	current atomic.Pointer[Index]
}

// NewHolder creates a holder publishing the given index.
func NewHolder(ix *Index) *Holder {
	h := &Holder{}
	h.current.Store(ix)
	return h
}

// Load returns the currently published index.
func (h *Holder) Load() *Index {
	return h.current.Load()
}

// Swap publishes a new index.
func (h *Holder) Swap(ix *Index) {
	h.current.Store(ix)
}
