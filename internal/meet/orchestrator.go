// Package meet assembles meeting spot results: centroid of the group's
// latest positions, distance-ranked candidate buildings, and room
// availability for each of the top candidates.
package meet

import (
	"errors"
	"time"

	"roomspot-backend/internal/geo"
	"roomspot-backend/internal/group"
	"roomspot-backend/internal/schedule"
)

// ErrNoBuildings is returned by Manual when none of the requested buildings
// is known to the catalog.
var ErrNoBuildings = errors.New("no known buildings selected")

// DefaultTopK is the number of candidate buildings returned per query.
const DefaultTopK = 3

// Query is a validated availability window.
type Query struct {
	Day   schedule.Day
	Start int
	End   int
}

// BuildingResult is one ranked candidate with its room partition.
type BuildingResult struct {
	Building      string
	Meters        float64
	FreeRooms     []string
	OccupiedRooms []string
}

// Result is the assembled meeting spot answer. Centroid is nil when no
// member has ever reported a coordinate; that is an empty result, not an
// error, so polling clients stay stable.
type Result struct {
	Centroid     *geo.Point
	Members      []string
	TopBuildings []BuildingResult
}

// Options tunes an Orchestrator.
type Options struct {
	// TopK caps the number of ranked buildings; DefaultTopK when zero.
	TopK int
	// Staleness excludes members whose last fix is older than the window
	// from the centroid. Zero disables the filter.
	Staleness time.Duration
	// EnforceTermDates makes availability respect session date ranges,
	// evaluated against the current date.
	EnforceTermDates bool
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Orchestrator computes meeting spot results against the current schedule
// index. It holds no mutable state of its own.
type Orchestrator struct {
	catalog          *schedule.Holder
	topK             int
	staleness        time.Duration
	enforceTermDates bool
	now              func() time.Time
}

// New creates an orchestrator reading indexes from the given holder.
func New(catalog *schedule.Holder, opts Options) *Orchestrator {
	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		catalog:          catalog,
		topK:             topK,
		staleness:        opts.Staleness,
		enforceTermDates: opts.EnforceTermDates,
		now:              now,
	}
}

// ForGroup resolves the meeting spot for a group snapshot: centroid over the
// members that have reported a position, all known buildings ranked from it,
// and availability for the top candidates.
func (o *Orchestrator) ForGroup(snap group.Snapshot, q Query) (Result, error) {
	members := make([]string, 0, len(snap.Members))
	points := make([]geo.Point, 0, len(snap.Members))
	cutoff := time.Time{}
	if o.staleness > 0 {
		cutoff = o.now().Add(-o.staleness)
	}
	for _, m := range snap.Members {
		members = append(members, m.Name)
		if !m.HasFix {
			continue
		}
		if !cutoff.IsZero() && m.UpdatedAt.Before(cutoff) {
			continue
		}
		points = append(points, m.Location)
	}

	centroid, ok := geo.Centroid(points)
	if !ok {
		return Result{Members: members, TopBuildings: []BuildingResult{}}, nil
	}

	ix := o.catalog.Load()
	candidates := buildingCandidates(ix.Buildings())
	top, err := o.resolveTop(ix, centroid, candidates, q)
	if err != nil {
		return Result{}, err
	}
	return Result{Centroid: &centroid, Members: members, TopBuildings: top}, nil
}

// Manual resolves a one-shot request: the centroid of the selected
// buildings' own coordinates, with ranking scoped to the selection.
func (o *Orchestrator) Manual(buildings []string, q Query) (Result, error) {
	ix := o.catalog.Load()

	candidates := make([]geo.Candidate, 0, len(buildings))
	points := make([]geo.Point, 0, len(buildings))
	for _, name := range buildings {
		info, err := ix.Building(name)
		if err != nil {
			continue // unknown names are skipped, not fatal
		}
		p := geo.Point{Lat: info.Latitude, Lon: info.Longitude}
		candidates = append(candidates, geo.Candidate{Name: info.Name, Location: p})
		points = append(points, p)
	}

	centroid, ok := geo.Centroid(points)
	if !ok {
		return Result{}, ErrNoBuildings
	}

	top, err := o.resolveTop(ix, centroid, candidates, q)
	if err != nil {
		return Result{}, err
	}
	return Result{Centroid: &centroid, TopBuildings: top}, nil
}

// ResolveOptions returns the availability options the orchestrator is
// configured with, shared with the standalone availability endpoint.
func (o *Orchestrator) ResolveOptions() schedule.ResolveOptions {
	if !o.enforceTermDates {
		return schedule.ResolveOptions{}
	}
	ref := o.now()
	return schedule.ResolveOptions{ReferenceDate: &ref}
}

func (o *Orchestrator) resolveTop(ix *schedule.Index, origin geo.Point, candidates []geo.Candidate, q Query) ([]BuildingResult, error) {
	ranked := geo.RankByDistance(origin, candidates, o.topK)
	opts := o.ResolveOptions()

	results := make([]BuildingResult, 0, len(ranked))
	for _, r := range ranked {
		avail, err := ix.Resolve(r.Name, q.Day, q.Start, q.End, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, BuildingResult{
			Building:      r.Name,
			Meters:        r.Meters,
			FreeRooms:     avail.Free,
			OccupiedRooms: avail.Occupied,
		})
	}
	return results, nil
}

func buildingCandidates(infos []schedule.BuildingInfo) []geo.Candidate {
	out := make([]geo.Candidate, 0, len(infos))
	for _, info := range infos {
		out = append(out, geo.Candidate{
			Name:     info.Name,
			Location: geo.Point{Lat: info.Latitude, Lon: info.Longitude},
		})
	}
	return out
}
