// Package group holds the process-wide registry of location-sharing groups.
// The registry map is guarded by an RWMutex and each group carries its own
// mutex, so updates to the same group serialize while updates to different
// groups never contend. No lock is held across I/O.
package group

import (
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"roomspot-backend/internal/geo"
)

var (
	// ErrGroupExists is returned when creating a group whose name is taken.
	ErrGroupExists = errors.New("group already exists")
	// ErrGroupNotFound is returned for operations on unknown groups.
	ErrGroupNotFound = errors.New("group not found")
	// ErrAlreadyMember is returned when a user joins a group twice.
	ErrAlreadyMember = errors.New("user is already a member")
	// ErrMemberNotFound is returned for location updates from unknown users.
	ErrMemberNotFound = errors.New("member not found")
)

// Member is a point-in-time copy of one group member. HasFix is false until
// the member's first location report.
type Member struct {
	Name      string
	Location  geo.Point
	HasFix    bool
	UpdatedAt time.Time
}

// Snapshot is a consistent point-in-time copy of a group, safe to use after
// the group's lock has been released. Members are sorted by name.
type Snapshot struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	Members   []Member
}

type memberState struct {
	name      string
	location  geo.Point
	hasFix    bool
	updatedAt time.Time
}

type groupState struct {
	id        uuid.UUID
	name      string
	createdAt time.Time

	mu      sync.Mutex
	members map[string]*memberState
}

// Store is the registry of all live groups. The zero value is not usable;
// construct with NewStore and inject where needed.
type Store struct {
	mu     sync.RWMutex
	groups map[string]*groupState
	now    func() time.Time
}

// NewStore creates an empty group registry.
func NewStore() *Store {
	return &Store{
		groups: make(map[string]*groupState),
		now:    time.Now,
	}
}

// Create registers a new group with the creator as its first member. The
// creator joins without a coordinate.
func (s *Store) Create(name, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.groups[name]; exists {
		return ErrGroupExists
	}
	g := &groupState{
		id:        uuid.New(),
		name:      name,
		createdAt: s.now(),
		members:   map[string]*memberState{user: {name: user}},
	}
	s.groups[name] = g
	log.Printf("group %q created by %q (id=%s)", name, user, g.id)
	return nil
}

// Join adds a user to an existing group with no coordinate yet.
func (s *Store) Join(name, user string) error {
	g, err := s.lookup(name)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.members[user]; exists {
		return ErrAlreadyMember
	}
	g.members[user] = &memberState{name: user}
	return nil
}

// UpdateLocation overwrites the member's coordinate and timestamp, then
// returns a snapshot of the whole group taken under the same lock, so it can
// never observe another member's partial write. The group is never created
// as a side effect.
func (s *Store) UpdateLocation(name, user string, lat, lon float64) (Snapshot, error) {
	g, err := s.lookup(name)
	if err != nil {
		return Snapshot{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	m, exists := g.members[user]
	if !exists {
		return Snapshot{}, ErrMemberNotFound
	}
	m.location = geo.Point{Lat: lat, Lon: lon}
	m.hasFix = true
	m.updatedAt = s.now()

	return g.snapshotLocked(), nil
}

// Snapshot returns a point-in-time copy of the named group.
func (s *Store) Snapshot(name string) (Snapshot, error) {
	g, err := s.lookup(name)
	if err != nil {
		return Snapshot{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked(), nil
}

func (s *Store) lookup(name string) (*groupState, error) {
	s.mu.RLock()
	g, ok := s.groups[name]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrGroupNotFound
	}
	return g, nil
}

// snapshotLocked copies the member map; callers must hold g.mu.
func (g *groupState) snapshotLocked() Snapshot {
	members := make([]Member, 0, len(g.members))
	for _, m := range g.members {
		members = append(members, Member{
			Name:      m.name,
			Location:  m.location,
			HasFix:    m.hasFix,
			UpdatedAt: m.updatedAt,
		})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return Snapshot{
		ID:        g.id,
		Name:      g.name,
		CreatedAt: g.createdAt,
		Members:   members,
	}
}
