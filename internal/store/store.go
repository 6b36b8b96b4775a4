package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roomspot-backend/internal/model"
	"roomspot-backend/internal/schedule"
)

// ErrUnknownBuilding is returned when sessions target a building that was
// never seeded.
var ErrUnknownBuilding = errors.New("unknown building")

// Store defines the catalog persistence operations.
type Store interface {
	DB() *gorm.DB
	SeedBuildings(ctx context.Context, seeds []BuildingSeed) error
	ReplaceSessions(ctx context.Context, building string, sessions []SessionRecord) error
	LoadIndex(ctx context.Context) (*schedule.Index, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// SeedBuildings upserts the static building catalog by name, updating
// coordinates in place. Buildings are never deleted.
func (s *gormStore) SeedBuildings(ctx context.Context, seeds []BuildingSeed) error {
	if len(seeds) == 0 {
		return nil
	}

	buildings := make([]model.Building, 0, len(seeds))
	for _, seed := range seeds {
		buildings = append(buildings, model.Building{
			Name:      seed.Name,
			Latitude:  seed.Latitude,
			Longitude: seed.Longitude,
		})
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"latitude", "longitude", "updated_at"}),
	}).Create(&buildings).Error; err != nil {
		return fmt.Errorf("batch upsert buildings failed: %w", err)
	}
	return nil
}

// ReplaceSessions swaps out the stored sessions of one building wholesale
// and rebuilds its room set from the rooms the sessions mention.
func (s *gormStore) ReplaceSessions(ctx context.Context, building string, sessions []SessionRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b model.Building
		if err := tx.Where("name = ?", building).First(&b).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %q", ErrUnknownBuilding, building)
			}
			return err
		}

		if err := tx.Where("building_id = ?", b.ID).Delete(&model.ClassSession{}).Error; err != nil {
			return fmt.Errorf("failed to clear sessions for %q: %w", building, err)
		}
		if err := tx.Where("building_id = ?", b.ID).Delete(&model.Room{}).Error; err != nil {
			return fmt.Errorf("failed to clear rooms for %q: %w", building, err)
		}

		if len(sessions) == 0 {
			return nil
		}

		rows := make([]model.ClassSession, 0, len(sessions))
		roomCapacity := make(map[string]int)
		for _, rec := range sessions {
			rows = append(rows, sessionRow(b.ID, rec))
			if rec.Room == "" {
				continue
			}
			if known, seen := roomCapacity[rec.Room]; !seen || rec.Capacity > known {
				roomCapacity[rec.Room] = rec.Capacity
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert sessions for %q: %w", building, err)
		}

		if len(roomCapacity) == 0 {
			return nil
		}
		rooms := make([]model.Room, 0, len(roomCapacity))
		for name, capacity := range roomCapacity {
			rooms = append(rooms, model.Room{BuildingID: b.ID, Name: name, Capacity: capacity})
		}
		if err := tx.Create(&rooms).Error; err != nil {
			return fmt.Errorf("failed to insert rooms for %q: %w", building, err)
		}
		return nil
	})
}

// LoadIndex reads the whole catalog and builds an immutable schedule index
// from it.
func (s *gormStore) LoadIndex(ctx context.Context) (*schedule.Index, error) {
	var buildings []model.Building
	if err := s.db.WithContext(ctx).Preload("Rooms").Find(&buildings).Error; err != nil {
		return nil, fmt.Errorf("failed to load buildings: %w", err)
	}

	var sessions []model.ClassSession
	if err := s.db.WithContext(ctx).Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to load class sessions: %w", err)
	}

	sessionsByBuilding := make(map[int64][]schedule.Session, len(buildings))
	for _, row := range sessions {
		sessionsByBuilding[row.BuildingID] = append(sessionsByBuilding[row.BuildingID], indexSession(row))
	}

	schedules := make([]schedule.BuildingSchedule, 0, len(buildings))
	for _, b := range buildings {
		rooms := make([]string, 0, len(b.Rooms))
		for _, r := range b.Rooms {
			rooms = append(rooms, r.Name)
		}
		schedules = append(schedules, schedule.BuildingSchedule{
			Info: schedule.BuildingInfo{
				Name:      b.Name,
				Latitude:  b.Latitude,
				Longitude: b.Longitude,
				Rooms:     rooms,
			},
			Sessions: sessionsByBuilding[b.ID],
		})
	}
	return schedule.NewIndex(schedules), nil
}

func sessionRow(buildingID int64, rec SessionRecord) model.ClassSession {
	return model.ClassSession{
		BuildingID:    buildingID,
		Room:          rec.Room,
		Subject:       rec.Subject,
		CatalogNumber: rec.CatalogNumber,
		Section:       rec.Section,
		CourseTitle:   rec.CourseTitle,
		Instructors:   strings.Join(rec.Instructors, "; "),
		Capacity:      rec.Capacity,
		Monday:        rec.Days[schedule.Monday],
		Tuesday:       rec.Days[schedule.Tuesday],
		Wednesday:     rec.Days[schedule.Wednesday],
		Thursday:      rec.Days[schedule.Thursday],
		Friday:        rec.Days[schedule.Friday],
		Saturday:      rec.Days[schedule.Saturday],
		Sunday:        rec.Days[schedule.Sunday],
		StartMinute:   rec.StartMinute,
		EndMinute:     rec.EndMinute,
		StartDate:     rec.StartDate,
		EndDate:       rec.EndDate,
	}
}

func indexSession(row model.ClassSession) schedule.Session {
	var instructors []string
	if row.Instructors != "" {
		instructors = strings.Split(row.Instructors, "; ")
	}
	return schedule.Session{
		Room:          row.Room,
		Subject:       row.Subject,
		CatalogNumber: row.CatalogNumber,
		Section:       row.Section,
		CourseTitle:   row.CourseTitle,
		Instructors:   instructors,
		Capacity:      row.Capacity,
		Days: schedule.DaySet{
			row.Monday, row.Tuesday, row.Wednesday, row.Thursday,
			row.Friday, row.Saturday, row.Sunday,
		},
		Start:     row.StartMinute,
		End:       row.EndMinute,
		ValidFrom: row.StartDate,
		ValidTo:   row.EndDate,
	}
}
