package store

import (
	"encoding/json"
	"os"
	"time"

	"roomspot-backend/internal/schedule"
)

// BuildingSeed is one entry of the static building catalog file: a building
// name and its coordinate.
type BuildingSeed struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// LoadBuildingSeeds reads the building seed file (a JSON array).
func LoadBuildingSeeds(path string) ([]BuildingSeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var seeds []BuildingSeed
	if err := json.NewDecoder(f).Decode(&seeds); err != nil {
		return nil, err
	}
	return seeds, nil
}

// SessionRecord is the fetcher-facing shape of one class session, before it
// is persisted against a building.
type SessionRecord struct {
	Room          string
	Subject       string
	CatalogNumber string
	Section       string
	CourseTitle   string
	Instructors   []string
	Capacity      int
	Days          schedule.DaySet
	StartMinute   int
	EndMinute     int
	StartDate     time.Time
	EndDate       time.Time
}
