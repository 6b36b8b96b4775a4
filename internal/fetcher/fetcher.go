// Package fetcher syncs the campus classes API into the catalog store and
// publishes a rebuilt schedule index after each successful cycle.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"roomspot-backend/config"
	"roomspot-backend/internal/schedule"
	"roomspot-backend/internal/store"
)

// Service orchestrates the schedule sync process.
type Service struct {
	cfg     *config.Config
	store   store.Store
	catalog *schedule.Holder
	client  *http.Client
}

// NewService creates and initializes a new fetcher service.
func NewService(cfg *config.Config, st store.Store, catalog *schedule.Holder) *Service {
	return &Service{
		cfg:     cfg,
		store:   st,
		catalog: catalog,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Run starts the sync process in a loop.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Fetcher.Enabled {
		log.Println("Schedule fetcher is disabled. Not starting.")
		return
	}
	log.Println("Starting schedule fetcher...")

	s.SyncOnce(ctx)

	timer := time.NewTimer(s.cfg.Fetcher.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Schedule fetcher shutting down.")
			return
		case <-timer.C:
			s.SyncOnce(ctx)
			timer.Reset(s.cfg.Fetcher.Interval)
		}
	}
}

// SyncOnce performs a single sync cycle: fetch each seeded building's
// schedule, persist it, then rebuild and publish the index. A building whose
// fetch fails keeps its previously stored sessions rather than being
// cleared.
func (s *Service) SyncOnce(ctx context.Context) {
	log.Println("Executing schedule sync cycle...")

	ix := s.catalog.Load()
	names := ix.Names()
	if len(names) == 0 {
		// Index may predate seeding; fall back to the store.
		loaded, err := s.store.LoadIndex(ctx)
		if err != nil {
			log.Printf("Error loading catalog for sync: %v", err)
			return
		}
		names = loaded.Names()
	}

	synced := 0
	for _, building := range names {
		sessions, err := s.fetchBuilding(ctx, building)
		if err != nil {
			log.Printf("Error fetching schedule for %q: %v", building, err)
			continue
		}
		if err := s.store.ReplaceSessions(ctx, building, sessions); err != nil {
			log.Printf("Error storing schedule for %q: %v", building, err)
			continue
		}
		synced++
	}

	if synced == 0 {
		log.Println("Sync cycle aborted: no building synced. Keeping current index.")
		return
	}

	rebuilt, err := s.store.LoadIndex(ctx)
	if err != nil {
		log.Printf("Error rebuilding schedule index: %v", err)
		return
	}
	s.catalog.Swap(rebuilt)
	log.Printf("Sync cycle finished: %d/%d buildings synced.", synced, len(names))
}

// fetchBuilding pages through the classes API for one building and flattens
// the courses into session records. Meetings held in other facilities or
// with no usable time window are skipped.
func (s *Service) fetchBuilding(ctx context.Context, building string) ([]store.SessionRecord, error) {
	var records []store.SessionRecord

	for page := 1; page <= s.cfg.Fetcher.MaxPages; page++ {
		resp, err := s.fetchPage(ctx, building, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		for _, course := range resp.Data.Courses {
			for _, sec := range course.Sections {
				for _, m := range sec.Meetings {
					rec, ok := meetingRecord(building, sec, m)
					if !ok {
						continue
					}
					records = append(records, rec)
				}
			}
		}

		if resp.Data.NextPageLink == "" {
			break
		}
	}
	return records, nil
}

// meetingRecord converts one upstream meeting into a session record.
func meetingRecord(building string, sec apiSection, m apiMeeting) (store.SessionRecord, bool) {
	if m.Room == "" || m.StartTime == "" || m.EndTime == "" {
		return store.SessionRecord{}, false
	}
	if !strings.Contains(strings.ToLower(m.FacilityDescription), strings.ToLower(building)) {
		return store.SessionRecord{}, false
	}

	start, err := schedule.ParseClock12(m.StartTime)
	if err != nil {
		log.Printf("Warning: skipping meeting in %q: %v", building, err)
		return store.SessionRecord{}, false
	}
	end, err := schedule.ParseClock12(m.EndTime)
	if err != nil {
		log.Printf("Warning: skipping meeting in %q: %v", building, err)
		return store.SessionRecord{}, false
	}
	if start >= end {
		return store.SessionRecord{}, false
	}

	instructors := make([]string, 0, len(m.Instructors))
	for _, i := range m.Instructors {
		if i.DisplayName != "" {
			instructors = append(instructors, i.DisplayName)
		}
	}

	return store.SessionRecord{
		Room:          m.Room,
		Subject:       sec.Subject,
		CatalogNumber: sec.CatalogNumber,
		Section:       sec.Section,
		CourseTitle:   sec.CourseTitle,
		Instructors:   instructors,
		Capacity:      m.FacilityCapacity,
		Days: schedule.DaySet{
			m.Monday, m.Tuesday, m.Wednesday, m.Thursday,
			m.Friday, m.Saturday, m.Sunday,
		},
		StartMinute: start,
		EndMinute:   end,
		StartDate:   parseDate(m.StartDate),
		EndDate:     parseDate(m.EndDate),
	}, true
}

// parseDate handles the upstream date formats; a zero time means unbounded.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", "01/02/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	log.Printf("Warning: could not parse date %q", s)
	return time.Time{}
}

// fetchPage fetches a single page of class data for one building.
func (s *Service) fetchPage(ctx context.Context, building string, page int) (*apiResponse, error) {
	u, err := url.Parse(s.cfg.Fetcher.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid fetcher url: %w", err)
	}
	q := u.Query()
	q.Set("q", building)
	q.Set("term", s.cfg.Fetcher.Term)
	q.Set("p", fmt.Sprintf("%d", page))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range s.cfg.Fetcher.Headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal api response: %w", err)
	}
	return &apiResp, nil
}
