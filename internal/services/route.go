package services

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mossbrook/landscaping/internal/models"
)

// RouteService builds the daily route list: the day's jobs in scheduled
// time order plus one external navigation URL chaining the stops. No
// distance or travel-time optimization happens; the route is simply the
// order the jobs were scheduled in.
type RouteService struct {
	DB *gorm.DB
}

func NewRouteService(db *gorm.DB) *RouteService { return &RouteService{DB: db} }

type RouteStop struct {
	JobID   uint   `json:"jobId"`
	Title   string `json:"title"`
	Client  string `json:"client"`
	Phone   string `json:"phone,omitempty"`
	Time    string `json:"time"`
	Address string `json:"address"`
	Status  string `json:"status"`
	MapsURL string `json:"mapsUrl"`
}

type DayRoute struct {
	Date     string      `json:"date"`
	Stops    []RouteStop `json:"stops"`
	RouteURL string      `json:"routeUrl"`
}

// ForDate selects jobs scheduled on the calendar date (time-of-day
// ignored), ordered by scheduled time ascending with untimed jobs last.
func (s *RouteService) ForDate(ctx context.Context, date time.Time) (*DayRoute, error) {
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	var jobs []models.Job
	if err := s.DB.WithContext(ctx).Preload("Client").
		Where("scheduled_date >= ? AND scheduled_date < ?", startOfDay, endOfDay).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	SortJobsByTime(jobs)

	route := &DayRoute{Date: startOfDay.Format("2006-01-02"), Stops: []RouteStop{}}
	addresses := make([]string, 0, len(jobs))
	for _, job := range jobs {
		addr := stopAddress(job)
		timeLabel := job.ScheduledTime
		if timeLabel == "" {
			timeLabel = "TBD"
		}
		route.Stops = append(route.Stops, RouteStop{
			JobID:   job.ID,
			Title:   job.Title,
			Client:  job.Client.DisplayName(),
			Phone:   job.Client.Phone,
			Time:    timeLabel,
			Address: addr,
			Status:  job.Status,
			MapsURL: searchURL(addr),
		})
		addresses = append(addresses, addr)
	}
	route.RouteURL = DirectionsURL(addresses)
	return route, nil
}

// SortJobsByTime orders jobs by scheduled time ascending, with untimed
// jobs after all timed entries. The sort is stable so ties keep store
// order.
func SortJobsByTime(jobs []models.Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		a, b := jobs[i].ScheduledTime, jobs[j].ScheduledTime
		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		return a < b
	})
}

func stopAddress(job models.Job) string {
	return job.JobAddress + ", " + job.JobCity + ", " + job.JobState + " " + job.JobZipCode
}

func searchURL(address string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(address)
}

// DirectionsURL chains the stop addresses into one navigation URL: first
// stop is the origin, last the destination, everything between a
// waypoint. A single stop degrades to a place search.
func DirectionsURL(addresses []string) string {
	switch len(addresses) {
	case 0:
		return ""
	case 1:
		return searchURL(addresses[0])
	}
	origin := url.QueryEscape(addresses[0])
	destination := url.QueryEscape(addresses[len(addresses)-1])
	u := "https://www.google.com/maps/dir/?api=1&origin=" + origin + "&destination=" + destination
	if len(addresses) > 2 {
		middle := make([]string, 0, len(addresses)-2)
		for _, a := range addresses[1 : len(addresses)-1] {
			middle = append(middle, url.QueryEscape(a))
		}
		u += "&waypoints=" + strings.Join(middle, "|")
	}
	return u
}
