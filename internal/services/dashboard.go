package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/mossbrook/landscaping/internal/models"
)

// DashboardService computes the point-in-time snapshot behind the
// dashboard landing page.
type DashboardService struct {
	DB *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService { return &DashboardService{DB: db} }

type DashboardStats struct {
	ActiveJobs        int64   `json:"activeJobs"`
	TotalClients      int64   `json:"totalClients"`
	PendingInvoices   int     `json:"pendingInvoices"`
	OutstandingAmount float64 `json:"outstandingAmount"`
	RevenueThisMonth  float64 `json:"revenueThisMonth"`
}

type ScheduleEntry struct {
	ID      uint   `json:"id"`
	Client  string `json:"client"`
	Service string `json:"service"`
	Time    string `json:"time"`
	Address string `json:"address"`
	Status  string `json:"status"`
}

type ActivityEntry struct {
	ID     string  `json:"id"`
	Action string  `json:"action"`
	Client string  `json:"client"`
	Amount *string `json:"amount"`
	Time   string  `json:"time"`

	at time.Time
}

type Snapshot struct {
	Stats          DashboardStats  `json:"stats"`
	TodaySchedule  []ScheduleEntry `json:"todaySchedule"`
	RecentActivity []ActivityEntry `json:"recentActivity"`
}

// Snapshot runs the independent dashboard reads concurrently and composes
// the result. The reads touch disjoint data, so concurrent issuance is
// safe; any single failure aborts the whole snapshot.
func (s *DashboardService) Snapshot(ctx context.Context, now time.Time) (*Snapshot, error) {
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	var (
		activeJobs    int64
		totalClients  int64
		pending       []models.Invoice
		paidThisMonth []models.Invoice
		todaysJobs    []models.Job
		recentLeads   []models.Lead
		recentPaid    []models.Invoice
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.DB.WithContext(gctx).Model(&models.Job{}).
			Where("status IN ?", []string{models.JobPending, models.JobScheduled, models.JobInProgress}).
			Count(&activeJobs).Error
	})
	g.Go(func() error {
		return s.DB.WithContext(gctx).Model(&models.Client{}).Count(&totalClients).Error
	})
	g.Go(func() error {
		return s.DB.WithContext(gctx).
			Select("total", "amount_paid").
			Where("status IN ?", []string{models.InvoiceSent, models.InvoiceOverdue}).
			Find(&pending).Error
	})
	g.Go(func() error {
		return s.DB.WithContext(gctx).
			Select("total").
			Where("status = ? AND paid_date >= ?", models.InvoicePaid, startOfMonth).
			Find(&paidThisMonth).Error
	})
	g.Go(func() error {
		// Timed jobs win the limit slots; sqlite and postgres both sort
		// empty strings first, so push them last explicitly.
		return s.DB.WithContext(gctx).Preload("Client").
			Where("scheduled_date >= ? AND scheduled_date < ?", startOfDay, endOfDay).
			Order("scheduled_time = '' asc").
			Order("scheduled_time asc").
			Limit(5).
			Find(&todaysJobs).Error
	})
	g.Go(func() error {
		return s.DB.WithContext(gctx).
			Where("created_at >= ?", weekAgo).
			Order("created_at desc").
			Limit(3).
			Find(&recentLeads).Error
	})
	g.Go(func() error {
		return s.DB.WithContext(gctx).Preload("Client").
			Where("status = ?", models.InvoicePaid).
			Order("paid_date desc").
			Limit(3).
			Find(&recentPaid).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Stats: DashboardStats{
			ActiveJobs:      activeJobs,
			TotalClients:    totalClients,
			PendingInvoices: len(pending),
		},
		TodaySchedule:  []ScheduleEntry{},
		RecentActivity: []ActivityEntry{},
	}
	for _, inv := range pending {
		snap.Stats.OutstandingAmount += inv.Total - inv.AmountPaid
	}
	for _, inv := range paidThisMonth {
		snap.Stats.RevenueThisMonth += inv.Total
	}

	SortJobsByTime(todaysJobs)
	for _, job := range todaysJobs {
		entry := ScheduleEntry{
			ID:      job.ID,
			Client:  job.Client.DisplayName(),
			Service: models.ServiceLabel(job.ServiceType),
			Time:    job.ScheduledTime,
			Address: job.JobAddress,
			Status:  job.Status,
		}
		if entry.Time == "" {
			entry.Time = "TBD"
		}
		snap.TodaySchedule = append(snap.TodaySchedule, entry)
	}

	for _, inv := range recentPaid {
		at := inv.UpdatedAt
		if inv.PaidDate != nil {
			at = *inv.PaidDate
		}
		amount := fmt.Sprintf("$%.2f", inv.Total)
		snap.RecentActivity = append(snap.RecentActivity, ActivityEntry{
			ID:     fmt.Sprintf("inv-%d", inv.ID),
			Action: "Invoice paid",
			Client: inv.Client.DisplayName(),
			Amount: &amount,
			Time:   FormatTimeAgo(at, now),
			at:     at,
		})
	}
	for _, lead := range recentLeads {
		snap.RecentActivity = append(snap.RecentActivity, ActivityEntry{
			ID:     fmt.Sprintf("lead-%d", lead.ID),
			Action: "New lead received",
			Client: lead.Name,
			Time:   FormatTimeAgo(lead.CreatedAt, now),
			at:     lead.CreatedAt,
		})
	}
	// Most recent first, then truncate to 5.
	sort.SliceStable(snap.RecentActivity, func(i, j int) bool {
		return snap.RecentActivity[i].at.After(snap.RecentActivity[j].at)
	})
	if len(snap.RecentActivity) > 5 {
		snap.RecentActivity = snap.RecentActivity[:5]
	}
	return snap, nil
}

// FormatTimeAgo renders a coarse human "x ago" label.
func FormatTimeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(diff.Hours()))
	case diff < 48*time.Hour:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	}
}
