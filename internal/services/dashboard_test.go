package services

import (
	"context"
	"testing"
	"time"

	"github.com/mossbrook/landscaping/internal/models"
)

func TestSnapshotEmptyDatabase(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(db)

	snap, err := svc.Snapshot(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Stats.ActiveJobs != 0 || snap.Stats.TotalClients != 0 || snap.Stats.PendingInvoices != 0 {
		t.Errorf("stats = %+v, want zeros", snap.Stats)
	}
	if snap.Stats.OutstandingAmount != 0 || snap.Stats.RevenueThisMonth != 0 {
		t.Errorf("amounts = %+v, want zeros", snap.Stats)
	}
	// Sections marshal as empty arrays, never null.
	if snap.TodaySchedule == nil || snap.RecentActivity == nil {
		t.Errorf("sections must be non-nil: %+v", snap)
	}
}

func TestSnapshotStatsAndSchedule(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(db)
	client := seedClient(t, db)
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	seedJob := func(status, scheduledTime string, date *time.Time) {
		t.Helper()
		job := models.Job{
			Title: "Bed refresh", ServiceType: models.ServiceMulch, Priority: models.PriorityNormal,
			Status: status, ClientID: client.ID,
			ScheduledDate: date, ScheduledTime: scheduledTime,
			JobAddress: "12 Birch Ln", JobCity: "Asheville", JobState: "NC", JobZipCode: "28801",
		}
		if err := db.Create(&job).Error; err != nil {
			t.Fatalf("seed job: %v", err)
		}
	}
	seedJob(models.JobScheduled, "14:00", &today)
	seedJob(models.JobScheduled, "", &today)
	seedJob(models.JobInProgress, "08:30", &today)
	seedJob(models.JobCompleted, "09:00", &today) // inactive, still today
	yesterday := today.AddDate(0, 0, -1)
	seedJob(models.JobPending, "10:00", &yesterday)

	paidAt := now
	invoices := []models.Invoice{
		{InvoiceNumber: "INV-1001", NumberSeq: 1001, Status: models.InvoiceSent, ClientID: client.ID, Total: 100, DueDate: now},
		{InvoiceNumber: "INV-1002", NumberSeq: 1002, Status: models.InvoiceOverdue, ClientID: client.ID, Total: 80, AmountPaid: 30, DueDate: now},
		{InvoiceNumber: "INV-1003", NumberSeq: 1003, Status: models.InvoicePaid, ClientID: client.ID, Total: 250, AmountPaid: 250, PaidDate: &paidAt, DueDate: now},
		{InvoiceNumber: "INV-1004", NumberSeq: 1004, Status: models.InvoiceDraft, ClientID: client.ID, Total: 40, DueDate: now},
	}
	for i := range invoices {
		if err := db.Create(&invoices[i]).Error; err != nil {
			t.Fatalf("seed invoice: %v", err)
		}
	}

	snap, err := svc.Snapshot(context.Background(), now)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	// pending + scheduled + in_progress; completed and cancelled excluded.
	if snap.Stats.ActiveJobs != 4 {
		t.Errorf("activeJobs = %d, want 4", snap.Stats.ActiveJobs)
	}
	if snap.Stats.TotalClients != 1 {
		t.Errorf("totalClients = %d, want 1", snap.Stats.TotalClients)
	}
	if snap.Stats.PendingInvoices != 2 {
		t.Errorf("pendingInvoices = %d, want 2 (sent + overdue)", snap.Stats.PendingInvoices)
	}
	if snap.Stats.OutstandingAmount != 150 { // 100 + (80 - 30)
		t.Errorf("outstandingAmount = %v, want 150", snap.Stats.OutstandingAmount)
	}
	if snap.Stats.RevenueThisMonth != 250 {
		t.Errorf("revenueThisMonth = %v, want 250", snap.Stats.RevenueThisMonth)
	}

	if len(snap.TodaySchedule) != 4 {
		t.Fatalf("todaySchedule has %d entries, want 4", len(snap.TodaySchedule))
	}
	gotTimes := make([]string, 0, len(snap.TodaySchedule))
	for _, e := range snap.TodaySchedule {
		gotTimes = append(gotTimes, e.Time)
	}
	want := []string{"08:30", "09:00", "14:00", "TBD"}
	for i := range want {
		if gotTimes[i] != want[i] {
			t.Fatalf("schedule times = %v, want %v", gotTimes, want)
		}
	}
	if snap.TodaySchedule[0].Client != client.DisplayName() {
		t.Errorf("client label = %q", snap.TodaySchedule[0].Client)
	}
	if snap.TodaySchedule[0].Service != "Mulch & Pine Straw" {
		t.Errorf("service label = %q", snap.TodaySchedule[0].Service)
	}
}

func TestSnapshotScheduleKeepsTimedJobsUnderLimit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(db)
	client := seedClient(t, db)
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// Six jobs today: five timed plus one untimed. The untimed job must
	// not claim one of the five schedule slots from a timed job.
	for _, scheduledTime := range []string{"", "12:00", "08:00", "10:00", "09:00", "11:00"} {
		job := models.Job{
			Title: "Bed refresh", ServiceType: models.ServiceMulch, Priority: models.PriorityNormal,
			Status: models.JobScheduled, ClientID: client.ID,
			ScheduledDate: &today, ScheduledTime: scheduledTime,
			JobAddress: "12 Birch Ln", JobCity: "Asheville", JobState: "NC", JobZipCode: "28801",
		}
		if err := db.Create(&job).Error; err != nil {
			t.Fatalf("seed job: %v", err)
		}
	}

	snap, err := svc.Snapshot(context.Background(), now)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.TodaySchedule) != 5 {
		t.Fatalf("todaySchedule has %d entries, want 5", len(snap.TodaySchedule))
	}
	want := []string{"08:00", "09:00", "10:00", "11:00", "12:00"}
	for i, entry := range snap.TodaySchedule {
		if entry.Time != want[i] {
			t.Fatalf("schedule[%d] = %q, want %q", i, entry.Time, want[i])
		}
	}
}

func TestSnapshotActivityOrdering(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(db)
	client := seedClient(t, db)
	now := time.Now()

	// Lead from 3 hours ago, paid invoice from 1 hour ago: the invoice
	// must come first even though the two feeds are fetched separately.
	lead := models.Lead{Name: "Sam Ortega", Email: "sam@example.com", Status: models.LeadNew}
	if err := db.Create(&lead).Error; err != nil {
		t.Fatalf("seed lead: %v", err)
	}
	if err := db.Model(&lead).Update("created_at", now.Add(-3*time.Hour)).Error; err != nil {
		t.Fatalf("backdate lead: %v", err)
	}
	paidAt := now.Add(-1 * time.Hour)
	inv := models.Invoice{
		InvoiceNumber: "INV-1001", NumberSeq: 1001, Status: models.InvoicePaid,
		ClientID: client.ID, Total: 120, AmountPaid: 120, PaidDate: &paidAt, DueDate: now,
	}
	if err := db.Create(&inv).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}

	snap, err := svc.Snapshot(context.Background(), now)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.RecentActivity) != 2 {
		t.Fatalf("activity has %d entries, want 2", len(snap.RecentActivity))
	}
	if snap.RecentActivity[0].Action != "Invoice paid" {
		t.Errorf("activity[0] = %+v, want invoice first", snap.RecentActivity[0])
	}
	if snap.RecentActivity[0].Amount == nil || *snap.RecentActivity[0].Amount != "$120.00" {
		t.Errorf("amount = %v", snap.RecentActivity[0].Amount)
	}
	if snap.RecentActivity[1].Action != "New lead received" || snap.RecentActivity[1].Amount != nil {
		t.Errorf("activity[1] = %+v", snap.RecentActivity[1])
	}
}

func TestSnapshotAbortsOnFailure(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Migrator().DropTable(&models.Lead{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}
	svc := NewDashboardService(db)
	if _, err := svc.Snapshot(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error when a read fails")
	}
}

func TestFormatTimeAgo(t *testing.T) {
	now := time.Now()
	cases := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-10 * time.Minute), "10 minutes ago"},
		{now.Add(-3 * time.Hour), "3 hours ago"},
		{now.Add(-30 * time.Hour), "Yesterday"},
		{now.Add(-80 * time.Hour), "3 days ago"},
	}
	for _, c := range cases {
		if got := FormatTimeAgo(c.at, now); got != c.want {
			t.Errorf("FormatTimeAgo(%v) = %q, want %q", now.Sub(c.at), got, c.want)
		}
	}
}
