package models

import "time"

// Job statuses. pending -> scheduled -> in_progress -> completed, with
// cancelled reachable from any non-terminal state. Transitions happen only
// through explicit dashboard action; nothing advances on a timer.
const (
	JobPending    = "pending"
	JobScheduled  = "scheduled"
	JobInProgress = "in_progress"
	JobCompleted  = "completed"
	JobCancelled  = "cancelled"
)

// Service types offered by the business.
const (
	ServiceDemo           = "demo"
	ServicePlantInstall   = "plant_installation"
	ServiceMulch          = "mulch"
	ServiceGeneralInstall = "general_install"
)

// Job priorities.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type Job struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Title          string     `gorm:"not null" json:"title"`
	Description    string     `json:"description,omitempty"`
	ServiceType    string     `gorm:"not null;index" json:"serviceType"`
	Priority       string     `gorm:"not null;default:'normal'" json:"priority"`
	Status         string     `gorm:"not null;index" json:"status"`
	ClientID       uint       `gorm:"not null;index" json:"clientId"`
	Client         Client     `gorm:"foreignKey:ClientID" json:"client"`
	AssignedToID   *uint      `gorm:"index" json:"assignedToId,omitempty"`
	AssignedTo     *User      `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
	CreatedByID    uint       `json:"createdById"`
	ScheduledDate  *time.Time `gorm:"index" json:"scheduledDate,omitempty"`
	ScheduledTime  string     `json:"scheduledTime,omitempty"` // "HH:MM", empty when not set
	EstimatedHours *float64   `json:"estimatedHours,omitempty"`
	EstimatedCost  *float64   `json:"estimatedCost,omitempty"`
	JobAddress     string     `gorm:"not null" json:"jobAddress"`
	JobCity        string     `gorm:"not null" json:"jobCity"`
	JobState       string     `gorm:"not null" json:"jobState"`
	JobZipCode     string     `gorm:"not null" json:"jobZipCode"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// ValidServiceType reports whether s is a known service type.
func ValidServiceType(s string) bool {
	switch s {
	case ServiceDemo, ServicePlantInstall, ServiceMulch, ServiceGeneralInstall:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ServiceLabel is the human label shown on the dashboard for a service type.
func ServiceLabel(serviceType string) string {
	switch serviceType {
	case ServiceDemo:
		return "Demo & Removal"
	case ServicePlantInstall:
		return "Plant Installation"
	case ServiceMulch:
		return "Mulch & Pine Straw"
	case ServiceGeneralInstall:
		return "Basic Installation"
	}
	return serviceType
}

var jobTransitions = map[string][]string{
	JobPending:    {JobScheduled, JobCancelled},
	JobScheduled:  {JobInProgress, JobCancelled},
	JobInProgress: {JobCompleted, JobCancelled},
}

// CanTransitionJob reports whether a job may move from one status to another.
// completed and cancelled are terminal.
func CanTransitionJob(from, to string) bool {
	for _, next := range jobTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// InitialJobStatus applies the creation rule: a scheduled date at creation
// time means the job starts out scheduled, otherwise pending.
func InitialJobStatus(scheduledDate *time.Time) string {
	if scheduledDate != nil {
		return JobScheduled
	}
	return JobPending
}
