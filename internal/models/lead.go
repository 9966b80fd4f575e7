package models

import "time"

// Lead statuses. new -> contacted -> {converted | closed}, and a lead can
// be closed straight from contacted. converted and closed are terminal.
const (
	LeadNew       = "new"
	LeadContacted = "contacted"
	LeadConverted = "converted"
	LeadClosed    = "closed"
)

// Lead is an unconverted contact-form submission from the public site.
// It has no owning client until it is explicitly converted into one.
type Lead struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Service   string    `json:"service,omitempty"`
	Message   string    `json:"message,omitempty"`
	Status    string    `gorm:"not null;index;default:'new'" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var leadTransitions = map[string][]string{
	LeadNew:       {LeadContacted, LeadConverted, LeadClosed},
	LeadContacted: {LeadConverted, LeadClosed},
}

// CanTransitionLead reports whether a lead may move between statuses.
func CanTransitionLead(from, to string) bool {
	for _, next := range leadTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
