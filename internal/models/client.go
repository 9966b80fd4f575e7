package models

import "time"

// Client is a customer of the landscaping business. A client owns its
// jobs and invoices (one-to-many, FK on the owned side).
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"not null;index" json:"firstName"`
	LastName  string    `gorm:"not null;index" json:"lastName"`
	Email     string    `gorm:"index" json:"email,omitempty"`
	Phone     string    `gorm:"not null" json:"phone"`
	Address   string    `gorm:"not null" json:"address"`
	City      string    `gorm:"not null" json:"city"`
	State     string    `gorm:"not null" json:"state"`
	ZipCode   string    `gorm:"not null" json:"zipCode"`
	Notes     string    `json:"notes,omitempty"`
	Jobs      []Job     `gorm:"foreignKey:ClientID" json:"-"`
	Invoices  []Invoice `gorm:"foreignKey:ClientID" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DisplayName is the "First Last" form used on the dashboard and route list.
func (c *Client) DisplayName() string {
	return c.FirstName + " " + c.LastName
}
