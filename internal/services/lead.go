package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mossbrook/landscaping/internal/models"
	"github.com/mossbrook/landscaping/internal/validation"
)

// LeadService manages inbound contact submissions and their conversion
// into clients.
type LeadService struct {
	DB *gorm.DB
}

func NewLeadService(db *gorm.DB) *LeadService { return &LeadService{DB: db} }

// UpdateStatus advances a lead through its lifecycle. Unknown ids are
// 404s, not generic failures; invalid transitions are validation errors.
func (s *LeadService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Lead, error) {
	var lead models.Lead
	if err := s.DB.WithContext(ctx).First(&lead, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !models.CanTransitionLead(lead.Status, status) {
		return nil, Invalid(validation.Violations{"status": "invalid_transition"})
	}
	if err := s.DB.WithContext(ctx).Model(&lead).Update("status", status).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// Delete hard-deletes a lead. Leads are the only entity with a hard
// delete path.
func (s *LeadService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Lead{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ConvertInput lets the dashboard fill in the address fields the contact
// form never asked for.
type ConvertInput struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// Convert copies the lead's data into a new client and advances the lead
// to converted, as a single transaction: if either write fails the other
// is rolled back, so a client never exists for a still-new lead.
func (s *LeadService) Convert(ctx context.Context, id uint, in ConvertInput) (*models.Client, error) {
	var client *models.Client
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lead models.Lead
		if err := tx.First(&lead, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !models.CanTransitionLead(lead.Status, models.LeadConverted) {
			return Invalid(validation.Violations{"status": "already_terminal"})
		}
		first, last := SplitName(lead.Name)
		c := models.Client{
			FirstName: first,
			LastName:  last,
			Email:     lead.Email,
			Phone:     lead.Phone,
			Address:   in.Address,
			City:      in.City,
			State:     in.State,
			ZipCode:   in.ZipCode,
			Notes:     lead.Message,
		}
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		if err := tx.Model(&lead).Update("status", models.LeadConverted).Error; err != nil {
			return err
		}
		client = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// SplitName breaks a free-form contact name into first/last on the final
// space. Single-word names become the first name.
func SplitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return name, ""
	}
	return name[:idx], strings.TrimSpace(name[idx+1:])
}
