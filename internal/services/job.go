package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mossbrook/landscaping/internal/models"
	"github.com/mossbrook/landscaping/internal/validation"
)

// JobService owns job lifecycle transitions. Creation stays in the
// handler; transitions run here so the state machine has one gatekeeper.
type JobService struct {
	DB *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService { return &JobService{DB: db} }

// UpdateStatus applies an explicit dashboard transition. Scheduling dates
// never move status on their own; this is the only way a job advances.
func (s *JobService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Job, error) {
	var job models.Job
	if err := s.DB.WithContext(ctx).Preload("Client").First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !models.CanTransitionJob(job.Status, status) {
		return nil, Invalid(validation.Violations{"status": "invalid_transition"})
	}
	if err := s.DB.WithContext(ctx).Model(&job).Update("status", status).Error; err != nil {
		return nil, err
	}
	return &job, nil
}
