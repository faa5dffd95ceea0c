package dto

import "time"

// CreateProblemRequest reports a service problem at a location
type CreateProblemRequest struct {
	Location                string    `json:"location" validate:"required,min=1,max=255" example:"Kadıköy"`
	Description             string    `json:"description" validate:"required,min=1"`
	EstimatedCompletionTime time.Time `json:"estimated_completion_time" validate:"required"`
	Priority                string    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
}

// UpdateProblemRequest holds the mutable problem fields; nil means unchanged
type UpdateProblemRequest struct {
	Location                *string    `json:"location,omitempty" validate:"omitempty,min=1,max=255"`
	Description             *string    `json:"description,omitempty" validate:"omitempty,min=1"`
	EstimatedCompletionTime *time.Time `json:"estimated_completion_time,omitempty"`
	Status                  *string    `json:"status,omitempty" validate:"omitempty,oneof=open in_progress resolved"`
	Priority                *string    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
}

// ProblemDTO represents a problem in API responses
type ProblemDTO struct {
	ID                      uint      `json:"id"`
	Location                string    `json:"location"`
	Description             string    `json:"description"`
	EstimatedCompletionTime time.Time `json:"estimated_completion_time"`
	Status                  string    `json:"status"`
	Priority                string    `json:"priority"`
	CreatedAt               time.Time `json:"created_at"`
}
