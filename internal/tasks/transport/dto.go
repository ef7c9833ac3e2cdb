// Package transport defines request and response DTOs for the tasks API.
package transport

import (
	"time"

	"outreach_backend/internal/tasks/domain"

	"github.com/google/uuid"
)

// StepRequest is one follow-up step to schedule.
type StepRequest struct {
	Kind        string         `json:"kind"`
	Label       string         `json:"label" validate:"max=200"`
	TriggerDate time.Time      `json:"triggerDate" validate:"required"`
	MessageText string         `json:"messageText"`
	PartnerID   *uuid.UUID     `json:"partnerId"`
	Context     domain.Context `json:"context"`
}

// CreateTasksRequest schedules follow-up steps for a company.
type CreateTasksRequest struct {
	CompanyID         uuid.UUID     `json:"companyId" validate:"required"`
	FallbackPartnerID *uuid.UUID    `json:"fallbackPartnerId"`
	Steps             []StepRequest `json:"steps" validate:"required,min=1,dive"`
}

// DeleteTaskRequest identifies the task to remove.
type DeleteTaskRequest struct {
	TaskID uuid.UUID `json:"taskId" validate:"required"`
}

// TaskResponse is a stored follow-up task.
type TaskResponse struct {
	ID          uuid.UUID       `json:"id"`
	CompanyID   *uuid.UUID      `json:"companyId,omitempty"`
	PartnerID   *uuid.UUID      `json:"partnerId,omitempty"`
	Kind        string          `json:"kind,omitempty"`
	Label       string          `json:"label"`
	TriggerDate time.Time       `json:"triggerDate"`
	CreatedAt   time.Time       `json:"createdAt"`
	MessageText string          `json:"messageText,omitempty"`
	Company     *domain.Company `json:"company,omitempty"`
	Partner     *domain.Partner `json:"partner,omitempty"`
}

// DeleteTaskResponse reports the outcome of a delete.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// FromTask maps a domain task to its response shape.
func FromTask(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		CompanyID:   task.CompanyID,
		PartnerID:   task.PartnerID,
		Kind:        string(task.Kind),
		Label:       task.Label,
		TriggerDate: task.TriggerDate,
		CreatedAt:   task.CreatedAt,
		MessageText: task.MessageText,
		Company:     task.Company,
		Partner:     task.Partner,
	}
}

// FromTasks maps a slice of domain tasks.
func FromTasks(tasks []domain.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, FromTask(task))
	}
	return responses
}
