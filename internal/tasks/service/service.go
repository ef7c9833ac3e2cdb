// Package service provides business logic for follow-up task ingestion.
package service

import (
	"context"
	"fmt"
	"strings"

	"outreach_backend/internal/tasks/domain"
	"outreach_backend/internal/tasks/transport"
	"outreach_backend/platform/apperr"

	"github.com/google/uuid"
)

// Store is the task persistence the service depends on.
type Store interface {
	Insert(ctx context.Context, tasks []domain.Task) ([]domain.Task, error)
	FetchForCompany(ctx context.Context, companyID uuid.UUID) ([]domain.Task, error)
	Delete(ctx context.Context, taskID uuid.UUID) (bool, error)
}

// Service provides task ingestion and lookup.
type Service struct {
	store Store
}

// New creates a new tasks service.
func New(store Store) *Service {
	return &Service{store: store}
}

// Create validates and persists the follow-up steps for a company. Every step
// must resolve to a known task kind; steps without an explicit kind fall back
// to classifying their label, and unclassifiable steps reject the batch.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req transport.CreateTasksRequest) ([]transport.TaskResponse, error) {
	tasks := make([]domain.Task, 0, len(req.Steps))
	for i, step := range req.Steps {
		kind, err := resolveKind(step)
		if err != nil {
			return nil, apperr.Validation(fmt.Sprintf("step %d: %s", i+1, err))
		}

		label := strings.TrimSpace(step.Label)
		if label == "" {
			label = defaultLabel(kind)
		}

		partnerID := step.PartnerID
		if partnerID == nil && kind == domain.KindPartnerForward {
			partnerID = req.FallbackPartnerID
		}

		tasks = append(tasks, domain.Task{
			UserID:      userID,
			CompanyID:   &req.CompanyID,
			PartnerID:   partnerID,
			Kind:        kind,
			Label:       label,
			TriggerDate: step.TriggerDate.UTC(),
			MessageText: step.MessageText,
			Context:     step.Context,
		})
	}

	inserted, err := s.store.Insert(ctx, tasks)
	if err != nil {
		return nil, err
	}
	return transport.FromTasks(inserted), nil
}

func resolveKind(step transport.StepRequest) (domain.Kind, error) {
	if strings.TrimSpace(step.Kind) != "" {
		return domain.ParseKind(step.Kind)
	}
	if kind, ok := domain.KindFromLabel(step.Label); ok {
		return kind, nil
	}
	return "", fmt.Errorf("kind is required and label %q is not classifiable", step.Label)
}

func defaultLabel(kind domain.Kind) string {
	switch kind {
	case domain.KindEmailFollowUp:
		return "Email follow-up"
	case domain.KindLinkedInMessage:
		return "LinkedIn follow-up"
	case domain.KindPartnerForward:
		return "Partner forward"
	default:
		return string(kind)
	}
}

// ListForCompany returns the scheduled tasks for a company.
func (s *Service) ListForCompany(ctx context.Context, companyID uuid.UUID) ([]transport.TaskResponse, error) {
	tasks, err := s.store.FetchForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return transport.FromTasks(tasks), nil
}

// Delete removes a task, reporting whether it still existed.
func (s *Service) Delete(ctx context.Context, taskID uuid.UUID) (transport.DeleteTaskResponse, error) {
	deleted, err := s.store.Delete(ctx, taskID)
	if err != nil {
		return transport.DeleteTaskResponse{}, err
	}
	return transport.DeleteTaskResponse{Deleted: deleted}, nil
}
