// Package domain defines the follow-up task model shared by the task store,
// the HTTP layer and the reconciliation core.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind classifies what a follow-up task does when it comes due.
type Kind string

const (
	KindEmailFollowUp   Kind = "email_followup"
	KindLinkedInMessage Kind = "linkedin_message"
	KindPartnerForward  Kind = "partner_forward"
)

// ParseKind validates a kind value at ingestion time. Unknown kinds are
// rejected so the dispatcher never sees a task it cannot route.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindEmailFollowUp:
		return KindEmailFollowUp, nil
	case KindLinkedInMessage:
		return KindLinkedInMessage, nil
	case KindPartnerForward:
		return KindPartnerForward, nil
	default:
		return "", fmt.Errorf("unknown task kind %q", value)
	}
}

// KindFromLabel derives a kind from a free-form task label. Tasks created by
// older extension versions carry only a human-readable label like
// "LinkedIn follow-up" or "Email nudge".
func KindFromLabel(label string) (Kind, bool) {
	lowered := strings.ToLower(label)
	switch {
	case strings.Contains(lowered, "linkedin"):
		return KindLinkedInMessage, true
	case strings.Contains(lowered, "email"):
		return KindEmailFollowUp, true
	case strings.Contains(lowered, "partner"):
		return KindPartnerForward, true
	default:
		return "", false
	}
}

// Company is the company a task targets.
type Company struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Website       string    `json:"website"`
	ContactPerson string    `json:"contact_person"`
	Email         string    `json:"email"`
	LinkedIn      string    `json:"linkedin"`
}

// Partner is the partner a task may forward to.
type Partner struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Task is a scheduled follow-up action.
type Task struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CompanyID   *uuid.UUID
	PartnerID   *uuid.UUID
	Kind        Kind
	Label       string
	TriggerDate time.Time
	CreatedAt   time.Time
	MessageText string
	Context     Context
	Company     *Company
	Partner     *Partner
}

// ResolvedKind returns the stored kind, falling back to the legacy label
// heuristic for tasks ingested before kinds were recorded.
func (t *Task) ResolvedKind() (Kind, bool) {
	if t.Kind != "" {
		return t.Kind, true
	}
	return KindFromLabel(t.Label)
}

// ContactEmail returns the contact address from the context, falling back to
// the company record.
func (t *Task) ContactEmail() string {
	if email := strings.TrimSpace(t.Context.ContactEmail); email != "" {
		return strings.ToLower(email)
	}
	if t.Company != nil {
		return strings.ToLower(strings.TrimSpace(t.Company.Email))
	}
	return ""
}

// ContactName returns the contact name from the context, falling back to the
// company's contact person.
func (t *Task) ContactName() string {
	if name := strings.TrimSpace(t.Context.ContactName); name != "" {
		return name
	}
	if t.Company != nil {
		return strings.TrimSpace(t.Company.ContactPerson)
	}
	return ""
}

// LinkedInCandidate returns the first LinkedIn reference available for the
// task's contact, preferring the context over the company record.
func (t *Task) LinkedInCandidate() string {
	candidates := []string{
		t.Context.ContactLinkedIn,
		t.Context.LinkedInProfile,
	}
	if t.Company != nil {
		candidates = append(candidates, t.Company.LinkedIn)
	}
	for _, candidate := range candidates {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// PartnerName returns the partner name from the joined record or context.
func (t *Task) PartnerName() string {
	if t.Partner != nil && t.Partner.Name != "" {
		return t.Partner.Name
	}
	return strings.TrimSpace(t.Context.PartnerName)
}

// PartnerEmail returns the partner address from the context or joined record.
func (t *Task) PartnerEmail() string {
	if email := strings.TrimSpace(t.Context.PartnerEmail); email != "" {
		return email
	}
	if t.Partner != nil {
		return strings.TrimSpace(t.Partner.Email)
	}
	return ""
}

// CompanyName returns the company name from the context or joined record.
func (t *Task) CompanyName() string {
	if name := strings.TrimSpace(t.Context.CompanyName); name != "" {
		return name
	}
	if t.Company != nil {
		return strings.TrimSpace(t.Company.Name)
	}
	return ""
}
