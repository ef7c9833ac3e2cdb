package service

import (
	"context"
	"testing"
	"time"

	"outreach_backend/internal/tasks/domain"
	"outreach_backend/internal/tasks/transport"
	"outreach_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeStore struct {
	inserted []domain.Task
	deleted  []uuid.UUID
	existing bool
}

func (f *fakeStore) Insert(_ context.Context, tasks []domain.Task) ([]domain.Task, error) {
	f.inserted = append(f.inserted, tasks...)
	stored := make([]domain.Task, len(tasks))
	copy(stored, tasks)
	for i := range stored {
		stored[i].ID = uuid.New()
		stored[i].CreatedAt = time.Now()
	}
	return stored, nil
}

func (f *fakeStore) FetchForCompany(_ context.Context, _ uuid.UUID) ([]domain.Task, error) {
	return nil, nil
}

func (f *fakeStore) Delete(_ context.Context, taskID uuid.UUID) (bool, error) {
	f.deleted = append(f.deleted, taskID)
	return f.existing, nil
}

func TestCreateValidatesKind(t *testing.T) {
	store := &fakeStore{}
	svc := New(store)

	_, err := svc.Create(context.Background(), uuid.New(), transport.CreateTasksRequest{
		CompanyID: uuid.New(),
		Steps: []transport.StepRequest{
			{Kind: "carrier_pigeon", TriggerDate: time.Now()},
		},
	})
	if err == nil {
		t.Fatal("expected validation error for unknown kind")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatalf("nothing should be inserted, got %d", len(store.inserted))
	}
}

func TestCreateClassifiesLegacyLabels(t *testing.T) {
	store := &fakeStore{}
	svc := New(store)

	responses, err := svc.Create(context.Background(), uuid.New(), transport.CreateTasksRequest{
		CompanyID: uuid.New(),
		Steps: []transport.StepRequest{
			{Label: "Send LinkedIn nudge", TriggerDate: time.Now()},
			{Label: "Email follow-up in 3 days", TriggerDate: time.Now()},
			{Label: "Forward to partner team", TriggerDate: time.Now()},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(responses) != 3 {
		t.Fatalf("responses = %d, want 3", len(responses))
	}

	wantKinds := []domain.Kind{domain.KindLinkedInMessage, domain.KindEmailFollowUp, domain.KindPartnerForward}
	for i, want := range wantKinds {
		if store.inserted[i].Kind != want {
			t.Fatalf("step %d kind = %q, want %q", i, store.inserted[i].Kind, want)
		}
	}
}

func TestCreateRejectsUnclassifiableLabel(t *testing.T) {
	svc := New(&fakeStore{})

	_, err := svc.Create(context.Background(), uuid.New(), transport.CreateTasksRequest{
		CompanyID: uuid.New(),
		Steps: []transport.StepRequest{
			{Label: "Call them maybe", TriggerDate: time.Now()},
		},
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateAppliesFallbackPartner(t *testing.T) {
	store := &fakeStore{}
	svc := New(store)
	fallback := uuid.New()

	_, err := svc.Create(context.Background(), uuid.New(), transport.CreateTasksRequest{
		CompanyID:         uuid.New(),
		FallbackPartnerID: &fallback,
		Steps: []transport.StepRequest{
			{Kind: "partner_forward", TriggerDate: time.Now()},
			{Kind: "email_followup", TriggerDate: time.Now()},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if store.inserted[0].PartnerID == nil || *store.inserted[0].PartnerID != fallback {
		t.Fatal("partner forward should inherit the fallback partner")
	}
	if store.inserted[1].PartnerID != nil {
		t.Fatal("email follow-up should not inherit the fallback partner")
	}
}

func TestDeleteReportsMissingRow(t *testing.T) {
	store := &fakeStore{existing: false}
	svc := New(store)

	resp, err := svc.Delete(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if resp.Deleted {
		t.Fatal("expected deleted=false for missing row")
	}
}
