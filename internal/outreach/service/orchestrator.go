package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"outreach_backend/internal/email"
	"outreach_backend/internal/tasks/domain"
	"outreach_backend/platform/apperr"

	"golang.org/x/sync/errgroup"
)

// SweepInput is everything one reconciliation run needs: who is sweeping and
// the provider credentials captured on their side.
type SweepInput struct {
	UserEmail      string
	UserName       string
	UserLinkedIn   string
	GraphToken     string
	RelayAccountID string
	ForceDeepCheck bool
}

// Summary reports what a sweep did.
type Summary struct {
	Processed      int  `json:"processed"`
	Skipped        int  `json:"skipped"`
	Responded      int  `json:"responded"`
	ConcurrentSkip bool `json:"concurrent_skip,omitempty"`
}

// Sweep reconciles and dispatches the user's follow-up tasks. Every fetched
// task is checked for a reply; only overdue tasks whose contact stayed silent
// are executed. A sweep already running for the same mailbox returns an empty
// summary flagged as a concurrent skip.
func (s *Service) Sweep(ctx context.Context, input SweepInput) (Summary, error) {
	mailbox := email.NormalizeAddress(input.UserEmail)
	if mailbox == "" {
		return Summary{}, apperr.Validation("user email is required")
	}

	if !s.sweeps.acquire(mailbox) {
		s.log.Info("sweep already running", "user", mailbox)
		return Summary{ConcurrentSkip: true}, nil
	}
	defer s.sweeps.release(mailbox)

	userID, err := s.dir.EnsureUser(ctx, mailbox, input.UserName, input.UserLinkedIn)
	if err != nil {
		return Summary{}, err
	}

	if accountID := strings.TrimSpace(input.RelayAccountID); accountID != "" {
		if err := s.dir.SetUserRelayAccount(ctx, userID, accountID); err != nil {
			s.log.Warn("record relay account failed", "user_id", userID, "error", err)
		}
	}

	now := time.Now().UTC()

	var overdue, upcoming []domain.Task
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var fetchErr error
		overdue, fetchErr = s.store.FetchOverdue(groupCtx, userID, now)
		return fetchErr
	})
	group.Go(func() error {
		var fetchErr error
		upcoming, fetchErr = s.store.FetchUpcoming(groupCtx, userID, now)
		return fetchErr
	})
	if err := group.Wait(); err != nil {
		return Summary{}, err
	}

	env := &sweepEnv{
		token:   strings.TrimSpace(input.GraphToken),
		mailbox: mailbox,
	}
	if env.token != "" {
		resolved, err := s.mail.Me(ctx, env.token)
		if err != nil {
			s.log.Warn("mailbox profile lookup failed", "user", mailbox, "error", err)
		} else {
			env.mailbox = resolved
		}
	}

	all := make([]domain.Task, 0, len(overdue)+len(upcoming))
	all = append(all, overdue...)
	all = append(all, upcoming...)
	env.linkedIn = s.newLinkedInBatch(ctx, input.RelayAccountID, all)

	var summary Summary
	var mu sync.Mutex
	answered := make(map[string]bool, len(all))

	var probes errgroup.Group
	probes.SetLimit(replyProbeConcurrency)
	for _, task := range all {
		probes.Go(func() error {
			if !s.detectReply(ctx, env, task, s.replySince(task)) {
				return nil
			}
			s.completeTask(ctx, task, OutcomeResponded)
			mu.Lock()
			answered[task.ID.String()] = true
			summary.Responded++
			mu.Unlock()
			return nil
		})
	}
	_ = probes.Wait()

	for _, task := range overdue {
		if answered[task.ID.String()] {
			continue
		}

		kind, ok := task.ResolvedKind()
		if !ok {
			s.log.Warn("task kind unresolved", "task_id", task.ID, "label", task.Label)
			summary.Skipped++
			continue
		}

		outcome := s.dispatch(ctx, env, task, kind)
		if !outcome.Completed() {
			s.log.Info("task skipped", "task_id", task.ID, "kind", kind, "outcome", outcome)
			summary.Skipped++
			continue
		}

		s.completeTask(ctx, task, outcome)
		if outcome == OutcomeResponded {
			summary.Responded++
		} else {
			summary.Processed++
		}
	}

	s.log.Info("sweep finished",
		"user", mailbox,
		"deep_check", input.ForceDeepCheck,
		"processed", summary.Processed,
		"responded", summary.Responded,
		"skipped", summary.Skipped,
	)
	return summary, nil
}

// completeTask removes a finished task. A row another sweep already deleted
// is fine; a database failure is only logged because the follow-up itself
// already happened.
func (s *Service) completeTask(ctx context.Context, task domain.Task, outcome Outcome) {
	deleted, err := s.store.Delete(ctx, task.ID)
	if err != nil {
		s.log.Error("delete completed task failed", "task_id", task.ID, "outcome", outcome, "error", err)
		return
	}
	if deleted {
		s.log.Info("task completed", "task_id", task.ID, "kind", task.Kind, "outcome", outcome)
	}
}
