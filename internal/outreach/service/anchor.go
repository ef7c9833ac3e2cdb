package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"outreach_backend/internal/email"
	"outreach_backend/internal/msgraph"
	"outreach_backend/internal/tasks/domain"
)

const anchorSearchSelect = "id,conversationId,sentDateTime,subject,from,toRecipients,ccRecipients"

// resolveAnchor locates the outbound message a follow-up should reply to.
// Stored ids are tried first; when they are stale the conversation, the sent
// folder and finally a mailbox-wide search are consulted. A nil result means
// the thread could not be reconstructed.
func (s *Service) resolveAnchor(ctx context.Context, env *sweepEnv, task domain.Task) *msgraph.Message {
	taskCtx := task.Context

	if id := taskCtx.ResolvedAnchorID(); id != "" {
		if msg, err := s.mail.GetMessage(ctx, env.token, id); err == nil {
			return msg
		}
	}

	if id := taskCtx.ResolvedMessageID(); id != "" {
		if msg, err := s.mail.GetMessage(ctx, env.token, id); err == nil {
			return msg
		}
	}

	if convID := taskCtx.ResolvedConversationID(); convID != "" {
		if msgs, err := s.mail.ListConversation(ctx, env.token, convID); err == nil && len(msgs) > 0 {
			return &msgs[0]
		}
		if msgs, err := s.mail.ListSentByConversation(ctx, env.token, convID, env.mailbox); err == nil && len(msgs) > 0 {
			return &msgs[0]
		}
	}

	base := anchorSubjectBase(taskCtx)
	recipients := anchorRecipients(task)

	if msgs, err := s.mail.ListSentHeuristic(ctx, env.token, env.mailbox, base, recipients, s.anchorFloor(task)); err == nil && len(msgs) > 0 {
		return &msgs[0]
	} else if err != nil {
		s.log.Debug("sent folder heuristic failed", "task_id", task.ID, "error", err)
	}

	return s.searchAnchor(ctx, env, base, recipients)
}

// searchAnchor runs a mailbox-wide search per recipient and filters the hits
// down to messages that plausibly are the original outreach.
func (s *Service) searchAnchor(ctx context.Context, env *sweepEnv, base string, recipients []string) *msgraph.Message {
	if base == "" {
		return nil
	}

	wanted := make(map[string]struct{}, len(recipients))
	for _, addr := range recipients {
		wanted[email.NormalizeAddress(addr)] = struct{}{}
	}

	queries := make([]string, 0, len(recipients)+1)
	for _, addr := range recipients {
		queries = append(queries, fmt.Sprintf("from:%s subject:%q to:%s", env.mailbox, base, addr))
	}
	if len(queries) == 0 {
		queries = append(queries, fmt.Sprintf("from:%s subject:%q", env.mailbox, base))
	}

	for _, query := range queries {
		msgs, err := s.mail.SearchMessages(ctx, env.token, query, 25, anchorSearchSelect)
		if err != nil {
			s.log.Debug("anchor search failed", "query", query, "error", err)
			continue
		}
		for i := range msgs {
			if anchorCandidateMatches(&msgs[i], env.mailbox, base, wanted) {
				return &msgs[i]
			}
		}
	}
	return nil
}

func anchorCandidateMatches(msg *msgraph.Message, mailbox, base string, wanted map[string]struct{}) bool {
	if msg.FromAddress() != mailbox {
		return false
	}
	subject := strings.ToLower(email.NormalizeSubject(msg.Subject))
	if !strings.HasPrefix(subject, strings.ToLower(base)) {
		return false
	}
	if len(wanted) == 0 {
		return true
	}
	for _, addr := range msg.RecipientAddresses() {
		if _, ok := wanted[addr]; ok {
			return true
		}
	}
	return false
}

func anchorSubjectBase(taskCtx domain.Context) string {
	subject := taskCtx.AnchorSubject
	if strings.TrimSpace(subject) == "" {
		subject = taskCtx.Subject
	}
	return email.NormalizeSubject(subject)
}

func anchorRecipients(task domain.Task) []string {
	recipients := make([]string, 0, len(task.Context.ToList)+1)
	if addr := task.ContactEmail(); addr != "" {
		recipients = append(recipients, addr)
	}
	recipients = append(recipients, task.Context.ToList...)
	return email.DedupeAddresses(recipients)
}

// anchorFloor bounds the sent folder heuristic so it cannot latch onto an
// older thread with the same subject.
func (s *Service) anchorFloor(task domain.Task) time.Time {
	if ts, ok := task.Context.AnchorSentTime(); ok {
		return ts.Add(-s.lookback)
	}
	return task.CreatedAt.Add(-s.lookback)
}

// anchorSince computes the reply detection cutoff once an anchor is known:
// the later of the anchor's send time and the task's creation.
func anchorSince(anchor *msgraph.Message, task domain.Task) time.Time {
	since := task.CreatedAt
	if anchor != nil && !anchor.SentDateTime.IsZero() && anchor.SentDateTime.After(since) {
		since = anchor.SentDateTime
	} else if ts, ok := task.Context.AnchorSentTime(); ok && ts.After(since) {
		since = ts
	}
	return since
}
