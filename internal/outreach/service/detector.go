package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"outreach_backend/internal/email"
	"outreach_backend/internal/relay"
	"outreach_backend/internal/tasks/domain"
	"outreach_backend/platform/linkedin"

	"golang.org/x/sync/errgroup"
)

// errReplyFound short-circuits the detection group once either channel hits.
var errReplyFound = errors.New("reply found")

// detectReply reports whether the contact replied on any channel after since.
// The email and LinkedIn probes run concurrently; the first hit wins. Probe
// failures are logged and count as no reply, so a flaky provider never marks
// a task as answered.
func (s *Service) detectReply(ctx context.Context, env *sweepEnv, task domain.Task, since time.Time) bool {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		replied, err := s.emailReplied(groupCtx, env, task, since)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				s.log.Warn("email reply probe failed", "task_id", task.ID, "error", err)
			}
			return nil
		}
		if replied {
			return errReplyFound
		}
		return nil
	})

	group.Go(func() error {
		replied, err := s.linkedInReplied(groupCtx, env, task, since)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				s.log.Warn("linkedin reply probe failed", "task_id", task.ID, "error", err)
			}
			return nil
		}
		if replied {
			return errReplyFound
		}
		return nil
	})

	return errors.Is(group.Wait(), errReplyFound)
}

// emailReplied walks the mailbox checks from cheapest to broadest: the stored
// conversation, a filtered inbox probe per recipient, and finally a subject
// search over the whole mailbox for replies that started a fresh thread.
func (s *Service) emailReplied(ctx context.Context, env *sweepEnv, task domain.Task, since time.Time) (bool, error) {
	if env.token == "" {
		return false, nil
	}

	if convID := task.Context.ResolvedConversationID(); convID != "" {
		msgs, err := s.mail.ListConversation(ctx, env.token, convID)
		if err != nil {
			return false, err
		}
		for i := range msgs {
			from := msgs[i].FromAddress()
			if from != "" && from != env.mailbox && msgs[i].ReceivedDateTime.After(since) {
				return true, nil
			}
		}
	}

	contact := task.ContactEmail()
	if contact != "" {
		found, err := s.mail.HasInboxMessageFrom(ctx, env.token, contact, since)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}

	for _, addr := range task.Context.ToList {
		normalized := email.NormalizeAddress(addr)
		if normalized == "" || normalized == contact || normalized == env.mailbox {
			continue
		}
		msgs, err := s.mail.ListInboxFrom(ctx, env.token, normalized)
		if err != nil {
			return false, err
		}
		for i := range msgs {
			if msgs[i].ReceivedDateTime.After(since) {
				return true, nil
			}
		}
	}

	return s.subjectSearchReplied(ctx, env, task, since)
}

// subjectSearchReplied catches replies that landed outside the tracked
// conversation, such as a fresh thread the contact started with the same
// subject.
func (s *Service) subjectSearchReplied(ctx context.Context, env *sweepEnv, task domain.Task, since time.Time) (bool, error) {
	base := anchorSubjectBase(task.Context)
	if base == "" {
		return false, nil
	}

	msgs, err := s.mail.SearchMessages(ctx, env.token, fmt.Sprintf("%q", "subject:"+base), 25, anchorSearchSelect)
	if err != nil {
		return false, err
	}

	for i := range msgs {
		msg := &msgs[i]
		if !msg.ReceivedDateTime.After(since) {
			continue
		}
		if from := msg.FromAddress(); from == "" || from == env.mailbox {
			continue
		}
		for _, addr := range msg.RecipientAddresses() {
			if addr == env.mailbox {
				return true, nil
			}
		}
	}
	return false, nil
}

// linkedInReplied checks the contact's chat for a message they sent after
// since.
func (s *Service) linkedInReplied(ctx context.Context, env *sweepEnv, task domain.Task, since time.Time) (bool, error) {
	if env.linkedIn == nil {
		return false, nil
	}

	identifier := linkedin.ExtractIdentifier(task.LinkedInCandidate())
	if identifier == "" {
		return false, nil
	}

	providerID := task.Context.ProviderID
	if providerID == "" {
		profile, err := env.linkedIn.profile(ctx, identifier)
		if err != nil {
			return false, err
		}
		if profile != nil {
			providerID = profile.ProviderID
		}
	}
	if providerID == "" {
		providerID = identifier
	}

	chatID := task.Context.ChatID
	if chatID == "" {
		chatID = env.linkedIn.chatID(providerID)
	}
	if chatID == "" {
		return false, nil
	}

	msgs, err := s.chats.ListChatMessages(ctx, env.linkedIn.accountID, chatID, chatMessageProbeLimit)
	if err != nil {
		return false, err
	}

	for _, msg := range msgs {
		if !relay.IsFromContact(msg, providerID) {
			continue
		}
		if ts, ok := relay.ParseTimestamp(msg); ok && ts.After(since) {
			return true, nil
		}
	}
	return false, nil
}
