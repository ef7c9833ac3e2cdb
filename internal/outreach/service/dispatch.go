package service

import (
	"context"
	"strings"

	"outreach_backend/internal/email"
	"outreach_backend/internal/tasks/domain"
	"outreach_backend/platform/linkedin"
)

// dispatch executes one due task on its channel and returns the outcome.
// Tasks whose kind cannot be resolved never reach this point.
func (s *Service) dispatch(ctx context.Context, env *sweepEnv, task domain.Task, kind domain.Kind) Outcome {
	switch kind {
	case domain.KindEmailFollowUp:
		return s.dispatchEmail(ctx, env, task)
	case domain.KindPartnerForward:
		return s.dispatchPartnerForward(ctx, env, task)
	case domain.KindLinkedInMessage:
		return s.dispatchLinkedIn(ctx, env, task)
	default:
		return OutcomeError
	}
}

// dispatchEmail sends the follow-up as a reply-all on the original thread so
// the quoted history stays intact.
func (s *Service) dispatchEmail(ctx context.Context, env *sweepEnv, task domain.Task) Outcome {
	template := followUpTemplate(task)
	if template == "" {
		return OutcomeMissingTemplate
	}
	if task.Context.IsEmpty() {
		return OutcomeMissingContext
	}
	if env.token == "" {
		return OutcomeTokenUnavailable
	}

	anchor := s.resolveAnchor(ctx, env, task)
	if anchor == nil {
		return OutcomeNoAnchor
	}

	// With the anchor in hand the cutoff is exact, so the reply check runs
	// once more before anything goes out.
	if s.detectReply(ctx, env, task, anchorSince(anchor, task)) {
		return OutcomeResponded
	}

	draft, err := s.mail.CreateReplyAllDraft(ctx, env.token, anchor.ID)
	if err != nil {
		s.log.Warn("create reply draft failed", "task_id", task.ID, "error", err)
		return OutcomeError
	}

	body := email.BuildHTMLBody(
		email.ApplyTemplate(template, s.templateReplacements(task)),
		task.Context.SignatureHTML,
		task.Context.AppendSignature,
	)
	if draft.Body != nil && draft.Body.Content != "" {
		body += draft.Body.Content
	}

	if err := s.mail.UpdateDraftBody(ctx, env.token, draft.ID, body); err != nil {
		s.log.Warn("update reply draft failed", "task_id", task.ID, "draft_id", draft.ID, "error", err)
		return OutcomeError
	}
	if err := s.mail.SendDraft(ctx, env.token, draft.ID); err != nil {
		s.log.Warn("send reply draft failed", "task_id", task.ID, "draft_id", draft.ID, "error", err)
		return OutcomeError
	}
	return OutcomeSent
}

// dispatchPartnerForward mails the introduction to the partner, through the
// user's mailbox when a token is available and over SMTP otherwise.
func (s *Service) dispatchPartnerForward(ctx context.Context, env *sweepEnv, task domain.Task) Outcome {
	partnerEmail := task.PartnerEmail()
	if partnerEmail == "" {
		return OutcomeMissingPartner
	}

	template := followUpTemplate(task)
	if template == "" {
		return OutcomeMissingTemplate
	}

	subject := strings.TrimSpace(task.Context.Subject)
	if subject == "" {
		company := task.CompanyName()
		if company == "" {
			company = "Opportunity"
		}
		subject = email.PartnerForwardSubject(company)
	}

	body := email.BuildHTMLBody(
		email.ApplyTemplate(template, s.templateReplacements(task)),
		task.Context.SignatureHTML,
		task.Context.AppendSignature,
	)

	switch {
	case env.token != "":
		if err := s.mail.SendMail(ctx, env.token, partnerEmail, subject, body); err != nil {
			s.log.Warn("partner forward via mailbox failed", "task_id", task.ID, "error", err)
			return OutcomeError
		}
	case s.smtp != nil:
		if err := s.smtp.Send(ctx, partnerEmail, subject, body); err != nil {
			s.log.Warn("partner forward via smtp failed", "task_id", task.ID, "error", err)
			return OutcomeError
		}
	default:
		return OutcomeTokenUnavailable
	}
	return OutcomeSent
}

// dispatchLinkedIn delivers the message into an existing chat when one
// exists, starts a chat for first-degree connections, and otherwise sends a
// connection invite carrying the message as its note.
func (s *Service) dispatchLinkedIn(ctx context.Context, env *sweepEnv, task domain.Task) Outcome {
	identifier := linkedin.ExtractIdentifier(task.LinkedInCandidate())
	if identifier == "" {
		return OutcomeMissingLinkedIn
	}
	if env.linkedIn == nil {
		return OutcomeMissingAccount
	}

	message := strings.TrimSpace(email.ApplyTemplate(followUpTemplate(task), s.templateReplacements(task)))
	if message == "" {
		return OutcomeMissingMessage
	}

	profile, err := env.linkedIn.profile(ctx, identifier)
	if err != nil {
		s.log.Warn("linkedin profile lookup failed", "task_id", task.ID, "identifier", identifier, "error", err)
		return OutcomeError
	}

	providerID := strings.TrimSpace(task.Context.ProviderID)
	if providerID == "" && profile != nil {
		providerID = profile.ProviderID
	}
	if providerID == "" {
		providerID = identifier
	}

	chatID := strings.TrimSpace(task.Context.ChatID)
	if chatID == "" {
		chatID = env.linkedIn.chatID(providerID)
	}

	accountID := env.linkedIn.accountID
	switch {
	case chatID != "":
		if err := s.chats.SendChatMessage(ctx, accountID, chatID, message); err != nil {
			s.log.Warn("linkedin chat message failed", "task_id", task.ID, "chat_id", chatID, "error", err)
			return OutcomeError
		}
	case profile != nil && profile.IsConnected:
		created, err := s.chats.CreateChat(ctx, accountID, providerID, message)
		if err != nil {
			s.log.Warn("linkedin chat create failed", "task_id", task.ID, "provider_id", providerID, "error", err)
			return OutcomeError
		}
		env.linkedIn.rememberChat(providerID, created)
	default:
		if err := s.chats.SendInvite(ctx, accountID, providerID, message); err != nil {
			s.log.Warn("linkedin invite failed", "task_id", task.ID, "provider_id", providerID, "error", err)
			return OutcomeError
		}
	}
	return OutcomeSent
}

// followUpTemplate picks the follow-up text stored with the task, trying the
// context fields before the legacy message_text column.
func followUpTemplate(task domain.Task) string {
	for _, candidate := range []string{task.Context.FollowUpTemplate, task.Context.Message, task.MessageText} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// templateReplacements builds the token map for a task. Tokens whose values
// are unknown are omitted so they stay visible in the sent text rather than
// collapsing to an empty string.
func (s *Service) templateReplacements(task domain.Task) map[string]string {
	replacements := make(map[string]string, 3)

	firstName := strings.TrimSpace(task.Context.ContactFirstName)
	if firstName == "" {
		firstName = email.ExtractFirstName(task.ContactName())
	}
	if firstName != "" {
		replacements[email.TokenFirstName] = firstName
	}

	if partner := task.PartnerName(); partner != "" {
		replacements[email.TokenPartnerName] = partner
	}

	if calendly := strings.TrimSpace(task.Context.Calendly); calendly != "" {
		if !strings.HasPrefix(calendly, "http://") && !strings.HasPrefix(calendly, "https://") {
			calendly = "https://" + calendly
		}
		replacements[email.TokenCalendly] = email.CalendlyLink(calendly)
	}

	return replacements
}
