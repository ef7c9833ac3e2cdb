package service

import (
	"context"
	"strings"

	"outreach_backend/internal/relay"
	"outreach_backend/internal/tasks/domain"
)

// sweepEnv carries the per-sweep state shared by reply detection and
// dispatch: the mailbox token and address, and the LinkedIn batch when the
// relay is usable for this sweep.
type sweepEnv struct {
	token    string
	mailbox  string
	linkedIn *linkedInBatch
}

// linkedInBatch prefetches the account's chat list once per sweep so every
// task in the batch can match chats without its own relay round trip.
type linkedInBatch struct {
	svc       *Service
	accountID string
	chats     []relay.Chat
}

// newLinkedInBatch builds the batch context, or returns nil when the relay is
// not configured, no account is connected, or no task in the batch references
// a LinkedIn contact.
func (s *Service) newLinkedInBatch(ctx context.Context, accountID string, tasks []domain.Task) *linkedInBatch {
	if s.chats == nil || !s.chats.Enabled() {
		return nil
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil
	}

	needed := false
	for i := range tasks {
		if tasks[i].LinkedInCandidate() != "" {
			needed = true
			break
		}
	}
	if !needed {
		return nil
	}

	chats, err := s.chats.ListChats(ctx, accountID)
	if err != nil {
		s.log.Warn("linkedin chat prefetch failed", "account_id", accountID, "error", err)
		chats = nil
	}

	return &linkedInBatch{svc: s, accountID: accountID, chats: chats}
}

// profile resolves a LinkedIn profile by public identifier, caching results
// for the configured TTL. Unreachable profiles are cached as nil.
func (b *linkedInBatch) profile(ctx context.Context, identifier string) (*relay.Profile, error) {
	key := b.accountID + "|" + strings.ToLower(identifier)
	if cached, ok := b.svc.profileCache.Get(key); ok {
		return cached, nil
	}

	profile, err := b.svc.chats.FetchProfile(ctx, b.accountID, identifier)
	if err != nil {
		return nil, err
	}
	b.svc.profileCache.Add(key, profile)
	return profile, nil
}

// chatID locates the chat for a provider id, consulting the cache before the
// prefetched chat list. An empty result is not cached so a chat created later
// in the sweep can still be found.
func (b *linkedInBatch) chatID(providerID string) string {
	providerID = strings.TrimSpace(providerID)
	if providerID == "" {
		return ""
	}

	key := b.accountID + "|" + strings.ToLower(providerID)
	if cached, ok := b.svc.chatIDCache.Get(key); ok {
		return cached
	}

	id := relay.FindChatID(b.chats, providerID)
	if id != "" {
		b.svc.chatIDCache.Add(key, id)
	}
	return id
}

// rememberChat records a freshly created chat for the provider id.
func (b *linkedInBatch) rememberChat(providerID, chatID string) {
	if providerID == "" || chatID == "" {
		return
	}
	b.svc.chatIDCache.Add(b.accountID+"|"+strings.ToLower(providerID), chatID)
}
