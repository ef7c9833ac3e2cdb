// Package service implements the reply reconciliation and follow-up dispatch
// core: it sweeps a user's due tasks, reconciles each against the contact's
// email and LinkedIn activity, and executes the ones nobody replied to.
package service

import (
	"context"
	"time"

	"outreach_backend/internal/email"
	"outreach_backend/internal/msgraph"
	"outreach_backend/internal/relay"
	"outreach_backend/internal/tasks/domain"
	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/tidwall/gjson"
)

// TaskStore is the task persistence the sweep depends on.
type TaskStore interface {
	FetchOverdue(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.Task, error)
	FetchUpcoming(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.Task, error)
	Delete(ctx context.Context, taskID uuid.UUID) (bool, error)
}

// Directory resolves and updates the sweeping user's record.
type Directory interface {
	EnsureUser(ctx context.Context, email, name, linkedIn string) (uuid.UUID, error)
	SetUserRelayAccount(ctx context.Context, userID uuid.UUID, accountID string) error
}

// MailGateway is the mailbox surface used for reply detection, anchor
// resolution and follow-up delivery.
type MailGateway interface {
	Me(ctx context.Context, token string) (string, error)
	GetMessage(ctx context.Context, token, messageID string) (*msgraph.Message, error)
	ListConversation(ctx context.Context, token, conversationID string) ([]msgraph.Message, error)
	HasInboxMessageFrom(ctx context.Context, token, address string, since time.Time) (bool, error)
	ListInboxFrom(ctx context.Context, token, address string) ([]msgraph.Message, error)
	ListSentByConversation(ctx context.Context, token, conversationID, myAddress string) ([]msgraph.Message, error)
	ListSentHeuristic(ctx context.Context, token, myAddress, subjectBase string, recipients []string, floor time.Time) ([]msgraph.Message, error)
	SearchMessages(ctx context.Context, token, search string, top int, selectFields string) ([]msgraph.Message, error)
	CreateReplyAllDraft(ctx context.Context, token, messageID string) (*msgraph.Message, error)
	UpdateDraftBody(ctx context.Context, token, messageID, html string) error
	SendDraft(ctx context.Context, token, messageID string) error
	SendMail(ctx context.Context, token, to, subject, htmlBody string) error
}

// ChatGateway is the messaging relay surface used for the LinkedIn channel.
type ChatGateway interface {
	Enabled() bool
	ListChats(ctx context.Context, accountID string) ([]relay.Chat, error)
	ListChatMessages(ctx context.Context, accountID, chatID string, limit int) ([]gjson.Result, error)
	FetchProfile(ctx context.Context, accountID, identifier string) (*relay.Profile, error)
	CreateChat(ctx context.Context, accountID, providerID, text string) (string, error)
	SendInvite(ctx context.Context, accountID, providerID, message string) error
	SendChatMessage(ctx context.Context, accountID, chatID, text string) error
}

const (
	chatCacheSize    = 512
	profileCacheSize = 512

	chatMessageProbeLimit = 75

	// replyProbeConcurrency bounds how many tasks are reconciled against the
	// providers at once, keeping batch sweeps inside their rate limits.
	replyProbeConcurrency = 4
)

// Service runs reply reconciliation sweeps.
type Service struct {
	store TaskStore
	dir   Directory
	mail  MailGateway
	chats ChatGateway
	smtp  email.Sender
	log   *logger.Logger

	lookback time.Duration

	chatIDCache  *expirable.LRU[string, string]
	profileCache *expirable.LRU[string, *relay.Profile]

	sweeps *sweepGuard
}

// New creates the reconciliation service. The smtp sender may be nil when no
// SMTP fallback is configured.
func New(store TaskStore, dir Directory, mail MailGateway, chats ChatGateway, smtp email.Sender, cfg config.ReconcileConfig, log *logger.Logger) *Service {
	lookback := cfg.GetReplyLookbackWindow()
	if lookback <= 0 {
		lookback = 30 * 24 * time.Hour
	}

	return &Service{
		store:        store,
		dir:          dir,
		mail:         mail,
		chats:        chats,
		smtp:         smtp,
		log:          log,
		lookback:     lookback,
		chatIDCache:  expirable.NewLRU[string, string](chatCacheSize, nil, cfg.GetChatCacheTTL()),
		profileCache: expirable.NewLRU[string, *relay.Profile](profileCacheSize, nil, cfg.GetProfileCacheTTL()),
		sweeps:       newSweepGuard(),
	}
}

// replySince computes the earliest instant a message counts as a reply to the
// given task. Outreach normally goes out around the trigger date, so the
// window opens one lookback period before it, but never before the task
// itself existed.
func (s *Service) replySince(task domain.Task) time.Time {
	since := task.TriggerDate.Add(-s.lookback)
	if task.CreatedAt.After(since) {
		since = task.CreatedAt
	}
	return since
}
