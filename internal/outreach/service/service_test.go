package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"outreach_backend/internal/msgraph"
	"outreach_backend/internal/relay"
	"outreach_backend/internal/tasks/domain"
	"outreach_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

type cfgFake struct{}

func (cfgFake) GetChatCacheTTL() time.Duration        { return time.Minute }
func (cfgFake) GetProfileCacheTTL() time.Duration     { return 15 * time.Minute }
func (cfgFake) GetReplyLookbackWindow() time.Duration { return 720 * time.Hour }

type fakeStore struct {
	mu       sync.Mutex
	overdue  []domain.Task
	upcoming []domain.Task
	fetches  int
	deleted  []uuid.UUID
}

func (f *fakeStore) FetchOverdue(_ context.Context, _ uuid.UUID, _ time.Time) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	return f.overdue, nil
}

func (f *fakeStore) FetchUpcoming(_ context.Context, _ uuid.UUID, _ time.Time) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	return f.upcoming, nil
}

func (f *fakeStore) Delete(_ context.Context, taskID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, taskID)
	return true, nil
}

func (f *fakeStore) deletedIDs() []uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uuid.UUID(nil), f.deleted...)
}

type fakeDirectory struct {
	userID   uuid.UUID
	accounts []string
}

func (f *fakeDirectory) EnsureUser(_ context.Context, _, _, _ string) (uuid.UUID, error) {
	return f.userID, nil
}

func (f *fakeDirectory) SetUserRelayAccount(_ context.Context, _ uuid.UUID, accountID string) error {
	f.accounts = append(f.accounts, accountID)
	return nil
}

type sentMailCall struct {
	to      string
	subject string
	body    string
}

type fakeMail struct {
	me            string
	messages      map[string]*msgraph.Message
	conversations map[string][]msgraph.Message
	inboxFrom     map[string]bool
	inboxList     map[string][]msgraph.Message
	sentByConv    map[string][]msgraph.Message
	searchResults []msgraph.Message
	draft         *msgraph.Message

	mu          sync.Mutex
	draftFor    []string
	draftBodies map[string]string
	sentDrafts  []string
	sentMail    []sentMailCall
}

func (f *fakeMail) Me(_ context.Context, _ string) (string, error) {
	return f.me, nil
}

func (f *fakeMail) GetMessage(_ context.Context, _, messageID string) (*msgraph.Message, error) {
	if msg, ok := f.messages[messageID]; ok {
		return msg, nil
	}
	return nil, errors.New("message not found")
}

func (f *fakeMail) ListConversation(_ context.Context, _, conversationID string) ([]msgraph.Message, error) {
	return f.conversations[conversationID], nil
}

func (f *fakeMail) HasInboxMessageFrom(_ context.Context, _, address string, _ time.Time) (bool, error) {
	return f.inboxFrom[address], nil
}

func (f *fakeMail) ListInboxFrom(_ context.Context, _, address string) ([]msgraph.Message, error) {
	return f.inboxList[address], nil
}

func (f *fakeMail) ListSentByConversation(_ context.Context, _, conversationID, _ string) ([]msgraph.Message, error) {
	return f.sentByConv[conversationID], nil
}

func (f *fakeMail) ListSentHeuristic(_ context.Context, _, _, _ string, _ []string, _ time.Time) ([]msgraph.Message, error) {
	return nil, nil
}

func (f *fakeMail) SearchMessages(_ context.Context, _, _ string, _ int, _ string) ([]msgraph.Message, error) {
	return f.searchResults, nil
}

func (f *fakeMail) CreateReplyAllDraft(_ context.Context, _, messageID string) (*msgraph.Message, error) {
	if f.draft == nil {
		return nil, errors.New("draft create failed")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draftFor = append(f.draftFor, messageID)
	copied := *f.draft
	return &copied, nil
}

func (f *fakeMail) UpdateDraftBody(_ context.Context, _, messageID, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.draftBodies == nil {
		f.draftBodies = make(map[string]string)
	}
	f.draftBodies[messageID] = html
	return nil
}

func (f *fakeMail) SendDraft(_ context.Context, _, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sentDrafts = append(f.sentDrafts, messageID)
	return nil
}

func (f *fakeMail) SendMail(_ context.Context, _, to, subject, htmlBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sentMail = append(f.sentMail, sentMailCall{to: to, subject: subject, body: htmlBody})
	return nil
}

type fakeChats struct {
	enabled  bool
	chats    []relay.Chat
	messages map[string][]gjson.Result
	profiles map[string]*relay.Profile

	mu       sync.Mutex
	created  []string
	invited  []string
	chatSent []string
}

func (f *fakeChats) Enabled() bool { return f.enabled }

func (f *fakeChats) ListChats(_ context.Context, _ string) ([]relay.Chat, error) {
	return f.chats, nil
}

func (f *fakeChats) ListChatMessages(_ context.Context, _, chatID string, _ int) ([]gjson.Result, error) {
	return f.messages[chatID], nil
}

func (f *fakeChats) FetchProfile(_ context.Context, _, identifier string) (*relay.Profile, error) {
	return f.profiles[identifier], nil
}

func (f *fakeChats) CreateChat(_ context.Context, _, providerID, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, providerID)
	return "chat-created", nil
}

func (f *fakeChats) SendInvite(_ context.Context, _, providerID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invited = append(f.invited, providerID)
	return nil
}

func (f *fakeChats) SendChatMessage(_ context.Context, _, chatID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatSent = append(f.chatSent, chatID)
	return nil
}

type fakeSMTP struct {
	sent []sentMailCall
}

func (f *fakeSMTP) Send(_ context.Context, to, subject, htmlBody string) error {
	f.sent = append(f.sent, sentMailCall{to: to, subject: subject, body: htmlBody})
	return nil
}

func newTestService(store *fakeStore, mail *fakeMail, chats *fakeChats, smtp *fakeSMTP) *Service {
	if mail == nil {
		mail = &fakeMail{me: "me@example.com"}
	}
	if chats == nil {
		chats = &fakeChats{}
	}
	dir := &fakeDirectory{userID: uuid.New()}

	svc := New(store, dir, mail, chats, nil, cfgFake{}, logger.New("test"))
	if smtp != nil {
		svc.smtp = smtp
	}
	return svc
}

func overdueEmailTask() domain.Task {
	return domain.Task{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Kind:        domain.KindEmailFollowUp,
		Label:       "Email follow-up",
		TriggerDate: time.Now().Add(-24 * time.Hour),
		CreatedAt:   time.Now().Add(-10 * 24 * time.Hour),
		Context: domain.Context{
			ContactEmail:     "jane@acme.com",
			ContactName:      "Jane Doe",
			AnchorID:         "anchor-1",
			FollowUpTemplate: "Hi {{firstName}}, just checking in.",
		},
	}
}

func TestSweepConcurrentSkip(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil, nil, nil)

	if !svc.sweeps.acquire("me@example.com") {
		t.Fatal("could not prime the guard")
	}
	defer svc.sweeps.release("me@example.com")

	summary, err := svc.Sweep(context.Background(), SweepInput{UserEmail: "Me@Example.com"})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if !summary.ConcurrentSkip {
		t.Fatal("expected concurrent skip")
	}
	if summary.Processed != 0 || summary.Skipped != 0 || summary.Responded != 0 {
		t.Fatalf("skipped sweep must report zero counts, got %+v", summary)
	}
	if store.fetches != 0 {
		t.Fatalf("skipped sweep must not touch the store, got %d fetches", store.fetches)
	}
}

func TestSweepRequiresEmail(t *testing.T) {
	svc := newTestService(&fakeStore{}, nil, nil, nil)
	if _, err := svc.Sweep(context.Background(), SweepInput{}); err == nil {
		t.Fatal("expected error for missing email")
	}
}

func TestSweepDeletesRespondedUpcomingTask(t *testing.T) {
	task := overdueEmailTask()
	task.TriggerDate = time.Now().Add(48 * time.Hour)

	store := &fakeStore{upcoming: []domain.Task{task}}
	mail := &fakeMail{
		me:        "me@example.com",
		inboxFrom: map[string]bool{"jane@acme.com": true},
	}
	svc := newTestService(store, mail, nil, nil)

	summary, err := svc.Sweep(context.Background(), SweepInput{UserEmail: "me@example.com", GraphToken: "tok"})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if summary.Responded != 1 {
		t.Fatalf("responded = %d, want 1", summary.Responded)
	}
	if summary.Processed != 0 {
		t.Fatalf("processed = %d, want 0 for an upcoming task", summary.Processed)
	}
	if deleted := store.deletedIDs(); len(deleted) != 1 || deleted[0] != task.ID {
		t.Fatalf("responded task should be deleted, got %v", deleted)
	}
}

func TestSweepSkipsUnresolvableKind(t *testing.T) {
	task := overdueEmailTask()
	task.Kind = ""
	task.Label = "Call them"

	store := &fakeStore{overdue: []domain.Task{task}}
	svc := newTestService(store, nil, nil, nil)

	summary, err := svc.Sweep(context.Background(), SweepInput{UserEmail: "me@example.com", GraphToken: "tok"})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if summary.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", summary.Skipped)
	}
	if len(store.deletedIDs()) != 0 {
		t.Fatal("skipped task must not be deleted")
	}
}

func TestSweepEmailFollowUpSendsReplyAll(t *testing.T) {
	task := overdueEmailTask()
	anchor := &msgraph.Message{
		ID:             "anchor-1",
		Subject:        "Intro Acme",
		ConversationID: "conv-1",
		SentDateTime:   time.Now().Add(-9 * 24 * time.Hour),
	}

	store := &fakeStore{overdue: []domain.Task{task}}
	mail := &fakeMail{
		me:       "me@example.com",
		messages: map[string]*msgraph.Message{"anchor-1": anchor},
		draft: &msgraph.Message{
			ID:   "draft-1",
			Body: &msgraph.ItemBody{ContentType: "HTML", Content: "<blockquote>original</blockquote>"},
		},
	}
	svc := newTestService(store, mail, nil, nil)

	summary, err := svc.Sweep(context.Background(), SweepInput{UserEmail: "me@example.com", GraphToken: "tok"})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if summary.Processed != 1 {
		t.Fatalf("processed = %d, want 1 (summary %+v)", summary.Processed, summary)
	}

	if len(mail.draftFor) != 1 || mail.draftFor[0] != "anchor-1" {
		t.Fatalf("draft should reply to the anchor, got %v", mail.draftFor)
	}
	body := mail.draftBodies["draft-1"]
	if body == "" {
		t.Fatal("draft body was not updated")
	}
	if want := "Hi Jane, just checking in."; !strings.Contains(body, want) {
		t.Fatalf("body %q should contain rendered template %q", body, want)
	}
	if !strings.Contains(body, "<blockquote>original</blockquote>") {
		t.Fatal("quoted thread should be appended to the body")
	}
	if len(mail.sentDrafts) != 1 || mail.sentDrafts[0] != "draft-1" {
		t.Fatalf("draft should be sent, got %v", mail.sentDrafts)
	}
	if deleted := store.deletedIDs(); len(deleted) != 1 || deleted[0] != task.ID {
		t.Fatalf("sent task should be deleted, got %v", deleted)
	}
}

func TestSweepEmailWithoutTokenIsSkipped(t *testing.T) {
	task := overdueEmailTask()
	store := &fakeStore{overdue: []domain.Task{task}}
	svc := newTestService(store, nil, nil, nil)

	summary, err := svc.Sweep(context.Background(), SweepInput{UserEmail: "me@example.com"})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if summary.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", summary.Skipped)
	}
	if len(store.deletedIDs()) != 0 {
		t.Fatal("task must stay scheduled when no token is available")
	}
}

func TestSweepPartnerForwardFallsBackToSMTP(t *testing.T) {
	task := domain.Task{
		ID:          uuid.New(),
		Kind:        domain.KindPartnerForward,
		Label:       "Partner forward",
		TriggerDate: time.Now().Add(-time.Hour),
		CreatedAt:   time.Now().Add(-48 * time.Hour),
		Context: domain.Context{
			PartnerEmail:     "partner@example.com",
			PartnerName:      "Nordic Ventures",
			CompanyName:      "Acme",
			FollowUpTemplate: "Intro for {{partnerName}}.",
		},
	}

	store := &fakeStore{overdue: []domain.Task{task}}
	smtp := &fakeSMTP{}
	svc := newTestService(store, nil, nil, smtp)

	summary, err := svc.Sweep(context.Background(), SweepInput{UserEmail: "me@example.com"})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if summary.Processed != 1 {
		t.Fatalf("processed = %d, want 1 (summary %+v)", summary.Processed, summary)
	}
	if len(smtp.sent) != 1 {
		t.Fatalf("smtp sends = %d, want 1", len(smtp.sent))
	}
	if smtp.sent[0].to != "partner@example.com" {
		t.Fatalf("to = %q", smtp.sent[0].to)
	}
	if smtp.sent[0].subject != "Forward to partner: Acme" {
		t.Fatalf("subject = %q", smtp.sent[0].subject)
	}
	if !strings.Contains(smtp.sent[0].body, "Intro for Nordic Ventures.") {
		t.Fatalf("body %q missing rendered partner name", smtp.sent[0].body)
	}
}

func linkedInTask(template string) domain.Task {
	return domain.Task{
		ID:          uuid.New(),
		Kind:        domain.KindLinkedInMessage,
		Label:       "LinkedIn follow-up",
		TriggerDate: time.Now().Add(-time.Hour),
		CreatedAt:   time.Now().Add(-72 * time.Hour),
		MessageText: template,
		Context: domain.Context{
			ContactLinkedIn: "https://www.linkedin.com/in/jane-doe",
			ContactName:     "Jane Doe",
		},
	}
}

func TestSweepLinkedInDispatch(t *testing.T) {
	cases := []struct {
		name       string
		chats      []relay.Chat
		profile    *relay.Profile
		wantChat   int
		wantCreate int
		wantInvite int
	}{
		{
			name:     "existing chat gets a message",
			chats:    []relay.Chat{{ID: "chat-1", ProviderID: "prov-123"}},
			profile:  &relay.Profile{ProviderID: "prov-123", IsConnected: true},
			wantChat: 1,
		},
		{
			name:       "connected contact without chat gets a new chat",
			profile:    &relay.Profile{ProviderID: "prov-123", IsConnected: true},
			wantCreate: 1,
		},
		{
			name:       "unconnected contact gets an invite",
			profile:    &relay.Profile{ProviderID: "prov-123", IsConnected: false},
			wantInvite: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := linkedInTask("Hi {{firstName}}!")
			store := &fakeStore{overdue: []domain.Task{task}}
			chats := &fakeChats{
				enabled:  true,
				chats:    tc.chats,
				profiles: map[string]*relay.Profile{"jane-doe": tc.profile},
			}
			svc := newTestService(store, nil, chats, nil)

			summary, err := svc.Sweep(context.Background(), SweepInput{
				UserEmail:      "me@example.com",
				RelayAccountID: "acct-1",
			})
			if err != nil {
				t.Fatalf("Sweep: %v", err)
			}
			if summary.Processed != 1 {
				t.Fatalf("processed = %d, want 1 (summary %+v)", summary.Processed, summary)
			}
			if len(chats.chatSent) != tc.wantChat {
				t.Fatalf("chat messages = %d, want %d", len(chats.chatSent), tc.wantChat)
			}
			if len(chats.created) != tc.wantCreate {
				t.Fatalf("created chats = %d, want %d", len(chats.created), tc.wantCreate)
			}
			if len(chats.invited) != tc.wantInvite {
				t.Fatalf("invites = %d, want %d", len(chats.invited), tc.wantInvite)
			}
			if deleted := store.deletedIDs(); len(deleted) != 1 {
				t.Fatalf("sent task should be deleted, got %v", deleted)
			}
		})
	}
}

func TestSweepLinkedInReplyMarksResponded(t *testing.T) {
	task := linkedInTask("Hi again")
	recent := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)

	store := &fakeStore{overdue: []domain.Task{task}}
	chats := &fakeChats{
		enabled:  true,
		chats:    []relay.Chat{{ID: "chat-1", ProviderID: "prov-123"}},
		profiles: map[string]*relay.Profile{"jane-doe": {ProviderID: "prov-123", IsConnected: true}},
		messages: map[string][]gjson.Result{
			"chat-1": {gjson.Parse(fmt.Sprintf(`{"is_sender": false, "sent_at": %q}`, recent))},
		},
	}
	svc := newTestService(store, nil, chats, nil)

	summary, err := svc.Sweep(context.Background(), SweepInput{
		UserEmail:      "me@example.com",
		RelayAccountID: "acct-1",
	})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if summary.Responded != 1 {
		t.Fatalf("responded = %d, want 1 (summary %+v)", summary.Responded, summary)
	}
	if len(chats.chatSent)+len(chats.created)+len(chats.invited) != 0 {
		t.Fatal("no message should go out when the contact already replied")
	}
	if deleted := store.deletedIDs(); len(deleted) != 1 || deleted[0] != task.ID {
		t.Fatalf("responded task should be deleted, got %v", deleted)
	}
}

func TestSweepSubjectSearchBlocksLinkedInDispatch(t *testing.T) {
	task := linkedInTask("Hi again")
	task.Context.Subject = "Intro Acme"

	// The contact answered in a fresh thread with the same subject, so only
	// the mailbox-wide search can see the reply.
	reply := msgraph.Message{
		ID:               "fresh-1",
		Subject:          "Intro Acme",
		ReceivedDateTime: time.Now().Add(-time.Hour),
		From:             &msgraph.Recipient{EmailAddress: msgraph.EmailAddress{Address: "jane@acme.com"}},
		ToRecipients:     []msgraph.Recipient{{EmailAddress: msgraph.EmailAddress{Address: "me@example.com"}}},
	}

	store := &fakeStore{overdue: []domain.Task{task}}
	mail := &fakeMail{me: "me@example.com", searchResults: []msgraph.Message{reply}}
	chats := &fakeChats{
		enabled:  true,
		profiles: map[string]*relay.Profile{"jane-doe": {ProviderID: "prov-123", IsConnected: true}},
	}
	svc := newTestService(store, mail, chats, nil)

	summary, err := svc.Sweep(context.Background(), SweepInput{
		UserEmail:      "me@example.com",
		GraphToken:     "tok",
		RelayAccountID: "acct-1",
	})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if summary.Responded != 1 {
		t.Fatalf("responded = %d, want 1 (summary %+v)", summary.Responded, summary)
	}
	if len(chats.chatSent)+len(chats.created)+len(chats.invited) != 0 {
		t.Fatal("no LinkedIn message should go out when the contact already replied")
	}
	if deleted := store.deletedIDs(); len(deleted) != 1 || deleted[0] != task.ID {
		t.Fatalf("responded task should be deleted, got %v", deleted)
	}
}

func TestSweepTalliesMixedBatch(t *testing.T) {
	replied := make([]domain.Task, 0, 3)
	for i := 0; i < 3; i++ {
		task := overdueEmailTask()
		task.TriggerDate = time.Now().Add(24 * time.Hour)
		replied = append(replied, task)
	}

	silent := overdueEmailTask()
	silent.Context.ContactEmail = "mark@acme.com"
	silent.Context.AnchorID = "anchor-2"

	store := &fakeStore{overdue: []domain.Task{silent}, upcoming: replied}
	mail := &fakeMail{
		me:        "me@example.com",
		inboxFrom: map[string]bool{"jane@acme.com": true},
		messages: map[string]*msgraph.Message{
			"anchor-2": {ID: "anchor-2", SentDateTime: time.Now().Add(-9 * 24 * time.Hour)},
		},
		draft: &msgraph.Message{ID: "draft-1"},
	}
	svc := newTestService(store, mail, nil, nil)

	summary, err := svc.Sweep(context.Background(), SweepInput{UserEmail: "me@example.com", GraphToken: "tok"})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if summary.Responded != 3 {
		t.Fatalf("responded = %d, want 3 (summary %+v)", summary.Responded, summary)
	}
	if summary.Processed != 1 {
		t.Fatalf("processed = %d, want 1 (summary %+v)", summary.Processed, summary)
	}
	if summary.Skipped != 0 {
		t.Fatalf("skipped = %d, want 0 (summary %+v)", summary.Skipped, summary)
	}
	if deleted := store.deletedIDs(); len(deleted) != 4 {
		t.Fatalf("deleted = %d tasks, want 4 (%v)", len(deleted), deleted)
	}
}

func TestDispatchEmailPreconditions(t *testing.T) {
	svc := newTestService(&fakeStore{}, nil, nil, nil)
	env := &sweepEnv{token: "tok", mailbox: "me@example.com"}

	empty := domain.Task{ID: uuid.New(), Kind: domain.KindEmailFollowUp}
	if got := svc.dispatchEmail(context.Background(), env, empty); got != OutcomeMissingTemplate {
		t.Fatalf("outcome = %q, want %q", got, OutcomeMissingTemplate)
	}

	noContext := empty
	noContext.MessageText = "Follow up."
	if got := svc.dispatchEmail(context.Background(), env, noContext); got != OutcomeMissingContext {
		t.Fatalf("outcome = %q, want %q", got, OutcomeMissingContext)
	}

	noAnchor := noContext
	noAnchor.Context = domain.Context{ContactEmail: "jane@acme.com"}
	if got := svc.dispatchEmail(context.Background(), env, noAnchor); got != OutcomeNoAnchor {
		t.Fatalf("outcome = %q, want %q", got, OutcomeNoAnchor)
	}
}

func TestResolveAnchorFallsBackToConversation(t *testing.T) {
	conv := msgraph.Message{
		ID:             "msg-9",
		ConversationID: "conv-9",
		SentDateTime:   time.Now().Add(-time.Hour),
	}
	mail := &fakeMail{
		me:            "me@example.com",
		conversations: map[string][]msgraph.Message{"conv-9": {conv}},
	}
	svc := newTestService(&fakeStore{}, mail, nil, nil)

	task := domain.Task{
		ID:        uuid.New(),
		CreatedAt: time.Now().Add(-24 * time.Hour),
		Context: domain.Context{
			AnchorID:       "gone",
			ConversationID: "conv-9",
		},
	}
	env := &sweepEnv{token: "tok", mailbox: "me@example.com"}

	anchor := svc.resolveAnchor(context.Background(), env, task)
	if anchor == nil || anchor.ID != "msg-9" {
		t.Fatalf("anchor = %+v, want msg-9", anchor)
	}
}

func TestReplySinceBounds(t *testing.T) {
	svc := newTestService(&fakeStore{}, nil, nil, nil)

	recent := domain.Task{
		TriggerDate: time.Now(),
		CreatedAt:   time.Now().Add(-24 * time.Hour),
	}
	if got := svc.replySince(recent); !got.Equal(recent.CreatedAt) {
		t.Fatalf("since = %v, want task creation %v", got, recent.CreatedAt)
	}

	old := domain.Task{
		TriggerDate: time.Now(),
		CreatedAt:   time.Now().Add(-90 * 24 * time.Hour),
	}
	want := old.TriggerDate.Add(-720 * time.Hour)
	if got := svc.replySince(old); !got.Equal(want) {
		t.Fatalf("since = %v, want lookback floor %v", got, want)
	}
}

