package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Context carries the per-task details captured when the outreach was sent:
// thread anchors for reply detection, template inputs, and recipients.
// It is stored as jsonb and tolerates missing fields.
type Context struct {
	ContactEmail     string `json:"contactEmail,omitempty"`
	ContactName      string `json:"contactName,omitempty"`
	ContactFirstName string `json:"contactFirstName,omitempty"`
	ContactLinkedIn  string `json:"contactLinkedIn,omitempty"`
	LinkedInProfile  string `json:"linkedinProfile,omitempty"`
	CompanyName      string `json:"companyName,omitempty"`
	PartnerName      string `json:"partnerName,omitempty"`
	PartnerEmail     string `json:"partnerEmail,omitempty"`

	Subject              string   `json:"subject,omitempty"`
	MessageID            string   `json:"messageId,omitempty"`
	OriginalMessageID    string   `json:"originalMessageId,omitempty"`
	ConversationID       string   `json:"conversationId,omitempty"`
	AnchorID             string   `json:"anchorId,omitempty"`
	AnchorMessageID      string   `json:"anchorMessageId,omitempty"`
	AnchorConversationID string   `json:"anchorConversationId,omitempty"`
	AnchorSubject        string   `json:"anchorSubject,omitempty"`
	AnchorSentAt         string   `json:"anchorSentAt,omitempty"`
	OriginalSentAt       string   `json:"originalSentAt,omitempty"`
	SentAt               string   `json:"sentAt,omitempty"`
	ScheduledAt          string   `json:"scheduledAt,omitempty"`
	StoredAt             string   `json:"storedAt,omitempty"`
	ToList               []string `json:"toList,omitempty"`

	FollowUpTemplate string `json:"followUpTemplate,omitempty"`
	Message          string `json:"message,omitempty"`
	SignatureHTML    string `json:"signatureHtml,omitempty"`
	AppendSignature  bool   `json:"appendSignature,omitempty"`
	Calendly         string `json:"calendly,omitempty"`

	ChatID     string `json:"chatId,omitempty"`
	ProviderID string `json:"providerId,omitempty"`
}

// IsEmpty reports whether no context was captured for the task.
func (c Context) IsEmpty() bool {
	raw, err := json.Marshal(c)
	if err != nil {
		return false
	}
	return string(raw) == "{}"
}

// ResolvedAnchorID returns the stored anchor id, checking both field
// spellings the extension has used.
func (c Context) ResolvedAnchorID() string {
	if id := strings.TrimSpace(c.AnchorID); id != "" {
		return id
	}
	return strings.TrimSpace(c.AnchorMessageID)
}

// ResolvedMessageID returns the original outbound message id.
func (c Context) ResolvedMessageID() string {
	if id := strings.TrimSpace(c.MessageID); id != "" {
		return id
	}
	return strings.TrimSpace(c.OriginalMessageID)
}

// ResolvedConversationID returns the anchor conversation, falling back to the
// live conversation id.
func (c Context) ResolvedConversationID() string {
	if id := strings.TrimSpace(c.AnchorConversationID); id != "" {
		return id
	}
	return strings.TrimSpace(c.ConversationID)
}

// AnchorSentTime parses the first usable anchor timestamp.
func (c Context) AnchorSentTime() (time.Time, bool) {
	for _, candidate := range []string{c.AnchorSentAt, c.OriginalSentAt, c.SentAt, c.ScheduledAt, c.StoredAt} {
		if ts, ok := parseTime(candidate); ok {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parseTime(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// ParseContext decodes a stored context value. The extension has historically
// written both plain jsonb objects and double-encoded JSON strings, so both
// are accepted; anything unreadable yields an empty context.
func ParseContext(raw []byte) Context {
	var ctx Context
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ctx
	}

	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			return Context{}
		}
		return ParseContext([]byte(inner))
	}

	if err := json.Unmarshal([]byte(trimmed), &ctx); err != nil {
		return Context{}
	}
	return ctx
}
