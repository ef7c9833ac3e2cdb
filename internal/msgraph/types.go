package msgraph

import (
	"strings"
	"time"
)

// EmailAddress is the Graph emailAddress resource.
type EmailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

// Recipient is the Graph recipient resource.
type Recipient struct {
	EmailAddress EmailAddress `json:"emailAddress"`
}

// ItemBody is the Graph itemBody resource.
type ItemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Message is the subset of the Graph message resource this service reads.
type Message struct {
	ID               string      `json:"id"`
	Subject          string      `json:"subject"`
	ConversationID   string      `json:"conversationId"`
	SentDateTime     time.Time   `json:"sentDateTime"`
	ReceivedDateTime time.Time   `json:"receivedDateTime"`
	From             *Recipient  `json:"from"`
	ToRecipients     []Recipient `json:"toRecipients"`
	CcRecipients     []Recipient `json:"ccRecipients"`
	Body             *ItemBody   `json:"body"`
}

// FromAddress returns the lowercased sender address, or "" when absent.
func (m *Message) FromAddress() string {
	if m == nil || m.From == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(m.From.EmailAddress.Address))
}

// RecipientAddresses returns all to/cc addresses, lowercased.
func (m *Message) RecipientAddresses() []string {
	if m == nil {
		return nil
	}
	addresses := make([]string, 0, len(m.ToRecipients)+len(m.CcRecipients))
	for _, r := range m.ToRecipients {
		if addr := strings.ToLower(strings.TrimSpace(r.EmailAddress.Address)); addr != "" {
			addresses = append(addresses, addr)
		}
	}
	for _, r := range m.CcRecipients {
		if addr := strings.ToLower(strings.TrimSpace(r.EmailAddress.Address)); addr != "" {
			addresses = append(addresses, addr)
		}
	}
	return addresses
}

type listResponse struct {
	Value []Message `json:"value"`
}

type profileResponse struct {
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}
