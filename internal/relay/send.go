package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// CreateChat starts a new LinkedIn chat with the given attendee and returns
// the created chat id when the relay reports one.
func (c *Client) CreateChat(ctx context.Context, accountID, providerID, text string) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := writeFields(form, map[string]string{
		"account_id":    accountID,
		"text":          text,
		"attendees_ids": providerID,
		"linkedin[api]": "classic",
	}); err != nil {
		return "", err
	}
	if err := form.Close(); err != nil {
		return "", err
	}

	body, _, err := c.do(ctx, http.MethodPost, "/api/v1/chats", form.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(firstString(body, "chat_id", "id", "uuid")), nil
}

// SendInvite sends a connection invitation, optionally with a note.
func (c *Client) SendInvite(ctx context.Context, accountID, providerID, message string) error {
	payload := map[string]string{
		"account_id":  accountID,
		"provider_id": providerID,
	}
	if message != "" {
		payload["message"] = message
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("relay invite marshal: %w", err)
	}

	_, _, err = c.do(ctx, http.MethodPost, "/api/v1/users/invite", "application/json", bytes.NewReader(encoded))
	return err
}

// SendChatMessage posts a message into an existing chat.
func (c *Client) SendChatMessage(ctx context.Context, accountID, chatID, text string) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	fields := map[string]string{"text": text}
	if accountID != "" {
		fields["account_id"] = accountID
	}
	if err := writeFields(form, fields); err != nil {
		return err
	}
	if err := form.Close(); err != nil {
		return err
	}

	path := "/api/v1/chats/" + url.PathEscape(chatID) + "/messages"
	_, _, err := c.do(ctx, http.MethodPost, path, form.FormDataContentType(), &buf)
	return err
}

func writeFields(form *multipart.Writer, fields map[string]string) error {
	for key, value := range fields {
		if value == "" && key != "text" {
			continue
		}
		if err := form.WriteField(key, value); err != nil {
			return fmt.Errorf("relay form field %s: %w", key, err)
		}
	}
	return nil
}
