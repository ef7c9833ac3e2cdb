package relay

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"outreach_backend/platform/linkedin"

	"github.com/tidwall/gjson"
)

// Chat is a normalized LinkedIn chat candidate.
type Chat struct {
	ID                 string
	Provider           string
	ProviderID         string
	AttendeeProviderID string
	NameSlug           string
}

// ListChats fetches the account's LinkedIn chats, normalized for matching.
// Candidates without an id and chats on other providers are dropped.
func (c *Client) ListChats(ctx context.Context, accountID string) ([]Chat, error) {
	query := url.Values{}
	query.Set("account_id", accountID)
	query.Set("provider", "LINKEDIN")
	query.Set("limit", "100")

	body, _, err := c.do(ctx, http.MethodGet, "/api/v1/chats?"+query.Encode(), "", nil)
	if err != nil {
		return nil, err
	}

	candidates := items(body)
	chats := make([]Chat, 0, len(candidates))
	for _, candidate := range candidates {
		chat := normalizeChatCandidate(candidate)
		if chat.ID == "" {
			continue
		}
		if chat.Provider != "" && chat.Provider != "LINKEDIN" {
			continue
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

func normalizeChatCandidate(candidate gjson.Result) Chat {
	name := strings.TrimSpace(candidate.Get("name").String())
	return Chat{
		ID:                 strings.TrimSpace(firstString(candidate, "id", "chat_id", "uuid")),
		Provider:           strings.ToUpper(strings.TrimSpace(firstString(candidate, "provider", "channel"))),
		ProviderID:         strings.ToLower(strings.TrimSpace(firstString(candidate, "provider_id", "providerId"))),
		AttendeeProviderID: strings.ToLower(strings.TrimSpace(firstString(candidate, "attendee_provider_id", "attendeeProviderId"))),
		NameSlug:           linkedin.SlugifyName(name),
	}
}

func firstString(result gjson.Result, keys ...string) string {
	for _, key := range keys {
		if value := result.Get(key); value.Exists() && value.String() != "" {
			return value.String()
		}
	}
	return ""
}

// FindChatID locates the chat for a provider id within a chat list. Exact
// provider id matches win, then attendee provider ids, then a name-slug
// heuristic for chats that only carry the contact's display name.
func FindChatID(chats []Chat, providerID string) string {
	target := strings.ToLower(strings.TrimSpace(providerID))
	if target == "" {
		return ""
	}
	targetSlug := linkedin.SlugifyName(target)

	for _, chat := range chats {
		if chat.ID == "" {
			continue
		}
		if chat.ProviderID != "" && chat.ProviderID == target {
			return chat.ID
		}
		if chat.AttendeeProviderID != "" && chat.AttendeeProviderID == target {
			return chat.ID
		}
		if chat.NameSlug != "" && targetSlug != "" &&
			(chat.NameSlug == targetSlug || strings.HasPrefix(target, chat.NameSlug+"-")) {
			return chat.ID
		}
	}
	return ""
}

// ListChatMessages fetches messages for a chat. Results keep their raw shape
// so callers can use the tolerant parse helpers.
func (c *Client) ListChatMessages(ctx context.Context, accountID, chatID string, limit int) ([]gjson.Result, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if accountID != "" {
		query.Set("account_id", accountID)
	}

	path := "/api/v1/chats/" + url.PathEscape(chatID) + "/messages"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	body, _, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}
	return items(body), nil
}
