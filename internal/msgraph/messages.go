package msgraph

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const messageSelect = "id,conversationId,sentDateTime,subject,from"

// Me returns the signed-in user's primary mailbox address, lowercased.
func (c *Client) Me(ctx context.Context, token string) (string, error) {
	var profile profileResponse
	if err := c.doJSON(ctx, http.MethodGet, "/me?$select=mail,userPrincipalName", token, nil, nil, &profile); err != nil {
		return "", err
	}
	address := profile.Mail
	if address == "" {
		address = profile.UserPrincipalName
	}
	address = strings.ToLower(strings.TrimSpace(address))
	if address == "" {
		return "", fmt.Errorf("graph profile has no mailbox address")
	}
	return address, nil
}

// GetMessage fetches a single message by id.
func (c *Client) GetMessage(ctx context.Context, token, messageID string) (*Message, error) {
	var msg Message
	path := "/me/messages/" + url.PathEscape(messageID) + "?$select=" + messageSelect
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListConversation lists messages in a conversation, newest first.
func (c *Client) ListConversation(ctx context.Context, token, conversationID string) ([]Message, error) {
	query := url.Values{}
	query.Set("$filter", "conversationId eq "+ODataQuote(conversationID))
	query.Set("$orderby", "receivedDateTime desc")
	query.Set("$top", "50")
	query.Set("$select", "id,from,receivedDateTime,conversationId,sentDateTime,subject")

	var list listResponse
	if err := c.doJSON(ctx, http.MethodGet, "/me/messages?"+query.Encode(), token, nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Value, nil
}

// HasInboxMessageFrom reports whether the inbox holds any message from the
// given address, optionally restricted to messages received at or after since.
func (c *Client) HasInboxMessageFrom(ctx context.Context, token, address string, since time.Time) (bool, error) {
	filters := []string{"from/emailAddress/address eq " + ODataQuote(strings.ToLower(address))}
	if !since.IsZero() {
		filters = append(filters, "receivedDateTime ge "+since.UTC().Format(time.RFC3339))
	}

	query := url.Values{}
	query.Set("$filter", strings.Join(filters, " and "))
	query.Set("$top", "1")
	query.Set("$select", "id")

	var list listResponse
	if err := c.doJSON(ctx, http.MethodGet, "/me/mailFolders/inbox/messages?"+query.Encode(), token, nil, nil, &list); err != nil {
		return false, err
	}
	return len(list.Value) > 0, nil
}

// ListInboxFrom lists recent inbox messages from the given address, newest first.
func (c *Client) ListInboxFrom(ctx context.Context, token, address string) ([]Message, error) {
	query := url.Values{}
	query.Set("$filter", "from/emailAddress/address eq "+ODataQuote(strings.ToLower(address)))
	query.Set("$orderby", "receivedDateTime desc")
	query.Set("$top", "25")
	query.Set("$select", "id,receivedDateTime")

	var list listResponse
	if err := c.doJSON(ctx, http.MethodGet, "/me/mailFolders/inbox/messages?"+query.Encode(), token, nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Value, nil
}

// ListSentByConversation lists sent items in a conversation authored by the
// given mailbox, newest first.
func (c *Client) ListSentByConversation(ctx context.Context, token, conversationID, myAddress string) ([]Message, error) {
	filter := "conversationId eq " + ODataQuote(conversationID) +
		" and from/emailAddress/address eq " + ODataQuote(myAddress)

	query := url.Values{}
	query.Set("$filter", filter)
	query.Set("$orderby", "sentDateTime desc")
	query.Set("$top", "100")
	query.Set("$select", messageSelect)

	var list listResponse
	if err := c.doJSON(ctx, http.MethodGet, "/me/mailFolders/sentitems/messages?"+query.Encode(), token, nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Value, nil
}

// ListSentHeuristic lists sent items matching a best-effort reconstruction of
// the anchor message: authored by the mailbox, subject prefix, any of the
// recipients, sent after the floor.
func (c *Client) ListSentHeuristic(ctx context.Context, token, myAddress, subjectBase string, recipients []string, floor time.Time) ([]Message, error) {
	parts := []string{"from/emailAddress/address eq " + ODataQuote(myAddress)}
	if subjectBase != "" {
		parts = append(parts, "startswith(subject, "+ODataQuote(subjectBase)+")")
	}
	if expr := anyRecipientExpr(recipients); expr != "" {
		parts = append(parts, expr)
	}
	parts = append(parts, "sentDateTime ge "+floor.UTC().Format(time.RFC3339))

	query := url.Values{}
	query.Set("$filter", strings.Join(parts, " and "))
	query.Set("$orderby", "sentDateTime desc")
	query.Set("$top", "100")
	query.Set("$select", messageSelect)

	var list listResponse
	if err := c.doJSON(ctx, http.MethodGet, "/me/mailFolders/sentitems/messages?"+query.Encode(), token, nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Value, nil
}

func anyRecipientExpr(recipients []string) string {
	clauses := make([]string, 0, len(recipients))
	for _, addr := range recipients {
		trimmed := strings.ToLower(strings.TrimSpace(addr))
		if trimmed == "" {
			continue
		}
		clauses = append(clauses, "a/emailAddress/address eq "+ODataQuote(trimmed))
	}
	if len(clauses) == 0 {
		return ""
	}
	return "(toRecipients/any(a: " + strings.Join(clauses, " or ") + "))"
}

// SearchMessages runs a $search query over the mailbox. Graph requires the
// ConsistencyLevel header for search requests.
func (c *Client) SearchMessages(ctx context.Context, token, search string, top int, selectFields string) ([]Message, error) {
	query := url.Values{}
	query.Set("$search", search)
	query.Set("$top", strconv.Itoa(top))
	query.Set("$select", selectFields)

	headers := map[string]string{"ConsistencyLevel": "eventual"}

	var list listResponse
	if err := c.doJSON(ctx, http.MethodGet, "/me/messages?"+query.Encode(), token, headers, nil, &list); err != nil {
		return nil, err
	}
	return list.Value, nil
}

// CreateReplyAllDraft creates a reply-all draft for the given message and
// returns the draft, including the quoted thread body.
func (c *Client) CreateReplyAllDraft(ctx context.Context, token, messageID string) (*Message, error) {
	var draft Message
	path := "/me/messages/" + url.PathEscape(messageID) + "/createReplyAll"
	if err := c.doJSON(ctx, http.MethodPost, path, token, nil, nil, &draft); err != nil {
		return nil, err
	}
	if draft.ID == "" {
		return nil, fmt.Errorf("graph createReplyAll returned no draft id")
	}
	return &draft, nil
}

// UpdateDraftBody replaces a draft's body with the given HTML content.
func (c *Client) UpdateDraftBody(ctx context.Context, token, messageID, html string) error {
	payload := map[string]interface{}{
		"body": map[string]string{"contentType": "HTML", "content": html},
	}
	path := "/me/messages/" + url.PathEscape(messageID)
	return c.doJSON(ctx, http.MethodPatch, path, token, nil, payload, nil)
}

// SendDraft sends a previously created draft.
func (c *Client) SendDraft(ctx context.Context, token, messageID string) error {
	path := "/me/messages/" + url.PathEscape(messageID) + "/send"
	return c.doJSON(ctx, http.MethodPost, path, token, nil, nil, nil)
}

// SendMail sends a standalone HTML message and saves it to sent items.
func (c *Client) SendMail(ctx context.Context, token, to, subject, htmlBody string) error {
	payload := map[string]interface{}{
		"message": map[string]interface{}{
			"subject": subject,
			"body":    map[string]string{"contentType": "HTML", "content": htmlBody},
			"toRecipients": []map[string]interface{}{
				{"emailAddress": map[string]string{"address": to}},
			},
		},
		"saveToSentItems": true,
	}
	return c.doJSON(ctx, http.MethodPost, "/me/sendMail", token, nil, payload, nil)
}
