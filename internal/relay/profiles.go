package relay

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// Profile is a LinkedIn profile as seen through the relay.
type Profile struct {
	ProviderID  string
	IsConnected bool
	Raw         gjson.Result
}

// FetchProfile looks up a LinkedIn profile by public identifier. A 422 from
// the relay means the profile is unreachable for this account; that is
// reported as a nil profile rather than an error.
func (c *Client) FetchProfile(ctx context.Context, accountID, identifier string) (*Profile, error) {
	query := url.Values{}
	query.Set("account_id", accountID)
	query.Set("linkedin_sections", "*")

	path := "/api/v1/users/" + url.PathEscape(identifier) + "?" + query.Encode()
	body, status, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		if status == http.StatusUnprocessableEntity {
			c.log.Debug("linkedin profile unreachable", "account_id", accountID, "identifier", identifier)
			return nil, nil
		}
		return nil, err
	}

	providerID := strings.TrimSpace(firstString(body, "provider_id", "id", "providerId", "public_identifier", "publicIdentifier"))
	connected := body.Get("is_relationship").Bool() ||
		strings.ToUpper(body.Get("network_distance").String()) == "FIRST_DEGREE"

	return &Profile{
		ProviderID:  providerID,
		IsConnected: connected,
		Raw:         body,
	}, nil
}

// Account is a relay-connected messaging account.
type Account struct {
	ID       string
	Provider string
	Name     string
}

// ListAccounts fetches all accounts connected to the relay workspace.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	body, _, err := c.do(ctx, http.MethodGet, "/api/v1/accounts", "", nil)
	if err != nil {
		return nil, err
	}

	candidates := items(body)
	accounts := make([]Account, 0, len(candidates))
	for _, candidate := range candidates {
		account := Account{
			ID:       strings.TrimSpace(firstString(candidate, "account_id", "id")),
			Provider: strings.ToUpper(strings.TrimSpace(firstString(candidate, "provider", "type"))),
			Name:     strings.TrimSpace(firstString(candidate, "display_name", "name", "label")),
		}
		if account.ID == "" {
			continue
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}
