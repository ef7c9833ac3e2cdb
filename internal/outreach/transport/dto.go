// Package transport defines request and response DTOs for the sweep API.
package transport

import "outreach_backend/internal/outreach/service"

// SweepUser identifies the sweeping user. The email may be omitted when the
// access token already carries it.
type SweepUser struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Name     string `json:"name" validate:"max=200"`
	LinkedIn string `json:"linkedin" validate:"max=500"`
}

// SweepRequest triggers a reconciliation sweep with the provider credentials
// captured on the client.
type SweepRequest struct {
	User             SweepUser `json:"user"`
	MSToken          string    `json:"msToken"`
	UnipileAccountID string    `json:"unipileAccountId"`
	ForceDeepCheck   bool      `json:"forceDeepCheck"`
}

// ToInput maps the request onto the service input, using fallbackEmail when
// the request carries no address.
func (r SweepRequest) ToInput(fallbackEmail string) service.SweepInput {
	email := r.User.Email
	if email == "" {
		email = fallbackEmail
	}
	return service.SweepInput{
		UserEmail:      email,
		UserName:       r.User.Name,
		UserLinkedIn:   r.User.LinkedIn,
		GraphToken:     r.MSToken,
		RelayAccountID: r.UnipileAccountID,
		ForceDeepCheck: r.ForceDeepCheck,
	}
}
