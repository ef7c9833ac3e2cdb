package service

// Outcome is the terminal state of dispatching one follow-up task.
type Outcome string

const (
	// OutcomeSent means the follow-up went out and the task was completed.
	OutcomeSent Outcome = "sent"
	// OutcomeResponded means the contact already replied; the task was
	// completed without sending anything.
	OutcomeResponded Outcome = "responded"

	// OutcomeMissingTemplate means no follow-up text was stored with the task.
	OutcomeMissingTemplate Outcome = "missing_template"
	// OutcomeMissingContext means the task carries no outreach context.
	OutcomeMissingContext Outcome = "missing_context"
	// OutcomeMissingPartner means a partner forward has no partner address.
	OutcomeMissingPartner Outcome = "missing_partner"
	// OutcomeMissingLinkedIn means no LinkedIn reference resolves for the contact.
	OutcomeMissingLinkedIn Outcome = "missing_linkedin"
	// OutcomeMissingAccount means no messaging relay account is available.
	OutcomeMissingAccount Outcome = "missing_account"
	// OutcomeMissingMessage means the LinkedIn message rendered empty.
	OutcomeMissingMessage Outcome = "missing_message"

	// OutcomeTokenUnavailable means the mailbox token was not provided.
	OutcomeTokenUnavailable Outcome = "token_unavailable"
	// OutcomeNoAnchor means no anchor message could be located to reply to.
	OutcomeNoAnchor Outcome = "no_anchor"
	// OutcomeError means a provider call failed; the task stays scheduled.
	OutcomeError Outcome = "error"
)

// Completed reports whether the outcome finishes the task.
func (o Outcome) Completed() bool {
	return o == OutcomeSent || o == OutcomeResponded
}
