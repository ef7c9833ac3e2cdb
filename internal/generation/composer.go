// Package generation drafts follow-up copy with Gemini. The composer writes
// the message; the reconciliation core decides when to send it.
package generation

import (
	"context"
	"fmt"
	"strings"

	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"

	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

// ComposeInput describes the outreach a follow-up should be drafted for.
type ComposeInput struct {
	Channel      string
	ContactName  string
	CompanyName  string
	PartnerName  string
	PriorMessage string
	Tone         string
}

// ComposeResult is a drafted follow-up.
type ComposeResult struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Composer drafts follow-up messages.
type Composer struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

// NewComposer creates the Gemini-backed composer. It returns nil when no API
// key is configured, in which case the generation endpoint is not mounted.
func NewComposer(ctx context.Context, cfg config.GenerationConfig, log *logger.Logger) (*Composer, error) {
	if !cfg.IsGenerationEnabled() {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GetGeminiAPIKey(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Composer{client: client, model: cfg.GetGenerationModel(), log: log}, nil
}

// ComposeFollowUp drafts a follow-up for the given outreach. The model is
// asked for JSON so the subject and body come back separately.
func (c *Composer) ComposeFollowUp(ctx context.Context, input ComposeInput) (ComposeResult, error) {
	prompt := buildComposePrompt(input)

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(composeSystemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return ComposeResult{}, fmt.Errorf("generate follow-up: %w", err)
	}

	raw := strings.TrimSpace(resp.Text())
	parsed := gjson.Parse(raw)

	result := ComposeResult{
		Subject: strings.TrimSpace(parsed.Get("subject").String()),
		Body:    strings.TrimSpace(parsed.Get("body").String()),
	}
	if result.Body == "" {
		// Some models ignore the JSON instruction; fall back to the raw text.
		result.Body = raw
	}
	if result.Body == "" {
		return ComposeResult{}, fmt.Errorf("model returned an empty follow-up")
	}
	return result, nil
}

const composeSystemPrompt = `You write short, friendly business follow-up messages.
Rules:
- Keep template tokens like {{firstName}}, {{calendly}} and {{partnerName}} exactly as written. Never expand or remove them.
- Two to four sentences. No subject prefixes like "Re:".
- Reply with JSON: {"subject": "...", "body": "..."}. For LinkedIn messages the subject may be empty.`

func buildComposePrompt(input ComposeInput) string {
	var b strings.Builder
	channel := strings.ToLower(strings.TrimSpace(input.Channel))
	if channel == "" {
		channel = "email"
	}
	fmt.Fprintf(&b, "Draft a %s follow-up.\n", channel)

	if input.ContactName != "" {
		fmt.Fprintf(&b, "Contact: %s\n", input.ContactName)
	}
	if input.CompanyName != "" {
		fmt.Fprintf(&b, "Company: %s\n", input.CompanyName)
	}
	if input.PartnerName != "" {
		fmt.Fprintf(&b, "Partner to mention: %s\n", input.PartnerName)
	}
	if input.Tone != "" {
		fmt.Fprintf(&b, "Tone: %s\n", input.Tone)
	}
	if input.PriorMessage != "" {
		fmt.Fprintf(&b, "\nThe original outreach was:\n%s\n", input.PriorMessage)
	}
	return b.String()
}
