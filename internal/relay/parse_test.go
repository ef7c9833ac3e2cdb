package relay

import (
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		name string
		json string
		want time.Time
		ok   bool
	}{
		{"iso string", `{"sent_at":"2026-03-01T10:00:00Z"}`, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), true},
		{"epoch millis", `{"timestamp":1767225600000}`, time.UnixMilli(1767225600000).UTC(), true},
		{"epoch seconds", `{"ts":1767225600}`, time.UnixMilli(1767225600000).UTC(), true},
		{"numeric string millis", `{"created_at":"1767225600000"}`, time.UnixMilli(1767225600000).UTC(), true},
		{"prefers sent_at", `{"sent_at":"2026-03-01T10:00:00Z","created_at":"2020-01-01T00:00:00Z"}`, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), true},
		{"no timestamp", `{"text":"hi"}`, time.Time{}, false},
		{"blank string", `{"sent_at":"  "}`, time.Time{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseTimestamp(gjson.Parse(tc.json))
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && !got.Equal(tc.want) {
				t.Fatalf("timestamp = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExtractMessageText(t *testing.T) {
	cases := []struct {
		name string
		json string
		want string
	}{
		{"direct text", `{"text":" hello "}`, "hello"},
		{"nested body", `{"body":{"content":"nested"}}`, "nested"},
		{"body segments", `{"bodySegments":["  ", "seg text"]}`, "seg text"},
		{"fallback key", `{"snippet":"preview text"}`, "preview text"},
		{"nothing", `{"attachments":[]}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractMessageText(gjson.Parse(tc.json)); got != tc.want {
				t.Fatalf("ExtractMessageText = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIsFromContact(t *testing.T) {
	cases := []struct {
		name   string
		json   string
		target string
		want   bool
	}{
		{"is_sender false means contact", `{"is_sender":false}`, "abc", true},
		{"is_sender true means owner", `{"is_sender":true}`, "abc", false},
		{"sender id matches target", `{"sender_id":"ABC"}`, "abc", true},
		{"sender id differs", `{"sender_id":"other"}`, "abc", false},
		{"nested sender id", `{"sender":{"provider_id":"abc"}}`, "abc", true},
		{"no sender info defaults true", `{"text":"hi"}`, "abc", true},
		{"sender present no target defaults true", `{"sender_id":"x"}`, "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsFromContact(gjson.Parse(tc.json), tc.target); got != tc.want {
				t.Fatalf("IsFromContact = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFindChatID(t *testing.T) {
	chats := []Chat{
		{ID: "c1", ProviderID: "prov-1"},
		{ID: "c2", AttendeeProviderID: "prov-2"},
		{ID: "c3", NameSlug: "jane-doe"},
	}

	if got := FindChatID(chats, "PROV-1"); got != "c1" {
		t.Fatalf("provider match = %q, want c1", got)
	}
	if got := FindChatID(chats, "prov-2"); got != "c2" {
		t.Fatalf("attendee match = %q, want c2", got)
	}
	if got := FindChatID(chats, "jane-doe"); got != "c3" {
		t.Fatalf("slug match = %q, want c3", got)
	}
	if got := FindChatID(chats, "jane-doe-4a5b"); got != "c3" {
		t.Fatalf("slug prefix match = %q, want c3", got)
	}
	if got := FindChatID(chats, "nobody"); got != "" {
		t.Fatalf("unexpected match %q", got)
	}
	if got := FindChatID(chats, ""); got != "" {
		t.Fatalf("empty target matched %q", got)
	}
}

func TestNormalizeChatCandidate(t *testing.T) {
	chat := normalizeChatCandidate(gjson.Parse(`{
		"chat_id": " C9 ",
		"provider": "linkedin",
		"providerId": "Prov-X",
		"name": "Jane Doe"
	}`))

	if chat.ID != "C9" {
		t.Fatalf("ID = %q", chat.ID)
	}
	if chat.Provider != "LINKEDIN" {
		t.Fatalf("Provider = %q", chat.Provider)
	}
	if chat.ProviderID != "prov-x" {
		t.Fatalf("ProviderID = %q", chat.ProviderID)
	}
	if chat.NameSlug != "jane-doe" {
		t.Fatalf("NameSlug = %q", chat.NameSlug)
	}
}
