package relay

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

var timestampKeys = []string{
	"sent_at", "created_at", "updated_at", "delivered_at",
	"timestamp", "date", "sentAt", "createdAt", "ts",
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// ParseTimestamp extracts a message timestamp from whichever field the relay
// populated. Numeric values above 1e12 are treated as milliseconds, smaller
// ones as seconds.
func ParseTimestamp(message gjson.Result) (time.Time, bool) {
	for _, key := range timestampKeys {
		value := message.Get(key)
		if !value.Exists() || value.Type == gjson.Null {
			continue
		}

		switch value.Type {
		case gjson.Number:
			if ts, ok := epochToTime(value.Float()); ok {
				return ts, true
			}
		case gjson.String:
			trimmed := strings.TrimSpace(value.String())
			if trimmed == "" {
				continue
			}
			if digitsOnly.MatchString(trimmed) {
				numeric, err := strconv.ParseFloat(trimmed, 64)
				if err != nil {
					continue
				}
				if ts, ok := epochToTime(numeric); ok {
					return ts, true
				}
				continue
			}
			if ts, err := time.Parse(time.RFC3339, trimmed); err == nil {
				return ts, true
			}
			if ts, err := time.Parse("2006-01-02T15:04:05.000Z07:00", trimmed); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

func epochToTime(value float64) (time.Time, bool) {
	if value <= 0 {
		return time.Time{}, false
	}
	ms := int64(value)
	if value <= 1e12 {
		ms = int64(value * 1000)
	}
	return time.UnixMilli(ms).UTC(), true
}

var messageTextKeys = []string{
	"text", "body", "body_text", "bodyText", "content",
	"message", "preview", "snippet", "caption", "comment",
}

// ExtractMessageText finds the first non-empty text field in a message,
// descending into nested objects when a text key holds another object.
func ExtractMessageText(message gjson.Result) string {
	if message.Type == gjson.String {
		return strings.TrimSpace(message.String())
	}
	if !message.IsObject() {
		return ""
	}

	stack := []gjson.Result{message}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, key := range messageTextKeys {
			value := current.Get(key)
			if !value.Exists() {
				continue
			}
			if value.Type == gjson.String {
				if trimmed := strings.TrimSpace(value.String()); trimmed != "" {
					return trimmed
				}
			} else if value.IsObject() {
				stack = append(stack, value)
			}
		}

		if segments := current.Get("bodySegments"); segments.IsArray() {
			for _, segment := range segments.Array() {
				if segment.Type == gjson.String {
					if trimmed := strings.TrimSpace(segment.String()); trimmed != "" {
						return trimmed
					}
				} else if segment.IsObject() {
					stack = append(stack, segment)
				}
			}
		}
	}
	return ""
}

var senderIDPaths = []string{
	"sender_id", "senderId",
	"sender.provider_id", "sender.providerId", "sender.id",
	"sender.identifier", "sender.linkedin_id", "sender.linkedinId",
	"author.provider_id", "author.id",
}

// IsFromContact reports whether a chat message was authored by the contact
// rather than the account owner. The relay's is_sender flag is authoritative
// when present; otherwise sender ids are compared against the contact's
// provider id, defaulting to true when nothing identifies the sender.
func IsFromContact(message gjson.Result, targetProvider string) bool {
	if !message.Exists() {
		return false
	}

	for _, key := range []string{"is_sender", "isSender"} {
		flag := message.Get(key)
		if flag.Type == gjson.False {
			return true
		}
		if flag.Type == gjson.True {
			return false
		}
	}

	senders := make([]string, 0, 2)
	for _, path := range senderIDPaths {
		value := message.Get(path)
		if value.Exists() && value.String() != "" {
			senders = append(senders, strings.ToLower(value.String()))
		}
	}

	if len(senders) > 0 && targetProvider != "" {
		target := strings.ToLower(targetProvider)
		for _, sender := range senders {
			if sender == target {
				return true
			}
		}
		return false
	}

	return true
}
