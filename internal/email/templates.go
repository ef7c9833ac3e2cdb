// Package email provides rendering and delivery helpers for outbound
// follow-up mail: subject normalization, template token replacement,
// HTML body assembly and an SMTP fallback sender.
package email

import "strings"

// Well-known template tokens.
const (
	TokenCalendly    = "{{calendly}}"
	TokenFirstName   = "{{firstName}}"
	TokenPartnerName = "{{partnerName}}"
)

// ApplyTemplate replaces literal tokens in text. Tokens without an entry in
// replacements are left untouched, so callers omit keys whose values are
// unknown rather than substituting empty strings.
func ApplyTemplate(text string, replacements map[string]string) string {
	result := text
	for token, value := range replacements {
		if token == "" {
			continue
		}
		result = strings.ReplaceAll(result, token, value)
	}
	return result
}

// ExtractFirstName returns the first whitespace-separated part of a full name.
func ExtractFirstName(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// NormalizeAddress lowercases and trims an email address for comparison.
func NormalizeAddress(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// ParseAddressList splits a semicolon or comma separated recipient list.
func ParseAddressList(value string) []string {
	results := make([]string, 0, 4)
	for _, part := range strings.FieldsFunc(value, func(r rune) bool {
		return r == ';' || r == ','
	}) {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

// DedupeAddresses removes duplicate addresses, comparing case-insensitively
// while preserving the original casing and order of first occurrence.
func DedupeAddresses(addresses []string) []string {
	seen := make(map[string]struct{}, len(addresses))
	results := make([]string, 0, len(addresses))
	for _, address := range addresses {
		key := NormalizeAddress(address)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		results = append(results, address)
	}
	return results
}
