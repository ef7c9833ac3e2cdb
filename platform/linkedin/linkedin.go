// Package linkedin provides normalization helpers for LinkedIn profile
// references. Profiles arrive in many shapes (full URLs, bare slugs,
// "in/..." paths, mailto links pasted by mistake) and the messaging relay
// needs a single canonical form.
package linkedin

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	slugPattern     = regexp.MustCompile(`(?i)^[a-z0-9][a-z0-9-_]{1,100}$`)
	nonAlnumRuns    = regexp.MustCompile(`[^a-z0-9]+`)
	linkedInHostHit = regexp.MustCompile(`(?i)linkedin\.com`)
	httpPrefix      = regexp.MustCompile(`(?i)^https?:`)
	httpScheme      = regexp.MustCompile(`(?i)^https?://`)
	wwwPrefix       = regexp.MustCompile(`(?i)^www\.`)
	inPathPrefix    = regexp.MustCompile(`(?i)^in/`)
	companyPrefix   = regexp.MustCompile(`(?i)^company/`)
)

// ExtractIdentifier pulls the bare profile identifier out of a LinkedIn
// reference. Accepts full profile URLs, "in/<slug>" paths, company paths
// and plain slugs. Returns "" when no identifier can be extracted, in
// particular for email addresses.
func ExtractIdentifier(value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return ""
	}

	if strings.HasPrefix(strings.ToLower(raw), "mailto:") {
		raw = strings.TrimSpace(raw[len("mailto:"):])
	}

	if httpPrefix.MatchString(raw) {
		if parsed, err := url.Parse(raw); err == nil {
			segments := splitPath(parsed.Path)
			if len(segments) == 0 {
				raw = ""
			} else {
				raw = segments[len(segments)-1]
			}
		} else {
			raw = httpScheme.ReplaceAllString(raw, "")
		}
	}

	if idx := strings.IndexAny(raw, "?#"); idx >= 0 {
		raw = raw[:idx]
	}
	raw = inPathPrefix.ReplaceAllString(raw, "")
	raw = companyPrefix.ReplaceAllString(raw, "")
	raw = strings.Trim(raw, "/")

	if raw == "" || strings.Contains(raw, "@") {
		return ""
	}
	return raw
}

// CanonicalProfileURL normalizes a LinkedIn reference into the canonical
// https://www.linkedin.com/in/<identifier> form. Inputs that look neither
// like a LinkedIn URL nor like a profile slug yield "".
func CanonicalProfileURL(value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return ""
	}

	looksLikeURL := linkedInHostHit.MatchString(raw) || httpPrefix.MatchString(raw) || wwwPrefix.MatchString(raw)
	looksLikeSlug := inPathPrefix.MatchString(raw) || slugPattern.MatchString(raw)
	if !looksLikeURL && !looksLikeSlug {
		return ""
	}

	identifier := ExtractIdentifier(raw)
	if identifier == "" {
		return ""
	}
	return "https://www.linkedin.com/in/" + identifier
}

// SlugifyName converts a display name into a slug comparable with the
// identifier embedded in public profile URLs.
func SlugifyName(value string) string {
	slug := strings.ToLower(strings.TrimSpace(value))
	slug = nonAlnumRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func splitPath(path string) []string {
	segments := make([]string, 0, 4)
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
