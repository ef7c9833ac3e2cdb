package email

import (
	"fmt"
	"regexp"
	"strings"
)

const partnerForwardSubjectFmt = "Forward to partner: %s"

// replyPrefixes covers the reply/forward markers mail clients prepend,
// including the German variants Outlook produces.
var replyPrefixes = regexp.MustCompile(`(?i)^((re|fwd|fw|aw|antwort|wg|betreff|tr)(\s*:\s*|\s+))+`)

// NormalizeSubject strips leading reply/forward prefixes so threads can be
// matched by their base subject. Applying it twice yields the same result.
func NormalizeSubject(subject string) string {
	return strings.TrimSpace(replyPrefixes.ReplaceAllString(subject, ""))
}

// PartnerForwardSubject synthesizes the subject line used when forwarding
// a company introduction to a partner.
func PartnerForwardSubject(companyName string) string {
	return fmt.Sprintf(partnerForwardSubjectFmt, companyName)
}
