package services

import (
	"html"
	"regexp"
	"strings"
)

// Input sanitation for contact submissions. Sanitizing never rejects, it only
// transforms; rejection is the validation predicates' job so the pipeline can
// collapse every failure into one generic error.

const (
	// Entities are decoded exactly twice to neutralize double-encoded
	// payloads. Intentional repetition, not a bug; the cap keeps pathological
	// input from costing unbounded work.
	entityDecodePasses = 2

	minNameLength    = 1
	maxNameLength    = 50
	minEmailLength   = 5
	maxEmailLength   = 254
	maxPhoneLength   = 20
	minMessageLength = 10
	maxMessageLength = 2000
)

var (
	scriptBlockRegex  = regexp.MustCompile(`(?is)<(script|style)\b[^>]*>.*?</(script|style)\s*>`)
	tagRegex          = regexp.MustCompile(`<[^>]*>`)
	danglingTagRegex  = regexp.MustCompile(`<[^>]*$`)
	protocolRegex     = regexp.MustCompile(`(?i)(javascript|data|vbscript)\s*:`)
	eventHandlerRegex = regexp.MustCompile(`(?i)\bon\w+\s*=`)

	// RFC 5321-ish: restricted local-part charset, dot-separated domain
	// labels, no leading or trailing hyphen per label.
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?)+$`)

	// E.164: leading + followed by 7-15 digits.
	phoneRegex = regexp.MustCompile(`^\+[0-9]{7,15}$`)
)

// sanitizeText strips anything executable out of a free-text field: decodes
// entities, removes script/style blocks and every tag-like sequence
// (terminated or not), drops dangerous protocol prefixes and inline event
// handler attributes, strips control characters except newlines, and trims.
func sanitizeText(raw string) string {
	s := raw
	for i := 0; i < entityDecodePasses; i++ {
		s = html.UnescapeString(s)
	}

	s = scriptBlockRegex.ReplaceAllString(s, "")
	s = tagRegex.ReplaceAllString(s, "")
	s = danglingTagRegex.ReplaceAllString(s, "")
	s = protocolRegex.ReplaceAllString(s, "")
	s = eventHandlerRegex.ReplaceAllString(s, "")
	s = stripControlChars(s)

	return strings.TrimSpace(s)
}

func sanitizeEmail(raw string) string {
	return strings.ToLower(sanitizeText(raw))
}

// normalizePhone reduces a phone field to E.164 shape: digits plus a leading
// +, the + prepended when missing. Empty input stays empty; non-empty input
// with no digits keeps the bare + so it fails validation instead of passing
// as absent.
func normalizePhone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	return "+" + digits.String()
}

// sanitizeSubject removes CR, LF and TAB so a user-supplied name can never
// smuggle extra headers into the subject line. Separate from the general
// sanitizer: header injection is a different surface than body HTML.
func sanitizeSubject(raw string) string {
	s := strings.NewReplacer("\r", "", "\n", "", "\t", "").Replace(raw)
	return strings.TrimSpace(s)
}

func stripControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Validation predicates. Each is independently testable; the pipeline runs
// all of them and reports a single generic failure.
// ---------------------------------------------------------------------------

func isValidName(name string) bool {
	n := len([]rune(name))
	return n >= minNameLength && n <= maxNameLength
}

func isValidEmail(email string) bool {
	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return false
	}
	return emailRegex.MatchString(email)
}

// isValidPhone accepts the empty string: phone is optional.
func isValidPhone(phone string) bool {
	if phone == "" {
		return true
	}
	if len(phone) > maxPhoneLength {
		return false
	}
	return phoneRegex.MatchString(phone)
}

func isValidMessage(message string) bool {
	n := len([]rune(message))
	return n >= minMessageLength && n <= maxMessageLength
}
