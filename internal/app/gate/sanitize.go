// Package gate guards the pipe between the user and the coach webhook.
// Nothing reaches the webhook without passing the gate: sanitization,
// length and content validation, and a trailing-window rate limit.
package gate

import (
	"regexp"
	"strings"
)

// blockedPatterns are prompt-injection signatures checked against sanitized
// input. Heuristic, not a real safety layer — the assistant behind the
// webhook still has to defend itself.
var blockedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|prior|above)`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?(previous|prior|above)`),
	regexp.MustCompile(`(?i)forget\s+(all\s+)?(previous|prior|above)`),
	regexp.MustCompile(`(?i)new\s+instructions?:`),
	regexp.MustCompile(`(?i)system\s*prompt`),
	regexp.MustCompile(`(?i)\[INST\]`),
	regexp.MustCompile(`(?i)\[/INST\]`),
	regexp.MustCompile(`(?i)<\|im_start\|>`),
	regexp.MustCompile(`(?i)<\|im_end\|>`),
	regexp.MustCompile(`(?i)###\s*(system|instruction)`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+a`),
	regexp.MustCompile(`(?i)pretend\s+(to\s+be|you\s+are)`),
	regexp.MustCompile(`(?i)act\s+as\s+(if\s+you\s+are|a)`),
	regexp.MustCompile(`(?i)roleplay\s+as`),
}

// leakagePatterns match instruction-delimiter families the assistant might
// echo back. Applied to replies before they are stored or displayed.
var leakagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)\[SYSTEM\].*?\[/SYSTEM\]`),
	regexp.MustCompile(`(?is)\[INST\].*?\[/INST\]`),
	regexp.MustCompile(`(?is)<\|im_start\|>.*?<\|im_end\|>`),
	regexp.MustCompile(`(?is)###\s*System.*?###`),
}

// markupPatterns strip active-content markup from replies. Defense in depth:
// the display layer escapes too, but a reply should never carry these at all.
var markupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script\b.*?</script>`),
	regexp.MustCompile(`(?is)<iframe\b.*?</iframe>`),
	regexp.MustCompile(`(?is)<object\b.*?</object>`),
	regexp.MustCompile(`(?i)<embed[^>]*>`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)javascript:`),
}

// Sanitize normalizes outgoing user text: NUL bytes and non-newline control
// characters are dropped, tabs and carriage returns become spaces, space
// runs collapse to one, and the edges are trimmed. Newlines survive intact.
// Idempotent: Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevSpace := false
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteRune('\n')
			prevSpace = false
		case r == '\t' || r == '\r' || r == ' ':
			if !prevSpace {
				b.WriteByte(' ')
			}
			prevSpace = true
		case r < 0x20 || r == 0x7F:
			// Dropped control char; does not break a space run.
		default:
			b.WriteRune(r)
			prevSpace = false
		}
	}

	return strings.TrimSpace(b.String())
}

// SanitizeReply scrubs an assistant reply of instruction-delimiter leakage
// and active-content markup. Runs to a fixed point so re-applying it is
// always a no-op.
func SanitizeReply(s string) string {
	for {
		out := s
		for _, re := range leakagePatterns {
			out = re.ReplaceAllString(out, "")
		}
		for _, re := range markupPatterns {
			out = re.ReplaceAllString(out, "")
		}
		if out == s {
			return strings.TrimSpace(out)
		}
		s = out
	}
}

// containsBlocked reports whether text matches any injection signature.
// Which signature matched is deliberately not reported.
func containsBlocked(text string) bool {
	for _, re := range blockedPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
