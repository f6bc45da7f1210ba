package chat

import (
	"regexp"
	"strings"
)

// MaxMessageRunes is the hard cap applied before redaction. Oversized
// payloads would otherwise inflate provider cost and latency.
const MaxMessageRunes = 500

// RedactionMarker replaces any matched instruction-override phrase.
const RedactionMarker = "[redacted]"

// rule is one redaction step. A match that also matches keep is left alone.
type rule struct {
	pattern *regexp.Regexp
	keep    *regexp.Regexp
}

// injectionRules target known instruction-override phrasings. Rules are
// applied in order to the same running string, so one input can be redacted
// by several rules. Best-effort heuristics, not a security boundary.
var injectionRules = []rule{
	// Qualifiers may chain ("all previous instructions").
	{pattern: regexp.MustCompile(`(?i)ignore\s+(?:(?:previous|all|above|prior)\s+)+(?:instructions?|prompts?|context)`)},
	{pattern: regexp.MustCompile(`(?i)system\s*prompt`)},
	{pattern: regexp.MustCompile(`(?i)you\s+are\s+now\s+`)},
	{pattern: regexp.MustCompile(`(?i)disregard\s+(all|any|previous)`)},
	// "act as Christian ..." is a legitimate question about the site owner;
	// RE2 has no lookahead, so the carve-out is a keep-predicate on the match.
	{
		pattern: regexp.MustCompile(`(?i)act\s+as\s+\S*`),
		keep:    regexp.MustCompile(`(?i)\Aact\s+as\s+christian`),
	},
	{pattern: regexp.MustCompile(`(?i)forget\s+(all|everything|your|prior)`)},
	{pattern: regexp.MustCompile(`(?i)jailbreak`)},
	{pattern: regexp.MustCompile(`(?i)\[INST\]`)},
	{pattern: regexp.MustCompile(`(?i)<\|im_start\|>`)},
	{pattern: regexp.MustCompile(`(?i)###\s*(System|Instruction)`)},
}

// Sanitize trims, truncates to MaxMessageRunes, and redacts instruction-
// override phrases from visitor-supplied text. Output is empty only when the
// input was empty or all whitespace.
func Sanitize(raw string) string {
	s, _ := sanitize(raw)
	return s
}

func sanitize(raw string) (string, int) {
	s := strings.TrimSpace(raw)
	if runes := []rune(s); len(runes) > MaxMessageRunes {
		s = string(runes[:MaxMessageRunes])
	}

	redactions := 0
	for _, rl := range injectionRules {
		s = rl.pattern.ReplaceAllStringFunc(s, func(match string) string {
			if rl.keep != nil && rl.keep.MatchString(match) {
				return match
			}
			redactions++
			return RedactionMarker
		})
	}
	return s, redactions
}
