package util

import (
	"sort"
	"strings"
	"unicode"
)

// NotAttempted is the sentinel clients send when a question was shown
// but never answered.
const NotAttempted = "#"

func answerDelimiter(r rune) bool {
	return r == ',' || r == ';' || r == '|' || unicode.IsSpace(r)
}

// NormalizeAnswer canonicalizes a raw answer token into the form used for
// storage and comparison: upper-cased, de-duplicated, sorted and
// comma-joined. It returns nil for empty input or the not-attempted
// sentinel. Normalizing an already-canonical answer yields the same string.
func NormalizeAnswer(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == NotAttempted {
		return nil
	}

	parts := strings.FieldsFunc(trimmed, answerDelimiter)
	seen := make(map[string]struct{}, len(parts))
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.ToUpper(p)
		if t == "" || t == NotAttempted {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	if len(tokens) == 0 {
		return nil
	}

	sort.Strings(tokens)
	canonical := strings.Join(tokens, ",")
	return &canonical
}

// AnswersEqual compares two answers by canonical form. Two nil answers are
// not equal: a not-attempted answer matches nothing.
func AnswersEqual(a, b *string) bool {
	if a == nil || b == nil {
		return false
	}
	na := NormalizeAnswer(*a)
	nb := NormalizeAnswer(*b)
	if na == nil || nb == nil {
		return false
	}
	return *na == *nb
}
