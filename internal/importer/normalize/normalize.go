// Package normalize converts raw import fields into canonical typed values.
// Every function here is deterministic and total: bad input degrades to a
// zero value, never an error, because a malformed cell must not cost the
// row its chance to match.
package normalize

import (
	"strings"
	"time"
)

// Phone reduces a phone number to its digits. "(555) 123-4567",
// "555-123-4567", and "5551234567" all normalize to the same key.
func Phone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Email lower-cases and trims an email address.
func Email(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Name trims and collapses internal whitespace.
func Name(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

var dateLayouts = []string{
	"2006-1-2", // already canonical (also accepts unpadded)
	"1/2/2006",
	"1-2-2006",
}

// Date coerces a date-like value to YYYY-MM-DD. Accepts the canonical form,
// MM/DD/YYYY, and MM-DD-YYYY (padded or not). Unparseable input normalizes
// to the empty string.
func Date(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// Bool parses a fixed vocabulary. true/yes/y/1 are true; everything else,
// including empty, "n/a", and unrecognized strings, is false.
func Bool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "y", "1":
		return true
	default:
		return false
	}
}

var (
	paymentPositive  = []string{"paid", "complete", "waived", "yes"}
	paymentNegative  = []string{"not", "unpaid", "pending", "owed", "due", "n/a", "no"}
	workbondPositive = []string{"received", "returned", "complete", "waived", "exempt", "yes"}
	workbondNegative = []string{"not", "missing", "pending", "outstanding", "n/a", "no"}
)

// PaymentOK classifies a free-text payment status. Ambiguous or empty input
// classifies as unpaid: the safer state for a status we cannot read.
func PaymentOK(raw string) bool {
	return classify(raw, paymentPositive, paymentNegative)
}

// WorkbondReceived classifies a free-text workbond status with the same
// negative-default bias as PaymentOK.
func WorkbondReceived(raw string) bool {
	return classify(raw, workbondPositive, workbondNegative)
}

// classify checks the negative vocabulary first so "not paid" never reads
// as paid through substring containment.
func classify(raw string, positive, negative []string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return false
	}
	for _, neg := range negative {
		if strings.Contains(s, neg) {
			return false
		}
	}
	for _, pos := range positive {
		if strings.Contains(s, pos) {
			return true
		}
	}
	return false
}
