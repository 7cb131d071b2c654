// Package identity derives cluster-safe identifiers for a launched worker.
//
// The worker's pod is tagged with a label derived from the human-provided
// interpreter group id plus the launch timestamp. Sanitization keeps the
// value inside the character set accepted both by Kubernetes labels and by
// the submission tooling that carries the id on its command line. The
// timestamp keeps back-to-back launches of the same group apart, so
// uniqueness is probabilistic, not guaranteed.
package identity

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	// GroupLabelMaxLength bounds the sanitized interpreter group id.
	GroupLabelMaxLength = 50

	// ProcessLabelMaxLength bounds the derived per-process label. 64 is the
	// Kubernetes label value limit plus one; see Sanitize for why the output
	// always stays strictly below the bound.
	ProcessLabelMaxLength = 64
)

// Sanitize maps every character outside [A-Za-z0-9] to '_', lowercases the
// result, and truncates it to maxLength-1 characters once it reaches
// maxLength. The boundary case is deliberate: an input landing exactly on
// maxLength still loses its final character, so the output length is always
// strictly less than maxLength. Downstream name derivation depends on this
// headroom and tests pin it.
func Sanitize(s string, maxLength int) string {
	s = strings.Map(func(r rune) rune {
		if isAlphanumeric(r) {
			return unicode.ToLower(r)
		}
		return '_'
	}, s)
	// All runes are ASCII after the mapping, so byte slicing is safe.
	if len(s) >= maxLength {
		s = s[:maxLength-1]
	}
	return s
}

// ProcessLabel derives the label value used to tag and later re-find one
// worker's pod. Two calls within the same millisecond yield the same label;
// calls in different milliseconds yield different ones.
func ProcessLabel(groupID string, now time.Time) string {
	return Sanitize(groupID+"_"+strconv.FormatInt(now.UnixMilli(), 10), ProcessLabelMaxLength)
}

// GroupLabel sanitizes the interpreter group id for use on the submission
// command line.
func GroupLabel(groupID string) string {
	return Sanitize(groupID, GroupLabelMaxLength)
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
