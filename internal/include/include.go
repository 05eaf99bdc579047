// Package include extracts line ranges and anchored regions from file
// content, applying a shift to the extracted lines.
package include

import (
	"regexp"
	"strings"

	"shiftinclude/shift"
)

// All marks an unbounded side of a line window in TakeLines.
const All = -1

var (
	anchorStart = regexp.MustCompile(`ANCHOR:\s*([\w_-]+)`)
	anchorEnd   = regexp.MustCompile(`ANCHOR_END:\s*([\w_-]+)`)
)

// splitLines splits s into lines without their trailing newline. A final
// newline does not produce a trailing empty line, and a trailing carriage
// return is stripped from each line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// TakeLines returns the zero-based half-open line window [from, to) of s
// with the shift applied, joined with newlines. Either bound may be All.
// Out-of-range bounds clamp; an inverted window is empty.
func TakeLines(s string, from, to int, spec shift.Spec) string {
	lines := splitLines(s)
	if from == All {
		from = 0
	}
	if from > len(lines) {
		from = len(lines)
	}
	if to == All || to > len(lines) {
		to = len(lines)
	}
	if to < from {
		to = from
	}
	return strings.Join(shift.Apply(spec, lines[from:to]), "\n")
}

// TakeAnchoredLines returns the lines of s between the ANCHOR and
// ANCHOR_END markers for the named anchor, with the shift applied. Lines
// carrying anchor markers themselves are dropped. An anchor that never
// opens yields an empty result.
func TakeAnchoredLines(s, anchor string, spec shift.Spec) string {
	var retained []string
	found := false

	for _, l := range splitLines(s) {
		if found {
			if m := anchorEnd.FindStringSubmatch(l); m != nil {
				if m[1] == anchor {
					break
				}
			} else if !anchorStart.MatchString(l) {
				retained = append(retained, l)
			}
		} else if m := anchorStart.FindStringSubmatch(l); m != nil && m[1] == anchor {
			found = true
		}
	}

	return strings.Join(shift.Apply(spec, retained), "\n")
}

// HasAnchor reports whether the named anchor opens anywhere in s.
func HasAnchor(s, anchor string) bool {
	for _, l := range splitLines(s) {
		if m := anchorStart.FindStringSubmatch(l); m != nil && m[1] == anchor {
			return true
		}
	}
	return false
}
