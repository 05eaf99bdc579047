// Package shift parses shift specifications and re-indents blocks of lines.
//
// A shift spec is the token between the directive name and the first colon
// in a shiftinclude directive: "auto", or a signed base-10 integer. A
// positive value indents every line right by that many spaces, a negative
// value strips that many leading characters, and "auto" strips the longest
// whitespace prefix common to all non-empty lines.
package shift

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Kind selects which transform a Spec describes.
type Kind int

const (
	// KindRight prepends N spaces to every line.
	KindRight Kind = iota
	// KindLeft removes the first N runes of every line.
	KindLeft
	// KindAuto removes the longest whitespace prefix common to all
	// non-empty lines.
	KindAuto
)

// Spec describes how included lines are re-indented. The zero value is a
// no-op right shift.
type Spec struct {
	Kind Kind
	// N is the column count for right and left shifts, always >= 0.
	// Columns are counted in runes. Unused for KindAuto.
	N int
}

// Right returns a spec that prepends n spaces to every line.
func Right(n int) Spec { return Spec{Kind: KindRight, N: n} }

// Left returns a spec that removes the first n runes of every line.
func Left(n int) Spec { return Spec{Kind: KindLeft, N: n} }

// Auto returns a spec that strips the common leading whitespace.
func Auto() Spec { return Spec{Kind: KindAuto} }

// InvalidShiftTokenError reports a shift token that is neither "auto" nor
// a signed integer.
type InvalidShiftTokenError struct {
	Token string
}

func (e *InvalidShiftTokenError) Error() string {
	return fmt.Sprintf("invalid shift token %q: expected \"auto\" or a signed integer", e.Token)
}

// Parse parses a shift-spec token. The token must be exactly "auto" or a
// base-10 signed integer with no surrounding whitespace. A value >= 0
// parses to a right shift, a value < 0 to a left shift of its magnitude.
func Parse(token string) (Spec, error) {
	if token == "auto" {
		return Auto(), nil
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return Spec{}, &InvalidShiftTokenError{Token: token}
	}
	if n < 0 {
		return Left(-n), nil
	}
	return Right(n), nil
}

// Apply transforms every line according to spec and returns a new slice.
// It never fails: a left shift longer than a line clamps that line to
// empty. The input slice is not modified.
func Apply(spec Spec, lines []string) []string {
	resolved := resolve(spec, lines)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = shiftLine(l, resolved)
	}
	return out
}

// resolve turns an auto spec into the equivalent fixed left shift for the
// given block. Fixed specs pass through unchanged.
func resolve(spec Spec, lines []string) Spec {
	if spec.Kind != KindAuto {
		return spec
	}
	return Left(len([]rune(commonLeadingWhitespace(lines))))
}

// commonLeadingWhitespace returns the longest whitespace-only prefix
// shared by every line of non-zero length. Empty lines do not take part
// in the calculation. A block with no non-empty lines has an empty prefix.
func commonLeadingWhitespace(lines []string) string {
	var common []rune
	first := true
	for _, line := range lines {
		if line == "" {
			continue
		}
		ws := leadingWhitespace(line)
		if first {
			common = ws
			first = false
			continue
		}
		n := 0
		for n < len(common) && n < len(ws) && common[n] == ws[n] {
			n++
		}
		common = common[:n]
	}
	return string(common)
}

func leadingWhitespace(line string) []rune {
	var ws []rune
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		ws = append(ws, r)
	}
	return ws
}

func shiftLine(line string, spec Spec) string {
	switch spec.Kind {
	case KindRight:
		if spec.N == 0 {
			return line
		}
		return strings.Repeat(" ", spec.N) + line
	case KindLeft:
		runes := []rune(line)
		if spec.N >= len(runes) {
			return ""
		}
		return string(runes[spec.N:])
	}
	return line
}
