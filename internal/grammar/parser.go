package grammar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/tartampluch/go-holisync/internal/config"
)

const (
	separator    = config.RangeSeparator
	offsetMarker = config.OffsetMarker
)

// ErrMismatch is returned when a title contains the range separator but does
// not have the tag|start|end shape.
var ErrMismatch = errors.New(config.ErrTitleMismatch)

// Parse turns a playlist title into an Intent. Titles without the range
// separator are returned verbatim as an unranged intent; holiday names are
// never normalized.
func Parse(title string) (Intent, error) {
	if !strings.ContainsRune(title, separator) {
		return Unranged(title), nil
	}

	segments := strings.Split(title, string(separator))
	if len(segments) != config.RangeSegmentCount {
		return Intent{}, mismatch("expected %d segments, found %d", config.RangeSegmentCount, len(segments))
	}

	tag := segments[0]
	if !isTag(tag) {
		return Intent{}, mismatch("invalid tag %q", tag)
	}

	start, err := parseSpec(segments[1])
	if err != nil {
		return Intent{}, fmt.Errorf("start: %w", err)
	}
	end, err := parseSpec(segments[2])
	if err != nil {
		return Intent{}, fmt.Errorf("end: %w", err)
	}

	return Ranged(tag, start, end), nil
}

// parseSpec accepts either a run of digits or a holiday name optionally
// followed by '+' and a run of digits.
func parseSpec(s string) (Spec, error) {
	if s == "" {
		return Spec{}, mismatch("empty spec")
	}

	if isDigits(s) {
		days, err := strconv.Atoi(s)
		if err != nil {
			return Spec{}, mismatch("offset %q: %v", s, err)
		}
		return Numeric(days), nil
	}

	name, digits, hasOffset := strings.Cut(s, string(offsetMarker))
	if !isName(name) {
		return Spec{}, mismatch("invalid holiday name %q", name)
	}
	if !hasOffset {
		return Anchor(name), nil
	}

	if !isDigits(digits) {
		return Spec{}, mismatch("invalid offset %q", digits)
	}
	offset, err := strconv.Atoi(digits)
	if err != nil {
		return Spec{}, mismatch("offset %q: %v", digits, err)
	}
	return AnchorOffset(name, offset), nil
}

func mismatch(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMismatch, fmt.Sprintf(format, args...))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsSpace(r):
		case r == '.', r == '\'', r == '’':
		default:
			return false
		}
	}
	return true
}

func isTag(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) && r != '_' {
			return false
		}
	}
	return true
}
