// Package filters implements the concrete filter semantics used by the
// evaluator: size parsing and keyword ranges, date literal/keyword
// parsing, and the static type-category extension sets, per spec.md
// §4.8 and SPEC_FULL.md §11's resolved constants.
package filters

import (
	"fmt"
	"strconv"
	"strings"
)

// unitMultipliers maps every accepted size-unit spelling (case folded)
// to its binary (1024-based) byte multiplier, per SPEC_FULL.md §11.
var unitMultipliers = map[string]uint64{
	"b": 1,

	"k": 1024, "kb": 1024, "kib": 1024, "kilobyte": 1024, "kilobytes": 1024,

	"m": 1024 * 1024, "mb": 1024 * 1024, "mib": 1024 * 1024,
	"megabyte": 1024 * 1024, "megabytes": 1024 * 1024,

	"g": 1024 * 1024 * 1024, "gb": 1024 * 1024 * 1024, "gib": 1024 * 1024 * 1024,
	"gigabyte": 1024 * 1024 * 1024, "gigabytes": 1024 * 1024 * 1024,

	"t": 1024 * 1024 * 1024 * 1024, "tb": 1024 * 1024 * 1024 * 1024, "tib": 1024 * 1024 * 1024 * 1024,
	"terabyte": 1024 * 1024 * 1024 * 1024, "terabytes": 1024 * 1024 * 1024 * 1024,

	"p": 1024 * 1024 * 1024 * 1024 * 1024, "pb": 1024 * 1024 * 1024 * 1024 * 1024, "pib": 1024 * 1024 * 1024 * 1024 * 1024,
	"petabyte": 1024 * 1024 * 1024 * 1024 * 1024, "petabytes": 1024 * 1024 * 1024 * 1024 * 1024,
}

const (
	kib = 1024
	mib = 1024 * kib
	tinyMax   = 10 * kib
	smallMax  = 100 * kib
	mediumMax = 1 * mib
	largeMax  = 16 * mib
	hugeMax   = 128 * mib
)

// ParseSize parses a number with an optional unit suffix (case
// insensitive), e.g. "10kb", "2.5mb", "4096". A bare number is bytes.
func ParseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("filters: empty size value")
	}
	i := len(s)
	for i > 0 && !isDigitOrDot(s[i-1]) {
		i--
	}
	numPart, unitPart := s[:i], strings.ToLower(s[i:])

	mult := uint64(1)
	if unitPart != "" {
		m, ok := unitMultipliers[unitPart]
		if !ok {
			return 0, fmt.Errorf("filters: unknown size unit %q", unitPart)
		}
		mult = m
	}

	if strings.Contains(numPart, ".") {
		f, err := strconv.ParseFloat(numPart, 64)
		if err != nil {
			return 0, fmt.Errorf("filters: invalid size number %q: %w", numPart, err)
		}
		return uint64(f * float64(mult)), nil
	}
	n, err := strconv.ParseUint(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("filters: invalid size number %q: %w", numPart, err)
	}
	return n * mult, nil
}

func isDigitOrDot(b byte) bool {
	return (b >= '0' && b <= '9') || b == '.'
}

// SizeKeywordRange returns the inclusive [lo, hi] byte range for one of
// the size keywords {empty, tiny, small, medium, large, huge, giant,
// gigantic}, per SPEC_FULL.md §11 (back-solved from
// search-cache/src/tests/size_filters.rs). hasUpper is false for
// giant/gigantic, which have no upper bound.
func SizeKeywordRange(keyword string) (lo, hi uint64, hasUpper, ok bool) {
	switch strings.ToLower(keyword) {
	case "empty":
		return 0, 0, true, true
	case "tiny":
		return 1, tinyMax, true, true
	case "small":
		return tinyMax + 1, smallMax, true, true
	case "medium":
		return smallMax + 1, mediumMax, true, true
	case "large":
		return mediumMax + 1, largeMax, true, true
	case "huge":
		return largeMax + 1, hugeMax, true, true
	case "giant", "gigantic":
		return hugeMax + 1, 0, false, true
	default:
		return 0, 0, false, false
	}
}
