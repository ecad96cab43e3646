// Package numbering formats and parses human-readable record numbers such as
// SI-0001.
package numbering

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Prefix identifies a numbering sequence.
type Prefix string

const (
	PrefixIndent        Prefix = "SI"
	PrefixPurchaseOrder Prefix = "PO"
	PrefixLift          Prefix = "LF"
)

// ValidPrefixes is the set of sequences kept in the counter table.
var ValidPrefixes = map[Prefix]bool{
	PrefixIndent:        true,
	PrefixPurchaseOrder: true,
	PrefixLift:          true,
}

// Format renders seq with four digit zero padding. Sequences past 9999 keep
// all their digits.
func Format(prefix Prefix, seq int64) string {
	return fmt.Sprintf("%s-%04d", prefix, seq)
}

var numberPattern = regexp.MustCompile(`^([A-Za-z]+)-(\d+)$`)

// Parse splits a number into its prefix and sequence.
func Parse(number string) (Prefix, int64, error) {
	m := numberPattern.FindStringSubmatch(strings.TrimSpace(number))
	if m == nil {
		return "", 0, fmt.Errorf("numbering: malformed number %q", number)
	}
	seq, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("numbering: malformed number %q: %w", number, err)
	}
	return Prefix(strings.ToUpper(m[1])), seq, nil
}

// MaxSequence returns the highest sequence among existing numbers carrying
// prefix. Numbers of other prefixes and malformed values are ignored.
func MaxSequence(prefix Prefix, existing []string) int64 {
	var max int64
	for _, n := range existing {
		p, seq, err := Parse(n)
		if err != nil || p != prefix {
			continue
		}
		if seq > max {
			max = seq
		}
	}
	return max
}
