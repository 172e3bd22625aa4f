package bc3

import (
	"strconv"
	"strings"
)

// numOr parses a BC3 numeric token, accepting the format's comma decimal
// separator. Empty, invalid, or zero tokens yield the default: malformed
// input is recovered by defaulting, never by failing the record.
func numOr(s string, def float64) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v == 0 {
		return def
	}
	return v
}

// formatNum renders a number with the format's comma decimal separator,
// using the shortest representation that survives a round trip.
func formatNum(v float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(v, 'f', -1, 64), ".", ",")
}
