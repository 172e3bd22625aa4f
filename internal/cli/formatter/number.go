package formatter

import (
	"fmt"
	"math"
	"strings"
)

// FormatNumber formats a value the Catalan way: dots group thousands and a
// comma separates the given number of decimals, e.g. 1234.5 → "1.234,50".
func FormatNumber(val float64, decimals int) string {
	neg := math.Signbit(val) && val != 0
	s := fmt.Sprintf("%.*f", decimals, math.Abs(val))

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}

// FormatMoney renders an amount as Catalan currency, e.g. "1.234,56 €".
func FormatMoney(val float64) string {
	return FormatNumber(val, 2) + " €"
}

// FormatQuantity renders a takeoff quantity with three decimals.
func FormatQuantity(val float64) string {
	return FormatNumber(val, 3)
}

var catalanUnits = []string{"", "UN", "DOS", "TRES", "QUATRE", "CINC", "SIS", "SET", "VUIT", "NOU"}

var catalanTens = []string{"", "DEU", "VINT", "TRENTA", "QUARANTA", "CINQUANTA", "SEIXANTA", "SETANTA", "VUITANTA", "NORANTA"}

var catalanTeens = map[int]string{
	11: "ONZE", 12: "DOTZE", 13: "TRETZE", 14: "CATORZE", 15: "QUINZE",
	16: "SETZE", 17: "DISSET", 18: "DIVUIT", 19: "DINOU",
}

func catalanBelowThousand(num int) string {
	if num == 0 {
		return ""
	}
	if num < 10 {
		return catalanUnits[num]
	}
	if t, ok := catalanTeens[num]; ok {
		return t
	}
	if num < 100 {
		t, u := num/10, num%10
		if u == 0 {
			return catalanTens[t]
		}
		if t == 2 {
			return "VINT-I-" + catalanUnits[u]
		}
		return catalanTens[t] + "-" + catalanUnits[u]
	}
	if num < 1000 {
		h, r := num/100, num%100
		prefix := "CENT"
		if h != 1 {
			prefix = catalanUnits[h] + "-CENTS"
		}
		if r == 0 {
			return prefix
		}
		return prefix + " " + catalanBelowThousand(r)
	}
	return ""
}

// NumberToTextCatalan spells an amount in uppercase Catalan words, euros
// and cèntims included, for the verbal total under the budget summary,
// e.g. 1234.56 → "MIL DOS-CENTS TRENTA-QUATRE EUROS AMB CINQUANTA-SIS CÈNTIMS".
func NumberToTextCatalan(n float64) string {
	integerPart := int(math.Floor(n))
	decimalPart := int(math.Round((n - float64(integerPart)) * 100))

	millions := integerPart / 1000000
	thousands := (integerPart % 1000000) / 1000
	rest := integerPart % 1000

	var parts []string
	if millions > 0 {
		if millions == 1 {
			parts = append(parts, "UN MILIÓ")
		} else {
			parts = append(parts, catalanBelowThousand(millions)+" MILIONS")
		}
	}
	if thousands > 0 {
		if thousands == 1 {
			parts = append(parts, "MIL")
		} else {
			parts = append(parts, catalanBelowThousand(thousands)+" MIL")
		}
	}
	if rest > 0 {
		parts = append(parts, catalanBelowThousand(rest))
	} else if integerPart == 0 {
		parts = append(parts, "ZERO")
	}

	result := strings.Join(parts, " ")
	if integerPart == 1 {
		result += " EURO"
	} else {
		result += " EUROS"
	}
	if decimalPart > 0 {
		result += " AMB " + catalanBelowThousand(decimalPart)
		if decimalPart == 1 {
			result += " CÈNTIM"
		} else {
			result += " CÈNTIMS"
		}
	}
	return strings.TrimSpace(result)
}
