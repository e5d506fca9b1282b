package domain

import "strings"

// MonthAbbrevs lists the month vocabulary in calendar order.
var MonthAbbrevs = []string{
	"jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez",
}

// MonthNames maps each abbreviation to the full Portuguese month name, for
// presentation layers that label axes and tooltips.
var MonthNames = map[string]string{
	"jan": "Janeiro", "fev": "Fevereiro", "mar": "Março", "abr": "Abril",
	"mai": "Maio", "jun": "Junho", "jul": "Julho", "ago": "Agosto",
	"set": "Setembro", "out": "Outubro", "nov": "Novembro", "dez": "Dezembro",
}

var monthIndex = func() map[string]int {
	m := make(map[string]int, len(MonthAbbrevs))
	for i, abbrev := range MonthAbbrevs {
		m[abbrev] = i + 1
	}
	return m
}()

// MonthIndex returns the calendar position (1–12) of a month abbreviation,
// or 0 when the token is not in the vocabulary. Scored output is sorted
// lexicographically; callers wanting calendar order sort by this instead.
func MonthIndex(abbrev string) int {
	return monthIndex[abbrev]
}

// NaturalLess compares plot identifiers in natural order, so "2" sorts
// before "10" and "T2" before "T10". Mixed digit and non-digit runs are
// compared chunk by chunk.
func NaturalLess(a, b string) bool {
	for a != "" && b != "" {
		ca, restA := naturalChunk(a)
		cb, restB := naturalChunk(b)
		if ca != cb {
			if isDigits(ca) && isDigits(cb) {
				if len(ca) != len(cb) {
					// Strip leading zeros before comparing magnitudes.
					ta, tb := strings.TrimLeft(ca, "0"), strings.TrimLeft(cb, "0")
					if len(ta) != len(tb) {
						return len(ta) < len(tb)
					}
					return ta < tb
				}
				return ca < cb
			}
			return strings.ToLower(ca) < strings.ToLower(cb)
		}
		a, b = restA, restB
	}
	return a == "" && b != ""
}

func naturalChunk(s string) (chunk, rest string) {
	if s == "" {
		return "", ""
	}
	digits := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digits {
		i++
	}
	return s[:i], s[i:]
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}
