package queue

import (
	"regexp"
	"strings"
)

var digitRun = regexp.MustCompile(`[0-9]+`)

type chunk struct {
	text    string
	numeric bool
}

// Less reports whether a sorts before b in natural order.
// Digit runs compare by value, text compares case-insensitively, and
// names that still tie fall back to plain byte order.
func Less(a, b string) bool {
	if c := compareNatural(a, b); c != 0 {
		return c < 0
	}
	return a < b
}

func compareNatural(a, b string) int {
	ca, cb := chunks(a), chunks(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		x, y := ca[i], cb[i]
		var c int
		switch {
		case x.numeric && y.numeric:
			c = compareDigits(x.text, y.text)
		case x.numeric:
			// Numbers sort before text at the same position.
			c = -1
		case y.numeric:
			c = 1
		default:
			c = strings.Compare(strings.ToLower(x.text), strings.ToLower(y.text))
		}
		if c != 0 {
			return c
		}
	}
	switch {
	case len(ca) < len(cb):
		return -1
	case len(ca) > len(cb):
		return 1
	}
	return 0
}

func chunks(s string) []chunk {
	var out []chunk
	last := 0
	for _, loc := range digitRun.FindAllStringIndex(s, -1) {
		if loc[0] > last {
			out = append(out, chunk{text: s[last:loc[0]]})
		}
		out = append(out, chunk{text: s[loc[0]:loc[1]], numeric: true})
		last = loc[1]
	}
	if last < len(s) {
		out = append(out, chunk{text: s[last:]})
	}
	return out
}

// compareDigits compares two decimal digit strings by value without
// parsing them, so arbitrarily long runs never overflow.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
