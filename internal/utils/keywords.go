package utils

import (
	"strings"
	"unicode"
)

// ContainsWord reports whether needle appears in text on word boundaries.
// Multi-word needles ("party bus") match across single spaces.
func ContainsWord(text, needle string) bool {
	textLower := strings.ToLower(text)
	needleLower := strings.ToLower(strings.TrimSpace(needle))
	if needleLower == "" {
		return false
	}

	from := 0
	for {
		idx := strings.Index(textLower[from:], needleLower)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(needleLower)
		if isBoundary(textLower, start-1) && isBoundary(textLower, end) {
			return true
		}
		from = start + 1
	}
}

// ContainsCompound matches needle as a whole word or fused with a common
// event partner word ("bdayparty", "promnight", "weddings").
func ContainsCompound(text, needle string) bool {
	if ContainsWord(text, needle) {
		return true
	}
	needleLower := strings.ToLower(needle)
	if len(needleLower) < 4 || strings.Contains(needleLower, " ") {
		return false
	}
	for _, tok := range Tokens(text) {
		var rest string
		switch {
		case strings.HasPrefix(tok, needleLower):
			rest = tok[len(needleLower):]
		case strings.HasSuffix(tok, needleLower):
			rest = tok[:len(tok)-len(needleLower)]
		default:
			continue
		}
		if compoundPartners[rest] {
			return true
		}
	}
	return false
}

var compoundPartners = map[string]bool{
	"s": true, "party": true, "parties": true, "night": true, "celebration": true,
	"reception": true, "dinner": true, "trip": true, "event": true, "bash": true,
}

// Tokens splits on anything that is not a letter, digit, apostrophe or ampersand
func Tokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '&')
	})
}

// TitleCase capitalizes the first letter of each space separated word
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// IsAlphaWord reports whether s is a single word made of letters (plus ' and -)
func IsAlphaWord(s string) bool {
	if s == "" {
		return false
	}
	letters := 0
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case r == '\'' || r == '’' || r == '-':
		default:
			return false
		}
	}
	return letters > 0
}

func isBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := rune(s[i])
	return !(unicode.IsLetter(c) || unicode.IsDigit(c))
}
