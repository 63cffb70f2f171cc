package utils

import "strings"

var wordNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7, "eight": 8,
	"nine": 9, "ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50, "sixty": 60, "seventy": 70,
	"eighty": 80, "ninety": 90,
	"a": 1, "an": 1, "a couple": 2, "couple": 2, "a dozen": 12, "dozen": 12,
}

var tensWords = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

// WordNumber parses spelled-out numbers up to 99 ("five", "twenty five", "thirty-two")
func WordNumber(s string) (int, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return 0, false
	}
	if n, ok := wordNumbers[key]; ok {
		return n, true
	}
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == ' ' || r == '-' })
	if len(parts) != 2 {
		return 0, false
	}
	tens, ok := tensWords[parts[0]]
	if !ok {
		return 0, false
	}
	unit, ok := wordNumbers[parts[1]]
	if !ok || unit < 1 || unit > 9 {
		return 0, false
	}
	return tens + unit, true
}

// IsStrictWordNumber is WordNumber without the article forms ("a", "an", "couple")
func IsStrictWordNumber(s string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "an", "a couple", "couple", "a dozen", "dozen":
		return 0, false
	}
	return WordNumber(s)
}
