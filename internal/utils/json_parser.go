package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// ErrNoJSON is returned when a model reply holds no object or array
var ErrNoJSON = errors.New("no JSON object or array in reply")

// ExtractAIJSON pulls the JSON object or array out of a chat model reply.
// Candidates are tried in order: the whole reply, the first fenced code block,
// then the first balanced object or array inside prose. When none is valid,
// jsonrepair gets the fenced block or the text from the first bracket on, which
// closes truncated output and fixes trailing commas, bare keys and single
// quotes. The result always starts with '{' or '['.
func ExtractAIJSON(reply string) (json.RawMessage, error) {
	s := strings.TrimSpace(strings.TrimPrefix(reply, "\ufeff"))
	if s == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrNoJSON)
	}

	var fenced string
	if m := fencedBlockRe.FindStringSubmatch(s); m != nil {
		fenced = m[1]
	}
	for _, c := range []string{s, fenced, firstJSONSpan(s)} {
		if isContainer(c) && json.Valid([]byte(c)) {
			return json.RawMessage(c), nil
		}
	}

	broken := fenced
	if !isContainer(broken) {
		start := strings.IndexAny(s, "{[")
		if start < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoJSON, clip(s, 100))
		}
		broken = s[start:]
	}
	repaired, err := jsonrepair.JSONRepair(broken)
	if err != nil {
		return nil, fmt.Errorf("%w: repair failed: %v", ErrNoJSON, err)
	}
	repaired = strings.TrimSpace(repaired)
	if !isContainer(repaired) || !json.Valid([]byte(repaired)) {
		return nil, fmt.Errorf("%w: %s", ErrNoJSON, clip(s, 100))
	}
	return json.RawMessage(repaired), nil
}

func isContainer(s string) bool {
	return s != "" && (s[0] == '{' || s[0] == '[')
}

// firstJSONSpan returns the first balanced object or array in s. Brackets
// inside strings are skipped; mismatched bracket kinds are left to json.Valid.
func firstJSONSpan(s string) string {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			escaped = false
		case inString:
			if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
		case ch == '"':
			inString = true
		case ch == '{' || ch == '[':
			depth++
		case ch == '}' || ch == ']':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
