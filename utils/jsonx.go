package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Models wrap their JSON in markdown fences, preface it with prose, or emit
// almost-JSON (trailing commas, smart quotes, raw newlines inside strings).
// These helpers pull the object out and patch the common damage before
// giving up.

var ErrNoJSON = errors.New("no JSON object found in model output")

// MalformedJSONError is returned when the text still fails to parse after
// repair. Snippet holds the start of the offending candidate for logs.
type MalformedJSONError struct {
	Snippet string
	Err     error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("model returned malformed JSON (%v): %s", e.Err, e.Snippet)
}

func (e *MalformedJSONError) Unwrap() error { return e.Err }

var (
	fenceRe         = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	nanRe           = regexp.MustCompile(`-?\b(?:NaN|Infinity)\b`)
	stringLitRe     = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)
)

// ExtractJSONObject pulls the first JSON object out of raw model output:
// fenced block if present, otherwise everything from the first '{' to the
// last '}'.
func ExtractJSONObject(raw string) (string, error) {
	s := raw
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", ErrNoJSON
	}
	return s[start : end+1], nil
}

// RepairJSON applies the regex fixes for damage the providers actually
// produce. It does not attempt full re-parsing; the result still has to
// survive json.Unmarshal.
func RepairJSON(s string) string {
	// Smart quotes from models that "typeset" their output.
	r := strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
		"\r", "",
	)
	s = r.Replace(s)

	// Raw newlines/tabs inside string literals break the decoder.
	s = stringLitRe.ReplaceAllStringFunc(s, func(lit string) string {
		lit = strings.ReplaceAll(lit, "\n", `\n`)
		return strings.ReplaceAll(lit, "\t", `\t`)
	})

	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = nanRe.ReplaceAllString(s, "0")
	return s
}

// DecodeModelJSON extracts, repairs if needed, and unmarshals model output
// into v.
func DecodeModelJSON(raw string, v any) error {
	candidate, err := ExtractJSONObject(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(candidate), v); err == nil {
		return nil
	}
	repaired := RepairJSON(candidate)
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return &MalformedJSONError{Snippet: truncate(repaired, 160), Err: err}
	}
	return nil
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
