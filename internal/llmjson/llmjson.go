// Package llmjson extracts JSON payloads out of free-text LLM responses.
// Model output routinely arrives wrapped in code fences, with stray escape
// sequences, or truncated mid-array; both the question generator and the
// feedback aggregator share this cleanup path.
package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedOutput is returned when no parseable JSON payload can be
// recovered from the response text, even after repair.
var ErrMalformedOutput = errors.New("llm response did not contain parseable JSON")

var fenceMarkers = regexp.MustCompile("(?i)(```json|```|`)")

// ExtractArray locates the first JSON array in raw, repairs obvious damage and
// unmarshals it into out (a pointer to a slice type).
func ExtractArray(raw string, out interface{}) error {
	clean := scrub(raw)

	start := strings.Index(clean, "[")
	end := strings.LastIndex(clean, "]")
	if start == -1 {
		return fmt.Errorf("%w: no array found", ErrMalformedOutput)
	}
	if end > start {
		clean = clean[start : end+1]
	} else {
		// No closing bracket at all; treat everything after the opening
		// bracket as a truncated array body.
		clean = clean[start:]
	}

	if err := json.Unmarshal([]byte(clean), out); err == nil {
		return nil
	}

	repaired, ok := repairTruncatedArray(clean)
	if !ok {
		return fmt.Errorf("%w: array could not be repaired", ErrMalformedOutput)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return nil
}

// ExtractObject locates the first JSON object in raw and unmarshals it into
// out. Objects are not repaired beyond scrubbing; a truncated object has no
// safe recovery point.
func ExtractObject(raw string, out interface{}) error {
	clean := scrub(raw)

	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start == -1 || end <= start {
		return fmt.Errorf("%w: no object found", ErrMalformedOutput)
	}
	clean = clean[start : end+1]

	if err := json.Unmarshal([]byte(clean), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return nil
}

// scrub removes code-fence markers, normalizes broken escape sequences and
// strips control characters.
func scrub(raw string) string {
	s := strings.TrimSpace(raw)
	s = fenceMarkers.ReplaceAllString(s, "")

	s = strings.ReplaceAll(s, `\'`, "'")
	s = strings.ReplaceAll(s, "\\\n", " ")
	s = strings.ReplaceAll(s, "\\t", " ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 && r != '\n' && r != '\t' {
			continue
		}
		if r == 0x7F {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// repairTruncatedArray drops the last incomplete element of an array whose
// tail was cut off, then re-closes it. Returns false when no complete leading
// element exists.
func repairTruncatedArray(s string) (string, bool) {
	open := strings.Count(s, "{")
	closed := strings.Count(s, "}")
	if open <= closed {
		// Not a truncation problem; maybe a dangling comma before the
		// closing bracket.
		trimmed := strings.TrimRight(strings.TrimSuffix(strings.TrimSpace(s), "]"), ", \n\t")
		return trimmed + "]", true
	}

	last := strings.LastIndex(s, "},")
	if last <= 0 {
		return "", false
	}
	return s[:last+1] + "]", true
}
