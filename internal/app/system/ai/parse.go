package ai

import (
	"encoding/json"
	"strings"
)

// StripFences removes a surrounding markdown code fence, with or without a
// json language tag, from a model response.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseEmail extracts subject and body from a model response. The response
// is expected to be JSON with "subject" and "body" fields; when it is not,
// a line starting with "Betreff:" is used as the subject and the remainder
// as the body, and failing that the whole response becomes the body.
func ParseEmail(raw string) (subject, body string) {
	clean := StripFences(raw)

	var parsed struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := json.Unmarshal([]byte(clean), &parsed); err == nil {
		return parsed.Subject, parsed.Body
	}

	lines := strings.Split(strings.TrimSpace(raw), "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(line), "betreff:") {
			subject = strings.TrimSpace(line[len("betreff:"):])
			body = strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
			return subject, body
		}
	}
	return "", raw
}

// ParseJSONOrRaw decodes a JSON object from a model response; responses
// that are not valid JSON are wrapped as {"raw": response}.
func ParseJSONOrRaw(raw string) map[string]any {
	clean := StripFences(raw)
	var out map[string]any
	if err := json.Unmarshal([]byte(clean), &out); err == nil {
		return out
	}
	return map[string]any{"raw": raw}
}
