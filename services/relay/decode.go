package relay

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"jetcargo-backend/lib/submission"
)

// formatValue flattens a decoded json value into a single string, arrays
// (ex. multiple checked checkboxes) are joined with ", ".
func formatValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case json.Number:
		return v.String(), true
	case []any:
		var parts []string
		for _, item := range v {
			s, ok := formatValue(item)
			if ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", "), true
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(encoded), true
	}
}

// decodeSubmission reads a flat json object.
func decodeSubmission(r io.Reader) (submission.Submission, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var raw map[string]any
	err := decoder.Decode(&raw)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("expected a json object")
	}

	sub := submission.Submission{}
	for key, value := range raw {
		formatted, ok := formatValue(value)
		if !ok {
			continue
		}
		sub[key] = strings.TrimSpace(formatted)
	}
	return sub, nil
}
