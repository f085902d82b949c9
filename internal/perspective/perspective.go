package perspective

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Perspective is one labeled viewpoint on a topic question. Criteria is only
// present for criteria-based generation.
type Perspective struct {
	Stance   string   `json:"Stance,omitempty"`
	Criteria []string `json:"Criteria,omitempty"`
	Reason   string   `json:"Reason"`
}

// Set is one generated output: perspectives keyed by their number ("1".."10").
type Set map[string]Perspective

// ExtractJSON pulls the first {...} object out of a model response and parses
// it as a perspective set. Models sometimes wrap the JSON in prose or fences.
func ExtractJSON(responseText string) (Set, error) {
	start := strings.Index(responseText, "{")
	end := strings.LastIndex(responseText, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}
	raw := responseText[start : end+1]

	var set Set
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		snippet := raw
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		return nil, fmt.Errorf("parse perspectives JSON: %w (attempted: %s)", err, snippet)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("response JSON contains no perspectives")
	}
	return set, nil
}

// Keys returns the set's keys in numeric order. Non-numeric keys sort after
// numeric ones, lexicographically.
func Keys(set Set) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, erri := strconv.Atoi(keys[i])
		nj, errj := strconv.Atoi(keys[j])
		switch {
		case erri == nil && errj == nil:
			return ni < nj
		case erri == nil:
			return true
		case errj == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// Reasons returns the Reason field of every perspective in key order,
// skipping entries with an empty reason.
func Reasons(set Set) []string {
	var out []string
	for _, k := range Keys(set) {
		if r := set[k].Reason; r != "" {
			out = append(out, r)
		}
	}
	return out
}

// OutputName builds the output filename for an approach and topic,
// e.g. "1-shot-free-form_elections.json".
func OutputName(approach, topic string) string {
	return approach + "_" + topic + ".json"
}

// ParseOutputName splits an output filename into approach and topic.
// The approach never contains an underscore, so the first one is the split.
func ParseOutputName(filename string) (approach, topic string, ok bool) {
	name := strings.TrimSuffix(filename, ".json")
	parts := strings.SplitN(name, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// SetName is the store identity of an output set: "approach_topic".
func SetName(approach, topic string) string {
	return approach + "_" + topic
}
