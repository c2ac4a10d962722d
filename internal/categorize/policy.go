package categorize

import (
	"encoding/json"
	"strings"

	"github.com/Veraticus/pennywise/internal/model"
)

// ClassifierPolicy maps a free-text service reply onto the category enumeration.
type ClassifierPolicy interface {
	Match(reply string, categories []model.Category) (model.Category, bool)
}

// SubstringPolicy returns the first category, in declared order, whose
// label appears anywhere in the reply. Matching ignores case.
type SubstringPolicy struct{}

// Match implements ClassifierPolicy.
func (SubstringPolicy) Match(reply string, categories []model.Category) (model.Category, bool) {
	lowered := strings.ToLower(reply)
	for _, c := range categories {
		if strings.Contains(lowered, c.Label()) {
			return c, true
		}
	}
	return "", false
}

// StrictPolicy only accepts a reply that is exactly one label, optionally
// wrapped in punctuation, or a JSON object of the form {"category": "..."}.
type StrictPolicy struct{}

// Match implements ClassifierPolicy.
func (StrictPolicy) Match(reply string, categories []model.Category) (model.Category, bool) {
	candidate := strings.TrimSpace(reply)

	if strings.HasPrefix(candidate, "{") {
		var payload struct {
			Category string `json:"category"`
		}
		if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
			return "", false
		}
		candidate = payload.Category
	}

	label := strings.ToLower(strings.Trim(candidate, " \t\r\n.\"'`"))
	for _, c := range categories {
		if c.Label() == label {
			return c, true
		}
	}
	return "", false
}

// PolicyByName resolves a configured policy name. Unknown names fall back
// to SubstringPolicy.
func PolicyByName(name string) ClassifierPolicy {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "strict":
		return StrictPolicy{}
	default:
		return SubstringPolicy{}
	}
}
