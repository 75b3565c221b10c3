package insights

import (
	"strings"

	"github.com/ternarybob/indago/internal/models"
)

// HighConfidenceFloor is the confidence at which an insight is accepted for
// a role regardless of its type. This makes the declared type vocabulary
// non-binding for very confident findings; kept for compatibility with
// established report behavior.
const HighConfidenceFloor = 0.85

// TypeMatcher decides whether an insight type satisfies one requirement
// type string. Matchers are tried in a fixed order; the first hit wins.
type TypeMatcher interface {
	Name() string
	Matches(requirementType, insightType string) bool
}

// substringMatcher accepts when either string contains the other
type substringMatcher struct{}

func (substringMatcher) Name() string { return "substring" }

func (substringMatcher) Matches(requirementType, insightType string) bool {
	return strings.Contains(insightType, requirementType) || strings.Contains(requirementType, insightType)
}

// synonymGroups maps a base insight type to the vocabulary treated as
// equivalent to it during matching
var synonymGroups = map[string][]string{
	"trend":       {"trend", "trending", "pattern", "movement"},
	"anomaly":     {"anomaly", "outlier", "unusual", "spike", "drop"},
	"comparison":  {"comparison", "compare", "difference", "versus", "vs"},
	"correlation": {"correlation", "relationship", "association", "related"},
	"summary":     {"summary", "overview", "aggregate", "total"},
	"forecast":    {"forecast", "prediction", "projection", "future"},
}

// synonymMatcher accepts when both strings contain a term from the same
// synonym group
type synonymMatcher struct{}

func (synonymMatcher) Name() string { return "synonym" }

func (synonymMatcher) Matches(requirementType, insightType string) bool {
	for _, synonyms := range synonymGroups {
		reqHit := false
		insHit := false
		for _, syn := range synonyms {
			if strings.Contains(requirementType, syn) {
				reqHit = true
			}
			if strings.Contains(insightType, syn) {
				insHit = true
			}
		}
		if reqHit && insHit {
			return true
		}
	}
	return false
}

// sharedWordMatcher accepts when the two strings share any
// underscore-delimited word
type sharedWordMatcher struct{}

func (sharedWordMatcher) Name() string { return "shared_word" }

func (sharedWordMatcher) Matches(requirementType, insightType string) bool {
	reqWords := strings.Split(requirementType, "_")
	insWords := strings.Split(insightType, "_")
	for _, rw := range reqWords {
		if rw == "" {
			continue
		}
		for _, iw := range insWords {
			if rw == iw {
				return true
			}
		}
	}
	return false
}

// typeMatchers is the ordered strategy chain applied before the role-level
// override and the high-confidence fallback
var typeMatchers = []TypeMatcher{
	substringMatcher{},
	synonymMatcher{},
	sharedWordMatcher{},
}

// MatchType runs the matcher chain for one requirement type. Both inputs
// are lower-cased before comparison. Returns the name of the strategy that
// matched.
func MatchType(requirementType, insightType string) (string, bool) {
	req := strings.ToLower(requirementType)
	ins := strings.ToLower(insightType)
	for _, m := range typeMatchers {
		if m.Matches(req, ins) {
			return m.Name(), true
		}
	}
	return "", false
}

// levelAcceptedTypes returns the insight types a role level accepts when no
// matcher in the chain hit. Hands-on levels take the full analytical set;
// executive levels take the high-level set.
func levelAcceptedTypes(level models.RoleLevel) map[models.InsightType]bool {
	switch level {
	case models.LevelManager, models.LevelAnalyst, models.LevelSpecialist:
		return map[models.InsightType]bool{
			models.InsightTrend:       true,
			models.InsightAnomaly:     true,
			models.InsightComparison:  true,
			models.InsightCorrelation: true,
			models.InsightSummary:     true,
		}
	case models.LevelExecutive, models.LevelDirector:
		return map[models.InsightType]bool{
			models.InsightTrend:      true,
			models.InsightComparison: true,
			models.InsightSummary:    true,
			models.InsightForecast:   true,
		}
	default:
		return nil
	}
}

// LevelAccepts reports whether the role-level override admits an insight type
func LevelAccepts(level models.RoleLevel, insightType models.InsightType) bool {
	return levelAcceptedTypes(level)[insightType]
}
