package analysis

import (
	"fmt"
	"math"
	"strings"
)

// Narrative templates. Output is deterministic given the numeric result.

func trendNarrative(column, direction string, pctChange, first, last, strength float64) string {
	strengthWord := "slightly"
	if strength > 0.7 {
		strengthWord = "strongly"
	} else if strength > 0.4 {
		strengthWord = "moderately"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s has %s %s by %.1f%% from %.2f to %.2f. ",
		column, strengthWord, pastTense(direction), math.Abs(pctChange), first, last)

	switch {
	case math.Abs(pctChange) > 25:
		b.WriteString("This represents a significant change that warrants attention.")
	case math.Abs(pctChange) > 10:
		b.WriteString("This is a notable change in the metric.")
	default:
		b.WriteString("This is a modest change.")
	}

	return b.String()
}

func anomalyNarrative(column string, actual, expected, deviation, zScore float64) string {
	direction := "lower"
	if deviation > 0 {
		direction = "higher"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "An unusual value of %.2f was detected in %s, which is %.2f %s than the expected value of %.2f. ",
		actual, column, math.Abs(deviation), direction, expected)
	fmt.Fprintf(&b, "This represents a deviation of %.1f standard deviations. ", zScore)

	switch {
	case zScore > 4:
		b.WriteString("This is an extreme outlier that requires immediate investigation.")
	case zScore > 3:
		b.WriteString("This is a significant anomaly that should be reviewed.")
	default:
		b.WriteString("This warrants further examination.")
	}

	return b.String()
}

func correlationNarrative(colA, colB string, r float64, relationshipType string) string {
	strength := "weak"
	if math.Abs(r) > 0.7 {
		strength = "strong"
	} else if math.Abs(r) > 0.5 {
		strength = "moderate"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A %s %s correlation (r=%.3f) exists between %s and %s. ",
		strength, relationshipType, r, colA, colB)

	if relationshipType == "positive" {
		fmt.Fprintf(&b, "As %s increases, %s tends to increase as well.", colA, colB)
	} else {
		fmt.Fprintf(&b, "As %s increases, %s tends to decrease.", colA, colB)
	}

	return b.String()
}

func comparisonNarrative(groupA, groupB, metric string, valueA, valueB, pctDiff float64) string {
	leader, follower := groupA, groupB
	leaderValue, followerValue := valueA, valueB
	if valueB > valueA {
		leader, follower = groupB, groupA
		leaderValue, followerValue = valueB, valueA
		pctDiff = math.Abs(pctDiff)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s leads %s in %s by %.1f%%. ", leader, follower, metric, pctDiff)
	fmt.Fprintf(&b, "%s achieved %.2f compared to %s's %.2f. ", leader, leaderValue, follower, followerValue)

	switch {
	case pctDiff > 50:
		b.WriteString("This represents a substantial performance gap.")
	case pctDiff > 25:
		b.WriteString("This is a significant difference in performance.")
	default:
		b.WriteString("The performance gap is relatively modest.")
	}

	return b.String()
}

// pastTense converts a trend direction into its narrative form
func pastTense(direction string) string {
	switch direction {
	case "increasing":
		return "increased"
	case "decreasing":
		return "decreased"
	default:
		return "remained stable"
	}
}

// capitalize upper-cases the first letter only
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
