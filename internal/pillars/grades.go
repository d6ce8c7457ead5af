package pillars

import (
	"strings"

	"github.com/wonny/tickergrade/internal/contracts"
)

// neutralRank is used for any grade missing from the table
const neutralRank = 4

var gradeRanks = map[string]int{
	"strong sell":    1,
	"sell":           2,
	"underweight":    2,
	"underperform":   3,
	"reduce":         3,
	"hold":           4,
	"neutral":        4,
	"market perform": 4,
	"equal-weight":   4,
	"sector perform": 4,
	"buy":            5,
	"overweight":     5,
	"outperform":     5,
	"accumulate":     5,
	"strong buy":     6,
}

// GradeRank returns the six-tier rank of a broker grade
func GradeRank(grade string) int {
	if r, ok := gradeRanks[strings.ToLower(strings.TrimSpace(grade))]; ok {
		return r
	}
	return neutralRank
}

// CompareGrades infers the rating action from a grade change
func CompareGrades(previous, next string) contracts.RatingAction {
	prev, cur := GradeRank(previous), GradeRank(next)
	switch {
	case cur > prev:
		return contracts.ActionUpgrade
	case cur < prev:
		return contracts.ActionDowngrade
	}
	return contracts.ActionMaintain
}

// classify resolves a rating to its action. An explicit upgrade or downgrade
// label wins; otherwise both grades must be present to compare.
func classify(r contracts.AnalystRating) contracts.RatingAction {
	switch contracts.RatingAction(strings.ToLower(string(r.Action))) {
	case contracts.ActionUpgrade:
		return contracts.ActionUpgrade
	case contracts.ActionDowngrade:
		return contracts.ActionDowngrade
	}
	if r.PreviousGrade != "" && r.NewGrade != "" {
		return CompareGrades(r.PreviousGrade, r.NewGrade)
	}
	return contracts.ActionMaintain
}
