// Package proposal scores incoming project requests so the operator
// sees the hottest leads first.
package proposal

// ===============================
// Lead Scoring
// ===============================

const (
	PriorityHot  = "hot"
	PriorityWarm = "warm"
	PriorityCold = "cold"
)

// Point tables per answer. The three maxima add up to 100.
var budgetPoints = map[string]int{
	"under_1k": 5,
	"1k_5k":    20,
	"5k_10k":   35,
	"over_10k": 45,
}

var timelinePoints = map[string]int{
	"asap":     30,
	"1_month":  20,
	"3_months": 10,
	"flexible": 5,
}

var projectTypePoints = map[string]int{
	"website":   15,
	"ecommerce": 25,
	"webapp":    25,
	"branding":  10,
	"other":     5,
}

func ValidBudgetRange(v string) bool {
	_, ok := budgetPoints[v]
	return ok
}

func ValidTimeline(v string) bool {
	_, ok := timelinePoints[v]
	return ok
}

func ValidProjectType(v string) bool {
	_, ok := projectTypePoints[v]
	return ok
}

// Score sums the answer points; inputs must be validated first, unknown
// answers simply score zero.
func Score(projectType, budgetRange, timeline string) int {
	return projectTypePoints[projectType] +
		budgetPoints[budgetRange] +
		timelinePoints[timeline]
}

// Priority buckets a score: 70+ is hot, 40+ is warm, the rest cold.
func Priority(score int) string {
	switch {
	case score >= 70:
		return PriorityHot
	case score >= 40:
		return PriorityWarm
	default:
		return PriorityCold
	}
}
