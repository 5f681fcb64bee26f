package proposal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_Extremes(t *testing.T) {
	assert.Equal(t, 100, Score("ecommerce", "over_10k", "asap"))
	assert.Equal(t, 100, Score("webapp", "over_10k", "asap"))
	assert.Equal(t, 20, Score("other", "under_1k", "3_months"))
}

func TestScore_UnknownAnswersScoreZero(t *testing.T) {
	assert.Equal(t, 0, Score("", "", ""))
	assert.Equal(t, 45, Score("mystery", "over_10k", "someday"))
}

func TestPriority_Buckets(t *testing.T) {
	assert.Equal(t, PriorityHot, Priority(100))
	assert.Equal(t, PriorityHot, Priority(70))
	assert.Equal(t, PriorityWarm, Priority(69))
	assert.Equal(t, PriorityWarm, Priority(40))
	assert.Equal(t, PriorityCold, Priority(39))
	assert.Equal(t, PriorityCold, Priority(0))
}

func TestPriority_TypicalLeads(t *testing.T) {
	// Large budget in a hurry is hot even for a plain website.
	assert.Equal(t, PriorityHot, Priority(Score("website", "over_10k", "asap")))

	// Small budget, no rush: follow up later.
	assert.Equal(t, PriorityCold, Priority(Score("website", "under_1k", "flexible")))

	// Mid-size project lands in the middle.
	assert.Equal(t, PriorityWarm, Priority(Score("ecommerce", "1k_5k", "1_month")))
}

func TestValidators_MatchPointTables(t *testing.T) {
	assert.True(t, ValidBudgetRange("5k_10k"))
	assert.False(t, ValidBudgetRange("priceless"))

	assert.True(t, ValidTimeline("asap"))
	assert.False(t, ValidTimeline("yesterday"))

	assert.True(t, ValidProjectType("branding"))
	assert.False(t, ValidProjectType("submarine"))
}
