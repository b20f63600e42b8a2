package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condutamedx/medx-backend/app/models"
)

func adminTestPlan(id uint, days int) *models.Plan {
	plan := &models.Plan{Name: "Pro", DurationInDays: days}
	plan.ID = id
	return plan
}

func TestAssignPlanChangesSamePlanActiveExtendsFromExpiry(t *testing.T) {
	now := time.Now()
	plan := adminTestPlan(1, 30)

	planID := uint(1)
	currentExpiry := now.Add(10 * 24 * time.Hour)
	user := &models.User{PlanID: &planID, PlanExpiresAt: &currentExpiry}

	expiresAt, updates := assignPlanChanges(user, plan, now)

	assert.Equal(t, currentExpiry.AddDate(0, 0, 30), expiresAt)
	assert.Equal(t, expiresAt, updates["plan_expires_at"])
	assert.Equal(t, plan.ID, updates["plan_id"])
}

func TestAssignPlanChangesDifferentPlanStartsFromNow(t *testing.T) {
	now := time.Now()
	plan := adminTestPlan(2, 30)

	oldPlanID := uint(1)
	currentExpiry := now.Add(10 * 24 * time.Hour)
	user := &models.User{PlanID: &oldPlanID, PlanExpiresAt: &currentExpiry}

	expiresAt, _ := assignPlanChanges(user, plan, now)

	// Switching plans never inherits the old plan's remaining time.
	assert.Equal(t, now.AddDate(0, 0, 30), expiresAt)
}

func TestAssignPlanChangesLapsedPlanStartsFromNow(t *testing.T) {
	now := time.Now()
	plan := adminTestPlan(1, 30)

	planID := uint(1)
	lapsed := now.Add(-48 * time.Hour)
	user := &models.User{PlanID: &planID, PlanExpiresAt: &lapsed}

	expiresAt, _ := assignPlanChanges(user, plan, now)

	assert.Equal(t, now.AddDate(0, 0, 30), expiresAt)
}

func TestAssignPlanChangesWithoutPlanStartsFromNow(t *testing.T) {
	now := time.Now()
	plan := adminTestPlan(1, 7)

	expiresAt, _ := assignPlanChanges(&models.User{}, plan, now)

	assert.Equal(t, now.AddDate(0, 0, 7), expiresAt)
}

func TestAssignPlanChangesResetsUsageCounters(t *testing.T) {
	plan := adminTestPlan(1, 30)

	_, updates := assignPlanChanges(&models.User{}, plan, time.Now())

	for _, column := range []string{
		"transcriptions_used_count",
		"transcription_minutes_used",
		"agent_uses_used",
		"assistant_uses_used",
	} {
		value, ok := updates[column]
		require.True(t, ok, "expected %s in updates", column)
		assert.Equal(t, 0, value)
	}
}

func TestRemovePlanChangesClearsPlanColumns(t *testing.T) {
	updates := removePlanChanges()

	require.Contains(t, updates, "plan_id")
	require.Contains(t, updates, "plan_expires_at")
	assert.Nil(t, updates["plan_id"])
	assert.Nil(t, updates["plan_expires_at"])
}
