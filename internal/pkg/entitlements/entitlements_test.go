package entitlements

import (
	"testing"
	"time"

	"github.com/condutamedx/medx-backend/app/models"
)

func TestForUserWithoutPlan(t *testing.T) {
	user := &models.User{TranscriptionsUsedCount: 3}

	snap := ForUser(user, nil, time.Now())
	if snap.Active {
		t.Fatal("user without plan must not be active")
	}
	if snap.Transcriptions.Used != 3 {
		t.Fatalf("usage must be reported even without a plan, got %d", snap.Transcriptions.Used)
	}
	if snap.Transcriptions.Limit != 0 {
		t.Fatalf("limit = %d, want 0", snap.Transcriptions.Limit)
	}
}

func TestForUserLapsedPlanGrantsNothing(t *testing.T) {
	planID := uint(1)
	lapsed := time.Now().Add(-time.Hour)
	user := &models.User{PlanID: &planID, PlanExpiresAt: &lapsed}
	plan := &models.Plan{ID: planID, TranscriptionsLimit: 100}

	snap := ForUser(user, plan, time.Now())
	if snap.Active {
		t.Fatal("lapsed plan reference must not grant entitlement")
	}
}

func TestForUserActivePlan(t *testing.T) {
	planID := uint(1)
	expires := time.Now().Add(24 * time.Hour)
	user := &models.User{
		PlanID:                   &planID,
		PlanExpiresAt:            &expires,
		TranscriptionsUsedCount:  10,
		TranscriptionMinutesUsed: 120,
	}
	plan := &models.Plan{
		ID:                   planID,
		TranscriptionsLimit:  50,
		TranscriptionMinutes: 600,
		AgentUsesLimit:       20,
		AssistantUsesLimit:   20,
	}

	snap := ForUser(user, plan, time.Now())
	if !snap.Active {
		t.Fatal("expected active entitlement")
	}
	if snap.Transcriptions.Used != 10 || snap.Transcriptions.Limit != 50 {
		t.Fatalf("transcriptions quota = %+v", snap.Transcriptions)
	}
	if snap.TranscriptionMinutes.Limit != 600 {
		t.Fatalf("minutes limit = %d, want 600", snap.TranscriptionMinutes.Limit)
	}
}

func TestQuotaExceeded(t *testing.T) {
	tests := []struct {
		quota Quota
		want  bool
	}{
		{quota: Quota{Used: 0, Limit: 10}, want: false},
		{quota: Quota{Used: 9, Limit: 10}, want: false},
		{quota: Quota{Used: 10, Limit: 10}, want: true},
		{quota: Quota{Used: 11, Limit: 10}, want: true},
		{quota: Quota{Used: 1000, Limit: 0}, want: false}, // zero limit is unlimited
	}

	for _, tt := range tests {
		if got := tt.quota.Exceeded(); got != tt.want {
			t.Fatalf("Exceeded(%+v) = %v, want %v", tt.quota, got, tt.want)
		}
	}
}
