package entitlements

import (
	"time"

	"github.com/condutamedx/medx-backend/app/models"
)

// Quota reports one usage counter against its plan limit. A zero limit means
// unlimited.
type Quota struct {
	Used  int `json:"used"`
	Limit int `json:"limit"`
}

func (q Quota) Exceeded() bool {
	return q.Limit > 0 && q.Used >= q.Limit
}

// Snapshot is a user's entitlement state at one point in time.
type Snapshot struct {
	Active               bool       `json:"active"`
	ExpiresAt            *time.Time `json:"expires_at,omitempty"`
	Transcriptions       Quota      `json:"transcriptions"`
	TranscriptionMinutes Quota      `json:"transcription_minutes"`
	AgentUses            Quota      `json:"agent_uses"`
	AssistantUses        Quota      `json:"assistant_uses"`
}

// ForUser computes the entitlement snapshot. A plan reference with a lapsed
// expiry grants nothing; PlanID alone is never enough.
func ForUser(u *models.User, plan *models.Plan, now time.Time) Snapshot {
	snap := Snapshot{
		Transcriptions:       Quota{Used: u.TranscriptionsUsedCount},
		TranscriptionMinutes: Quota{Used: u.TranscriptionMinutesUsed},
		AgentUses:            Quota{Used: u.AgentUsesUsed},
		AssistantUses:        Quota{Used: u.AssistantUsesUsed},
	}

	if !u.HasActivePlan(now) || plan == nil {
		return snap
	}

	snap.Active = true
	snap.ExpiresAt = u.PlanExpiresAt
	snap.Transcriptions.Limit = plan.TranscriptionsLimit
	snap.TranscriptionMinutes.Limit = plan.TranscriptionMinutes
	snap.AgentUses.Limit = plan.AgentUsesLimit
	snap.AssistantUses.Limit = plan.AssistantUsesLimit
	return snap
}
