package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestHasActivePlan(t *testing.T) {
	now := time.Now()
	planID := uint(1)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name string
		user User
		want bool
	}{
		{name: "no plan", user: User{}, want: false},
		{name: "plan id without expiry", user: User{PlanID: &planID}, want: false},
		{name: "expiry without plan id", user: User{PlanExpiresAt: &future}, want: false},
		{name: "lapsed expiry", user: User{PlanID: &planID, PlanExpiresAt: &past}, want: false},
		{name: "active", user: User{PlanID: &planID, PlanExpiresAt: &future}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.HasActivePlan(now); got != tt.want {
				t.Fatalf("HasActivePlan = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResetUsageCounters(t *testing.T) {
	u := User{
		TranscriptionsUsedCount:  5,
		TranscriptionMinutesUsed: 300,
		AgentUsesUsed:            2,
		AssistantUsesUsed:        7,
	}
	u.ResetUsageCounters()
	if u.TranscriptionsUsedCount != 0 || u.TranscriptionMinutesUsed != 0 || u.AgentUsesUsed != 0 || u.AssistantUsesUsed != 0 {
		t.Fatalf("counters not reset: %+v", u)
	}
}

func TestPasswordHashing(t *testing.T) {
	u := User{}
	if err := u.SetPassword("s3cret-pass"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if u.Password == "s3cret-pass" {
		t.Fatal("password must not be stored in clear")
	}
	if !u.CheckPassword("s3cret-pass") {
		t.Fatal("correct password rejected")
	}
	if u.CheckPassword("wrong") {
		t.Fatal("wrong password accepted")
	}
}

func TestGenerateResetPasswordToken(t *testing.T) {
	u := User{}
	token, err := u.GenerateResetPasswordToken()
	if err != nil {
		t.Fatalf("GenerateResetPasswordToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected a plain token")
	}
	if u.ResetPasswordToken == token {
		t.Fatal("stored token must be the hash, not the plain token")
	}
	if u.ResetPasswordToken != HashResetToken(token) {
		t.Fatal("stored token does not match the hashed plain token")
	}
	if u.ResetPasswordExpires == nil || !u.ResetPasswordExpires.After(time.Now()) {
		t.Fatal("expiry must be set in the future")
	}

	u.ClearResetPasswordToken()
	if u.ResetPasswordToken != "" || u.ResetPasswordExpires != nil {
		t.Fatal("ClearResetPasswordToken must clear both fields")
	}
}

func TestCreateUserValidates(t *testing.T) {
	if _, err := CreateUser("Dr. House", "not-an-email", "password"); err == nil {
		t.Fatal("expected validation error for bad email")
	}
	u, err := CreateUser("Dr. House", "house@example.com", "password")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Role != ROLE_USER || u.Status != STATUS_ACTIVE {
		t.Fatalf("unexpected defaults: role=%q status=%q", u.Role, u.Status)
	}
}

func TestUserJSONOmitsCredentials(t *testing.T) {
	expires := time.Now().Add(time.Hour)
	u := User{
		Name:                 "Dr. House",
		Email:                "house@example.com",
		Password:             "$2a$10$secret-hash",
		ResetPasswordToken:   "reset-token-hash",
		ResetPasswordExpires: &expires,
	}

	payload, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(payload)

	for _, leaked := range []string{"secret-hash", "reset-token-hash", "password", "reset_password"} {
		if strings.Contains(body, leaked) {
			t.Fatalf("serialized user leaks %q: %s", leaked, body)
		}
	}
	if !strings.Contains(body, "house@example.com") {
		t.Fatalf("serialized user lost its public fields: %s", body)
	}
}
