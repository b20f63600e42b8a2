package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ROLE_USER       = "user"
	ROLE_ADMIN      = "admin"
	STATUS_ACTIVE   = "active"
	STATUS_DISABLED = "disabled"
)

const ResetTokenTTL = time.Hour

type User struct {
	ID                       uint           `gorm:"primaryKey" json:"id"`
	Name                     string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=3,max=150"`
	Email                    string         `gorm:"uniqueIndex;type:varchar(200) CHARACTER SET utf8 COLLATE utf8_bin" json:"email" validate:"required,email,min=5,max=200"`
	Password                 string         `gorm:"type:text" json:"-" validate:"required,min=6"`
	Role                     string         `gorm:"type:varchar(50);default:'user'" json:"role" validate:"oneof=user admin"`
	Status                   string         `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active disabled"`
	PlanID                   *uint          `gorm:"index;default:null" json:"plan_id"`
	PlanExpiresAt            *time.Time     `gorm:"type:timestamp;default:null" json:"plan_expires_at"`
	TranscriptionsUsedCount  int            `gorm:"not null;default:0" json:"transcriptions_used_count"`
	TranscriptionMinutesUsed int            `gorm:"not null;default:0" json:"transcription_minutes_used"`
	AgentUsesUsed            int            `gorm:"not null;default:0" json:"agent_uses_used"`
	AssistantUsesUsed        int            `gorm:"not null;default:0" json:"assistant_uses_used"`
	ResetPasswordToken       string         `gorm:"type:varchar(100);default:null;index" json:"-"`
	ResetPasswordExpires     *time.Time     `gorm:"type:timestamp;default:null" json:"-"`
	LastLoginAt              *time.Time     `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt                time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt                gorm.DeletedAt `gorm:"index" json:"-"`

	Plan *Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

func CreateUser(name string, email string, password string) (*User, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:     name,
		Email:    email,
		Password: pw,
		Role:     ROLE_USER,
		Status:   STATUS_ACTIVE,
	}

	err = u.Validate()
	if err != nil {
		return nil, err
	}

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// SetPassword hashes and sets a new password for the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}

// GenerateResetPasswordToken creates a random reset token, stores its SHA-256
// hash with a one hour expiry and returns the plain token for the email link.
func (u *User) GenerateResetPasswordToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	u.ResetPasswordToken = HashResetToken(token)
	expires := time.Now().Add(ResetTokenTTL)
	u.ResetPasswordExpires = &expires
	return token, nil
}

// HashResetToken hashes a plain reset token the way it is stored in the DB.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ClearResetPasswordToken invalidates any outstanding reset token.
func (u *User) ClearResetPasswordToken() {
	u.ResetPasswordToken = ""
	u.ResetPasswordExpires = nil
}

// HasActivePlan reports whether the user currently holds a paid entitlement.
// PlanID alone is never enough, the expiry has to be in the future.
func (u *User) HasActivePlan(now time.Time) bool {
	return u.PlanID != nil && u.PlanExpiresAt != nil && u.PlanExpiresAt.After(now)
}

// ResetUsageCounters zeroes all per-period usage counters.
func (u *User) ResetUsageCounters() {
	u.TranscriptionsUsedCount = 0
	u.TranscriptionMinutesUsed = 0
	u.AgentUsesUsed = 0
	u.AssistantUsesUsed = 0
}

// IsActive reports whether the user status is active
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}
