package identity

import "time"

// OTPChallenge holds the bcrypt hash of an outstanding one-time code for a
// phone. One live challenge per phone; a new request replaces the old one.
type OTPChallenge struct {
	Phone     string    `gorm:"size:10;primaryKey" json:"phone"`
	CodeHash  string    `gorm:"not null;column:code_hash" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (OTPChallenge) TableName() string { return "otp_challenges" }
