package identity

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the canonical identity record, keyed by the trailing ten
// digits of the customer's phone number. The unique index on phone is the
// source of truth for the one-active-identity-per-phone invariant; the
// resolver's retry loop leans on it under concurrent creation.
type Customer struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Phone       string    `gorm:"size:10;not null;uniqueIndex:idx_customers_phone" json:"phone"`
	DisplayName string    `gorm:"column:display_name" json:"display_name"`
	Email       string    `gorm:"column:email" json:"email,omitempty"`
	Verified    bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	LastLoginAt time.Time `gorm:"column:last_login_at" json:"last_login_at"`
}

func (Customer) TableName() string { return "customers" }

// LegacyCustomer mirrors the pre-migration identity collection. The engine
// only ever reads from it; rows are seeded by the historical importer and
// never touched here.
type LegacyCustomer struct {
	LegacyID  string    `gorm:"primaryKey;column:legacy_id" json:"legacy_id"`
	Phone     string    `gorm:"size:10;index" json:"phone"`
	Name      string    `gorm:"column:name" json:"name"`
	Email     string    `gorm:"column:email" json:"email,omitempty"`
	Verified  bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

func (LegacyCustomer) TableName() string { return "legacy_customers" }
