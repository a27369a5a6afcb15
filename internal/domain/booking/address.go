package booking

import (
	"time"

	"github.com/google/uuid"
)

// Address keeps the historical user_id column name for its customer
// reference; it is the second repoint target during consolidation.
type Address struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Line1     string    `gorm:"not null" json:"line1"`
	Line2     string    `json:"line2,omitempty"`
	City      string    `json:"city"`
	Pincode   string    `gorm:"size:6" json:"pincode"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Address) TableName() string { return "addresses" }
