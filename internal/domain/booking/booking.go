package booking

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking references its owning customer by id only; the identity engine
// rewrites customer_id during consolidation and otherwise never touches
// booking rows.
type Booking struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CustomerID  uuid.UUID `gorm:"type:uuid;index;not null;column:customer_id" json:"customer_id"`
	Service     string    `gorm:"not null" json:"service"`
	ScheduledAt time.Time `gorm:"column:scheduled_at" json:"scheduled_at"`
	Status      string    `gorm:"not null;default:pending" json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }
