package types

import (
	"time"

	"github.com/google/uuid"
)

// UserIdentity holds the free-form identity text the user maintains about
// themselves. One row per user, upserted on every journal save.
type UserIdentity struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	IdentityText string    `gorm:"column:identity_text" json:"identity_text"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserIdentity) TableName() string {
	return "user_identity"
}
