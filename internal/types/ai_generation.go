package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AIGeneration is one persisted generation result. Written exactly once per
// completed stream session and never mutated afterwards; read back only to
// list past posts and to extract summaries for repetition avoidance.
type AIGeneration struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	PromptSent     string         `gorm:"column:prompt_sent" json:"prompt_sent"`
	AIResponse     datatypes.JSON `gorm:"type:jsonb;column:ai_response" json:"ai_response"`
	ModelUsed      string         `gorm:"column:model_used;not null" json:"model_used"`
	GenerationType string         `gorm:"column:generation_type;not null" json:"generation_type"`
	Summary        string         `gorm:"column:summary" json:"summary"`
	CreatedAt      time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (AIGeneration) TableName() string {
	return "ai_generations"
}
