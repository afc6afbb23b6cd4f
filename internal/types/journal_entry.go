package types

import (
	"time"

	"github.com/google/uuid"
)

// JournalEntry is one day's journal for a user. Saving the same user+date
// again overwrites the row rather than creating a second one.
type JournalEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_journal_user_date" json:"user_id"`
	EntryDate    string    `gorm:"type:date;not null;uniqueIndex:idx_journal_user_date" json:"entry_date"`
	Title        string    `gorm:"column:title" json:"title"`
	Content      string    `gorm:"column:content;not null" json:"content"`
	WordCount    int       `gorm:"column:word_count;not null;default:0" json:"word_count"`
	LastEditedAt time.Time `gorm:"column:last_edited_at;not null;default:now()" json:"last_edited_at"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (JournalEntry) TableName() string {
	return "journal_entries"
}
