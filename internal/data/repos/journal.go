package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lesmnif/echoes/internal/pkg/logger"
	"github.com/lesmnif/echoes/internal/types"
)

type JournalRepo interface {
	// UpsertByDate writes one journal entry keyed by user+date. A second save
	// for the same key overwrites content instead of inserting a new row.
	UpsertByDate(ctx context.Context, tx *gorm.DB, entry *types.JournalEntry) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.JournalEntry, error)
}

type journalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJournalRepo(db *gorm.DB, baseLog *logger.Logger) JournalRepo {
	return &journalRepo{db: db, log: baseLog.With("repo", "JournalRepo")}
}

func (jr *journalRepo) UpsertByDate(ctx context.Context, tx *gorm.DB, entry *types.JournalEntry) error {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.LastEditedAt.IsZero() {
		entry.LastEditedAt = time.Now().UTC()
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "entry_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "content", "word_count", "last_edited_at"}),
		}).
		Create(entry).Error
}

func (jr *journalRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.JournalEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	var results []*types.JournalEntry
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("entry_date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
