package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/lesmnif/echoes/internal/pkg/errors"
	"github.com/lesmnif/echoes/internal/pkg/logger"
	"github.com/lesmnif/echoes/internal/types"
)

type GenerationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, gen *types.AIGeneration) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AIGeneration, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.AIGeneration, error)
	// RecentSummaries returns the newest non-empty summaries for a user,
	// newest first, capped at limit.
	RecentSummaries(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]string, error)
}

type generationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenerationRepo(db *gorm.DB, baseLog *logger.Logger) GenerationRepo {
	return &generationRepo{db: db, log: baseLog.With("repo", "GenerationRepo")}
}

func (gr *generationRepo) Create(ctx context.Context, tx *gorm.DB, gen *types.AIGeneration) error {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	if gen.ID == uuid.Nil {
		gen.ID = uuid.New()
	}
	return transaction.WithContext(ctx).Create(gen).Error
}

func (gr *generationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AIGeneration, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	var row types.AIGeneration
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (gr *generationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.AIGeneration, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	var results []*types.AIGeneration
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gr *generationRepo) RecentSummaries(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	if limit <= 0 {
		return nil, nil
	}

	var summaries []string
	if err := transaction.WithContext(ctx).
		Model(&types.AIGeneration{}).
		Where("user_id = ? AND summary <> ''", userID).
		Order("created_at DESC").
		Limit(limit).
		Pluck("summary", &summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}
