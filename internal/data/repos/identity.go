package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	pkgerrors "github.com/lesmnif/echoes/internal/pkg/errors"
	"github.com/lesmnif/echoes/internal/pkg/logger"
	"github.com/lesmnif/echoes/internal/types"
)

type IdentityRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, userID uuid.UUID, identityText string) error
	Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserIdentity, error)
}

type identityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIdentityRepo(db *gorm.DB, baseLog *logger.Logger) IdentityRepo {
	return &identityRepo{db: db, log: baseLog.With("repo", "IdentityRepo")}
}

func (ir *identityRepo) Upsert(ctx context.Context, tx *gorm.DB, userID uuid.UUID, identityText string) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	row := &types.UserIdentity{
		UserID:       userID,
		IdentityText: identityText,
		UpdatedAt:    time.Now().UTC(),
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"identity_text", "updated_at"}),
		}).
		Create(row).Error
}

func (ir *identityRepo) Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserIdentity, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var row types.UserIdentity
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}
