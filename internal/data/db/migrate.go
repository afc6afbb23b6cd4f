package db

import (
	"gorm.io/gorm"

	"github.com/lesmnif/echoes/internal/types"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.UserIdentity{},
		&types.JournalEntry{},
		&types.AIGeneration{},
	)
}

func (s *PostgresService) AutoMigrateAll() error {
	return AutoMigrateAll(s.db)
}
