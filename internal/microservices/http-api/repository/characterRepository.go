package repository

import (
	"context"
	"fmt"

	"animeshow/internal/microservices/http-api/models"
	"animeshow/internal/shared"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CharacterRepository interface {
	Upsert(ctx context.Context, c *models.Character) (int64, error)
	ListAll(ctx context.Context) ([]models.Character, error)
}

type characterRepository struct {
	db *gorm.DB
}

func NewCharacterRepository(db *gorm.DB) CharacterRepository {
	return &characterRepository{db: db}
}

// Upsert inserts c, or replaces every mutable column of the row with
// the same id. The write runs in one transaction; on failure nothing
// is written. Concurrent upserts of one id are last-commit-wins.
func (r *characterRepository) Upsert(ctx context.Context, c *models.Character) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("upsert character: %w: nil character", shared.ErrInvalidInput)
	}
	if c.ID <= 0 {
		return 0, fmt.Errorf("upsert character: %w: id is required", shared.ErrInvalidInput)
	}
	if err := c.CheckBounds(); err != nil {
		return 0, fmt.Errorf("upsert character %d: %w: %v", c.ID, shared.ErrInvalidInput, err)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(models.Character{}.MutableColumns()),
		}).Create(c).Error
	})
	if err != nil {
		return 0, &shared.StorageError{Op: fmt.Sprintf("upsert character %d", c.ID), Err: err}
	}
	return c.ID, nil
}

// ListAll returns every saved character ordered by id
func (r *characterRepository) ListAll(ctx context.Context) ([]models.Character, error) {
	list := []models.Character{}
	if err := r.db.WithContext(ctx).Order("id asc").Find(&list).Error; err != nil {
		return nil, &shared.StorageError{Op: "list characters", Err: err}
	}
	return list, nil
}
