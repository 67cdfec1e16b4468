package tests

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"testapi/internal/store"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID returns store.ErrNotFound when no row has the given id.
func (r *Repository) FindByID(ctx context.Context, id string) (*store.Test, error) {
	var row store.Test
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
