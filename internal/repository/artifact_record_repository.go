package repository

import (
	"fmt"

	"gorm.io/gorm"

	"docuchat/internal/model"
)

type ArtifactRecordRepository struct {
	db *gorm.DB
}

func NewArtifactRecordRepository(db *gorm.DB) *ArtifactRecordRepository {
	return &ArtifactRecordRepository{db: db}
}

func (r *ArtifactRecordRepository) Create(record *model.ArtifactRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("create artifact record failed: %w", err)
	}
	return nil
}

func (r *ArtifactRecordRepository) GetByName(name string) (*model.ArtifactRecord, error) {
	var record model.ArtifactRecord
	err := r.db.Where("name = ?", name).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact record failed: %w", err)
	}
	return &record, nil
}

func (r *ArtifactRecordRepository) ListBySessionID(sessionID string) ([]model.ArtifactRecord, error) {
	var records []model.ArtifactRecord
	err := r.db.Where("session_id = ?", sessionID).Order("created_at ASC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list artifact records failed: %w", err)
	}
	return records, nil
}
