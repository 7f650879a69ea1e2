package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cesizen/internal/models"
)

type BreathingTypeStore struct{ db *gorm.DB }

func NewBreathingTypeStore(db *gorm.DB) *BreathingTypeStore { return &BreathingTypeStore{db: db} }

func (s *BreathingTypeStore) List(ctx context.Context) ([]models.BreathingExerciseType, error) {
	var rows []models.BreathingExerciseType
	err := s.db.WithContext(ctx).Order("id asc").Find(&rows).Error
	return rows, err
}

func (s *BreathingTypeStore) FindByID(ctx context.Context, id uint) (*models.BreathingExerciseType, error) {
	var t models.BreathingExerciseType
	err := s.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *BreathingTypeStore) Create(ctx context.Context, t *models.BreathingExerciseType) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *BreathingTypeStore) Update(ctx context.Context, id uint, patch map[string]any) (*models.BreathingExerciseType, error) {
	if len(patch) > 0 {
		res := s.db.WithContext(ctx).Model(&models.BreathingExerciseType{}).Where("id = ?", id).Updates(patch)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.FindByID(ctx, id)
}

func (s *BreathingTypeStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.BreathingExerciseType{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertByName — идемпотентная вставка для сида.
func (s *BreathingTypeStore) UpsertByName(ctx context.Context, t models.BreathingExerciseType) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description"}),
		}).
		Create(&t).Error
}

type BreathingConfigStore struct{ db *gorm.DB }

func NewBreathingConfigStore(db *gorm.DB) *BreathingConfigStore {
	return &BreathingConfigStore{db: db}
}

// ListVisible — публичные конфигурации плюс собственные (userID=0 — только публичные).
func (s *BreathingConfigStore) ListVisible(ctx context.Context, userID uint) ([]models.BreathingExerciseConfiguration, error) {
	q := s.db.WithContext(ctx).Preload("Type").Order("name asc")
	if userID != 0 {
		q = q.Where("is_public = ? OR user_id = ?", true, userID)
	} else {
		q = q.Where("is_public = ?", true)
	}
	var rows []models.BreathingExerciseConfiguration
	err := q.Find(&rows).Error
	return rows, err
}

func (s *BreathingConfigStore) FindByID(ctx context.Context, id uint) (*models.BreathingExerciseConfiguration, error) {
	var c models.BreathingExerciseConfiguration
	err := s.db.WithContext(ctx).Preload("Type").First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *BreathingConfigStore) Create(ctx context.Context, c *models.BreathingExerciseConfiguration) (*models.BreathingExerciseConfiguration, error) {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return s.FindByID(ctx, c.ID)
}

func (s *BreathingConfigStore) Update(ctx context.Context, id uint, patch map[string]any) (*models.BreathingExerciseConfiguration, error) {
	if len(patch) > 0 {
		res := s.db.WithContext(ctx).Model(&models.BreathingExerciseConfiguration{}).
			Where("id = ?", id).Updates(patch)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.FindByID(ctx, id)
}

func (s *BreathingConfigStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.BreathingExerciseConfiguration{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
