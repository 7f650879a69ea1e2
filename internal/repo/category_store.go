package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"cesizen/internal/models"
)

type CategoryStore struct{ db *gorm.DB }

func NewCategoryStore(db *gorm.DB) *CategoryStore { return &CategoryStore{db: db} }

func (s *CategoryStore) List(ctx context.Context) ([]models.ContentCategory, error) {
	var rows []models.ContentCategory
	err := s.db.WithContext(ctx).Order("name asc").Find(&rows).Error
	return rows, err
}

func (s *CategoryStore) FindByID(ctx context.Context, id uint) (*models.ContentCategory, error) {
	var c models.ContentCategory
	err := s.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.ContentCategory, error) {
	var c models.ContentCategory
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ContentsOf — опубликованные статьи рубрики.
func (s *CategoryStore) ContentsOf(ctx context.Context, id uint) ([]models.Content, error) {
	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, err
	}
	var rows []models.Content
	err := s.db.WithContext(ctx).Where("category_id = ? AND published = ?", id, true).
		Order("created_at desc").Find(&rows).Error
	return rows, err
}

func (s *CategoryStore) Create(ctx context.Context, c *models.ContentCategory) (*models.ContentCategory, error) {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return c, nil
}

func (s *CategoryStore) Update(ctx context.Context, id uint, patch map[string]any) (*models.ContentCategory, error) {
	if len(patch) > 0 {
		res := s.db.WithContext(ctx).Model(&models.ContentCategory{}).Where("id = ?", id).Updates(patch)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.FindByID(ctx, id)
}

func (s *CategoryStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.ContentCategory{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
