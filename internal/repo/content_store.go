package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"cesizen/internal/models"
)

type ContentStore struct{ db *gorm.DB }

func NewContentStore(db *gorm.DB) *ContentStore { return &ContentStore{db: db} }

// List возвращает статьи; publishedOnly=nil — все, иначе фильтр по флагу.
func (s *ContentStore) List(ctx context.Context, publishedOnly *bool) ([]models.Content, error) {
	q := s.db.WithContext(ctx).Preload("Category").Order("created_at desc")
	if publishedOnly != nil {
		q = q.Where("published = ?", *publishedOnly)
	}
	var rows []models.Content
	err := q.Find(&rows).Error
	return rows, err
}

func (s *ContentStore) FindByID(ctx context.Context, id uint) (*models.Content, error) {
	var c models.Content
	err := s.db.WithContext(ctx).Preload("Category").First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ContentStore) FindBySlug(ctx context.Context, slug string) (*models.Content, error) {
	var c models.Content
	err := s.db.WithContext(ctx).Preload("Category").Where("slug = ?", slug).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ContentStore) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var n int64
	q := s.db.WithContext(ctx).Model(&models.Content{}).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (s *ContentStore) Create(ctx context.Context, c *models.Content) (*models.Content, error) {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return s.FindByID(ctx, c.ID)
}

func (s *ContentStore) Update(ctx context.Context, id uint, patch map[string]any) (*models.Content, error) {
	if len(patch) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Content{}).Where("id = ?", id).Updates(patch)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.FindByID(ctx, id)
}

func (s *ContentStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Content{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
