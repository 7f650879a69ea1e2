package repo

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"cesizen/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type UserStore struct{ db *gorm.DB }

func NewUserStore(db *gorm.DB) *UserStore { return &UserStore{db: db} }

type CreateUserInput struct {
	UserName  string
	Email     string
	Password  string // открытый пароль, хэшируется здесь
	FirstName string
	LastName  string
	RoleID    uint
}

type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// Create хэширует пароль (bcrypt, cost 10 — как в исходном API) и создаёт запись.
func (s *UserStore) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		UserName:  in.UserName,
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsActive:  true,
		RoleID:    in.RoleID,
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return s.FindByID(ctx, u.ID)
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Preload("Role").Where("user_name = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Preload("Role").First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Exists — есть ли пользователь с таким именем или email.
func (s *UserStore) Exists(ctx context.Context, username, email string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("user_name = ? OR email = ?", username, email).Count(&n).Error
	return n > 0, err
}

func (s *UserStore) UpdateProfile(ctx context.Context, id uint, in UpdateProfileInput) (*models.User, error) {
	patch := map[string]any{}
	if in.FirstName != nil {
		patch["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		patch["last_name"] = *in.LastName
	}
	if in.Email != nil {
		patch["email"] = *in.Email
	}
	if len(patch) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
			Updates(patch).Error; err != nil {
			return nil, err
		}
	}
	return s.FindByID(ctx, id)
}

func (s *UserStore) UpdatePassword(ctx context.Context, id uint, hash []byte) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("password", hash).Error
}

func (s *UserStore) SetActiveStatus(ctx context.Context, id uint, active bool) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserStore) GetAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Preload("Role").Order("id asc").Find(&users).Error
	return users, err
}
