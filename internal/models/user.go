package models

import (
	"time"

	"gorm.io/gorm"
)

// Закрытый набор ролей. Имена совпадают со строками в таблице roles.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// Role — справочник ролей (иммутабельные данные).
type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:64;not null" json:"name"`
}

// User — учётная запись. Пароль хранится только как bcrypt-хэш
// и никогда не сериализуется наружу.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserName  string `gorm:"uniqueIndex;size:255;not null" json:"userName"`
	Email     string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  []byte `gorm:"not null" json:"-"`
	FirstName string `gorm:"size:255" json:"firstName"`
	LastName  string `gorm:"size:255" json:"lastName"`
	IsActive  bool   `gorm:"not null;default:true" json:"isActive"`

	RoleID uint  `gorm:"index;not null" json:"roleId"`
	Role   *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

// UserView — публичная проекция пользователя (без пароля).
type UserView struct {
	ID        uint   `json:"id"`
	UserName  string `json:"userName"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	IsActive  bool   `json:"isActive"`
	Role      *Role  `json:"role,omitempty"`
}

func (u *User) View() UserView {
	return UserView{
		ID:        u.ID,
		UserName:  u.UserName,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		Role:      u.Role,
	}
}
