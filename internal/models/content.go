package models

import (
	"time"

	"gorm.io/gorm"
)

// ContentCategory — рубрика статей.
type ContentCategory struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"size:255;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

// Content — статья (markdown-текст) в рубрике.
type Content struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title     string `gorm:"size:255;not null" json:"title"`
	Slug      string `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Content   string `gorm:"type:text;not null" json:"content"`
	Published bool   `gorm:"not null;default:false" json:"published"`

	CategoryID uint             `gorm:"index;not null" json:"categoryId"`
	Category   *ContentCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
