package models

import (
	"time"

	"gorm.io/gorm"
)

// BreathingExerciseType — справочник техник дыхания (наполняется сидом).
type BreathingExerciseType struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

// BreathingExerciseConfiguration — пользовательская настройка упражнения:
// длительности фаз в секундах и число циклов.
type BreathingExerciseConfiguration struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name           string `gorm:"size:255;not null" json:"name"`
	InhaleTime     int    `gorm:"not null" json:"inhaleTime"`
	HoldInhaleTime int    `gorm:"not null" json:"holdInhaleTime"`
	ExhaleTime     int    `gorm:"not null" json:"exhaleTime"`
	HoldExhaleTime int    `gorm:"not null" json:"holdExhaleTime"`
	Cycles         int    `gorm:"not null" json:"cycles"`
	Description    string `gorm:"type:text" json:"description,omitempty"`
	IsPublic       bool   `gorm:"not null;default:false" json:"isPublic"`

	TypeID uint                   `gorm:"index;not null" json:"typeId"`
	Type   *BreathingExerciseType `gorm:"foreignKey:TypeID" json:"type,omitempty"`

	UserID uint  `gorm:"index;not null" json:"userId"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
