package model

import (
	"time"

	"github.com/google/uuid"
)

type Evaluation struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Score     float64   `gorm:"not null"` // 0.0 to 1.0
	Prompt    string    `gorm:"type:text;not null"`
	Response  string    `gorm:"type:text;not null"`
	Analysis  string    `gorm:"type:text;not null"`
	ModelName string    `gorm:"type:text;not null"`
	NoteId    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}
