package model

import (
	"time"

	"gorm.io/datatypes"
)

type Course struct {
	Code          string         `gorm:"type:text;primaryKey"`
	Title         string         `gorm:"type:text;not null"`
	Description   string         `gorm:"type:text"`
	Credits       int            `gorm:"not null"`
	Term          int            `gorm:"not null;index"`
	Prerequisites datatypes.JSON `gorm:"type:jsonb"`
	// Modules holds the whole module -> unit -> lesson tree. The aggregate is
	// replaced as one document on update, so it lives as a single column.
	Modules   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (Course) TableName() string {
	return "courses"
}
