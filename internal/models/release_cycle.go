package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"escrowd/internal/utils"
)

// ReleaseCycle хранит итог одного прогона клирингового цикла
// для аудита: счётчики, источник запуска и детали по каждому эскроу.
type ReleaseCycle struct {
	ID           string         `gorm:"primaryKey;size:21" json:"id"`
	TriggeredBy  string         `gorm:"type:varchar(20);not null" json:"trigger"`
	Processed    int            `gorm:"not null" json:"processed"`
	Released     int            `gorm:"not null" json:"released"`
	Skipped      int            `gorm:"not null" json:"skipped"`
	Errors       int            `gorm:"not null" json:"errors"`
	Details      datatypes.JSON `gorm:"type:json" json:"details" swaggertype:"object"`
	ReportObject string         `gorm:"size:255" json:"reportObject,omitempty"`
	StartedAt    time.Time      `gorm:"not null" json:"startedAt"`
	FinishedAt   time.Time      `gorm:"not null" json:"finishedAt"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

func (c *ReleaseCycle) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID, err = utils.GenerateNanoID()
	}
	return
}
