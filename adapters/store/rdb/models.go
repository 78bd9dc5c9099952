package rdb

import "time"

// RunRecord is the RDB persistence model for domain SyncRun.
// Table name: runs
type RunRecord struct {
	ID                string    `gorm:"primaryKey;type:text;not null"`
	Organization      string    `gorm:"type:text;not null;index"`
	DryRun            bool      `gorm:"not null"`
	Status            string    `gorm:"type:text;not null"`
	Workspaces        int       `gorm:"not null"`
	SkippedWorkspaces int       `gorm:"not null"`
	DecodeFailures    int       `gorm:"not null"`
	Resources         int       `gorm:"not null"`
	Delivered         int       `gorm:"not null"`
	Failed            int       `gorm:"not null"`
	Error             string    `gorm:"type:text"`
	StartedAt         time.Time `gorm:"not null;index"`
	FinishedAt        time.Time
}

func (RunRecord) TableName() string { return "runs" }

// DeliveryRecord persistence model
type DeliveryRecord struct {
	ID           string    `gorm:"primaryKey;type:text;not null"`
	RunID        string    `gorm:"type:text;not null;index"` // references Run
	WorkspaceID  string    `gorm:"type:text;not null"`
	ResourceName string    `gorm:"type:text"`
	Status       string    `gorm:"type:text;not null"`
	Error        string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (DeliveryRecord) TableName() string { return "deliveries" }
