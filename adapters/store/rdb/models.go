package rdb

import "time"

// RunRecord is the RDB persistence model for model.Run.
// Table name: runs
type RunRecord struct {
	ID             string    `gorm:"primaryKey;type:text;not null"`
	SubscriptionID string    `gorm:"type:text;not null"`
	ResourceGroup  string    `gorm:"type:text;not null"`
	Workspace      string    `gorm:"type:text;not null"`
	Status         string    `gorm:"type:text;not null"`
	Error          string    `gorm:"type:text"`
	StartedAt      time.Time `gorm:"not null;index"`
	FinishedAt     *time.Time
}

func (RunRecord) TableName() string { return "runs" }

// StepRecord is the RDB persistence model for model.StepRecord.
// Table name: run_steps
type StepRecord struct {
	RunID      string    `gorm:"primaryKey;type:text;not null"` // references Run
	Seq        int       `gorm:"primaryKey;autoIncrement:false;not null"`
	Kind       string    `gorm:"type:text;not null"`
	Name       string    `gorm:"type:text;not null"`
	Action     string    `gorm:"type:text;not null"`
	ResourceID string    `gorm:"type:text"`
	Error      string    `gorm:"type:text"`
	StartedAt  time.Time `gorm:"not null"`
	FinishedAt time.Time `gorm:"not null"`
}

func (StepRecord) TableName() string { return "run_steps" }
