package queue

import (
	"encoding/json"
	"time"

	"github.com/fashionhub/storefront/pkg/logger"

	"gorm.io/gorm"
)

// FailedJobRecord is a job that exhausted its retries, persisted to the ops
// database so it can be inspected and replayed.
type FailedJobRecord struct {
	ID       uint   `gorm:"primaryKey"`
	JobID    string `gorm:"size:64;index"`
	Job      string `gorm:"size:128"`
	Payload  string
	Attempts int
	Error    string
	FailedAt time.Time
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

var opsDB *gorm.DB

// UseDB wires the ops database for failed-job persistence and migrates
// the failed_jobs table. Without it failures are only logged.
func UseDB(db *gorm.DB) error {
	if err := db.AutoMigrate(&FailedJobRecord{}); err != nil {
		return err
	}
	opsDB = db
	return nil
}

func recordFailure(env envelope, reason string) {
	if opsDB == nil {
		return
	}
	payload, _ := json.Marshal(env.Payload)
	rec := FailedJobRecord{
		JobID:    env.ID,
		Job:      env.Job,
		Payload:  string(payload),
		Attempts: env.Attempts,
		Error:    reason,
		FailedAt: time.Now(),
	}
	if err := opsDB.Create(&rec).Error; err != nil {
		logger.Error("queue: cannot persist failed job", "job", env.Job, "id", env.ID, "error", err)
	}
}

// FailedJobs returns the most recent failed jobs, newest first.
func FailedJobs(limit int) ([]FailedJobRecord, error) {
	if opsDB == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	var out []FailedJobRecord
	err := opsDB.Order("failed_at desc").Limit(limit).Find(&out).Error
	return out, err
}
