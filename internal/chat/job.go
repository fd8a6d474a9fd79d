package chat

import (
	"context"
	"time"
)

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job is an asynchronously processed completion request. The worker runs the
// same pipeline the synchronous endpoint does and records the outcome here.
type Job struct {
	ID string `gorm:"primaryKey;size:26"` // ULID length

	ChatID uint64      `gorm:"index;not null"`
	Kind   RequestKind `gorm:"type:varchar(16);not null"`
	Prompt string      `gorm:"type:text;not null"`

	Status JobStatus `gorm:"type:varchar(16);index;not null"`

	// Filled when succeeded
	ResultMessageID *uint64 `gorm:"index"`
	ResultImageID   *uint64 `gorm:"index"`

	// Filled when failed
	Error *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Job) TableName() string { return "jobs" }

func (r *Repo) CreateJob(ctx context.Context, job *Job) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return classify("create job", err)
	}
	return nil
}

func (r *Repo) GetJobByID(ctx context.Context, id string) (*Job, error) {
	var j Job
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		return nil, classify("get job", err)
	}
	return &j, nil
}

func (r *Repo) MarkJobRunning(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND status = ?", id, JobQueued).
		Update("status", JobRunning).Error
	if err != nil {
		return classify("mark job running", err)
	}
	return nil
}

func (r *Repo) MarkJobSucceeded(ctx context.Context, id string, messageID, imageID *uint64) error {
	err := r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":            JobSucceeded,
			"result_message_id": messageID,
			"result_image_id":   imageID,
			"error":             nil,
		}).Error
	if err != nil {
		return classify("mark job succeeded", err)
	}
	return nil
}

func (r *Repo) MarkJobFailed(ctx context.Context, id string, errMsg string) error {
	err := r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":            JobFailed,
			"error":             errMsg,
			"result_message_id": nil,
			"result_image_id":   nil,
		}).Error
	if err != nil {
		return classify("mark job failed", err)
	}
	return nil
}
