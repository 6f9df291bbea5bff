package queue

import (
	"time"

	"github.com/google/uuid"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeSEORescore recomputes the SEO score and read time for one blog post
	JobTypeSEORescore JobType = "seo_rescore"
)

// DebounceDelay is how long a rescore job waits before processing, so a burst
// of consecutive saves collapses into a single evaluation of the final text.
const DebounceDelay = 30 * time.Second

// Job represents a job in the queue
type Job struct {
	ID         uuid.UUID  `json:"id"`
	Type       JobType    `json:"type"`
	PostID     uuid.UUID  `json:"post_id"`
	NotBefore  *time.Time `json:"not_before,omitempty"` // Earliest time to process job (nil = immediate)
	NotAfter   *time.Time `json:"not_after,omitempty"`  // Latest time to process job (nil = no expiration)
	CreatedAt  time.Time  `json:"created_at"`
	RetryCount int        `json:"retry_count"`
	MaxRetries int        `json:"max_retries"`
}

// NewRescoreJob creates a debounced SEO rescore job for a blog post. The job
// expires if it has not run within an hour; by then a newer save has enqueued
// a fresh one.
func NewRescoreJob(postID uuid.UUID) *Job {
	notBefore := time.Now().Add(DebounceDelay)
	notAfter := time.Now().Add(time.Hour)
	return &Job{
		ID:         uuid.New(),
		Type:       JobTypeSEORescore,
		PostID:     postID,
		NotBefore:  &notBefore,
		NotAfter:   &notAfter,
		CreatedAt:  time.Now(),
		RetryCount: 0,
		MaxRetries: 3,
	}
}

// ShouldProcess checks if the job should be processed now
func (j *Job) ShouldProcess() bool {
	now := time.Now()

	if j.NotBefore != nil && now.Before(*j.NotBefore) {
		return false
	}
	if j.NotAfter != nil && now.After(*j.NotAfter) {
		return false
	}

	return true
}

// IsExpired checks if the job has expired
func (j *Job) IsExpired() bool {
	if j.NotAfter == nil {
		return false
	}
	return time.Now().After(*j.NotAfter)
}

// CanRetry checks if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry increments the retry count
func (j *Job) IncrementRetry() {
	j.RetryCount++
}
