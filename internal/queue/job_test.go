package queue

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewRescoreJob(t *testing.T) {
	t.Parallel()

	postID := uuid.New()
	job := NewRescoreJob(postID)

	if job.ID == uuid.Nil {
		t.Error("Expected job ID to be set")
	}
	if job.Type != JobTypeSEORescore {
		t.Errorf("Expected job type to be %s, got %s", JobTypeSEORescore, job.Type)
	}
	if job.PostID != postID {
		t.Errorf("Expected post ID to be %s, got %s", postID, job.PostID)
	}
	if job.NotBefore == nil {
		t.Fatal("Expected NotBefore to be set for debounce")
	}
	if delay := time.Until(*job.NotBefore); delay <= 0 || delay > DebounceDelay {
		t.Errorf("Expected debounce delay within (0, %v], got %v", DebounceDelay, delay)
	}
	if job.NotAfter == nil {
		t.Error("Expected NotAfter to be set")
	}
	if job.RetryCount != 0 {
		t.Errorf("Expected retry count to be 0, got %d", job.RetryCount)
	}
	if job.MaxRetries != 3 {
		t.Errorf("Expected max retries to be 3, got %d", job.MaxRetries)
	}
}

func TestJob_ShouldProcess(t *testing.T) {
	t.Parallel()

	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name string
		job  *Job
		want bool
	}{
		{
			name: "no time constraints",
			job:  &Job{ID: uuid.New(), Type: JobTypeSEORescore, PostID: uuid.New()},
			want: true,
		},
		{
			name: "debounce window still open",
			job:  &Job{ID: uuid.New(), Type: JobTypeSEORescore, PostID: uuid.New(), NotBefore: &future},
			want: false,
		},
		{
			name: "debounce window elapsed",
			job:  &Job{ID: uuid.New(), Type: JobTypeSEORescore, PostID: uuid.New(), NotBefore: &past},
			want: true,
		},
		{
			name: "expired",
			job:  &Job{ID: uuid.New(), Type: JobTypeSEORescore, PostID: uuid.New(), NotAfter: &past},
			want: false,
		},
		{
			name: "within both bounds",
			job:  &Job{ID: uuid.New(), Type: JobTypeSEORescore, PostID: uuid.New(), NotBefore: &past, NotAfter: &future},
			want: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.job.ShouldProcess(); got != tt.want {
				t.Errorf("ShouldProcess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJob_IsExpired(t *testing.T) {
	t.Parallel()

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Minute)

	job := &Job{ID: uuid.New()}
	if job.IsExpired() {
		t.Error("job without NotAfter should never expire")
	}

	job.NotAfter = &future
	if job.IsExpired() {
		t.Error("job before NotAfter should not be expired")
	}

	job.NotAfter = &past
	if !job.IsExpired() {
		t.Error("job past NotAfter should be expired")
	}
}

func TestJob_Retry(t *testing.T) {
	t.Parallel()

	job := NewRescoreJob(uuid.New())

	for i := 0; i < job.MaxRetries; i++ {
		if !job.CanRetry() {
			t.Fatalf("expected CanRetry at attempt %d", i)
		}
		job.IncrementRetry()
	}
	if job.CanRetry() {
		t.Error("expected CanRetry to be false after max retries")
	}
	if job.RetryCount != job.MaxRetries {
		t.Errorf("RetryCount = %d, want %d", job.RetryCount, job.MaxRetries)
	}
}
