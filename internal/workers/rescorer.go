package workers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/greenhill-dev/estates-api/internal/database"
	"github.com/greenhill-dev/estates-api/internal/models"
	"github.com/greenhill-dev/estates-api/internal/queue"
	"github.com/greenhill-dev/estates-api/internal/seo"
)

// Rescorer processes SEO rescore jobs: it re-evaluates a blog post's SEO
// checklist and persists the derived score and read time.
type Rescorer struct {
	postRepo database.BlogPostRepositoryInterface
	jobQueue queue.JobQueue // For re-enqueueing jobs with delays
	logger   *zap.Logger
}

// NewRescorer creates a new rescorer
func NewRescorer(postRepo database.BlogPostRepositoryInterface, jobQueue queue.JobQueue, logger *zap.Logger) *Rescorer {
	return &Rescorer{
		postRepo: postRepo,
		jobQueue: jobQueue,
		logger:   logger,
	}
}

// ProcessJob dispatches a queue message and handles acknowledgement
func (r *Rescorer) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	if job.IsExpired() {
		// A newer save superseded this job between delivery and processing;
		// the fresh job it enqueued covers the same post, so drop this one.
		if ackErr := msg.Ack(); ackErr != nil {
			r.logger.Warn("rescore_ack_failed", zap.Error(ackErr))
		}
		return nil
	}

	switch job.Type {
	case queue.JobTypeSEORescore:
		if err := r.ProcessRescoreJob(ctx, job); err != nil {
			return r.handleJobError(ctx, msg, job, err)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack job: %w", ackErr)
		}
		return nil

	default:
		if nackErr := msg.Nack(false); nackErr != nil { // Unknown job type, send to DLQ
			r.logger.Warn("rescore_nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// ProcessRescoreJob re-evaluates one blog post
func (r *Rescorer) ProcessRescoreJob(ctx context.Context, job *queue.Job) error {
	post, err := r.postRepo.GetByID(ctx, job.PostID)
	if err != nil {
		if database.IsNotFound(err) {
			// Post deleted between save and rescore; nothing to do
			r.logger.Info("rescore_post_gone", zap.String("post_id", job.PostID.String()))
			return nil
		}
		return fmt.Errorf("failed to get blog post: %w", err)
	}

	result := seo.Evaluate(scoringInput(post))
	readTime := seo.EstimateReadTime(readingContent(post))

	if err := r.postRepo.UpdateScore(ctx, post.ID, result.Score, readTime); err != nil {
		return fmt.Errorf("failed to persist score: %w", err)
	}

	r.logger.Info("rescore_completed",
		zap.String("post_id", post.ID.String()),
		zap.Int("seo_score", result.Score),
		zap.Int("read_time", readTime),
	)
	return nil
}

// handleJobError re-enqueues retryable failures with a backoff delay and dead
// letters jobs that are out of retries.
func (r *Rescorer) handleJobError(ctx context.Context, msg queue.MessageInterface, job *queue.Job, err error) error {
	if !job.CanRetry() {
		r.logger.Error("rescore_retries_exhausted",
			zap.Error(err),
			zap.String("post_id", job.PostID.String()),
			zap.Int("retry_count", job.RetryCount),
		)
		if nackErr := msg.Nack(false); nackErr != nil { // Send to DLQ
			r.logger.Warn("rescore_nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("rescore failed permanently: %w", err)
	}

	job.IncrementRetry()
	notBefore := time.Now().Add(time.Duration(job.RetryCount) * 30 * time.Second)
	retryJob := &queue.Job{
		ID:         job.ID,
		Type:       job.Type,
		PostID:     job.PostID,
		NotBefore:  &notBefore,
		NotAfter:   job.NotAfter,
		CreatedAt:  job.CreatedAt,
		RetryCount: job.RetryCount,
		MaxRetries: job.MaxRetries,
	}

	if enqueueErr := r.jobQueue.Enqueue(ctx, retryJob); enqueueErr != nil {
		// Could not re-enqueue; requeue the original delivery instead
		if nackErr := msg.Nack(true); nackErr != nil {
			r.logger.Warn("rescore_nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("failed to re-enqueue rescore job: %w", enqueueErr)
	}

	if ackErr := msg.Ack(); ackErr != nil {
		return fmt.Errorf("failed to ack retried job: %w", ackErr)
	}

	r.logger.Warn("rescore_retrying",
		zap.Error(err),
		zap.String("post_id", job.PostID.String()),
		zap.Int("retry_count", job.RetryCount),
	)
	return nil
}

// scoringInput builds the scorer input from a post, preferring the English
// variant and falling back to Georgian when an English field is empty. The
// focus keyword applies to whichever variant is scored.
func scoringInput(post *models.BlogPost) seo.Input {
	in := seo.Input{
		FocusKeyword:    post.FocusKeyword,
		MetaTitle:       post.MetaTitleEN,
		MetaDescription: post.MetaDescriptionEN,
		Content:         post.ContentEN,
	}
	if in.MetaTitle == "" {
		in.MetaTitle = post.MetaTitleKA
	}
	if in.MetaDescription == "" {
		in.MetaDescription = post.MetaDescriptionKA
	}
	if in.Content == "" {
		in.Content = post.ContentKA
	}
	return in
}

// readingContent picks the longer language variant for the read time estimate.
func readingContent(post *models.BlogPost) string {
	if len(post.ContentKA) > len(post.ContentEN) {
		return post.ContentKA
	}
	return post.ContentEN
}
