package workers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greenhill-dev/estates-api/internal/models"
	"github.com/greenhill-dev/estates-api/internal/queue"
)

type mockPostRepo struct {
	posts  map[uuid.UUID]*models.BlogPost
	scores map[uuid.UUID][2]int
	getErr error
	updErr error
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{
		posts:  make(map[uuid.UUID]*models.BlogPost),
		scores: make(map[uuid.UUID][2]int),
	}
}

func (m *mockPostRepo) Create(_ context.Context, _ *models.BlogPost) error { return nil }

func (m *mockPostRepo) GetByID(_ context.Context, id uuid.UUID) (*models.BlogPost, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	post, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("blog post not found: %w", sql.ErrNoRows)
	}
	return post, nil
}

func (m *mockPostRepo) GetBySlug(_ context.Context, _ string) (*models.BlogPost, error) {
	return nil, sql.ErrNoRows
}

func (m *mockPostRepo) List(_ context.Context, _ *uuid.UUID, _ bool) ([]*models.BlogPost, error) {
	return nil, nil
}

func (m *mockPostRepo) Update(_ context.Context, _ *models.BlogPost) error { return nil }

func (m *mockPostRepo) UpdateScore(_ context.Context, id uuid.UUID, seoScore, readTime int) error {
	if m.updErr != nil {
		return m.updErr
	}
	m.scores[id] = [2]int{seoScore, readTime}
	return nil
}

func (m *mockPostRepo) SetActive(_ context.Context, _ uuid.UUID, _ bool) error { return nil }
func (m *mockPostRepo) Delete(_ context.Context, _ uuid.UUID) error            { return nil }

type fakeMessage struct {
	job      *queue.Job
	acked    bool
	nacked   bool
	requeued bool
}

func (f *fakeMessage) Ack() error { f.acked = true; return nil }
func (f *fakeMessage) Nack(requeue bool) error {
	f.nacked = true
	f.requeued = requeue
	return nil
}
func (f *fakeMessage) GetJob() *queue.Job { return f.job }

func TestRescorer_ProcessJob_DropsExpiredJob(t *testing.T) {
	t.Parallel()

	repo := newMockPostRepo()
	postID := uuid.New()
	repo.posts[postID] = &models.BlogPost{ID: postID, ContentEN: "stale"}

	rescorer := NewRescorer(repo, nil, zap.NewNop())
	past := time.Now().Add(-time.Minute)
	msg := &fakeMessage{job: &queue.Job{
		ID:       uuid.New(),
		Type:     queue.JobTypeSEORescore,
		PostID:   postID,
		NotAfter: &past,
	}}

	if err := rescorer.ProcessJob(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !msg.acked {
		t.Error("expected expired job to be acked")
	}
	if len(repo.scores) != 0 {
		t.Error("expected no score writes for expired job")
	}
}

func TestRescorer_ProcessJob_ProcessesReadyJob(t *testing.T) {
	t.Parallel()

	repo := newMockPostRepo()
	postID := uuid.New()
	repo.posts[postID] = &models.BlogPost{ID: postID, ContentEN: "fresh content"}

	rescorer := NewRescorer(repo, nil, zap.NewNop())
	notBefore := time.Now().Add(-time.Second)
	notAfter := time.Now().Add(time.Minute)
	msg := &fakeMessage{job: &queue.Job{
		ID:        uuid.New(),
		Type:      queue.JobTypeSEORescore,
		PostID:    postID,
		NotBefore: &notBefore,
		NotAfter:  &notAfter,
	}}

	if err := rescorer.ProcessJob(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !msg.acked {
		t.Error("expected processed job to be acked")
	}
	if _, ok := repo.scores[postID]; !ok {
		t.Error("expected score to be persisted for ready job")
	}
}

func TestRescorer_ProcessRescoreJob(t *testing.T) {
	t.Parallel()

	repo := newMockPostRepo()
	postID := uuid.New()
	repo.posts[postID] = &models.BlogPost{
		ID:                postID,
		Slug:              "tbilisi-apartments-guide",
		FocusKeyword:      "tbilisi apartments",
		MetaTitleEN:       "Tbilisi Apartments Buying Guide For Families",
		MetaDescriptionEN: strings.Repeat("Find tbilisi apartments with our guide. ", 3) + "Explore listings today ok",
		ContentEN:         strings.Repeat("Buying tbilisi apartments takes research and patience every single time. ", 32),
	}

	rescorer := NewRescorer(repo, nil, zap.NewNop())
	job := &queue.Job{ID: uuid.New(), Type: queue.JobTypeSEORescore, PostID: postID}

	if err := rescorer.ProcessRescoreJob(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, ok := repo.scores[postID]
	if !ok {
		t.Fatal("expected score to be persisted")
	}
	if stored[0] <= 0 || stored[0] > 100 {
		t.Errorf("score = %d, want within (0, 100]", stored[0])
	}
	if stored[1] < 1 {
		t.Errorf("read time = %d, want >= 1", stored[1])
	}
}

func TestRescorer_ProcessRescoreJob_PostGone(t *testing.T) {
	t.Parallel()

	repo := newMockPostRepo()
	rescorer := NewRescorer(repo, nil, zap.NewNop())
	job := &queue.Job{ID: uuid.New(), Type: queue.JobTypeSEORescore, PostID: uuid.New()}

	// A deleted post is not an error; the job just has nothing to do.
	if err := rescorer.ProcessRescoreJob(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.scores) != 0 {
		t.Error("expected no score writes for missing post")
	}
}

func TestRescorer_ProcessRescoreJob_RepoError(t *testing.T) {
	t.Parallel()

	repo := newMockPostRepo()
	repo.getErr = errors.New("connection refused")
	rescorer := NewRescorer(repo, nil, zap.NewNop())
	job := &queue.Job{ID: uuid.New(), Type: queue.JobTypeSEORescore, PostID: uuid.New()}

	if err := rescorer.ProcessRescoreJob(context.Background(), job); err == nil {
		t.Fatal("expected error")
	}
}

func TestScoringInput_FallsBackToGeorgian(t *testing.T) {
	t.Parallel()

	post := &models.BlogPost{
		FocusKeyword:      "ბინები",
		MetaTitleKA:       "ბინები თბილისში საუკეთესო ფასად",
		MetaDescriptionKA: "იპოვეთ ბინები თბილისში",
		ContentKA:         "ბინები თბილისში",
	}

	in := scoringInput(post)
	if in.MetaTitle != post.MetaTitleKA {
		t.Errorf("MetaTitle = %q, want Georgian fallback", in.MetaTitle)
	}
	if in.MetaDescription != post.MetaDescriptionKA {
		t.Errorf("MetaDescription = %q, want Georgian fallback", in.MetaDescription)
	}
	if in.Content != post.ContentKA {
		t.Errorf("Content = %q, want Georgian fallback", in.Content)
	}
}

func TestReadingContent_PicksLongerVariant(t *testing.T) {
	t.Parallel()

	post := &models.BlogPost{
		ContentEN: "short",
		ContentKA: "considerably longer georgian content body",
	}
	if got := readingContent(post); got != post.ContentKA {
		t.Errorf("readingContent picked %q, want longer variant", got)
	}

	post.ContentEN = strings.Repeat("x", 100)
	if got := readingContent(post); got != post.ContentEN {
		t.Errorf("readingContent picked %q, want longer variant", got)
	}
}
