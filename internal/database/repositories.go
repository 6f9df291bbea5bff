package database

import (
	"context"

	"github.com/google/uuid"

	"github.com/greenhill-dev/estates-api/internal/models"
)

// ProjectRepositoryInterface defines the interface for project repository operations
// This interface enables better testability by allowing mock implementations
type ProjectRepositoryInterface interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Reorder(ctx context.Context, ids []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ApartmentRepositoryInterface defines the interface for apartment repository operations
type ApartmentRepositoryInterface interface {
	Create(ctx context.Context, apartment *models.Apartment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Apartment, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, activeOnly bool) ([]*models.Apartment, error)
	Update(ctx context.Context, apartment *models.Apartment) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Reorder(ctx context.Context, ids []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BlogPostRepositoryInterface defines the interface for blog post repository operations
type BlogPostRepositoryInterface interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	List(ctx context.Context, categoryID *uuid.UUID, activeOnly bool) ([]*models.BlogPost, error)
	Update(ctx context.Context, post *models.BlogPost) error
	UpdateScore(ctx context.Context, id uuid.UUID, seoScore, readTime int) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BlogCategoryRepositoryInterface defines the interface for blog category repository operations
type BlogCategoryRepositoryInterface interface {
	Create(ctx context.Context, category *models.BlogCategory) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BlogCategory, error)
	List(ctx context.Context) ([]*models.BlogCategory, error)
	Update(ctx context.Context, category *models.BlogCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BannerRepositoryInterface defines the interface for banner repository operations
type BannerRepositoryInterface interface {
	Create(ctx context.Context, banner *models.Banner) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Banner, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Banner, error)
	Update(ctx context.Context, banner *models.Banner) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Reorder(ctx context.Context, ids []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SettingRepositoryInterface defines the interface for site setting repository operations
type SettingRepositoryInterface interface {
	List(ctx context.Context) ([]*models.SiteSetting, error)
	GetByKey(ctx context.Context, key string) (*models.SiteSetting, error)
	Upsert(ctx context.Context, setting *models.SiteSetting) error
	Delete(ctx context.Context, key string) error
}

// Ensure concrete types implement the interfaces
var (
	_ ProjectRepositoryInterface      = (*ProjectRepository)(nil)
	_ ApartmentRepositoryInterface    = (*ApartmentRepository)(nil)
	_ BlogPostRepositoryInterface     = (*BlogPostRepository)(nil)
	_ BlogCategoryRepositoryInterface = (*BlogCategoryRepository)(nil)
	_ BannerRepositoryInterface       = (*BannerRepository)(nil)
	_ SettingRepositoryInterface      = (*SettingRepository)(nil)
)
