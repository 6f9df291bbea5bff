package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/greenhill-dev/estates-api/internal/models"
)

var errDatabaseDown = errors.New("database down")

func notFound(what string) error {
	return fmt.Errorf("%s not found: %w", what, sql.ErrNoRows)
}

type fakeProjectRepo struct {
	projects map[uuid.UUID]*models.Project
	err      error
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[uuid.UUID]*models.Project)}
}

func (f *fakeProjectRepo) Create(_ context.Context, project *models.Project) error {
	if f.err != nil {
		return f.err
	}
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	f.projects[project.ID] = project
	return nil
}

func (f *fakeProjectRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	project, ok := f.projects[id]
	if !ok {
		return nil, notFound("project")
	}
	return project, nil
}

func (f *fakeProjectRepo) GetBySlug(_ context.Context, slug string) (*models.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, project := range f.projects {
		if project.Slug == slug {
			return project, nil
		}
	}
	return nil, notFound("project")
}

func (f *fakeProjectRepo) List(_ context.Context, activeOnly bool) ([]*models.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Project
	for _, project := range f.projects {
		if activeOnly && !project.IsActive {
			continue
		}
		out = append(out, project)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (f *fakeProjectRepo) Update(_ context.Context, project *models.Project) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.projects[project.ID]; !ok {
		return notFound("project")
	}
	f.projects[project.ID] = project
	return nil
}

func (f *fakeProjectRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	project, ok := f.projects[id]
	if !ok {
		return notFound("project")
	}
	project.IsActive = active
	return nil
}

func (f *fakeProjectRepo) Reorder(_ context.Context, ids []uuid.UUID) error {
	for i, id := range ids {
		if project, ok := f.projects[id]; ok {
			project.SortOrder = i
		}
	}
	return nil
}

func (f *fakeProjectRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.projects[id]; !ok {
		return notFound("project")
	}
	delete(f.projects, id)
	return nil
}

type fakeApartmentRepo struct {
	apartments map[uuid.UUID]*models.Apartment
}

func newFakeApartmentRepo() *fakeApartmentRepo {
	return &fakeApartmentRepo{apartments: make(map[uuid.UUID]*models.Apartment)}
}

func (f *fakeApartmentRepo) Create(_ context.Context, apartment *models.Apartment) error {
	if apartment.ID == uuid.Nil {
		apartment.ID = uuid.New()
	}
	f.apartments[apartment.ID] = apartment
	return nil
}

func (f *fakeApartmentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Apartment, error) {
	apartment, ok := f.apartments[id]
	if !ok {
		return nil, notFound("apartment")
	}
	return apartment, nil
}

func (f *fakeApartmentRepo) ListByProject(_ context.Context, projectID uuid.UUID, activeOnly bool) ([]*models.Apartment, error) {
	var out []*models.Apartment
	for _, apartment := range f.apartments {
		if apartment.ProjectID != projectID {
			continue
		}
		if activeOnly && !apartment.IsActive {
			continue
		}
		out = append(out, apartment)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (f *fakeApartmentRepo) Update(_ context.Context, apartment *models.Apartment) error {
	if _, ok := f.apartments[apartment.ID]; !ok {
		return notFound("apartment")
	}
	f.apartments[apartment.ID] = apartment
	return nil
}

func (f *fakeApartmentRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	apartment, ok := f.apartments[id]
	if !ok {
		return notFound("apartment")
	}
	apartment.IsActive = active
	return nil
}

func (f *fakeApartmentRepo) Reorder(_ context.Context, ids []uuid.UUID) error {
	for i, id := range ids {
		if apartment, ok := f.apartments[id]; ok {
			apartment.SortOrder = i
		}
	}
	return nil
}

func (f *fakeApartmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.apartments[id]; !ok {
		return notFound("apartment")
	}
	delete(f.apartments, id)
	return nil
}

type fakeBlogPostRepo struct {
	posts map[uuid.UUID]*models.BlogPost
}

func newFakeBlogPostRepo() *fakeBlogPostRepo {
	return &fakeBlogPostRepo{posts: make(map[uuid.UUID]*models.BlogPost)}
}

func (f *fakeBlogPostRepo) Create(_ context.Context, post *models.BlogPost) error {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	f.posts[post.ID] = post
	return nil
}

func (f *fakeBlogPostRepo) GetByID(_ context.Context, id uuid.UUID) (*models.BlogPost, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, notFound("blog post")
	}
	return post, nil
}

func (f *fakeBlogPostRepo) GetBySlug(_ context.Context, slug string) (*models.BlogPost, error) {
	for _, post := range f.posts {
		if post.Slug == slug {
			return post, nil
		}
	}
	return nil, notFound("blog post")
}

func (f *fakeBlogPostRepo) List(_ context.Context, categoryID *uuid.UUID, activeOnly bool) ([]*models.BlogPost, error) {
	var out []*models.BlogPost
	for _, post := range f.posts {
		if activeOnly && !post.IsActive {
			continue
		}
		if categoryID != nil && (post.CategoryID == nil || *post.CategoryID != *categoryID) {
			continue
		}
		out = append(out, post)
	}
	return out, nil
}

func (f *fakeBlogPostRepo) Update(_ context.Context, post *models.BlogPost) error {
	if _, ok := f.posts[post.ID]; !ok {
		return notFound("blog post")
	}
	f.posts[post.ID] = post
	return nil
}

func (f *fakeBlogPostRepo) UpdateScore(_ context.Context, id uuid.UUID, seoScore, readTime int) error {
	post, ok := f.posts[id]
	if !ok {
		return notFound("blog post")
	}
	post.SeoScore = &seoScore
	post.ReadTime = &readTime
	return nil
}

func (f *fakeBlogPostRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	post, ok := f.posts[id]
	if !ok {
		return notFound("blog post")
	}
	post.IsActive = active
	return nil
}

func (f *fakeBlogPostRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.posts[id]; !ok {
		return notFound("blog post")
	}
	delete(f.posts, id)
	return nil
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*models.BlogCategory
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]*models.BlogCategory)}
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *models.BlogCategory) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	f.categories[category.ID] = category
	return nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*models.BlogCategory, error) {
	category, ok := f.categories[id]
	if !ok {
		return nil, notFound("blog category")
	}
	return category, nil
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]*models.BlogCategory, error) {
	var out []*models.BlogCategory
	for _, category := range f.categories {
		out = append(out, category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NameEN < out[j].NameEN })
	return out, nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, category *models.BlogCategory) error {
	if _, ok := f.categories[category.ID]; !ok {
		return notFound("blog category")
	}
	f.categories[category.ID] = category
	return nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.categories[id]; !ok {
		return notFound("blog category")
	}
	delete(f.categories, id)
	return nil
}
