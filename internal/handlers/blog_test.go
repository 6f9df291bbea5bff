package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/greenhill-dev/estates-api/internal/cache"
	"github.com/greenhill-dev/estates-api/internal/models"
	"github.com/greenhill-dev/estates-api/internal/seo"
)

func newBlogRouter(t *testing.T, posts *fakeBlogPostRepo, categories *fakeCategoryRepo) *mux.Router {
	t.Helper()
	handler := NewBlogHandler(posts, categories, cache.NewMemoryCache(), nil, zap.NewNop())
	router := mux.NewRouter()
	handler.RegisterPublicRoutes(router.PathPrefix("/blog").Subrouter())
	handler.RegisterAdminPostRoutes(router.PathPrefix("/admin/blog-posts").Subrouter())
	handler.RegisterAdminCategoryRoutes(router.PathPrefix("/admin/blog-categories").Subrouter())
	return router
}

func validPostBody(slug string) map[string]any {
	return map[string]any{
		"slug":                slug,
		"title_ka":            "სათაური",
		"title_en":            "Title",
		"content_en":          "Buying an apartment in Tbilisi takes planning and patience.",
		"meta_title_en":       "Buying an apartment in Tbilisi guide",
		"meta_description_en": "What to check before buying an apartment in Tbilisi.",
		"focus_keyword":       "apartment",
	}
}

func TestAnalyzeReturnsFullChecklist(t *testing.T) {
	t.Parallel()

	router := newBlogRouter(t, newFakeBlogPostRepo(), newFakeCategoryRepo())

	rr, env := doJSON(t, router, http.MethodPost, "/admin/blog-posts/analyze", "", seo.Input{
		FocusKeyword:    "apartment",
		MetaTitle:       "Buying an apartment in Tbilisi guide",
		MetaDescription: "What to check before buying an apartment in Tbilisi.",
		Content:         "Buying an apartment takes planning.",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var result seo.Result
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Items) != 7 {
		t.Errorf("items = %d, want 7", len(result.Items))
	}
	if result.Score < 0 || result.Score > 100 {
		t.Errorf("score = %d, want 0..100", result.Score)
	}
}

func TestAnalyzeStoredPersistsScore(t *testing.T) {
	t.Parallel()

	posts := newFakeBlogPostRepo()
	post := &models.BlogPost{
		ID:                uuid.New(),
		Slug:              "stored",
		FocusKeyword:      "apartment",
		MetaTitleEN:       "Buying an apartment in Tbilisi guide",
		MetaDescriptionEN: "What to check before buying an apartment in Tbilisi.",
		ContentEN:         "Buying an apartment takes planning and patience.",
	}
	posts.posts[post.ID] = post

	router := newBlogRouter(t, posts, newFakeCategoryRepo())

	rr, env := doJSON(t, router, http.MethodPost, "/admin/blog-posts/"+post.ID.String()+"/analyze", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rr.Code, rr.Body.String())
	}

	var result seo.Result
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if post.SeoScore == nil || *post.SeoScore != result.Score {
		t.Errorf("persisted score = %v, response score = %d", post.SeoScore, result.Score)
	}
	if post.ReadTime == nil || *post.ReadTime < 1 {
		t.Error("read time not persisted")
	}

	rr, _ = doJSON(t, router, http.MethodPost, "/admin/blog-posts/"+uuid.NewString()+"/analyze", "", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing post status = %d, want 404", rr.Code)
	}
}

func TestCreatePostScoresAndDrafts(t *testing.T) {
	t.Parallel()

	posts := newFakeBlogPostRepo()
	router := newBlogRouter(t, posts, newFakeCategoryRepo())

	rr, env := doJSON(t, router, http.MethodPost, "/admin/blog-posts", "", validPostBody("buying-guide"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %q)", rr.Code, rr.Body.String())
	}

	var post models.BlogPost
	if err := json.Unmarshal(env.Data, &post); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	if post.IsActive {
		t.Error("new post should be created as a draft")
	}
	if post.SeoScore == nil {
		t.Fatal("new post has no seo score")
	}
	if *post.SeoScore < 0 || *post.SeoScore > 100 {
		t.Errorf("seo score = %d, want 0..100", *post.SeoScore)
	}
	if post.ReadTime == nil || *post.ReadTime < 1 {
		t.Error("new post has no read time")
	}

	stored, err := posts.GetBySlug(context.Background(), "buying-guide")
	if err != nil {
		t.Fatalf("post not persisted: %v", err)
	}
	if stored.TitleEN != "Title" {
		t.Errorf("stored title = %q", stored.TitleEN)
	}
}

func TestCreatePostValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(body map[string]any)
		field  string
	}{
		{"missing slug", func(b map[string]any) { delete(b, "slug") }, "slug"},
		{"bad slug", func(b map[string]any) { b["slug"] = "Not A Slug" }, "slug"},
		{"missing title_en", func(b map[string]any) { delete(b, "title_en") }, "title_en"},
		{"bad category id", func(b map[string]any) { b["category_id"] = "nope" }, "category_id"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newBlogRouter(t, newFakeBlogPostRepo(), newFakeCategoryRepo())
			body := validPostBody("valid-slug")
			tt.mutate(body)

			rr, _ := doJSON(t, router, http.MethodPost, "/admin/blog-posts", "", body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}

			var resp struct {
				FieldErrors map[string]string `json:"field_errors"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if _, ok := resp.FieldErrors[tt.field]; !ok {
				t.Errorf("field_errors missing %q: %v", tt.field, resp.FieldErrors)
			}
		})
	}
}

func TestCreatePostUnknownCategory(t *testing.T) {
	t.Parallel()

	router := newBlogRouter(t, newFakeBlogPostRepo(), newFakeCategoryRepo())
	body := validPostBody("with-category")
	body["category_id"] = uuid.NewString()

	rr, _ := doJSON(t, router, http.MethodPost, "/admin/blog-posts", "", body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestGetPublicHidesDrafts(t *testing.T) {
	t.Parallel()

	posts := newFakeBlogPostRepo()
	published := &models.BlogPost{ID: uuid.New(), Slug: "published", IsActive: true}
	draft := &models.BlogPost{ID: uuid.New(), Slug: "draft", IsActive: false}
	posts.posts[published.ID] = published
	posts.posts[draft.ID] = draft

	router := newBlogRouter(t, posts, newFakeCategoryRepo())

	rr, _ := doJSON(t, router, http.MethodGet, "/blog/published", "", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("published post status = %d, want 200", rr.Code)
	}

	rr, _ = doJSON(t, router, http.MethodGet, "/blog/draft", "", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("draft status = %d, want 404", rr.Code)
	}

	rr, _ = doJSON(t, router, http.MethodGet, "/blog/missing", "", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing post status = %d, want 404", rr.Code)
	}
}

func TestListPublicFiltersByCategory(t *testing.T) {
	t.Parallel()

	posts := newFakeBlogPostRepo()
	categoryID := uuid.New()
	inCategory := &models.BlogPost{ID: uuid.New(), Slug: "in", CategoryID: &categoryID, IsActive: true}
	outOfCategory := &models.BlogPost{ID: uuid.New(), Slug: "out", IsActive: true}
	posts.posts[inCategory.ID] = inCategory
	posts.posts[outOfCategory.ID] = outOfCategory

	router := newBlogRouter(t, posts, newFakeCategoryRepo())

	_, env := doJSON(t, router, http.MethodGet, "/blog?category_id="+categoryID.String(), "", nil)
	var listed []*models.BlogPost
	if err := json.Unmarshal(env.Data, &listed); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listed) != 1 || listed[0].Slug != "in" {
		t.Errorf("filtered listing = %+v, want only 'in'", listed)
	}

	rr, _ := doJSON(t, router, http.MethodGet, "/blog?category_id=garbage", "", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("garbage category_id status = %d, want 400", rr.Code)
	}
}

func TestCategoryCRUD(t *testing.T) {
	t.Parallel()

	categories := newFakeCategoryRepo()
	router := newBlogRouter(t, newFakeBlogPostRepo(), categories)

	rr, env := doJSON(t, router, http.MethodPost, "/admin/blog-categories", "", map[string]string{
		"slug": "market-news", "name_ka": "ბაზრის სიახლეები", "name_en": "Market News",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", rr.Code)
	}
	var created models.BlogCategory
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode category: %v", err)
	}

	rr, _ = doJSON(t, router, http.MethodPost, "/admin/blog-categories", "", map[string]string{"slug": "only-slug"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("incomplete create status = %d, want 400", rr.Code)
	}

	rr, _ = doJSON(t, router, http.MethodDelete, "/admin/blog-categories/"+created.ID.String(), "", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("delete status = %d, want 200", rr.Code)
	}

	rr, _ = doJSON(t, router, http.MethodDelete, "/admin/blog-categories/"+uuid.NewString(), "", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("delete missing status = %d, want 404", rr.Code)
	}
}
