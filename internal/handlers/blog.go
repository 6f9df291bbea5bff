package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/greenhill-dev/estates-api/internal/cache"
	"github.com/greenhill-dev/estates-api/internal/database"
	"github.com/greenhill-dev/estates-api/internal/models"
	"github.com/greenhill-dev/estates-api/internal/queue"
	"github.com/greenhill-dev/estates-api/internal/seo"
	"github.com/greenhill-dev/estates-api/internal/validation"
)

// BlogHandler handles blog post and category requests
type BlogHandler struct {
	postRepo     database.BlogPostRepositoryInterface
	categoryRepo database.BlogCategoryRepositoryInterface
	cache        cache.Cache
	jobQueue     queue.JobQueue
	logger       *zap.Logger
}

// NewBlogHandler creates a new blog handler. jobQueue may be nil; rescore jobs
// are then skipped and only the synchronous score at save time applies.
func NewBlogHandler(
	postRepo database.BlogPostRepositoryInterface,
	categoryRepo database.BlogCategoryRepositoryInterface,
	responseCache cache.Cache,
	jobQueue queue.JobQueue,
	logger *zap.Logger,
) *BlogHandler {
	return &BlogHandler{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		cache:        responseCache,
		jobQueue:     jobQueue,
		logger:       logger,
	}
}

// RegisterPublicRoutes registers the read-only blog routes.
// The router should already have the /blog prefix.
func (h *BlogHandler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListPublic).Methods("GET")
	r.HandleFunc("/categories", h.ListCategories).Methods("GET")
	r.HandleFunc("/{slug}", h.GetPublic).Methods("GET")
}

// RegisterAdminPostRoutes registers the session-gated post routes.
// The router should already have the /blog-posts prefix.
func (h *BlogHandler) RegisterAdminPostRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListAdmin).Methods("GET")
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("/analyze", h.Analyze).Methods("POST")
	r.HandleFunc("/{id}/analyze", h.AnalyzeStored).Methods("POST")
	r.HandleFunc("/{id}", h.GetAdmin).Methods("GET")
	r.HandleFunc("/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
	r.HandleFunc("/{id}/active", h.SetActive).Methods("PATCH")
}

// RegisterAdminCategoryRoutes registers the session-gated category routes.
// The router should already have the /blog-categories prefix.
func (h *BlogHandler) RegisterAdminCategoryRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListCategories).Methods("GET")
	r.HandleFunc("", h.CreateCategory).Methods("POST")
	r.HandleFunc("/{id}", h.UpdateCategory).Methods("PUT")
	r.HandleFunc("/{id}", h.DeleteCategory).Methods("DELETE")
}

// ListPublic lists published posts, optionally filtered by category_id,
// served read-through from cache
func (h *BlogHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	var categoryID *uuid.UUID
	cacheKey := "blog:list"
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid category_id")
			return
		}
		categoryID = &parsed
		cacheKey += ":" + parsed.String()
	}

	h.cachedList(w, r, cacheKey, func() (any, error) {
		return h.postRepo.List(r.Context(), categoryID, true)
	})
}

// GetPublic returns one published post by slug
func (h *BlogHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	post, err := h.postRepo.GetBySlug(r.Context(), slug)
	if err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Post not found")
			return
		}
		h.logger.Error("blog_post_get_failed", zap.Error(err), zap.String("slug", slug))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to get post")
		return
	}
	if !post.IsActive {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Post not found")
		return
	}

	respondJSON(w, http.StatusOK, post)
}

// ListCategories lists all blog categories
func (h *BlogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryRepo.List(r.Context())
	if err != nil {
		h.logger.Error("blog_category_list_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to list categories")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// ListAdmin lists all posts including drafts
func (h *BlogHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postRepo.List(r.Context(), nil, false)
	if err != nil {
		h.logger.Error("blog_post_list_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to list posts")
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// GetAdmin returns one post by ID regardless of visibility
func (h *BlogHandler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid post ID")
		return
	}

	post, err := h.postRepo.GetByID(r.Context(), id)
	if err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Post not found")
			return
		}
		h.logger.Error("blog_post_get_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to get post")
		return
	}

	respondJSON(w, http.StatusOK, post)
}

// Analyze runs the SEO checklist over arbitrary draft fields without saving
// anything. The admin editor calls this for live feedback while typing.
func (h *BlogHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var in seo.Input
	if err := decodeJSON(r, &in); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	respondJSON(w, http.StatusOK, seo.Evaluate(in))
}

// AnalyzeStored re-runs the checklist over a saved post's English fields and
// persists the refreshed score and read time
func (h *BlogHandler) AnalyzeStored(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid post ID")
		return
	}

	post, err := h.postRepo.GetByID(r.Context(), id)
	if err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Post not found")
			return
		}
		h.logger.Error("blog_post_get_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to get post")
		return
	}

	result := seo.Evaluate(seo.Input{
		FocusKeyword:    post.FocusKeyword,
		MetaTitle:       post.MetaTitleEN,
		MetaDescription: post.MetaDescriptionEN,
		Content:         post.ContentEN,
	})
	readTime := seo.EstimateReadTime(post.ContentEN)

	if err := h.postRepo.UpdateScore(r.Context(), id, result.Score, readTime); err != nil {
		h.logger.Error("blog_post_score_update_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update score")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, result)
}

// Create creates a post from an admin form. The SEO score and read time are
// computed synchronously; a debounced rescore job follows for the final text.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form validation.BlogPostForm
	if err := decodeJSON(r, &form); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if res := validation.CheckStruct(form); !res.OK {
		respondValidationError(w, res.FieldErrors)
		return
	}

	post := &models.BlogPost{IsActive: false}
	if err := h.applyPostForm(w, r, &form, post); err != nil {
		return // response already written
	}

	if err := h.postRepo.Create(r.Context(), post); err != nil {
		h.logger.Error("blog_post_create_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create post")
		return
	}

	h.invalidate(r)
	h.enqueueRescore(r, post.ID)
	h.logger.Info("blog_post_created",
		zap.String("id", post.ID.String()),
		zap.String("slug", post.Slug),
	)
	respondJSON(w, http.StatusCreated, post)
}

// Update replaces a post's editable fields and rescores it
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid post ID")
		return
	}

	var form validation.BlogPostForm
	if err := decodeJSON(r, &form); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if res := validation.CheckStruct(form); !res.OK {
		respondValidationError(w, res.FieldErrors)
		return
	}

	post, err := h.postRepo.GetByID(r.Context(), id)
	if err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Post not found")
			return
		}
		h.logger.Error("blog_post_get_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to get post")
		return
	}

	if err := h.applyPostForm(w, r, &form, post); err != nil {
		return // response already written
	}

	if err := h.postRepo.Update(r.Context(), post); err != nil {
		h.logger.Error("blog_post_update_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update post")
		return
	}

	h.invalidate(r)
	h.enqueueRescore(r, post.ID)
	respondJSON(w, http.StatusOK, post)
}

// SetActive toggles a post's published flag
func (h *BlogHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid post ID")
		return
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := h.postRepo.SetActive(r.Context(), id, req.IsActive); err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Post not found")
			return
		}
		h.logger.Error("blog_post_set_active_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update post")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, map[string]any{"id": id, "is_active": req.IsActive})
}

// Delete removes a post
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid post ID")
		return
	}

	if err := h.postRepo.Delete(r.Context(), id); err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Post not found")
			return
		}
		h.logger.Error("blog_post_delete_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete post")
		return
	}

	h.invalidate(r)
	h.logger.Info("blog_post_deleted", zap.String("id", id.String()))
	respondJSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

// CreateCategory creates a blog category
func (h *BlogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slug   string `json:"slug"`
		NameKA string `json:"name_ka"`
		NameEN string `json:"name_en"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if req.Slug == "" || req.NameKA == "" || req.NameEN == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "slug, name_ka and name_en are required")
		return
	}

	category := &models.BlogCategory{
		Slug:   req.Slug,
		NameKA: validation.SanitizeText(req.NameKA),
		NameEN: validation.SanitizeText(req.NameEN),
	}

	if err := h.categoryRepo.Create(r.Context(), category); err != nil {
		h.logger.Error("blog_category_create_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create category")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusCreated, category)
}

// UpdateCategory updates a blog category
func (h *BlogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid category ID")
		return
	}

	var req struct {
		Slug   string `json:"slug"`
		NameKA string `json:"name_ka"`
		NameEN string `json:"name_en"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	category := &models.BlogCategory{
		ID:     id,
		Slug:   req.Slug,
		NameKA: validation.SanitizeText(req.NameKA),
		NameEN: validation.SanitizeText(req.NameEN),
	}

	if err := h.categoryRepo.Update(r.Context(), category); err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Category not found")
			return
		}
		h.logger.Error("blog_category_update_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update category")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, category)
}

// DeleteCategory removes a blog category; its posts survive uncategorized
func (h *BlogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid category ID")
		return
	}

	if err := h.categoryRepo.Delete(r.Context(), id); err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Category not found")
			return
		}
		h.logger.Error("blog_category_delete_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete category")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

// applyPostForm copies validated form fields onto the model, resolves the
// category, and computes the synchronous SEO score and read time. On failure
// it writes the error response and returns a non-nil error.
func (h *BlogHandler) applyPostForm(w http.ResponseWriter, r *http.Request, form *validation.BlogPostForm, post *models.BlogPost) error {
	post.CategoryID = nil
	if form.CategoryID != nil && *form.CategoryID != "" {
		categoryID := uuid.MustParse(*form.CategoryID) // validated as uuid
		if _, err := h.categoryRepo.GetByID(r.Context(), categoryID); err != nil {
			if database.IsNotFound(err) {
				respondValidationError(w, map[string]string{"category_id": "category does not exist"})
				return err
			}
			h.logger.Error("blog_category_get_failed", zap.Error(err))
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to verify category")
			return err
		}
		post.CategoryID = &categoryID
	}

	post.Slug = form.Slug
	post.TitleKA = validation.SanitizeText(form.TitleKA)
	post.TitleEN = validation.SanitizeText(form.TitleEN)
	post.ExcerptKA = validation.SanitizeText(form.ExcerptKA)
	post.ExcerptEN = validation.SanitizeText(form.ExcerptEN)
	post.ContentKA = form.ContentKA
	post.ContentEN = form.ContentEN
	post.MetaTitleKA = validation.SanitizeText(form.MetaTitleKA)
	post.MetaTitleEN = validation.SanitizeText(form.MetaTitleEN)
	post.MetaDescriptionKA = validation.SanitizeText(form.MetaDescriptionKA)
	post.MetaDescriptionEN = validation.SanitizeText(form.MetaDescriptionEN)
	post.FocusKeyword = validation.SanitizeText(form.FocusKeyword)
	post.ImageURL = form.ImageURL

	result := seo.Evaluate(seo.Input{
		FocusKeyword:    post.FocusKeyword,
		MetaTitle:       post.MetaTitleEN,
		MetaDescription: post.MetaDescriptionEN,
		Content:         post.ContentEN,
	})
	post.SeoScore = &result.Score
	readTime := seo.EstimateReadTime(post.ContentEN)
	post.ReadTime = &readTime

	return nil
}

// enqueueRescore schedules a debounced background rescore for a post
func (h *BlogHandler) enqueueRescore(r *http.Request, postID uuid.UUID) {
	if h.jobQueue == nil {
		return
	}
	if err := h.jobQueue.Enqueue(r.Context(), queue.NewRescoreJob(postID)); err != nil {
		h.logger.Warn("rescore_enqueue_failed", zap.Error(err), zap.String("post_id", postID.String()))
	}
}

// cachedList serves a list payload read-through from the response cache
func (h *BlogHandler) cachedList(w http.ResponseWriter, r *http.Request, key string, load func() (any, error)) {
	if h.cache != nil {
		if raw, err := h.cache.Get(r.Context(), key); err == nil && raw != nil {
			respondJSON(w, http.StatusOK, json.RawMessage(raw))
			return
		}
	}

	data, err := load()
	if err != nil {
		h.logger.Error("blog_list_failed", zap.Error(err), zap.String("cache_key", key))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load listing")
		return
	}

	if h.cache != nil {
		if raw, err := json.Marshal(data); err == nil {
			_ = h.cache.Set(r.Context(), key, raw, cache.DefaultTTL)
		}
	}

	respondJSON(w, http.StatusOK, data)
}

// invalidate drops all cached blog listings after a mutation
func (h *BlogHandler) invalidate(r *http.Request) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidatePrefix(r.Context(), "blog:"); err != nil {
		h.logger.Warn("cache_invalidate_failed", zap.Error(err))
	}
}
