package blog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/novalift/novaliftcom/internal/gemini"
	"github.com/novalift/novaliftcom/internal/middleware"
	"github.com/novalift/novaliftcom/internal/telemetry/metrics"
	"github.com/novalift/novaliftcom/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// ResponseCacheSize is the memory budget for the list response cache.
// freecache caps a single entry at 1/1024 of the total cache size, so
// the budget is dictated by the largest list payload that must stay
// cacheable, a couple hundred KB of JSON, not by entry volume.
const ResponseCacheSize = 128 * 1024 * 1024

const (
	cacheKeyAllBlogs     = "blogs::all"
	cacheKeySectorPrefix = "blogs::sector::"
	cacheExpireSeconds   = 60
)

type generateBlogRequest struct {
	Sector string `json:"sector"`
}

type deleteBlogResponse struct {
	Success bool `json:"success"`
	Deleted int  `json:"deleted"`
}

type blogRepo interface {
	Create(ctx context.Context, fields Fields) (*Blog, error)
	All(ctx context.Context) ([]*Blog, error)
	BySector(ctx context.Context, sector string) ([]*Blog, error)
	Get(ctx context.Context, id int) (*Blog, error)
	Update(ctx context.Context, id int, fields Fields) (*Blog, error)
	Delete(ctx context.Context, id int) error
}

type draftGenerator interface {
	GenerateForSector(ctx context.Context, sector string) (*gemini.Draft, error)
}

type Handler struct {
	repo      blogRepo
	generator draftGenerator
	cache     *freecache.Cache
	metrics   *metrics.Manager
}

func NewHandler(
	repo blogRepo,
	generator draftGenerator,
	cache *freecache.Cache,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:      repo,
		generator: generator,
		cache:     cache,
		metrics:   metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	router *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	generateAllowedPerMin int,
) {
	generateRouter := router.PathPrefix("/api/blogs/generate").Subrouter()
	generateRouter.HandleFunc("", handler.handleGenerate).Methods("POST", "OPTIONS").Name("generate-blog")
	generateRouter.Use(middleware.RateLimit(rateLimiter, "blog-generate", generateAllowedPerMin, handler.metrics))

	router.HandleFunc("/api/blogs", handler.handleAll).Methods("GET").Name("all-blogs")
	router.HandleFunc("/api/blogs", handler.handleNewBlog).Methods("POST", "OPTIONS").Name("new-blog")
	router.HandleFunc("/api/blogs/sector/{sector}", handler.handleBySector).Methods("GET").Name("blogs-by-sector")
	router.HandleFunc("/api/blogs/{id:[0-9]+}", handler.handleGetBlog).Methods("GET").Name("get-blog")
	router.HandleFunc("/api/blogs/{id:[0-9]+}", handler.handleUpdateBlog).Methods("PUT", "OPTIONS").Name("update-blog")
	router.HandleFunc("/api/blogs/{id:[0-9]+}", handler.handleDeleteBlog).Methods("DELETE", "OPTIONS").Name("delete-blog")
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	if cached, err := handler.cache.Get([]byte(cacheKeyAllBlogs)); err == nil {
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		return
	}

	allBlogs, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all blogs error: %s", err)
		http.Error(w, "get all blogs error", http.StatusInternalServerError)
		return
	}
	if allBlogs == nil {
		allBlogs = []*Blog{}
	}

	allBlogsJson, err := json.Marshal(allBlogs)
	if err != nil {
		log.Errorf("marshal all blogs error: %s", err)
		http.Error(w, "marshal all blogs error", http.StatusInternalServerError)
		return
	}

	if err := handler.cache.Set([]byte(cacheKeyAllBlogs), allBlogsJson, cacheExpireSeconds); err != nil {
		log.Errorf("cache all blogs error: %s", err)
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, allBlogsJson)
}

func (handler *Handler) handleBySector(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sector := vars["sector"]

	// the sector match is case-insensitive, so the cache key is too
	cacheKey := []byte(cacheKeySectorPrefix + strings.ToLower(sector))
	if cached, err := handler.cache.Get(cacheKey); err == nil {
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		return
	}

	blogs, err := handler.repo.BySector(r.Context(), sector)
	if err != nil {
		log.Errorf("get blogs for sector [%s] error: %s", sector, err)
		http.Error(w, "get blogs by sector error", http.StatusInternalServerError)
		return
	}
	if blogs == nil {
		blogs = []*Blog{}
	}

	blogsJson, err := json.Marshal(blogs)
	if err != nil {
		log.Errorf("marshal sector blogs error: %s", err)
		http.Error(w, "marshal sector blogs error", http.StatusInternalServerError)
		return
	}

	if err := handler.cache.Set(cacheKey, blogsJson, cacheExpireSeconds); err != nil {
		log.Errorf("cache sector blogs error: %s", err)
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, blogsJson)
}

func (handler *Handler) handleGetBlog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	b, err := handler.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBlogNotFound) {
			http.Error(w, "blog post not found", http.StatusNotFound)
			return
		}
		log.Errorf("get blog %d: %s", id, err)
		http.Error(w, "get blog error", http.StatusInternalServerError)
		return
	}

	handler.writeBlogJSON(w, b)
}

func (handler *Handler) handleNewBlog(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		pkg.WriteTextResponseOK(w, "")
		return
	}

	var fields Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		log.Errorf("new blog, unmarshal json params: %s", err)
		http.Error(w, "invalid blog data", http.StatusBadRequest)
		return
	}

	if fields.Empty() {
		http.Error(w, "invalid blog data", http.StatusBadRequest)
		return
	}

	newBlog, err := handler.repo.Create(r.Context(), fields)
	if err != nil {
		log.Errorf("add new blog failed: %s", err)
		http.Error(w, "add new blog failed", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterBlogPosts.Inc()
	handler.cache.Clear()
	log.Tracef("new blog %d: [%s] added", newBlog.ID, newBlog.Title)

	handler.writeBlogJSON(w, newBlog)
}

func (handler *Handler) handleUpdateBlog(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "PUT, OPTIONS")
		pkg.WriteTextResponseOK(w, "")
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	// a missing post wins over a malformed body, so check existence first
	if _, err := handler.repo.Get(r.Context(), id); err != nil {
		if errors.Is(err, ErrBlogNotFound) {
			http.Error(w, "blog post not found", http.StatusNotFound)
			return
		}
		log.Errorf("update blog %d, get: %s", id, err)
		http.Error(w, "update blog failed", http.StatusInternalServerError)
		return
	}

	var fields Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		log.Errorf("update blog, unmarshal json params: %s", err)
		http.Error(w, "invalid blog data", http.StatusBadRequest)
		return
	}

	if fields.Empty() {
		http.Error(w, "invalid blog data", http.StatusBadRequest)
		return
	}

	updated, err := handler.repo.Update(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, ErrBlogNotFound) {
			http.Error(w, "blog post not found", http.StatusNotFound)
			return
		}
		log.Errorf("update blog %d failed: %s", id, err)
		http.Error(w, "update blog failed", http.StatusInternalServerError)
		return
	}

	handler.cache.Clear()
	log.Tracef("blog %d: [%s] updated", updated.ID, updated.Title)

	handler.writeBlogJSON(w, updated)
}

func (handler *Handler) handleDeleteBlog(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "DELETE, OPTIONS")
		pkg.WriteTextResponseOK(w, "")
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrBlogNotFound) {
			http.Error(w, "blog post not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete blog %d: %s", id, err)
		http.Error(w, "error, blog not deleted, internal server error", http.StatusInternalServerError)
		return
	}

	handler.cache.Clear()
	log.Tracef("blog %d deleted", id)

	respJson, err := json.Marshal(deleteBlogResponse{Success: true, Deleted: id})
	if err != nil {
		log.Errorf("marshal delete blog response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		pkg.WriteTextResponseOK(w, "")
		return
	}

	if handler.generator == nil {
		http.Error(w, "blog generation is not configured", http.StatusInternalServerError)
		return
	}

	var genReq generateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&genReq); err != nil {
		log.Errorf("generate blog, unmarshal json params: %s", err)
		http.Error(w, "sector is required", http.StatusBadRequest)
		return
	}
	if genReq.Sector == "" {
		http.Error(w, "sector is required", http.StatusBadRequest)
		return
	}

	draft, err := handler.generator.GenerateForSector(r.Context(), genReq.Sector)
	if err != nil {
		log.Errorf("generate blog for sector [%s]: %s", genReq.Sector, err)
		http.Error(w, "failed to generate blog content", http.StatusInternalServerError)
		return
	}

	if draft.Title == "" || draft.Content == "" || draft.Snippet == "" || draft.Author == "" {
		http.Error(w, "invalid generated blog data", http.StatusBadRequest)
		return
	}

	newBlog, err := handler.repo.Create(r.Context(), Fields{
		Title:   draft.Title,
		Content: draft.Content,
		Snippet: draft.Snippet,
		Sector:  genReq.Sector,
		Author:  draft.Author,
	})
	if err != nil {
		log.Errorf("save generated blog for sector [%s]: %s", genReq.Sector, err)
		http.Error(w, "failed to save generated blog", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterBlogPosts.Inc()
	handler.metrics.CounterGeneratedBlogPosts.Inc()
	handler.cache.Clear()
	log.Tracef("generated blog %d: [%s] added for sector [%s]", newBlog.ID, newBlog.Title, newBlog.Sector)

	handler.writeBlogJSON(w, newBlog)
}

func (handler *Handler) writeBlogJSON(w http.ResponseWriter, b *Blog) {
	blogJson, err := json.Marshal(b)
	if err != nil {
		log.Errorf("marshal blog %d: %s", b.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, blogJson)
}
