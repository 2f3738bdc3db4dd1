package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/portalnorte/noticias-backend/internal/application"
	"github.com/portalnorte/noticias-backend/internal/domain/entity"
	"github.com/portalnorte/noticias-backend/pkg/filestore"
	"github.com/portalnorte/noticias-backend/pkg/response"
)

type ArticleHandler struct {
	Svc    *application.ArticleService
	Files  filestore.Store
	Logger *logrus.Logger
}

func NewArticleHandler(svc *application.ArticleService, files filestore.Store, logger *logrus.Logger) *ArticleHandler {
	return &ArticleHandler{Svc: svc, Files: files, Logger: logger}
}

// mediaError maps media-linked service errors onto status codes.
func mediaError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, application.ErrMissingFields):
		response.Error[any](c, http.StatusBadRequest, "missing_fields", "required fields are missing", nil)
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "not_found", "record not found", nil)
	case errors.Is(err, filestore.ErrTooLarge):
		response.Error[any](c, http.StatusRequestEntityTooLarge, "too_large", "uploaded file exceeds the size limit", nil)
	case errors.Is(err, filestore.ErrUnsupportedType):
		response.Error[any](c, http.StatusUnsupportedMediaType, "unsupported_type", "only image uploads are accepted", nil)
	default:
		if logger != nil {
			logger.WithError(err).Error("media request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal", "internal error", nil)
	}
}

func (h *ArticleHandler) articleJSON(a *entity.Article) gin.H {
	return gin.H{
		"id":         a.ID,
		"title":      a.Title,
		"summary":    a.Summary,
		"body":       a.Body,
		"category":   a.Category,
		"image_url":  h.Files.PublicURL(a.ImagePath),
		"created_at": a.CreatedAt,
		"updated_at": a.UpdatedAt,
	}
}

func (h *ArticleHandler) articlesJSON(list []*entity.Article) []gin.H {
	out := make([]gin.H, 0, len(list))
	for _, a := range list {
		out = append(out, h.articleJSON(a))
	}
	return out
}

// List GET /api/articles[?category=]
func (h *ArticleHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		mediaError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, h.articlesJSON(list), "articles", gin.H{"count": len(list)})
}

// Get GET /api/articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	a, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		mediaError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, h.articleJSON(a), "article", nil)
}

// Search GET /api/search?q=
func (h *ArticleHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "validation", "query parameter q is required", nil)
		return
	}
	list, err := h.Svc.Search(c.Request.Context(), q, 10)
	if err != nil {
		mediaError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, h.articlesJSON(list), "search results", gin.H{"count": len(list)})
}

func articleInputFromForm(c *gin.Context) application.ArticleInput {
	return application.ArticleInput{
		Title:    c.PostForm("title"),
		Summary:  c.PostForm("summary"),
		Body:     c.PostForm("body"),
		Category: c.PostForm("category"),
		ImageRef: c.PostForm("image_ref"),
	}
}

// Create POST /api/admin/articles (multipart, optional image)
func (h *ArticleHandler) Create(c *gin.Context) {
	up, f, err := uploadFromForm(c)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation", "invalid multipart form", nil)
		return
	}
	if f != nil {
		defer func() { _ = f.Close() }()
	}
	a, err := h.Svc.Create(c.Request.Context(), articleInputFromForm(c), up)
	if err != nil {
		mediaError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, h.articleJSON(a), "article created", nil)
}

// Update PUT /api/admin/articles/:id (multipart, optional image replacement)
func (h *ArticleHandler) Update(c *gin.Context) {
	up, f, err := uploadFromForm(c)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation", "invalid multipart form", nil)
		return
	}
	if f != nil {
		defer func() { _ = f.Close() }()
	}
	a, err := h.Svc.Update(c.Request.Context(), c.Param("id"), articleInputFromForm(c), up)
	if err != nil {
		mediaError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, h.articleJSON(a), "article updated", nil)
}

// Delete DELETE /api/admin/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		mediaError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "article deleted", nil)
}
