package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/portalnorte/noticias-backend/internal/application"
	"github.com/portalnorte/noticias-backend/internal/domain/entity"
	"github.com/portalnorte/noticias-backend/pkg/filestore"
	"github.com/portalnorte/noticias-backend/pkg/response"
)

type LeadHandler struct {
	Svc    *application.LeadService
	Files  filestore.Store
	Logger *logrus.Logger
}

func NewLeadHandler(svc *application.LeadService, files filestore.Store, logger *logrus.Logger) *LeadHandler {
	return &LeadHandler{Svc: svc, Files: files, Logger: logger}
}

func (h *LeadHandler) leadJSON(l *entity.Lead) gin.H {
	return gin.H{
		"id":         l.ID,
		"name":       l.Name,
		"company":    l.Company,
		"contact":    l.Contact,
		"kind":       l.Kind,
		"message":    l.Message,
		"image_url":  h.Files.PublicURL(l.ImagePath),
		"status":     l.Status,
		"created_at": l.CreatedAt,
	}
}

func leadInputFromForm(c *gin.Context) application.LeadInput {
	return application.LeadInput{
		Name:     c.PostForm("name"),
		Company:  c.PostForm("company"),
		Contact:  c.PostForm("contact"),
		Kind:     c.PostForm("kind"),
		Message:  c.PostForm("message"),
		Status:   c.PostForm("status"),
		ImageRef: c.PostForm("image_ref"),
	}
}

// Submit POST /api/leads (public, multipart, optional image)
func (h *LeadHandler) Submit(c *gin.Context) {
	up, f, err := uploadFromForm(c)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation", "invalid multipart form", nil)
		return
	}
	if f != nil {
		defer func() { _ = f.Close() }()
	}
	in := leadInputFromForm(c)
	in.Status = "" // public submissions cannot pick a status
	l, err := h.Svc.Submit(c.Request.Context(), in, up)
	if err != nil {
		mediaError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, h.leadJSON(l), "lead submitted", nil)
}

// Create POST /api/admin/leads (multipart, optional image). Unlike Submit,
// an admin may set the status directly.
func (h *LeadHandler) Create(c *gin.Context) {
	up, f, err := uploadFromForm(c)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation", "invalid multipart form", nil)
		return
	}
	if f != nil {
		defer func() { _ = f.Close() }()
	}
	in := leadInputFromForm(c)
	l, err := h.Svc.Submit(c.Request.Context(), in, up)
	if err != nil {
		mediaError(c, h.Logger, err)
		return
	}
	if in.Status != "" && in.Status != l.Status {
		if l, err = h.Svc.Update(c.Request.Context(), l.ID, in, nil); err != nil {
			mediaError(c, h.Logger, err)
			return
		}
	}
	response.Success(c, http.StatusCreated, h.leadJSON(l), "lead created", nil)
}

// List GET /api/admin/leads[?status=]
func (h *LeadHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		mediaError(c, h.Logger, err)
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, l := range list {
		out = append(out, h.leadJSON(l))
	}
	response.Success(c, http.StatusOK, out, "leads", gin.H{"count": len(out)})
}

// Update PUT /api/admin/leads/:id (multipart, optional image replacement)
func (h *LeadHandler) Update(c *gin.Context) {
	up, f, err := uploadFromForm(c)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation", "invalid multipart form", nil)
		return
	}
	if f != nil {
		defer func() { _ = f.Close() }()
	}
	l, err := h.Svc.Update(c.Request.Context(), c.Param("id"), leadInputFromForm(c), up)
	if err != nil {
		mediaError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, h.leadJSON(l), "lead updated", nil)
}

// Delete DELETE /api/admin/leads/:id
func (h *LeadHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		mediaError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "lead deleted", nil)
}
