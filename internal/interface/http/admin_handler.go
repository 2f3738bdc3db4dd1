package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/portalnorte/noticias-backend/internal/application"
	repo "github.com/portalnorte/noticias-backend/internal/domain/repository"
	"github.com/portalnorte/noticias-backend/pkg/filestore"
	"github.com/portalnorte/noticias-backend/pkg/response"
)

// AdminHandler serves the dashboard, user listing/export, and the generic
// image upload. All of its routes sit behind Auth + RequireAdmin.
type AdminHandler struct {
	Stats  *application.StatsService
	Users  repo.UserRepository
	Files  filestore.Store
	Logger *logrus.Logger
}

func NewAdminHandler(stats *application.StatsService, users repo.UserRepository, files filestore.Store, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Stats: stats, Users: users, Files: files, Logger: logger}
}

// Dashboard GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.Stats.Dashboard(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("dashboard stats failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal", "internal error", nil)
		return
	}
	response.Success(c, http.StatusOK, stats, "dashboard stats", nil)
}

// ListUsers GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("list users failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal", "internal error", nil)
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":         u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"age":        u.Age,
			"verified":   u.Verified,
			"is_admin":   u.IsAdmin,
			"created_at": u.CreatedAt,
		})
	}
	response.Success(c, http.StatusOK, out, "users", gin.H{"count": len(out)})
}

// ExportUsersCSV GET /api/admin/users/export
func (h *AdminHandler) ExportUsersCSV(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("export users failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal", "internal error", nil)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="users.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"id", "email", "name", "age", "verified", "created_at"})
	for _, u := range users {
		_ = w.Write([]string{
			u.ID,
			u.Email,
			u.Name,
			strconv.Itoa(u.Age),
			strconv.FormatBool(u.Verified),
			u.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	w.Flush()
}

// Upload POST /api/admin/upload stores an image and returns its reference
// and public URL, for use as an explicit image_ref on later edits.
func (h *AdminHandler) Upload(c *gin.Context) {
	up, f, err := uploadFromForm(c)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation", "invalid multipart form", nil)
		return
	}
	if up == nil {
		response.Error[any](c, http.StatusBadRequest, "missing_fields", "image file is required", nil)
		return
	}
	defer func() { _ = f.Close() }()

	ref, err := h.Files.Store(c.Request.Context(), up.Reader, up.Filename, up.ContentType)
	if err != nil {
		mediaError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"image_ref": ref,
		"image_url": h.Files.PublicURL(ref),
	}, "image uploaded", nil)
}
