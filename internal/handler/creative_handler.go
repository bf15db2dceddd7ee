package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/zinhocoder/Aproovi-Back-end/internal/apperr"
	"github.com/zinhocoder/Aproovi-Back-end/internal/middleware"
	"github.com/zinhocoder/Aproovi-Back-end/internal/model"
	"github.com/zinhocoder/Aproovi-Back-end/internal/service"
	"github.com/zinhocoder/Aproovi-Back-end/pkg/logger"
	"github.com/zinhocoder/Aproovi-Back-end/prometheus"
)

// CreativeHandler exposes the creative lifecycle engine.
type CreativeHandler struct {
	Creatives *service.CreativeService
}

func NewCreativeHandler(creatives *service.CreativeService) *CreativeHandler {
	return &CreativeHandler{Creatives: creatives}
}

func statusFromQuery(s string) model.CreativeStatus { return model.CreativeStatus(s) }
func typeFromQuery(s string) model.CreativeType     { return model.CreativeType(s) }

// Upload handles a single-asset creative upload.
func (h *CreativeHandler) Upload(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCreativeOperation("upload")

	account := middleware.AccountFrom(c)

	file, err := requiredFormFile(c, "file")
	if err != nil {
		return fail(c, err)
	}

	creative, err := h.Creatives.Create(c.Request().Context(), account, service.CreateCreativeInput{
		File:      *file,
		Title:     c.FormValue("title"),
		Caption:   c.FormValue("caption"),
		Type:      typeFromQuery(c.FormValue("type")),
		CompanyID: c.FormValue("company_id"),
	})
	if err != nil {
		if apperr.IsKind(err, apperr.KindUpstream) {
			prometheus.RecordUploadError("asset")
		}
		log.Error("Failed to upload creative", zap.Error(err))
		return fail(c, err)
	}

	log.Info("Creative uploaded",
		zap.String("id", creative.ID),
		zap.String("type", string(creative.Type)))
	return respond(c, http.StatusCreated, creative, "creative uploaded successfully")
}

// UploadMultiple handles a carousel upload of up to 10 files.
func (h *CreativeHandler) UploadMultiple(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCreativeOperation("upload_multiple")

	account := middleware.AccountFrom(c)

	files, err := formFiles(c, "files")
	if err != nil {
		return fail(c, err)
	}

	creative, err := h.Creatives.CreateMultiAsset(c.Request().Context(), account, service.CreateCarouselInput{
		Files:     files,
		Title:     c.FormValue("title"),
		Caption:   c.FormValue("caption"),
		Type:      typeFromQuery(c.FormValue("type")),
		CompanyID: c.FormValue("company_id"),
	})
	if err != nil {
		if apperr.IsKind(err, apperr.KindUpstream) {
			prometheus.RecordUploadError("asset")
		}
		log.Error("Failed to upload carousel", zap.Int("files", len(files)), zap.Error(err))
		return fail(c, err)
	}

	log.Info("Carousel created",
		zap.String("id", creative.ID),
		zap.Int("files", len(creative.Files)))
	return respond(c, http.StatusCreated, creative, "carousel created successfully")
}

// List returns creatives filtered by company, status and type.
func (h *CreativeHandler) List(c echo.Context) error {
	prometheus.RecordCreativeOperation("list")

	creatives, err := h.Creatives.List(c.Request().Context(), creativeFilterFromQuery(c))
	if err != nil {
		logger.FromEcho(c).Error("Failed to list creatives", zap.Error(err))
		return fail(c, err)
	}
	return respond(c, http.StatusOK, creatives, "")
}

// GetByID returns one creative with its version and comment history.
func (h *CreativeHandler) GetByID(c echo.Context) error {
	prometheus.RecordCreativeOperation("get")

	creative, err := h.Creatives.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, creative, "")
}

// SetStatus moves the creative through the review state machine.
func (h *CreativeHandler) SetStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCreativeOperation("set_status")

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request", "could not parse the request body"))
	}

	creative, err := h.Creatives.SetStatus(c.Request().Context(), c.Param("id"), model.CreativeStatus(req.Status))
	if err != nil {
		log.Error("Failed to update status", zap.String("id", c.Param("id")), zap.Error(err))
		return fail(c, err)
	}

	prometheus.RecordStatusTransition(string(creative.Status))
	log.Info("Creative status updated",
		zap.String("id", creative.ID),
		zap.String("status", string(creative.Status)))
	return respond(c, http.StatusOK, creative, "status updated to "+string(creative.Status))
}

// AddVersion uploads a replacement asset; the creative goes back to pending.
func (h *CreativeHandler) AddVersion(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCreativeOperation("add_version")

	file, err := requiredFormFile(c, "file")
	if err != nil {
		return fail(c, err)
	}

	creative, err := h.Creatives.AddVersion(c.Request().Context(), c.Param("id"), *file)
	if err != nil {
		if apperr.IsKind(err, apperr.KindUpstream) {
			prometheus.RecordUploadError("asset")
		}
		log.Error("Failed to add version", zap.String("id", c.Param("id")), zap.Error(err))
		return fail(c, err)
	}

	latest := creative.Versions[len(creative.Versions)-1]
	log.Info("Creative version added",
		zap.String("id", creative.ID),
		zap.Int("version", latest.Version))
	return respond(c, http.StatusOK, creative, "new version added successfully")
}

// UpdateImage replaces the primary asset without touching the status.
func (h *CreativeHandler) UpdateImage(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCreativeOperation("update_image")

	file, err := requiredFormFile(c, "file")
	if err != nil {
		return fail(c, err)
	}

	creative, err := h.Creatives.UpdatePrimaryImage(c.Request().Context(), c.Param("id"), *file)
	if err != nil {
		if apperr.IsKind(err, apperr.KindUpstream) {
			prometheus.RecordUploadError("asset")
		}
		log.Error("Failed to update image", zap.String("id", c.Param("id")), zap.Error(err))
		return fail(c, err)
	}

	log.Info("Creative image updated", zap.String("id", creative.ID))
	return respond(c, http.StatusOK, creative, "creative image updated successfully")
}

// AddComment appends to the comment history.
func (h *CreativeHandler) AddComment(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCreativeOperation("add_comment")

	account := middleware.AccountFrom(c)

	var req struct {
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request", "could not parse the request body"))
	}

	creative, err := h.Creatives.AddComment(c.Request().Context(), account, c.Param("id"), req.Comment)
	if err != nil {
		log.Error("Failed to add comment", zap.String("id", c.Param("id")), zap.Error(err))
		return fail(c, err)
	}

	log.Info("Comment added", zap.String("id", creative.ID))
	return respond(c, http.StatusOK, creative, "comment added successfully")
}

// SetComment is the legacy single-comment route kept for old readers.
func (h *CreativeHandler) SetComment(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCreativeOperation("set_comment")

	var req struct {
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request", "could not parse the request body"))
	}

	creative, err := h.Creatives.SetLegacyComment(c.Request().Context(), c.Param("id"), req.Comment)
	if err != nil {
		log.Error("Failed to set comment", zap.String("id", c.Param("id")), zap.Error(err))
		return fail(c, err)
	}
	return respond(c, http.StatusOK, creative, "comment added successfully")
}

// Delete soft-deletes the creative.
func (h *CreativeHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCreativeOperation("delete")

	creative, err := h.Creatives.SoftDelete(c.Request().Context(), c.Param("id"))
	if err != nil {
		log.Error("Failed to delete creative", zap.String("id", c.Param("id")), zap.Error(err))
		return fail(c, err)
	}

	log.Info("Creative removed", zap.String("id", creative.ID))
	return respond(c, http.StatusOK, creative, "creative removed successfully")
}
