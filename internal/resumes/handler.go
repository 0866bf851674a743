package resumes

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/assist"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

const maxImageUpload = 6 << 20 // data URL overhead on top of the 5MB image cap

// Renderer projects a document into a print-ready HTML page.
type Renderer interface {
	Render(doc ResumeDocument) (string, error)
}

// Printer turns rendered HTML into PDF bytes.
type Printer interface {
	PrintPDF(ctx context.Context, html string) ([]byte, error)
}

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc      *Service
	Renderer Renderer
	Printer  Printer
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, renderer Renderer, printer Printer) *Handler {
	return &Handler{Svc: svc, Renderer: renderer, Printer: printer}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.create)
	rg.GET("/resumes/:id", h.get)
	rg.PATCH("/resumes/:id/personal", h.setPersonal)
	rg.PUT("/resumes/:id/summary", h.setSummary)
	rg.POST("/resumes/:id/sections/:section/entries", h.addEntry)
	rg.PATCH("/resumes/:id/sections/:section/entries/:entry", h.setListField)
	rg.DELETE("/resumes/:id/sections/:section/entries/:entry", h.removeEntry)
	rg.POST("/resumes/:id/image", h.uploadImage)
	rg.POST("/resumes/:id/optimize", h.optimize)
	rg.POST("/resumes/:id/enhance", h.enhance)
	rg.GET("/resumes/:id/pending", h.getPending)
	rg.POST("/resumes/:id/pending/:pendingID/accept", h.acceptPending)
	rg.POST("/resumes/:id/pending/:pendingID/reject", h.rejectPending)
	rg.GET("/resumes/:id/preview", h.preview)
	rg.GET("/resumes/:id/preview.pdf", h.previewPDF)
}

func (h *Handler) create(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	resume, err := h.Svc.Create(c.Request.Context(), sessionID)
	if err != nil {
		h.fail(c, err, "failed to create resume")
		return
	}
	c.Set("resumeId", resume.ID)
	respond.JSON(c, http.StatusCreated, toResponse(resume))
}

func (h *Handler) get(c *gin.Context) {
	resume, ok := h.fetch(c)
	if !ok {
		return
	}
	respond.OK(c, toResponse(resume))
}

type setFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *Handler) setPersonal(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	var req setFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Field == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "field is required", nil)
		return
	}

	resume, err := h.Svc.SetPersonalField(c.Request.Context(), sessionID, c.Param("id"), req.Field, req.Value)
	if err != nil {
		h.fail(c, err, "failed to update personal field")
		return
	}
	respond.OK(c, toResponse(resume))
}

type setSummaryRequest struct {
	Summary string `json:"summary"`
}

func (h *Handler) setSummary(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	var req setSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	resume, err := h.Svc.SetSummary(c.Request.Context(), sessionID, c.Param("id"), req.Summary)
	if err != nil {
		h.fail(c, err, "failed to update summary")
		return
	}
	respond.OK(c, toResponse(resume))
}

func (h *Handler) addEntry(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	section := c.Param("section")

	if !IsListSection(section) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown section", nil)
		return
	}

	resume, entryID, err := h.Svc.AddEntry(c.Request.Context(), sessionID, c.Param("id"), section)
	if err != nil {
		h.fail(c, err, "failed to add entry")
		return
	}
	respond.JSON(c, http.StatusCreated, EntryResponse{EntryID: entryID, Document: resume.Document})
}

func (h *Handler) setListField(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	section := c.Param("section")

	if !IsListSection(section) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown section", nil)
		return
	}
	index, err := strconv.Atoi(c.Param("entry"))
	if err != nil || index < 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "entry index must be a non-negative integer", nil)
		return
	}

	var req setFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Field == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "field is required", nil)
		return
	}

	resume, err := h.Svc.SetListField(c.Request.Context(), sessionID, c.Param("id"), section, index, req.Field, req.Value)
	if err != nil {
		h.fail(c, err, "failed to update entry")
		return
	}
	respond.OK(c, toResponse(resume))
}

func (h *Handler) removeEntry(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	section := c.Param("section")

	if !IsListSection(section) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown section", nil)
		return
	}

	resume, err := h.Svc.RemoveEntry(c.Request.Context(), sessionID, c.Param("id"), section, c.Param("entry"))
	if err != nil {
		h.fail(c, err, "failed to remove entry")
		return
	}
	respond.OK(c, toResponse(resume))
}

func (h *Handler) uploadImage(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageUpload)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	resume, err := h.Svc.SetImage(c.Request.Context(), sessionID, c.Param("id"), data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.fail(c, err, "failed to store image")
		return
	}
	respond.OK(c, toResponse(resume))
}

type optimizeRequest struct {
	Section string `json:"section"`
	Index   int    `json:"index"`
	Field   string `json:"field"`
}

func (h *Handler) optimize(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	pending, err := h.Svc.Optimize(c.Request.Context(), sessionID, c.Param("id"), Target{
		Section: req.Section,
		Index:   req.Index,
		Field:   req.Field,
	})
	if err != nil {
		h.fail(c, err, "failed to optimize content")
		return
	}
	c.Set("pendingKind", pending.Kind)
	respond.OK(c, pending)
}

type enhanceRequest struct {
	Prompt string `json:"prompt"`
}

func (h *Handler) enhance(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	var req enhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	pending, err := h.Svc.Enhance(c.Request.Context(), sessionID, c.Param("id"), req.Prompt)
	if err != nil {
		h.fail(c, err, "failed to enhance resume")
		return
	}
	c.Set("pendingKind", pending.Kind)
	respond.OK(c, pending)
}

func (h *Handler) getPending(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	pending, err := h.Svc.GetPending(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to fetch pending suggestion")
		return
	}
	respond.OK(c, pending)
}

func (h *Handler) acceptPending(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	resume, err := h.Svc.AcceptPending(c.Request.Context(), sessionID, c.Param("id"), c.Param("pendingID"))
	if err != nil {
		h.fail(c, err, "failed to accept suggestion")
		return
	}
	respond.OK(c, toResponse(resume))
}

func (h *Handler) rejectPending(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	if err := h.Svc.RejectPending(c.Request.Context(), sessionID, c.Param("id"), c.Param("pendingID")); err != nil {
		h.fail(c, err, "failed to reject suggestion")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) preview(c *gin.Context) {
	resume, ok := h.fetch(c)
	if !ok {
		return
	}

	html, err := h.Renderer.Render(resume.Document)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render preview", nil)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *Handler) previewPDF(c *gin.Context) {
	resume, ok := h.fetch(c)
	if !ok {
		return
	}

	html, err := h.Renderer.Render(resume.Document)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render preview", nil)
		return
	}

	pdf, err := h.Printer.PrintPDF(c.Request.Context(), html)
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "print_error", "failed to print preview", nil)
		return
	}
	name := resume.Document.Personal.Name
	if name == "" {
		name = "resume"
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) fetch(c *gin.Context) (Resume, bool) {
	sessionID := middleware.SessionIDFromContext(c)

	resume, err := h.Svc.Get(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to fetch resume")
		return Resume{}, false
	}
	c.Set("resumeId", resume.ID)
	return resume, true
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	var svcErr *assist.ServiceError
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoPending):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "resume belongs to another session", nil)
	case errors.Is(err, ErrPendingConflict):
		respond.Error(c, http.StatusConflict, "conflict", err.Error(), nil)
	case errors.Is(err, ErrUnknownField), errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.As(err, &svcErr):
		respond.Error(c, http.StatusBadGateway, "ai_service_error", svcErr.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
