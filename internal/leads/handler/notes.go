package handler

import (
	"net/http"

	"leadflow_backend/internal/leads/service"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) AddNote(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	var authorID *uuid.UUID
	if identity := httpkit.GetIdentity(c); identity.IsAuthenticated() {
		uid := identity.UserID()
		authorID = &uid
	}

	note, err := h.svc.AddNote(c.Request.Context(), id, authorID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, note)
}

func (h *Handler) ListNotes(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	notes, err := h.svc.ListNotes(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": notes})
}

func (h *Handler) DeleteNote(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}
	noteID, ok := parseUUIDParam(c, "noteId", "invalid note id")
	if !ok {
		return
	}

	if err := h.svc.DeleteNote(c.Request.Context(), id, noteID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadAttachment accepts a multipart upload and stores the file in object
// storage with its metadata row.
func (h *Handler) UploadAttachment(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "missing file upload", err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "failed to read upload", err.Error())
		return
	}
	defer file.Close()

	var uploadedBy *uuid.UUID
	if identity := httpkit.GetIdentity(c); identity.IsAuthenticated() {
		uid := identity.UserID()
		uploadedBy = &uid
	}

	att, err := h.svc.UploadAttachment(c.Request.Context(), id, service.UploadAttachmentInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		SizeBytes:   fileHeader.Size,
		Reader:      file,
		UploadedBy:  uploadedBy,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, att)
}

func (h *Handler) ListAttachments(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	atts, err := h.svc.ListAttachments(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": atts})
}

func (h *Handler) GetAttachmentDownloadURL(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}
	attachmentID, ok := parseUUIDParam(c, "attachmentId", "invalid attachment id")
	if !ok {
		return
	}

	att, err := h.svc.GetAttachmentURL(c.Request.Context(), id, attachmentID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, att)
}

func (h *Handler) DeleteAttachment(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}
	attachmentID, ok := parseUUIDParam(c, "attachmentId", "invalid attachment id")
	if !ok {
		return
	}

	if err := h.svc.DeleteAttachment(c.Request.Context(), id, attachmentID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func parseUUIDParam(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, message, nil)
		return uuid.Nil, false
	}
	return id, true
}
