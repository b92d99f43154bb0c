package handler

import (
	"net/http"

	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// LogCall records a full call attempt with a disposition.
func (h *Handler) LogCall(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.LogCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.LogCall(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) ListCalls(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	calls, err := h.svc.ListCalls(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": calls})
}

func (h *Handler) DeleteCall(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}
	callID, ok := parseUUIDParam(c, "callId", "invalid call id")
	if !ok {
		return
	}

	if err := h.svc.DeleteCall(c.Request.Context(), id, callID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// HitCall handles the quick-dial action carrying only a binary connected
// signal.
func (h *Handler) HitCall(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.HitCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.HitCall(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// MoveStage handles a manual stage click. The response may carry a signal
// instead of a mutated lead.
func (h *Handler) MoveStage(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.MoveStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.MoveStage(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Drop performs the irrevocable disqualification.
func (h *Handler) Drop(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.DropLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Drop(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Stages returns the effective stage list with the active stage marked.
func (h *Handler) Stages(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	result, err := h.svc.Stages(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CanDrop reports drop eligibility so the UI can disable the action.
func (h *Handler) CanDrop(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	eligible, err := h.svc.CanDrop(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"canDrop": eligible})
}
