package handler

import (
	"net/http"

	"leadflow_backend/internal/assignment/service"
	"leadflow_backend/internal/assignment/transport"
	"leadflow_backend/platform/httpkit"
	"leadflow_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the rules endpoints. Reads are open to any
// authenticated user; writes are admin-only and mounted separately.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/rules", h.GetRules)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.PUT("/rules", h.UpdateRules)
}

func (h *Handler) GetRules(c *gin.Context) {
	rules, err := h.svc.GetRules(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, rules)
}

func (h *Handler) UpdateRules(c *gin.Context) {
	var req transport.UpdateRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	rules, err := h.svc.UpdateRules(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, rules)
}
