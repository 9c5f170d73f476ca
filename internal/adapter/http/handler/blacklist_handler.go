package handler

import (
	"fmt"

	"trustlens/internal/adapter/http/dto"
	"trustlens/internal/adapter/http/middleware"
	"trustlens/internal/core/domain"
	"trustlens/internal/core/ports"
	"trustlens/pkg/apperror"
	"trustlens/pkg/response"

	"github.com/gin-gonic/gin"
)

// BlacklistHandler handles manual blacklist administration.
type BlacklistHandler struct {
	fraudSvc ports.FraudService
}

// NewBlacklistHandler creates a new BlacklistHandler.
func NewBlacklistHandler(fraudSvc ports.FraudService) *BlacklistHandler {
	return &BlacklistHandler{fraudSvc: fraudSvc}
}

// Add handles POST /api/v1/blacklist (JWT-protected).
func (h *BlacklistHandler) Add(c *gin.Context) {
	var req dto.BlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	addedBy := "analyst"
	if username, exists := c.Get(middleware.CtxUsername); exists {
		addedBy = fmt.Sprintf("%v", username)
	}

	err := h.fraudSvc.AddBlacklistEntry(c.Request.Context(), domain.EntryType(req.Type), req.Value, req.Reason, addedBy)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"type": req.Type, "value": req.Value})
}
