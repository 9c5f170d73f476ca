package handler

import (
	"time"

	"trustlens/internal/adapter/http/dto"
	"trustlens/internal/core/ports"
	"trustlens/pkg/apperror"
	"trustlens/pkg/response"

	"github.com/gin-gonic/gin"
)

// RiskHandler handles the advisory risk scoring endpoint.
type RiskHandler struct {
	riskSvc ports.RiskService
}

// NewRiskHandler creates a new RiskHandler.
func NewRiskHandler(riskSvc ports.RiskService) *RiskHandler {
	return &RiskHandler{riskSvc: riskSvc}
}

// Analyze handles POST /api/v1/analyze. No state is mutated: the endpoint is
// a read-only advisory companion to transaction submission.
func (h *RiskHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	analyzeReq := ports.AnalyzeRequest{
		Amount:           req.Amount,
		Location:         req.Location,
		CardType:         req.CardType,
		RecipientAccount: req.RecipientAccount,
	}
	if req.TransactionTime != "" {
		at, err := time.Parse(time.RFC3339, req.TransactionTime)
		if err != nil {
			response.Error(c, apperror.Validation("transaction_time must be RFC3339"))
			return
		}
		analyzeReq.TransactionTime = &at
	}

	assessment, err := h.riskSvc.Analyze(c.Request.Context(), analyzeReq)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, assessment)
}
