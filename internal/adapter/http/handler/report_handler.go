package handler

import (
	"strconv"

	"trustlens/internal/core/ports"
	"trustlens/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReportHandler handles transaction history, search, and stats endpoints.
type ReportHandler struct {
	reportingSvc ports.ReportingService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportingSvc ports.ReportingService) *ReportHandler {
	return &ReportHandler{reportingSvc: reportingSvc}
}

// ListTransactions handles GET /api/v1/transactions.
func (h *ReportHandler) ListTransactions(c *gin.Context) {
	txns, err := h.reportingSvc.ListTransactions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, txns)
}

// SearchTransactions handles GET /api/v1/transactions/search.
func (h *ReportHandler) SearchTransactions(c *gin.Context) {
	params := ports.TransactionSearchParams{
		TransactionID: c.Query("transaction_id"),
		AccountNumber: c.Query("account_number"),
		CardType:      c.Query("card_type"),
	}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			params.Limit = n
		}
	}

	txns, err := h.reportingSvc.Search(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, txns)
}

// GetStats handles GET /api/v1/stats.
func (h *ReportHandler) GetStats(c *gin.Context) {
	stats, err := h.reportingSvc.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}
