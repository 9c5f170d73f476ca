package handler

import (
	"context"
	"time"

	"trustlens/internal/adapter/http/dto"
	"trustlens/internal/core/domain"
	"trustlens/internal/core/ports"
	"trustlens/pkg/apperror"
	"trustlens/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// FraudHandler handles transaction submission and verdict endpoints.
type FraudHandler struct {
	fraudSvc  ports.FraudService
	notifySvc ports.NotifyService // nil = notifications disabled
	log       zerolog.Logger
}

// NewFraudHandler creates a new FraudHandler.
func NewFraudHandler(fraudSvc ports.FraudService, notifySvc ports.NotifyService, log zerolog.Logger) *FraudHandler {
	return &FraudHandler{fraudSvc: fraudSvc, notifySvc: notifySvc, log: log}
}

// SubmitTransaction handles POST /api/v1/transactions.
// The verdict is computed synchronously; the SMS notification is
// fire-and-forget and never affects the response.
func (h *FraudHandler) SubmitTransaction(c *gin.Context) {
	var req dto.SubmitTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.fraudSvc.Evaluate(c.Request.Context(), ports.EvaluateRequest{
		Amount:           req.Amount,
		Currency:         req.Currency,
		Location:         req.Location,
		CardType:         req.CardType,
		SenderAccount:    req.SenderAccount,
		RecipientAccount: req.RecipientAccount,
		TransactionID:    req.TransactionID,
		Phone:            req.Phone,
		ClientIP:         c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.notifySvc != nil {
		go h.notifyVerdict(result.Transaction)
	}

	response.Created(c, dto.SubmitTransactionResponse{
		TransactionID: result.Transaction.TransactionID,
		Anomalous:     result.Anomalous,
		Reasons:       result.Reasons,
	})
}

// LatestVerdict handles GET /api/v1/transactions/latest.
func (h *FraudHandler) LatestVerdict(c *gin.Context) {
	last := h.fraudSvc.LastRecorded()
	if last == nil {
		response.Error(c, apperror.ErrNotFound("transaction"))
		return
	}
	response.OK(c, last)
}

// notifyVerdict delivers the verdict SMS in the background.
func (h *FraudHandler) notifyVerdict(tx *domain.Transaction) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	msg := buildVerdictMessage(tx)
	if _, err := h.notifySvc.SendSMS(ctx, tx.Phone, msg); err != nil {
		h.log.Warn().Err(err).Str("transaction_id", tx.TransactionID).Msg("verdict sms delivery failed")
	}
}
