package handler

import (
	"fmt"
	"strings"
	"time"

	"trustlens/internal/adapter/http/dto"
	"trustlens/internal/core/domain"
	"trustlens/internal/core/ports"
	"trustlens/pkg/apperror"
	"trustlens/pkg/response"

	"github.com/gin-gonic/gin"
)

// NotifyHandler handles the direct SMS endpoint.
type NotifyHandler struct {
	notifySvc ports.NotifyService
}

// NewNotifyHandler creates a new NotifyHandler.
func NewNotifyHandler(notifySvc ports.NotifyService) *NotifyHandler {
	return &NotifyHandler{notifySvc: notifySvc}
}

// SendSMS handles POST /api/v1/notifications/sms.
func (h *NotifyHandler) SendSMS(c *gin.Context) {
	var req dto.SMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.notifySvc.SendSMS(c.Request.Context(), req.Phone, req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// buildVerdictMessage picks the alert or approval SMS body for a verdict.
func buildVerdictMessage(tx *domain.Transaction) string {
	if tx.Anomalous {
		return fmt.Sprintf(
			"FRAUD ALERT!\nTransaction ID: %s\nAmount: %s %.2f\nLocation: %s\nReasons: %s\nTime: %s\nIf this wasn't you, contact us immediately!",
			tx.TransactionID, tx.Currency, tx.Amount, tx.Location,
			strings.Join(tx.FraudReasons, ", "),
			tx.Timestamp.Format(time.RFC3339),
		)
	}
	return fmt.Sprintf(
		"Transaction Approved\nID: %s\nAmount: %s %.2f\nLocation: %s\nTime: %s",
		tx.TransactionID, tx.Currency, tx.Amount, tx.Location,
		tx.Timestamp.Format(time.RFC3339),
	)
}
