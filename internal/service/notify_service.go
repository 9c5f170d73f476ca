package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"trustlens/internal/core/ports"
	"trustlens/internal/metrics"
	"trustlens/pkg/apperror"

	"github.com/rs/zerolog"
)

// Twilio error codes that indicate an unusable sender number. Deliveries
// failing with these degrade to a logged simulated send instead of an error.
const (
	twilioErrInvalidFrom    = 21212
	twilioErrNotSMSCapable  = 21659
	twilioMessagesURLFormat = "https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TwilioNotifyService implements ports.NotifyService over the Twilio
// Messages API.
type TwilioNotifyService struct {
	accountSID string
	authToken  string
	fromNumber string
	httpClient HTTPClient
	log        zerolog.Logger
	now        func() time.Time
}

// NewTwilioNotifyService creates a new Twilio SMS notifier.
func NewTwilioNotifyService(accountSID, authToken, fromNumber string, httpClient HTTPClient, log zerolog.Logger) *TwilioNotifyService {
	return &TwilioNotifyService{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		httpClient: httpClient,
		log:        log,
		now:        time.Now,
	}
}

type twilioResponse struct {
	SID     string `json:"sid"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SendSMS delivers a message to the given phone number. Unconfigured
// credentials or an unusable Twilio sender degrade to a simulated send so
// that notification problems never block the caller.
func (s *TwilioNotifyService) SendSMS(ctx context.Context, phone, message string) (*ports.SMSResult, error) {
	if s.accountSID == "" || s.authToken == "" || s.fromNumber == "" {
		return s.simulate(phone, message, "credentials not configured"), nil
	}

	form := url.Values{}
	form.Set("To", phone)
	form.Set("From", s.fromNumber)
	form.Set("Body", message)

	endpoint := fmt.Sprintf(twilioMessagesURLFormat, s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		metrics.SMSDeliveriesTotal.WithLabelValues("failed").Inc()
		return nil, apperror.ErrNotificationFailure(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.accountSID, s.authToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.SMSDeliveriesTotal.WithLabelValues("failed").Inc()
		return nil, apperror.ErrNotificationFailure(fmt.Errorf("twilio request: %w", err))
	}
	defer resp.Body.Close()

	var body twilioResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.SMSDeliveriesTotal.WithLabelValues("failed").Inc()
		return nil, apperror.ErrNotificationFailure(fmt.Errorf("decode twilio response: %w", err))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		s.log.Info().Str("phone", phone).Str("sid", body.SID).Msg("sms sent")
		metrics.SMSDeliveriesTotal.WithLabelValues("sent").Inc()
		return &ports.SMSResult{SID: body.SID}, nil
	}

	if body.Code == twilioErrInvalidFrom || body.Code == twilioErrNotSMSCapable {
		return s.simulate(phone, message, fmt.Sprintf("twilio code %d", body.Code)), nil
	}

	s.log.Error().Str("phone", phone).Int("twilio_code", body.Code).Str("twilio_message", body.Message).Msg("sms delivery failed")
	metrics.SMSDeliveriesTotal.WithLabelValues("failed").Inc()
	return nil, apperror.ErrNotificationFailure(fmt.Errorf("twilio error %d: %s", body.Code, body.Message))
}

func (s *TwilioNotifyService) simulate(phone, message, reason string) *ports.SMSResult {
	sid := fmt.Sprintf("SIMULATED_%d", s.now().UnixMilli())
	s.log.Info().
		Str("phone", phone).
		Str("sid", sid).
		Str("reason", reason).
		Str("message", message).
		Msg("simulated sms delivery")
	metrics.SMSDeliveriesTotal.WithLabelValues("simulated").Inc()
	return &ports.SMSResult{SID: sid, Simulated: true}
}
