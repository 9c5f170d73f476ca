package service

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"trustlens/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHTTPClient captures the outgoing request and returns a canned response.
type stubHTTPClient struct {
	lastReq *http.Request
	status  int
	body    string
	err     error
}

func (c *stubHTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.lastReq = req
	if c.err != nil {
		return nil, c.err
	}
	return &http.Response{
		StatusCode: c.status,
		Body:       io.NopCloser(strings.NewReader(c.body)),
	}, nil
}

func TestTwilioNotifyService_Send(t *testing.T) {
	client := &stubHTTPClient{status: 201, body: `{"sid":"SM123"}`}
	svc := NewTwilioNotifyService("AC1", "tok", "+15550001", client, zerolog.Nop())

	got, err := svc.SendSMS(context.Background(), "+916374672882", "hello")
	require.NoError(t, err)

	assert.Equal(t, "SM123", got.SID)
	assert.False(t, got.Simulated)

	require.NotNil(t, client.lastReq)
	assert.Equal(t, http.MethodPost, client.lastReq.Method)
	assert.Contains(t, client.lastReq.URL.String(), "AC1/Messages.json")
	user, pass, ok := client.lastReq.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "AC1", user)
	assert.Equal(t, "tok", pass)
}

func TestTwilioNotifyService_UnconfiguredSimulates(t *testing.T) {
	client := &stubHTTPClient{}
	svc := NewTwilioNotifyService("", "", "", client, zerolog.Nop())

	got, err := svc.SendSMS(context.Background(), "+916374672882", "hello")
	require.NoError(t, err)

	assert.True(t, got.Simulated)
	assert.True(t, strings.HasPrefix(got.SID, "SIMULATED_"))
	assert.Nil(t, client.lastReq) // no network call made
}

func TestTwilioNotifyService_InvalidSenderSimulates(t *testing.T) {
	for _, code := range []string{"21212", "21659"} {
		client := &stubHTTPClient{status: 400, body: `{"code":` + code + `,"message":"invalid From number"}`}
		svc := NewTwilioNotifyService("AC1", "tok", "+15550001", client, zerolog.Nop())

		got, err := svc.SendSMS(context.Background(), "+916374672882", "hello")
		require.NoError(t, err)
		assert.True(t, got.Simulated)
		assert.True(t, strings.HasPrefix(got.SID, "SIMULATED_"))
	}
}

func TestTwilioNotifyService_OtherErrorFails(t *testing.T) {
	client := &stubHTTPClient{status: 400, body: `{"code":21211,"message":"invalid To number"}`}
	svc := NewTwilioNotifyService("AC1", "tok", "+15550001", client, zerolog.Nop())

	_, err := svc.SendSMS(context.Background(), "bad", "hello")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SYS_002", appErr.Code)
}
