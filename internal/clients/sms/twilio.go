package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/urbanpros/booking-backend/internal/platform/logger"
)

const twilioBaseURL = "https://api.twilio.com/2010-04-01"

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	// CountryCode is prepended to the stored ten-digit number when
	// dialing out, e.g. "+91".
	CountryCode string
}

// TwilioSender posts to the Twilio Messages endpoint directly. The API
// surface we need is one form POST, not worth a vendored SDK.
type TwilioSender struct {
	log  *logger.Logger
	cfg  TwilioConfig
	http *http.Client
}

func NewTwilioSender(baseLog *logger.Logger, cfg TwilioConfig) *TwilioSender {
	return &TwilioSender{
		log:  baseLog.With("client", "TwilioSender"),
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *TwilioSender) Send(ctx context.Context, phone, body string) error {
	form := url.Values{}
	form.Set("To", s.cfg.CountryCode+phone)
	form.Set("From", s.cfg.FromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", twilioBaseURL, s.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("twilio: build request: %w", err)
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("twilio: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		s.log.Warn("twilio rejected message", "status", resp.StatusCode, "phone", phone)
		return fmt.Errorf("twilio: status %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
