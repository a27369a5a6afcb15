package sms

import (
	"context"

	"github.com/urbanpros/booking-backend/internal/platform/logger"
)

// Sender delivers a text message to a normalized ten-digit phone number.
// The registration flow is the only caller; everything else in the engine
// stays free of messaging concerns.
type Sender interface {
	Send(ctx context.Context, phone, body string) error
}

// LogSender is the dev-mode Sender: it logs that a message would have gone
// out instead of delivering it. The body itself is never logged since it
// carries the verification code.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(baseLog *logger.Logger) *LogSender {
	return &LogSender{log: baseLog.With("client", "LogSender")}
}

func (s *LogSender) Send(_ context.Context, phone, body string) error {
	s.log.Info("sms suppressed in dev mode", "phone", phone, "body_len", len(body))
	return nil
}
