package sms

import (
	"context"

	"github.com/sirupsen/logrus"
)

// ConsoleSender logs the code instead of sending it. Development only.
type ConsoleSender struct {
	log *logrus.Logger
}

func NewConsoleSender(log *logrus.Logger) *ConsoleSender {
	return &ConsoleSender{log: log}
}

func (s *ConsoleSender) SendOTP(ctx context.Context, countryCode, phoneNumber, code string) error {
	s.log.WithFields(logrus.Fields{
		"phone": countryCode + phoneNumber,
		"code":  code,
	}).Warn("OTP (console sender, not delivered)")
	return nil
}
