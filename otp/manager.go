package otp

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"khao-backend/sms"
)

// Manager owns the challenge lifecycle: issue generates, stores and
// delivers a code; verify consumes it on match.
type Manager struct {
	store  Store
	sender sms.Sender
	digits int
	ttl    time.Duration

	// devCode, when non-empty, is accepted without touching the store.
	// The config loader only populates it in development.
	devCode string
}

func NewManager(store Store, sender sms.Sender, digits int, ttl time.Duration, devCode string) *Manager {
	return &Manager{
		store:   store,
		sender:  sender,
		digits:  digits,
		ttl:     ttl,
		devCode: devCode,
	}
}

func challengeKey(countryCode, phoneNumber string) string {
	return "otp:" + countryCode + ":" + phoneNumber
}

// Issue generates a fixed-length numeric code and stores its digest with
// the configured TTL, overwriting any live challenge for the phone, then
// hands the code to the out-of-band sender.
func (m *Manager) Issue(ctx context.Context, countryCode, phoneNumber string) (string, error) {
	code, err := generateCode(m.digits)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	if err := m.store.Set(ctx, challengeKey(countryCode, phoneNumber), digest(code), m.ttl); err != nil {
		return "", fmt.Errorf("store challenge: %w", err)
	}
	if err := m.sender.SendOTP(ctx, countryCode, phoneNumber, code); err != nil {
		return "", fmt.Errorf("deliver code: %w", err)
	}
	return code, nil
}

// Verify returns true and consumes the challenge iff a live challenge
// exists for the phone and the submitted code matches. Absent, expired and
// mismatched challenges all report plain false.
func (m *Manager) Verify(ctx context.Context, countryCode, phoneNumber, submitted string) (bool, error) {
	if m.devCode != "" && submitted == m.devCode {
		return true, nil
	}
	return m.store.CompareAndDelete(ctx, challengeKey(countryCode, phoneNumber), digest(submitted))
}

func generateCode(digits int) (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < digits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

func digest(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
