// Package sms delivers one-time codes out-of-band. The challenge lifecycle
// itself lives in the otp package; senders only transport the code.
package sms

import "context"

// Sender delivers a verification code to a phone number.
type Sender interface {
	SendOTP(ctx context.Context, countryCode, phoneNumber, code string) error
}
