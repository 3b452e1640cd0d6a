package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"khao-backend/apperr"
	"khao-backend/models"
	"khao-backend/otp"
	"khao-backend/repository"
	"khao-backend/token"
)

// phonePattern is the digit-count policy for raw phone numbers.
var phonePattern = regexp.MustCompile(`^\d{10,15}$`)

// AuthResult is returned by both OTP verification and token refresh.
type AuthResult struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int             `json:"expires_in"`
	UserID       string          `json:"user_id"`
	Role         models.UserRole `json:"role"`
	PhoneNumber  string          `json:"phone_number"`
}

// AuthService orchestrates the OTP challenge manager, the identity store
// and the token issuer into the send/verify/refresh flow.
type AuthService struct {
	users  *repository.UserRepository
	otp    *otp.Manager
	tokens *token.Issuer
	log    *logrus.Logger
}

func NewAuthService(users *repository.UserRepository, manager *otp.Manager, tokens *token.Issuer, log *logrus.Logger) *AuthService {
	return &AuthService{users: users, otp: manager, tokens: tokens, log: log}
}

// SendOTP creates the account on first contact and always issues a fresh
// challenge. The acknowledgment never reveals whether the account existed.
func (s *AuthService) SendOTP(ctx context.Context, countryCode, phoneNumber string) (string, error) {
	if !phonePattern.MatchString(phoneNumber) {
		return "", apperr.New(apperr.InvalidInput, "Invalid phone number format")
	}

	_, err := s.users.FindByPhone(countryCode, phoneNumber)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user := &models.User{
			CountryCode: countryCode,
			PhoneNumber: phoneNumber,
			Role:        models.RoleCustomer,
		}
		if err := s.users.Create(user); err != nil {
			s.log.WithError(err).WithField("phone", countryCode+phoneNumber).Error("creating account on send-otp")
			return "", apperr.Wrap(apperr.Internal, "Failed to send OTP", err)
		}
	} else if err != nil {
		s.log.WithError(err).WithField("phone", countryCode+phoneNumber).Error("looking up account on send-otp")
		return "", apperr.Wrap(apperr.Internal, "Failed to send OTP", err)
	}

	if _, err := s.otp.Issue(ctx, countryCode, phoneNumber); err != nil {
		s.log.WithError(err).WithField("phone", countryCode+phoneNumber).Error("issuing OTP challenge")
		return "", apperr.Wrap(apperr.Internal, "Failed to send OTP", err)
	}

	return fmt.Sprintf("OTP sent successfully to %s%s", countryCode, phoneNumber), nil
}

// VerifyOTP exchanges a live challenge for a token pair. Wrong-code and
// expired-challenge failures are indistinguishable to the caller.
func (s *AuthService) VerifyOTP(ctx context.Context, countryCode, phoneNumber, code string) (*AuthResult, error) {
	ok, err := s.otp.Verify(ctx, countryCode, phoneNumber, code)
	if err != nil {
		s.log.WithError(err).WithField("phone", countryCode+phoneNumber).Error("verifying OTP challenge")
		return nil, apperr.Wrap(apperr.Internal, "Failed to verify OTP", err)
	}
	if !ok {
		return nil, apperr.New(apperr.Unauthorized, "Invalid OTP")
	}

	user, err := s.users.FindByPhone(countryCode, phoneNumber)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "User not found")
	} else if err != nil {
		s.log.WithError(err).WithField("phone", countryCode+phoneNumber).Error("loading account on verify-otp")
		return nil, apperr.Wrap(apperr.Internal, "Failed to verify OTP", err)
	}

	user.PhoneVerified = true
	if err := s.users.Save(user); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Error("marking phone verified")
		return nil, apperr.Wrap(apperr.Internal, "Failed to verify OTP", err)
	}

	return s.issueFor(user)
}

// RefreshToken rotates the pair: a valid refresh token mints a brand new
// access/refresh set for the re-resolved account.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, apperr.New(apperr.Unauthorized, "Invalid refresh token")
	}

	user, err := s.users.FindByID(claims.Subject)
	if err != nil {
		return nil, apperr.New(apperr.Unauthorized, "Invalid refresh token")
	}

	return s.issueFor(user)
}

// ValidateToken resolves the caller identity for protected requests.
func (s *AuthService) ValidateToken(accessToken string) (*token.Claims, error) {
	return s.tokens.VerifyAccess(accessToken)
}

// Me returns the account behind an authenticated identity.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "User not found")
	} else if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("loading current user")
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch user", err)
	}
	return user, nil
}

func (s *AuthService) issueFor(user *models.User) (*AuthResult, error) {
	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Error("issuing token pair")
		return nil, err
	}
	return &AuthResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		UserID:       user.ID,
		Role:         user.Role,
		PhoneNumber:  user.PhoneNumber,
	}, nil
}
