package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khao-backend/apperr"
	"khao-backend/models"
	"khao-backend/otp"
	"khao-backend/repository"
	"khao-backend/token"
)

// captureSender records delivered codes so tests can replay them.
type captureSender struct {
	mu    sync.Mutex
	codes []string
}

func (s *captureSender) SendOTP(ctx context.Context, countryCode, phoneNumber, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = append(s.codes, code)
	return nil
}

func (s *captureSender) last(t *testing.T) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.codes)
	return s.codes[len(s.codes)-1]
}

func newAuthFixture(t *testing.T) (*AuthService, *repository.UserRepository, *captureSender) {
	t.Helper()
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	sender := &captureSender{}
	manager := otp.NewManager(otp.NewMemoryStore(), sender, 4, 10*time.Minute, "")
	issuer := token.NewIssuer("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour)
	return NewAuthService(users, manager, issuer, testLogger()), users, sender
}

func TestSendOTP_RejectsMalformedPhone(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	for _, phone := range []string{"", "12345", "081234567a", "1234567890123456"} {
		_, err := svc.SendOTP(context.Background(), "TH", phone)
		require.Error(t, err, "phone %q", phone)
		assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))
	}
}

func TestSendOTP_CreatesAccountOnFirstContact(t *testing.T) {
	svc, users, _ := newAuthFixture(t)

	msg, err := svc.SendOTP(context.Background(), "TH", "0812345678")
	require.NoError(t, err)
	assert.Equal(t, "OTP sent successfully to TH0812345678", msg)

	user, err := users.FindByPhone("TH", "0812345678")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.False(t, user.PhoneVerified)
	assert.NotEmpty(t, user.ID)
}

func TestSendOTP_ExistingAccountKeepsRole(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	db := users.DB
	existing := createUser(t, db, "TH", "0812345678", models.RoleRestaurant)

	_, err := svc.SendOTP(context.Background(), "TH", "0812345678")
	require.NoError(t, err)

	user, err := users.FindByID(existing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleRestaurant, user.Role)
}

func TestVerifyOTP_IssuesTokensAndMarksVerified(t *testing.T) {
	svc, users, sender := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.SendOTP(ctx, "TH", "0812345678")
	require.NoError(t, err)

	result, err := svc.VerifyOTP(ctx, "TH", "0812345678", sender.last(t))
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, 3600, result.ExpiresIn)
	assert.Equal(t, models.RoleCustomer, result.Role)
	assert.Equal(t, "0812345678", result.PhoneNumber)

	claims, err := svc.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.UserID, claims.Subject)

	user, err := users.FindByID(result.UserID)
	require.NoError(t, err)
	assert.True(t, user.PhoneVerified)
}

func TestVerifyOTP_WrongCodeIsUnauthorized(t *testing.T) {
	svc, _, sender := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.SendOTP(ctx, "TH", "0812345678")
	require.NoError(t, err)

	wrong := "0000"
	if wrong == sender.last(t) {
		wrong = "0001"
	}
	_, err = svc.VerifyOTP(ctx, "TH", "0812345678", wrong)
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
	assert.Equal(t, "Invalid OTP", apperr.MessageOf(err))
}

func TestVerifyOTP_CodeIsSingleUse(t *testing.T) {
	svc, _, sender := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.SendOTP(ctx, "TH", "0812345678")
	require.NoError(t, err)
	code := sender.last(t)

	_, err = svc.VerifyOTP(ctx, "TH", "0812345678", code)
	require.NoError(t, err)

	_, err = svc.VerifyOTP(ctx, "TH", "0812345678", code)
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}

func TestRefreshToken_RotatesPair(t *testing.T) {
	svc, _, sender := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.SendOTP(ctx, "TH", "0812345678")
	require.NoError(t, err)
	first, err := svc.VerifyOTP(ctx, "TH", "0812345678", sender.last(t))
	require.NoError(t, err)

	second, err := svc.RefreshToken(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// the rotated refresh token works again
	_, err = svc.RefreshToken(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshToken_RejectsInvalidInput(t *testing.T) {
	svc, _, sender := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.RefreshToken(ctx, "not-a-token")
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
	assert.Equal(t, "Invalid refresh token", apperr.MessageOf(err))

	// an access token must not pass the refresh gate
	_, err = svc.SendOTP(ctx, "TH", "0812345678")
	require.NoError(t, err)
	result, err := svc.VerifyOTP(ctx, "TH", "0812345678", sender.last(t))
	require.NoError(t, err)

	_, err = svc.RefreshToken(ctx, result.AccessToken)
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}

func TestMe(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	user := createUser(t, users.DB, "TH", "0812345678", models.RoleCustomer)

	got, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Me(context.Background(), "9f2d1c3b-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
