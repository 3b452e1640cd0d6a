package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"khao-backend/handlers"
	"khao-backend/models"
	"khao-backend/otp"
	"khao-backend/repository"
	"khao-backend/services"
	"khao-backend/token"
)

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

type apiFixture struct {
	router *gin.Engine
	db     *gorm.DB
	sender *captureSender
	issuer *token.Issuer
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Restaurant{}, &models.MenuItem{}))

	log := logrus.New()
	log.SetOutput(io.Discard)

	sender := &captureSender{}
	manager := otp.NewManager(otp.NewMemoryStore(), sender, 4, 10*time.Minute, "")
	issuer := token.NewIssuer("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour)

	userRepo := repository.NewUserRepository(db)
	restRepo := repository.NewRestaurantRepository(db)
	menuRepo := repository.NewMenuRepository(db)

	authSvc := services.NewAuthService(userRepo, manager, issuer, log)
	restSvc := services.NewRestaurantService(restRepo, log)
	menuSvc := services.NewMenuService(menuRepo, restRepo, log)

	router := gin.New()
	SetupRoutes(router, Handlers{
		Auth:       handlers.NewAuthHandler(authSvc),
		Restaurant: handlers.NewRestaurantHandler(restSvc),
		Admin:      handlers.NewAdminHandler(restSvc),
		Menu:       handlers.NewMenuHandler(menuSvc),
		Public:     handlers.NewPublicHandler(menuSvc),
	}, issuer)

	return &apiFixture{router: router, db: db, sender: sender, issuer: issuer}
}

func (f *apiFixture) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// login drives send-otp and verify-otp for a phone and returns the token pair.
func (f *apiFixture) login(t *testing.T, countryCode, phone string) (access, refresh string) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/auth/send-otp", "", gin.H{
		"country_code": countryCode, "phone_number": phone,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/auth/verify-otp", "", gin.H{
		"country_code": countryCode, "phone_number": phone, "otp": f.sender.last(t),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode(t, rec)
	return out["access_token"].(string), out["refresh_token"].(string)
}

func (f *apiFixture) adminToken(t *testing.T) string {
	t.Helper()
	admin := &models.User{CountryCode: "TH", PhoneNumber: "0800000001", Role: models.RoleAdmin, PhoneVerified: true}
	require.NoError(t, f.db.Create(admin).Error)
	pair, err := f.issuer.IssuePair(admin)
	require.NoError(t, err)
	return pair.AccessToken
}

func TestAuthFlow_EndToEnd(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	access, refresh := f.login(t, "TH", "0812345678")

	rec = f.do(t, http.MethodGet, "/api/auth/me", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	user := out["user"].(map[string]interface{})
	assert.Equal(t, "0812345678", user["phone_number"])
	assert.Equal(t, true, user["phone_verified"])

	rec = f.do(t, http.MethodPost, "/api/auth/refresh-token", "", gin.H{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, rec.Code)
	rotated := decode(t, rec)
	assert.NotEqual(t, refresh, rotated["refresh_token"])

	rec = f.do(t, http.MethodPost, "/api/auth/refresh-token", "", gin.H{"refresh_token": "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSendOTP_ValidationErrors(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/send-otp", "", gin.H{"country_code": "TH"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "Validation failed", out["message"])
	// errors are keyed by the JSON field name the client sent
	errs := out["errors"].(map[string]interface{})
	assert.Contains(t, errs, "phone_number")
	assert.NotContains(t, errs, "PhoneNumber")
}

func TestRestaurantLifecycle_EndToEnd(t *testing.T) {
	f := newAPIFixture(t)
	access, refresh := f.login(t, "TH", "0812345678")

	rec := f.do(t, http.MethodPost, "/api/restaurants/register", access, gin.H{
		"name":       "Som Tam House",
		"owner_name": "Anong",
		"address":    "123 Sukhumvit Rd",
		"country":    "TH",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	restID := decode(t, rec)["restaurant"].(map[string]interface{})["id"].(string)

	// the pre-registration access token still carries the customer role
	rec = f.do(t, http.MethodGet, "/api/restaurants/my-restaurant", access, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// refreshing re-resolves the account and picks up the promoted role
	rec = f.do(t, http.MethodPost, "/api/auth/refresh-token", "", gin.H{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, rec.Code)
	ownerAccess := decode(t, rec)["access_token"].(string)

	rec = f.do(t, http.MethodGet, "/api/restaurants/my-restaurant", ownerAccess, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// not approved yet: going online is rejected, and the public listing is empty
	rec = f.do(t, http.MethodPut, "/api/restaurants/"+restID+"/working-status", ownerAccess, gin.H{
		"working_status": "online",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/restaurants", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decode(t, rec)["total"])

	// admin review: the owner cannot reach the queue, the admin approves
	rec = f.do(t, http.MethodGet, "/api/restaurants/admin/pending", ownerAccess, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := f.adminToken(t)
	rec = f.do(t, http.MethodGet, "/api/restaurants/admin/pending", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["total"])

	rec = f.do(t, http.MethodPost, "/api/restaurants/"+restID+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPut, "/api/restaurants/"+restID+"/working-status", ownerAccess, gin.H{
		"working_status": "online",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/restaurants", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["total"])

	// suspension forces the restaurant offline and out of owner control
	rec = f.do(t, http.MethodPost, "/api/restaurants/"+restID+"/suspend", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	suspended := decode(t, rec)["restaurant"].(map[string]interface{})
	assert.Equal(t, "suspended", suspended["status"])
	assert.Equal(t, "offline", suspended["working_status"])

	rec = f.do(t, http.MethodPost, "/api/restaurants/"+restID+"/reactivate", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMenuFlow_EndToEnd(t *testing.T) {
	f := newAPIFixture(t)
	access, refresh := f.login(t, "TH", "0812345678")

	rec := f.do(t, http.MethodPost, "/api/restaurants/register", access, gin.H{
		"name":       "Som Tam House",
		"owner_name": "Anong",
		"address":    "123 Sukhumvit Rd",
		"country":    "TH",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	restID := decode(t, rec)["restaurant"].(map[string]interface{})["id"].(string)

	rec = f.do(t, http.MethodPost, "/api/auth/refresh-token", "", gin.H{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, rec.Code)
	ownerAccess := decode(t, rec)["access_token"].(string)

	rec = f.do(t, http.MethodPost, "/api/menu/restaurants/"+restID+"/items", ownerAccess, gin.H{
		"name":         "Pad Thai",
		"price":        120,
		"category":     "mains",
		"dietary_tags": []string{"vegan"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	itemID := decode(t, rec)["item"].(map[string]interface{})["id"].(string)

	// price must be positive
	rec = f.do(t, http.MethodPost, "/api/menu/restaurants/"+restID+"/items", ownerAccess, gin.H{
		"name": "Free Lunch", "price": 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// a patch through the documented field name must stick
	rec = f.do(t, http.MethodPut, "/api/menu/restaurants/"+restID+"/items/"+itemID, ownerAccess, gin.H{
		"estimated_prep_time_minutes": 45,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	patched := decode(t, rec)["item"].(map[string]interface{})
	assert.Equal(t, float64(45), patched["estimated_prep_time_minutes"])

	// public reads work while the restaurant is still pending review
	rec = f.do(t, http.MethodGet, "/api/menu/restaurants/"+restID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["count"])

	rec = f.do(t, http.MethodGet, "/api/menu/restaurants/"+restID+"/search?q=pad", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["count"])

	rec = f.do(t, http.MethodGet, "/api/menu/restaurants/"+restID+"/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/menu/restaurants/"+restID+"/dietary/vegan", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["count"])

	// another account cannot touch the menu
	strangerAccess, strangerRefresh := f.login(t, "TH", "0899999999")
	rec = f.do(t, http.MethodPost, "/api/restaurants/register", strangerAccess, gin.H{
		"name":       "Rival Kitchen",
		"owner_name": "Boon",
		"address":    "456 Silom Rd",
		"country":    "TH",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/auth/refresh-token", "", gin.H{"refresh_token": strangerRefresh})
	require.Equal(t, http.StatusOK, rec.Code)
	rivalAccess := decode(t, rec)["access_token"].(string)

	rec = f.do(t, http.MethodDelete, "/api/menu/restaurants/"+restID+"/items/"+itemID, rivalAccess, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// toggling hides the item from public reads
	rec = f.do(t, http.MethodPut, "/api/menu/restaurants/"+restID+"/items/"+itemID+"/availability", ownerAccess, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/menu/items/"+itemID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/menu/restaurants/"+restID+"/stats", ownerAccess, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode(t, rec)
	assert.Equal(t, float64(1), stats["total_items"])
	assert.Equal(t, float64(0), stats["available_items"])
}
