package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	accountapp "github.com/celuvia/backend/internal/application/account"
	"github.com/celuvia/backend/internal/domain/account"
	"github.com/celuvia/backend/internal/domain/shared"
)

type authFixture struct {
	userRepo  *MockUserRepository
	tokenRepo *MockResetTokenRepository
	addrRepo  *MockAddressRepository
	mailer    *recordingMailer
	engine    *gin.Engine
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		userRepo:  new(MockUserRepository),
		tokenRepo: new(MockResetTokenRepository),
		addrRepo:  new(MockAddressRepository),
		mailer:    new(recordingMailer),
	}
	service := accountapp.NewAuthService(
		f.userRepo, f.tokenRepo, f.addrRepo,
		newTestJWTService(), f.mailer, "https://celuvia.test", zap.NewNop())
	f.engine = newTestEngine(NewAuthHandler(service))
	return f
}

func TestAuthHandler_Signup(t *testing.T) {
	t.Run("creates buyer account and returns tokens", func(t *testing.T) {
		f := newAuthFixture(t)
		f.userRepo.On("ExistsByEmail", mock.Anything, "amelia@example.com").Return(false, nil)
		f.userRepo.On("Save", mock.Anything, mock.AnythingOfType("*account.User")).Return(nil)

		w := performRequest(f.engine, http.MethodPost, "/api/v1/auth/signup", map[string]any{
			"email":      "amelia@example.com",
			"first_name": "Amelia",
			"last_name":  "Hart",
			"password":   "correct horse",
		}, nil)

		require.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		require.Equal(t, true, body["success"])
		data := body["data"].(map[string]any)
		token := data["token"].(map[string]any)
		assert.NotEmpty(t, token["access_token"])
		assert.NotEmpty(t, token["refresh_token"])
		user := data["user"].(map[string]any)
		assert.Equal(t, "amelia@example.com", user["email"])
		assert.Contains(t, user["roles"], "buyer")
		f.userRepo.AssertExpectations(t)
	})

	t.Run("vendor signup grants both roles", func(t *testing.T) {
		f := newAuthFixture(t)
		f.userRepo.On("ExistsByEmail", mock.Anything, "haven@example.com").Return(false, nil)
		f.userRepo.On("Save", mock.Anything, mock.MatchedBy(func(u *account.User) bool {
			return u.HasRole(account.RoleBuyer) && u.HasRole(account.RoleVendor)
		})).Return(nil)

		w := performRequest(f.engine, http.MethodPost, "/api/v1/auth/signup", map[string]any{
			"email":      "haven@example.com",
			"first_name": "Haven",
			"last_name":  "Prints",
			"password":   "correct horse",
			"as_vendor":  true,
		}, nil)

		require.Equal(t, http.StatusCreated, w.Code)
		data := decodeBody(t, w)["data"].(map[string]any)
		user := data["user"].(map[string]any)
		assert.ElementsMatch(t, []any{"buyer", "vendor"}, user["roles"])
	})

	t.Run("duplicate email returns conflict", func(t *testing.T) {
		f := newAuthFixture(t)
		f.userRepo.On("ExistsByEmail", mock.Anything, "taken@example.com").Return(true, nil)

		w := performRequest(f.engine, http.MethodPost, "/api/v1/auth/signup", map[string]any{
			"email":      "taken@example.com",
			"first_name": "Some",
			"last_name":  "One",
			"password":   "correct horse",
		}, nil)

		require.Equal(t, http.StatusConflict, w.Code)
		body := decodeBody(t, w)
		errInfo := body["error"].(map[string]any)
		assert.Equal(t, "ERR_ALREADY_EXISTS", errInfo["code"])
	})

	t.Run("short password fails validation", func(t *testing.T) {
		f := newAuthFixture(t)

		w := performRequest(f.engine, http.MethodPost, "/api/v1/auth/signup", map[string]any{
			"email":      "amelia@example.com",
			"first_name": "Amelia",
			"last_name":  "Hart",
			"password":   "short",
		}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	newStoredUser := func(t *testing.T, email, password string) *account.User {
		t.Helper()
		user, err := account.NewUser(email, "Amelia", "Hart", password)
		require.NoError(t, err)
		require.NoError(t, user.GrantRole(account.RoleBuyer))
		return user
	}

	t.Run("valid credentials return token pair", func(t *testing.T) {
		f := newAuthFixture(t)
		user := newStoredUser(t, "amelia@example.com", "correct horse")
		f.userRepo.On("FindByEmail", mock.Anything, "amelia@example.com").Return(user, nil)

		w := performRequest(f.engine, http.MethodPost, "/api/v1/auth/login", map[string]any{
			"email":    "amelia@example.com",
			"password": "correct horse",
		}, nil)

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]any)
		token := data["token"].(map[string]any)
		assert.Equal(t, "Bearer", token["token_type"])
		assert.NotEmpty(t, token["access_token"])
	})

	t.Run("wrong password returns unauthorized", func(t *testing.T) {
		f := newAuthFixture(t)
		user := newStoredUser(t, "amelia@example.com", "correct horse")
		f.userRepo.On("FindByEmail", mock.Anything, "amelia@example.com").Return(user, nil)

		w := performRequest(f.engine, http.MethodPost, "/api/v1/auth/login", map[string]any{
			"email":    "amelia@example.com",
			"password": "battery staple",
		}, nil)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		errInfo := decodeBody(t, w)["error"].(map[string]any)
		assert.Equal(t, "ERR_UNAUTHORIZED", errInfo["code"])
	})

	t.Run("unknown email returns unauthorized", func(t *testing.T) {
		f := newAuthFixture(t)
		f.userRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, shared.ErrNotFound)

		w := performRequest(f.engine, http.MethodPost, "/api/v1/auth/login", map[string]any{
			"email":    "nobody@example.com",
			"password": "correct horse",
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_PasswordReset(t *testing.T) {
	t.Run("request sends mail for known account", func(t *testing.T) {
		f := newAuthFixture(t)
		user, err := account.NewUser("amelia@example.com", "Amelia", "Hart", "correct horse")
		require.NoError(t, err)
		f.userRepo.On("FindByEmail", mock.Anything, "amelia@example.com").Return(user, nil)
		f.tokenRepo.On("Save", mock.Anything, mock.AnythingOfType("*account.ResetToken")).Return(nil)

		w := performRequest(f.engine, http.MethodPost, "/api/v1/auth/password-reset/request", map[string]any{
			"email": "amelia@example.com",
		}, nil)

		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, f.mailer.To, 1)
		assert.Equal(t, "amelia@example.com", f.mailer.To[0])
	})

	t.Run("request for unknown account still succeeds without mail", func(t *testing.T) {
		f := newAuthFixture(t)
		f.userRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, shared.ErrNotFound)

		w := performRequest(f.engine, http.MethodPost, "/api/v1/auth/password-reset/request", map[string]any{
			"email": "nobody@example.com",
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, f.mailer.To)
	})
}
