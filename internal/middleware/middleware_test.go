package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tyretrust/internal/config"
	"tyretrust/internal/domain/model"
	"tyretrust/internal/middleware"
	repo "tyretrust/internal/repository"
)

type GuardUserRepoMock struct{ mock.Mock }

func (m *GuardUserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *GuardUserRepoMock) Create(ctx context.Context, user *model.User) error {
	panic("not used in middleware tests")
}

func (m *GuardUserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	panic("not used in middleware tests")
}

func (m *GuardUserRepoMock) Update(ctx context.Context, user *model.User) error {
	panic("not used in middleware tests")
}

func (m *GuardUserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	panic("not used in middleware tests")
}

func (m *GuardUserRepoMock) List(ctx context.Context, q repo.UserListQuery) ([]model.User, int64, error) {
	panic("not used in middleware tests")
}

const testSecret = "test-secret"

func signedToken(t *testing.T, userID int64, role string, tv int) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"tv":   tv,
		"iat":  now.Unix(),
		"exp":  now.Add(15 * time.Minute).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

// ミドルウェアを通した結果のstatusとcontext値を観測する
func runChain(t *testing.T, authz string, mws ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	require.NoError(t, h(c))
	return rec, c
}

func TestAuthJWT_ValidTokenSetsContext(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	token := signedToken(t, 7, "USER", 2)

	rec, c := runChain(t, "Bearer "+token, middleware.AuthJWT(cfg))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), c.Get(middleware.CtxUserIDKey))
	assert.Equal(t, "USER", c.Get(middleware.CtxUserRoleKey))
	assert.Equal(t, 2, c.Get(middleware.CtxTokenVersionKey))
}

func TestAuthJWT_RejectsMissingAndMalformedHeader(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	rec, _ := runChain(t, "", middleware.AuthJWT(cfg))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = runChain(t, "Token abc", middleware.AuthJWT(cfg))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = runChain(t, "Bearer ", middleware.AuthJWT(cfg))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_RejectsWrongSecret(t *testing.T) {
	cfg := config.Config{JWTSecret: "other-secret"}
	token := signedToken(t, 7, "USER", 2)

	rec, _ := runChain(t, "Bearer "+token, middleware.AuthJWT(cfg))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenVersionGuard_MismatchRejected(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	users := new(GuardUserRepoMock)
	// DB側はtv=3、トークンはtv=2
	users.On("FindByID", mock.Anything, int64(7)).
		Return(&model.User{ID: 7, TokenVersion: 3, IsActive: true}, nil)

	token := signedToken(t, 7, "USER", 2)
	rec, _ := runChain(t, "Bearer "+token, middleware.AuthJWT(cfg), middleware.TokenVersionGuard(users))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenVersionGuard_MatchPasses(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	users := new(GuardUserRepoMock)
	users.On("FindByID", mock.Anything, int64(7)).
		Return(&model.User{ID: 7, TokenVersion: 2, IsActive: true}, nil)

	token := signedToken(t, 7, "USER", 2)
	rec, _ := runChain(t, "Bearer "+token, middleware.AuthJWT(cfg), middleware.TokenVersionGuard(users))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoleGuard_UserForbidden(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	token := signedToken(t, 7, "USER", 0)
	rec, _ := runChain(t, "Bearer "+token, middleware.AuthJWT(cfg), middleware.AdminRoleGuard())
	assert.Equal(t, http.StatusForbidden, rec.Code)

	token = signedToken(t, 8, "ADMIN", 0)
	rec, _ = runChain(t, "Bearer "+token, middleware.AuthJWT(cfg), middleware.AdminRoleGuard())
	assert.Equal(t, http.StatusOK, rec.Code)
}
