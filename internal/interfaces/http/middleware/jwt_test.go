package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyreuse/backend/internal/domain/shared"
	"github.com/studyreuse/backend/internal/infrastructure/auth"
	"github.com/studyreuse/backend/internal/infrastructure/config"
	"github.com/studyreuse/backend/internal/testutil"
)

func newTestJWT(accessTTL time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "middleware-test-secret-32-characters",
		AccessTokenExpiration:  accessTTL,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "studyreuse-test",
		MaxRefreshCount:        3,
	})
}

func issue(t *testing.T, svc *auth.JWTService, id uuid.UUID, role shared.Role) *auth.TokenPair {
	t.Helper()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{UserID: id, Email: "asha@college.edu", Role: role})
	require.NoError(t, err)
	return pair
}

// whoami echoes the actor stored by the middleware
func whoami(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"anonymous": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID.String(), "role": string(actor.Role)})
}

type failingBlacklist struct{ auth.TokenBlacklist }

func (failingBlacklist) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func (failingBlacklist) IsUserRevoked(context.Context, string, time.Time) (bool, error) {
	return false, errors.New("redis down")
}

func TestJWTAuth(t *testing.T) {
	svc := newTestJWT(15 * time.Minute)
	blacklist := auth.NewInMemoryTokenBlacklist()
	userID := testutil.NewTestUUID("jwt-user")
	pair := issue(t, svc, userID, shared.RoleUser)

	engine := gin.New()
	engine.GET("/me", JWTAuth(JWTConfig{JWTService: svc, Blacklist: blacklist}), whoami)

	testutil.RunHTTPTestCases(t, engine, []testutil.HTTPTestCase{
		{
			Name:           "missing header",
			Path:           "/me",
			ExpectedStatus: http.StatusUnauthorized,
			ExpectedCode:   "UNAUTHORIZED",
		},
		{
			Name:           "not a bearer token",
			Path:           "/me",
			Headers:        map[string]string{"Authorization": "Basic abc"},
			ExpectedStatus: http.StatusUnauthorized,
			ExpectedCode:   "UNAUTHORIZED",
		},
		{
			Name:           "garbage token",
			Path:           "/me",
			Headers:        map[string]string{"Authorization": "Bearer not.a.jwt"},
			ExpectedStatus: http.StatusUnauthorized,
			ExpectedCode:   "TOKEN_INVALID",
		},
		{
			Name:           "refresh token is not an access token",
			Path:           "/me",
			Headers:        map[string]string{"Authorization": "Bearer " + pair.RefreshToken},
			ExpectedStatus: http.StatusUnauthorized,
			ExpectedCode:   "TOKEN_INVALID",
		},
		{
			Name:           "valid token",
			Path:           "/me",
			Headers:        map[string]string{"Authorization": "Bearer " + pair.AccessToken},
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				body := testutil.JSONBody(t, rec)
				assert.Equal(t, userID.String(), body["user_id"])
				assert.Equal(t, "user", body["role"])
			},
		},
	})
}

func TestJWTAuth_Expired(t *testing.T) {
	svc := newTestJWT(-time.Minute)
	pair := issue(t, svc, uuid.New(), shared.RoleUser)

	engine := gin.New()
	engine.GET("/me", JWTAuth(JWTConfig{JWTService: svc}), whoami)

	testutil.RunHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Path:           "/me",
		Headers:        map[string]string{"Authorization": "Bearer " + pair.AccessToken},
		ExpectedStatus: http.StatusUnauthorized,
		ExpectedCode:   "TOKEN_EXPIRED",
	})
}

func TestJWTAuth_Revocation(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWT(15 * time.Minute)

	t.Run("revoked jti", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		pair := issue(t, svc, uuid.New(), shared.RoleUser)
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		require.NoError(t, blacklist.Revoke(ctx, claims.ID, time.Minute))

		engine := gin.New()
		engine.GET("/me", JWTAuth(JWTConfig{JWTService: svc, Blacklist: blacklist}), whoami)
		testutil.RunHTTPTestCase(t, engine, testutil.HTTPTestCase{
			Path:           "/me",
			Headers:        map[string]string{"Authorization": "Bearer " + pair.AccessToken},
			ExpectedStatus: http.StatusUnauthorized,
			ExpectedCode:   "TOKEN_REVOKED",
		})
	})

	t.Run("blacklist outage fails open", func(t *testing.T) {
		pair := issue(t, svc, uuid.New(), shared.RoleUser)
		engine := gin.New()
		engine.GET("/me", JWTAuth(JWTConfig{JWTService: svc, Blacklist: failingBlacklist{}}), whoami)
		testutil.RunHTTPTestCase(t, engine, testutil.HTTPTestCase{
			Path:           "/me",
			Headers:        map[string]string{"Authorization": "Bearer " + pair.AccessToken},
			ExpectedStatus: http.StatusOK,
		})
	})
}

func TestOptionalJWTAuth(t *testing.T) {
	svc := newTestJWT(15 * time.Minute)
	engine := gin.New()
	engine.GET("/items", OptionalJWTAuth(JWTConfig{JWTService: svc}), whoami)

	testutil.RunHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Name:           "anonymous",
		Path:           "/items",
		ExpectedStatus: http.StatusOK,
		Validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
			assert.Equal(t, true, testutil.JSONBody(t, rec)["anonymous"])
		},
	})
	testutil.RunHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Name:           "invalid token is ignored",
		Path:           "/items",
		Headers:        map[string]string{"Authorization": "Bearer broken"},
		ExpectedStatus: http.StatusOK,
	})

	admin := issue(t, svc, uuid.New(), shared.RoleAdmin)
	testutil.RunHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Name:           "authenticated",
		Path:           "/items",
		Headers:        map[string]string{"Authorization": "Bearer " + admin.AccessToken},
		ExpectedStatus: http.StatusOK,
		Validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
			assert.Equal(t, "admin", testutil.JSONBody(t, rec)["role"])
		},
	})
}

func TestRequireAdmin(t *testing.T) {
	svc := newTestJWT(15 * time.Minute)
	engine := gin.New()
	engine.GET("/admin", JWTAuth(JWTConfig{JWTService: svc}), RequireAdmin(), whoami)

	user := issue(t, svc, uuid.New(), shared.RoleUser)
	admin := issue(t, svc, uuid.New(), shared.RoleAdmin)

	testutil.RunHTTPTestCases(t, engine, []testutil.HTTPTestCase{
		{
			Name:           "user is forbidden",
			Path:           "/admin",
			Headers:        map[string]string{"Authorization": "Bearer " + user.AccessToken},
			ExpectedStatus: http.StatusForbidden,
			ExpectedCode:   "FORBIDDEN",
		},
		{
			Name:           "admin passes",
			Path:           "/admin",
			Headers:        map[string]string{"Authorization": "Bearer " + admin.AccessToken},
			ExpectedStatus: http.StatusOK,
		},
	})
}

func TestGetActor_RejectsUnknownRole(t *testing.T) {
	tc := testutil.NewTestContext(t)
	tc.Context.Set(UserIDKey, uuid.New().String())
	tc.Context.Set(RoleKey, "superuser")

	_, ok := GetActor(tc.Context)
	assert.False(t, ok)
}
