package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyreuse/backend/internal/application/barter"
	"github.com/studyreuse/backend/internal/application/catalog"
	"github.com/studyreuse/backend/internal/application/identity"
	"github.com/studyreuse/backend/internal/application/notification"
	"github.com/studyreuse/backend/internal/application/report"
	"github.com/studyreuse/backend/internal/application/review"
	"github.com/studyreuse/backend/internal/application/trade"
	"github.com/studyreuse/backend/internal/infrastructure/auth"
	"github.com/studyreuse/backend/internal/infrastructure/config"
	"github.com/studyreuse/backend/internal/infrastructure/event"
	"github.com/studyreuse/backend/internal/infrastructure/persistence"
	"github.com/studyreuse/backend/internal/infrastructure/printing"
	"github.com/studyreuse/backend/internal/infrastructure/storage"
	"github.com/studyreuse/backend/internal/interfaces/http/handler"
	"github.com/studyreuse/backend/internal/interfaces/http/middleware"
	"github.com/studyreuse/backend/internal/testutil"
	"go.uber.org/zap"
)

const testPassword = "secret123"

// testApp is the full API on an in-memory sqlite database with synchronous
// event delivery.
type testApp struct {
	t      *testing.T
	engine *gin.Engine
}

type session struct {
	token string
	id    string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := zap.NewNop()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	userRepo := persistence.NewGormUserRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	barterRepo := persistence.NewGormBarterRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	bus := event.NewInMemoryEventBus(log)
	for _, h := range notification.Handlers(notificationRepo, log) {
		bus.Subscribe(h)
	}

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "router-test-secret-with-32-characters",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "studyreuse-test",
		MaxRefreshCount:        5,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	authService := identity.NewAuthService(userRepo, jwtService, blacklist, log)
	authService.SetEventPublisher(bus)
	userService := identity.NewUserService(userRepo, log)
	require.NoError(t, userService.BootstrapAdmin(context.Background(), "Registrar", "admin@college.edu", testPassword))

	itemService := catalog.NewItemService(itemRepo, userRepo, log)
	itemService.SetEventPublisher(bus)
	imageService := catalog.NewImageService(itemRepo, storage.NewMemoryImageStorage(""), 5<<20, log)

	barterService := barter.NewBarterService(barterRepo, itemRepo, userRepo, log)
	barterService.SetEventPublisher(bus)

	receipts, err := printing.NewReceiptRenderer(nil, "USD", log)
	require.NoError(t, err)
	orderService := trade.NewOrderService(orderRepo, itemRepo, userRepo, log, trade.WithReceiptRenderer(receipts))
	orderService.SetEventPublisher(bus)

	reviewService := review.NewReviewService(reviewRepo, itemRepo, userRepo, log)
	reviewService.SetEventPublisher(bus)

	engine, err := NewEngine(
		EngineConfig{
			HTTP:     config.HTTPConfig{MaxBodySize: 1 << 20},
			Security: middleware.DefaultSecurityConfig(),
		},
		middleware.JWTConfig{JWTService: jwtService, Blacklist: blacklist, Logger: log},
		Limiters{},
		Handlers{
			Auth:         handler.NewAuthHandler(authService),
			User:         handler.NewUserHandler(userService),
			Item:         handler.NewItemHandler(itemService, imageService),
			Barter:       handler.NewBarterHandler(barterService),
			Order:        handler.NewOrderHandler(orderService),
			Review:       handler.NewReviewHandler(reviewService),
			Notification: handler.NewNotificationHandler(notification.NewNotificationService(notificationRepo, log)),
			Admin:        handler.NewAdminHandler(report.NewDashboardService(userRepo, itemRepo, orderRepo, barterRepo, reviewRepo, log)),
			Health:       handler.NewHealthHandler("test", db),
		},
		log,
	)
	require.NoError(t, err)
	return &testApp{t: t, engine: engine}
}

func (a *testApp) do(method, path string, s *session, body any, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	h := map[string]string{}
	if s != nil {
		h["Authorization"] = "Bearer " + s.token
	}
	for i := 0; i+1 < len(headers); i += 2 {
		h[headers[i]] = headers[i+1]
	}
	return testutil.RunHTTPTestCase(a.t, a.engine, testutil.HTTPTestCase{
		Method:  method,
		Path:    "/api/v1" + path,
		Body:    body,
		Headers: h,
	})
}

// data returns the envelope's data object of a successful response
func data(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	resp := testutil.AssertSuccess(t, rec)
	d, ok := resp["data"].(map[string]any)
	require.True(t, ok, "data is not an object: %s", rec.Body.String())
	return d
}

func (a *testApp) register(name, email string) *session {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/auth/register", nil, map[string]any{
		"name": name, "email": email, "password": testPassword,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	d := data(a.t, rec)
	return &session{token: d["access_token"].(string), id: d["user"].(map[string]any)["id"].(string)}
}

func (a *testApp) login(email string) *session {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/auth/login", nil, map[string]any{"email": email, "password": testPassword})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	d := data(a.t, rec)
	return &session{token: d["access_token"].(string), id: d["user"].(map[string]any)["id"].(string)}
}

func (a *testApp) admin() *session {
	return a.login("admin@college.edu")
}

// listItem creates an item and has an admin approve it
func (a *testApp) listItem(owner *session, title, price string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/items", owner, map[string]any{
		"title": title, "description": "Barely used", "price": price,
		"category": "Textbooks", "condition": "good",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	id := data(a.t, rec)["id"].(string)

	rec = a.do(http.MethodPost, "/admin/items/"+id+"/approve", a.admin(), nil)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return id
}

func unread(t *testing.T, a *testApp, s *session) float64 {
	t.Helper()
	rec := a.do(http.MethodGet, "/notifications/unread-count", s, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	return data(t, rec)["unread"].(float64)
}

func TestEngine_SystemRoutes(t *testing.T) {
	app := newTestApp(t)

	t.Run("health", func(t *testing.T) {
		w := serve(app.engine, http.MethodGet, "/health")
		require.Equal(t, http.StatusOK, w.Code)
		body := testutil.JSONBody(t, w)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "up", body["checks"].(map[string]any)["database"])
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	})

	t.Run("unknown route", func(t *testing.T) {
		w := serve(app.engine, http.MethodGet, "/api/v1/nope")
		assert.Equal(t, http.StatusNotFound, w.Code)
		testutil.AssertErrorCode(t, w, "ROUTE_NOT_FOUND")
	})

	t.Run("wrong method", func(t *testing.T) {
		w := serve(app.engine, http.MethodGet, "/api/v1/auth/login")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		testutil.AssertErrorCode(t, w, "METHOD_NOT_ALLOWED")
	})

	t.Run("swagger disabled", func(t *testing.T) {
		w := serve(app.engine, http.MethodGet, "/swagger/index.html")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEngine_Auth(t *testing.T) {
	app := newTestApp(t)
	asha := app.register("Asha", "asha@college.edu")

	testutil.RunHTTPTestCases(t, app.engine, []testutil.HTTPTestCase{
		{
			Name:           "duplicate email",
			Method:         http.MethodPost,
			Path:           "/api/v1/auth/register",
			Body:           map[string]any{"name": "Asha", "email": "asha@college.edu", "password": testPassword},
			ExpectedStatus: http.StatusConflict,
			ExpectedCode:   "ALREADY_EXISTS",
		},
		{
			Name:           "invalid payload",
			Method:         http.MethodPost,
			Path:           "/api/v1/auth/register",
			Body:           map[string]any{"name": "", "email": "not-an-email", "password": "short"},
			ExpectedStatus: http.StatusBadRequest,
			ExpectedCode:   "VALIDATION_ERROR",
			Validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				details := testutil.JSONBody(t, rec)["error"].(map[string]any)["details"].([]any)
				assert.Len(t, details, 3)
			},
		},
		{
			Name:           "wrong password",
			Method:         http.MethodPost,
			Path:           "/api/v1/auth/login",
			Body:           map[string]any{"email": "asha@college.edu", "password": "wrongpass1"},
			ExpectedStatus: http.StatusUnauthorized,
			ExpectedCode:   "INVALID_CREDENTIALS",
		},
		{
			Name:           "profile without token",
			Path:           "/api/v1/users/me",
			ExpectedStatus: http.StatusUnauthorized,
			ExpectedCode:   "UNAUTHORIZED",
		},
	})

	rec := app.do(http.MethodGet, "/users/me", asha, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "asha@college.edu", data(t, rec)["email"])

	rec = app.do(http.MethodGet, "/admin/users", asha, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	testutil.AssertErrorCode(t, rec, "FORBIDDEN")

	rec = app.do(http.MethodPost, "/auth/logout", asha, nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = app.do(http.MethodGet, "/users/me", asha, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	testutil.AssertErrorCode(t, rec, "TOKEN_REVOKED")
}

func TestEngine_ItemModeration(t *testing.T) {
	app := newTestApp(t)
	seller := app.register("Seller", "seller@college.edu")
	stranger := app.register("Stranger", "stranger@college.edu")

	rec := app.do(http.MethodPost, "/items", seller, map[string]any{
		"title": "Calculus 101", "price": "25.00", "category": "Textbooks", "condition": "like_new",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := data(t, rec)
	id := item["id"].(string)
	assert.Equal(t, false, item["is_approved"])

	// pending items are hidden from everyone but the owner and admins
	rec = app.do(http.MethodGet, "/items/"+id, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = app.do(http.MethodGet, "/items/"+id, stranger, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = app.do(http.MethodGet, "/items/"+id, seller, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(http.MethodGet, "/items", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, testutil.JSONBody(t, rec)["meta"].(map[string]any)["total"])

	rec = app.do(http.MethodPost, "/admin/items/"+id+"/approve", stranger, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := app.admin()
	rec = app.do(http.MethodGet, "/admin/items", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, testutil.JSONBody(t, rec)["meta"].(map[string]any)["total"])

	rec = app.do(http.MethodPost, "/admin/items/"+id+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, data(t, rec)["is_approved"])

	rec = app.do(http.MethodGet, "/items/"+id, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = app.do(http.MethodGet, "/items?search=calculus", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, testutil.JSONBody(t, rec)["meta"].(map[string]any)["total"])

	rec = app.do(http.MethodPut, "/items/"+id, stranger, map[string]any{"title": "Mine now"})
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = app.do(http.MethodGet, "/items/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	testutil.AssertErrorCode(t, rec, "INVALID_ID")

	assert.GreaterOrEqual(t, unread(t, app, seller), float64(1), "owner hears about moderation")
}

func TestEngine_BarterFlow(t *testing.T) {
	app := newTestApp(t)
	owner := app.register("Owner", "owner@college.edu")
	requester := app.register("Requester", "requester@college.edu")
	itemID := app.listItem(owner, "Lab coat", "10.00")
	before := unread(t, app, owner)

	rec := app.do(http.MethodPost, "/barters", owner, map[string]any{"item_id": itemID, "message": "swap?"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	testutil.AssertErrorCode(t, rec, "CANNOT_BARTER_OWN_ITEM")

	rec = app.do(http.MethodPost, "/barters", requester, map[string]any{"item_id": itemID, "message": "Swap for my lab goggles?"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	b := data(t, rec)
	barterID := b["id"].(string)
	assert.Equal(t, "pending", b["status"])
	assert.Equal(t, before+1, unread(t, app, owner))

	rec = app.do(http.MethodGet, "/barters/incoming", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, testutil.JSONBody(t, rec)["meta"].(map[string]any)["total"])

	rec = app.do(http.MethodPatch, "/barters/"+barterID+"/status", requester, map[string]any{"status": "accepted"})
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = app.do(http.MethodPatch, "/barters/"+barterID+"/status", owner, map[string]any{"status": "accepted"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "accepted", data(t, rec)["status"])
	assert.Equal(t, float64(1), unread(t, app, requester))

	rec = app.do(http.MethodPatch, "/barters/"+barterID+"/status", owner, map[string]any{"status": "rejected"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	rec = app.do(http.MethodPost, "/notifications/read-all", requester, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), data(t, rec)["updated"])
	assert.Equal(t, float64(0), unread(t, app, requester))
}

func TestEngine_OrderFlow(t *testing.T) {
	app := newTestApp(t)
	seller := app.register("Seller", "seller@college.edu")
	buyer := app.register("Buyer", "buyer@college.edu")
	itemID := app.listItem(seller, "Desk lamp", "12.50")

	cart := map[string]any{
		"items": []map[string]any{{"item_id": itemID, "quantity": 1}},
		"shipping_address": map[string]any{
			"full_name": "Buyer", "address": "12 College Rd", "city": "Pune",
		},
	}

	rec := app.do(http.MethodPost, "/orders", buyer, cart, handler.IdempotencyKeyHeader, "checkout-1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := data(t, rec)
	orderID := order["id"].(string)
	assert.Equal(t, "AwaitingSeller", order["state"])

	rec = app.do(http.MethodPost, "/orders", buyer, cart, handler.IdempotencyKeyHeader, "checkout-1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, orderID, data(t, rec)["id"])

	rec = app.do(http.MethodPost, "/orders", seller, cart)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	testutil.AssertErrorCode(t, rec, "CANNOT_BUY_OWN_ITEM")

	rec = app.do(http.MethodPost, "/orders", buyer, map[string]any{"items": []any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	testutil.AssertErrorCode(t, rec, "VALIDATION_ERROR")

	rec = app.do(http.MethodGet, "/orders/selling", seller, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, testutil.JSONBody(t, rec)["meta"].(map[string]any)["total"])

	rec = app.do(http.MethodPost, "/orders/"+orderID+"/accept", buyer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodPost, "/orders/"+orderID+"/reject", seller, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	testutil.AssertErrorCode(t, rec, "VALIDATION_ERROR")

	rec = app.do(http.MethodPost, "/orders/"+orderID+"/accept", seller, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Processing", data(t, rec)["state"])

	rec = app.do(http.MethodPost, "/orders/"+orderID+"/accept", seller, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	testutil.AssertErrorCode(t, rec, "INVALID_STATE")

	rec = app.do(http.MethodGet, "/orders/"+orderID+"/receipt", buyer, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "Desk lamp")

	stranger := app.register("Stranger", "stranger@college.edu")
	rec = app.do(http.MethodGet, "/orders/"+orderID, stranger, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(http.MethodGet, "/admin/orders", app.admin(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, testutil.JSONBody(t, rec)["meta"].(map[string]any)["total"])
}

func TestEngine_Reviews(t *testing.T) {
	app := newTestApp(t)
	owner := app.register("Owner", "owner@college.edu")
	reader := app.register("Reader", "reader@college.edu")
	itemID := app.listItem(owner, "Organic chemistry notes", "5.00")

	body := map[string]any{"rating": 4, "comment": "Clear handwriting and complete."}
	rec := app.do(http.MethodPost, "/items/"+itemID+"/reviews", nil, body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(http.MethodPost, "/items/"+itemID+"/reviews", reader, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reviewID := data(t, rec)["id"].(string)

	rec = app.do(http.MethodPost, "/items/"+itemID+"/reviews", reader, body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	testutil.AssertErrorCode(t, rec, "ALREADY_EXISTS")

	rec = app.do(http.MethodGet, "/items/"+itemID+"/reviews", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := data(t, rec)["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["count"])
	assert.Equal(t, float64(4), summary["average"])

	rec = app.do(http.MethodDelete, "/reviews/"+reviewID, owner, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodDelete, "/reviews/"+reviewID, reader, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestEngine_Dashboard(t *testing.T) {
	app := newTestApp(t)
	user := app.register("Student", "student@college.edu")
	app.listItem(user, "Graph paper", "1.00")

	rec := app.do(http.MethodGet, "/admin/dashboard", user, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodGet, "/admin/dashboard", app.admin(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, data(t, rec))
}
