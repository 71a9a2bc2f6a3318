package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Maksimell/shop_backend/internal/hash"
	"github.com/Maksimell/shop_backend/internal/middleware/auth"
	"github.com/Maksimell/shop_backend/internal/models"
	"github.com/Maksimell/shop_backend/internal/mykafka"
	"github.com/Maksimell/shop_backend/internal/service/search"
	"github.com/Maksimell/shop_backend/internal/session"
)

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Sessions *session.Service
	A        *AuthHandler
	P        *ProductHandler
	C        *CartHandler
}

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory db")

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Session{},
	), "failed to migrate tables")

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := initTestDB(t)
	sessions := &session.Service{DB: db, Secret: []byte("test_secret")}

	env := &testEnv{
		T:        t,
		E:        echo.New(),
		DB:       db,
		Sessions: sessions,
	}

	// A zero-value producer publishes nothing, and a Service without a
	// client skips indexing, so handlers run without external infra.
	env.A = &AuthHandler{DB: db, Sessions: sessions, Producer: &mykafka.Producer{}}
	env.P = &ProductHandler{DB: db, Producer: &mykafka.Producer{}, Search: &search.Service{Index: "products"}}
	env.C = &CartHandler{DB: db, Producer: &mykafka.Producer{}}

	return env
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) createUser(username, password string) models.User {
	passwordHash, err := hash.HashPassword(password)
	require.NoError(env.T, err)

	user := models.User{Username: username, PasswordHash: passwordHash}
	require.NoError(env.T, env.DB.Create(&user).Error)
	return user
}

// asUser marks the request context as authenticated, the way RequireSession
// would after validating the cookie.
func asUser(c echo.Context, userID uint) {
	c.Set(auth.ContextUserKey, userID)
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp["message"]
}
