package Controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/bakery-app/cart"
	"github.com/yeremiapane/bakery-app/hub"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/router"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/storage"
	"github.com/yeremiapane/bakery-app/utils"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "confeitaria123"
)

type testApp struct {
	router    *gin.Engine
	db        *gorm.DB
	carts     *cart.MemoryStore
	uploadDir string
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// setupTestApp wires the full router over an in-memory SQLite database.
func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	return setupTestAppWithOrigin(t, "*")
}

func setupTestAppWithOrigin(t *testing.T, origin string) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger("error")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, models.Migrate(db))

	log := logrus.New()
	log.SetOutput(io.Discard)

	admin := services.NewAdminService(db, log)
	require.NoError(t, admin.EnsureAdmin(context.Background(), testAdminUser, testAdminPassword))

	board := hub.New(log)
	messenger := &services.Messenger{
		Host:           "wa.me",
		BusinessNumber: "5522998602746",
		CountryCode:    "55",
		StoreName:      "Liz Verdan Confeitaria",
		PickupAddress:  "Estr. dos Passageiros, 2915",
		Location:       time.UTC,
	}
	carts := cart.NewMemoryStore()
	uploadDir := t.TempDir()

	r := router.SetupRouter(router.Dependencies{
		Catalog:    services.NewCatalogService(db, log, board),
		Orders:     services.NewOrderService(db, log, board, messenger),
		Admin:      admin,
		Carts:      carts,
		Uploader:   storage.NewLocalUploader(uploadDir, "http://localhost:8080"),
		Hub:        board,
		StoreName:  "Liz Verdan Confeitaria",
		UploadDir:  uploadDir,
		CORSOrigin: origin,
	})

	return &testApp{router: r, db: db, carts: carts, uploadDir: uploadDir}
}

type requestOption func(*http.Request)

func withToken(token string) requestOption {
	return func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) }
}

func withSession(id string) requestOption {
	return func(req *http.Request) { req.Header.Set("X-Cart-Session", id) }
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}, opts ...requestOption) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func (a *testApp) login(t *testing.T) string {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/admin/login", map[string]string{
		"username": testAdminUser,
		"password": testAdminPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func (a *testApp) createCategory(t *testing.T, token, nome string, ordem int) models.Category {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/admin/categories", map[string]interface{}{
		"nome":  nome,
		"ordem": ordem,
	}, withToken(token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var c models.Category
	require.NoError(t, json.Unmarshal(env.Data, &c))
	return c
}

func (a *testApp) createProduct(t *testing.T, token string, body map[string]interface{}) models.Product {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/admin/products", body, withToken(token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var p models.Product
	require.NoError(t, json.Unmarshal(env.Data, &p))
	return p
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}
