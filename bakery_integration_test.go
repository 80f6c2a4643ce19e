package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
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

func TestMain(m *testing.M) {
	utils.InitLogger("error")
	os.Exit(m.Run())
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// TestEndToEndIntegration runs the main flow against a real HTTP server with
// Redis-backed carts:
// 1. Admin login, category and product setup
// 2. Customer fills the cart and checks out
// 3. Admin board receives the new order over WebSocket
// 4. Admin accepts the order, then deletes it
func TestEndToEndIntegration(t *testing.T) {
	srv, db, board := setupServer(t)
	client := srv.Client()

	token := loginTest(t, srv.URL, client)
	productID := seedCatalogTest(t, srv.URL, client, token)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/ws?token=" + token
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer ws.Close()
	require.Eventually(t, func() bool { return board.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	orderID := checkoutTest(t, srv.URL, client, productID)

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg hub.Message
	for msg.Event != hub.EventOrderCreated {
		require.NoError(t, ws.ReadJSON(&msg))
	}

	acceptOrderTest(t, srv.URL, client, token, orderID)

	resp := call(t, client, http.MethodDelete, srv.URL+"/admin/orders/"+orderID, token, "", nil)
	assert.True(t, resp.Status)

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", productID).Error)
	assert.Equal(t, 8, product.Estoque)
}

func setupServer(t *testing.T) (*httptest.Server, *gorm.DB, *hub.Hub) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.Migrate(db))

	log := logrus.New()
	log.SetOutput(io.Discard)

	admin := services.NewAdminService(db, log)
	require.NoError(t, admin.EnsureAdmin(context.Background(), "admin", "confeitaria123"))

	mr := miniredis.RunT(t)
	redisClient, err := cart.NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)

	board := hub.New(log)
	messenger := &services.Messenger{
		Host:           "wa.me",
		BusinessNumber: "5522998602746",
		CountryCode:    "55",
		StoreName:      "Liz Verdan Confeitaria",
		PickupAddress:  "Estr. dos Passageiros, 2915",
		Location:       time.UTC,
	}

	r := router.SetupRouter(router.Dependencies{
		Catalog:    services.NewCatalogService(db, log, board),
		Orders:     services.NewOrderService(db, log, board, messenger),
		Admin:      admin,
		Carts:      cart.NewRedisStore(redisClient, time.Hour),
		Uploader:   storage.NewLocalUploader(t.TempDir(), "http://localhost"),
		Hub:        board,
		StoreName:  "Liz Verdan Confeitaria",
		CORSOrigin: "*",
	})

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		sqlDB.Close()
	})
	return srv, db, board
}

func call(t *testing.T, client *http.Client, method, url, token, session string, body interface{}) apiResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if session != "" {
		req.Header.Set("X-Cart-Session", session)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Less(t, resp.StatusCode, 300, "%s %s: %s", method, url, out.Message)
	return out
}

func loginTest(t *testing.T, base string, client *http.Client) string {
	resp := call(t, client, http.MethodPost, base+"/admin/login", "", "", map[string]string{
		"username": "admin",
		"password": "confeitaria123",
	})
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data.Token
}

func seedCatalogTest(t *testing.T, base string, client *http.Client, token string) string {
	resp := call(t, client, http.MethodPost, base+"/admin/categories", token, "", map[string]interface{}{
		"nome":  "Doces",
		"ordem": 1,
	})
	var category models.Category
	require.NoError(t, json.Unmarshal(resp.Data, &category))

	resp = call(t, client, http.MethodPost, base+"/admin/products", token, "", map[string]interface{}{
		"nome":         "Brigadeiro Gourmet",
		"valor":        3.5,
		"estoque":      10,
		"categoria_id": category.ID,
	})
	var product models.Product
	require.NoError(t, json.Unmarshal(resp.Data, &product))
	return product.ID
}

func checkoutTest(t *testing.T, base string, client *http.Client, productID string) string {
	const session = "integration-session"

	call(t, client, http.MethodPost, base+"/cart/items", "", session, map[string]interface{}{
		"produto_id": productID,
		"quantidade": 2,
	})

	resp := call(t, client, http.MethodPost, base+"/orders", "", session, map[string]string{
		"nome_cliente":    "Maria",
		"whatsapp":        "22 99999-1234",
		"modo_entrega":    "Retirada",
		"forma_pagamento": "Dinheiro",
	})
	var result struct {
		Pedido      models.Order `json:"pedido"`
		WhatsAppURL string       `json:"whatsapp_url"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, 7.0, result.Pedido.Total)
	assert.Contains(t, result.WhatsAppURL, "NOVO%20PEDIDO")

	resp = call(t, client, http.MethodGet, base+"/cart", "", session, nil)
	var view struct {
		Itens []cart.Item `json:"itens"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &view))
	assert.Empty(t, view.Itens)

	return result.Pedido.ID
}

func acceptOrderTest(t *testing.T, base string, client *http.Client, token, orderID string) {
	resp := call(t, client, http.MethodPatch, base+"/admin/orders/"+orderID+"/status", token, "", map[string]string{
		"status": models.StatusAceito,
	})
	var result struct {
		Pedido      models.Order `json:"pedido"`
		WhatsAppURL string       `json:"whatsapp_url"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, models.StatusAceito, result.Pedido.Status)
	assert.True(t, strings.HasPrefix(result.WhatsAppURL, "https://wa.me/5522999991234"))
}
