package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/provider"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type routerTestEnv struct {
	engine    *gin.Engine
	container *provider.Container
	db        *gorm.DB
}

func newRouterTestEnv(t *testing.T) *routerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.AutoMigrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "debug"},
		JWT:     config.JWTConfig{SecretKey: "router-test-secret", ExpireHours: 1, Issuer: "bazaar"},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
		Order: config.OrderConfig{
			NumberPrefix:          "ATN",
			Currency:              "BDT",
			DefaultCountry:        "Bangladesh",
			EstimatedDeliveryDays: 5,
			Shipping: config.ShippingConfig{
				HomeRegionFee:   80,
				OtherRegionFee:  130,
				HomeRegionNames: []string{"dhaka"},
				HomeDistrict:    "dhaka",
			},
		},
	}
	c, err := provider.NewContainer(cfg, db)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	return &routerTestEnv{engine: SetupRouter(cfg, c), container: c, db: db}
}

func (e *routerTestEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *routerTestEnv) userToken(t *testing.T, email, role string) string {
	t.Helper()
	user := &models.User{
		Email:     email,
		Phone:     "01711111111",
		FirstName: "Router",
		LastName:  "Test",
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, e.db.Create(user).Error)
	token, _, err := e.container.TokenService.Issue(user)
	require.NoError(t, err)
	return token
}

func (e *routerTestEnv) seedVariant(t *testing.T, stock int) (*models.Product, *models.ProductVariant) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.Category{ID: "cat-1", Name: "Apparel", Slug: "apparel", IsActive: true}).Error)
	product := &models.Product{
		CategoryID: "cat-1",
		Name:       "Panjabi",
		Slug:       "panjabi",
		SKU:        "PNJ",
		BasePrice:  models.MustMoney("1500"),
		IsActive:   true,
	}
	require.NoError(t, e.db.Create(product).Error)
	variant := &models.ProductVariant{
		ProductID:         product.ID,
		SKU:               "PNJ-M",
		Size:              "M",
		Color:             "White",
		PriceAdjustment:   models.MustMoney("0"),
		LowStockThreshold: 1,
		IsActive:          true,
	}
	require.NoError(t, e.db.Create(variant).Error)
	_, err := e.container.StockService.AdjustStock(context.Background(), service.AdjustStockCommand{
		VariantID: variant.ID,
		Type:      constants.StockMovementPurchase,
		Quantity:  stock,
	})
	require.NoError(t, err)
	return product, variant
}

func guestOrderBody(product *models.Product, variant *models.ProductVariant, quantity int) map[string]interface{} {
	return map[string]interface{}{
		"items": []map[string]interface{}{
			{"productId": product.ID, "variantId": variant.ID, "quantity": quantity},
		},
		"shippingAddress": map[string]interface{}{
			"recipientName": "Guest Buyer",
			"phone":         "01712345678",
			"addressLine1":  "House 1, Road 2",
			"city":          "Dhaka",
			"district":      "Dhaka",
		},
		"paymentMethod": constants.PaymentMethodCOD,
		"guestEmail":    "guest@example.com",
		"guestPhone":    "01712345678",
		"guestName":     "Guest Buyer",
	}
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Reason     string          `json:"reason"`
	Data       json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestHealthzAndMetrics(t *testing.T) {
	env := newRouterTestEnv(t)

	w := env.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"database":"ok"`)

	w = env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, "go_goroutines")
	require.Contains(t, body, `http_requests_total{method="GET",route="/healthz",status="200"}`)
}

func TestGuestOrderAndTrackingRoutes(t *testing.T) {
	env := newRouterTestEnv(t)
	product, variant := env.seedVariant(t, 5)

	order := guestOrderBody(product, variant, 2)
	w := env.do(t, http.MethodPost, "/api/v1/orders", "", order)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID          string `json:"id"`
		OrderNumber string `json:"order_number"`
		Total       string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &created))
	require.NotEmpty(t, created.OrderNumber)
	require.Equal(t, "3080.00", created.Total)

	w = env.do(t, http.MethodGet, "/api/v1/orders/track/"+created.OrderNumber+"?email=guest@example.com", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/v1/orders/track/"+created.OrderNumber+"?email=other@example.com", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// 超量下单返回 409
	order["items"] = []map[string]interface{}{
		{"productId": product.ID, "variantId": variant.ID, "quantity": 9},
	}
	w = env.do(t, http.MethodPost, "/api/v1/orders", "", order)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	require.Equal(t, "insufficient_stock", decodeEnvelope(t, w).Reason)

	w = env.do(t, http.MethodPost, "/api/v1/orders", "", map[string]interface{}{"paymentMethod": "cash"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 游客不能查看订单详情
	w = env.do(t, http.MethodGet, "/api/v1/orders/"+created.ID, "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesEnforceRoles(t *testing.T) {
	env := newRouterTestEnv(t)
	_, variant := env.seedVariant(t, 3)
	customer := env.userToken(t, "customer@example.com", constants.RoleCustomer)
	staff := env.userToken(t, "staff@example.com", constants.RoleStaff)
	admin := env.userToken(t, "admin@example.com", constants.RoleAdmin)

	w := env.do(t, http.MethodGet, "/api/v1/admin/orders/stats", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/admin/orders/stats", customer, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/admin/orders/stats", staff, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	movementsPath := "/api/v1/admin/variants/" + variant.ID + "/stock-movements"
	w = env.do(t, http.MethodGet, movementsPath, staff, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	adjust := map[string]interface{}{"type": constants.StockMovementPurchase, "quantity": 4, "note": "restock"}
	w = env.do(t, http.MethodPost, movementsPath, staff, adjust)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, movementsPath, admin, adjust)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/v1/admin/variants/"+variant.ID+"/stock-reconcile", staff, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var reconcile struct {
		Consistent bool `json:"consistent"`
		Stock      int  `json:"stock"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &reconcile))
	require.True(t, reconcile.Consistent)
	require.Equal(t, 7, reconcile.Stock)

	w = env.do(t, http.MethodPut, "/api/v1/orders/missing/status", customer, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPut, "/api/v1/orders/missing/status", staff, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPut, "/api/v1/orders/missing/status", admin, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestStaffCannotManageOrders(t *testing.T) {
	env := newRouterTestEnv(t)
	product, variant := env.seedVariant(t, 5)
	staff := env.userToken(t, "staff@example.com", constants.RoleStaff)
	admin := env.userToken(t, "admin@example.com", constants.RoleAdmin)

	w := env.do(t, http.MethodPost, "/api/v1/orders", "", guestOrderBody(product, variant, 1))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &created))

	w = env.do(t, http.MethodPut, "/api/v1/orders/"+created.ID+"/status", staff, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/v1/orders/"+created.ID, staff, nil)
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	w = env.do(t, http.MethodPut, "/api/v1/orders/"+created.ID+"/cancel", staff, map[string]string{"reason": "not mine"})
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	var stored models.Order
	require.NoError(t, env.db.First(&stored, "id = ?", created.ID).Error)
	require.Equal(t, constants.OrderStatusPending, stored.Status)

	w = env.do(t, http.MethodGet, "/api/v1/orders/"+created.ID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPut, "/api/v1/orders/"+created.ID+"/status", admin, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &created))
	require.Equal(t, constants.OrderStatusConfirmed, created.Status)
}
