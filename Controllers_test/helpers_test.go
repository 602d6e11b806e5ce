package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/router"
	"github.com/yeremiapane/coffee-shop-app/services"
	"github.com/yeremiapane/coffee-shop-app/utils"
)

var testDBSeq int64

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	utils.InitJWT("test-secret", time.Hour, 24*time.Hour)
	m.Run()
}

// stubGateway lets the payment endpoints run without Midtrans.
type stubGateway struct {
	chargeErr error
	status    string
	validSig  bool
}

func (s *stubGateway) CreateCharge(orderID string, grossAmount int64, method, customerName, customerEmail string) (*services.GatewayCharge, error) {
	if s.chargeErr != nil {
		return nil, s.chargeErr
	}
	return &services.GatewayCharge{
		GatewayTransactionID: "gw-" + orderID,
		PaymentURL:           "https://pay.example/" + orderID,
	}, nil
}

func (s *stubGateway) CheckStatus(orderID string) (string, error) {
	return s.status, nil
}

func (s *stubGateway) ValidateSignature(orderID, statusCode, grossAmount, signature string) bool {
	return s.validSig
}

// setupApp builds the full application against a fresh in-memory
// database and a stubbed payment gateway.
func setupApp(t *testing.T) (*gorm.DB, *gin.Engine, *stubGateway) {
	t.Helper()

	dsn := fmt.Sprintf("file:ctrl%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.CoffeeShop{},
		&models.OperatingHour{},
		&models.TimeSlot{},
		&models.Table{},
		&models.Menu{},
		&models.VariantType{},
		&models.Variant{},
		&models.MenuVariant{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemVariant{},
		&models.Transaction{},
		&models.Booking{},
		&models.OrderStatusHistory{},
		&models.BookingStatusHistory{},
		&models.Notification{},
		&models.Favorite{},
		&models.Rating{},
	)
	require.NoError(t, err)

	for _, name := range []string{models.RoleAdmin, models.RoleUser} {
		require.NoError(t, db.Create(&models.Role{Role: name}).Error)
	}

	gateway := &stubGateway{validSig: true}
	notifier := services.NewNotificationService(db, services.LogMailer{}, "http://localhost:3000")
	status := services.NewStatusService(db, notifier)
	payments := services.NewPaymentService(db, gateway, status, notifier)

	engine := router.SetupRouter(router.Deps{
		DB:        db,
		Status:    status,
		Notifier:  notifier,
		Allocator: services.NewBookingAllocator(db),
		Orders:    services.NewOrderService(db),
		Payments:  payments,
	})
	return db, engine, gateway
}

// createUser inserts a user with a bcrypt password and returns it with
// a bearer token.
func createUser(t *testing.T, db *gorm.DB, name, roleName string) (*models.User, string) {
	t.Helper()

	var role models.Role
	require.NoError(t, db.Where("role = ?", roleName).First(&role).Error)

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:       name,
		Email:      name + "@example.com",
		Password:   string(hashed),
		IsActive:   true,
		IsVerified: true,
		RoleID:     role.ID,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(user.ID, roleName)
	require.NoError(t, err)
	return &user, token
}

func doJSON(t *testing.T, engine *gin.Engine, method, url, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
