package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBSeq int64

func TestMain(m *testing.M) {
	utils.InitLogger()
	m.Run()
}

// newTestDB opens a fresh in-memory database per test so tests never
// see each other's rows.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
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
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	var role models.Role
	err := db.Where("role = ?", models.RoleUser).First(&role).Error
	if err == gorm.ErrRecordNotFound {
		role = models.Role{Role: models.RoleUser}
		require.NoError(t, db.Create(&role).Error)
	} else {
		require.NoError(t, err)
	}

	user := models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "not-a-real-hash",
		IsActive: true,
		RoleID:   role.ID,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// seedShop creates a shop open every day 08:00-22:00 with one evening
// slot 18:00-20:00 (max 40 guests) and the given tables.
func seedShop(t *testing.T, db *gorm.DB, capacities map[string]int) (*models.CoffeeShop, map[string]models.Table) {
	t.Helper()

	shop := models.CoffeeShop{Name: "Test Roastery"}
	require.NoError(t, db.Create(&shop).Error)

	for _, day := range []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"} {
		require.NoError(t, db.Create(&models.OperatingHour{
			ShopID:      shop.ID,
			Weekday:     day,
			OpeningTime: "08:00",
			ClosingTime: "22:00",
			IsOpen:      true,
		}).Error)
	}

	require.NoError(t, db.Create(&models.TimeSlot{
		ShopID:      shop.ID,
		StartTime:   "18:00",
		EndTime:     "20:00",
		MaxCapacity: 40,
		IsActive:    true,
	}).Error)

	tables := make(map[string]models.Table, len(capacities))
	for number, capacity := range capacities {
		table := models.Table{
			ShopID:      shop.ID,
			TableNumber: number,
			Capacity:    capacity,
			IsAvailable: true,
		}
		require.NoError(t, db.Create(&table).Error)
		tables[number] = table
	}
	return &shop, tables
}

// eveningOf returns 18:30 on the next Monday, inside the seeded slot.
func eveningOf() time.Time {
	return time.Date(2026, 9, 7, 18, 30, 0, 0, time.Local)
}
