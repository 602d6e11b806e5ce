package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/coffee-shop-app/models"
	"gorm.io/gorm"
)

// seedLatte creates a latte at 30000 with a required Size type (Large
// +7000) and an optional Milk type (Oat +5000), both whitelisted.
func seedLatte(t *testing.T, db *gorm.DB) (menu models.Menu, large, oat models.Variant) {
	t.Helper()

	shop := models.CoffeeShop{Name: "Pricing Test Shop"}
	require.NoError(t, db.Create(&shop).Error)

	menu = models.Menu{ShopID: shop.ID, Name: "Latte", Price: 30000, IsAvailable: true}
	require.NoError(t, db.Create(&menu).Error)

	size := models.VariantType{Name: "Size", IsRequired: true}
	milk := models.VariantType{Name: "Milk", IsRequired: false}
	require.NoError(t, db.Create(&size).Error)
	require.NoError(t, db.Create(&milk).Error)

	large = models.Variant{VariantTypeID: size.ID, Name: "Large", AdditionalPrice: 7000, IsAvailable: true}
	oat = models.Variant{VariantTypeID: milk.ID, Name: "Oat", AdditionalPrice: 5000, IsAvailable: true}
	require.NoError(t, db.Create(&large).Error)
	require.NoError(t, db.Create(&oat).Error)

	require.NoError(t, db.Create(&models.MenuVariant{MenuID: menu.ID, VariantID: large.ID}).Error)
	require.NoError(t, db.Create(&models.MenuVariant{MenuID: menu.ID, VariantID: oat.ID}).Error)
	return menu, large, oat
}

func pickup() DeliveryInfo {
	return DeliveryInfo{Name: "Tester", DeliveryMethod: models.DeliveryMethodPickup}
}

func TestCreateOrderAdditivePricing(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer")
	menu, large, oat := seedLatte(t, db)

	svc := NewOrderService(db)
	order, err := svc.CreateOrder(user.ID, []OrderItemRequest{
		{CoffeeID: menu.ID, Quantity: 2, VariantIDs: []uint{large.ID, oat.ID}},
		{CoffeeID: menu.ID, Quantity: 1, VariantIDs: []uint{large.ID}},
	}, nil, pickup())
	require.NoError(t, err)

	// 2 * (30000+7000+5000) + 1 * (30000+7000)
	assert.Equal(t, int64(121000), order.TotalPrice)
	require.Len(t, order.OrderItems, 2)
	assert.Equal(t, int64(84000), order.OrderItems[0].Subtotal)
	assert.Equal(t, int64(37000), order.OrderItems[1].Subtotal)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Regexp(t, `^ORD-[0-9A-F]{8}$`, order.OrderID)
	assert.Len(t, order.OrderItems[0].Variants, 2)
}

func TestCreateOrderRejectsEmptyOrder(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer")

	svc := NewOrderService(db)
	_, err := svc.CreateOrder(user.ID, nil, nil, pickup())
	require.Error(t, err)
}

func TestCreateOrderRejectsZeroQuantity(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer")
	menu, large, _ := seedLatte(t, db)

	svc := NewOrderService(db)
	_, err := svc.CreateOrder(user.ID, []OrderItemRequest{
		{CoffeeID: menu.ID, Quantity: 0, VariantIDs: []uint{large.ID}},
	}, nil, pickup())
	require.Error(t, err)
}

func TestCreateOrderRequiredTypeMustBeChosen(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer")
	menu, _, oat := seedLatte(t, db)

	svc := NewOrderService(db)
	_, err := svc.CreateOrder(user.ID, []OrderItemRequest{
		{CoffeeID: menu.ID, Quantity: 1, VariantIDs: []uint{oat.ID}},
	}, nil, pickup())
	require.Error(t, err, "Size is required but no size was picked")
}

func TestCreateOrderRequiredTypeAtMostOnce(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer")
	menu, large, _ := seedLatte(t, db)

	var size models.VariantType
	require.NoError(t, db.Where("name = ?", "Size").First(&size).Error)
	small := models.Variant{VariantTypeID: size.ID, Name: "Small", AdditionalPrice: 0, IsAvailable: true}
	require.NoError(t, db.Create(&small).Error)
	require.NoError(t, db.Create(&models.MenuVariant{MenuID: menu.ID, VariantID: small.ID}).Error)

	svc := NewOrderService(db)
	_, err := svc.CreateOrder(user.ID, []OrderItemRequest{
		{CoffeeID: menu.ID, Quantity: 1, VariantIDs: []uint{large.ID, small.ID}},
	}, nil, pickup())
	require.Error(t, err, "two sizes on one item")
}

func TestCreateOrderRejectsUnlistedVariant(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer")
	menu, _, _ := seedLatte(t, db)

	// A variant that exists but is not whitelisted for the latte.
	var milk models.VariantType
	require.NoError(t, db.Where("name = ?", "Milk").First(&milk).Error)
	soy := models.Variant{VariantTypeID: milk.ID, Name: "Soy", AdditionalPrice: 4000, IsAvailable: true}
	require.NoError(t, db.Create(&soy).Error)

	svc := NewOrderService(db)
	_, err := svc.CreateOrder(user.ID, []OrderItemRequest{
		{CoffeeID: menu.ID, Quantity: 1, VariantIDs: []uint{soy.ID}},
	}, nil, pickup())
	require.Error(t, err)
}

func TestCreateOrderRequiredTypeOnlyBindsOfferingItems(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer")
	_, _, _ = seedLatte(t, db)

	// An espresso with no variants at all stays orderable even though
	// a required Size type exists globally.
	var shop models.CoffeeShop
	require.NoError(t, db.First(&shop).Error)
	espresso := models.Menu{ShopID: shop.ID, Name: "Espresso", Price: 18000, IsAvailable: true}
	require.NoError(t, db.Create(&espresso).Error)

	svc := NewOrderService(db)
	order, err := svc.CreateOrder(user.ID, []OrderItemRequest{
		{CoffeeID: espresso.ID, Quantity: 1},
	}, nil, pickup())
	require.NoError(t, err)
	assert.Equal(t, int64(18000), order.TotalPrice)
}

func TestCreateOrderWithBookingBackfillsLink(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer")
	menu, large, _ := seedLatte(t, db)
	shop, _ := seedShop(t, db, map[string]int{"A1": 2})

	allocator := NewBookingAllocator(db)
	booking, err := allocator.CreateBooking(user.ID, BookingRequest{
		ShopID:      shop.ID,
		BookingDate: eveningOf(),
		GuestCount:  2,
	})
	require.NoError(t, err)

	svc := NewOrderService(db)
	order, err := svc.CreateOrder(user.ID, []OrderItemRequest{
		{CoffeeID: menu.ID, Quantity: 1, VariantIDs: []uint{large.ID}},
	}, &booking.ID, pickup())
	require.NoError(t, err)

	var reloaded models.Booking
	require.NoError(t, db.First(&reloaded, booking.ID).Error)
	require.NotNil(t, reloaded.OrderID)
	assert.Equal(t, order.ID, *reloaded.OrderID)
}

func TestCreateOrderForeignBookingRejected(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")
	menu, large, _ := seedLatte(t, db)
	shop, _ := seedShop(t, db, map[string]int{"A1": 2})

	allocator := NewBookingAllocator(db)
	booking, err := allocator.CreateBooking(owner.ID, BookingRequest{
		ShopID:      shop.ID,
		BookingDate: eveningOf(),
		GuestCount:  2,
	})
	require.NoError(t, err)

	svc := NewOrderService(db)
	_, err = svc.CreateOrder(stranger.ID, []OrderItemRequest{
		{CoffeeID: menu.ID, Quantity: 1, VariantIDs: []uint{large.ID}},
	}, &booking.ID, pickup())
	require.Error(t, err)
}
