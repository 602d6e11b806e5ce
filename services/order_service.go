package services

import (
	"fmt"
	"time"

	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

// OrderService builds orders: validates the item/variant selection
// against the whitelist, prices everything with additive variant
// surcharges and persists the result in one transaction.
type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

type OrderItemRequest struct {
	CoffeeID   uint
	Quantity   int
	VariantIDs []uint
}

type DeliveryInfo struct {
	Name           string
	PhoneNumber    string
	DeliveryMethod string
	Address        string
	Notes          string
}

// pricedItem is one validated line of the order before persistence.
type pricedItem struct {
	menu     models.Menu
	quantity int
	variants []models.Variant
	subtotal int64
}

// CreateOrder validates every (menu item, variants) pair, computes the
// total and persists order, items and chosen variants atomically. The
// order starts as PENDING and belongs to the caller.
func (s *OrderService) CreateOrder(userID uint, items []OrderItemRequest, bookingID *uint, info DeliveryInfo) (*models.Order, error) {
	if len(items) == 0 {
		return nil, utils.ValidationError("an order needs at least one item")
	}
	if info.DeliveryMethod != models.DeliveryMethodDelivery && info.DeliveryMethod != models.DeliveryMethodPickup {
		return nil, utils.ValidationError("delivery_method must be delivery or pickup")
	}

	priced := make([]pricedItem, 0, len(items))
	var total int64
	for _, item := range items {
		p, err := s.priceItem(item)
		if err != nil {
			return nil, err
		}
		priced = append(priced, *p)
		total += p.subtotal
	}

	if bookingID != nil {
		var booking models.Booking
		if err := s.DB.First(&booking, *bookingID).Error; err != nil {
			return nil, utils.NotFoundError("booking not found")
		}
		if booking.UserID != userID {
			return nil, utils.ForbiddenError("the booking belongs to someone else")
		}
	}

	var order *models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		o := models.Order{
			UserID:         userID,
			BookingID:      bookingID,
			Status:         models.OrderStatusPending,
			TotalPrice:     total,
			OrderedAt:      time.Now(),
			DeliveryMethod: info.DeliveryMethod,
			RecipientName:  info.Name,
			RecipientPhone: info.PhoneNumber,
			Address:        info.Address,
			Notes:          info.Notes,
		}

		// ORD ids are random; retry the rare collision.
		for attempt := 0; ; attempt++ {
			o.OrderID = utils.GenerateOrderID()
			var count int64
			if err := tx.Model(&models.Order{}).Where("order_id = ?", o.OrderID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				break
			}
			if attempt >= 5 {
				return fmt.Errorf("could not generate a unique order id")
			}
		}

		if err := tx.Create(&o).Error; err != nil {
			return err
		}

		for _, p := range priced {
			oi := models.OrderItem{
				OrderID:  o.ID,
				MenuID:   p.menu.ID,
				Quantity: p.quantity,
				Subtotal: p.subtotal,
			}
			if err := tx.Create(&oi).Error; err != nil {
				return err
			}
			for _, v := range p.variants {
				oiv := models.OrderItemVariant{
					OrderItemID: oi.ID,
					VariantID:   v.ID,
				}
				if err := tx.Create(&oiv).Error; err != nil {
					return err
				}
			}
		}

		if bookingID != nil {
			if err := tx.Model(&models.Booking{}).Where("id = ?", *bookingID).
				Update("order_id", o.ID).Error; err != nil {
				return err
			}
		}

		order = &o
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.LoadOrder(order.ID)
}

// priceItem checks one requested line against the variant whitelist
// and the required-type rules, then prices it.
func (s *OrderService) priceItem(item OrderItemRequest) (*pricedItem, error) {
	if item.Quantity < 1 {
		return nil, utils.ValidationError("item quantity must be at least 1")
	}

	var menu models.Menu
	if err := s.DB.First(&menu, item.CoffeeID).Error; err != nil {
		return nil, utils.NotFoundError(fmt.Sprintf("coffee %d not found", item.CoffeeID))
	}
	if !menu.IsAvailable {
		return nil, utils.ValidationError(fmt.Sprintf("%s is currently unavailable", menu.Name))
	}

	// The whitelist lookup also pulls the variant and its type so the
	// required-type check needs no further queries.
	var links []models.MenuVariant
	if len(item.VariantIDs) > 0 {
		if err := s.DB.Preload("Variant.VariantType").
			Where("menu_id = ? AND variant_id IN ?", menu.ID, item.VariantIDs).
			Find(&links).Error; err != nil {
			return nil, err
		}
	}

	linked := make(map[uint]models.Variant, len(links))
	for _, l := range links {
		linked[l.VariantID] = l.Variant
	}

	chosenPerType := make(map[uint]int)
	unit := menu.Price
	variants := make([]models.Variant, 0, len(item.VariantIDs))
	for _, id := range item.VariantIDs {
		v, ok := linked[id]
		if !ok {
			return nil, utils.ValidationError(
				fmt.Sprintf("variant %d is not offered for %s", id, menu.Name))
		}
		if !v.IsAvailable {
			return nil, utils.ValidationError(
				fmt.Sprintf("variant %s is currently unavailable", v.Name))
		}
		chosenPerType[v.VariantTypeID]++
		unit += v.AdditionalPrice
		variants = append(variants, v)
	}

	// A required type only binds items that actually offer a variant
	// of that type.
	var requiredTypes []models.VariantType
	if err := s.DB.
		Select("DISTINCT variant_types.*").
		Joins("JOIN variants ON variants.variant_type_id = variant_types.id").
		Joins("JOIN menu_variants ON menu_variants.variant_id = variants.id").
		Where("menu_variants.menu_id = ? AND variant_types.is_required = ?", menu.ID, true).
		Find(&requiredTypes).Error; err != nil {
		return nil, err
	}

	for _, rt := range requiredTypes {
		switch chosenPerType[rt.ID] {
		case 1:
		case 0:
			return nil, utils.ValidationError(
				fmt.Sprintf("%s requires a %s choice", menu.Name, rt.Name))
		default:
			return nil, utils.ValidationError(
				fmt.Sprintf("only one %s may be chosen per item", rt.Name))
		}
	}

	return &pricedItem{
		menu:     menu,
		quantity: item.Quantity,
		variants: variants,
		subtotal: unit * int64(item.Quantity),
	}, nil
}

// LoadOrder fetches an order with its items, variants and menu rows.
func (s *OrderService) LoadOrder(id uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.Preload("OrderItems.Menu").
		Preload("OrderItems.Variants.Variant.VariantType").
		First(&order, id).Error
	if err != nil {
		return nil, utils.NotFoundError("order not found")
	}
	return &order, nil
}
