package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/services"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

type OrderController struct {
	DB     *gorm.DB
	Orders *services.OrderService
	Status *services.StatusService
}

func NewOrderController(db *gorm.DB, orders *services.OrderService, status *services.StatusService) *OrderController {
	return &OrderController{DB: db, Orders: orders, Status: status}
}

type orderItemVariantInput struct {
	VariantID uint `json:"variant_id" binding:"required"`
}

type orderItemInput struct {
	CoffeeID uint                    `json:"coffee_id" binding:"required"`
	Quantity int                     `json:"quantity" binding:"required"`
	Variants []orderItemVariantInput `json:"variants"`
}

type deliveryInfoInput struct {
	Name           string `json:"name"`
	PhoneNumber    string `json:"phone_number"`
	DeliveryMethod string `json:"delivery_method" binding:"required"`
	Address        string `json:"address"`
	Notes          string `json:"notes"`
}

// CreateOrder places a new order for the caller.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var input struct {
		OrderItems   []orderItemInput  `json:"order_items" binding:"required"`
		BookingID    *uint             `json:"booking_id"`
		DeliveryInfo deliveryInfoInput `json:"delivery_info" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	items := make([]services.OrderItemRequest, 0, len(input.OrderItems))
	for _, it := range input.OrderItems {
		variantIDs := make([]uint, 0, len(it.Variants))
		for _, v := range it.Variants {
			variantIDs = append(variantIDs, v.VariantID)
		}
		items = append(items, services.OrderItemRequest{
			CoffeeID:   it.CoffeeID,
			Quantity:   it.Quantity,
			VariantIDs: variantIDs,
		})
	}

	order, err := oc.Orders.CreateOrder(currentUserID(c), items, input.BookingID, services.DeliveryInfo{
		Name:           input.DeliveryInfo.Name,
		PhoneNumber:    input.DeliveryInfo.PhoneNumber,
		DeliveryMethod: input.DeliveryInfo.DeliveryMethod,
		Address:        input.DeliveryInfo.Address,
		Notes:          input.DeliveryInfo.Notes,
	})
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// ListOrders returns orders the caller owns or has paid for, newest
// first, with optional status and date filters.
func (oc *OrderController) ListOrders(c *gin.Context) {
	userID := currentUserID(c)
	query := oc.DB.Preload("OrderItems.Menu").
		Preload("OrderItems.Variants.Variant").
		Where("user_id = ? OR paid_by_user_id = ?", userID, userID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("ordered_at >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("ordered_at < ?", t.AddDate(0, 0, 1))
		}
	}

	var orders []models.Order
	if err := query.Order("ordered_at DESC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders", orders)
}

// ListPayableOrders shows other people's unpaid, unclaimed orders so a
// friend can pick one up. Paginated.
func (oc *OrderController) ListPayableOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	base := oc.DB.Model(&models.Order{}).
		Where("status = ? AND paid_by_user_id IS NULL AND user_id <> ?",
			models.OrderStatusPending, currentUserID(c))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var orders []models.Order
	err := base.Preload("OrderItems.Menu").
		Order("ordered_at DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&orders).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payable orders", gin.H{
		"orders":   orders,
		"page":     page,
		"per_page": perPage,
		"total":    total,
	})
}

// GetOrder returns one order by its public id. Only the owner and the
// payer may see it.
func (oc *OrderController) GetOrder(c *gin.Context) {
	order, ok := oc.visibleOrder(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order", order)
}

// CancelOrder lets the owner cancel a still-PENDING order.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	var order models.Order
	err := oc.DB.Where("order_id = ?", c.Param("order_id")).First(&order).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("order not found"))
		return
	}
	if order.UserID != currentUserID(c) {
		utils.RespondError(c, http.StatusForbidden,
			utils.ForbiddenError("only the order owner can cancel it"))
		return
	}

	from := models.OrderStatusPending
	_, err = oc.Status.TransitionOrder(order.ID, &from, models.OrderStatusCancelled,
		currentUserID(c), "cancelled by customer")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", nil)
}

func (oc *OrderController) visibleOrder(c *gin.Context) (*models.Order, bool) {
	var order models.Order
	err := oc.DB.Preload("OrderItems.Menu").
		Preload("OrderItems.Variants.Variant.VariantType").
		Where("order_id = ?", c.Param("order_id")).
		First(&order).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("order not found"))
		return nil, false
	}

	userID := currentUserID(c)
	isPayer := order.PaidByUserID != nil && *order.PaidByUserID == userID
	if order.UserID != userID && !isPayer {
		utils.RespondError(c, http.StatusForbidden,
			utils.ForbiddenError("this order belongs to another user"))
		return nil, false
	}
	return &order, true
}
